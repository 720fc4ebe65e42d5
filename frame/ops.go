package frame

import (
	"strings"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// Head returns the first n rows (all rows when n exceeds Len).
func (df *DataFrame) Head(n int) *DataFrame {
	if n < 0 {
		n = 0
	}
	if n > df.Len() {
		n = df.Len()
	}
	cols := make([][]string, len(df.cols))
	for j, c := range df.cols {
		cols[j] = append([]string(nil), c[:n]...)
	}
	return df.derive(df.names, cols)
}

// Select returns a frame with only the named columns, in the given order.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	if err := validateNames("DataFrame.Select", names); err != nil {
		return nil, err
	}
	cols := make([][]string, len(names))
	for j, n := range names {
		c, err := df.column("DataFrame.Select", n)
		if err != nil {
			return nil, err
		}
		cols[j] = append([]string(nil), c...)
	}
	return df.derive(names, cols), nil
}

// Filter keeps the rows for which keep returns true.
func (df *DataFrame) Filter(keep func(row map[string]string) bool) *DataFrame {
	var idx []int
	for i := 0; i < df.Len(); i++ {
		if keep(df.Row(i)) {
			idx = append(idx, i)
		}
	}
	return df.take(idx)
}

func (df *DataFrame) take(idx []int) *DataFrame {
	cols := make([][]string, len(df.cols))
	for j, c := range df.cols {
		out := make([]string, len(idx))
		for k, i := range idx {
			out[k] = c[i]
		}
		cols[j] = out
	}
	return df.derive(df.names, cols)
}

// DropNA removes rows with a missing value in any of the named columns,
// or in any column when no names are given.
func (df *DataFrame) DropNA(names ...string) (*DataFrame, error) {
	check := make([][]string, 0, len(names))
	if len(names) == 0 {
		check = df.cols
	}
	for _, n := range names {
		c, err := df.column("DataFrame.DropNA", n)
		if err != nil {
			return nil, err
		}
		check = append(check, c)
	}

	var idx []int
rows:
	for i := 0; i < df.Len(); i++ {
		for _, c := range check {
			if df.IsNA(c[i]) {
				continue rows
			}
		}
		idx = append(idx, i)
	}
	return df.take(idx), nil
}

// FillNA replaces missing cells of the named column with value.
func (df *DataFrame) FillNA(name, value string) (*DataFrame, error) {
	j, ok := df.index[name]
	if !ok {
		return nil, errors.NewColumnError("DataFrame.FillNA", name)
	}
	cols := make([][]string, len(df.cols))
	copy(cols, df.cols)
	filled := append([]string(nil), df.cols[j]...)
	for i, v := range filled {
		if df.IsNA(v) {
			filled[i] = value
		}
	}
	cols[j] = filled
	return df.derive(df.names, cols), nil
}

// DropDuplicates removes repeated rows, keeping the first occurrence.
func (df *DataFrame) DropDuplicates() *DataFrame {
	seen := make(map[string]struct{}, df.Len())
	var idx []int
	var key strings.Builder
	for i := 0; i < df.Len(); i++ {
		key.Reset()
		for _, c := range df.cols {
			key.WriteString(c[i])
			key.WriteByte(0)
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		idx = append(idx, i)
	}
	return df.take(idx)
}

// Rename changes a column name.
func (df *DataFrame) Rename(oldName, newName string) (*DataFrame, error) {
	j, ok := df.index[oldName]
	if !ok {
		return nil, errors.NewColumnError("DataFrame.Rename", oldName)
	}
	names := df.Columns()
	names[j] = newName
	if err := validateNames("DataFrame.Rename", names); err != nil {
		return nil, err
	}
	return df.derive(names, df.cols), nil
}

// ValueCount is one distinct value and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts the distinct values of a column. The result is sorted
// by count, highest first; equal counts keep first-appearance order. With
// dropNA, missing cells are not counted.
func (df *DataFrame) ValueCounts(name string, dropNA bool) ([]ValueCount, error) {
	c, err := df.column("DataFrame.ValueCounts", name)
	if err != nil {
		return nil, err
	}
	return CountValues(c, func(v string) bool { return dropNA && df.IsNA(v) }), nil
}
