// Package frame provides DataFrame, a small column-oriented table of string
// cells with the manipulation helpers data-science scripts usually reach
// for: reading CSV and Excel, selecting and filtering, missing-value
// handling, value counts, numeric summaries and conversion to gonum
// matrices.
package frame

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// DefaultNAValues are the cell texts treated as missing.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"}

// DataFrame is an immutable-by-convention table. Every operation that
// changes shape or content returns a new DataFrame.
type DataFrame struct {
	names []string
	index map[string]int
	cols  [][]string
	na    map[string]struct{}
}

// New builds a DataFrame from a header and row-major records.
func New(columns []string, rows [][]string) (*DataFrame, error) {
	if err := validateNames("frame.New", columns); err != nil {
		return nil, err
	}
	cols := make([][]string, len(columns))
	for j := range cols {
		cols[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.NewDimensionError("frame.New", len(columns), len(row), 1)
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return build(columns, cols, nil), nil
}

// FromColumns builds a DataFrame from named columns; names gives the order.
func FromColumns(names []string, columns map[string][]string) (*DataFrame, error) {
	if err := validateNames("frame.FromColumns", names); err != nil {
		return nil, err
	}
	cols := make([][]string, len(names))
	for j, name := range names {
		col, ok := columns[name]
		if !ok {
			return nil, errors.NewColumnError("frame.FromColumns", name)
		}
		if j > 0 && len(col) != len(cols[0]) {
			return nil, errors.NewDimensionError("frame.FromColumns", len(cols[0]), len(col), 0)
		}
		cols[j] = append([]string(nil), col...)
	}
	return build(names, cols, nil), nil
}

func validateNames(op string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return errors.NewValidationError("columns", "column names must not be empty", names)
		}
		if _, dup := seen[n]; dup {
			return errors.NewValidationError("columns", fmt.Sprintf("%s: duplicate column name %q", op, n), names)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func build(names []string, cols [][]string, na map[string]struct{}) *DataFrame {
	if na == nil {
		na = naSet(DefaultNAValues)
	}
	index := make(map[string]int, len(names))
	for j, n := range names {
		index[n] = j
	}
	return &DataFrame{
		names: append([]string(nil), names...),
		index: index,
		cols:  cols,
		na:    na,
	}
}

func naSet(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// derive returns a frame sharing this frame's NA configuration.
func (df *DataFrame) derive(names []string, cols [][]string) *DataFrame {
	return build(names, cols, df.na)
}

// Columns returns a copy of the column names in order.
func (df *DataFrame) Columns() []string {
	return append([]string(nil), df.names...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	if len(df.cols) == 0 {
		return 0
	}
	return len(df.cols[0])
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.names)
}

// Has reports whether the frame has a column called name.
func (df *DataFrame) Has(name string) bool {
	_, ok := df.index[name]
	return ok
}

// Column returns a copy of the named column.
func (df *DataFrame) Column(name string) ([]string, error) {
	j, ok := df.index[name]
	if !ok {
		return nil, errors.NewColumnError("DataFrame.Column", name)
	}
	return append([]string(nil), df.cols[j]...), nil
}

// column returns the backing slice without copying.
func (df *DataFrame) column(op, name string) ([]string, error) {
	j, ok := df.index[name]
	if !ok {
		return nil, errors.NewColumnError(op, name)
	}
	return df.cols[j], nil
}

// Row returns the i-th row as a map from column name to cell.
func (df *DataFrame) Row(i int) map[string]string {
	row := make(map[string]string, len(df.names))
	for j, n := range df.names {
		row[n] = df.cols[j][i]
	}
	return row
}

// Records returns the rows in column order.
func (df *DataFrame) Records() [][]string {
	out := make([][]string, df.Len())
	for i := range out {
		rec := make([]string, len(df.names))
		for j := range df.names {
			rec[j] = df.cols[j][i]
		}
		out[i] = rec
	}
	return out
}

// IsNA reports whether v is one of the frame's missing-value markers.
// Surrounding whitespace is ignored.
func (df *DataFrame) IsNA(v string) bool {
	_, ok := df.na[strings.TrimSpace(v)]
	return ok
}

// String renders the first rows for debugging.
func (df *DataFrame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame(%d rows x %d columns)\n", df.Len(), df.Width())
	b.WriteString(strings.Join(df.names, "\t"))
	b.WriteByte('\n')
	n := df.Len()
	if n > 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		for j := range df.names {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(df.cols[j][i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
