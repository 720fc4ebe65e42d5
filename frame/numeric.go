package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/dshelpers/core/parallel"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// CountValues counts distinct values in order of first appearance and then
// sorts them by count, highest first. Values for which skip returns true
// are ignored; skip may be nil.
func CountValues(values []string, skip func(string) bool) []ValueCount {
	pos := make(map[string]int)
	var counts []ValueCount
	for _, v := range values {
		if skip != nil && skip(v) {
			continue
		}
		if i, ok := pos[v]; ok {
			counts[i].Count++
			continue
		}
		pos[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Float64s parses a column as numbers. Missing cells become NaN; any other
// cell that does not parse yields a ParseError.
func (df *DataFrame) Float64s(name string) ([]float64, error) {
	c, err := df.column("DataFrame.Float64s", name)
	if err != nil {
		return nil, err
	}
	return df.parseColumn(name, c)
}

func (df *DataFrame) parseColumn(name string, c []string) ([]float64, error) {
	out := make([]float64, len(c))
	for i, v := range c {
		if df.IsNA(v) {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.NewParseError(name, i, v)
		}
		out[i] = f
	}
	return out, nil
}

// IsNumeric reports whether every non-missing cell of the column parses as
// a number and at least one such cell exists.
func (df *DataFrame) IsNumeric(name string) bool {
	c, err := df.column("DataFrame.IsNumeric", name)
	if err != nil {
		return false
	}
	seen := false
	for _, v := range c {
		if df.IsNA(v) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns returns the names of the columns IsNumeric accepts.
func (df *DataFrame) NumericColumns() []string {
	var out []string
	for _, n := range df.names {
		if df.IsNumeric(n) {
			out = append(out, n)
		}
	}
	return out
}

// ToMatrix converts the named columns (all columns when none are given)
// into a rows x len(names) matrix. Missing cells become NaN.
func (df *DataFrame) ToMatrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = df.names
	}
	if len(names) == 0 {
		return nil, errors.NewModelError("DataFrame.ToMatrix", "no columns", errors.ErrNoColumns)
	}
	r := df.Len()
	if r == 0 {
		return nil, errors.NewModelError("DataFrame.ToMatrix", "empty data", errors.ErrEmptyData)
	}

	cols := make([][]string, len(names))
	for j, n := range names {
		c, err := df.column("DataFrame.ToMatrix", n)
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}

	out := mat.NewDense(r, len(names), nil)
	errs := make([]error, len(names))
	parallel.Parallelize(len(names), 0, func(start, end int) {
		for j := start; j < end; j++ {
			vals, err := df.parseColumn(names[j], cols[j])
			if err != nil {
				errs[j] = err
				continue
			}
			out.SetCol(j, vals)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	missing := 0
	for _, c := range cols {
		for _, v := range c {
			if df.IsNA(v) {
				missing++
			}
		}
	}
	if missing > 0 {
		errors.Warn(errors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("%d missing cells became NaN", missing)))
	}
	return out, nil
}

// Summary holds descriptive statistics of one numeric column, in the
// layout of pandas' describe().
type Summary struct {
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes every numeric column. It returns the summaries keyed
// by column and the column names in frame order.
func (df *DataFrame) Describe() (map[string]Summary, []string, error) {
	if df.Len() == 0 {
		return nil, nil, errors.NewModelError("DataFrame.Describe", "empty data", errors.ErrEmptyData)
	}
	names := df.NumericColumns()
	if len(names) == 0 {
		return nil, nil, errors.NewValueError("DataFrame.Describe", "no numeric columns")
	}

	out := make(map[string]Summary, len(names))
	for _, n := range names {
		vals, err := df.Float64s(n)
		if err != nil {
			return nil, nil, err
		}
		out[n] = Summarize(vals)
	}
	return out, names, nil
}

// Summarize computes a Summary over the non-NaN values.
func Summarize(values []float64) Summary {
	x := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	s := Summary{Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sort.Float64s(x)
	s.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.Std = stat.StdDev(x, nil)
	} else {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	s.Q25 = Quantile(x, 0.25)
	s.Median = Quantile(x, 0.5)
	s.Q75 = Quantile(x, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted data with linear interpolation
// between the closest ranks, position p*(n-1). This matches numpy's default
// and pandas' describe(); gonum's stat.Quantile only offers the Empirical
// and LinInterp definitions, which place the quantile differently.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
