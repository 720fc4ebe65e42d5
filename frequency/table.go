// Package frequency builds frequency (contingency) tables for the columns
// of a frame.DataFrame and exports them to an Excel workbook, one sheet per
// column. It also cross-tabulates two columns and tests them for
// independence.
package frequency

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

// Header names of the optional table columns. The value column is headed
// by the source column's own name.
const (
	HeaderSlNo                 = "sl_no"
	HeaderFrequency            = "frequency"
	HeaderPercentage           = "percentage"
	HeaderCumulativePercentage = "cumulative_percentage"
	HeaderStringLength         = "string_length"
)

// Row is one distinct value of a column.
type Row struct {
	SlNo                 int
	Value                string
	Frequency            int
	Percentage           float64
	CumulativePercentage float64
	StringLength         int
}

// Table is the frequency table of one column, most frequent value first.
type Table struct {
	Column string
	Rows   []Row
	// Total is the number of counted cells.
	Total int
	// Distinct is the number of distinct values before truncation.
	Distinct  int
	Truncated bool
	// Numeric is set when every counted value parses as a number; such
	// values are written to Excel as numbers.
	Numeric bool
}

// Build computes the frequency table of one column.
func Build(df *frame.DataFrame, column string, opts ...Option) (*Table, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return build(df, column, o)
}

func build(df *frame.DataFrame, column string, o Options) (*Table, error) {
	counts, err := df.ValueCounts(column, o.DropNA)
	if err != nil {
		return nil, err
	}

	t := &Table{Column: column, Distinct: len(counts), Numeric: len(counts) > 0}
	for _, c := range counts {
		t.Total += c.Count
		if t.Numeric {
			if _, perr := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); perr != nil {
				t.Numeric = false
			}
		}
	}

	// Percentages are taken over every counted cell, before truncation.
	kept := counts
	if limit := min(o.MaxEntries, sheetRowLimit); len(kept) > limit {
		kept = kept[:limit]
		t.Truncated = true
	}
	t.Rows = make([]Row, len(kept))
	cumulative := 0.0
	for i, c := range kept {
		pct := 100 * float64(c.Count) / float64(t.Total)
		cumulative += pct
		t.Rows[i] = Row{
			SlNo:                 i + 1,
			Value:                c.Value,
			Frequency:            c.Count,
			Percentage:           pct,
			CumulativePercentage: cumulative,
			StringLength:         utf8.RuneCountInString(c.Value),
		}
	}

	if t.Truncated {
		errors.Warn(errors.NewTruncationWarning(column, t.Distinct, len(t.Rows)))
	}
	return t, nil
}

// BuildAll computes one table per column, in column order. Columns are
// processed concurrently, at most Options.Workers at a time; the first
// error cancels the remaining work.
func BuildAll(ctx context.Context, df *frame.DataFrame, opts ...Option) ([]*Table, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return buildAll(ctx, df, o)
}

func buildAll(ctx context.Context, df *frame.DataFrame, o Options) ([]*Table, error) {
	columns := df.Columns()
	if len(columns) == 0 {
		return nil, errors.NewModelError("frequency.BuildAll", "no columns", errors.ErrNoColumns)
	}

	logger := log.GetLoggerWithName("frequency")
	tables := make([]*Table, len(columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for j, column := range columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return errors.SafeExecute("frequency.Build", func() error {
				t, err := build(df, column, o)
				if err != nil {
					return err
				}
				tables[j] = t
				logger.Info("Generated frequency table for column",
					log.ColumnKey, column,
					log.DistinctValuesKey, t.Distinct,
					log.KeptRowsKey, len(t.Rows),
					log.TruncatedKey, t.Truncated,
				)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Headers returns the header row for the columns enabled in o.
func (t *Table) Headers(o Options) []string {
	h := make([]string, 0, 6)
	if o.SlNo {
		h = append(h, HeaderSlNo)
	}
	h = append(h, t.Column)
	if o.Frequency {
		h = append(h, HeaderFrequency)
	}
	if o.Percentage {
		h = append(h, HeaderPercentage)
	}
	if o.CumulativePercentage {
		h = append(h, HeaderCumulativePercentage)
	}
	if o.StringLength {
		h = append(h, HeaderStringLength)
	}
	return h
}

// Records returns the table body for the columns enabled in o, one slice
// per row, aligned with Headers.
func (t *Table) Records(o Options) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]any, 0, 6)
		if o.SlNo {
			rec = append(rec, r.SlNo)
		}
		rec = append(rec, t.value(r.Value))
		if o.Frequency {
			rec = append(rec, r.Frequency)
		}
		if o.Percentage {
			rec = append(rec, r.Percentage)
		}
		if o.CumulativePercentage {
			rec = append(rec, r.CumulativePercentage)
		}
		if o.StringLength {
			rec = append(rec, r.StringLength)
		}
		out[i] = rec
	}
	return out
}

// value returns the cell written for v. Numbers are written as numbers
// only when they print back to the same text, so "1.50" and "inf" stay
// strings and keep matching their string length.
func (t *Table) value(v string) any {
	if !t.Numeric {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || strconv.FormatFloat(f, 'f', -1, 64) != v {
		return v
	}
	return f
}

// ColumnWidths returns, per header, the character count of the longest
// cell text (header included) plus 2.
func (t *Table) ColumnWidths(o Options) []float64 {
	headers := t.Headers(o)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, rec := range t.Records(o) {
		for i, cell := range rec {
			if n := utf8.RuneCountInString(cellText(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = float64(w + 2)
	}
	return out
}

func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
