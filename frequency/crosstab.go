package frequency

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// CrossTable is a two-way contingency table. Counts[i][j] is the number of
// rows whose first column equals RowLabels[i] and second ColLabels[j].
type CrossTable struct {
	RowColumn string
	ColColumn string
	RowLabels []string
	ColLabels []string
	Counts    [][]int
	RowTotals []int
	ColTotals []int
	Total     int
}

// CrossTab cross-tabulates two columns. Labels are ordered by first
// appearance. With dropNA, rows missing either value are skipped.
func CrossTab(df *frame.DataFrame, rowColumn, colColumn string, dropNA bool) (*CrossTable, error) {
	rows, err := df.Column(rowColumn)
	if err != nil {
		return nil, err
	}
	cols, err := df.Column(colColumn)
	if err != nil {
		return nil, err
	}

	ct := &CrossTable{RowColumn: rowColumn, ColColumn: colColumn}
	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	type pair struct{ r, c int }
	var cells []pair

	for i := range rows {
		rv, cv := rows[i], cols[i]
		if dropNA && (df.IsNA(rv) || df.IsNA(cv)) {
			continue
		}
		r, ok := rowIdx[rv]
		if !ok {
			r = len(ct.RowLabels)
			rowIdx[rv] = r
			ct.RowLabels = append(ct.RowLabels, rv)
		}
		c, ok := colIdx[cv]
		if !ok {
			c = len(ct.ColLabels)
			colIdx[cv] = c
			ct.ColLabels = append(ct.ColLabels, cv)
		}
		cells = append(cells, pair{r, c})
	}

	ct.Counts = make([][]int, len(ct.RowLabels))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.ColLabels))
	}
	ct.RowTotals = make([]int, len(ct.RowLabels))
	ct.ColTotals = make([]int, len(ct.ColLabels))
	for _, p := range cells {
		ct.Counts[p.r][p.c]++
		ct.RowTotals[p.r]++
		ct.ColTotals[p.c]++
	}
	ct.Total = len(cells)
	return ct, nil
}

// ChiSquareResult is the outcome of Pearson's chi-square test of
// independence on a CrossTable.
type ChiSquareResult struct {
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64
	// CramersV is the effect size in [0, 1].
	CramersV float64
}

// ChiSquare tests the two columns of ct for independence.
func ChiSquare(ct *CrossTable) (*ChiSquareResult, error) {
	r, c := len(ct.RowLabels), len(ct.ColLabels)
	if ct.Total == 0 {
		return nil, errors.NewModelError("frequency.ChiSquare", "empty data", errors.ErrEmptyData)
	}
	dof := (r - 1) * (c - 1)
	if dof == 0 {
		return nil, errors.NewValueError("frequency.ChiSquare", "need at least two labels in each column")
	}

	obs := make([]float64, 0, r*c)
	exp := make([]float64, 0, r*c)
	n := float64(ct.Total)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			e := float64(ct.RowTotals[i]) * float64(ct.ColTotals[j]) / n
			if e == 0 {
				return nil, errors.NewValueError("frequency.ChiSquare", "expected frequency is zero")
			}
			obs = append(obs, float64(ct.Counts[i][j]))
			exp = append(exp, e)
		}
	}

	chi2 := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(dof)}
	k := math.Min(float64(r), float64(c)) - 1
	return &ChiSquareResult{
		Statistic:        chi2,
		DegreesOfFreedom: dof,
		PValue:           dist.Survival(chi2),
		CramersV:         math.Sqrt(chi2 / (n * k)),
	}, nil
}
