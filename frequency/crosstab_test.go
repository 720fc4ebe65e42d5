package frequency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

func TestCrossTab(t *testing.T) {
	df := readFrame(t, irisCSV)

	ct, err := CrossTab(df, "species", "city", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"setosa", "virginica"}, ct.RowLabels)
	assert.Equal(t, []string{"Paris", "Rome"}, ct.ColLabels)
	assert.Equal(t, [][]int{{2, 0}, {1, 1}}, ct.Counts)
	assert.Equal(t, []int{2, 2}, ct.RowTotals)
	assert.Equal(t, []int{3, 1}, ct.ColTotals)
	assert.Equal(t, 4, ct.Total)

	all, err := CrossTab(df, "species", "city", false)
	require.NoError(t, err)
	assert.Equal(t, 6, all.Total)
	assert.Equal(t, []string{"setosa", "virginica", "versicolor"}, all.RowLabels)

	_, err = CrossTab(df, "species", "missing", true)
	var colErr *errors.ColumnError
	assert.True(t, errors.As(err, &colErr))
}

// contingency builds a frame whose cross tabulation of a and b is counts.
func contingency(t *testing.T, counts [][]int) *frame.DataFrame {
	t.Helper()
	var b strings.Builder
	b.WriteString("a,b\n")
	for i, row := range counts {
		for j, n := range row {
			for k := 0; k < n; k++ {
				b.WriteString(string(rune('p'+i)) + "," + string(rune('x'+j)) + "\n")
			}
		}
	}
	return readFrame(t, b.String())
}

func TestChiSquare(t *testing.T) {
	df := contingency(t, [][]int{{10, 20}, {30, 40}})
	ct, err := CrossTab(df, "a", "b", true)
	require.NoError(t, err)

	res, err := ChiSquare(ct)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DegreesOfFreedom)
	assert.InDelta(t, 0.7936507936507936, res.Statistic, 1e-12)
	assert.InDelta(t, 0.37299848361348714, res.PValue, 1e-9)
	assert.InDelta(t, 0.0890870806374748, res.CramersV, 1e-12)
}

func TestChiSquareErrors(t *testing.T) {
	tests := []struct {
		name   string
		counts [][]int
	}{
		{"single row label", [][]int{{3, 4}}},
		{"single column label", [][]int{{3}, {4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := CrossTab(contingency(t, tt.counts), "a", "b", true)
			require.NoError(t, err)
			_, err = ChiSquare(ct)
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr))
		})
	}

	_, err := ChiSquare(&CrossTable{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
