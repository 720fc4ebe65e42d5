package preprocessing

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

func assertMatrixInDelta(t *testing.T, want [][]float64, got mat.Matrix) {
	t.Helper()
	r, c := got.Dims()
	require.Equal(t, len(want), r)
	for i := range want {
		require.Equal(t, len(want[i]), c)
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got.At(i, j), 1e-9, "at (%d, %d)", i, j)
		}
	}
}

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(3, 3, []float64{
		1, 10, 7,
		2, 20, 7,
		3, 30, 7,
	})
	s := NewStandardScalerDefault()
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 20, 7}, s.Mean)
	assert.InDelta(t, math.Sqrt(2.0/3), s.Scale[0], 1e-12)
	assert.Equal(t, 1.0, s.Scale[2], "constant column keeps scale 1")

	z := 1 / math.Sqrt(2.0/3)
	assertMatrixInDelta(t, [][]float64{{-z, -z, 0}, {0, 0, 0}, {z, z, 0}}, out)

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
	assert.Contains(t, s.String(), "n_features=3")
}

func TestStandardScalerOptions(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	noMean := NewStandardScaler(false, true)
	out, err := noMean.FitTransform(X)
	require.NoError(t, err)
	assertMatrixInDelta(t, [][]float64{{2}, {4}}, out)

	noStd := NewStandardScaler(true, false)
	out, err = noStd.FitTransform(X)
	require.NoError(t, err)
	assertMatrixInDelta(t, [][]float64{{-1}, {1}}, out)
}

func TestStandardScalerManyColumns(t *testing.T) {
	// enough columns to take the parallel path
	const c = 100
	data := make([]float64, 2*c)
	for j := 0; j < c; j++ {
		data[j] = float64(j)
		data[c+j] = float64(j) + 2
	}
	s := NewStandardScalerDefault()
	out, err := s.FitTransform(mat.NewDense(2, c, data))
	require.NoError(t, err)
	for j := 0; j < c; j++ {
		assert.InDelta(t, -1, out.At(0, j), 1e-12)
		assert.InDelta(t, 1, out.At(1, j), 1e-12)
	}
}

func TestScalerErrors(t *testing.T) {
	tests := []struct {
		name   string
		scaler model.InverseTransformer
	}{
		{"standard", NewStandardScalerDefault()},
		{"minmax", NewMinMaxScalerDefault()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scaler.Transform(mat.NewDense(1, 1, []float64{1}))
			var nf *errors.NotFittedError
			assert.True(t, errors.As(err, &nf))

			err = tt.scaler.Fit(&mat.Dense{})
			assert.True(t, errors.Is(err, errors.ErrEmptyData))

			err = tt.scaler.Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}))
			var nonFinite *errors.NonFiniteError
			assert.True(t, errors.As(err, &nonFinite))

			require.NoError(t, tt.scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
			_, err = tt.scaler.Transform(mat.NewDense(1, 3, nil))
			var dim *errors.DimensionError
			assert.True(t, errors.As(err, &dim))
		})
	}
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 10,
		3, 30,
		5, 50,
	})

	m := NewMinMaxScalerDefault()
	out, err := m.FitTransform(X)
	require.NoError(t, err)
	assertMatrixInDelta(t, [][]float64{{0, 0}, {0.5, 0.5}, {1, 1}}, out)
	assert.Equal(t, []float64{1, 10}, m.DataMin)
	assert.Equal(t, []float64{5, 50}, m.DataMax)

	wide := NewMinMaxScaler([2]float64{-1, 1})
	out, err = wide.FitTransform(X)
	require.NoError(t, err)
	assertMatrixInDelta(t, [][]float64{{-1, -1}, {0, 0}, {1, 1}}, out)

	back, err := wide.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))

	bad := NewMinMaxScaler([2]float64{1, 0})
	var valErr *errors.ValidationError
	assert.True(t, errors.As(bad.Fit(X), &valErr))
}

func TestSimpleImputer(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(4, 2, []float64{
		1, nan,
		nan, 4,
		3, 4,
		5, 2,
	})

	tests := []struct {
		strategy string
		stats    []float64
	}{
		{StrategyMean, []float64{3, 10.0 / 3}},
		{StrategyMedian, []float64{3, 4}},
		{StrategyMostFrequent, []float64{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			imp := NewSimpleImputer(tt.strategy)
			out, err := imp.FitTransform(X)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.stats, imp.Statistics, 1e-12)
			assert.InDelta(t, tt.stats[0], out.At(1, 0), 1e-12)
			assert.InDelta(t, tt.stats[1], out.At(0, 1), 1e-12)
			assert.Equal(t, 5.0, out.At(3, 0))
		})
	}

	t.Run("constant", func(t *testing.T) {
		imp := NewConstantImputer(-1)
		out, err := imp.FitTransform(X)
		require.NoError(t, err)
		assert.Equal(t, -1.0, out.At(1, 0))
		assert.Equal(t, -1.0, out.At(0, 1))
	})
}

func TestSimpleImputerErrors(t *testing.T) {
	nan := math.NaN()
	allMissing := mat.NewDense(2, 1, []float64{nan, nan})

	_, err := NewSimpleImputer(StrategyMean).FitTransform(allMissing)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = NewConstantImputer(0).FitTransform(allMissing)
	assert.NoError(t, err)

	err = NewSimpleImputer("mode").Fit(allMissing)
	var validation *errors.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestLabelEncoder(t *testing.T) {
	enc := NewLabelEncoder()
	codes, err := enc.FitTransform([]string{"paris", "tokyo", "amsterdam", "tokyo"})
	require.NoError(t, err)

	assert.Equal(t, []string{"amsterdam", "paris", "tokyo"}, enc.Classes)
	assert.Equal(t, []int{1, 2, 0, 2}, codes)

	labels, err := enc.InverseTransform([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"tokyo", "amsterdam"}, labels)

	_, err = enc.Transform([]string{"berlin"})
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = enc.InverseTransform([]int{3})
	assert.Error(t, err)

	_, err = NewLabelEncoder().Transform([]string{"a"})
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestOneHotEncoder(t *testing.T) {
	enc := NewOneHotEncoder()
	out, err := enc.FitTransform([]string{"red", "blue", "red"})
	require.NoError(t, err)

	assert.Equal(t, []string{"blue", "red"}, enc.Categories())
	assert.True(t, mat.Equal(mat.NewDense(3, 2, []float64{
		0, 1,
		1, 0,
		0, 1,
	}), out))

	_, err = enc.Transform([]string{"green"})
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	enc.HandleUnknown = HandleUnknownIgnore
	out, err = enc.Transform([]string{"green", "blue"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, mat.Row(nil, 0, out))
	assert.Equal(t, []float64{1, 0}, mat.Row(nil, 1, out))
}

func TestPersistence(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	s := NewStandardScalerDefault()
	require.NoError(t, s.Fit(X))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(s, &buf))

	loaded := &StandardScaler{}
	require.NoError(t, model.LoadModelFromReader(loaded, &buf))
	assert.True(t, loaded.IsFitted())

	want, err := s.Transform(X)
	require.NoError(t, err)
	got, err := loaded.Transform(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))

	enc := NewLabelEncoder()
	require.NoError(t, enc.Fit([]string{"b", "a"}))
	buf.Reset()
	require.NoError(t, model.SaveModelToWriter(enc, &buf))

	loadedEnc := &LabelEncoder{}
	require.NoError(t, model.LoadModelFromReader(loadedEnc, &buf))
	codes, err := loadedEnc.Transform([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, codes)
}

func TestFitLogsDebugRecord(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	prev := log.SetLogger(testLogger)
	defer log.SetLogger(prev)

	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, NewMinMaxScalerDefault().Fit(X))
	require.NoError(t, NewSimpleImputer(StrategyMean).Fit(X))

	assert.True(t, testLogger.ContainsMessage("Fitted transformer"))
	assert.True(t, testLogger.ContainsField(log.EstimatorKey, "MinMaxScaler"))
	assert.True(t, testLogger.ContainsField(log.EstimatorKey, "SimpleImputer"))
	assert.True(t, testLogger.ContainsField(log.RowsKey, 2.0))
}
