package modelselection

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/linear"
	"github.com/YuminosukeSato/dshelpers/metrics"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

func sequence(n, cols int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, cols, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, float64(i*cols+j))
		}
		y.Set(i, 0, float64(i))
	}
	return X, y
}

func TestTrainTestSplit(t *testing.T) {
	X, y := sequence(10, 2)

	s, err := TrainTestSplit(X, y, 0.25, 42)
	require.NoError(t, err)

	// ceil(10 * 0.25) = 3
	assert.Len(t, s.TestIndices, 3)
	assert.Len(t, s.TrainIndices, 7)
	r, c := s.XTrain.Dims()
	assert.Equal(t, 7, r)
	assert.Equal(t, 2, c)

	all := append(append([]int{}, s.TrainIndices...), s.TestIndices...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	// rows stay aligned between X and y
	for i, idx := range s.TestIndices {
		assert.Equal(t, float64(idx), s.YTest.At(i, 0))
		assert.Equal(t, float64(idx*2), s.XTest.At(i, 0))
	}

	again, err := TrainTestSplit(X, y, 0.25, 42)
	require.NoError(t, err)
	assert.Equal(t, s.TestIndices, again.TestIndices)
}

func TestTrainTestSplitErrors(t *testing.T) {
	X, y := sequence(4, 1)

	for _, size := range []float64{0, 1, -0.5, 1.5} {
		_, err := TrainTestSplit(X, y, size, 1)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), "test size %v", size)
	}

	_, err := TrainTestSplit(X, mat.NewDense(3, 1, nil), 0.5, 1)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	// ceil(1 * 0.5) takes the only row
	one, oneY := sequence(1, 1)
	_, err = TrainTestSplit(one, oneY, 0.5, 1)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestKFoldSplit(t *testing.T) {
	folds, err := KFold{NSplits: 3}.Split(10)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	assert.Equal(t, []int{0, 1, 2, 3}, folds[0].TestIndices)
	assert.Equal(t, []int{4, 5, 6}, folds[1].TestIndices)
	assert.Equal(t, []int{7, 8, 9}, folds[2].TestIndices)
	assert.Equal(t, []int{0, 1, 2, 3, 7, 8, 9}, folds[1].TrainIndices)

	shuffled, err := KFold{NSplits: 3, Shuffle: true, Seed: 7}.Split(10)
	require.NoError(t, err)
	seen := make(map[int]int)
	for k, f := range shuffled {
		assert.Len(t, f.TestIndices, len(folds[k].TestIndices))
		assert.Len(t, f.TrainIndices, 10-len(f.TestIndices))
		for _, i := range f.TestIndices {
			seen[i]++
		}
	}
	assert.Len(t, seen, 10)
	for i, n := range seen {
		assert.Equal(t, 1, n, "row %d", i)
	}

	_, err = KFold{NSplits: 1}.Split(10)
	assert.Error(t, err)
	_, err = KFold{NSplits: 5}.Split(3)
	assert.Error(t, err)
}

func TestStratifiedKFold(t *testing.T) {
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 0, 0, 1, 1})

	folds, err := StratifiedKFold{NSplits: 2}.Split(y)
	require.NoError(t, err)
	require.Len(t, folds, 2)
	for _, f := range folds {
		assert.Len(t, f.TestIndices, 4)
		positives := 0
		for _, i := range f.TestIndices {
			if y.At(i, 0) == 1 {
				positives++
			}
		}
		assert.Equal(t, 1, positives)
	}
}

func TestCrossValScore(t *testing.T) {
	defer goleak.VerifyNone(t)

	// y = 3x + 2, exactly linear
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, 3*float64(i)+2)
	}

	newEstimator := func() model.Estimator { return linear.NewLinearRegression() }
	scores, err := CrossValScore(context.Background(), newEstimator, X, y,
		KFold{NSplits: 4, Shuffle: true, Seed: 1}, metrics.MSE)
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for _, s := range scores {
		assert.InDelta(t, 0, s, 1e-9)
	}
	assert.InDelta(t, 0, scores.Mean(), 1e-9)
	assert.InDelta(t, 0, scores.Std(), 1e-9)
}

type failingEstimator struct{}

func (failingEstimator) Fit(X, y mat.Matrix) error {
	return errors.NewValueError("failingEstimator.Fit", "always fails")
}

func (failingEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	return nil, nil
}

type panickingEstimator struct{ failingEstimator }

func (panickingEstimator) Fit(X, y mat.Matrix) error {
	panic("boom")
}

func TestCrossValScoreErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	X, y := sequence(6, 1)
	kf := KFold{NSplits: 3}

	_, err := CrossValScore(context.Background(), func() model.Estimator { return failingEstimator{} }, X, y, kf, metrics.MSE)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = CrossValScore(context.Background(), func() model.Estimator { return panickingEstimator{} }, X, y, kf, metrics.MSE)
	var panicErr *errors.PanicError
	assert.True(t, errors.As(err, &panicErr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CrossValScore(ctx, func() model.Estimator { return linear.NewLinearRegression() }, X, y, kf, metrics.MSE)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = CrossValScore(context.Background(), func() model.Estimator { return linear.NewLinearRegression() }, X, mat.NewDense(5, 1, nil), kf, metrics.MSE)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestScoresEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Scores{}.Mean())
	assert.Equal(t, 0.0, Scores{1}.Std())
	assert.InDelta(t, math.Sqrt2, Scores{1, 3}.Std(), 1e-12)
}
