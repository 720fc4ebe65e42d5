// Package linear は最小二乗法による線形回帰を提供する。
// modelselection.CrossValScore の推定器や viz.Scatter の回帰直線に使う。
package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/core/parallel"
	"github.com/YuminosukeSato/dshelpers/metrics"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense // 係数
	Intercept float64       // 切片
	NFeatures int

	FitIntercept bool
}

// NewLinearRegression は新しい線形回帰モデルを作成する（デフォルトで切片あり）
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{FitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit は最小二乗問題 min ||Xw - y|| をQR分解で解く
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	offset := 0
	if lr.FitIntercept {
		offset = 1
	}
	if r < c+offset {
		return errors.NewModelError("LinearRegression.Fit",
			fmt.Sprintf("need at least %d samples, got %d", c+offset, r), errors.ErrSingularMatrix)
	}

	// 切片項のために先頭に 1 の列を追加
	design := mat.NewDense(r, c+offset, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				design.Set(i, 0, 1)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	var w mat.Dense
	if err := w.Solve(design, y); err != nil {
		return errors.NewModelError("LinearRegression.Fit", err.Error(), errors.ErrSingularMatrix)
	}

	lr.Intercept = 0
	if offset == 1 {
		lr.Intercept = w.At(0, 0)
	}
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, w.At(j+offset, 0))
	}
	lr.NFeatures = c
	lr.SetFitted()
	return nil
}

// Predict は X * weights + intercept を n×1 行列で返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	var pred mat.VecDense
	pred.MulVec(X, lr.Weights)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, pred.AtVec(i)+lr.Intercept)
	}
	return out, nil
}

// Coefficients は学習された係数を返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// Score は決定係数（R²）を返す
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	return metrics.R2Score(
		mat.NewVecDense(r, mat.Col(nil, 0, y)),
		mat.NewVecDense(r, mat.Col(nil, 0, yPred)),
	)
}

// FitLine は単回帰 y = slope*x + intercept を当てはめる
func FitLine(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) {
		return 0, 0, errors.NewDimensionError("linear.FitLine", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return 0, 0, errors.NewModelError("linear.FitLine", "empty data", errors.ErrEmptyData)
	}
	lr := NewLinearRegression()
	if err := lr.Fit(mat.NewDense(len(x), 1, x), mat.NewDense(len(y), 1, y)); err != nil {
		return 0, 0, err
	}
	return lr.Weights.AtVec(0), lr.Intercept, nil
}

// ExportWeights は学習済みの係数を JSON で受け渡せる形にする
func (lr *LinearRegression) ExportWeights(features ...string) (*model.Weights, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "ExportWeights")
	}
	if len(features) > 0 && len(features) != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.ExportWeights", lr.NFeatures, len(features), 1)
	}
	return &model.Weights{
		ModelType:       "LinearRegression",
		Version:         model.WeightsVersion,
		Coefficients:    lr.Coefficients(),
		Intercept:       lr.Intercept,
		Features:        features,
		Hyperparameters: map[string]any{"fit_intercept": lr.FitIntercept},
		IsFitted:        true,
	}, nil
}

// ImportWeights は ExportWeights の結果から学習済みモデルを復元する
func (lr *LinearRegression) ImportWeights(w *model.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != "LinearRegression" {
		return errors.NewValidationError("model_type", "expected LinearRegression", w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewValueError("LinearRegression.ImportWeights", "weights are not fitted")
	}
	if v, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		lr.FitIntercept = v
	}
	lr.Weights = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	lr.Intercept = w.Intercept
	lr.NFeatures = len(w.Coefficients)
	lr.SetFitted()
	return nil
}

// String はモデルの文字列表現を返す
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.FitIntercept)
	}
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d)", lr.FitIntercept, lr.NFeatures)
}

var _ model.Estimator = (*LinearRegression)(nil)
