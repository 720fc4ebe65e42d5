// Package preprocessing は数値行列とカテゴリ列のための前処理変換器を提供する。
//
// すべての変換器は model.BaseEstimator を埋め込み、model.SaveModel で
// 学習済みの状態を保存できる。
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/core/parallel"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

// 列数がこれを超えると列ごとの統計を並列に計算する
const parallelColumnThreshold = 64

// 分散がこれ未満の列は定数列とみなす
const constantEpsilon = 1e-8

// StandardScaler は各列を平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各列の平均値（WithMean が false なら 0）
	Mean []float64
	// Scale は各列の母標準偏差（WithStd が false、または定数列なら 1）
	Scale []float64
	// NFeatures は学習時の列数
	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// NewStandardScalerDefault は平均・標準偏差の両方を使うStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は各列の平均と標準偏差を学習する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	errs := make([]error, c)
	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			if err := errors.CheckFinite("StandardScaler.Fit", col); err != nil {
				errs[j] = err
				return
			}
			m, sd := stat.PopMeanStdDev(col, nil)
			scale[j] = 1
			if s.WithMean {
				mean[j] = m
			}
			if s.WithStd && sd >= constantEpsilon {
				scale[j] = sd
			}
		}
	})
	if err := firstError(errs); err != nil {
		return err
	}

	s.Mean, s.Scale, s.NFeatures = mean, scale, c
	s.SetFitted()
	logFitted("StandardScaler", r, c)
	return nil
}

// Transform は (x - mean) / scale を返す
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := checkFitted(&s.BaseEstimator, "StandardScaler", "Transform", s.NFeatures, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}), nil
}

// FitTransform はFitの後に同じデータをTransformする
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化を元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := checkFitted(&s.BaseEstimator, "StandardScaler", "InverseTransform", s.NFeatures, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}), nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler は各列を FeatureRange の範囲（デフォルト[0,1]）に線形変換する
type MinMaxScaler struct {
	model.BaseEstimator

	DataMin []float64
	DataMax []float64
	// Scale は max - min（定数列なら 1）
	Scale     []float64
	NFeatures int

	FeatureRange [2]float64
}

// NewMinMaxScaler は変換後の範囲を指定してMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{FeatureRange: featureRange}
}

// NewMinMaxScalerDefault は[0,1]に変換するMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit は各列の最小値・最大値を学習する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be smaller than maximum", m.FeatureRange)
	}

	lo := make([]float64, c)
	hi := make([]float64, c)
	scale := make([]float64, c)
	errs := make([]error, c)
	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			if err := errors.CheckFinite("MinMaxScaler.Fit", col); err != nil {
				errs[j] = err
				return
			}
			lo[j], hi[j] = floats.Min(col), floats.Max(col)
			scale[j] = hi[j] - lo[j]
			if scale[j] < constantEpsilon {
				scale[j] = 1
			}
		}
	})
	if err := firstError(errs); err != nil {
		return err
	}

	m.DataMin, m.DataMax, m.Scale, m.NFeatures = lo, hi, scale, c
	m.SetFitted()
	logFitted("MinMaxScaler", r, c)
	return nil
}

// Transform は学習した範囲を FeatureRange に写す
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := checkFitted(&m.BaseEstimator, "MinMaxScaler", "Transform", m.NFeatures, X); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		return (v-m.DataMin[j])/m.Scale[j]*width + m.FeatureRange[0]
	}), nil
}

// FitTransform はFitの後に同じデータをTransformする
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := checkFitted(&m.BaseEstimator, "MinMaxScaler", "InverseTransform", m.NFeatures, X); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		return (v-m.FeatureRange[0])/width*m.Scale[j] + m.DataMin[j]
	}), nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g])", m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}

func checkFitted(base *model.BaseEstimator, name, method string, nFeatures int, X mat.Matrix) error {
	if !base.IsFitted() {
		return errors.NewNotFittedError(name, method)
	}
	if _, c := X.Dims(); c != nFeatures {
		return errors.NewDimensionError(name+"."+method, nFeatures, c, 1)
	}
	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// apply は各要素に f(列番号, 値) を適用した新しい行列を返す
func apply(X mat.Matrix, f func(j int, v float64) float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return f(j, X.At(i, j))
	}, out)
	return out
}

var (
	_ model.InverseTransformer = (*StandardScaler)(nil)
	_ model.InverseTransformer = (*MinMaxScaler)(nil)
)

func logFitted(name string, rows, cols int) {
	log.GetLoggerWithName("preprocessing").Debug("Fitted transformer",
		log.EstimatorKey, name,
		log.OperationKey, log.OperationFit,
		log.RowsKey, rows,
		log.ColumnsKey, cols,
	)
}
