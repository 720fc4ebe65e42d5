package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// 欠損値補完の戦略
const (
	StrategyMean         = "mean"
	StrategyMedian       = "median"
	StrategyMostFrequent = "most_frequent"
	StrategyConstant     = "constant"
)

// SimpleImputer は NaN を列ごとの統計量で置き換える。
// frame.DataFrame.ToMatrix は欠損セルを NaN にするので、そのまま入力にできる。
type SimpleImputer struct {
	model.BaseEstimator

	// Strategy は "mean", "median", "most_frequent", "constant" のいずれか
	Strategy string
	// FillValue は Strategy が "constant" のときの補完値
	FillValue float64

	// Statistics は学習した列ごとの補完値
	Statistics []float64
	NFeatures  int
}

// NewSimpleImputer は指定した戦略のSimpleImputerを作成する
func NewSimpleImputer(strategy string) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy}
}

// NewConstantImputer は NaN を value で埋めるSimpleImputerを作成する
func NewConstantImputer(value float64) *SimpleImputer {
	return &SimpleImputer{Strategy: StrategyConstant, FillValue: value}
}

// Fit は NaN を除いた値から列ごとの補完値を学習する
func (s *SimpleImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "empty data", errors.ErrEmptyData)
	}
	switch s.Strategy {
	case StrategyMean, StrategyMedian, StrategyMostFrequent, StrategyConstant:
	default:
		return errors.NewValidationError("strategy", "must be mean, median, most_frequent or constant", s.Strategy)
	}

	stats := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		if s.Strategy == StrategyConstant {
			stats[j] = s.FillValue
			continue
		}
		mat.Col(col, j, X)
		present := observed(col)
		if len(present) == 0 {
			return errors.NewValueError("SimpleImputer.Fit",
				fmt.Sprintf("column %d has no observed values for strategy %q", j, s.Strategy))
		}
		switch s.Strategy {
		case StrategyMean:
			stats[j] = stat.Mean(present, nil)
		case StrategyMedian:
			sort.Float64s(present)
			stats[j] = frame.Quantile(present, 0.5)
		case StrategyMostFrequent:
			stats[j] = mostFrequent(present)
		}
	}

	s.Statistics, s.NFeatures = stats, c
	s.SetFitted()
	logFitted("SimpleImputer", r, c)
	return nil
}

// Transform は NaN を学習した補完値で置き換えた行列を返す
func (s *SimpleImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := checkFitted(&s.BaseEstimator, "SimpleImputer", "Transform", s.NFeatures, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		if math.IsNaN(v) {
			return s.Statistics[j]
		}
		return v
	}), nil
}

// FitTransform はFitの後に同じデータをTransformする
func (s *SimpleImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

func observed(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// mostFrequent は最頻値を返す。同数の場合は小さい値を選ぶ。
func mostFrequent(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := math.Inf(1), 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

var _ model.Transformer = (*SimpleImputer)(nil)
