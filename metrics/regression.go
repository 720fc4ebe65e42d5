// Package metrics はモデル評価のための回帰・分類指標を提供する。
//
// すべての関数は model.ScoreFunc と同じ形 (yTrue, yPred *mat.VecDense) を取るので、
// modelselection.CrossValScore にそのまま渡せる。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// checkPair は2つのベクトルが空でなく同じ長さであることを確認し、長さを返す
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// columnVector は n×1 行列（複数列なら先頭列）を VecDense にする
func columnVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
}

// MSE は平均二乗誤差を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += d * d
	}
	return sum / float64(n), nil
}

// MSEMatrix は n×1 行列に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}
	t, _ := columnVector("MSEMatrix", yTrue)
	p, _ := columnVector("MSEMatrix", yPred)
	return MSE(t, p)
}

// RMSE は平方根平均二乗誤差を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数 1 - RSS/TSS を計算する。
// yTrue が定数で TSS が 0 の場合はValueErrorを返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	t := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(t, nil)

	var tss, rss float64
	for i := 0; i < n; i++ {
		d := t[i] - yPred.AtVec(i)
		tss += (t[i] - mean) * (t[i] - mean)
		rss += d * d
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセント誤差を計算する。yTrue が0の要素は除外する。
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred.AtVec(i)) / math.Abs(t)
		valid++
	}
	if valid == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore は 1 - Var(yTrue - yPred) / Var(yTrue) を計算する
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	t := mat.Col(nil, 0, yTrue)
	diff := make([]float64, n)
	for i := range diff {
		diff[i] = t[i] - yPred.AtVec(i)
	}
	varTrue := stat.PopVariance(t, nil)
	if varTrue == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "no variance in yTrue")
	}
	return 1 - stat.PopVariance(diff, nil)/varTrue, nil
}
