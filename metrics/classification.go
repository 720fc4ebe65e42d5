package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// PositiveLabel は二値分類指標で陽性とみなすラベル
const PositiveLabel = 1.0

// logLossEpsilon は log(0) を避けるための確率のクリップ幅
const logLossEpsilon = 1e-15

// AccuracyScore は予測が正解と一致した割合を返す
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("AccuracyScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は 1 - AccuracyScore を返す
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := AccuracyScore(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

type binaryCounts struct {
	tp, fp, fn, tn int
}

func countBinary(op string, yTrue, yPred *mat.VecDense) (binaryCounts, error) {
	var c binaryCounts
	n, err := checkPair(op, yTrue, yPred)
	if err != nil {
		return c, err
	}
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i) == PositiveLabel
		p := yPred.AtVec(i) == PositiveLabel
		switch {
		case t && p:
			c.tp++
		case !t && p:
			c.fp++
		case t && !p:
			c.fn++
		default:
			c.tn++
		}
	}
	return c, nil
}

// ratio は num/den を返す。den が0なら警告を出して0を返す。
func ratio(metric, condition string, num, den int) float64 {
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, 0))
		return 0
	}
	return float64(num) / float64(den)
}

// PrecisionScore は tp / (tp + fp) を返す。陽性の予測が無い場合は0。
func PrecisionScore(yTrue, yPred *mat.VecDense) (float64, error) {
	c, err := countBinary("PrecisionScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ratio("precision", "no predicted samples", c.tp, c.tp+c.fp), nil
}

// RecallScore は tp / (tp + fn) を返す。陽性の正解が無い場合は0。
func RecallScore(yTrue, yPred *mat.VecDense) (float64, error) {
	c, err := countBinary("RecallScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ratio("recall", "no true samples", c.tp, c.tp+c.fn), nil
}

// F1Score は適合率と再現率の調和平均 2tp / (2tp + fp + fn) を返す
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	c, err := countBinary("F1Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ratio("f1", "no true nor predicted samples", 2*c.tp, 2*c.tp+c.fp+c.fn), nil
}

// ConfusionMatrix は混同行列とラベル（昇順）を返す。
// 行が正解ラベル、列が予測ラベルに対応する。
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []float64, error) {
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[float64]struct{})
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = struct{}{}
		seen[yPred.AtVec(i)] = struct{}{}
	}
	labels := make([]float64, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Float64s(labels)
	index := make(map[float64]int, len(labels))
	for k, l := range labels {
		index[l] = k
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r, c := index[yTrue.AtVec(i)], index[yPred.AtVec(i)]
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, labels, nil
}

func checkBinaryLabels(op string, y *mat.VecDense) (positives int, err error) {
	for i := 0; i < y.Len(); i++ {
		switch y.AtVec(i) {
		case 0:
		case 1:
			positives++
		default:
			return 0, errors.NewValueError(op, "yTrue must contain only 0 and 1")
		}
	}
	return positives, nil
}

// AUC はROC曲線下面積を順位統計（Mann-Whitney U）で計算する。
// 同じスコアには平均順位を与える。正解が片方のクラスしか無い場合は0.5を返す。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	nPos, err := checkBinaryLabels("AUC", yTrue)
	if err != nil {
		return 0, err
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "only one class present in yTrue", 0.5))
		return 0.5, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) < yScore.AtVec(order[b])
	})

	var rankSumPos float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(order[j+1]) == yScore.AtVec(order[i]) {
			j++
		}
		// 1始まりの順位 i+1 .. j+1 の平均
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if yTrue.AtVec(order[k]) == PositiveLabel {
				rankSumPos += avg
			}
		}
		i = j + 1
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix は行列の先頭列同士でAUCを計算する
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	t, err := columnVector("AUCMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	s, err := columnVector("AUCMatrix", yScore)
	if err != nil {
		return 0, err
	}
	return AUC(t, s)
}

// BinaryLogLoss は二値交差エントロピーを返す。確率は [eps, 1-eps] にクリップする。
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	if _, err := checkBinaryLabels("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yProb.AtVec(i), logLossEpsilon), 1-logLossEpsilon)
		if yTrue.AtVec(i) == PositiveLabel {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}
