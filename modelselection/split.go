// Package modelselection はデータ分割と交差検証のヘルパーを提供する。
package modelselection

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// Split は TrainTestSplit の結果
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.Dense
	// TrainIndices と TestIndices は元の行番号
	TrainIndices []int
	TestIndices  []int
}

// newRand は seed から再現可能な乱数生成器を作る
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// TrainTestSplit は行をシャッフルして学習用とテスト用に分ける。
// テスト行数は ceil(n * testSize)。同じ seed なら同じ分割になる。
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (*Split, error) {
	n, _ := X.Dims()
	ny, _ := y.Dims()
	if n == 0 {
		return nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, ny, 0)
	}
	if !(testSize > 0 && testSize < 1) {
		return nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		return nil, errors.NewValueError("TrainTestSplit",
			"test_size leaves no training rows")
	}

	perm := newRand(seed).Perm(n)
	test := append([]int(nil), perm[:nTest]...)
	train := append([]int(nil), perm[nTest:]...)

	return &Split{
		XTrain:       takeRows(X, train),
		XTest:        takeRows(X, test),
		YTrain:       takeRows(y, train),
		YTest:        takeRows(y, test),
		TrainIndices: train,
		TestIndices:  test,
	}, nil
}

// takeRows は指定した行を順に並べた行列を返す
func takeRows(m mat.Matrix, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(r, j))
		}
	}
	return out
}

// Fold は交差検証の1分割
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold は k 分割交差検証の分割器
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// Split は [0, n) を NSplits 個のテスト集合に分ける。
// 先頭の n % NSplits 個の分割が1行多くなる。
func (kf KFold) Split(n int) ([]Fold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.NSplits)
	}
	if n < kf.NSplits {
		return nil, errors.NewValueError("KFold.Split",
			"cannot have number of splits greater than the number of samples")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := newRand(kf.Seed)
		r.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}

	folds := make([]Fold, kf.NSplits)
	size, extra := n/kf.NSplits, n%kf.NSplits
	start := 0
	for k := range folds {
		end := start + size
		if k < extra {
			end++
		}
		folds[k] = makeFold(indices, start, end)
		start = end
	}
	return folds, nil
}

func makeFold(indices []int, start, end int) Fold {
	test := append([]int(nil), indices[start:end]...)
	train := make([]int, 0, len(indices)-len(test))
	train = append(train, indices[:start]...)
	train = append(train, indices[end:]...)
	sort.Ints(test)
	sort.Ints(train)
	return Fold{TrainIndices: train, TestIndices: test}
}

// StratifiedKFold はクラス比率を保つ k 分割交差検証の分割器
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// Split は各クラスの行を分割に順番に配る。y は n×1 のラベル。
func (skf StratifiedKFold) Split(y mat.Matrix) ([]Fold, error) {
	if skf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", skf.NSplits)
	}
	n, _ := y.Dims()
	if n < skf.NSplits {
		return nil, errors.NewValueError("StratifiedKFold.Split",
			"cannot have number of splits greater than the number of samples")
	}

	byClass := make(map[float64][]int)
	var classes []float64
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		if _, ok := byClass[label]; !ok {
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	sort.Float64s(classes)

	var r *rand.Rand
	if skf.Shuffle {
		r = newRand(skf.Seed)
	}
	assigned := make([]int, n)
	next := 0
	for _, c := range classes {
		rows := byClass[c]
		if r != nil {
			r.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		}
		for _, row := range rows {
			assigned[row] = next % skf.NSplits
			next++
		}
	}

	folds := make([]Fold, skf.NSplits)
	for i, k := range assigned {
		for f := range folds {
			if f == k {
				folds[f].TestIndices = append(folds[f].TestIndices, i)
			} else {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
	}
	return folds, nil
}
