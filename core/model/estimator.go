package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1 の列ベクトル）
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は交差検証などの評価ヘルパーが扱う教師ありモデル
type Estimator interface {
	Fitter
	Predictor
}

// ScoreFunc は正解と予測から評価値を計算する関数
// metrics パッケージの関数はこの形に合わせてある
type ScoreFunc func(yTrue, yPred *mat.VecDense) (float64, error)
