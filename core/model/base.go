package model

// EstimatorState は変換器・推定器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は学習済みの状態
	Fitted
)

// BaseEstimator は全ての変換器・推定器に埋め込む基底構造体
// State はgobで保存できるよう公開フィールドにしている
type BaseEstimator struct {
	State EstimatorState
}

// IsFitted は学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted は学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset は初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}
