package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// WeightsVersion は Weights の形式のバージョン
const WeightsVersion = "1"

// Weights は線形モデルの重みを人が読める JSON で受け渡すための構造体
// gob と違い、他の言語やツールからも読める
type Weights struct {
	// ModelType はモデルの種類（LinearRegression など）
	ModelType string `json:"model_type"`

	// Version は形式のバージョン（互換性チェック用）
	Version string `json:"version"`

	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`

	// Features は特徴量の名前（任意）
	Features []string `json:"features,omitempty"`

	// Hyperparameters は学習時の設定
	Hyperparameters map[string]any `json:"hyperparameters,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON はインデント付きの JSON にする
func (w *Weights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode weights")
	}
	return data, nil
}

// WeightsFromJSON は JSON を読み込んで検証する
func WeightsFromJSON(data []byte) (*Weights, error) {
	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to decode weights")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate は Weights の妥当性を検証する
func (w *Weights) Validate() error {
	if w.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", w.ModelType)
	}
	if w.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", w.Version)
	}
	if w.IsFitted && len(w.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", len(w.Coefficients))
	}
	if !w.IsFitted && len(w.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(w.Coefficients))
	}
	if len(w.Features) > 0 && len(w.Features) != len(w.Coefficients) {
		return errors.NewDimensionError("Weights.Validate", len(w.Coefficients), len(w.Features), 1)
	}
	return errors.CheckFinite("Weights.Validate", append([]float64{w.Intercept}, w.Coefficients...))
}
