package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// LabelEncoder はカテゴリ文字列を 0..n-1 の整数に変換する。
// ラベルは辞書順に並べる。
type LabelEncoder struct {
	model.BaseEstimator

	Classes []string
	index   map[string]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit はユニークなラベルを学習する
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	e.Classes = sortedUnique(labels)
	e.index = indexOf(e.Classes)
	e.SetFitted()
	return nil
}

// Transform は各ラベルの番号を返す。未知のラベルはValueErrorになる。
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	idx := e.index
	if idx == nil {
		// gob から復元した直後は索引が無い
		idx = indexOf(e.Classes)
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		k, ok := idx[l]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", fmt.Sprintf("y contains previously unseen label %q", l))
		}
		out[i] = k
	}
	return out, nil
}

// FitTransform はFitの後に同じラベルをTransformする
func (e *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform は番号をラベルに戻す
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	out := make([]string, len(codes))
	for i, k := range codes {
		if k < 0 || k >= len(e.Classes) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform", fmt.Sprintf("code %d out of range [0, %d)", k, len(e.Classes)))
		}
		out[i] = e.Classes[k]
	}
	return out, nil
}

// HandleUnknown の値
const (
	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

// OneHotEncoder はカテゴリ列をカテゴリごとの0/1列に展開する
type OneHotEncoder struct {
	model.BaseEstimator

	// HandleUnknown が "ignore" なら未知のカテゴリは全て0の行になる
	HandleUnknown string

	// Labels は学習したカテゴリ（辞書順）
	Labels []string
	index  map[string]int
}

// NewOneHotEncoder は未知カテゴリをエラーにするOneHotEncoderを作成する
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{HandleUnknown: HandleUnknownError}
}

// Fit はカテゴリを学習する
func (e *OneHotEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	switch e.HandleUnknown {
	case "", HandleUnknownError, HandleUnknownIgnore:
	default:
		return errors.NewValidationError("handle_unknown", "must be error or ignore", e.HandleUnknown)
	}
	e.Labels = sortedUnique(values)
	e.index = indexOf(e.Labels)
	e.SetFitted()
	return nil
}

// Transform は len(values) × カテゴリ数 の行列を返す
func (e *OneHotEncoder) Transform(values []string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(values) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}
	idx := e.index
	if idx == nil {
		idx = indexOf(e.Labels)
	}
	out := mat.NewDense(len(values), len(e.Labels), nil)
	for i, v := range values {
		k, ok := idx[v]
		if !ok {
			if e.HandleUnknown == HandleUnknownIgnore {
				continue
			}
			return nil, errors.NewValueError("OneHotEncoder.Transform", fmt.Sprintf("found unknown category %q", v))
		}
		out.Set(i, k, 1)
	}
	return out, nil
}

// FitTransform はFitの後に同じ値をTransformする
func (e *OneHotEncoder) FitTransform(values []string) (*mat.Dense, error) {
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// Categories は学習したカテゴリを列の順に返す
func (e *OneHotEncoder) Categories() []string {
	return append([]string(nil), e.Labels...)
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}
