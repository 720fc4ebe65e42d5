package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// SaveModel は学習済みの変換器をgob形式でファイルに保存する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScalerDefault()
//	_ = scaler.Fit(X)
//	err := model.SaveModel(scaler, "scaler.gob")
func SaveModel(m interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()

	return SaveModelToWriter(m, file)
}

// LoadModel はファイルから変換器を読み込む。m はポインタであること
func LoadModel(m interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(m, file)
}

// SaveModelToWriter はio.Writerに保存する
func SaveModelToWriter(m interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerから読み込む
func LoadModelFromReader(m interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
