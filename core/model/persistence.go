package model

import (
	"encoding/gob"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/classwise/pkg/errors"
)

// envelope は interface 型のまま gob に書き出すための入れ物
type envelope struct {
	Classifier Classifier
}

// RegisterClassifier は具象型を gob に登録する
//
// 各分類器パッケージは init で自身を登録する。登録されていない型は
// SaveModelToWriter で ErrNotRegistered を返す。
//
// 使用例:
//
//	func init() {
//	    model.RegisterClassifier(&KNeighborsClassifier{})
//	}
func RegisterClassifier(c Classifier) {
	gob.Register(c)
}

// SaveModelToWriter は学習済み分類器を io.Writer に保存する
func SaveModelToWriter(c Classifier, w io.Writer) error {
	if c == nil {
		return errors.NewValueError("SaveModelToWriter", "classifier is nil")
	}
	if err := gob.NewEncoder(w).Encode(&envelope{Classifier: c}); err != nil {
		if strings.Contains(err.Error(), "not registered") {
			return errors.Wrapf(errors.ErrNotRegistered, "failed to encode %T: %v", c, err)
		}
		return errors.Wrapf(err, "failed to encode %T", c)
	}
	return nil
}

// LoadModelFromReader は io.Reader から分類器を読み込む
func LoadModelFromReader(r io.Reader) (Classifier, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "failed to decode classifier")
	}
	if env.Classifier == nil {
		return nil, errors.New("decoded classifier is nil")
	}
	return env.Classifier, nil
}

// SaveModel は分類器をファイルに保存する
//
// パラメータ:
//   - c: 保存する分類器（RegisterClassifier 済みの型）
//   - filename: 保存先のファイルパス
func SaveModel(c Classifier, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := SaveModelToWriter(c, file); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// LoadModel はファイルから分類器を読み込む
func LoadModel(filename string) (Classifier, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(file)
}
