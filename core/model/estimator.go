package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は n×1 の列ベクトル
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行い、n×1 の行列を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier は候補として使える二値分類器のインターフェース
//
// Clone は同じハイパーパラメータを持つ未学習のコピーを返す。
// 候補モデルはラベルごと・foldごとに複製してから学習されるため、
// 呼び出し元が渡したインスタンス自体は変更されない。
type Classifier interface {
	Fitter
	Predictor
	Clone() Classifier
}
