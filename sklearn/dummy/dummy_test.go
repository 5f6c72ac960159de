package dummy

import (
	"bytes"
	"testing"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func trainingData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		2, 2,
		3, 3,
	})
	y := mat.NewDense(6, 1, []float64{1, 1, 1, 0, 0, 1})
	return X, y
}

func TestDummyClassifier_MostFrequent(t *testing.T) {
	X, y := trainingData()
	d := NewDummyClassifier()
	require.NoError(t, d.Fit(X, y))

	pred, err := d.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 1.0, pred.At(i, 0))
	}
	assert.Equal(t, []float64{0, 1}, d.Classes)
	assert.Equal(t, []int{2, 4}, d.Counts)
}

func TestDummyClassifier_TieGoesToSmallestClass(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 0, 1, 0})
	d := NewDummyClassifier(WithStrategy(StrategyPrior))
	require.NoError(t, d.Fit(X, y))

	pred, err := d.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(0, 0))
}

func TestDummyClassifier_Constant(t *testing.T) {
	X, y := trainingData()

	d := NewDummyClassifier(WithStrategy(StrategyConstant), WithConstant(0))
	require.NoError(t, d.Fit(X, y))
	pred, err := d.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(3, 0))

	bad := NewDummyClassifier(WithStrategy(StrategyConstant), WithConstant(7))
	var valErr *errors.ValueError
	assert.True(t, errors.As(bad.Fit(X, y), &valErr))
}

func TestDummyClassifier_UniformIsReproducible(t *testing.T) {
	X, y := trainingData()
	d := NewDummyClassifier(WithStrategy(StrategyUniform), WithRandomState(3))
	require.NoError(t, d.Fit(X, y))

	first, err := d.Predict(X)
	require.NoError(t, err)
	second, err := d.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second))
}

func TestDummyClassifier_NotFitted(t *testing.T) {
	_, err := NewDummyClassifier().Predict(mat.NewDense(1, 1, nil))
	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr))
}

func TestDummyClassifier_Params(t *testing.T) {
	d := NewDummyClassifier()
	require.NoError(t, d.SetParams(map[string]interface{}{
		"strategy":     "constant",
		"constant":     1,
		"random_state": 9,
	}))
	assert.Equal(t, StrategyConstant, d.Strategy)
	assert.Equal(t, 1.0, d.Constant)
	assert.Equal(t, int64(9), d.RandomState)

	assert.Error(t, d.SetParams(map[string]interface{}{"strategy": "stratified-ish"}))
	assert.Error(t, d.SetParams(map[string]interface{}{"n_neighbors": 3}))

	clone := d.Clone().(*DummyClassifier)
	assert.Equal(t, d.GetParams(), clone.GetParams())
	assert.False(t, clone.State.IsFitted())
}

func TestDummyClassifier_GobRoundTrip(t *testing.T) {
	X, y := trainingData()
	d := NewDummyClassifier()
	require.NoError(t, d.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(d, &buf))
	loaded, err := model.LoadModelFromReader(&buf)
	require.NoError(t, err)

	want, err := d.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}
