package model_selection

import (
	"sort"
	"testing"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// balanced returns n rows with X[i] = i and y alternating 0/1.
func balanced(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i%2))
	}
	return X, y
}

func countLabels(y mat.Matrix) map[float64]int {
	n, _ := y.Dims()
	out := map[float64]int{}
	for i := 0; i < n; i++ {
		out[y.At(i, 0)]++
	}
	return out
}

func TestTrainTestSplit_SizesAndStratification(t *testing.T) {
	X, y := balanced(20)

	split, err := TrainTestSplit(X, y, 0.25, 0)
	require.NoError(t, err)

	assert.Len(t, split.TestIndices, 5)
	assert.Len(t, split.TrainIndices, 15)
	assert.Equal(t, map[float64]int{0: 3, 1: 2}, countLabels(split.YTest))
	assert.Equal(t, map[float64]int{0: 7, 1: 8}, countLabels(split.YTrain))

	all := append(append([]int(nil), split.TrainIndices...), split.TestIndices...)
	sort.Ints(all)
	for i, idx := range all {
		assert.Equal(t, i, idx)
	}

	// rows follow their indices
	for i, idx := range split.TestIndices {
		assert.Equal(t, float64(idx), split.XTest.At(i, 0))
		assert.Equal(t, y.At(idx, 0), split.YTest.At(i, 0))
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	X, y := balanced(30)

	a, err := TrainTestSplit(X, y, 0.25, 0)
	require.NoError(t, err)
	b, err := TrainTestSplit(X, y, 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, a.TrainIndices, b.TrainIndices)
	assert.Equal(t, a.TestIndices, b.TestIndices)

	c, err := TrainTestSplit(X, y, 0.25, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.TestIndices, c.TestIndices)
}

func TestTrainTestSplit_KeepsEveryClassOnBothSides(t *testing.T) {
	// 18 of class 0, 2 of class 1: the rare class gets one row per side
	X := mat.NewDense(20, 1, nil)
	y := mat.NewDense(20, 1, nil)
	y.Set(4, 0, 1)
	y.Set(15, 0, 1)

	split, err := TrainTestSplit(X, y, 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, countLabels(split.YTest)[1])
	assert.Equal(t, 1, countLabels(split.YTrain)[1])
}

func TestTrainTestSplit_Errors(t *testing.T) {
	var stratErr *errors.StratificationError

	t.Run("single class", func(t *testing.T) {
		X := mat.NewDense(8, 1, nil)
		y := mat.NewDense(8, 1, []float64{1, 1, 1, 1, 1, 1, 1, 1})
		_, err := TrainTestSplit(X, y, 0.25, 0)
		assert.True(t, errors.As(err, &stratErr))
	})

	t.Run("singleton class", func(t *testing.T) {
		X := mat.NewDense(8, 1, nil)
		y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 0, 0, 0, 1})
		_, err := TrainTestSplit(X, y, 0.25, 0)
		assert.True(t, errors.As(err, &stratErr))
		assert.Equal(t, 1.0, stratErr.Class)
		assert.Equal(t, 1, stratErr.Members)
	})

	t.Run("test set smaller than class count", func(t *testing.T) {
		X, y := balanced(4)
		_, err := TrainTestSplit(X, y, 0.25, 0)
		assert.True(t, errors.As(err, &stratErr))
	})

	t.Run("bad test size", func(t *testing.T) {
		X, y := balanced(10)
		_, err := TrainTestSplit(X, y, 1.5, 0)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("row mismatch", func(t *testing.T) {
		X, _ := balanced(10)
		_, y := balanced(9)
		_, err := TrainTestSplit(X, y, 0.25, 0)
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})
}
