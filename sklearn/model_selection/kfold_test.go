package model_selection

import (
	"sort"
	"testing"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStratifiedKFold_Split(t *testing.T) {
	X, y := balanced(20)
	skf := NewStratifiedKFold(5, true, 0)

	folds, err := skf.Split(X, y)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := make([]int, 20)
	for _, fold := range folds {
		assert.Len(t, fold.TestIndices, 4)
		assert.Len(t, fold.TrainIndices, 16)
		assert.True(t, sort.IntsAreSorted(fold.TestIndices))
		assert.True(t, sort.IntsAreSorted(fold.TrainIndices))
		assert.Equal(t, map[float64]int{0: 2, 1: 2}, countLabels(SelectRows(y, fold.TestIndices)))
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
	}
	for i, n := range seen {
		assert.Equal(t, 1, n, "row %d", i)
	}
}

func TestStratifiedKFold_Deterministic(t *testing.T) {
	X, y := balanced(25)

	a, err := NewStratifiedKFold(5, true, 0).Split(X, y)
	require.NoError(t, err)
	b, err := NewStratifiedKFold(5, true, 0).Split(X, y)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStratifiedKFold_WarnsOnSmallClass(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1})
	folds, err := NewStratifiedKFold(5, false, 0).Split(X, y)
	require.NoError(t, err)
	assert.Len(t, folds, 5)

	require.Len(t, warnings, 1)
	var sw *errors.SplitWarning
	assert.True(t, errors.As(warnings[0], &sw))
}

func TestStratifiedKFold_Errors(t *testing.T) {
	X, y := balanced(3)
	_, err := NewStratifiedKFold(5, true, 0).Split(X, y)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	skf := &StratifiedKFold{NSplits: 1}
	_, err = skf.Split(X, y)
	assert.Error(t, err)

	assert.Equal(t, 5, NewStratifiedKFold(0, false, 0).GetNSplits())
}
