package multilabel

import (
	"testing"

	"github.com/YuminosukeSato/classwise/sklearn/model_selection"
	"github.com/YuminosukeSato/classwise/sklearn/neighbors"
	"github.com/stretchr/testify/assert"
)

func TestClassifierOption_Defaults(t *testing.T) {
	a := NewClassifierOption(neighbors.NewKNeighborsClassifier())
	b := NewClassifierOption(neighbors.NewKNeighborsClassifier())

	assert.False(t, a.GridSearch())
	assert.Empty(t, a.Parameter())

	// each option owns its own empty grid
	a.parameter["n_neighbors"] = []interface{}{1}
	assert.Empty(t, b.Parameter())
}

func TestClassifierOption_GridIsCopied(t *testing.T) {
	grid := model_selection.ParamGrid{"n_neighbors": {1, 3}}
	o := NewClassifierOption(neighbors.NewKNeighborsClassifier(), WithGridSearch(grid))

	grid["n_neighbors"][0] = 99
	grid["metric"] = []interface{}{"manhattan"}

	assert.True(t, o.GridSearch())
	assert.Equal(t, model_selection.ParamGrid{"n_neighbors": {1, 3}}, o.Parameter())

	got := o.Parameter()
	got["n_neighbors"][1] = 7
	assert.Equal(t, 3, o.Parameter()["n_neighbors"][1])
}
