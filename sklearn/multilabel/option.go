package multilabel

import (
	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/sklearn/model_selection"
)

// ClassifierOption describes one candidate: an untrained classifier, whether
// to tune it by grid search, and the grid to search. It is immutable once
// built; the classifier is cloned before every fit.
type ClassifierOption struct {
	clf        model.Classifier
	gridSearch bool
	parameter  model_selection.ParamGrid
}

// OptionFunc configures a ClassifierOption.
type OptionFunc func(*ClassifierOption)

// WithGridSearch enables cross-validated search over grid. The grid is copied.
func WithGridSearch(grid model_selection.ParamGrid) OptionFunc {
	return func(o *ClassifierOption) {
		o.gridSearch = true
		o.parameter = grid.Copy()
	}
}

// NewClassifierOption creates a candidate for clf. Without options the
// candidate is fitted directly and its parameter grid is empty.
func NewClassifierOption(clf model.Classifier, opts ...OptionFunc) ClassifierOption {
	o := ClassifierOption{
		clf:       clf,
		parameter: model_selection.ParamGrid{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Classifier returns the untrained prototype.
func (o ClassifierOption) Classifier() model.Classifier {
	return o.clf
}

// GridSearch reports whether the candidate is tuned by grid search.
func (o ClassifierOption) GridSearch() bool {
	return o.gridSearch
}

// Parameter returns a copy of the parameter grid.
func (o ClassifierOption) Parameter() model_selection.ParamGrid {
	return o.parameter.Copy()
}
