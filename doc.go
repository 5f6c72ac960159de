// Package classwise provides per-label model selection for multi-label
// classification in Go.
//
// A multi-label problem with k label columns is solved as k independent
// binary problems. For each label, every candidate classifier is trained
// (optionally tuned by cross-validated grid search), scored on a stratified
// held-out split, and the winner is persisted under a key derived from the
// label index. Prediction reloads the winners and assembles an n×k matrix.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//
//	    "github.com/YuminosukeSato/classwise/core/store"
//	    "github.com/YuminosukeSato/classwise/sklearn/dummy"
//	    "github.com/YuminosukeSato/classwise/sklearn/model_selection"
//	    "github.com/YuminosukeSato/classwise/sklearn/multilabel"
//	    "github.com/YuminosukeSato/classwise/sklearn/neighbors"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(...) // n×m features
//	    Y := mat.NewDense(...) // n×k binary labels
//
//	    clf, err := multilabel.NewClasswiseClassifier(
//	        []multilabel.ClassifierOption{
//	            multilabel.NewClassifierOption(dummy.NewDummyClassifier()),
//	            multilabel.NewClassifierOption(neighbors.NewKNeighborsClassifier(),
//	                multilabel.WithGridSearch(model_selection.ParamGrid{
//	                    "n_neighbors": {1, 3, 5},
//	                })),
//	        },
//	        multilabel.WithStore(store.NewFileStore(store.DefaultDir("./data"))),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := clf.Fit(X, Y); err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, err := clf.Predict(X)
//	    ...
//	}
//
// # Packages
//
//   - sklearn/multilabel: ClasswiseClassifier, ClassifierOption, YAML Config
//   - sklearn/model_selection: stratified split, StratifiedKFold, GridSearchCV
//   - sklearn/dummy, sklearn/neighbors, sklearn/linear_model: candidate classifiers
//   - core/model: Classifier interfaces, state management, gob persistence
//   - core/store: FileStore and BadgerStore for per-label artifacts
//   - core/parallel: label fan-out on errgroup
//   - metrics: accuracy and the Scorer type
//   - pkg/errors: structured errors and warnings on cockroachdb/errors
//   - pkg/log: structured logging on zerolog
//
// # Persistence layout
//
// FileStore writes one gob file per label:
//
//	<base>/classifier/multi-label/classwise/classifier_<i>.gob
//
// BadgerStore uses the same path, without the extension, as the key.
// Fitting again overwrites the artifacts label by label.
//
// # License
//
// classwise is released under the MIT License.
package classwise
