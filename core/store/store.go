// Package store persists the per-label winners of a classwise fit.
//
// Each label's classifier is written under its own ModelKey. Two backends
// are provided: FileStore (one gob file per label) and BadgerStore (an
// embedded BadgerDB key/value store).
package store

import (
	"bytes"
	"fmt"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
)

// Namespace is the logical location of classwise artifacts, shared by the
// file layout and the badger key prefix.
const Namespace = "classifier/multi-label/classwise"

// ModelKey identifies the artifact of one label column.
type ModelKey struct {
	Index int
}

// Name returns the base name of the artifact, e.g. "classifier_3".
func (k ModelKey) Name() string {
	return fmt.Sprintf("classifier_%d", k.Index)
}

// String implements fmt.Stringer.
func (k ModelKey) String() string {
	return k.Name()
}

// Store saves and loads trained classifiers by key. Saving under an existing
// key replaces the previous artifact.
type Store interface {
	Save(key ModelKey, clf model.Classifier) error
	Load(key ModelKey) (model.Classifier, error)
}

func encode(key ModelKey, clf model.Classifier) ([]byte, error) {
	if key.Index < 0 {
		return nil, errors.NewPersistenceError("save", key.Name(),
			errors.Newf("negative label index %d", key.Index))
	}
	var buf bytes.Buffer
	if err := model.SaveModelToWriter(clf, &buf); err != nil {
		return nil, errors.NewPersistenceError("save", key.Name(), err)
	}
	return buf.Bytes(), nil
}

func decode(key ModelKey, data []byte) (model.Classifier, error) {
	clf, err := model.LoadModelFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewPersistenceError("load", key.Name(), err)
	}
	return clf, nil
}
