package store

import (
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
)

// FileStore keeps one gob file per label under Dir.
type FileStore struct {
	Dir string
}

// DefaultDir returns the conventional artifact directory below base.
func DefaultDir(base string) string {
	return filepath.Join(base, filepath.FromSlash(Namespace))
}

// NewFileStore returns a store writing to dir. The directory is created on
// the first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file that holds key.
func (s *FileStore) Path(key ModelKey) string {
	return filepath.Join(s.Dir, key.Name()+".gob")
}

// Save writes clf to its file, replacing any previous artifact. The data is
// written to a temporary file first so a failed save leaves the old file intact.
func (s *FileStore) Save(key ModelKey, clf model.Classifier) error {
	data, err := encode(key, clf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return errors.NewPersistenceError("save", key.Name(), err)
	}

	tmp, err := os.CreateTemp(s.Dir, key.Name()+".*.tmp")
	if err != nil {
		return errors.NewPersistenceError("save", key.Name(), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.NewPersistenceError("save", key.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewPersistenceError("save", key.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return errors.NewPersistenceError("save", key.Name(), err)
	}
	return nil
}

// Load reads the classifier stored under key.
func (s *FileStore) Load(key ModelKey) (model.Classifier, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		return nil, errors.NewPersistenceError("load", key.Name(), err)
	}
	return decode(key, data)
}
