package store

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/YuminosukeSato/classwise/pkg/log"
	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps classifiers in a BadgerDB database under the
// "classifier/multi-label/classwise/" key prefix.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts log.Logger to badger's Logger interface.
type badgerLogger struct {
	logger log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadgerStore opens (creating if needed) a persistent database at path.
// A nil logger disables badger's internal logging.
func OpenBadgerStore(path string, logger log.Logger) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", "is required for a persistent store", path)
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, errors.NewPersistenceError("open", path, err)
	}
	return openBadger(badger.DefaultOptions(path).WithSyncWrites(true), logger)
}

// OpenInMemoryBadgerStore opens a database that lives only in memory.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), nil)
}

func openBadger(opts badger.Options, logger log.Logger) (*BadgerStore, error) {
	opts = opts.WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.With(log.ComponentKey, "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.NewPersistenceError("open", opts.Dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Key returns the database key of k.
func (s *BadgerStore) Key(k ModelKey) []byte {
	return []byte(Namespace + "/" + k.Name())
}

// Save writes clf under key, replacing any previous value.
func (s *BadgerStore) Save(key ModelKey, clf model.Classifier) error {
	data, err := encode(key, clf)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.Key(key), data)
	})
	if err != nil {
		return errors.NewPersistenceError("save", key.Name(), err)
	}
	return nil
}

// Load reads the classifier stored under key.
func (s *BadgerStore) Load(key ModelKey) (model.Classifier, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.Key(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.NewPersistenceError("load", key.Name(), err)
	}
	return decode(key, data)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.NewPersistenceError("close", Namespace, err)
	}
	return nil
}
