package multilabel

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/core/store"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/YuminosukeSato/classwise/pkg/log"
	"github.com/YuminosukeSato/classwise/sklearn/dummy"
	"github.com/YuminosukeSato/classwise/sklearn/linear_model"
	"github.com/YuminosukeSato/classwise/sklearn/model_selection"
	"github.com/YuminosukeSato/classwise/sklearn/neighbors"
	"gopkg.in/yaml.v3"
)

// Store backends accepted in StoreConfig.Backend.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config is the file form of a ClasswiseClassifier.
//
// Example:
//
//	test_size: 0.25
//	random_state: 0
//	folds: 5
//	workers: 2
//	store:
//	  backend: file
//	  dir: ./data
//	candidates:
//	  - name: dummy
//	  - name: knn
//	    grid:
//	      n_neighbors: [1, 3, 5]
type Config struct {
	TestSize    float64           `yaml:"test_size"`
	RandomState int64             `yaml:"random_state"`
	Folds       int               `yaml:"folds"`
	Workers     int               `yaml:"workers"`
	LogLevel    string            `yaml:"log_level"`
	Store       StoreConfig       `yaml:"store"`
	Candidates  []CandidateConfig `yaml:"candidates"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Dir is the base directory; artifacts go below store.DefaultDir(Dir).
	Dir string `yaml:"dir"`
}

// CandidateConfig describes one candidate by registered name.
type CandidateConfig struct {
	Name string `yaml:"name"`
	// Params are applied to the prototype before fitting.
	Params map[string]interface{} `yaml:"params"`
	// Grid enables grid search when non-empty.
	Grid map[string][]interface{} `yaml:"grid"`
}

// candidateFactories maps candidate names to constructors of untrained models.
var candidateFactories = map[string]func() model.TunableClassifier{
	"dummy":    func() model.TunableClassifier { return dummy.NewDummyClassifier() },
	"knn":      func() model.TunableClassifier { return neighbors.NewKNeighborsClassifier() },
	"logistic": func() model.TunableClassifier { return linear_model.NewLogisticRegression() },
}

// DefaultConfig returns the configuration matching NewClasswiseClassifier's defaults.
func DefaultConfig() Config {
	return Config{
		TestSize: DefaultTestSize,
		Folds:    DefaultFolds,
		Workers:  1,
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".",
		},
	}
}

// LoadConfig reads a YAML file. Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and candidate names.
func (cfg Config) Validate() error {
	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		return errors.NewValidationError("test_size", "must be in the open interval (0, 1)", cfg.TestSize)
	}
	if cfg.Folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", cfg.Folds)
	}
	if cfg.Workers < 1 {
		return errors.NewValidationError("workers", "must be at least 1", cfg.Workers)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return errors.NewValidationError("log_level", err.Error(), cfg.LogLevel)
	}
	if cfg.Store.Backend != BackendFile && cfg.Store.Backend != BackendBadger {
		return errors.NewValidationError("store.backend", "must be file or badger", cfg.Store.Backend)
	}
	if len(cfg.Candidates) == 0 {
		return errors.NewValidationError("candidates", "at least one candidate is required", 0)
	}
	for i, cand := range cfg.Candidates {
		if _, ok := candidateFactories[cand.Name]; !ok {
			return errors.NewValidationError(fmt.Sprintf("candidates[%d].name", i), "unknown candidate", cand.Name)
		}
	}
	return nil
}

// ClassifierOptions builds the candidates in file order.
func (cfg Config) ClassifierOptions() ([]ClassifierOption, error) {
	options := make([]ClassifierOption, 0, len(cfg.Candidates))
	for i, cand := range cfg.Candidates {
		factory, ok := candidateFactories[cand.Name]
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("candidates[%d].name", i), "unknown candidate", cand.Name)
		}
		clf := factory()
		if err := clf.SetParams(cand.Params); err != nil {
			return nil, errors.Wrapf(err, "candidates[%d] (%s)", i, cand.Name)
		}

		var opts []OptionFunc
		if len(cand.Grid) > 0 {
			opts = append(opts, WithGridSearch(model_selection.ParamGrid(cand.Grid)))
		}
		options = append(options, NewClassifierOption(clf, opts...))
	}
	return options, nil
}

// OpenStore opens the configured backend. The returned close function must
// be called when the store is no longer needed.
func (cfg Config) OpenStore() (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case BackendBadger:
		s, err := store.OpenBadgerStore(store.DefaultDir(cfg.Store.Dir), nil)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return store.NewFileStore(store.DefaultDir(cfg.Store.Dir)), func() error { return nil }, nil
	}
}

// Options converts the scalar settings into classifier options using s as
// the store.
func (cfg Config) Options(s store.Store) []Option {
	return []Option{
		WithStore(s),
		WithTestSize(cfg.TestSize),
		WithRandomState(cfg.RandomState),
		WithCV(model_selection.NewStratifiedKFold(cfg.Folds, true, cfg.RandomState)),
		WithWorkers(cfg.Workers),
	}
}

// NewClasswiseClassifierFromConfig builds a classifier and its store from cfg.
// The returned close function releases the store.
func NewClasswiseClassifierFromConfig(cfg Config, opts ...Option) (*ClasswiseClassifier, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	candidates, err := cfg.ClassifierOptions()
	if err != nil {
		return nil, nil, err
	}
	s, closeStore, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	clf, err := NewClasswiseClassifier(candidates, append(cfg.Options(s), opts...)...)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return clf, closeStore, nil
}
