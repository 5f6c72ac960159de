package multilabel

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/classwise/core/store"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/YuminosukeSato/classwise/sklearn/dummy"
	"github.com/YuminosukeSato/classwise/sklearn/model_selection"
	"github.com/YuminosukeSato/classwise/sklearn/neighbors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
test_size: 0.3
random_state: 4
folds: 3
workers: 2
log_level: debug
store:
  backend: file
  dir: %s
candidates:
  - name: dummy
    params:
      strategy: prior
  - name: knn
    grid:
      n_neighbors: [1, 3]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
candidates:
  - name: dummy
    params:
      strategy: prior
  - name: knn
    grid:
      n_neighbors: [1, 3]
      metric: [euclidean]
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultTestSize, cfg.TestSize)
	assert.Equal(t, DefaultFolds, cfg.Folds)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	require.Len(t, cfg.Candidates, 2)

	options, err := cfg.ClassifierOptions()
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.False(t, options[0].GridSearch())
	assert.Equal(t, dummy.StrategyPrior, options[0].Classifier().(*dummy.DummyClassifier).Strategy)

	assert.True(t, options[1].GridSearch())
	assert.IsType(t, &neighbors.KNeighborsClassifier{}, options[1].Classifier())
	assert.Equal(t, model_selection.ParamGrid{
		"n_neighbors": {1, 3},
		"metric":      {"euclidean"},
	}, options[1].Parameter())
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"no candidates":     `test_size: 0.25`,
		"unknown candidate": "candidates:\n  - name: svm\n",
		"bad test size":     "test_size: 1.5\ncandidates:\n  - name: dummy\n",
		"bad backend":       "store:\n  backend: s3\ncandidates:\n  - name: dummy\n",
		"bad folds":         "folds: 1\ncandidates:\n  - name: dummy\n",
		"bad log level":     "log_level: loud\ncandidates:\n  - name: dummy\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}

	_, err := ParseConfig([]byte("candidates: [oops"))
	assert.Error(t, err)
}

func TestConfig_BadParams(t *testing.T) {
	cfg, err := ParseConfig([]byte("candidates:\n  - name: knn\n    params:\n      leaf_size: 30\n"))
	require.NoError(t, err)
	_, err = cfg.ClassifierOptions()
	assert.Error(t, err)
}

func TestNewClasswiseClassifierFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		replaceDir(sampleConfig, dir)), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.TestSize)
	assert.Equal(t, 2, cfg.Workers)

	clf, closeStore, err := NewClasswiseClassifierFromConfig(cfg)
	require.NoError(t, err)
	defer closeStore()

	X, y := separated()
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, 1, clf.Selections()[0].Selected)

	_, err = os.Stat(filepath.Join(store.DefaultDir(dir), "classifier_0.gob"))
	assert.NoError(t, err)
}

func TestConfig_BadgerBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store = StoreConfig{Backend: BackendBadger, Dir: t.TempDir()}
	cfg.Candidates = []CandidateConfig{{Name: "dummy"}, {Name: "knn", Params: map[string]interface{}{"n_neighbors": 1}}}

	clf, closeStore, err := NewClasswiseClassifierFromConfig(cfg)
	require.NoError(t, err)

	X, y := separated()
	require.NoError(t, clf.Fit(X, y))
	pred, err := clf.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(19, 0))
	require.NoError(t, closeStore())
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func replaceDir(doc, dir string) string {
	return fmt.Sprintf(doc, dir)
}
