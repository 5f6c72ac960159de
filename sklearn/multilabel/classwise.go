// Package multilabel implements classwise model selection for multi-label
// classification.
//
// ClasswiseClassifier treats each label column as an independent binary
// problem. For every label it fits each candidate (optionally tuned by
// grid search), scores the candidates on a stratified held-out split and
// persists the winner in a store.Store. Prediction reloads the winners and
// assembles their outputs column by column.
//
// Example:
//
//	clf, err := multilabel.NewClasswiseClassifier(
//	    []multilabel.ClassifierOption{
//	        multilabel.NewClassifierOption(dummy.NewDummyClassifier()),
//	        multilabel.NewClassifierOption(neighbors.NewKNeighborsClassifier(),
//	            multilabel.WithGridSearch(model_selection.ParamGrid{"n_neighbors": {1, 3, 5}})),
//	    },
//	    multilabel.WithStore(store.NewFileStore(store.DefaultDir(dataDir))),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := clf.Fit(X, Y); err != nil {
//	    return err
//	}
//	pred, err := clf.Predict(X)
package multilabel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/core/parallel"
	"github.com/YuminosukeSato/classwise/core/store"
	"github.com/YuminosukeSato/classwise/metrics"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/YuminosukeSato/classwise/pkg/log"
	"github.com/YuminosukeSato/classwise/sklearn/model_selection"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTestSize is the held-out fraction used to compare candidates.
	DefaultTestSize = 0.25
	// DefaultFolds is the number of cross-validation folds used by grid search.
	DefaultFolds = 5
)

// LabelSelection records how the winner of one label was chosen.
// It holds scores and keys only; the models themselves live in the store.
type LabelSelection struct {
	Label int
	Key   store.ModelKey

	// Selected is the index of the winning candidate.
	Selected int
	// Model describes the winning fitted classifier.
	Model string
	// Scores holds the held-out score of every candidate, in option order.
	Scores []float64
	// BestParams holds the parameters chosen by grid search per candidate;
	// nil for candidates fitted directly.
	BestParams []map[string]interface{}

	TrainSamples int
	TestSamples  int
}

// BestScore returns the held-out score of the winner.
func (s LabelSelection) BestScore() float64 {
	return s.Scores[s.Selected]
}

// ClasswiseClassifier selects and persists one binary classifier per label.
type ClasswiseClassifier struct {
	options     []ClassifierOption
	store       store.Store
	testSize    float64
	randomState int64
	cv          model_selection.Splitter
	scorer      metrics.Scorer
	workers     int
	logger      log.Logger

	mu         sync.RWMutex
	handles    []store.ModelKey
	selections []LabelSelection
	state      *model.StateManager
}

// Option configures a ClasswiseClassifier.
type Option func(*ClasswiseClassifier)

// WithStore sets where the per-label winners are persisted.
// The default is a FileStore under store.DefaultDir(".").
func WithStore(s store.Store) Option {
	return func(c *ClasswiseClassifier) {
		c.store = s
	}
}

// WithTestSize sets the held-out fraction of the stratified split.
func WithTestSize(testSize float64) Option {
	return func(c *ClasswiseClassifier) {
		c.testSize = testSize
	}
}

// WithRandomState sets the seed of the train/test split and of the default
// cross-validation shuffle.
func WithRandomState(seed int64) Option {
	return func(c *ClasswiseClassifier) {
		c.randomState = seed
	}
}

// WithCV sets the splitter used by grid search. The default is a shuffled
// 5-fold StratifiedKFold seeded with the random state.
func WithCV(cv model_selection.Splitter) Option {
	return func(c *ClasswiseClassifier) {
		c.cv = cv
	}
}

// WithScorer sets the metric used to compare candidates. Higher is better.
func WithScorer(scorer metrics.Scorer) Option {
	return func(c *ClasswiseClassifier) {
		c.scorer = scorer
	}
}

// WithWorkers sets how many labels are processed concurrently.
func WithWorkers(n int) Option {
	return func(c *ClasswiseClassifier) {
		c.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *ClasswiseClassifier) {
		c.logger = logger
	}
}

// NewClasswiseClassifier creates an unfitted classifier choosing among options.
func NewClasswiseClassifier(options []ClassifierOption, opts ...Option) (*ClasswiseClassifier, error) {
	if len(options) == 0 {
		return nil, errors.NewValidationError("classifier_options", "at least one candidate is required", 0)
	}

	c := &ClasswiseClassifier{
		options:  append([]ClassifierOption(nil), options...),
		testSize: DefaultTestSize,
		scorer:   metrics.AccuracyScorer,
		workers:  1,
		state:    model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, o := range c.options {
		if o.clf == nil {
			return nil, errors.NewValidationError(fmt.Sprintf("classifier_options[%d]", i), "classifier must not be nil", nil)
		}
	}
	if c.testSize <= 0 || c.testSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", c.testSize)
	}
	if c.workers < 1 {
		return nil, errors.NewValidationError("workers", "must be at least 1", c.workers)
	}
	if c.scorer == nil {
		return nil, errors.NewValidationError("scorer", "must not be nil", nil)
	}
	if c.store == nil {
		c.store = store.NewFileStore(store.DefaultDir("."))
	}
	if c.cv == nil {
		c.cv = model_selection.NewStratifiedKFold(DefaultFolds, true, c.randomState)
	}
	if c.logger == nil {
		c.logger = log.GetLogger()
	}
	c.logger = c.logger.With(log.ModelNameKey, c.String(), log.ComponentKey, "multilabel")

	return c, nil
}

// Fit selects and persists a classifier for every column of y.
func (c *ClasswiseClassifier) Fit(X, y mat.Matrix) error {
	return c.FitContext(context.Background(), X, y)
}

// FitContext is Fit with cancellation. Cancellation is checked between
// candidates; a running candidate fit is not interrupted.
//
// On error the classifier is left unfitted. Artifacts already written for
// other labels stay in the store.
func (c *ClasswiseClassifier) FitContext(ctx context.Context, X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "ClasswiseClassifier.Fit")

	nSamples, nFeatures, nLabels, err := c.checkFitInput(X, y)
	if err != nil {
		return err
	}

	start := time.Now()
	c.logger.Info("classwise fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.TargetsKey, nLabels,
		log.CandidatesKey, len(c.options),
		log.WorkersKey, c.workers,
		log.RandomSeedKey, c.randomState,
	)

	handles := make([]store.ModelKey, nLabels)
	selections := make([]LabelSelection, nLabels)
	err = parallel.ForEach(ctx, nLabels, c.workers, func(ctx context.Context, i int) error {
		sel, err := c.fitLabel(ctx, X, y, i)
		if err != nil {
			return err
		}
		handles[i] = sel.Key
		selections[i] = sel
		return nil
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.handles, c.selections = nil, nil
		c.state.Reset()
		c.logger.Error("classwise fit failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	c.handles = handles
	c.selections = selections
	c.state.SetDimensions(nFeatures, nSamples)
	c.state.SetFitted()

	c.logger.Info("classwise fit complete",
		log.OperationKey, log.OperationFit,
		log.TargetsKey, nLabels,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (c *ClasswiseClassifier) checkFitInput(X, y mat.Matrix) (nSamples, nFeatures, nLabels int, err error) {
	const op = "ClasswiseClassifier.Fit"
	if X == nil || y == nil {
		return 0, 0, 0, errors.NewValueError(op, "X and y must not be nil")
	}
	nSamples, nFeatures = X.Dims()
	ny, nLabels := y.Dims()
	if nSamples == 0 || nFeatures == 0 || nLabels == 0 {
		return 0, 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != nSamples {
		return 0, 0, 0, errors.NewDimensionError(op, nSamples, ny, 0)
	}
	for i, o := range c.options {
		if !o.gridSearch {
			continue
		}
		if _, ok := o.clf.(model.TunableClassifier); !ok {
			return 0, 0, 0, errors.NewValidationError(fmt.Sprintf("classifier_options[%d]", i),
				"grid search requires a classifier implementing SetParams", fmt.Sprintf("%T", o.clf))
		}
	}
	return nSamples, nFeatures, nLabels, nil
}

// fitLabel runs the selection for label column i and persists the winner.
func (c *ClasswiseClassifier) fitLabel(ctx context.Context, X, y mat.Matrix, i int) (LabelSelection, error) {
	logger := c.logger.With(log.LabelKey, i)

	column := labelColumn(y, i)

	split, err := model_selection.TrainTestSplit(X, column, c.testSize, c.randomState)
	if err != nil {
		return LabelSelection{}, errors.Wrapf(err, "label %d", i)
	}

	sel := LabelSelection{
		Label:        i,
		Key:          store.ModelKey{Index: i},
		Selected:     -1,
		Scores:       make([]float64, len(c.options)),
		BestParams:   make([]map[string]interface{}, len(c.options)),
		TrainSamples: len(split.TrainIndices),
		TestSamples:  len(split.TestIndices),
	}

	var winner model.Classifier
	for j, o := range c.options {
		if err := ctx.Err(); err != nil {
			return LabelSelection{}, errors.WithStack(err)
		}

		fitted, params, err := c.fitCandidate(o, split, logger.With(log.CandidateKey, j))
		if err != nil {
			return LabelSelection{}, errors.NewCandidateFitError(i, j, describe(o.clf), err)
		}
		pred, err := fitted.Predict(split.XTest)
		if err != nil {
			return LabelSelection{}, errors.NewCandidateFitError(i, j, describe(o.clf), err)
		}
		score, err := c.scorer(split.YTest, pred)
		if err != nil {
			return LabelSelection{}, errors.NewCandidateFitError(i, j, describe(o.clf), err)
		}

		sel.Scores[j] = score
		sel.BestParams[j] = params
		logger.Debug("candidate scored",
			log.OperationKey, log.OperationScore,
			log.PhaseKey, log.PhaseValidation,
			log.CandidateKey, j,
			log.GridSearchKey, o.gridSearch,
			log.AccuracyKey, score,
		)

		// strictly greater: equal scores keep the earlier candidate
		if sel.Selected < 0 || score > sel.Scores[sel.Selected] {
			sel.Selected = j
			winner = fitted
		}
	}

	if err := c.store.Save(sel.Key, winner); err != nil {
		return LabelSelection{}, err
	}
	sel.Model = describe(winner)

	logger.Info("label classifier selected",
		log.CandidateKey, sel.Selected,
		log.AccuracyKey, sel.BestScore(),
		log.StoreKeyKey, sel.Key.Name(),
		log.TrainSamplesKey, sel.TrainSamples,
		log.TestSamplesKey, sel.TestSamples,
	)
	return sel, nil
}

// fitCandidate trains one candidate on the train split. It never fits the
// prototype held by the option.
func (c *ClasswiseClassifier) fitCandidate(o ClassifierOption, split *model_selection.Split, logger log.Logger) (model.Classifier, map[string]interface{}, error) {
	if !o.gridSearch {
		clf := o.clf.Clone()
		if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
			return nil, nil, err
		}
		return clf, nil, nil
	}

	gs := model_selection.NewGridSearchCV(o.clf.(model.TunableClassifier), o.parameter,
		model_selection.WithCV(c.cv),
		model_selection.WithScorer(c.scorer),
		model_selection.WithSearchLogger(logger),
	)
	if err := gs.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, nil, err
	}
	best, err := gs.BestEstimator()
	if err != nil {
		return nil, nil, err
	}
	return best, gs.BestParams(), nil
}

// Predict loads every label's winner and returns an n×k matrix whose column
// i holds label i's predictions.
func (c *ClasswiseClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return c.PredictContext(context.Background(), X)
}

// PredictContext is Predict with cancellation between labels.
func (c *ClasswiseClassifier) PredictContext(ctx context.Context, X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "ClasswiseClassifier.Predict")

	handles, err := c.fittedHandles("Predict")
	if err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValueError("ClasswiseClassifier.Predict", "X must not be nil")
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("ClasswiseClassifier.Predict", "empty data", errors.ErrEmptyData)
	}

	start := time.Now()
	columns := make([][]float64, len(handles))
	err = parallel.ForEach(ctx, len(handles), c.workers, func(ctx context.Context, i int) error {
		clf, err := c.store.Load(handles[i])
		if err != nil {
			return err
		}
		pred, err := clf.Predict(X)
		if err != nil {
			return errors.Wrapf(err, "label %d", i)
		}
		if r, _ := pred.Dims(); r != nSamples {
			return errors.NewDimensionError(fmt.Sprintf("label %d predict", i), nSamples, r, 0)
		}
		columns[i] = mat.Col(nil, 0, pred)
		return nil
	})
	if err != nil {
		c.logger.Error("classwise predict failed", err, log.OperationKey, log.OperationPredict)
		return nil, err
	}

	out := mat.NewDense(nSamples, len(handles), nil)
	for i, col := range columns {
		out.SetCol(i, col)
	}

	c.logger.Debug("classwise predict complete",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, nSamples,
		log.TargetsKey, len(handles),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// LoadLabelClassifier reloads the winner persisted for label i.
func (c *ClasswiseClassifier) LoadLabelClassifier(i int) (model.Classifier, error) {
	handles, err := c.fittedHandles("LoadLabelClassifier")
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(handles) {
		return nil, errors.NewValueError("ClasswiseClassifier.LoadLabelClassifier",
			fmt.Sprintf("label index %d out of range [0, %d)", i, len(handles)))
	}
	return c.store.Load(handles[i])
}

func (c *ClasswiseClassifier) fittedHandles(method string) ([]store.ModelKey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.state.RequireFitted(c.String(), method); err != nil {
		return nil, err
	}
	return append([]store.ModelKey(nil), c.handles...), nil
}

// Handles returns the storage keys of the fitted labels in label order.
func (c *ClasswiseClassifier) Handles() []store.ModelKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]store.ModelKey(nil), c.handles...)
}

// Selections returns the per-label selection records in label order.
func (c *ClasswiseClassifier) Selections() []LabelSelection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]LabelSelection(nil), c.selections...)
}

// NLabels returns the number of label columns seen by the last successful fit.
func (c *ClasswiseClassifier) NLabels() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// IsFitted reports whether Predict can be called.
func (c *ClasswiseClassifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Options returns the candidates in selection order.
func (c *ClasswiseClassifier) Options() []ClassifierOption {
	return append([]ClassifierOption(nil), c.options...)
}

// String implements fmt.Stringer.
func (c *ClasswiseClassifier) String() string {
	return "ClasswiseClassifier"
}

func labelColumn(y mat.Matrix, i int) *mat.Dense {
	n, _ := y.Dims()
	col := mat.NewDense(n, 1, nil)
	for r := 0; r < n; r++ {
		col.Set(r, 0, y.At(r, i))
	}
	return col
}

func describe(clf model.Classifier) string {
	if s, ok := clf.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", clf)
}
