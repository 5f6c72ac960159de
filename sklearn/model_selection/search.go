package model_selection

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/metrics"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/YuminosukeSato/classwise/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// CVResult is the cross-validated score of one parameter combination.
type CVResult struct {
	Params     map[string]interface{}
	FoldScores []float64
	MeanScore  float64
}

// GridSearchCV runs an exhaustive search over a ParamGrid, scoring every
// combination by cross-validation and refitting the best one on the full
// data.
type GridSearchCV struct {
	estimator model.TunableClassifier
	paramGrid ParamGrid
	cv        Splitter
	scorer    metrics.Scorer
	logger    log.Logger

	results       []CVResult
	bestIndex     int
	bestEstimator model.Classifier
	state         *model.StateManager
}

// GridSearchOption configures a GridSearchCV.
type GridSearchOption func(*GridSearchCV)

// WithCV sets the cross-validation splitter.
func WithCV(cv Splitter) GridSearchOption {
	return func(gs *GridSearchCV) {
		gs.cv = cv
	}
}

// WithScorer sets the scoring function. Higher is better.
func WithScorer(scorer metrics.Scorer) GridSearchOption {
	return func(gs *GridSearchCV) {
		gs.scorer = scorer
	}
}

// WithSearchLogger sets the logger used for per-combination records.
func WithSearchLogger(logger log.Logger) GridSearchOption {
	return func(gs *GridSearchCV) {
		gs.logger = logger
	}
}

// NewGridSearchCV creates a search over paramGrid. The grid is copied.
// Defaults: shuffled 5-fold StratifiedKFold with seed 0, accuracy scoring.
func NewGridSearchCV(estimator model.TunableClassifier, paramGrid ParamGrid, opts ...GridSearchOption) *GridSearchCV {
	gs := &GridSearchCV{
		estimator: estimator,
		paramGrid: paramGrid.Copy(),
		cv:        NewStratifiedKFold(5, true, 0),
		scorer:    metrics.AccuracyScorer,
		bestIndex: -1,
		state:     model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(gs)
	}
	if gs.logger == nil {
		gs.logger = log.GetLogger()
	}
	gs.logger = gs.logger.With(log.ModelNameKey, "GridSearchCV", log.ComponentKey, "model_selection")
	return gs
}

// Fit evaluates every combination and refits the best on (X, y).
// On equal mean scores the combination enumerated first wins.
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	const op = "GridSearchCV.Fit"

	if gs.estimator == nil {
		return errors.NewValidationError("estimator", "must not be nil", nil)
	}
	combos := gs.paramGrid.Combinations()
	if len(combos) == 0 {
		return errors.NewValueError(op, "parameter grid has a parameter with no candidate values")
	}

	folds, err := gs.cv.Split(X, y)
	if err != nil {
		return err
	}

	start := time.Now()
	gs.results = make([]CVResult, 0, len(combos))
	gs.bestIndex = -1
	gs.bestEstimator = nil
	gs.state.Reset()

	for i, params := range combos {
		result := CVResult{Params: params, FoldScores: make([]float64, 0, len(folds))}
		for _, fold := range folds {
			score, err := gs.scoreFold(X, y, fold, params)
			if err != nil {
				return errors.Wrapf(err, "grid search %d/%d with params %v", i+1, len(combos), params)
			}
			result.FoldScores = append(result.FoldScores, score)
		}
		result.MeanScore = mean(result.FoldScores)
		gs.results = append(gs.results, result)

		gs.logger.Debug(fmt.Sprintf("grid search %d/%d", i+1, len(combos)),
			log.OperationKey, log.OperationSearch,
			log.HyperParamsKey, params,
			log.AccuracyKey, result.MeanScore,
		)

		if gs.bestIndex < 0 || result.MeanScore > gs.results[gs.bestIndex].MeanScore {
			gs.bestIndex = i
		}
	}

	best, err := gs.newCandidate(gs.results[gs.bestIndex].Params)
	if err != nil {
		return err
	}
	if err := best.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit with best params")
	}
	gs.bestEstimator = best

	nSamples, nFeatures := X.Dims()
	gs.state.SetDimensions(nFeatures, nSamples)
	gs.state.SetFitted()

	gs.logger.Debug("grid search complete",
		log.OperationKey, log.OperationSearch,
		log.HyperParamsKey, gs.results[gs.bestIndex].Params,
		log.AccuracyKey, gs.results[gs.bestIndex].MeanScore,
		log.FoldsKey, len(folds),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (gs *GridSearchCV) scoreFold(X, y mat.Matrix, fold Fold, params map[string]interface{}) (float64, error) {
	clf, err := gs.newCandidate(params)
	if err != nil {
		return 0, err
	}
	if err := clf.Fit(SelectRows(X, fold.TrainIndices), SelectRows(y, fold.TrainIndices)); err != nil {
		return 0, err
	}
	pred, err := clf.Predict(SelectRows(X, fold.TestIndices))
	if err != nil {
		return 0, err
	}
	return gs.scorer(SelectRows(y, fold.TestIndices), pred)
}

// newCandidate clones the estimator and applies params to the clone.
func (gs *GridSearchCV) newCandidate(params map[string]interface{}) (model.Classifier, error) {
	clf := gs.estimator.Clone()
	setter, ok := clf.(model.ParameterSetter)
	if !ok {
		return nil, errors.NewValidationError("estimator", "clone does not accept parameters", fmt.Sprintf("%T", clf))
	}
	if err := setter.SetParams(params); err != nil {
		return nil, err
	}
	return clf, nil
}

// Predict delegates to the refitted best estimator.
func (gs *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := gs.state.RequireFitted("GridSearchCV", "Predict"); err != nil {
		return nil, err
	}
	return gs.bestEstimator.Predict(X)
}

// BestEstimator returns the estimator refitted with the best parameters.
func (gs *GridSearchCV) BestEstimator() (model.Classifier, error) {
	if err := gs.state.RequireFitted("GridSearchCV", "BestEstimator"); err != nil {
		return nil, err
	}
	return gs.bestEstimator, nil
}

// BestParams returns a copy of the winning parameter combination.
func (gs *GridSearchCV) BestParams() map[string]interface{} {
	if gs.bestIndex < 0 {
		return nil
	}
	out := make(map[string]interface{}, len(gs.results[gs.bestIndex].Params))
	for k, v := range gs.results[gs.bestIndex].Params {
		out[k] = v
	}
	return out
}

// BestScore returns the mean cross-validated score of the best combination.
func (gs *GridSearchCV) BestScore() float64 {
	if gs.bestIndex < 0 {
		return 0
	}
	return gs.results[gs.bestIndex].MeanScore
}

// BestIndex returns the position of the best combination in Results.
func (gs *GridSearchCV) BestIndex() int {
	return gs.bestIndex
}

// Results returns the score of every evaluated combination in search order.
func (gs *GridSearchCV) Results() []CVResult {
	return append([]CVResult(nil), gs.results...)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
