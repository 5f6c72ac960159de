// Package dummy provides baseline classifiers that ignore the features.
package dummy

import (
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Prediction strategies, named as in scikit-learn.
const (
	StrategyMostFrequent = "most_frequent"
	StrategyPrior        = "prior"
	StrategyConstant     = "constant"
	StrategyUniform      = "uniform"
)

func init() {
	model.RegisterClassifier(&DummyClassifier{})
}

// DummyClassifier makes predictions from the training labels alone.
// It is the usual baseline candidate: any real model should beat it.
//
// Fields are exported for gob encoding.
type DummyClassifier struct {
	State *model.StateManager

	// Hyperparameters
	Strategy    string
	Constant    float64
	RandomState int64

	// Learned
	Classes []float64
	Counts  []int
}

// Option is a functional option for DummyClassifier.
type Option func(*DummyClassifier)

// WithStrategy sets the prediction strategy.
func WithStrategy(strategy string) Option {
	return func(d *DummyClassifier) {
		d.Strategy = strategy
	}
}

// WithConstant sets the label predicted by the "constant" strategy.
func WithConstant(c float64) Option {
	return func(d *DummyClassifier) {
		d.Constant = c
	}
}

// WithRandomState sets the seed of the "uniform" strategy.
func WithRandomState(seed int64) Option {
	return func(d *DummyClassifier) {
		d.RandomState = seed
	}
}

// NewDummyClassifier creates a DummyClassifier predicting the most frequent class by default.
func NewDummyClassifier(opts ...Option) *DummyClassifier {
	d := &DummyClassifier{
		State:    model.NewStateManager(),
		Strategy: StrategyMostFrequent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fit records the class distribution of y.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := model.CheckXY("DummyClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	if err := validStrategy(d.Strategy); err != nil {
		return err
	}

	d.Classes, d.Counts = model.UniqueClasses(y)
	if d.Strategy == StrategyConstant && !d.hasClass(d.Constant) {
		return errors.NewValueError("DummyClassifier.Fit",
			fmt.Sprintf("constant %v is not one of the training classes %v", d.Constant, d.Classes))
	}

	d.State.SetDimensions(nFeatures, nSamples)
	d.State.SetFitted()
	return nil
}

// Predict returns one label per row of X.
func (d *DummyClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := d.State.RequireFitted("DummyClassifier", "Predict"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if err := d.State.RequireFeatures("DummyClassifier.Predict", nFeatures); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	switch d.Strategy {
	case StrategyMostFrequent, StrategyPrior:
		label := d.mostFrequent()
		for i := 0; i < nSamples; i++ {
			predictions.Set(i, 0, label)
		}
	case StrategyConstant:
		for i := 0; i < nSamples; i++ {
			predictions.Set(i, 0, d.Constant)
		}
	case StrategyUniform:
		// reseeded per call so repeated predictions agree
		r := rand.New(rand.NewPCG(uint64(d.RandomState), uint64(d.RandomState)))
		for i := 0; i < nSamples; i++ {
			predictions.Set(i, 0, d.Classes[r.IntN(len(d.Classes))])
		}
	}
	return predictions, nil
}

// mostFrequent returns the class with the highest count; ties go to the
// smallest class value.
func (d *DummyClassifier) mostFrequent() float64 {
	best := 0
	for i, c := range d.Counts {
		if c > d.Counts[best] {
			best = i
		}
	}
	return d.Classes[best]
}

func (d *DummyClassifier) hasClass(c float64) bool {
	for _, k := range d.Classes {
		if k == c {
			return true
		}
	}
	return false
}

// Clone returns an unfitted copy with the same hyperparameters.
func (d *DummyClassifier) Clone() model.Classifier {
	return NewDummyClassifier(
		WithStrategy(d.Strategy),
		WithConstant(d.Constant),
		WithRandomState(d.RandomState),
	)
}

// GetParams returns the model hyperparameters.
func (d *DummyClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":     d.Strategy,
		"constant":     d.Constant,
		"random_state": d.RandomState,
	}
}

// SetParams sets the model hyperparameters.
func (d *DummyClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var err error
		switch key {
		case "strategy":
			var s string
			if s, err = model.ParamString(key, value); err == nil {
				if err = validStrategy(s); err == nil {
					d.Strategy = s
				}
			}
		case "constant":
			d.Constant, err = model.ParamFloat(key, value)
		case "random_state":
			d.RandomState, err = model.ParamInt64(key, value)
		default:
			err = model.UnknownParam("DummyClassifier", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (d *DummyClassifier) String() string {
	return fmt.Sprintf("DummyClassifier(strategy=%s)", d.Strategy)
}

func validStrategy(s string) error {
	switch s {
	case StrategyMostFrequent, StrategyPrior, StrategyConstant, StrategyUniform:
		return nil
	}
	return errors.NewValidationError("strategy", "must be one of most_frequent, prior, constant, uniform", s)
}
