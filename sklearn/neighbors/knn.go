// Package neighbors provides nearest-neighbor classifiers.
package neighbors

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/core/parallel"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Distance metrics.
const (
	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
)

// rows below this are predicted on the calling goroutine
const parallelThreshold = 256

func init() {
	model.RegisterClassifier(&KNeighborsClassifier{})
}

// KNeighborsClassifier predicts the majority label among the NNeighbors
// closest training rows. Distance ties keep the earlier training row and
// vote ties go to the smallest label.
//
// The training set is stored in exported fields so the fitted model can be
// gob encoded.
type KNeighborsClassifier struct {
	State *model.StateManager

	NNeighbors int
	Metric     string

	XTrain *mat.Dense
	YTrain []float64
}

// Option is a functional option for KNeighborsClassifier.
type Option func(*KNeighborsClassifier)

// WithNNeighbors sets k.
func WithNNeighbors(k int) Option {
	return func(c *KNeighborsClassifier) {
		c.NNeighbors = k
	}
}

// WithMetric sets the distance metric.
func WithMetric(metric string) Option {
	return func(c *KNeighborsClassifier) {
		c.Metric = metric
	}
}

// NewKNeighborsClassifier creates a classifier with k=5 and euclidean distance.
func NewKNeighborsClassifier(opts ...Option) *KNeighborsClassifier {
	c := &KNeighborsClassifier{
		State:      model.NewStateManager(),
		NNeighbors: 5,
		Metric:     MetricEuclidean,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit memorizes the training data.
func (c *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := model.CheckXY("KNeighborsClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	if c.NNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", c.NNeighbors)
	}
	if c.NNeighbors > nSamples {
		return errors.NewValueError("KNeighborsClassifier.Fit",
			fmt.Sprintf("n_neighbors=%d exceeds the %d training samples", c.NNeighbors, nSamples))
	}
	if err := validMetric(c.Metric); err != nil {
		return err
	}

	c.XTrain = mat.DenseCopyOf(X)
	c.YTrain = make([]float64, nSamples)
	for i := range c.YTrain {
		c.YTrain[i] = y.At(i, 0)
	}

	c.State.SetDimensions(nFeatures, nSamples)
	c.State.SetFitted()
	return nil
}

// Predict returns the majority label of each row's neighbors.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := c.State.RequireFitted("KNeighborsClassifier", "Predict"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if err := c.State.RequireFeatures("KNeighborsClassifier.Predict", nFeatures); err != nil {
		return nil, err
	}

	predictions := make([]float64, nSamples)
	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		row := make([]float64, nFeatures)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			predictions[i] = c.vote(c.neighbors(row))
		}
	})
	return mat.NewDense(nSamples, 1, predictions), nil
}

type neighbor struct {
	index    int
	distance float64
}

// neighbors returns the indices of the NNeighbors training rows closest to row.
func (c *KNeighborsClassifier) neighbors(row []float64) []int {
	nTrain, _ := c.XTrain.Dims()
	all := make([]neighbor, nTrain)
	for i := 0; i < nTrain; i++ {
		all[i] = neighbor{index: i, distance: c.distance(row, c.XTrain.RawRowView(i))}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].distance < all[b].distance
	})

	idx := make([]int, c.NNeighbors)
	for i := range idx {
		idx[i] = all[i].index
	}
	return idx
}

func (c *KNeighborsClassifier) vote(idx []int) float64 {
	counts := make(map[float64]int, len(idx))
	for _, i := range idx {
		counts[c.YTrain[i]]++
	}
	best, bestCount := math.Inf(1), -1
	for label, n := range counts {
		if n > bestCount || (n == bestCount && label < best) {
			best, bestCount = label, n
		}
	}
	return best
}

func (c *KNeighborsClassifier) distance(a, b []float64) float64 {
	d := 0.0
	switch c.Metric {
	case MetricManhattan:
		for i := range a {
			d += math.Abs(a[i] - b[i])
		}
		return d
	default:
		for i := range a {
			diff := a[i] - b[i]
			d += diff * diff
		}
		// squared distance orders the same as euclidean
		return d
	}
}

// Clone returns an unfitted copy with the same hyperparameters.
func (c *KNeighborsClassifier) Clone() model.Classifier {
	return NewKNeighborsClassifier(WithNNeighbors(c.NNeighbors), WithMetric(c.Metric))
}

// GetParams returns the model hyperparameters.
func (c *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": c.NNeighbors,
		"metric":      c.Metric,
	}
}

// SetParams sets the model hyperparameters.
func (c *KNeighborsClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var err error
		switch key {
		case "n_neighbors":
			var k int
			if k, err = model.ParamInt(key, value); err == nil {
				if k < 1 {
					err = errors.NewValidationError(key, "must be at least 1", value)
				} else {
					c.NNeighbors = k
				}
			}
		case "metric":
			var m string
			if m, err = model.ParamString(key, value); err == nil {
				if err = validMetric(m); err == nil {
					c.Metric = m
				}
			}
		default:
			err = model.UnknownParam("KNeighborsClassifier", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (c *KNeighborsClassifier) String() string {
	return fmt.Sprintf("KNeighborsClassifier(n_neighbors=%d, metric=%s)", c.NNeighbors, c.Metric)
}

func validMetric(m string) error {
	if m == MetricEuclidean || m == MetricManhattan {
		return nil
	}
	return errors.NewValidationError("metric", "must be euclidean or manhattan", m)
}
