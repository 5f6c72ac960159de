package linear_model

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/classwise/core/model"
	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func init() {
	model.RegisterClassifier(&LogisticRegression{})
}

// LogisticRegression implements logistic regression for classification.
// Binary labels use a single weight vector; more classes are fitted one-vs-rest.
// Compatible with scikit-learn's LogisticRegression.
//
// Fields are exported so that a fitted model survives gob encoding.
type LogisticRegression struct {
	State *model.StateManager

	// Hyperparameters
	Penalty      string  // "l2" or "none"
	C            float64 // Inverse regularization strength
	FitIntercept bool
	MaxIter      int
	Tol          float64
	RandomState  int64 // Seed for weight initialization

	// Model parameters
	Coef      [][]float64 // 1 x n_features for binary, n_classes x n_features otherwise
	Intercept []float64
	Classes   []float64
	NIter     []int
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		State:        model.NewStateManager(),
		Penalty:      "l2",
		C:            1.0,
		FitIntercept: true,
		MaxIter:      100,
		Tol:          1e-4,
	}

	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.Penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.FitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.MaxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.Tol = tol
	}
}

// WithLRRandomState sets the random seed
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.RandomState = seed
	}
}

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures, err := model.CheckXY("LogisticRegression.Fit", X, y)
	if err != nil {
		return err
	}
	if lr.C <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.C)
	}
	if lr.MaxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", lr.MaxIter)
	}

	lr.Classes, _ = model.UniqueClasses(y)
	if len(lr.Classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", len(lr.Classes)))
	}
	lr.initializeWeights(nFeatures)

	if len(lr.Classes) == 2 {
		if err := lr.fitBinary(X, y, lr.Classes[1], 0); err != nil {
			return err
		}
	} else {
		for classIdx, class := range lr.Classes {
			if err := lr.fitBinary(X, y, class, classIdx); err != nil {
				return errors.Wrapf(err, "failed to fit class %v", class)
			}
		}
	}

	lr.State.SetDimensions(nFeatures, nSamples)
	lr.State.SetFitted()
	return nil
}

// initializeWeights initializes model weights with small values drawn from
// a generator seeded by RandomState.
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nModels := 1
	if len(lr.Classes) > 2 {
		nModels = len(lr.Classes)
	}

	r := rand.New(rand.NewPCG(uint64(lr.RandomState), uint64(lr.RandomState)))
	lr.Coef = make([][]float64, nModels)
	for i := range lr.Coef {
		lr.Coef[i] = make([]float64, nFeatures)
		for j := range lr.Coef[i] {
			lr.Coef[i][j] = r.NormFloat64() * 0.01
		}
	}
	lr.Intercept = make([]float64, nModels)
	lr.NIter = make([]int, nModels)
}

// fitBinary runs gradient descent for weight row idx, treating rows whose
// label equals positive as 1 and all others as 0.
func (lr *LogisticRegression) fitBinary(X, y mat.Matrix, positive float64, idx int) error {
	nSamples, nFeatures := X.Dims()

	target := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) == positive {
			target[i] = 1
		}
	}

	weights := lr.Coef[idx]
	intercept := &lr.Intercept[idx]

	// penalty gradient is lambda*w/n; the step is scaled so it never overshoots
	lambda := 0.0
	if lr.Penalty == "l2" {
		lambda = 1.0 / (lr.C * float64(nSamples))
	}
	baseLearningRate := 1.0 / (1.0 + lambda)
	converged := false

	for iter := 0; iter < lr.MaxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - target[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		for j := range weights {
			gradWeights[j] += lambda * weights[j]
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.FitIntercept {
			*intercept -= learningRate * gradIntercept
		}
		if err := errors.CheckNumericalStability("LogisticRegression.Fit", weights, iter); err != nil {
			return err
		}

		lr.NIter[idx] = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.Tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.MaxIter,
			"maximum number of iterations reached; increase max_iter"))
	}
	return nil
}

func (lr *LogisticRegression) decision(X mat.Matrix, i, idx int) float64 {
	_, nFeatures := X.Dims()
	z := lr.Intercept[idx]
	for j := 0; j < nFeatures; j++ {
		z += X.At(i, j) * lr.Coef[idx][j]
	}
	return z
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.State.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if err := lr.State.RequireFeatures("LogisticRegression.Predict", nFeatures); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if len(lr.Classes) == 2 {
			if sigmoid(lr.decision(X, i, 0)) >= 0.5 {
				predictions.Set(i, 0, lr.Classes[1])
			} else {
				predictions.Set(i, 0, lr.Classes[0])
			}
			continue
		}

		best := 0
		maxScore := math.Inf(-1)
		for classIdx := range lr.Classes {
			if score := lr.decision(X, i, classIdx); score > maxScore {
				maxScore = score
				best = classIdx
			}
		}
		predictions.Set(i, 0, lr.Classes[best])
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class, one column
// per entry of Classes.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.State.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if err := lr.State.RequireFeatures("LogisticRegression.PredictProba", nFeatures); err != nil {
		return nil, err
	}

	nClasses := len(lr.Classes)
	probas := mat.NewDense(nSamples, nClasses, nil)
	scores := make([]float64, nClasses)
	for i := 0; i < nSamples; i++ {
		if nClasses == 2 {
			p := sigmoid(lr.decision(X, i, 0))
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
			continue
		}

		// softmax over the one-vs-rest scores
		for classIdx := range lr.Classes {
			scores[classIdx] = lr.decision(X, i, classIdx)
		}
		norm := errors.LogSumExp(scores)
		for classIdx := range lr.Classes {
			probas.Set(i, classIdx, math.Exp(scores[classIdx]-norm))
		}
	}

	return probas, nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Classifier {
	return NewLogisticRegression(
		WithLRPenalty(lr.Penalty),
		WithLRC(lr.C),
		WithLogisticFitIntercept(lr.FitIntercept),
		WithLRMaxIter(lr.MaxIter),
		WithLRTol(lr.Tol),
		WithLRRandomState(lr.RandomState),
	)
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.Penalty,
		"C":             lr.C,
		"fit_intercept": lr.FitIntercept,
		"max_iter":      lr.MaxIter,
		"tol":           lr.Tol,
		"random_state":  lr.RandomState,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var err error
		switch key {
		case "penalty":
			var p string
			if p, err = model.ParamString(key, value); err == nil {
				if p != "l2" && p != "none" {
					err = errors.NewValidationError(key, "must be l2 or none", value)
				} else {
					lr.Penalty = p
				}
			}
		case "C":
			lr.C, err = model.ParamFloat(key, value)
		case "fit_intercept":
			lr.FitIntercept, err = model.ParamBool(key, value)
		case "max_iter":
			lr.MaxIter, err = model.ParamInt(key, value)
		case "tol":
			lr.Tol, err = model.ParamFloat(key, value)
		case "random_state":
			lr.RandomState, err = model.ParamInt64(key, value)
		default:
			err = model.UnknownParam("LogisticRegression", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (lr *LogisticRegression) String() string {
	return fmt.Sprintf("LogisticRegression(C=%g, penalty=%s)", lr.C, lr.Penalty)
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-z))
}
