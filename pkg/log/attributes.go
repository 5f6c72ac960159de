// Package log defines standard attribute keys for model selection operations.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so records from every estimator can be filtered the
// same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "ClasswiseClassifier", "KNeighborsClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "search"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "multilabel", "model_selection", "store"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// TargetsKey indicates the number of label columns.
	TargetsKey = "data.targets"

	// TrainSamplesKey and TestSamplesKey record the sizes of a train/test split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Classwise selection
const (
	// LabelKey is the positional index of the label column being processed.
	LabelKey = "selection.label"

	// CandidateKey is the position of a candidate in the classifier options.
	CandidateKey = "selection.candidate"

	// CandidatesKey is the number of candidates evaluated per label.
	CandidatesKey = "selection.candidates"

	// GridSearchKey reports whether hyperparameter search ran for a candidate.
	GridSearchKey = "selection.grid_search"

	// StoreKeyKey is the storage key the winning model was written under.
	StoreKeyKey = "selection.store_key"

	// WorkersKey is the number of label workers running concurrently.
	WorkersKey = "selection.workers"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records held-out or cross-validated accuracy.
	AccuracyKey = "metrics.accuracy"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"
)

// Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// FoldsKey records the number of cross-validation folds.
	FoldsKey = "config.folds"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Populated automatically from cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationSearch  = "search"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"
)
