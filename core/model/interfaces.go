// Package model provides the interfaces shared by every estimator.
package model

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
// Grid search requires candidates to implement it.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters. Unknown names are an error.
	SetParams(params map[string]interface{}) error
}

// TunableClassifier is a Classifier whose hyperparameters can be searched.
type TunableClassifier interface {
	Classifier
	ParameterSetter
}
