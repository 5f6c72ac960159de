package model

import (
	"fmt"

	"github.com/YuminosukeSato/classwise/pkg/errors"
)

// ParamInt converts a hyperparameter value to int. Integral float values
// are accepted since grids decoded from YAML or JSON carry numbers that way.
func ParamInt(name string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, errors.NewValidationError(name, "expected an integer", value)
}

// ParamInt64 converts a hyperparameter value to int64.
func ParamInt64(name string, value interface{}) (int64, error) {
	i, err := ParamInt(name, value)
	return int64(i), err
}

// ParamFloat converts a hyperparameter value to float64.
func ParamFloat(name string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errors.NewValidationError(name, "expected a number", value)
}

// ParamString converts a hyperparameter value to string.
func ParamString(name string, value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", errors.NewValidationError(name, "expected a string", value)
}

// ParamBool converts a hyperparameter value to bool.
func ParamBool(name string, value interface{}) (bool, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return false, errors.NewValidationError(name, "expected a bool", value)
}

// UnknownParam is returned by SetParams for names a model does not define.
func UnknownParam(modelName, name string) error {
	return errors.NewValidationError(name, fmt.Sprintf("unknown parameter for %s", modelName), name)
}
