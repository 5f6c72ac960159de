package model

import (
	"sort"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CheckXY validates a training pair: X non-empty, y an n×1 column with the
// same number of rows. It returns X's dimensions.
func CheckXY(op string, X, y mat.Matrix) (nSamples, nFeatures int, err error) {
	if X == nil || y == nil {
		return 0, 0, errors.NewValueError(op, "X and y must not be nil")
	}
	nSamples, nFeatures = X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	ny, cy := y.Dims()
	if ny != nSamples {
		return 0, 0, errors.NewDimensionError(op, nSamples, ny, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	return nSamples, nFeatures, nil
}

// UniqueClasses returns the sorted distinct values of y's first column and
// how many rows carry each one.
func UniqueClasses(y mat.Matrix) (classes []float64, counts []int) {
	n, _ := y.Dims()
	seen := make(map[float64]int)
	for i := 0; i < n; i++ {
		seen[y.At(i, 0)]++
	}
	classes = make([]float64, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Float64s(classes)
	counts = make([]int, len(classes))
	for i, c := range classes {
		counts[i] = seen[c]
	}
	return classes, counts
}
