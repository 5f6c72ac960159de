// Package model_selection provides data splitting and hyperparameter search
// for binary classifiers, modelled on scikit-learn's model_selection module.
package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Split holds one stratified train/test partition.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.Dense

	// TrainIndices and TestIndices are row positions in the input X.
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit partitions (X, y) into train and test sets stratified on y.
//
// The test set holds ceil(testSize*n) rows, shared between classes in
// proportion to their frequency (largest remainder first, ties going to the
// smaller class value) and then clamped so that every class keeps at least
// one row on each side. The same randomState always yields the same split.
//
// y must be an n×1 column. A label with fewer than two distinct classes, or
// a class with fewer than two members, cannot be stratified and returns a
// *errors.StratificationError.
func TrainTestSplit(X, y mat.Matrix, testSize float64, randomState int64) (*Split, error) {
	const op = "TrainTestSplit"

	n, err := checkXY(op, X, y)
	if err != nil {
		return nil, err
	}
	if testSize <= 0 || testSize >= 1 || math.IsNaN(testSize) {
		return nil, errors.NewValueError(op, "test_size must be in the open interval (0, 1)")
	}

	classes, groups := groupByClass(y)
	if len(classes) < 2 {
		return nil, errors.NewStratificationError(op, classes[0], n,
			"the label has only one class; stratification needs at least 2")
	}
	for _, c := range classes {
		if len(groups[c]) < 2 {
			return nil, errors.NewStratificationError(op, c, len(groups[c]),
				"the least populated class has only 1 member; at least 2 are required")
		}
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, errors.NewStratificationError(op, classes[0], len(groups[classes[0]]),
			"train and test sizes must each be at least the number of classes")
	}

	testCounts := allocate(classes, groups, n, nTest)

	rng := newRand(randomState)
	train := make([]int, 0, nTrain)
	test := make([]int, 0, nTest)
	for i, c := range classes {
		idx := append([]int(nil), groups[c]...)
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		test = append(test, idx[:testCounts[i]]...)
		train = append(train, idx[testCounts[i]:]...)
	}
	rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })

	return &Split{
		XTrain:       SelectRows(X, train),
		XTest:        SelectRows(X, test),
		YTrain:       SelectRows(y, train),
		YTest:        SelectRows(y, test),
		TrainIndices: train,
		TestIndices:  test,
	}, nil
}

// allocate shares nTest rows between classes proportionally to class size.
func allocate(classes []float64, groups map[float64][]int, n, nTest int) []int {
	counts := make([]int, len(classes))
	remainders := make([]float64, len(classes))
	assigned := 0
	for i, c := range classes {
		exact := float64(len(groups[c])) * float64(nTest) / float64(n)
		counts[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(counts[i])
		assigned += counts[i]
	}

	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < nTest && k < len(order); k++ {
		counts[order[k]]++
		assigned++
	}

	for i, c := range classes {
		size := len(groups[c])
		if counts[i] < 1 {
			counts[i] = 1
		}
		if counts[i] > size-1 {
			counts[i] = size - 1
		}
	}
	return counts
}

// groupByClass returns the sorted distinct values of y's first column and
// the row indices holding each value.
func groupByClass(y mat.Matrix) ([]float64, map[float64][]int) {
	n, _ := y.Dims()
	groups := make(map[float64][]int)
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		groups[label] = append(groups[label], i)
	}
	classes := make([]float64, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Float64s(classes)
	return classes, groups
}

func checkXY(op string, X, y mat.Matrix) (int, error) {
	if X == nil || y == nil {
		return 0, errors.NewValueError(op, "X and y must not be nil")
	}
	n, _ := X.Dims()
	ny, cy := y.Dims()
	if n == 0 {
		return 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return 0, errors.NewDimensionError(op, n, ny, 0)
	}
	if cy != 1 {
		return 0, errors.NewValueError(op, "y must be a column vector")
	}
	return n, nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// SelectRows copies the given rows of m, in order, into a new Dense.
// rows must not be empty.
func SelectRows(m mat.Matrix, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(r, j))
		}
	}
	return out
}
