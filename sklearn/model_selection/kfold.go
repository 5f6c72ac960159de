package model_selection

import (
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Splitter defines the interface for cross-validation splitters.
type Splitter interface {
	Split(X, y mat.Matrix) ([]Fold, error)
	GetNSplits() int
}

// Fold represents a single fold in cross-validation.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedKFold implements stratified k-fold cross-validation.
//
// Rows are ordered class by class (classes ascending, rows shuffled within
// each class when Shuffle is set) and dealt to folds round-robin, so every
// fold receives each class in proportion and fold sizes differ by at most one.
type StratifiedKFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewStratifiedKFold creates a new stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits.
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	const op = "StratifiedKFold.Split"

	nSamples, err := checkXY(op, X, y)
	if err != nil {
		return nil, err
	}
	if skf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", skf.NSplits)
	}
	if skf.NSplits > nSamples {
		return nil, errors.NewValueError(op,
			fmt.Sprintf("cannot have n_splits=%d greater than the number of samples n_samples=%d", skf.NSplits, nSamples))
	}

	classes, groups := groupByClass(y)

	smallest := nSamples
	for _, c := range classes {
		if len(groups[c]) < smallest {
			smallest = len(groups[c])
		}
	}
	if smallest < skf.NSplits {
		errors.Warn(errors.NewSplitWarning("StratifiedKFold",
			fmt.Sprintf("the least populated class in y has only %d members, which is less than n_splits=%d", smallest, skf.NSplits)))
	}

	var rng *rand.Rand
	if skf.Shuffle {
		rng = newRand(skf.RandomSeed)
	}

	ordered := make([]int, 0, nSamples)
	for _, c := range classes {
		idx := append([]int(nil), groups[c]...)
		if rng != nil {
			rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		}
		ordered = append(ordered, idx...)
	}

	assignment := make([]int, nSamples)
	for pos, row := range ordered {
		assignment[row] = pos % skf.NSplits
	}

	folds := make([]Fold, skf.NSplits)
	for row := 0; row < nSamples; row++ {
		f := assignment[row]
		for i := range folds {
			if i == f {
				folds[i].TestIndices = append(folds[i].TestIndices, row)
			} else {
				folds[i].TrainIndices = append(folds[i].TrainIndices, row)
			}
		}
	}
	return folds, nil
}
