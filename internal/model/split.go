package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

// Split holds the two halves of a shuffled dataset
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []float64
}

// TrainTestSplit shuffles with a fixed seed and holds out ceil(testSize*n) rows,
// keeping at least one row on each side when n >= 2
func TrainTestSplit(X [][]float64, y []float64, testSize float64, seed int64) Split {
	n := len(X)
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	var s Split
	for i, idx := range perm {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, y[idx])
			continue
		}
		s.XTrain = append(s.XTrain, X[idx])
		s.YTrain = append(s.YTrain, y[idx])
	}
	return s
}

// MeanSquaredError is the average squared residual
func MeanSquaredError(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d targets but %d predictions", ErrShape, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("%w: no samples", ErrShape)
	}
	d := floats.Distance(yTrue, yPred, 2)
	return d * d / float64(len(yTrue)), nil
}
