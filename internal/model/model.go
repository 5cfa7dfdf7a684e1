// Package model implements the regression families used to project box scores.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/boxscore/backend/internal/domain"
)

// Regressor is a trainable single-output regression model
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) (float64, error)
}

var (
	ErrShape     = errors.New("model: shape mismatch")
	ErrNotFitted = errors.New("model: not fitted")
)

// New returns an unfitted model of the given type with default hyperparameters
func New(t domain.ModelType) (Regressor, error) {
	switch t {
	case domain.ModelLinear:
		return &LinearRegression{}, nil
	case domain.ModelPolynomial:
		return &PolynomialRegression{Degree: 2}, nil
	case domain.ModelXGBoost:
		return NewGradientBoosting(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidModel, t)
}

// Result is a fitted model with its held-out error
type Result struct {
	Model     Regressor
	MSE       float64
	RMSE      float64
	TrainSize int
	TestSize  int
}

// Train fits a model on an 80/20 split and scores it on the held-out rows
func Train(t domain.ModelType, X [][]float64, y []float64) (Result, error) {
	if err := checkShape(X, y); err != nil {
		return Result{}, err
	}
	if len(X) < 2 {
		return Result{}, fmt.Errorf("model: need at least 2 samples, got %d: %w", len(X), domain.ErrInsufficientData)
	}

	m, err := New(t)
	if err != nil {
		return Result{}, err
	}

	split := TrainTestSplit(X, y, DefaultTestSize, DefaultSeed)
	if err := m.Fit(split.XTrain, split.YTrain); err != nil {
		return Result{}, fmt.Errorf("model: fit %s: %w", t, err)
	}

	preds := make([]float64, len(split.XTest))
	for i, x := range split.XTest {
		if preds[i], err = m.Predict(x); err != nil {
			return Result{}, err
		}
	}
	mse, err := MeanSquaredError(split.YTest, preds)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Model:     m,
		MSE:       mse,
		RMSE:      math.Sqrt(mse),
		TrainSize: len(split.XTrain),
		TestSize:  len(split.XTest),
	}, nil
}

func checkShape(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: empty design matrix", ErrShape)
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d targets", ErrShape, len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return fmt.Errorf("%w: no features", ErrShape)
	}
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), p)
		}
	}
	return nil
}
