package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxscore/backend/internal/domain"
)

// linearData returns y = 3 + 2*x0 - x1 + noise*N(0,1)
func linearData(n int, noise float64) ([][]float64, []float64) {
	r := rand.New(rand.NewSource(7))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x0, x1 := r.Float64()*10, r.Float64()*10
		X[i] = []float64{x0, x1}
		y[i] = 3 + 2*x0 - x1 + noise*r.NormFloat64()
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := linearData(60, 0)

	var m LinearRegression
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 2.0, m.Coef[0], 1e-6)
	assert.InDelta(t, -1.0, m.Coef[1], 1e-6)
	assert.InDelta(t, 3.0, m.Intercept, 1e-6)

	got, err := m.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-6)
}

func TestLinearRegressionConstantColumn(t *testing.T) {
	X := [][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}}
	y := []float64{2, 4, 6, 8}

	var m LinearRegression
	require.NoError(t, m.Fit(X, y))

	got, err := m.Predict([]float64{5, 0})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-4)
}

func TestLinearRegressionErrors(t *testing.T) {
	var m LinearRegression
	_, err := m.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, m.Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}), ErrShape)
	assert.ErrorIs(t, m.Fit([][]float64{{1}}, []float64{1, 2}), ErrShape)
}

func TestExpand(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3, 4, 6, 9}, Expand([]float64{2, 3}))
}

func TestPolynomialRegressionFitsQuadratic(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := -10; i <= 10; i++ {
		x := float64(i) / 2
		X = append(X, []float64{x})
		y = append(y, 1+x*x)
	}

	m := &PolynomialRegression{Degree: 2}
	require.NoError(t, m.Fit(X, y))

	got, err := m.Predict([]float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-4)
}

func TestGradientBoostingFitsStepFunction(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x := float64(i)
		X = append(X, []float64{x})
		if x < 20 {
			y = append(y, 10)
		} else {
			y = append(y, 30)
		}
	}

	m := NewGradientBoosting()
	require.NoError(t, m.Fit(X, y))

	low, err := m.Predict([]float64{5})
	require.NoError(t, err)
	high, err := m.Predict([]float64{35})
	require.NoError(t, err)

	assert.InDelta(t, 10.0, low, 0.5)
	assert.InDelta(t, 30.0, high, 0.5)
}

func TestGradientBoostingNotFitted(t *testing.T) {
	_, err := NewGradientBoosting().Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestTrainTestSplit(t *testing.T) {
	X, y := linearData(10, 0)

	s := TrainTestSplit(X, y, 0.2, 42)
	assert.Len(t, s.XTest, 2)
	assert.Len(t, s.XTrain, 8)
	assert.Len(t, s.YTest, 2)

	again := TrainTestSplit(X, y, 0.2, 42)
	assert.Equal(t, s.YTest, again.YTest)

	tiny := TrainTestSplit(X[:2], y[:2], 0.2, 42)
	assert.Len(t, tiny.XTest, 1)
	assert.Len(t, tiny.XTrain, 1)
}

func TestMeanSquaredError(t *testing.T) {
	mse, err := MeanSquaredError([]float64{1, 2, 3}, []float64{1, 4, 3})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, mse, 1e-12)

	_, err = MeanSquaredError([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestTrainEveryModelType(t *testing.T) {
	X, y := linearData(80, 0.5)

	for _, mt := range []domain.ModelType{domain.ModelLinear, domain.ModelPolynomial, domain.ModelXGBoost} {
		t.Run(string(mt), func(t *testing.T) {
			res, err := Train(mt, X, y)
			require.NoError(t, err)
			assert.Equal(t, 16, res.TestSize)
			assert.Equal(t, 64, res.TrainSize)
			assert.InDelta(t, math.Sqrt(res.MSE), res.RMSE, 1e-12)
			assert.Less(t, res.MSE, 10.0)
		})
	}
}

func TestTrainRejectsTinyInput(t *testing.T) {
	_, err := Train(domain.ModelLinear, [][]float64{{1}}, []float64{1})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = New("svm")
	assert.ErrorIs(t, err, domain.ErrInvalidModel)
}
