package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ridgeFloor keeps the normal equations solvable when columns are constant or collinear
const ridgeFloor = 1e-8

// LinearRegression is ordinary least squares with an intercept
type LinearRegression struct {
	Coef      []float64
	Intercept float64
	fitted    bool
}

// Fit solves the centred normal equations with a Cholesky factorisation
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	if err := checkShape(X, y); err != nil {
		return err
	}
	n, p := len(X), len(X[0])

	means := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = X[i][j]
		}
		means[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xc.Set(i, j, X[i][j]-means[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, xc.T())

	var xty mat.VecDense
	xty.MulVec(xc.T(), yc)

	scale := 1.0
	for j := 0; j < p; j++ {
		if d := xtx.At(j, j); d > scale {
			scale = d
		}
	}

	var (
		w     mat.VecDense
		chol  mat.Cholesky
		ridge = ridgeFloor * scale
		ok    bool
	)
	for attempt := 0; attempt < 6; attempt++ {
		reg := mat.NewSymDense(p, nil)
		reg.CopySym(&xtx)
		for j := 0; j < p; j++ {
			reg.SetSym(j, j, reg.At(j, j)+ridge)
		}
		if ok = chol.Factorize(reg); ok {
			break
		}
		ridge *= 100
	}
	if !ok {
		return fmt.Errorf("model: normal equations are singular")
	}
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return fmt.Errorf("model: solve normal equations: %w", err)
	}

	m.Coef = make([]float64, p)
	copy(m.Coef, w.RawVector().Data)
	m.Intercept = yMean - floats.Dot(m.Coef, means)
	m.fitted = true
	return nil
}

func (m *LinearRegression) Predict(x []float64) (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrShape, len(x), len(m.Coef))
	}
	return m.Intercept + floats.Dot(m.Coef, x), nil
}
