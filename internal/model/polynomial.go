package model

import "fmt"

// PolynomialRegression expands features to degree 2 and fits them linearly
type PolynomialRegression struct {
	Degree int
	linear LinearRegression
	nIn    int
}

// Expand returns the bias, the linear terms, then every product x_i*x_j with i <= j
func Expand(x []float64) []float64 {
	p := len(x)
	out := make([]float64, 0, 1+p+p*(p+1)/2)
	out = append(out, 1)
	out = append(out, x...)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			out = append(out, x[i]*x[j])
		}
	}
	return out
}

func (m *PolynomialRegression) Fit(X [][]float64, y []float64) error {
	if m.Degree != 0 && m.Degree != 2 {
		return fmt.Errorf("model: polynomial degree %d not supported", m.Degree)
	}
	if err := checkShape(X, y); err != nil {
		return err
	}
	expanded := make([][]float64, len(X))
	for i, row := range X {
		expanded[i] = Expand(row)
	}
	m.nIn = len(X[0])
	return m.linear.Fit(expanded, y)
}

func (m *PolynomialRegression) Predict(x []float64) (float64, error) {
	if !m.linear.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != m.nIn {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrShape, len(x), m.nIn)
	}
	return m.linear.Predict(Expand(x))
}
