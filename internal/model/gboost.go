package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GradientBoosting is a boosted ensemble of regression trees fitted to squared loss.
// Leaf weights and split gains use second-order statistics with L2 regularisation.
type GradientBoosting struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	Lambda         float64
	MinChildWeight float64

	baseScore float64
	trees     []*treeNode
	nIn       int
}

// NewGradientBoosting uses XGBRegressor's defaults
func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{
		Rounds:         100,
		LearningRate:   0.3,
		MaxDepth:       6,
		Lambda:         1,
		MinChildWeight: 1,
	}
}

type treeNode struct {
	leaf      bool
	weight    float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) eval(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.weight
}

func (m *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if err := checkShape(X, y); err != nil {
		return err
	}
	if m.Rounds <= 0 || m.LearningRate <= 0 || m.MaxDepth <= 0 {
		return fmt.Errorf("model: invalid boosting parameters")
	}

	n := len(X)
	m.nIn = len(X[0])
	m.baseScore = stat.Mean(y, nil)
	m.trees = m.trees[:0]

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.baseScore
	}
	grad := make([]float64, n)
	idx := make([]int, n)

	for round := 0; round < m.Rounds; round++ {
		for i := range grad {
			grad[i] = pred[i] - y[i]
			idx[i] = i
		}
		tree := m.grow(X, grad, idx, 0)
		m.trees = append(m.trees, tree)
		for i, x := range X {
			pred[i] += m.LearningRate * tree.eval(x)
		}
	}
	return nil
}

func (m *GradientBoosting) Predict(x []float64) (float64, error) {
	if m.trees == nil {
		return 0, ErrNotFitted
	}
	if len(x) != m.nIn {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrShape, len(x), m.nIn)
	}
	out := m.baseScore
	for _, t := range m.trees {
		out += m.LearningRate * t.eval(x)
	}
	return out, nil
}

// Squared loss has unit hessian, so H is the sample count
func (m *GradientBoosting) leafWeight(g, h float64) float64 {
	return -g / (h + m.Lambda)
}

func (m *GradientBoosting) score(g, h float64) float64 {
	return g * g / (h + m.Lambda)
}

func (m *GradientBoosting) grow(X [][]float64, grad []float64, idx []int, depth int) *treeNode {
	var G float64
	for _, i := range idx {
		G += grad[i]
	}
	H := float64(len(idx))

	leaf := &treeNode{leaf: true, weight: m.leafWeight(G, H)}
	if depth >= m.MaxDepth || H < 2*m.MinChildWeight {
		return leaf
	}

	parent := m.score(G, H)
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(idx))
	for f := 0; f < m.nIn; f++ {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })

		var gl, hl float64
		for k := 0; k < len(sorted)-1; k++ {
			gl += grad[sorted[k]]
			hl++
			cur, next := X[sorted[k]][f], X[sorted[k+1]][f]
			if cur == next {
				continue
			}
			hr := H - hl
			if hl < m.MinChildWeight || hr < m.MinChildWeight {
				continue
			}
			gain := 0.5 * (m.score(gl, hl) + m.score(G-gl, hr) - parent)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if X[i][bestFeature] < bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      m.grow(X, grad, left, depth+1),
		right:     m.grow(X, grad, right, depth+1),
	}
}
