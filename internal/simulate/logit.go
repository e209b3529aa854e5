package simulate

import "math"

// logit is a binary logistic regression with an L2 penalty, fitted by
// full-batch gradient descent on standardized features. Coefficients are
// reported on the original feature scale.
type logit struct {
	W       []float64
	B       float64
	Lr      float64
	MaxIter int
	// C is the inverse regularization strength.
	C float64
}

func newLogit(maxIter int) *logit {
	if maxIter <= 0 {
		maxIter = 1000
	}
	return &logit{Lr: 0.5, MaxIter: maxIter, C: 1}
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

// Fit trains on X (rows by features) and 0/1 labels y.
func (m *logit) Fit(X [][]float64, y []float64) {
	n := len(X)
	if n == 0 {
		return
	}
	k := len(X[0])
	means, stds := make([]float64, k), make([]float64, k)
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			means[j] += X[i][j]
		}
		means[j] /= float64(n)
		for i := 0; i < n; i++ {
			d := X[i][j] - means[j]
			stds[j] += d * d
		}
		stds[j] = math.Sqrt(stds[j] / float64(n))
	}
	Z := make([][]float64, n)
	for i := range Z {
		Z[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			if stds[j] > 0 {
				Z[i][j] = (X[i][j] - means[j]) / stds[j]
			}
		}
	}

	w := make([]float64, k)
	b := 0.0
	gW := make([]float64, k)
	for it := 0; it < m.MaxIter; it++ {
		for j := range gW {
			gW[j] = w[j] / m.C
		}
		gb := 0.0
		for i, row := range Z {
			s := b
			for j, v := range row {
				s += w[j] * v
			}
			d := sigmoid(s) - y[i]
			for j, v := range row {
				gW[j] += d * v
			}
			gb += d
		}
		for j := range w {
			w[j] -= m.Lr * gW[j] / float64(n)
		}
		b -= m.Lr * gb / float64(n)
	}

	m.W = make([]float64, k)
	m.B = b
	for j := 0; j < k; j++ {
		if stds[j] > 0 {
			m.W[j] = w[j] / stds[j]
			m.B -= m.W[j] * means[j]
		}
	}
}

// PredictProba returns P(y=1) for each row.
func (m *logit) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		s := m.B
		for j, v := range row {
			s += m.W[j] * v
		}
		out[i] = sigmoid(s)
	}
	return out
}
