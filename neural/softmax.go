// Package neural provides the trainable steering classifier.
package neural

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/micromachine/components"
)

// NumOutputs is one unit per steering direction.
const NumOutputs = components.NumDirections

// minProb keeps log() finite when a target class is driven to zero.
const minProb = 1e-12

// Softmax is a single fully connected layer followed by a softmax over the directions.
type Softmax struct {
	W      *mat.Dense // NumOutputs x inputs
	B      []float64  // NumOutputs
	inputs int
}

// NewSoftmax creates a randomly initialized layer with zero biases.
func NewSoftmax(rng *rand.Rand, inputs int) *Softmax {
	scale := math.Sqrt(1.0 / float64(inputs))
	data := make([]float64, NumOutputs*inputs)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return &Softmax{
		W:      mat.NewDense(NumOutputs, inputs, data),
		B:      make([]float64, NumOutputs),
		inputs: inputs,
	}
}

// Inputs returns the input dimensionality.
func (m *Softmax) Inputs() int {
	return m.inputs
}

// Forward returns the class probabilities for one feature vector.
// len(x) must equal Inputs().
func (m *Softmax) Forward(x []float32) [NumOutputs]float64 {
	x64 := make([]float64, len(x))
	for i, v := range x {
		x64[i] = float64(v)
	}

	var out [NumOutputs]float64
	for k := 0; k < NumOutputs; k++ {
		out[k] = m.B[k] + floats.Dot(m.W.RawRowView(k), x64)
	}
	softmax(out[:])
	return out
}

// Step performs one full-batch gradient descent update on mean cross-entropy.
// X is batch x inputs, Y the one-hot targets (batch x NumOutputs).
// Returns the loss measured before the update.
func (m *Softmax) Step(X, Y *mat.Dense, lr float64) float64 {
	n, _ := X.Dims()

	// Logits, then probabilities in place
	var p mat.Dense
	p.Mul(X, m.W.T())
	for i := 0; i < n; i++ {
		row := p.RawRowView(i)
		floats.Add(row, m.B)
		softmax(row)
	}

	var loss float64
	for i := 0; i < n; i++ {
		prow := p.RawRowView(i)
		yrow := Y.RawRowView(i)
		for k := 0; k < NumOutputs; k++ {
			if yrow[k] > 0 {
				loss -= yrow[k] * math.Log(math.Max(prow[k], minProb))
			}
		}
	}
	loss /= float64(n)

	// dL/dz = (P - Y) / n
	var dz mat.Dense
	dz.Sub(&p, Y)
	dz.Scale(1/float64(n), &dz)

	var dw mat.Dense
	dw.Mul(dz.T(), X)
	dw.Scale(lr, &dw)
	m.W.Sub(m.W, &dw)

	for k := 0; k < NumOutputs; k++ {
		m.B[k] -= lr * mat.Sum(dz.ColView(k))
	}

	return loss
}

// Clone creates a deep copy of the layer.
func (m *Softmax) Clone() *Softmax {
	return &Softmax{
		W:      mat.DenseCopyOf(m.W),
		B:      append([]float64(nil), m.B...),
		inputs: m.inputs,
	}
}

// copyFrom overwrites m's parameters with src's. Sizes must match.
func (m *Softmax) copyFrom(src *Softmax) {
	m.W.Copy(src.W)
	copy(m.B, src.B)
}

// softmax normalizes z in place.
func softmax(z []float64) {
	maxZ := floats.Max(z)
	for i := range z {
		z[i] = math.Exp(z[i] - maxZ)
	}
	floats.Scale(1/floats.Sum(z), z)
}

// argmax returns the index of the largest value; the lowest index wins ties.
func argmax(v []float64) int {
	return floats.MaxIdx(v)
}

// Decode returns the direction with the highest probability; the lowest index wins ties.
func Decode(p [NumOutputs]float64) components.Direction {
	return components.Direction(argmax(p[:]))
}
