package neural

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/micromachine/components"
)

const testInputs = 200

func fixedOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 42
	return opts
}

// roadAhead is a reading with a dark road band in the right half of the grid.
func roadAhead(right bool) []float32 {
	f := make([]float32, testInputs)
	for i := range f {
		col := i % 20
		if (col >= 10) == right {
			f[i] = 0.22
		} else {
			f[i] = 0.6
		}
	}
	return f
}

func TestBrainTeachRightFiveTimes(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	features := roadAhead(true)

	for i := 0; i < 5; i++ {
		b.AddTrainingData(features, components.Right)
		res, err := b.Train()
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Examples)
		assert.False(t, res.Skipped)
	}

	assert.Equal(t, 5, b.TrainingCount())
	assert.GreaterOrEqual(t, b.Loss(), 0.0)

	got, err := b.Evaluate(features)
	require.NoError(t, err)
	assert.Equal(t, components.Right, got)
}

func TestBrainLearnsTwoClasses(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	left, right := roadAhead(false), roadAhead(true)

	for i := 0; i < 3; i++ {
		b.AddTrainingData(left, components.Left)
		b.AddTrainingData(right, components.Right)
	}
	_, err := b.Train()
	require.NoError(t, err)

	d, err := b.Evaluate(left)
	require.NoError(t, err)
	assert.Equal(t, components.Left, d)

	d, err = b.Evaluate(right)
	require.NoError(t, err)
	assert.Equal(t, components.Right, d)
}

func TestBrainTrainEmptyIsNoop(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	before, err := b.Probabilities(roadAhead(true))
	require.NoError(t, err)

	res, err := b.Train()
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, res.Iterations)
	assert.Zero(t, b.Loss())

	after, err := b.Probabilities(roadAhead(true))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBrainReset(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	b.AddTrainingData(roadAhead(true), components.Right)
	_, err := b.Train()
	require.NoError(t, err)
	require.Equal(t, 1, b.TrainingCount())

	b.Reset()

	assert.Zero(t, b.TrainingCount())
	assert.Zero(t, b.Loss())
	assert.Empty(t, b.Examples())

	// Still usable with the same input size
	_, err = b.Evaluate(roadAhead(false))
	assert.NoError(t, err)
}

func TestBrainDimensionMismatch(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())

	_, err := b.Evaluate(make([]float32, testInputs-1))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = b.Probabilities(make([]float32, testInputs+1))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestBrainDropsMalformedExamples(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())

	b.AddTrainingData(make([]float32, 3), components.Left)
	b.AddTrainingData(roadAhead(true), components.Direction(7))
	assert.Zero(t, b.TrainingCount())

	// Later valid examples still train
	for i := 0; i < 3; i++ {
		b.AddTrainingData(roadAhead(true), components.Right)
		res, err := b.Train()
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Examples)
	}
	assert.Equal(t, 3, b.TrainingCount())

	got, err := b.Evaluate(roadAhead(true))
	require.NoError(t, err)
	assert.Equal(t, components.Right, got)
}

func TestBrainAddTrainingDataCopies(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	f := roadAhead(true)
	b.AddTrainingData(f, components.Right)
	f[0] = 99

	ex := b.Examples()
	require.Len(t, ex, 1)
	assert.NotEqual(t, float32(99), ex[0].Features[0])
	assert.Equal(t, components.Right, ex[0].Label)
}

func TestBrainDeterministic(t *testing.T) {
	train := func() [NumOutputs]float64 {
		b := NewBrain(testInputs, fixedOptions())
		b.AddTrainingData(roadAhead(true), components.Right)
		b.AddTrainingData(roadAhead(false), components.Left)
		_, err := b.Train()
		require.NoError(t, err)
		p, err := b.Probabilities(roadAhead(true))
		require.NoError(t, err)
		return p
	}
	assert.Equal(t, train(), train())
}

func TestBrainIterationCap(t *testing.T) {
	opts := fixedOptions()
	opts.MaxIterations = 1
	b := NewBrain(testInputs, opts)
	b.AddTrainingData(roadAhead(true), components.Right)

	res, err := b.Train()
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Positive(t, res.Loss)
}

// meanLoss is the cross-entropy of the brain's current model over examples.
func meanLoss(t *testing.T, b *Brain, examples []Example) float64 {
	t.Helper()
	var sum float64
	for _, ex := range examples {
		p, err := b.Probabilities(ex.Features)
		require.NoError(t, err)
		sum -= math.Log(p[ex.Label])
	}
	return sum / float64(len(examples))
}

func TestBrainKeepsBestModelWhenCapped(t *testing.T) {
	// Identical readings with conflicting labels, and a threshold no run can meet
	opts := fixedOptions()
	opts.ConvergenceThreshold = -1
	conflicting := func(b *Brain) {
		ones := make([]float32, testInputs)
		for i := range ones {
			ones[i] = 1
		}
		for i := 0; i < 50; i++ {
			b.AddTrainingData(ones, components.Direction(i%components.NumDirections))
		}
	}

	// One capped step measures the untrained model
	opts.MaxIterations = 1
	initial := NewBrain(testInputs, opts)
	conflicting(initial)
	first, err := initial.Train()
	require.NoError(t, err)

	opts.MaxIterations = 300
	b := NewBrain(testInputs, opts)
	conflicting(b)
	res, err := b.Train()
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, 300, res.Iterations)
	assert.LessOrEqual(t, res.Loss, first.Loss)
	assert.LessOrEqual(t, res.Loss, res.LastLoss)
	assert.InDelta(t, res.Loss, meanLoss(t, b, b.Examples()), 1e-9)
	assert.InDelta(t, math.Round(res.Loss*100)/100, b.Loss(), 1e-12)
}

func TestBrainLossRounded(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	b.AddTrainingData(roadAhead(true), components.Right)
	b.AddTrainingData(roadAhead(true), components.Straight)
	_, err := b.Train()
	require.NoError(t, err)

	loss := b.Loss()
	assert.InDelta(t, loss, float64(int(loss*100+0.5))/100, 1e-9)
}

func TestBrainOnChange(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	var seen []Status
	b.OnChange(func(s Status) { seen = append(seen, s) })

	b.AddTrainingData(roadAhead(true), components.Right)
	_, err := b.Train()
	require.NoError(t, err)
	b.Reset()

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].TrainingCount)
	assert.Equal(t, 1, seen[1].TrainingCount)
	assert.Equal(t, Status{}, seen[2])
}

func TestBrainConcurrentUse(t *testing.T) {
	b := NewBrain(testInputs, fixedOptions())
	f := roadAhead(true)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := b.Evaluate(f); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for i := 0; i < 3; i++ {
		b.AddTrainingData(f, components.Right)
		if _, err := b.Train(); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()

	assert.Equal(t, 3, b.TrainingCount())
}
