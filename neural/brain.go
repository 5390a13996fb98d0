package neural

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/micromachine/components"
)

// ErrDimensionMismatch is returned when a feature vector's length differs from
// the brain's input size. Inputs are never truncated or padded.
var ErrDimensionMismatch = errors.New("feature vector length does not match brain inputs")

// Example is one labelled reading. Features is owned by the example.
type Example struct {
	Features []float32
	Label    components.Direction
}

// Status is the externally observable brain state.
type Status struct {
	Loss          float64
	TrainingCount int
}

// TrainResult describes one Train call.
type TrainResult struct {
	Examples   int
	Iterations int
	Loss       float64 // Unrounded loss of the kept model
	LastLoss   float64 // Loss at the final iteration
	Converged  bool
	Skipped    bool // No examples to train on
	Discarded  bool // A Reset happened while training; the result was dropped
	Duration   time.Duration
}

// LogValue implements slog.LogValuer for structured logging.
func (r TrainResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("examples", r.Examples),
		slog.Int("iterations", r.Iterations),
		slog.Float64("loss", r.Loss),
		slog.Float64("last_loss", r.LastLoss),
		slog.Bool("converged", r.Converged),
		slog.Bool("skipped", r.Skipped),
		slog.Bool("discarded", r.Discarded),
		slog.Int64("duration_us", r.Duration.Microseconds()),
	)
}

// Brain maps feature vectors to directions and learns from labelled examples.
// It is safe for concurrent use. Train optimises a private copy of the model
// and swaps it in when done, so Evaluate is never blocked by training.
type Brain struct {
	mu         sync.RWMutex
	inputs     int
	opts       Options
	rng        *rand.Rand
	model      *Softmax
	examples   []Example
	loss       float64
	generation uint64 // bumped by Reset
	onChange   func(Status)

	trainMu sync.Mutex // serialises Train calls
}

// NewBrain creates an untrained brain for feature vectors of length inputs.
func NewBrain(inputs int, opts Options) *Brain {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	rng := rand.New(rand.NewSource(seed))
	return &Brain{
		inputs: inputs,
		opts:   opts,
		rng:    rng,
		model:  NewSoftmax(rng, inputs),
	}
}

// Inputs returns the feature vector length the brain accepts.
func (b *Brain) Inputs() int {
	return b.inputs
}

// OnChange registers fn to be called after every change to Loss or TrainingCount.
// fn runs on the goroutine that made the change, outside the brain's lock.
func (b *Brain) OnChange(fn func(Status)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Loss returns the loss of the last completed Train, rounded to two decimals.
func (b *Brain) Loss() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loss
}

// TrainingCount returns the number of accumulated examples.
func (b *Brain) TrainingCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.examples)
}

// Status returns Loss and TrainingCount together.
func (b *Brain) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.statusLocked()
}

func (b *Brain) statusLocked() Status {
	return Status{Loss: b.loss, TrainingCount: len(b.examples)}
}

// AddTrainingData stores a copy of features with its label. Nothing is trained yet.
// An example of the wrong length or with an unknown label is logged and dropped,
// so it can never block later Train calls.
func (b *Brain) AddTrainingData(features []float32, label components.Direction) {
	if len(features) != b.inputs || !label.Valid() {
		slog.Warn("dropping training example",
			"features", len(features),
			"want", b.inputs,
			"label", int(label),
		)
		return
	}

	clone := make([]float32, len(features))
	copy(clone, features)

	b.mu.Lock()
	b.examples = append(b.examples, Example{Features: clone, Label: label})
	status, fn := b.statusLocked(), b.onChange
	b.mu.Unlock()

	notify(fn, status)
}

// Examples returns a copy of the accumulated examples.
// The feature slices are shared and must not be modified.
func (b *Brain) Examples() []Example {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Example(nil), b.examples...)
}

// Probabilities returns the per-direction output of one forward pass.
func (b *Brain) Probabilities(features []float32) ([NumOutputs]float64, error) {
	if len(features) != b.inputs {
		return [NumOutputs]float64{}, fmt.Errorf("evaluate: got %d features, want %d: %w",
			len(features), b.inputs, ErrDimensionMismatch)
	}

	b.mu.RLock()
	model := b.model
	b.mu.RUnlock()

	// Models are replaced, never mutated, once published
	return model.Forward(features), nil
}

// Evaluate returns the direction with the highest output; the lowest index wins ties.
func (b *Brain) Evaluate(features []float32) (components.Direction, error) {
	probs, err := b.Probabilities(features)
	if err != nil {
		return components.Straight, err
	}
	return Decode(probs), nil
}

// Train fits the model to every accumulated example with full-batch gradient
// descent until the loss changes by no more than the convergence threshold.
//
// The loop is capped at Options.MaxIterations. Hitting the cap logs a warning
// and keeps the lowest-loss weights the run passed through, which need not be
// the last ones when the step size makes the loss oscillate. Training with no
// examples is a no-op.
func (b *Brain) Train() (TrainResult, error) {
	b.trainMu.Lock()
	defer b.trainMu.Unlock()

	start := time.Now()

	b.mu.RLock()
	examples := b.examples[:len(b.examples):len(b.examples)]
	model := b.model.Clone()
	generation := b.generation
	b.mu.RUnlock()

	result := TrainResult{Examples: len(examples)}
	if len(examples) == 0 {
		result.Skipped = true
		return result, nil
	}

	X, Y, err := b.batch(examples)
	if err != nil {
		return result, err
	}

	// Step reports the loss of the weights it started from; before holds them
	before, best := model.Clone(), model.Clone()
	bestLoss := math.Inf(1)

	// A fresh trainer reports zero loss before its first step
	var prev, loss float64
	for result.Iterations < b.opts.MaxIterations {
		before.copyFrom(model)
		loss = model.Step(X, Y, b.opts.LearningRate)
		result.Iterations++
		if loss < bestLoss {
			bestLoss = loss
			before, best = best, before
		}
		if math.Abs(prev-loss) <= b.opts.ConvergenceThreshold {
			result.Converged = true
			break
		}
		prev = loss
	}
	result.LastLoss = loss

	if !result.Converged {
		slog.Warn("training did not converge",
			"examples", result.Examples,
			"iterations", result.Iterations,
			"last_loss", loss,
			"best_loss", bestLoss,
		)
		model, loss = best, bestLoss
	}
	result.Loss = loss
	result.Duration = time.Since(start)

	b.mu.Lock()
	if generation != b.generation {
		b.mu.Unlock()
		result.Discarded = true
		return result, nil
	}
	b.model = model
	b.loss = math.Round(loss*100) / 100
	status, fn := b.statusLocked(), b.onChange
	b.mu.Unlock()

	notify(fn, status)
	return result, nil
}

// batch builds the input matrix and one-hot targets.
func (b *Brain) batch(examples []Example) (X, Y *mat.Dense, err error) {
	n := len(examples)
	X = mat.NewDense(n, b.inputs, nil)
	Y = mat.NewDense(n, NumOutputs, nil)

	for i, ex := range examples {
		if len(ex.Features) != b.inputs {
			return nil, nil, fmt.Errorf("example %d: got %d features, want %d: %w",
				i, len(ex.Features), b.inputs, ErrDimensionMismatch)
		}
		if !ex.Label.Valid() {
			return nil, nil, fmt.Errorf("example %d: invalid label %d", i, ex.Label)
		}
		row := X.RawRowView(i)
		for j, v := range ex.Features {
			row[j] = float64(v)
		}
		Y.Set(i, int(ex.Label), 1)
	}
	return X, Y, nil
}

// Reset discards every example and replaces the model with a fresh one of the
// same input size. A Train running concurrently has its result dropped.
func (b *Brain) Reset() {
	b.mu.Lock()
	b.examples = nil
	b.loss = 0
	b.model = NewSoftmax(b.rng, b.inputs)
	b.generation++
	status, fn := b.statusLocked(), b.onChange
	b.mu.Unlock()

	notify(fn, status)
}

func notify(fn func(Status), s Status) {
	if fn != nil {
		fn(s)
	}
}
