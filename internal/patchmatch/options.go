package patchmatch

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions reports solver options outside their valid range.
var ErrInvalidOptions = errors.New("patchmatch: invalid options")

// Options configures Solve.
type Options struct {
	// InitialCandidates is the number of random source pixels tried per
	// target cell during initialisation.
	InitialCandidates int

	// Iterations is the maximum number of refinement rounds.
	Iterations int

	// DecayRate shrinks the random-search radius after every probe.
	DecayRate float64

	// TerminationUpdateRate stops the solve after a round that improved
	// fewer than this fraction of the cells. A rate of 1 always stops after
	// the first round.
	TerminationUpdateRate float64

	// Seed seeds the random generator. Zero seeds from the clock.
	Seed uint64

	// Distance compares two patches. Nil means SquaredL2.
	Distance Distance

	// Observer, when set, is called after the random-search and the
	// propagation sub-step of every visited cell.
	Observer func(Step)
}

// DefaultOptions returns 5 initial candidates, at most 10 rounds, radius
// halving and a 5% termination threshold.
func DefaultOptions() Options {
	return Options{
		InitialCandidates:     5,
		Iterations:            10,
		DecayRate:             0.5,
		TerminationUpdateRate: 0.05,
		Distance:              SquaredL2,
	}
}

// Validate reports out-of-range values.
func (o Options) Validate() error {
	switch {
	case o.InitialCandidates <= 0:
		return fmt.Errorf("%w: initial candidates %d must be positive", ErrInvalidOptions, o.InitialCandidates)
	case o.Iterations < 0:
		return fmt.Errorf("%w: iterations %d must not be negative", ErrInvalidOptions, o.Iterations)
	case !(o.DecayRate > 0 && o.DecayRate < 1):
		return fmt.Errorf("%w: decay rate %v must be in (0, 1)", ErrInvalidOptions, o.DecayRate)
	case !(o.TerminationUpdateRate >= 0 && o.TerminationUpdateRate <= 1):
		return fmt.Errorf("%w: termination update rate %v must be in [0, 1]", ErrInvalidOptions, o.TerminationUpdateRate)
	}
	return nil
}

// Phase names a solver sub-step.
type Phase int

const (
	PhaseSearch Phase = iota
	PhasePropagate
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSearch:
		return "search"
	case PhasePropagate:
		return "propagate"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Step describes one sub-step applied to one target cell.
type Step struct {
	Phase  Phase
	Round  int
	Y, X   int
	Before float64
	After  float64
}

// Improved reports whether the sub-step lowered the cell's score.
func (s Step) Improved() bool {
	return s.After < s.Before
}
