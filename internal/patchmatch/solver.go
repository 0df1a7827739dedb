package patchmatch

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/ironsheep/iconfit/internal/feature"
)

// Result is the outcome of Solve.
type Result struct {
	// Field maps every target pixel to its best source pixel found.
	Field *Field

	// Rounds is the number of refinement rounds that ran.
	Rounds int

	// Updates holds, per round, the number of cells whose score improved.
	Updates []int

	// Seed is the seed the random generator was started from.
	Seed uint64
}

// NewRand returns the generator Solve uses for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Solve computes a displacement field from the patches of target to the
// patches of source.
//
// Both layers must have the same patch dimension; otherwise
// feature.ErrDimensionMismatch is returned before any work is done.
func Solve(source, target *feature.BlockImage, opts Options) (*Result, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("%w: nil block image", ErrInvalidOptions)
	}
	if err := feature.CheckCompatible(source, target); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Distance == nil {
		opts.Distance = SquaredL2
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &solver{
		source: source,
		target: target,
		opts:   opts,
		rng:    NewRand(seed),
		field:  NewField(target.Height(), target.Width()),
	}
	s.initialize()

	res := &Result{Field: s.field, Seed: seed}
	cells := float64(target.Height() * target.Width())
	for round := 0; round < opts.Iterations; round++ {
		updates := s.refine(round)
		res.Rounds++
		res.Updates = append(res.Updates, updates)
		// A rate of 1 means one round, even when every cell improved.
		if opts.TerminationUpdateRate >= 1 || float64(updates) < opts.TerminationUpdateRate*cells {
			break
		}
	}
	return res, nil
}

type solver struct {
	source *feature.BlockImage
	target *feature.BlockImage
	opts   Options
	rng    *rand.Rand
	field  *Field
}

// initialize gives every target cell the best of InitialCandidates uniformly
// drawn source pixels. Cells are visited in raster order; for each candidate
// the row is drawn before the column.
func (s *solver) initialize() {
	sh, sw := s.source.Height(), s.source.Width()
	for i := 0; i < s.field.Height; i++ {
		for j := 0; j < s.field.Width; j++ {
			tp := s.target.PatchAt(i, j)
			idx := i*s.field.Width + j
			for k := 0; k < s.opts.InitialCandidates; k++ {
				y := s.rng.IntN(sh)
				x := s.rng.IntN(sw)
				score := s.opts.Distance(tp, s.source.PatchAt(y, x))
				if k == 0 || score < s.field.scores[idx] {
					s.field.scores[idx] = score
					s.field.disp[idx] = Displacement{DY: y - i, DX: x - j}
				}
			}
		}
	}
}

// refine runs one round and returns the number of improved cells.
func (s *solver) refine(round int) int {
	f := s.field
	scan := directionOf(round).Scan(f.Height, f.Width)
	maxRadius := float64(max(s.source.Height(), s.source.Width()))

	updates := 0
	for i := scan.YBegin; i != scan.YEnd; i += scan.YDelta {
		for j := scan.XBegin; j != scan.XEnd; j += scan.XDelta {
			idx := i*f.Width + j
			tp := s.target.PatchAt(i, j)
			start := f.scores[idx]

			// Random search around the match held at the start of the cell.
			dy := s.rng.Float64()*2 - 1
			dx := s.rng.Float64()*2 - 1
			d := f.disp[idx]
			y0 := float64(i + d.DY)
			x0 := float64(j + d.DX)
			for radius := maxRadius; radius > 1.0; radius *= s.opts.DecayRate {
				y1 := int(math.Floor(y0 + dy*radius + 0.5))
				x1 := int(math.Floor(x0 + dx*radius + 0.5))
				s.try(idx, i, j, tp, y1, x1)
			}
			searched := f.scores[idx]
			s.observe(PhaseSearch, round, i, j, start, searched)

			// Propagation from the neighbours ahead in this round's order.
			if ni := i + scan.YDelta; 0 <= ni && ni < f.Height {
				nd := f.disp[ni*f.Width+j]
				s.try(idx, i, j, tp, i+nd.DY, j+nd.DX)
			}
			if nj := j + scan.XDelta; 0 <= nj && nj < f.Width {
				nd := f.disp[i*f.Width+nj]
				s.try(idx, i, j, tp, i+nd.DY, j+nd.DX)
			}
			s.observe(PhasePropagate, round, i, j, searched, f.scores[idx])

			if f.scores[idx] < start {
				updates++
			}
		}
	}
	return updates
}

// try evaluates source pixel (y, x) for target cell (i, j) and keeps it when
// it is strictly better. Out-of-bounds candidates are skipped.
func (s *solver) try(idx, i, j int, tp feature.Patch, y, x int) bool {
	if !s.source.InBounds(y, x) {
		return false
	}
	score := s.opts.Distance(tp, s.source.PatchAt(y, x))
	if score < s.field.scores[idx] {
		s.field.scores[idx] = score
		s.field.disp[idx] = Displacement{DY: y - i, DX: x - j}
		return true
	}
	return false
}

func (s *solver) observe(phase Phase, round, y, x int, before, after float64) {
	if s.opts.Observer != nil {
		s.opts.Observer(Step{Phase: phase, Round: round, Y: y, X: x, Before: before, After: after})
	}
}
