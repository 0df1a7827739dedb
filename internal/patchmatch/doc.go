// Package patchmatch computes an approximate nearest-neighbour field between
// the patches of two feature images.
//
// For every target pixel the solver keeps a displacement to its best known
// source pixel and the distance of that match. The field starts from random
// guesses and is refined for a number of rounds, each round scanning the
// target in alternating raster directions and trying, per cell:
//
//   - random search: probes at geometrically shrinking radii around the
//     current match, along one random direction per cell and round;
//   - propagation: the displacements of the two neighbours ahead of the cell
//     in the current scan direction.
//
// A candidate replaces the current match only when its distance is strictly
// lower, so scores never increase. The solve stops after Options.Iterations
// rounds, or earlier when a round updates fewer than
// Options.TerminationUpdateRate of the cells. A rate of 1 stops after the
// first round.
//
// The solver is single-threaded and mutates the field in place. The
// neighbours ahead of a cell have not been visited yet in the current round,
// so propagation reads what they held at the end of the previous round.
//
// # Random search direction
//
// Each direction component is drawn uniformly from [-1, 1), so a probe at
// radius r lands anywhere in the square of half-side r around the current
// match.
package patchmatch
