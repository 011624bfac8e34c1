// Package engine implements a Verlet particle solver with boundary
// constraints and pairwise collision resolution.
//
// Particles carry no explicit velocity: it is implicit in the delta
// between the current and previous position ([Particle.VelX],
// [Particle.VelY]). Boundary bounces and collision corrections work by
// mutating positions directly, and the next Verlet step derives a
// consistent velocity from the mutated history.
//
// # Stepping
//
//	solver := engine.NewSolver()
//	ps := []*engine.Particle{engine.New(0, 5, 20, 0.1, 0)}
//	solver.Step(ps, bounds, 1.0/60)
//
// Each frame is split into [Solver.Substeps] substeps. Within a
// substep every particle is integrated first, then every unordered
// pair is checked and resolved. Pair checks are exhaustive O(n²);
// there is no broad phase.
//
// # Thread Safety
//
// Solver and Particle are NOT thread-safe. The particle slice must not
// be mutated while Step runs; add or remove particles between frames.
package engine
