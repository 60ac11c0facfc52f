// Package reduce implements the cross-process reduction interface spec §6
// consumes: a single sumToRoot(array) operation plus an isRoot() gate. The
// core treats the actual transport (MPI, gRPC, or nothing at all) as
// external; this package supplies the narrow interface plus two concrete,
// in-process implementations, grounded on the worker/merge fan-in idiom
// janelia-flyem-dvid's datastore package uses to gather per-goroutine
// partial results over channels before a single writer commits them.
package reduce

// Reducer is the consumed cross-process reduction interface of spec §6.
type Reducer interface {
	// SumToRoot reduces array element-wise across cooperating processes
	// and returns the root's receive-buffer view of the summed array. The
	// returned slice on non-root ranks is unspecified (spec §6); callers
	// must gate on IsRoot before using it.
	SumToRoot(array []float64) []float64

	// IsRoot reports whether this process is the designated output rank.
	IsRoot() bool
}

// Local is the single-rank, no-MPI implementation: every process is the
// root, and reduction is the identity, since there is nothing else to sum
// against. This is the default for a single-machine run.
type Local struct{}

var _ Reducer = Local{}

func (Local) SumToRoot(array []float64) []float64 { return array }

func (Local) IsRoot() bool { return true }
