package photonsource

import "github.com/AislingA/SKIRT9/pkg/geom"

// RNG is the random-number source the core consumes (spec §6): uniform
// [0,1) draws, uniform points in an axis-aligned box, and inverse-CDF
// sampling over a tabulated log-log CDF. The concrete RNG implementation —
// its seeding, its stream-splitting across threads — lives outside this
// module entirely; callers typically wrap *math/rand.Rand per worker
// thread, mirroring photons4d's light.go per-goroutine sampler instances.
type RNG interface {
	// Uniform draws a value in [0,1).
	Uniform() float64

	// UniformPoint draws a uniformly distributed point within box.
	UniformPoint(box geom.Box3) geom.Point3

	// InverseCDF samples a value from a tabulated log-log cumulative
	// distribution: xs and cdf are parallel, increasing slices giving the
	// CDF value at each x. Returns the interpolated x corresponding to a
	// fresh uniform draw.
	InverseCDF(xs, cdf []float64) float64
}

// LogLogInterpolate performs the piecewise-linear table lookup an
// InverseCDF implementation typically needs: given a monotonically
// increasing cdf table and a target value u in [cdf[0], cdf[len-1]],
// returns x linearly interpolated between the bracketing table entries.
// The name follows the tables it is normally applied to (log-spaced xs
// against a log-scaled cdf); the interpolation itself is linear in
// whatever units xs/cdf already carry, not a log-log fit. Exposed as a
// free function so RNG implementations living outside this module can
// share it without depending on a concrete RNG struct here.
func LogLogInterpolate(xs, cdf []float64, u float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) == 1 || u <= cdf[0] {
		return xs[0]
	}
	if u >= cdf[len(cdf)-1] {
		return xs[len(xs)-1]
	}
	lo, hi := 0, len(cdf)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if cdf[mid] <= u {
			lo = mid
		} else {
			hi = mid
		}
	}
	x0, x1 := xs[lo], xs[hi]
	c0, c1 := cdf[lo], cdf[hi]
	if c1 == c0 {
		return x0
	}
	frac := (u - c0) / (c1 - c0)
	return x0 + frac*(x1-x0)
}
