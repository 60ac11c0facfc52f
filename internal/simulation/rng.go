package simulation

import (
	"math/rand"

	"github.com/AislingA/SKIRT9/internal/photonsource"
	"github.com/AislingA/SKIRT9/pkg/geom"
)

// mathRandRNG adapts a *rand.Rand to the photonsource.RNG interface.
// Every chunk body constructs its own instance (seeded from the chunk's
// first index), avoiding shared mutable RNG state across goroutines —
// the same per-goroutine-sampler idiom photons4d's light.go uses.
type mathRandRNG struct {
	r *rand.Rand
}

func newRNG(seed int64) photonsource.RNG {
	return &mathRandRNG{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandRNG) Uniform() float64 { return m.r.Float64() }

func (m *mathRandRNG) UniformPoint(box geom.Box3) geom.Point3 {
	return geom.Point3{
		X: box.Min.X + m.r.Float64()*(box.Max.X-box.Min.X),
		Y: box.Min.Y + m.r.Float64()*(box.Max.Y-box.Min.Y),
		Z: box.Min.Z + m.r.Float64()*(box.Max.Z-box.Min.Z),
	}
}

func (m *mathRandRNG) InverseCDF(xs, cdf []float64) float64 {
	u := m.r.Float64()
	if len(cdf) > 0 {
		u = cdf[0] + u*(cdf[len(cdf)-1]-cdf[0])
	}
	return photonsource.LogLogInterpolate(xs, cdf, u)
}

// UniformDirection draws an isotropic unit direction.
func (m *mathRandRNG) UniformDirection() geom.Vector3 {
	for {
		v := geom.Vector3{
			X: 2*m.r.Float64() - 1,
			Y: 2*m.r.Float64() - 1,
			Z: 2*m.r.Float64() - 1,
		}
		d2 := v.Dot(v)
		if d2 > 1e-12 && d2 <= 1 {
			return v.Norm()
		}
	}
}
