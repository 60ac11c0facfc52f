package geom

import "math"

// Box3 is an axis-aligned bounding box, inclusive of both Min and Max.
type Box3 struct {
	Min, Max Point3
}

// Diagonal returns the Euclidean length of the box's space diagonal; used
// to derive the construction tolerance ε = 1e-12·diagonal(B).
func (b Box3) Diagonal() Real {
	d := b.Max.Sub(b.Min)
	return d.Len()
}

// Center returns the box's geometric center.
func (b Box3) Center() Point3 {
	return Point3{
		(b.Min.X + b.Max.X) * 0.5,
		(b.Min.Y + b.Max.Y) * 0.5,
		(b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Contains reports whether p lies within the box (inclusive bounds).
func (b Box3) Contains(p Point3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Expand returns a box grown by eps on every side.
func (b Box3) Expand(eps Real) Box3 {
	return Box3{
		Min: Point3{b.Min.X - eps, b.Min.Y - eps, b.Min.Z - eps},
		Max: Point3{b.Max.X + eps, b.Max.Y + eps, b.Max.Z + eps},
	}
}

// Union returns the smallest box containing both a and b.
func Union(a, b Box3) Box3 {
	return Box3{
		Min: Point3{rmin(a.Min.X, b.Min.X), rmin(a.Min.Y, b.Min.Y), rmin(a.Min.Z, b.Min.Z)},
		Max: Point3{rmax(a.Max.X, b.Max.X), rmax(a.Max.Y, b.Max.Y), rmax(a.Max.Z, b.Max.Z)},
	}
}

// Overlaps reports whether two boxes share any volume.
func (b Box3) Overlaps(o Box3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func rmin(a, b Real) Real {
	if a < b {
		return a
	}
	return b
}

func rmax(a, b Real) Real {
	if a > b {
		return a
	}
	return b
}

// IntersectRay advances a ray (origin O, unit direction D) to its first
// intersection with the box using the slab method. ok is false if the ray
// misses the box entirely (including if the box is entirely behind O).
func (b Box3) IntersectRay(O Point3, D Vector3) (tEnter, tExit Real, ok bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o, d, lo, hi := axisComponents(axis, O, D, b)
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t1, t2 := (lo-o)*inv, (hi-o)*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	if tMax < 0 {
		return 0, 0, false
	}
	return tMin, tMax, true
}

func axisComponents(axis int, O Point3, D Vector3, b Box3) (o, d, lo, hi Real) {
	switch axis {
	case 0:
		return O.X, D.X, b.Min.X, b.Max.X
	case 1:
		return O.Y, D.Y, b.Min.Y, b.Max.Y
	default:
		return O.Z, D.Z, b.Min.Z, b.Max.Z
	}
}
