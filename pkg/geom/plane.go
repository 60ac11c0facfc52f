package geom

// Plane is a half-space boundary: a point p is on the inside (the side
// the plane's owner site occupies) when Normal.Dot(p) <= Offset, within
// an epsilon tolerance supplied by the caller.
type Plane struct {
	Normal Vector3
	Offset Real
}

// PlaneThrough builds the plane through point p with the given outward
// normal (not required to be unit length on input; it is normalized).
func PlaneThrough(p Point3, normal Vector3) Plane {
	n := normal.Norm()
	return Plane{Normal: n, Offset: n.Dot(Vector3{p.X, p.Y, p.Z})}
}

// Signed returns the signed distance of p from the plane along Normal;
// negative means p is on the inside.
func (pl Plane) Signed(p Point3) Real {
	return pl.Normal.Dot(Vector3{p.X, p.Y, p.Z}) - pl.Offset
}

// IntersectLine returns the parameter t at which the ray O + t·D crosses
// the plane. ok is false if D is parallel to the plane.
func (pl Plane) IntersectLine(O Point3, D Vector3) (t Real, ok bool) {
	denom := pl.Normal.Dot(D)
	if denom == 0 {
		return 0, false
	}
	t = (pl.Offset - pl.Normal.Dot(Vector3{O.X, O.Y, O.Z})) / denom
	return t, true
}

// Bisector returns the plane equidistant between a and b, with Normal
// pointing from a toward b (so a is always on the inside).
func Bisector(a, b Point3) Plane {
	mid := Point3{(a.X + b.X) * 0.5, (a.Y + b.Y) * 0.5, (a.Z + b.Z) * 0.5}
	n := b.Sub(a).Norm()
	return PlaneThrough(mid, n)
}
