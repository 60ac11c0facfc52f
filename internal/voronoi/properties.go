package voronoi

import "github.com/AislingA/SKIRT9/pkg/geom"

// Properties are the measurements spec §4.1.2 needs recorded per cell:
// centroid, volume, bounding box (absolute frame), and neighbor ids.
type Properties struct {
	Centroid  geom.Point3
	Volume    geom.Real
	Min, Max  geom.Point3
	Neighbors []int
}

// Measure decomposes the cell into tetrahedra fanned from its vertex
// average (a fast, numerically stable interior reference point for a
// convex polyhedron) and each face's triangle fan, accumulating volume and
// the volume-weighted centroid, and tracks the absolute bounding box and
// neighbor id list.
func (c *Cell) Measure() Properties {
	var props Properties
	if len(c.faces) == 0 {
		return props
	}

	ref := c.vertexAverage()
	var vol geom.Real
	var weighted geom.Vector3
	minP, maxP := ref, ref
	seen := make(map[int]bool, len(c.faces))
	neighbors := make([]int, 0, len(c.faces))

	for _, f := range c.faces {
		neighbors = appendUnique(neighbors, seen, f.owner)
		for _, v := range f.verts {
			minP, maxP = expandBounds(minP, maxP, v)
		}
		if len(f.verts) < 3 {
			continue
		}
		v0 := f.verts[0]
		for i := 1; i+1 < len(f.verts); i++ {
			v1, v2 := f.verts[i], f.verts[i+1]
			tetVol := signedTetVolume(ref, v0, v1, v2)
			vol += tetVol
			c := tetCentroid(ref, v0, v1, v2)
			weighted = weighted.Add(geom.Vector3{X: c.X * tetVol, Y: c.Y * tetVol, Z: c.Z * tetVol})
		}
	}

	if vol < 0 {
		vol = -vol
		weighted = weighted.Mul(-1)
	}
	props.Volume = vol
	if vol > 0 {
		props.Centroid = geom.Point3{X: weighted.X / vol, Y: weighted.Y / vol, Z: weighted.Z / vol}
	} else {
		props.Centroid = ref
	}
	props.Min, props.Max = minP, maxP
	props.Neighbors = neighbors
	return props
}

func (c *Cell) vertexAverage() geom.Point3 {
	var sum geom.Vector3
	n := 0
	for _, f := range c.faces {
		for _, v := range f.verts {
			sum = sum.Add(geom.Vector3{X: v.X, Y: v.Y, Z: v.Z})
			n++
		}
	}
	if n == 0 {
		return geom.Point3{}
	}
	inv := 1 / geom.Real(n)
	return geom.Point3{X: sum.X * inv, Y: sum.Y * inv, Z: sum.Z * inv}
}

func appendUnique(list []int, seen map[int]bool, id int) []int {
	if seen[id] {
		return list
	}
	seen[id] = true
	return append(list, id)
}

func expandBounds(minP, maxP, v geom.Point3) (geom.Point3, geom.Point3) {
	if v.X < minP.X {
		minP.X = v.X
	}
	if v.Y < minP.Y {
		minP.Y = v.Y
	}
	if v.Z < minP.Z {
		minP.Z = v.Z
	}
	if v.X > maxP.X {
		maxP.X = v.X
	}
	if v.Y > maxP.Y {
		maxP.Y = v.Y
	}
	if v.Z > maxP.Z {
		maxP.Z = v.Z
	}
	return minP, maxP
}

// signedTetVolume returns 1/6 of the scalar triple product, i.e. the
// signed volume of the tetrahedron (a,b,c,d).
func signedTetVolume(a, b, c, d geom.Point3) geom.Real {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	return ab.Cross(ac).Dot(ad) / 6
}

func tetCentroid(a, b, c, d geom.Point3) geom.Point3 {
	return geom.Point3{
		X: (a.X + b.X + c.X + d.X) / 4,
		Y: (a.Y + b.Y + c.Y + d.Y) / 4,
		Z: (a.Z + b.Z + c.Z + d.Z) / 4,
	}
}
