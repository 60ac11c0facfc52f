package meshgrid

import "github.com/AislingA/SKIRT9/pkg/geom"

// Segment is one (cellId, pathLength) pair produced by Walk.
type Segment struct {
	CellID int
	Length geom.Real
}

// Walk implements spec §4.1.3: given a ray entering the box, returns the
// exhaustive ordered list of (cellId, segmentLength) pairs traversed
// until the ray exits. An empty slice is returned if the ray misses the
// box or cannot be located on entry.
func (g *Grid) Walk(origin geom.Point3, dir geom.Vector3) []Segment {
	d := dir.Norm()
	tEnter, tExit, ok := g.box.IntersectRay(origin, d)
	if !ok {
		return nil
	}
	if tEnter < 0 {
		tEnter = 0
	}
	r := origin.Add(d.Mul(tEnter))
	boxExitDist := tExit - tEnter
	if boxExitDist < 0 {
		return nil
	}

	m := g.CellIndexOf(r)
	if m < 0 {
		return nil
	}

	var segs []Segment
	for steps := 0; steps < maxWalkSteps; steps++ {
		cell := g.byID[m]
		if cell == nil {
			return segs
		}

		sq, mq, found := g.nextCrossing(cell, r, d)
		if !found {
			r = r.Add(d.Mul(g.eps))
			next := g.CellIndexOf(r)
			if next < 0 {
				return segs
			}
			m = next
			continue
		}

		segs = append(segs, Segment{CellID: m, Length: sq})
		r = r.Add(d.Mul(sq + g.eps))
		if mq < 0 {
			return segs
		}
		m = mq
	}
	return segs
}

// maxWalkSteps bounds pathological cycles (e.g. numerical degeneracy
// repeatedly failing to find a forward crossing); a well-formed grid
// never approaches this in practice.
const maxWalkSteps = 1_000_000

// nextCrossing implements spec §4.1.3 step 2: scan cell's neighbors for
// the nearest strictly-positive forward intersection with either a real
// neighbor's bisecting plane or a domain wall.
func (g *Grid) nextCrossing(cell *Cell, r geom.Point3, d geom.Vector3) (geom.Real, int, bool) {
	bestDist := geom.Real(-1)
	bestID := 0
	found := false

	for _, nb := range cell.Neighbors {
		var s geom.Real
		var ok bool
		if nb >= 0 {
			other := g.byID[nb]
			if other == nil {
				continue
			}
			n := other.Site.Sub(cell.Site)
			mid := geom.Point3{
				X: (other.Site.X + cell.Site.X) * 0.5,
				Y: (other.Site.Y + cell.Site.Y) * 0.5,
				Z: (other.Site.Z + cell.Site.Z) * 0.5,
			}
			denom := n.Dot(d)
			if denom <= 0 {
				continue
			}
			s = n.Dot(mid.Sub(r)) / denom
			ok = s > 0
		} else {
			s, ok = g.wallDistance(nb, r, d)
		}
		if ok && (!found || s < bestDist) {
			bestDist, bestID, found = s, nb, true
		}
	}
	return bestDist, bestID, found
}

func (g *Grid) wallDistance(wall int, r geom.Point3, d geom.Vector3) (geom.Real, bool) {
	var normal geom.Vector3
	var plane geom.Real
	switch wall {
	case WallXMin:
		normal, plane = geom.Vector3{X: -1}, -g.box.Min.X
	case WallXMax:
		normal, plane = geom.Vector3{X: 1}, g.box.Max.X
	case WallYMin:
		normal, plane = geom.Vector3{Y: -1}, -g.box.Min.Y
	case WallYMax:
		normal, plane = geom.Vector3{Y: 1}, g.box.Max.Y
	case WallZMin:
		normal, plane = geom.Vector3{Z: -1}, -g.box.Min.Z
	case WallZMax:
		normal, plane = geom.Vector3{Z: 1}, g.box.Max.Z
	default:
		return 0, false
	}
	denom := normal.Dot(d)
	if denom == 0 {
		return 0, false
	}
	num := plane - normal.Dot(geom.Vector3{X: r.X, Y: r.Y, Z: r.Z})
	s := num / denom
	return s, s > 0
}
