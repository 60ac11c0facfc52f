// Package voronoi builds individual Voronoi cells as convex polyhedra by
// successive half-space clipping of the domain box against the bisecting
// planes of nearby sites, in the spirit of the incremental cell
// construction used by voro++-style tessellators (see
// original_source/SKIRT/core/VoronoiMeshSnapshot.cpp, which drives the
// same algorithm through a third-party tessellation library). It has no
// dependency on the mesh/acceleration layer above it: callers supply
// candidate neighbor sites already sorted by increasing distance.
package voronoi

import "github.com/AislingA/SKIRT9/pkg/geom"

// wall identifiers, matching spec §3: −1..−6 for xmin,xmax,ymin,ymax,zmin,zmax.
const (
	WallXMin = -1
	WallXMax = -2
	WallYMin = -3
	WallYMax = -4
	WallZMin = -5
	WallZMax = -6
)

// face is one planar, convex facet of a cell under construction. Owner is
// the neighbor cell id (≥0) or a wall id (−1..−6) on the other side of the
// facet. Verts is an ordered loop, counter-clockwise as seen from outside
// the cell (i.e. from the Owner side).
type face struct {
	owner  int
	normal geom.Vector3
	offset geom.Real
	verts  []geom.Point3
}

// Cell is a convex polyhedron under (or after) construction.
type Cell struct {
	faces []face
}

// NewBoxCell starts a cell as the full domain box, with the six wall faces.
func NewBoxCell(b geom.Box3) *Cell {
	lo, hi := b.Min, b.Max
	mk := func(owner int, normal geom.Vector3, verts [4]geom.Point3) face {
		n := normal.Norm()
		return face{owner: owner, normal: n, offset: n.Dot(geom.Vector3{X: verts[0].X, Y: verts[0].Y, Z: verts[0].Z}), verts: verts[:]}
	}
	c := &Cell{}
	c.faces = append(c.faces,
		mk(WallXMin, geom.Vector3{X: -1}, [4]geom.Point3{{lo.X, lo.Y, lo.Z}, {lo.X, lo.Y, hi.Z}, {lo.X, hi.Y, hi.Z}, {lo.X, hi.Y, lo.Z}}),
		mk(WallXMax, geom.Vector3{X: 1}, [4]geom.Point3{{hi.X, lo.Y, lo.Z}, {hi.X, hi.Y, lo.Z}, {hi.X, hi.Y, hi.Z}, {hi.X, lo.Y, hi.Z}}),
		mk(WallYMin, geom.Vector3{Y: -1}, [4]geom.Point3{{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z}, {hi.X, lo.Y, hi.Z}, {lo.X, lo.Y, hi.Z}}),
		mk(WallYMax, geom.Vector3{Y: 1}, [4]geom.Point3{{lo.X, hi.Y, lo.Z}, {lo.X, hi.Y, hi.Z}, {hi.X, hi.Y, hi.Z}, {hi.X, hi.Y, lo.Z}}),
		mk(WallZMin, geom.Vector3{Z: -1}, [4]geom.Point3{{lo.X, lo.Y, lo.Z}, {lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z}, {hi.X, lo.Y, lo.Z}}),
		mk(WallZMax, geom.Vector3{Z: 1}, [4]geom.Point3{{lo.X, lo.Y, hi.Z}, {hi.X, lo.Y, hi.Z}, {hi.X, hi.Y, hi.Z}, {lo.X, hi.Y, hi.Z}}),
	)
	return c
}

// MaxVertexDist2 returns the largest squared distance from site to any
// current vertex of the cell; used to terminate the candidate scan early
// (a candidate at distance d cannot cut the cell once d/2 exceeds this
// radius, since its bisecting plane's closest approach to site is d/2).
func (c *Cell) MaxVertexDist2(site geom.Point3) geom.Real {
	best := geom.Real(0)
	for _, f := range c.faces {
		for _, v := range f.verts {
			if d := site.DistSq(v); d > best {
				best = d
			}
		}
	}
	return best
}

// Clip intersects the cell with the half-space {x : plane.Signed(x) <= eps}
// attributed to owner, returning whether the plane actually removed any
// volume (i.e. whether owner becomes a real neighbor).
func (c *Cell) Clip(plane geom.Plane, owner int, eps geom.Real) bool {
	var newFaces []face
	var segments []segment
	cut := false

	for _, f := range c.faces {
		kept, seg, touched := clipFace(f, plane, eps)
		if touched {
			cut = true
		}
		if len(kept) >= 3 {
			nf := f
			nf.verts = kept
			newFaces = append(newFaces, nf)
		}
		if seg != nil {
			segments = append(segments, *seg)
		}
	}

	if !cut {
		return false
	}

	if loop := stitchLoop(segments, eps); len(loop) >= 3 {
		n := plane.Normal
		if !consistentOrientation(loop, n) {
			reverse(loop)
		}
		newFaces = append(newFaces, face{owner: owner, normal: n, offset: plane.Offset, verts: loop})
	}
	c.faces = newFaces
	return true
}

// segment is one face's contribution to the new cutting-plane boundary: a
// directed edge from the point where the face's loop exits the inside
// half-space to the point where it re-enters.
type segment struct {
	exit, entry geom.Point3
}

// clipFace applies Sutherland-Hodgman polygon clipping of f's planar loop
// against plane, returning the retained vertex loop, the (exit,entry)
// segment contributed to the cutting plane if the face was actually cut,
// and whether any vertex lies outside (even if kept unchanged because
// nothing crossed, e.g. pure touch).
func clipFace(f face, plane geom.Plane, eps geom.Real) (kept []geom.Point3, seg *segment, touched bool) {
	n := len(f.verts)
	if n == 0 {
		return nil, nil, false
	}
	signed := make([]geom.Real, n)
	anyOutside := false
	for i, v := range f.verts {
		signed[i] = plane.Signed(v)
		if signed[i] > eps {
			anyOutside = true
		}
	}
	if !anyOutside {
		return f.verts, nil, false
	}

	var exitPt, entryPt geom.Point3
	haveExit, haveEntry := false, false

	for i := 0; i < n; i++ {
		cur, next := f.verts[i], f.verts[(i+1)%n]
		sCur, sNext := signed[i], signed[(i+1)%n]
		curIn := sCur <= eps
		nextIn := sNext <= eps

		if curIn {
			kept = append(kept, cur)
		}
		if curIn != nextIn {
			t := sCur / (sCur - sNext)
			p := lerp(cur, next, t)
			kept = append(kept, p)
			if curIn && !nextIn {
				exitPt, haveExit = p, true
			} else {
				entryPt, haveEntry = p, true
			}
		}
	}

	if haveExit && haveEntry {
		seg = &segment{exit: exitPt, entry: entryPt}
	}
	return kept, seg, true
}

func lerp(a, b geom.Point3, t geom.Real) geom.Point3 {
	return geom.Point3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// stitchLoop reconstructs the new cap polygon's vertex loop from the
// per-face (exit,entry) segments. Each point has degree exactly two across
// the segment set (it is shared by the two original faces meeting along
// the polyhedron edge the cutting plane crosses there), so a greedy walk
// reconstructs the unique simple cycle.
func stitchLoop(segs []segment, eps geom.Real) []geom.Point3 {
	if len(segs) == 0 {
		return nil
	}
	used := make([]bool, len(segs))
	loop := []geom.Point3{segs[0].exit}
	current := segs[0].entry
	used[0] = true
	loop = append(loop, current)

	for range segs {
		matched := -1
		for i, s := range segs {
			if used[i] {
				continue
			}
			if closeEnough(s.exit, current, eps) {
				matched = i
				current = s.entry
				break
			}
			if closeEnough(s.entry, current, eps) {
				matched = i
				current = s.exit
				break
			}
		}
		if matched < 0 {
			break
		}
		used[matched] = true
		if closeEnough(current, loop[0], eps) {
			break
		}
		loop = append(loop, current)
	}
	return loop
}

func closeEnough(a, b geom.Point3, eps geom.Real) bool {
	tol := eps
	if tol <= 0 {
		tol = 1e-9
	}
	tol = tol * tol * 100
	return a.DistSq(b) <= tol
}

// consistentOrientation reports whether the loop's Newell-method normal
// already points the same way as want.
func consistentOrientation(loop []geom.Point3, want geom.Vector3) bool {
	normal := newellNormal(loop)
	return normal.Dot(want) >= 0
}

func newellNormal(loop []geom.Point3) geom.Vector3 {
	var n geom.Vector3
	m := len(loop)
	for i := 0; i < m; i++ {
		cur := loop[i]
		next := loop[(i+1)%m]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

func reverse(loop []geom.Point3) {
	for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
		loop[i], loop[j] = loop[j], loop[i]
	}
}
