package voronoi

import "github.com/AislingA/SKIRT9/pkg/geom"

// Candidate is one other site considered as a potential neighbor of the
// cell being built, already sorted by increasing distance from the site.
type Candidate struct {
	ID   int
	Site geom.Point3
}

// BuildCell constructs the Voronoi cell owned by site, inside box, by
// clipping against candidates in increasing-distance order and stopping
// as soon as a candidate's bisecting plane cannot possibly reach the
// current cell (its closest approach, at distance d/2, exceeds the
// farthest vertex of the cell measured from site).
func BuildCell(box geom.Box3, site geom.Point3, candidates []Candidate, eps geom.Real) (*Cell, error) {
	cell := NewBoxCell(box)
	for _, cand := range candidates {
		d2 := site.DistSq(cand.Site)
		maxVert2 := cell.MaxVertexDist2(site)
		if d2 > 0 && (d2/4) > maxVert2 {
			break
		}
		plane := geom.Bisector(site, cand.Site)
		cell.Clip(plane, cand.ID, eps)
	}
	if len(cell.faces) < 4 {
		return nil, ErrDegenerateCell
	}
	return cell, nil
}
