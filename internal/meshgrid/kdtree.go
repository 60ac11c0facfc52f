package meshgrid

import (
	"sort"

	"github.com/AislingA/SKIRT9/pkg/geom"
)

// kdSite is a (cell id, site position) pair indexed by a kdNode.
type kdSite struct {
	id  int
	pos geom.Point3
}

// kdNode is a median-split tree over site positions, built per spec
// §4.1.1 step 4. Ownership is by value: the node owns its children
// outright (no parent pointers), so the "descend then unwind" search of
// spec §4.1.2 is expressed by threading the best-so-far through the
// recursive return value rather than walking back up via back-references
// (see spec §9's design note on avoiding back-pointer cycles).
type kdNode struct {
	axis  int
	site  kdSite
	left  *kdNode
	right *kdNode
}

func axisOf(p geom.Point3, axis int) geom.Real {
	switch axis % 3 {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func lessLex(a, b geom.Point3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// buildKdTree recursively median-splits sites on axis = depth mod 3, with
// ties broken lexicographically on (x,y,z).
func buildKdTree(sites []kdSite, depth int) *kdNode {
	if len(sites) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(sites, func(i, j int) bool {
		ai, aj := axisOf(sites[i].pos, axis), axisOf(sites[j].pos, axis)
		if ai != aj {
			return ai < aj
		}
		return lessLex(sites[i].pos, sites[j].pos)
	})
	mid := len(sites) / 2
	node := &kdNode{axis: axis, site: sites[mid]}
	node.left = buildKdTree(sites[:mid], depth+1)
	node.right = buildKdTree(sites[mid+1:], depth+1)
	return node
}

// nearest implements spec §4.1.2's descend-then-unwind nearest-site
// search: descend greedily by the splitting axis, then on the way back up
// test whether the squared distance from p to the splitting plane is less
// than the current best, recursing into the far side only when it might
// hold something closer.
func (n *kdNode) nearest(p geom.Point3, bestID int, bestDist2 geom.Real) (int, geom.Real) {
	if n == nil {
		return bestID, bestDist2
	}
	d2 := p.DistSq(n.site.pos)
	if bestID < 0 || d2 < bestDist2 {
		bestID, bestDist2 = n.site.id, d2
	}

	diff := axisOf(p, n.axis) - axisOf(n.site.pos, n.axis)
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}
	bestID, bestDist2 = near.nearest(p, bestID, bestDist2)
	if diff*diff < bestDist2 {
		bestID, bestDist2 = far.nearest(p, bestID, bestDist2)
	}
	return bestID, bestDist2
}
