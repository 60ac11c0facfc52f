package meshgrid

import "github.com/AislingA/SKIRT9/pkg/geom"

// WallXMin ... WallZMax are the six domain-wall neighbor identifiers of
// spec §3: cells report these instead of a real cell id when a Voronoi
// facet bounds the domain box rather than another cell.
const (
	WallXMin = -1
	WallXMax = -2
	WallYMin = -3
	WallYMax = -4
	WallZMin = -5
	WallZMax = -6
)

// Cell is one convex Voronoi polyhedron, immutable after the grid that
// owns it finishes construction.
type Cell struct {
	ID        int
	Site      geom.Point3
	Centroid  geom.Point3
	Volume    geom.Real
	Min, Max  geom.Point3
	Neighbors []int
}

// Bounds returns the cell's axis-aligned bounding box.
func (c *Cell) Bounds() geom.Box3 {
	return geom.Box3{Min: c.Min, Max: c.Max}
}
