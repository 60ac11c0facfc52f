// Package meshgrid implements the MeshGrid core of spec §4.1: a Voronoi
// tessellation of a bounded box, its block-grid and k-d tree acceleration
// structures, and the point-location and ray-walk queries built on top of
// them.
package meshgrid

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/AislingA/SKIRT9/internal/skirterr"
	"github.com/AislingA/SKIRT9/internal/voronoi"
	"github.com/AislingA/SKIRT9/pkg/geom"
)

// Grid is an immutable Voronoi partition of a bounded box, ready for
// point-location and ray-walk queries.
type Grid struct {
	box   geom.Box3
	eps   geom.Real
	cells []*Cell
	byID  map[int]*Cell
	bg    *blockGrid

	cumMass []geom.Real // cumulative volume-weighted mass, for generatePosition() by mass
	totMass geom.Real
}

// Stats summarizes how many input sites were consumed during filtering
// (spec §7's "suppressed-input" condition): callers log these rather than
// treating them as fatal.
type Stats struct {
	InputSites int
	Outliers   int
	Duplicates int
	Cells      int
}

// NewGrid builds the mesh grid from a box and a list of candidate sites,
// per spec §4.1.1. A non-recoverable tessellation failure (spec §7's
// fatal-physical kind) is returned as an error with the offending site id.
func NewGrid(box geom.Box3, sites []geom.Point3, ignoreNearbyAndOutliers bool) (*Grid, Stats, error) {
	eps := 1e-12 * box.Diagonal()
	survivors, outliers, duplicates := filterSites(box, sites, ignoreNearbyAndOutliers, eps)

	stats := Stats{InputSites: len(sites), Outliers: outliers, Duplicates: duplicates}

	positions := make(map[int]geom.Point3, len(survivors))
	for _, s := range survivors {
		positions[s.idx] = s.pos
	}

	cells := make([]*Cell, 0, len(survivors))
	for _, s := range survivors {
		candidates := nearbyCandidatesBruteForce(s.idx, s.pos, survivors)
		poly, err := voronoi.BuildCell(box, s.pos, candidates, eps)
		if err != nil {
			return nil, stats, skirterr.Wrap(skirterr.FatalPhysical, "meshgrid", err, fmt.Sprintf("cell %d failed to compute", s.idx))
		}
		props := poly.Measure()
		cells = append(cells, &Cell{
			ID:        s.idx,
			Site:      s.pos,
			Centroid:  props.Centroid,
			Volume:    props.Volume,
			Min:       props.Min,
			Max:       props.Max,
			Neighbors: props.Neighbors,
		})
	}
	stats.Cells = len(cells)

	g := &Grid{box: box, eps: eps, cells: cells, byID: make(map[int]*Cell, len(cells))}
	for _, c := range cells {
		g.byID[c.ID] = c
	}
	repairNeighborSymmetry(g.byID)

	bg, err := buildBlockGrid(box, cells, eps)
	if err != nil {
		return nil, stats, skirterr.Wrap(skirterr.FatalPhysical, "meshgrid", err, "block grid construction failed")
	}
	g.bg = bg
	g.buildMassCDF()
	return g, stats, nil
}

// nearbyCandidatesBruteForce sorts all other surviving sites by distance
// to site; used by construction (a one-time cost, independent of the
// query-time block grid). Kept as a separate pass so BuildCell's early
// termination still caps the number of planes actually clipped.
func nearbyCandidatesBruteForce(selfIdx int, self geom.Point3, survivors []indexedSite) []voronoi.Candidate {
	cands := make([]voronoi.Candidate, 0, len(survivors)-1)
	for _, s := range survivors {
		if s.idx == selfIdx {
			continue
		}
		cands = append(cands, voronoi.Candidate{ID: s.idx, Site: s.pos})
	}
	sort.Slice(cands, func(i, j int) bool {
		return self.DistSq(cands[i].Site) < self.DistSq(cands[j].Site)
	})
	return cands
}

// repairNeighborSymmetry enforces invariant (iii) of spec §3: if cell a
// lists cell b as a neighbor, cell b must list a back. Clipping order can
// occasionally miss the reverse direction at the tie-breaking boundary
// between two faces of comparable size; this pass is the same kind of
// post-construction repair original_source/SKIRT/core/VoronoiMeshSnapshot.cpp
// performs after building cells through its tessellation library.
func repairNeighborSymmetry(byID map[int]*Cell) {
	for id, c := range byID {
		for _, n := range c.Neighbors {
			if n < 0 {
				continue
			}
			other, ok := byID[n]
			if !ok {
				continue
			}
			found := false
			for _, back := range other.Neighbors {
				if back == id {
					found = true
					break
				}
			}
			if !found {
				other.Neighbors = append(other.Neighbors, id)
			}
		}
	}
}

// Box returns the grid's domain box.
func (g *Grid) Box() geom.Box3 { return g.box }

// Eps returns the construction tolerance ε = 1e-12·diagonal(B).
func (g *Grid) Eps() geom.Real { return g.eps }

// Cell returns the cell with the given id, or nil if none exists (e.g. a
// site dropped by filtering never has a cell).
func (g *Grid) Cell(id int) *Cell { return g.byID[id] }

// Cells returns every cell in construction order.
func (g *Grid) Cells() []*Cell { return g.cells }

// CellIndexOf implements spec §4.1.2: returns -1 if p is outside the box,
// otherwise the id of the cell whose site minimizes squared distance to p.
func (g *Grid) CellIndexOf(p geom.Point3) int {
	if !g.box.Contains(p) {
		return -1
	}
	bi := g.bg.blockIndexOf(p)
	ids := g.bg.blocks[bi]
	if len(ids) == 0 {
		return g.scanAllBlocks(p)
	}
	if tree, ok := g.bg.trees[bi]; ok {
		id, _ := tree.nearest(p, -1, 0)
		return id
	}
	return g.linearScan(p, ids)
}

func (g *Grid) linearScan(p geom.Point3, ids []int) int {
	best, bestDist := -1, geom.Real(0)
	for _, id := range ids {
		d := p.DistSq(g.byID[id].Site)
		if best < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// scanAllBlocks is the fallback for the pathological case where a point
// lands in a block whose overlap list is empty (can happen for extremely
// sparse sites near a block's far corner); it degrades to a full linear
// scan rather than returning no answer.
func (g *Grid) scanAllBlocks(p geom.Point3) int {
	ids := make([]int, len(g.cells))
	for i, c := range g.cells {
		ids[i] = c.ID
	}
	return g.linearScan(p, ids)
}

func (g *Grid) buildMassCDF() {
	g.cumMass = make([]geom.Real, len(g.cells))
	var running geom.Real
	for i, c := range g.cells {
		running += c.Volume
		g.cumMass[i] = running
	}
	g.totMass = running
}

// GeneratePosition rejection-samples uniformly within cell m's bounding
// box, accepting a point when it is closer to m's site than to any
// neighbor's site. Spec §4.1.4 caps this at 10,000 attempts and treats
// exhaustion as a fatal-physical error.
func (g *Grid) GeneratePosition(m int, rng *rand.Rand) (geom.Point3, error) {
	cell := g.byID[m]
	if cell == nil {
		return geom.Point3{}, skirterr.New(skirterr.FatalUsage, "meshgrid", fmt.Sprintf("no such cell %d", m))
	}
	for attempt := 0; attempt < 10000; attempt++ {
		p := geom.Point3{
			X: cell.Min.X + rng.Float64()*(cell.Max.X-cell.Min.X),
			Y: cell.Min.Y + rng.Float64()*(cell.Max.Y-cell.Min.Y),
			Z: cell.Min.Z + rng.Float64()*(cell.Max.Z-cell.Min.Z),
		}
		if g.closestToOwnSite(p, cell) {
			return p, nil
		}
	}
	return geom.Point3{}, skirterr.New(skirterr.FatalPhysical, "meshgrid", fmt.Sprintf("generatePosition(%d) failed after 10000 attempts", m))
}

func (g *Grid) closestToOwnSite(p geom.Point3, cell *Cell) bool {
	d := p.DistSq(cell.Site)
	for _, n := range cell.Neighbors {
		if n < 0 {
			continue
		}
		other := g.byID[n]
		if other == nil {
			continue
		}
		if p.DistSq(other.Site) < d {
			return false
		}
	}
	return true
}

// GeneratePositionByMass draws a cell from the normalized cumulative
// volume-weighted distribution (spec §4.1.4), then samples within it.
// The cumulative array is precomputed once at construction (§3 of
// SPEC_FULL.md, following original_source/SKIRT/core/VoronoiMeshSnapshot.cpp's
// cached cumulative mass array) rather than rebuilt per call.
func (g *Grid) GeneratePositionByMass(rng *rand.Rand) (geom.Point3, int, error) {
	if g.totMass <= 0 {
		return geom.Point3{}, -1, skirterr.New(skirterr.FatalPhysical, "meshgrid", "zero total mass, cannot sample")
	}
	target := rng.Float64() * g.totMass
	idx := sort.Search(len(g.cumMass), func(i int) bool { return g.cumMass[i] >= target })
	if idx >= len(g.cells) {
		idx = len(g.cells) - 1
	}
	m := g.cells[idx].ID
	p, err := g.GeneratePosition(m, rng)
	return p, m, err
}
