package voronoi

import (
	"math"
	"testing"

	"github.com/AislingA/SKIRT9/pkg/geom"
)

func p3(x, y, z float64) geom.Point3 { return geom.Point3{X: x, Y: y, Z: z} }

func almostEq(a, b, tol float64) bool { return math.Abs(a-b) < tol }

func unitBox() geom.Box3 {
	return geom.Box3{Min: p3(-1, -1, -1), Max: p3(1, 1, 1)}
}

func TestBuildCellSingleSiteFillsBox(t *testing.T) {
	box := unitBox()
	cell, err := BuildCell(box, p3(0, 0, 0), nil, 1e-9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := cell.Measure()
	want := 8.0 // (2*2*2)
	if !almostEq(props.Volume, want, 1e-6) {
		t.Fatalf("volume = %v, want %v", props.Volume, want)
	}
	if !almostEq(props.Centroid.X, 0, 1e-6) || !almostEq(props.Centroid.Y, 0, 1e-6) || !almostEq(props.Centroid.Z, 0, 1e-6) {
		t.Fatalf("centroid = %+v, want origin", props.Centroid)
	}
	for _, n := range props.Neighbors {
		if n >= 0 {
			t.Fatalf("single-site cell should only have wall neighbors, got %d", n)
		}
	}
}

func TestBuildCellTwoSitesSplitAtMidplane(t *testing.T) {
	box := unitBox()
	siteA := p3(-0.5, 0, 0)
	siteB := p3(0.5, 0, 0)

	cellA, err := BuildCell(box, siteA, []Candidate{{ID: 1, Site: siteB}}, 1e-9)
	if err != nil {
		t.Fatalf("cell A: %v", err)
	}
	cellB, err := BuildCell(box, siteB, []Candidate{{ID: 0, Site: siteA}}, 1e-9)
	if err != nil {
		t.Fatalf("cell B: %v", err)
	}

	propsA := cellA.Measure()
	propsB := cellB.Measure()

	if !almostEq(propsA.Volume, 4.0, 1e-6) {
		t.Fatalf("volume A = %v, want 4", propsA.Volume)
	}
	if !almostEq(propsB.Volume, 4.0, 1e-6) {
		t.Fatalf("volume B = %v, want 4", propsB.Volume)
	}
	if !almostEq(propsA.Volume+propsB.Volume, 8.0, 1e-6) {
		t.Fatalf("volumes do not sum to box volume: %v + %v", propsA.Volume, propsB.Volume)
	}

	foundNeighbor := false
	for _, n := range propsA.Neighbors {
		if n == 1 {
			foundNeighbor = true
		}
	}
	if !foundNeighbor {
		t.Fatalf("cell A neighbors %v do not include cell B", propsA.Neighbors)
	}

	if propsA.Max.X > 0+1e-6 {
		t.Fatalf("cell A should not extend past x=0, got max.X=%v", propsA.Max.X)
	}
	if propsB.Min.X < 0-1e-6 {
		t.Fatalf("cell B should not extend before x=0, got min.X=%v", propsB.Min.X)
	}
}

func TestBuildCellThreeSitesNeighborSymmetry(t *testing.T) {
	box := unitBox()
	sites := []geom.Point3{p3(-0.6, 0, 0), p3(0, 0, 0), p3(0.6, 0, 0)}

	cells := make([]*Cell, len(sites))
	for i, s := range sites {
		var cands []Candidate
		for j, o := range sites {
			if j == i {
				continue
			}
			cands = append(cands, Candidate{ID: j, Site: o})
		}
		c, err := BuildCell(box, s, cands, 1e-9)
		if err != nil {
			t.Fatalf("site %d: %v", i, err)
		}
		cells[i] = c
	}

	total := 0.0
	for i, c := range cells {
		p := c.Measure()
		total += p.Volume
		if i == 1 {
			has0, has2 := false, false
			for _, n := range p.Neighbors {
				if n == 0 {
					has0 = true
				}
				if n == 2 {
					has2 = true
				}
			}
			if !has0 || !has2 {
				t.Fatalf("middle cell neighbors = %v, want both 0 and 2", p.Neighbors)
			}
		}
	}
	if !almostEq(total, 8.0, 1e-6) {
		t.Fatalf("total volume = %v, want 8", total)
	}
}
