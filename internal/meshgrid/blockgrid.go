package meshgrid

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/AislingA/SKIRT9/pkg/geom"
)

// blockGrid is the uniform nb×nb×nb subdivision of the domain box from
// spec §3. Each block stores the cell ids whose (epsilon-expanded)
// bounding box overlaps it.
type blockGrid struct {
	box      geom.Box3
	nb       int
	cellSize geom.Vector3
	blocks   [][]int // flat, index = ((bx*nb)+by)*nb+bz
	trees    map[int]*kdNode
}

// nbFor implements spec §3's nb = clamp(3, 1000, round(3·M^(1/3))).
func nbFor(m int) int {
	if m <= 0 {
		m = 1
	}
	nb := int(math.Round(3 * math.Cbrt(float64(m))))
	if nb < 3 {
		nb = 3
	}
	if nb > 1000 {
		nb = 1000
	}
	return nb
}

// rtreeBox adapts a geom.Box3 to rtreego's Spatial interface so the block
// grid can be populated with a real R-tree range query instead of hand-
// rolled index-range arithmetic.
type rtreeBox struct {
	cellID int
	rect   rtreego.Rect
}

func (r *rtreeBox) Bounds() rtreego.Rect { return r.rect }

func toRect(b geom.Box3) (rtreego.Rect, error) {
	lengths := []float64{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
	for i, l := range lengths {
		if l <= 0 {
			lengths[i] = 1e-12
		}
	}
	return rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}, lengths)
}

func buildBlockGrid(box geom.Box3, cells []*Cell, eps geom.Real) (*blockGrid, error) {
	nb := nbFor(len(cells))
	bg := &blockGrid{
		box: box,
		nb:  nb,
		cellSize: geom.Vector3{
			X: (box.Max.X - box.Min.X) / geom.Real(nb),
			Y: (box.Max.Y - box.Min.Y) / geom.Real(nb),
			Z: (box.Max.Z - box.Min.Z) / geom.Real(nb),
		},
		blocks: make([][]int, nb*nb*nb),
		trees:  make(map[int]*kdNode),
	}

	tree := rtreego.NewTree(3, 4, 16)
	for _, c := range cells {
		expanded := c.Bounds().Expand(eps)
		rect, err := toRect(expanded)
		if err != nil {
			return nil, err
		}
		tree.Insert(&rtreeBox{cellID: c.ID, rect: rect})
	}

	for bx := 0; bx < nb; bx++ {
		for by := 0; by < nb; by++ {
			for bz := 0; bz < nb; bz++ {
				blockBox := bg.blockBounds(bx, by, bz)
				rect, err := toRect(blockBox)
				if err != nil {
					return nil, err
				}
				hits := tree.SearchIntersect(rect)
				ids := make([]int, 0, len(hits))
				for _, h := range hits {
					ids = append(ids, h.(*rtreeBox).cellID)
				}
				bg.blocks[bg.index(bx, by, bz)] = ids
			}
		}
	}

	cellByID := make(map[int]*Cell, len(cells))
	for _, c := range cells {
		cellByID[c.ID] = c
	}
	for i, ids := range bg.blocks {
		if len(ids) > 5 {
			sites := make([]kdSite, len(ids))
			for j, id := range ids {
				sites[j] = kdSite{id: id, pos: cellByID[id].Site}
			}
			bg.trees[i] = buildKdTree(sites, 0)
		}
	}
	return bg, nil
}

func (bg *blockGrid) index(bx, by, bz int) int {
	return (bx*bg.nb+by)*bg.nb + bz
}

func (bg *blockGrid) blockBounds(bx, by, bz int) geom.Box3 {
	min := geom.Point3{
		X: bg.box.Min.X + geom.Real(bx)*bg.cellSize.X,
		Y: bg.box.Min.Y + geom.Real(by)*bg.cellSize.Y,
		Z: bg.box.Min.Z + geom.Real(bz)*bg.cellSize.Z,
	}
	max := geom.Point3{
		X: bg.box.Min.X + geom.Real(bx+1)*bg.cellSize.X,
		Y: bg.box.Min.Y + geom.Real(by+1)*bg.cellSize.Y,
		Z: bg.box.Min.Z + geom.Real(bz+1)*bg.cellSize.Z,
	}
	return geom.Box3{Min: min, Max: max}
}

// blockIndexOf returns the flat block index containing p, clamped to the
// valid range (callers only invoke this after confirming p is in box).
func (bg *blockGrid) blockIndexOf(p geom.Point3) int {
	bx := bg.axisIndex(p.X, bg.box.Min.X, bg.cellSize.X)
	by := bg.axisIndex(p.Y, bg.box.Min.Y, bg.cellSize.Y)
	bz := bg.axisIndex(p.Z, bg.box.Min.Z, bg.cellSize.Z)
	return bg.index(bx, by, bz)
}

func (bg *blockGrid) axisIndex(v, min, size geom.Real) int {
	i := int((v - min) / size)
	if i < 0 {
		i = 0
	}
	if i >= bg.nb {
		i = bg.nb - 1
	}
	return i
}
