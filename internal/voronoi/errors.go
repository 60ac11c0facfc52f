package voronoi

import "errors"

// ErrDegenerateCell is returned when a cell fails to compute a valid
// polyhedron (fewer than four bounding faces survive clipping). Callers
// treat this as the fatal-physical condition of spec §7 ("Voronoi cell
// fails to compute").
var ErrDegenerateCell = errors.New("voronoi: cell failed to compute")
