package simulation

import "github.com/AislingA/SKIRT9/internal/fluxrecorder"

// project maps a unit direction's transverse components onto an IFU
// pixel grid via a simple orthographic projection: x,y in [-1,1) scale
// linearly to [0,Nx) x [0,Ny). Returns -1 if the direction falls outside
// the field of view or IFU output is disabled. A real instrument's
// projection from 3-D position/direction to pixel index is an external
// collaborator spec §1 excludes; this is a minimal stand-in sufficient to
// exercise the IFU branch end to end.
func project(ifu *fluxrecorder.IFUConfig, dirX, dirY float64) int {
	if ifu == nil {
		return -1
	}
	if dirX < -1 || dirX >= 1 || dirY < -1 || dirY >= 1 {
		return -1
	}
	px := int((dirX + 1) / 2 * float64(ifu.Nx))
	py := int((dirY + 1) / 2 * float64(ifu.Ny))
	if px < 0 || px >= ifu.Nx || py < 0 || py >= ifu.Ny {
		return -1
	}
	return px + py*ifu.Nx
}
