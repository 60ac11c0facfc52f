package fluxrecorder

import (
	"strconv"

	"github.com/AislingA/SKIRT9/internal/atomicfloat"
)

// kind identifies a detector channel's physical meaning; it is the
// channel-name vocabulary spec §6's IFU output naming enumerates.
type kind int

const (
	kindTotal kind = iota
	kindTransparent
	kindPrimaryDirect
	kindPrimaryScattered
	kindSecondaryDirect
	kindSecondaryScattered
	kindStokesQ
	kindStokesU
	kindStokesV
	kindPrimaryScatteredLevel // level carries which k; one channel per level
)

func (k kind) String() string {
	switch k {
	case kindTotal:
		return "total"
	case kindTransparent:
		return "transparent"
	case kindPrimaryDirect:
		return "primarydirect"
	case kindPrimaryScattered:
		return "primaryscattered"
	case kindSecondaryDirect:
		return "secondarydirect"
	case kindSecondaryScattered:
		return "secondaryscattered"
	case kindStokesQ:
		return "stokesQ"
	case kindStokesU:
		return "stokesU"
	case kindStokesV:
		return "stokesV"
	case kindPrimaryScatteredLevel:
		return "primaryscatteredlevel"
	default:
		return "unknown"
	}
}

// channel is one allocated detector channel: its SED array (length Nλ, if
// SED output is enabled) and its IFU array (length Nx·Ny·Nλ, if IFU
// output is enabled).
type channel struct {
	kind  kind
	level int // only meaningful when kind == kindPrimaryScatteredLevel; 0-based

	sed atomicfloat.Slice
	ifu atomicfloat.Slice
}

func (c *channel) name() string {
	if c.kind == kindPrimaryScatteredLevel {
		return "primaryscatteredlevel" + strconv.Itoa(c.level)
	}
	return c.kind.String()
}
