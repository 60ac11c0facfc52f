// Package photonsource defines the photon-packet data carried through the
// core and the external random-number-source interface the core consumes,
// per spec §3's packet data model and §6's RNG interface. Neither emission
// nor scattering-direction sampling is implemented here — those stay
// external collaborators, as spec §1's scope explicitly excludes them.
package photonsource

import "github.com/AislingA/SKIRT9/pkg/geom"

// Packet is a photon packet as the core sees it: wavelength, direction,
// luminosity, polarization state, scatter count, origin, and the
// history index that ties all of one emission's detections together.
type Packet struct {
	Wavelength float64 // λ, in the configured wavelength unit

	Direction geom.Vector3 // k̂, unit vector

	Luminosity float64 // L

	Q, U, V float64 // Stokes components (I is implicit in Luminosity)

	NumScatt int // n, number of scatterings so far

	HasPrimaryOrigin bool // true for primary (source) photons, false for secondary (re-emitted) photons

	HistoryIndex int64 // stable across every detection of this packet's full history
}

// Reset reinitializes a packet for reuse by a pooled emitter, clearing
// scattering history but keeping the HistoryIndex field available for the
// caller to assign.
func (p *Packet) Reset() {
	p.Q, p.U, p.V = 0, 0, 0
	p.NumScatt = 0
}
