package fluxrecorder

import (
	"math"

	"github.com/AislingA/SKIRT9/internal/photonsource"
)

// Detect implements spec §4.3.2: records a packet's contribution at an
// IFU pixel (pixel < 0 means the packet missed the instrument's field of
// view) given the optical depth τ accumulated since the last interaction.
// list must be the calling thread's own ContributionList (see
// NewContributionList); statistics are only folded correctly if every
// detection for a given historyIndex reaches Detect through the same
// list, matching spec §9's open-question assumption about the source.
func (r *Recorder) Detect(list *ContributionList, pp *photonsource.Packet, pixel int, tau float64) {
	ell := r.cfg.Wavelengths.BinIndex(pp.Wavelength)
	if ell < 0 || ell >= r.cfg.Wavelengths.Len() {
		return
	}

	L := pp.Luminosity
	Lext := L * math.Exp(-tau)
	n := pp.NumScatt

	if r.cfg.SED != nil {
		r.addSED(ell, L, Lext, n, pp)
	}
	if r.cfg.IFU != nil && pixel >= 0 {
		npix := r.cfg.IFU.npix()
		lell := pixel + ell*npix
		r.addIFU(lell, L, Lext, n, pp)
	}

	if r.cfg.RecordStatistics && list != nil {
		list.record(pp.HistoryIndex, ell, pixel, Lext)
	}
}

func (r *Recorder) addSED(ell int, L, Lext float64, n int, pp *photonsource.Packet) {
	addAt := func(k kind, level int, v float64) {
		if c := r.channel(k, level); c != nil && c.sed != nil && ell < len(c.sed) {
			c.sed[ell].Add(v)
		}
	}
	r.accumulate(addAt, L, Lext, n, pp)
}

func (r *Recorder) addIFU(lell int, L, Lext float64, n int, pp *photonsource.Packet) {
	addAt := func(k kind, level int, v float64) {
		if c := r.channel(k, level); c != nil && c.ifu != nil && lell < len(c.ifu) {
			c.ifu[lell].Add(v)
		}
	}
	r.accumulate(addAt, L, Lext, n, pp)
}

// accumulate applies spec §4.3.2's channel-selection rules through addAt,
// which closes over which array family (SED or IFU) and bin index to
// touch; this keeps the branching logic written exactly once.
func (r *Recorder) accumulate(addAt func(k kind, level int, v float64), L, Lext float64, n int, pp *photonsource.Packet) {
	switch {
	case r.recordTotalOnly:
		addAt(kindTotal, 0, L)
	case pp.HasPrimaryOrigin:
		if n == 0 {
			addAt(kindTransparent, 0, L)
			addAt(kindPrimaryDirect, 0, Lext)
		} else {
			addAt(kindPrimaryScattered, 0, Lext)
			if n <= r.cfg.NumScatteringLevels {
				addAt(kindPrimaryScatteredLevel, n-1, Lext)
			}
		}
	default:
		if n == 0 {
			addAt(kindSecondaryDirect, 0, Lext)
		} else {
			addAt(kindSecondaryScattered, 0, Lext)
		}
	}

	if !r.recordTotalOnly && r.cfg.RecordPolarization {
		addAt(kindStokesQ, 0, Lext*pp.Q)
		addAt(kindStokesU, 0, Lext*pp.U)
		addAt(kindStokesV, 0, Lext*pp.V)
	}
}

// Flush implements spec §4.3.4: folds every registered thread's pending
// contribution list and resets it. Must run after the photon loop
// completes and before CalibrateAndWrite. Idempotent: a list with no
// pending entries folds to a no-op (spec §8's flush-idempotence property).
func (r *Recorder) Flush() {
	r.listsMu.Lock()
	lists := append([]*ContributionList(nil), r.lists...)
	r.listsMu.Unlock()

	for _, l := range lists {
		l.fold()
	}
}
