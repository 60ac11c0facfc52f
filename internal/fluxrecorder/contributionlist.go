package fluxrecorder

import (
	"sort"

	"github.com/AislingA/SKIRT9/internal/atomicfloat"
)

// contribEntry is one (ell, l, w) triple spec §3's ContributionList holds.
type contribEntry struct {
	ell int
	l   int // pixel bin, or -1 if the packet missed the IFU field of view
	w   float64
}

// ContributionList is the per-thread local structure spec §3 and §4.3.2
// describe: it accumulates (ell, l, L_ext) triples for the history
// currently in flight on its owning thread, and is recycled whenever a
// new historyIndex arrives. An instance is used by one goroutine at a
// time; internal/simulation allocates one per WorkerPool chunk body
// invocation — spec §9's note that thread-local state here is "an encapsulated local
// per worker, not a process global" rules out a package-level map keyed
// by goroutine, so the owning body must hold and pass its own instance.
type ContributionList struct {
	recorder *Recorder

	historyIndex int64
	hasHistory   bool
	entries      []contribEntry
}

// NewContributionList creates a list bound to r and registers it so
// Flush can fold it at batch end.
func (r *Recorder) NewContributionList() *ContributionList {
	l := &ContributionList{recorder: r}
	r.listsMu.Lock()
	r.lists = append(r.lists, l)
	r.listsMu.Unlock()
	return l
}

// record appends an entry, folding the previous history's entries into
// the moment arrays first if historyIndex has changed (spec §4.3.2).
func (l *ContributionList) record(historyIndex int64, ell, pixel int, w float64) {
	if l.hasHistory && l.historyIndex != historyIndex {
		l.fold()
	}
	l.historyIndex = historyIndex
	l.hasHistory = true
	l.entries = append(l.entries, contribEntry{ell: ell, l: pixel, w: w})
}

// fold implements spec §4.3.3: sort by (ell,l), sum consecutive
// contributions that share ell into per-ell SED moments, and sum those
// that additionally share l (and have l≥0) into per-(ell,l) IFU moments.
// A single sort covers both groupings because l is the secondary sort
// key, so all entries for one ell are contiguous and all entries for one
// (ell,l) pair are contiguous within that.
func (l *ContributionList) fold() {
	defer func() {
		l.entries = l.entries[:0]
		l.hasHistory = false
	}()
	if len(l.entries) == 0 {
		return
	}
	entries := l.entries
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ell != entries[j].ell {
			return entries[i].ell < entries[j].ell
		}
		return entries[i].l < entries[j].l
	})

	r := l.recorder
	hasSED := r.cfg.SED != nil
	hasIFU := r.cfg.IFU != nil
	var npix int
	if hasIFU {
		npix = r.cfg.IFU.npix()
	}

	addMoments := func(arrs [4]atomicfloat.Slice, bin int, wTotal float64) {
		if bin < 0 {
			return
		}
		pw := wTotal
		for k := 0; k < 4; k++ {
			if arrs[k] != nil && bin < len(arrs[k]) {
				arrs[k][bin].Add(pw)
			}
			pw *= wTotal
		}
	}

	sedEll := entries[0].ell
	var sedRunning float64
	flushSED := func() {
		if hasSED {
			addMoments(r.sedMoments, sedEll, sedRunning)
		}
	}

	ifuOpen := false
	ifuEll, ifuL := 0, 0
	var ifuRunning float64
	flushIFU := func() {
		if ifuOpen && hasIFU {
			addMoments(r.ifuMoments, ifuL+ifuEll*npix, ifuRunning)
		}
	}

	for i, e := range entries {
		if i == 0 || e.ell != sedEll {
			if i > 0 {
				flushSED()
			}
			sedEll = e.ell
			sedRunning = 0
		}
		sedRunning += e.w

		if e.l >= 0 {
			if ifuOpen && (e.ell != ifuEll || e.l != ifuL) {
				flushIFU()
				ifuOpen = false
			}
			if !ifuOpen {
				ifuEll, ifuL = e.ell, e.l
				ifuRunning = 0
				ifuOpen = true
			}
			ifuRunning += e.w
		} else if ifuOpen {
			flushIFU()
			ifuOpen = false
		}
	}
	flushSED()
	flushIFU()
}
