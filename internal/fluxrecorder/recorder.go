package fluxrecorder

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/AislingA/SKIRT9/internal/atomicfloat"
)

// Recorder is a configured FluxRecorder instance. Construct with New,
// which performs spec §4.3.1's finalizeConfiguration channel allocation;
// all subsequent operations (Detect, Flush, CalibrateAndWrite) run
// against the frozen channel layout.
type Recorder struct {
	cfg             Config
	recordTotalOnly bool

	channels []*channel
	byKind   map[kindKey]*channel

	sedMoments [4]atomicfloat.Slice // index k-1, k=1..4; only if RecordStatistics
	ifuMoments [4]atomicfloat.Slice

	listsMu sync.Mutex
	lists   []*ContributionList
}

type kindKey struct {
	k     kind
	level int
}

// New allocates detector channels per the rules of spec §3 and §4.3.1.
// recordTotalOnly (only the Total channel) applies when recordComponents
// is false, or when no medium is present at all.
func New(cfg Config) (*Recorder, error) {
	if cfg.Wavelengths == nil {
		return nil, errors.New("fluxrecorder: wavelength grid is required")
	}
	if cfg.SED == nil && cfg.IFU == nil {
		return nil, errors.New("fluxrecorder: at least one of SED or IFU output must be enabled")
	}

	r := &Recorder{
		cfg:             cfg,
		recordTotalOnly: !cfg.RecordComponents || !cfg.MediumPresent,
		byKind:          make(map[kindKey]*channel),
	}

	nLambda := cfg.Wavelengths.Len()
	var nIFU int
	if cfg.IFU != nil {
		nIFU = cfg.IFU.npix() * nLambda
	}

	alloc := func(k kind, level int) *channel {
		c := &channel{kind: k, level: level}
		if cfg.SED != nil {
			c.sed = atomicfloat.NewSlice(nLambda)
		}
		if cfg.IFU != nil {
			c.ifu = atomicfloat.NewSlice(nIFU)
		}
		r.channels = append(r.channels, c)
		r.byKind[kindKey{k, level}] = c
		return c
	}

	if r.recordTotalOnly {
		alloc(kindTotal, 0)
	} else {
		alloc(kindTransparent, 0)
		alloc(kindPrimaryDirect, 0)
		alloc(kindPrimaryScattered, 0)
		alloc(kindSecondaryDirect, 0)
		alloc(kindSecondaryScattered, 0)

		// Stokes and per-level channels are orthogonal additions to the
		// component breakdown above, so §4.3.1's "only the Total channel is
		// allocated" applies to them too: neither is ever written in the
		// total-only branch of accumulate, so neither is allocated here.
		if cfg.RecordPolarization {
			alloc(kindStokesQ, 0)
			alloc(kindStokesU, 0)
			alloc(kindStokesV, 0)
		}
		for lvl := 0; lvl < cfg.NumScatteringLevels; lvl++ {
			alloc(kindPrimaryScatteredLevel, lvl)
		}
	}

	if cfg.RecordStatistics {
		for k := range r.sedMoments {
			if cfg.SED != nil {
				r.sedMoments[k] = atomicfloat.NewSlice(nLambda)
			}
			if cfg.IFU != nil {
				r.ifuMoments[k] = atomicfloat.NewSlice(nIFU)
			}
		}
	}

	return r, nil
}

// ChannelCount returns the number of allocated channels (spec §8's
// testable property: "allocated channel count equals the formula of §3
// exactly").
func (r *Recorder) ChannelCount() int { return len(r.channels) }

// RecordTotalOnly reports whether only the Total channel is allocated.
func (r *Recorder) RecordTotalOnly() bool { return r.recordTotalOnly }

func (r *Recorder) channel(k kind, level int) *channel {
	return r.byKind[kindKey{k, level}]
}
