package fluxrecorder

import (
	"math"

	"github.com/AislingA/SKIRT9/internal/output"
	"github.com/AislingA/SKIRT9/internal/reduce"
)

// CalibratedSED is the post-calibration SED table: one row per
// wavelength, one column per allocated channel, all-zero columns included
// (plus a synthesized Total
// column when recordTotalOnly is false).
type CalibratedSED struct {
	Wavelengths []float64
	Columns     []output.Column
}

// CalibratedIFU is one calibrated IFU cube, ready for output.WriteIFUCube.
type CalibratedIFU struct {
	Channel string
	Cube    []float64 // Nx*Ny*Nλ, laid out pixel + wavelength*(Nx*Ny)
	Nx, Ny  int
	Nlambda int
}

// reducedArrays holds one channel's post-reduction, pre-calibration
// arrays.
type reducedArrays struct {
	sed []float64
	ifu []float64
}

// CalibrateAndWrite implements spec §4.3.5: sums every detector array
// across cooperating processes, applies flux/surface-brightness
// calibration factors, synthesizes the Total channel when it was not
// directly recorded, and emits output files. Only the reducer's root
// proceeds to write; non-root callers return (nil, nil, nil).
func (r *Recorder) CalibrateAndWrite(reducer reduce.Reducer, writer output.Writer) (*CalibratedSED, []CalibratedIFU, error) {
	reduced := make(map[*channel]reducedArrays, len(r.channels))

	for _, c := range r.channels {
		var entry reducedArrays
		if c.sed != nil {
			entry.sed = reducer.SumToRoot(c.sed.Snapshot())
		}
		if c.ifu != nil {
			entry.ifu = reducer.SumToRoot(c.ifu.Snapshot())
		}
		reduced[c] = entry
	}

	if !reducer.IsRoot() {
		return nil, nil, nil
	}

	nLambda := r.cfg.Wavelengths.Len()
	lambdas := make([]float64, nLambda)
	for i := range lambdas {
		lambdas[i] = r.cfg.Wavelengths.Lambda(i)
	}
	units := r.cfg.units()

	if r.cfg.SED != nil {
		d := r.cfg.SED.Distance
		cFlux := 1.0 / (4 * math.Pi * d * d)
		for c, vals := range reduced {
			if vals.sed == nil {
				continue
			}
			calibrated := make([]float64, nLambda)
			for i, v := range vals.sed {
				calibrated[i] = v * cFlux * units.FluxFactor(lambdas[i])
			}
			vals.sed = calibrated
			reduced[c] = vals
		}
	}

	if r.cfg.IFU != nil {
		ifu := r.cfg.IFU
		d := ifu.Distance
		omega := 4 * math.Atan(0.5*ifu.PixelSizeX/d) * math.Atan(0.5*ifu.PixelSizeY/d)
		cFlux := 1.0 / (4 * math.Pi * d * d)
		cSB := cFlux / omega
		npix := ifu.npix()
		for c, vals := range reduced {
			if vals.ifu == nil {
				continue
			}
			calibrated := make([]float64, len(vals.ifu))
			for i, v := range vals.ifu {
				ell := i / npix
				if ell >= nLambda {
					ell = nLambda - 1
				}
				calibrated[i] = v * cSB * units.SBFactor(lambdas[ell])
			}
			vals.ifu = calibrated
			reduced[c] = vals
		}
	}

	sed, ifus := r.assembleOutputs(reduced, lambdas)

	if writer != nil {
		if sed != nil {
			if err := writer.WriteSED(r.cfg.Instrument, sed.Wavelengths, sed.Columns); err != nil {
				return sed, ifus, err
			}
		}
		for _, cube := range ifus {
			meta := output.IFUMeta{Nx: cube.Nx, Ny: cube.Ny, Nlambda: cube.Nlambda}
			if r.cfg.IFU != nil {
				meta.PixelSizeX, meta.PixelSizeY = r.cfg.IFU.PixelSizeX, r.cfg.IFU.PixelSizeY
				meta.CenterX, meta.CenterY = r.cfg.IFU.CenterX, r.cfg.IFU.CenterY
			}
			name := r.cfg.Instrument + "_" + cube.Channel
			if err := writer.WriteIFUCube(name, cube.Cube, meta); err != nil {
				return sed, ifus, err
			}
		}
	}

	return sed, ifus, nil
}

func (r *Recorder) assembleOutputs(reduced map[*channel]reducedArrays, lambdas []float64) (*CalibratedSED, []CalibratedIFU) {
	var sed *CalibratedSED
	if r.cfg.SED != nil {
		sed = &CalibratedSED{Wavelengths: lambdas}
		for _, c := range r.channels {
			vals := reduced[c].sed
			// Unlike the IFU cubes below, the SED table carries a fixed set
			// of configured component columns; an all-zero column (e.g.
			// primaryscattered when no scattering occurred) is still emitted
			// so the table's column set round-trips.
			if vals == nil {
				continue
			}
			sed.Columns = append(sed.Columns, output.Column{Name: c.name(), Values: vals})
		}
		if total := r.synthesizeTotal(reduced, func(v reducedArrays) []float64 { return v.sed }, len(lambdas)); total != nil {
			sed.Columns = append([]output.Column{{Name: "total", Values: total}}, sed.Columns...)
		}
	}

	var ifus []CalibratedIFU
	if r.cfg.IFU != nil {
		npix := r.cfg.IFU.npix()
		n := npix * len(lambdas)
		for _, c := range r.channels {
			vals := reduced[c].ifu
			if vals == nil || isAllZero(vals) {
				continue
			}
			ifus = append(ifus, CalibratedIFU{
				Channel: c.name(), Cube: vals,
				Nx: r.cfg.IFU.Nx, Ny: r.cfg.IFU.Ny, Nlambda: len(lambdas),
			})
		}
		if total := r.synthesizeTotal(reduced, func(v reducedArrays) []float64 { return v.ifu }, n); total != nil {
			ifus = append([]CalibratedIFU{{
				Channel: "total", Cube: total,
				Nx: r.cfg.IFU.Nx, Ny: r.cfg.IFU.Ny, Nlambda: len(lambdas),
			}}, ifus...)
		}
	}

	return sed, ifus
}

// synthesizeTotal implements spec §4.3.5 step 3's Total synthesis:
// PrimaryDirect + PrimaryScattered, plus SecondaryDirect + SecondaryScattered
// when the medium emits. Only applies when recordTotalOnly is false, since
// a directly-recorded Total channel already covers that case.
func (r *Recorder) synthesizeTotal(reduced map[*channel]reducedArrays, pick func(reducedArrays) []float64, n int) []float64 {
	if r.recordTotalOnly {
		return nil
	}
	total := make([]float64, n)
	any := false
	add := func(k kind) {
		c := r.channel(k, 0)
		if c == nil {
			return
		}
		vals := pick(reduced[c])
		if vals == nil {
			return
		}
		any = true
		for i, v := range vals {
			if i < len(total) {
				total[i] += v
			}
		}
	}
	add(kindPrimaryDirect)
	add(kindPrimaryScattered)
	if r.cfg.MediumEmission {
		add(kindSecondaryDirect)
		add(kindSecondaryScattered)
	}
	if !any {
		return nil
	}
	return total
}

func isAllZero(vals []float64) bool {
	for _, v := range vals {
		if v != 0 {
			return false
		}
	}
	return true
}
