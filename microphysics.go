/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package sigma

import "math"

// Warm-rain column microphysics (spec.md §4.7). Saturation vapor pressure
// uses a hand-rolled Tetens form rather than a pack dependency -- see
// DESIGN.md for why no example repo supplies this function.

const (
	relHumidityThreshold = 0.80   // saturation fraction below which no condensation occurs
	condensationKappaMax = 1.0    // upper bound on the condensation rate coefficient
	autoconvCloudThresh  = 2.0e-3 // kg/kg, cloud water threshold for autoconversion onset
	autoconvRate         = 2.0e-4 // 1/s, autoconversion rate above threshold
)

// satVaporPressure returns the saturation vapor pressure over liquid water
// at temperature t (Kelvin), Pa, using the Tetens approximation.
func satVaporPressure(t float64) float64 {
	tc := t - 273.15
	return 610.94 * math.Exp(17.625*tc/(tc+243.04))
}

// satMixingRatio returns the saturation mixing ratio at temperature t
// (Kelvin) and pressure p (Pa).
func satMixingRatio(t, p float64) float64 {
	es := satVaporPressure(t)
	return 0.622 * es / (p - es)
}

// StepMicrophysics runs the column-local warm-rain scheme: condensation or
// evaporation toward a relative-humidity threshold, autoconversion of cloud
// water to rain above a fixed threshold, latent heat exchange with POTT,
// and rain accumulation into RAINRATE/ACCRAIN. It is a no-op when
// MicrophysicsSwitch is false.
func StepMicrophysics(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.Config()
	if cfg == nil || !cfg.MicrophysicsSwitch {
		return nil
	}

	pott := fs.MustGet("POTT")
	pvtf := fs.MustGet("PVTF")
	colp := fs.MustGet("COLP")
	qv := fs.MustGet("QV")
	qc := fs.MustGet("QC")
	qr := fs.MustGet("QR")
	dpottdtphy := fs.MustGet("DPOTTDTPHY")
	dqvdtphy := fs.MustGet("DQVDTPHY")
	dqcdtphy := fs.MustGet("DQCDTPHY")
	dqrdtphy := fs.MustGet("DQRDTPHY")
	rainrate := fs.MustGet("RAINRATE")
	accrain := fs.MustGet("ACCRAIN")

	kappaCond := math.Min(condensationKappaMax, 1.0e-3*dt)

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			colRain := 0.0
			for k := 0; k < g.Nz; k++ {
				exner := pvtf.Data.Get(k, j+g.Nb, i+g.Nb)
				t := pott.Data.Get(k, j+g.Nb, i+g.Nb) * exner
				c := colp.Data.Get(j+g.Nb, i+g.Nb)
				p := pairAtLayer(c, g.SigmaMass[k], g.PairTop)

				qsat := satMixingRatio(t, p)
				v := qv.Data.Get(k, j+g.Nb, i+g.Nb)
				cld := qc.Data.Get(k, j+g.Nb, i+g.Nb)

				excess := v - relHumidityThreshold*qsat
				condRate := kappaCond * excess / dt

				var dqv, dqc float64
				if excess > 0 {
					dqv = -condRate
					dqc = condRate
				} else if cld > 0 {
					evap := math.Min(-condRate, cld/dt)
					dqv = evap
					dqc = -evap
				}

				var autoconv float64
				if cld+dqc*dt > autoconvCloudThresh {
					autoconv = autoconvRate * (cld + dqc*dt - autoconvCloudThresh)
				}
				dqc -= autoconv
				dqr := autoconv

				dqvdtphy.Data.Set(dqv, k, j+g.Nb, i+g.Nb)
				dqcdtphy.Data.Set(dqc, k, j+g.Nb, i+g.Nb)
				dqrdtphy.Data.Set(dqr, k, j+g.Nb, i+g.Nb)

				// Condensation releases latent heat into POTT; evaporation
				// absorbs it. dqv<0 means condensation, so the sign flips.
				dpottdtphy.Data.Set(-dqv*latentHeat/(cpDry*exner), k, j+g.Nb, i+g.Nb)

				colRain += autoconv * dt * g.Dsigma[k] * c / gravity
			}
			// RAINRATE accumulates since the last external reset (Open
			// Question (b)): rate conversion is deferred to the output
			// layer, which knows the accumulation interval.
			r := rainrate.Data.Get(j+g.Nb, i+g.Nb)
			rainrate.Data.Set(r+colRain, j+g.Nb, i+g.Nb)
			a := accrain.Data.Get(j+g.Nb, i+g.Nb)
			accrain.Data.Set(a+colRain, j+g.Nb, i+g.Nb)
		}
	}
	return nil
}

func pairAtLayer(colp, sigma, pairTop float64) float64 {
	return pairTop + sigma*colp
}

// ResetRainAccumulator zeroes RAINRATE (Open Question (b)). No step of the
// orchestrator's sequence calls it, so RAINRATE keeps accumulating until a
// caller does.
func ResetRainAccumulator(fs *FieldStore) {
	r := fs.MustGet("RAINRATE")
	for idx := range r.Data.Elements {
		r.Data.Elements[idx] = 0
	}
}
