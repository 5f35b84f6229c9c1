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

// One-layer soil/surface slab scheme (spec.md §4.8): sensible and latent
// heat exchange with the lowest model layer, and a prognostic soil
// temperature and moisture bucket. No surface stress is computed: dragCoef
// is not used, and the winds receive no surface drag from this scheme.

const (
	dragCoef          = 1.5e-3 // dimensionless bulk momentum drag coefficient
	sensibleExchange  = 1.2e-3 // bulk sensible heat exchange coefficient
	latentExchange    = 1.2e-3 // bulk latent heat exchange coefficient
	landResistance    = 50.0   // s/m, extra aerodynamic resistance for land moisture availability
	soilHeatCapacity  = 2.0e6  // J/(m^2 K), areal heat capacity of the slab
	soilMoistureDepth = 0.1    // m, bucket depth for WSOIL
	albedoLand        = 0.2
	albedoOcean       = 0.08
	albedoWetSoil     = 0.3
)

// StepSurface computes surface fluxes and advances the prognostic soil
// state by one time step. No-op when SurfaceSchemeSwitch is false.
func StepSurface(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.Config()
	if cfg == nil || !cfg.SurfaceSchemeSwitch {
		return nil
	}

	pott := fs.MustGet("POTT")
	pvtf := fs.MustGet("PVTF")
	qv := fs.MustGet("QV")
	colp := fs.MustGet("COLP")
	uwind := fs.MustGet("UWIND")
	vwind := fs.MustGet("VWIND")
	tsoil := fs.MustGet("TSOIL")
	wsoil := fs.MustGet("WSOIL")
	albedo := fs.MustGet("ALBEDO")
	sshflx := fs.MustGet("SSHFLX")
	slhflx := fs.MustGet("SLHFLX")
	dpottdtphy := fs.MustGet("DPOTTDTPHY")
	dqvdtphy := fs.MustGet("DQVDTPHY")
	swsfc := fs.MustGet("SWFLXSFC")

	kSurf := g.Nz - 1

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			ocean := g.OceanMask[j*g.Nx+i] > 0.5

			exner := pvtf.Data.Get(kSurf, j+g.Nb, i+g.Nb)
			tAir := pott.Data.Get(kSurf, j+g.Nb, i+g.Nb) * exner
			ts := tsoil.Data.Get(j+g.Nb, i+g.Nb)

			uC := 0.5 * (uwind.Data.Get(kSurf, j+g.Nb, i+g.Nb) + uwind.Data.Get(kSurf, j+g.Nb, i+1+g.Nb))
			vC := 0.5 * (vwind.Data.Get(kSurf, j+g.Nb, i+g.Nb) + vwind.Data.Get(kSurf, j+1+g.Nb, i+g.Nb))
			wind := math.Sqrt(uC*uC + vC*vC)

			c := colp.Data.Get(j+g.Nb, i+g.Nb)
			p := pairAtLayer(c, g.SigmaMass[kSurf], g.PairTop)
			rho := p / (rDry * tAir)

			// Sensible heat flux, positive upward into the atmosphere.
			sh := rho * cpDry * sensibleExchange * wind * (ts - tAir)
			sshflx.Data.Set(sh, j+g.Nb, i+g.Nb)
			dpottdtphy.Data.Set(dpottdtphy.Data.Get(kSurf, j+g.Nb, i+g.Nb)+sh/(rho*cpDry*exner*g.Dsigma[kSurf]*c/gravity),
				kSurf, j+g.Nb, i+g.Nb)

			// Latent heat flux: land has an extra moisture-availability
			// resistance; ocean is always saturated at the surface.
			wetness := 1.0
			if !ocean {
				soilFrac := wsoil.Data.Get(j+g.Nb, i+g.Nb) / soilMoistureDepth
				wetness = math.Min(1.0, soilFrac) * landResistance / (landResistance + 1)
			}
			qvAir := qv.Data.Get(kSurf, j+g.Nb, i+g.Nb)
			qsatSurf := satMixingRatio(ts, p)
			lh := rho * latentHeat * latentExchange * wind * wetness * (qsatSurf - qvAir)
			// Open Question (c): stays clamped to >= 0, no dew deposition,
			// preserved faithfully from the original column scheme.
			if lh < 0 {
				lh = 0
			}
			slhflx.Data.Set(lh, j+g.Nb, i+g.Nb)
			dqvdtphy.Data.Set(dqvdtphy.Data.Get(kSurf, j+g.Nb, i+g.Nb)+lh/(rho*latentHeat*g.Dsigma[kSurf]*c/gravity),
				kSurf, j+g.Nb, i+g.Nb)

			if !ocean {
				// Soil energy balance: net surface radiation in, sensible
				// and latent heat out.
				dts := (swsfc.Data.Get(j+g.Nb, i+g.Nb) - sh - lh) * dt / soilHeatCapacity
				tsoil.Data.Set(ts+dts, j+g.Nb, i+g.Nb)

				dw := -lh / latentHeat * dt / 1000.0 // kg/m^2 -> m of water
				w := wsoil.Data.Get(j+g.Nb, i+g.Nb) + dw
				w = math.Max(0, math.Min(soilMoistureDepth, w))
				wsoil.Data.Set(w, j+g.Nb, i+g.Nb)

				if w/soilMoistureDepth > 0.5 {
					albedo.Data.Set(albedoWetSoil, j+g.Nb, i+g.Nb)
				} else {
					albedo.Data.Set(albedoLand, j+g.Nb, i+g.Nb)
				}
			} else {
				albedo.Data.Set(albedoOcean, j+g.Nb, i+g.Nb)
			}
		}
	}
	return nil
}
