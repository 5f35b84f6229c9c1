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

// pressureAt returns the hydrostatic pressure at sigma half-level k
// (0=model top, Nz=surface) of column (i,j): p = PairTop + sigma*COLP.
func pressureAt(colp float64, sigmaVb float64, pairTop float64) float64 {
	return pairTop + sigmaVb*colp
}

// StepDiagnosePressure fills the Exner function PVTF at layer centers and
// PVTFVB at half-levels from the current COLP, following the hydrostatic
// relation of spec.md §4.3: PVTF = (p/p_ref)^kappa. Both fields are
// halo-exchanged afterwards, since the pressure-gradient stencils read them
// across the domain edges.
func StepDiagnosePressure(g *Grid, fs *FieldStore, dt float64) error {
	colp := fs.MustGet("COLP")
	pvtf := fs.MustGet("PVTF")
	pvtfvb := fs.MustGet("PVTFVB")

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			c := colp.Data.Get(j+g.Nb, i+g.Nb)
			for k := 0; k <= g.Nz; k++ {
				p := pressureAt(c, g.SigmaVb[k], g.PairTop)
				pvtfvb.Data.Set(math.Pow(p/pRef, kappa), k, j+g.Nb, i+g.Nb)
			}
			for k := 0; k < g.Nz; k++ {
				p := pressureAt(c, g.SigmaMass[k], g.PairTop)
				pvtf.Data.Set(math.Pow(p/pRef, kappa), k, j+g.Nb, i+g.Nb)
			}
		}
	}
	Exchange(pvtf, g)
	Exchange(pvtfvb, g)
	return nil
}

// StepDiagnoseGeopotential integrates the hydrostatic relation upward from
// the surface: PHIVB(surface) = g*HSURF, then PHI(k) = PHIVB(k+1) +
// cp*POTT(k)*(PVTFVB(k+1) - PVTF(k)), and PHIVB(k) = PHI(k) +
// cp*POTT(k)*(PVTF(k) - PVTFVB(k)) (spec.md §4.3). POTTVB is potential
// temperature interpolated onto the half-levels with Exner weights, used by
// the vertical advection terms in momentum.go/thermo.go. PHI, PHIVB and
// POTTVB are halo-exchanged afterwards.
func StepDiagnoseGeopotential(g *Grid, fs *FieldStore, dt float64) error {
	pvtf := fs.MustGet("PVTF")
	pvtfvb := fs.MustGet("PVTFVB")
	pott := fs.MustGet("POTT")
	phi := fs.MustGet("PHI")
	phivb := fs.MustGet("PHIVB")
	pottvb := fs.MustGet("POTTVB")

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			hsurf := g.HSurf[j*g.Nx+i]
			phivb.Data.Set(gravity*hsurf, g.Nz, j+g.Nb, i+g.Nb)

			for k := g.Nz - 1; k >= 0; k-- {
				below := phivb.Data.Get(k+1, j+g.Nb, i+g.Nb)
				t := pott.Data.Get(k, j+g.Nb, i+g.Nb)
				pf := pvtf.Data.Get(k, j+g.Nb, i+g.Nb)
				pfvbBelow := pvtfvb.Data.Get(k+1, j+g.Nb, i+g.Nb)
				pfvbHere := pvtfvb.Data.Get(k, j+g.Nb, i+g.Nb)

				center := below + cpDry*t*(pfvbBelow-pf)
				phi.Data.Set(center, k, j+g.Nb, i+g.Nb)

				above := center + cpDry*t*(pf-pfvbHere)
				phivb.Data.Set(above, k, j+g.Nb, i+g.Nb)
			}

			// POTTVB: Exner-weighted interpolation between the two layers
			// straddling each interior half-level; the model top and
			// surface half-levels copy the nearest layer value.
			pottvb.Data.Set(pott.Data.Get(0, j+g.Nb, i+g.Nb), 0, j+g.Nb, i+g.Nb)
			pottvb.Data.Set(pott.Data.Get(g.Nz-1, j+g.Nb, i+g.Nb), g.Nz, j+g.Nb, i+g.Nb)
			for k := 1; k < g.Nz; k++ {
				pvb := pvtfvb.Data.Get(k, j+g.Nb, i+g.Nb)
				pAbove := pvtf.Data.Get(k-1, j+g.Nb, i+g.Nb)
				pBelow := pvtf.Data.Get(k, j+g.Nb, i+g.Nb)
				tAbove := pott.Data.Get(k-1, j+g.Nb, i+g.Nb)
				tBelow := pott.Data.Get(k, j+g.Nb, i+g.Nb)
				wBelow := (pvb - pAbove) / (pBelow - pAbove)
				pottvb.Data.Set(tAbove+(tBelow-tAbove)*wBelow, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	Exchange(phi, g)
	Exchange(phivb, g)
	Exchange(pottvb, g)
	return nil
}
