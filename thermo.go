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

// scalarHorAdv returns the horizontal advection tendency of a mass-point
// scalar at interior cell (i,j,k), using the already-computed UFLX/VFLX
// mass fluxes (spec.md §4.5 -- shared shape with tracer.go's QV/QC/QR
// tendencies).
func scalarHorAdv(g *Grid, fs *FieldStore, variable *Field, i, j, k int) float64 {
	uflx := fs.MustGet("UFLX")
	vflx := fs.MustGet("VFLX")
	colp := fs.MustGet("COLP")

	valHere := variable.Data.Get(k, j+g.Nb, i+g.Nb)
	valW := variable.Data.Get(k, j+g.Nb, i-1+g.Nb)
	valE := variable.Data.Get(k, j+g.Nb, i+1+g.Nb)
	valS := variable.Data.Get(k, j-1+g.Nb, i+g.Nb)
	valN := variable.Data.Get(k, j+1+g.Nb, i+g.Nb)

	uW := uflx.Data.Get(k, j+g.Nb, i+g.Nb)
	uE := uflx.Data.Get(k, j+g.Nb, i+1+g.Nb)
	vS := vflx.Data.Get(k, j+g.Nb, i+g.Nb)
	vN := vflx.Data.Get(k, j+1+g.Nb, i+g.Nb)

	fluxE := uE * 0.5 * (valHere + valE)
	fluxW := uW * 0.5 * (valW + valHere)
	fluxN := vN * 0.5 * (valHere + valN)
	fluxS := vS * 0.5 * (valS + valHere)

	c := colp.Data.Get(j+g.Nb, i+g.Nb)
	area := g.AreaAt(j)
	return -((fluxE - fluxW) + (fluxN - fluxS)) / (c * area)
}

// scalarVertAdv returns the vertical advection tendency of a mass-point
// scalar at layer k, reusing momentum.go's vertAdv6 stencil and its
// edge-value fallback at the top and bottom layers.
func scalarVertAdv(g *Grid, fs *FieldStore, variable *Field, i, j, k int) float64 {
	wwind := fs.MustGet("WWIND")
	pvtfvb := fs.MustGet("PVTFVB")
	return vertAdv6(wwind, variable, pvtfvb, g, j, i, k)
}

// scalarDiffusion returns a COLP-weighted horizontal diffusion tendency
// scaled by coef, shared by POTT/QV/QC/QR's optional diffusion term:
// coef * sum_neighbors(COLP_nbr*X_nbr - COLP*X) (spec.md §4.5). Column
// pressure weights each neighbor so the term diffuses the conserved
// COLP*X quantity, not the bare mixing ratio/potential temperature.
func scalarDiffusion(g *Grid, fs *FieldStore, variable *Field, i, j, k int, coef float64) float64 {
	colp := fs.MustGet("COLP")
	c := colp.Data.Get(j+g.Nb, i+g.Nb)
	xc := variable.Data.Get(k, j+g.Nb, i+g.Nb)

	cw := colp.Data.Get(j+g.Nb, i-1+g.Nb)
	ce := colp.Data.Get(j+g.Nb, i+1+g.Nb)
	cs := colp.Data.Get(j-1+g.Nb, i+g.Nb)
	cn := colp.Data.Get(j+1+g.Nb, i+g.Nb)

	xw := variable.Data.Get(k, j+g.Nb, i-1+g.Nb)
	xe := variable.Data.Get(k, j+g.Nb, i+1+g.Nb)
	xs := variable.Data.Get(k, j-1+g.Nb, i+g.Nb)
	xn := variable.Data.Get(k, j+1+g.Nb, i+g.Nb)

	sum := (cw*xw - c*xc) + (ce*xe - c*xc) + (cs*xs - c*xc) + (cn*xn - c*xc)
	return coef * sum
}

// StepPOTTTendency computes DPOTTDT from horizontal/vertical advection,
// optional diffusion, and whatever source the physics step already wrote
// (microphysics latent heating, radiative heating) into DPOTTDTPHY
// (spec.md §4.5).
func StepPOTTTendency(g *Grid, fs *FieldStore, dt float64) error {
	pott := fs.MustGet("POTT")
	dpottdt := fs.MustGet("DPOTTDT")
	dpottdtphy := fs.MustGet("DPOTTDTPHY")
	cfg := fs.Config()

	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				t := scalarHorAdv(g, fs, pott, i, j, k) + scalarVertAdv(g, fs, pott, i, j, k)
				if cfg != nil && cfg.POTTDifCoef > 0 {
					t += scalarDiffusion(g, fs, pott, i, j, k, cfg.POTTDifCoef)
				}
				if cfg != nil && (cfg.POTTMicrophysics || cfg.POTTRadiation) {
					t += dpottdtphy.Data.Get(k, j+g.Nb, i+g.Nb)
				}
				dpottdt.Data.Set(t, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	return nil
}
