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

// colpAtU averages the two neighboring mass-point column pressures onto the
// U-staggered interface between them. The halo exchange must have already
// run on COLP for this to be valid at the domain edges.
func colpAtU(colp *Field, g *Grid, i, j int) float64 {
	west := colp.Data.Get(j, i-1+g.Nb)
	east := colp.Data.Get(j, i+g.Nb)
	return 0.5 * (west + east)
}

// colpAtV averages the two neighboring mass-point column pressures onto the
// V-staggered interface between them.
func colpAtV(colp *Field, g *Grid, i, j int) float64 {
	south := colp.Data.Get(j-1+g.Nb, i+g.Nb)
	north := colp.Data.Get(j+g.Nb, i+g.Nb)
	return 0.5 * (south + north)
}

// ComputeMassFluxes fills UFLX/VFLX from the current wind and column
// pressure fields: UFLX = COLP_u * U * dyis * dsigma(k), VFLX analogous with
// dxjs(j) at the V latitude (spec.md §4.2).
func ComputeMassFluxes(g *Grid, fs *FieldStore, dt float64) error {
	colp := fs.MustGet("COLP")
	uwind := fs.MustGet("UWIND")
	vwind := fs.MustGet("VWIND")
	uflx := fs.MustGet("UFLX")
	vflx := fs.MustGet("VFLX")

	for k := 0; k < g.Nz; k++ {
		ds := g.Dsigma[k]
		for j := 0; j < g.Ny; j++ {
			for i := 0; i <= g.Nx; i++ {
				cu := colpAtU(colp, g, i, j)
				u := uwind.Data.Get(k, j+g.Nb, i+g.Nb)
				uflx.Data.Set(cu*u*g.Dyis*ds, k, j+g.Nb, i+g.Nb)
			}
		}
		for j := 0; j <= g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				cv := colpAtV(colp, g, i, j)
				v := vwind.Data.Get(k, j+g.Nb, i+g.Nb)
				vflx.Data.Set(cv*v*g.Dxjs[j]*ds, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	// The eight auxiliary momentum fluxes (momentum.go) read one ring of
	// UFLX/VFLX beyond what was just written above, so the halo must be
	// refreshed here rather than waiting for next step's ExchangeAll.
	Exchange(uflx, g)
	Exchange(vflx, g)
	return nil
}

// ComputeFluxDivergence fills FLXDIV(i,j,k), the per-layer horizontal mass
// flux divergence normalized by cell area.
func ComputeFluxDivergence(g *Grid, fs *FieldStore, dt float64) error {
	uflx := fs.MustGet("UFLX")
	vflx := fs.MustGet("VFLX")
	flxdiv := fs.MustGet("FLXDIV")

	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			area := g.AreaAt(j)
			for i := 0; i < g.Nx; i++ {
				du := uflx.Data.Get(k, j+g.Nb, i+1+g.Nb) - uflx.Data.Get(k, j+g.Nb, i+g.Nb)
				dv := vflx.Data.Get(k, j+1+g.Nb, i+g.Nb) - vflx.Data.Get(k, j+g.Nb, i+g.Nb)
				flxdiv.Data.Set((du+dv)/area, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	return nil
}

// StepContinuity advances COLP by one time step from the flux divergence
// computed above, following an explicit Euler update of the vertically
// summed continuity equation (spec.md §4.2). It is a no-op when
// COLPMainSwitch is false, which freezes the surface pressure field for
// dynamics-off diagnostic runs.
func StepContinuity(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.config
	if cfg != nil && !cfg.COLPMainSwitch {
		return nil
	}
	colp := fs.MustGet("COLP")
	flxdiv := fs.MustGet("FLXDIV")
	dcolpdt := fs.MustGet("DCOLPDT")

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			sum := 0.0
			for k := 0; k < g.Nz; k++ {
				sum += flxdiv.Data.Get(k, j+g.Nb, i+g.Nb)
			}
			dcdt := -sum
			if cfg != nil && cfg.COLPDifCoef > 0 {
				dcdt += colpDiffusion(colp, g, i, j, cfg.COLPDifCoef)
			}
			dcolpdt.Data.Set(dcdt, j+g.Nb, i+g.Nb)
			old := colp.Data.Get(j+g.Nb, i+g.Nb)
			colp.Data.Set(old+dt*dcdt, j+g.Nb, i+g.Nb)
		}
	}
	return nil
}

// colpDiffusion returns a Laplacian damping term for COLP, the §6
// `COLP_dif_coef` option: `coef * (COLP_im1+COLP_ip1+COLP_jm1+COLP_jp1-4*COLP)`,
// the same unweighted-neighbor shape as the UFLX/VFLX diffusion term in
// momentum.go (COLP has no outer density field to weight it by).
func colpDiffusion(colp *Field, g *Grid, i, j int, coef float64) float64 {
	c := colp.Data.Get(j+g.Nb, i+g.Nb)
	w := colp.Data.Get(j+g.Nb, i-1+g.Nb)
	e := colp.Data.Get(j+g.Nb, i+1+g.Nb)
	s := colp.Data.Get(j-1+g.Nb, i+g.Nb)
	n := colp.Data.Get(j+1+g.Nb, i+g.Nb)
	return coef * (w + e + s + n - 4*c)
}

// StepVerticalVelocity fills WWIND on the Nz+1 sigma half-levels from a
// serial, layer-ordered top-down prefix sum of the flux divergence plus the
// column-pressure tendency: only this ordering is implemented, since a
// power-of-two parallel reduction is unsafe for an arbitrary layer count
// (spec.md §4.2/§5 design caveat; see DESIGN.md Open Question (a)). WWIND is
// zero at the model top and bottom half-levels by construction.
func StepVerticalVelocity(g *Grid, fs *FieldStore, dt float64) error {
	flxdiv := fs.MustGet("FLXDIV")
	dcolpdt := fs.MustGet("DCOLPDT")
	colp := fs.MustGet("COLP")
	wwind := fs.MustGet("WWIND")

	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			c := colp.Data.Get(j+g.Nb, i+g.Nb)
			dcdt := dcolpdt.Data.Get(j+g.Nb, i+g.Nb)
			wwind.Data.Set(0, 0, j+g.Nb, i+g.Nb)
			running := 0.0
			for k := 0; k < g.Nz; k++ {
				running += flxdiv.Data.Get(k, j+g.Nb, i+g.Nb) + g.Dsigma[k]*dcdt
				var w float64
				if c != 0 {
					w = -running / c
				}
				wwind.Data.Set(w, k+1, j+g.Nb, i+g.Nb)
			}
			// Enforce the zero-flux surface boundary condition exactly,
			// absorbing any roundoff accumulated by the running sum.
			wwind.Data.Set(0, g.Nz, j+g.Nb, i+g.Nb)
		}
	}
	return nil
}
