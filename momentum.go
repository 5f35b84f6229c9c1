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

// Momentum tendency: the single largest component (spec.md §4.4). Eight
// auxiliary flux fields carry the pieces that the horizontal advection term
// shares between the U and V equations, following the teacher's style of
// precomputing reusable interface fluxes once per step rather than
// recomputing them inline inside each term (run.go composes these as
// separate DomainManipulator-style passes for the same reason: each is
// independently testable). Grounded directly on the four `calc_fluxes_*`
// kernels and `run_UWIND`/`run_VWIND` in
// original_source/code_archive/pre_merge_unified_comp/wind_cuda.py.
//
//   BFLX, RFLX  mass-centered advecting flux   (calc_fluxes_ij)
//   SFLX, TFLX  U-staggered advecting flux     (calc_fluxes_isj)
//   DFLX, EFLX  V-staggered advecting flux     (calc_fluxes_ijs)
//   CFLX, QFLX  corner advecting flux          (calc_fluxes_isjs)

// ComputeMomentumFluxes fills the eight auxiliary flux fields from the
// current UFLX/VFLX mass fluxes. It must run after ComputeMassFluxes and
// before StepMomentumTendencies in the per-step kernel sequence.
func ComputeMomentumFluxes(g *Grid, fs *FieldStore, dt float64) error {
	uflx := fs.MustGet("UFLX")
	vflx := fs.MustGet("VFLX")
	bflx := fs.MustGet("BFLX")
	rflx := fs.MustGet("RFLX")
	sflx := fs.MustGet("SFLX")
	tflx := fs.MustGet("TFLX")
	dflx := fs.MustGet("DFLX")
	eflx := fs.MustGet("EFLX")
	cflx := fs.MustGet("CFLX")
	qflx := fs.MustGet("QFLX")

	nb := g.Nb
	u := func(k, j, i int) float64 { return uflx.Data.Get(k, j+nb, i+nb) }
	v := func(k, j, i int) float64 { return vflx.Data.Get(k, j+nb, i+nb) }

	for k := 0; k < g.Nz; k++ {
		// BFLX, RFLX: mass-centered, 0 <= i < Nx, 0 <= j < Ny.
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				b := (u(k, j-1, i) + u(k, j-1, i+1) +
					2*(u(k, j, i)+u(k, j, i+1)) +
					u(k, j+1, i) + u(k, j+1, i+1)) / 12
				r := (v(k, j, i-1) + v(k, j+1, i-1) +
					2*(v(k, j, i)+v(k, j+1, i)) +
					v(k, j, i+1) + v(k, j+1, i+1)) / 12
				bflx.Data.Set(b, k, j+nb, i+nb)
				rflx.Data.Set(r, k, j+nb, i+nb)
			}
		}
		// SFLX, TFLX: U-staggered, 0 <= i <= Nx, 0 <= j < Ny.
		for j := 0; j < g.Ny; j++ {
			for i := 0; i <= g.Nx; i++ {
				vSum := v(k, j, i-1) + v(k, j+1, i-1) + v(k, j, i) + v(k, j+1, i)
				uSum := u(k, j, i-1) + 2*u(k, j, i) + u(k, j, i+1)
				sflx.Data.Set((vSum+uSum)/24, k, j+nb, i+nb)
				tflx.Data.Set((vSum-uSum)/24, k, j+nb, i+nb)
			}
		}
		// DFLX, EFLX: V-staggered, 0 <= i < Nx, 0 <= j <= Ny.
		for j := 0; j <= g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				vSum := v(k, j-1, i) + 2*v(k, j, i) + v(k, j+1, i)
				uSum := u(k, j-1, i) + u(k, j, i) + u(k, j-1, i+1) + u(k, j, i+1)
				dflx.Data.Set((vSum+uSum)/24, k, j+nb, i+nb)
				eflx.Data.Set((vSum-uSum)/24, k, j+nb, i+nb)
			}
		}
		// CFLX, QFLX: corner, 0 <= i <= Nx, 0 <= j <= Ny.
		for j := 0; j <= g.Ny; j++ {
			for i := 0; i <= g.Nx; i++ {
				c := (v(k, j-1, i-1) + v(k, j-1, i) +
					2*(v(k, j, i-1)+v(k, j, i)) +
					v(k, j+1, i-1) + v(k, j+1, i)) / 12
				q := (u(k, j-1, i-1) + u(k, j, i-1) +
					2*(u(k, j-1, i)+u(k, j, i)) +
					u(k, j-1, i+1) + u(k, j, i+1)) / 12
				cflx.Data.Set(c, k, j+nb, i+nb)
				qflx.Data.Set(q, k, j+nb, i+nb)
			}
		}
	}
	return nil
}

// avg2 is the centered pairwise average the flux-weighted advection terms
// use throughout (spec.md §4.4).
func avg2(a, b float64) float64 { return 0.5 * (a + b) }

// horAdvU returns the eight-term horizontal advection tendency of UWIND at
// interior U-point (i,j,k): a mass-centered x-pair (BFLX), a corner
// y-pair (CFLX), and two V-staggered diagonal pairs (DFLX, EFLX) -- the
// literal stencil of `run_UWIND` in wind_cuda.py, matched term-for-term.
func horAdvU(g *Grid, fs *FieldStore, i, j, k int) float64 {
	uwind := fs.MustGet("UWIND")
	bflx := fs.MustGet("BFLX")
	cflx := fs.MustGet("CFLX")
	dflx := fs.MustGet("DFLX")
	eflx := fs.MustGet("EFLX")
	colp := fs.MustGet("COLP")
	nb := g.Nb

	uAt := func(jj, ii int) float64 { return uwind.Data.Get(k, jj+nb, ii+nb) }

	t := bflx.Data.Get(k, j+nb, i-1+nb)*avg2(uAt(j, i-1), uAt(j, i)) -
		bflx.Data.Get(k, j+nb, i+nb)*avg2(uAt(j, i), uAt(j, i+1)) +
		cflx.Data.Get(k, j+nb, i+nb)*avg2(uAt(j-1, i), uAt(j, i)) -
		cflx.Data.Get(k, j+1+nb, i+nb)*avg2(uAt(j, i), uAt(j+1, i)) +
		dflx.Data.Get(k, j+nb, i-1+nb)*avg2(uAt(j-1, i-1), uAt(j, i)) -
		dflx.Data.Get(k, j+1+nb, i+nb)*avg2(uAt(j, i), uAt(j+1, i+1)) +
		eflx.Data.Get(k, j+nb, i+nb)*avg2(uAt(j-1, i+1), uAt(j, i)) -
		eflx.Data.Get(k, j+1+nb, i-1+nb)*avg2(uAt(j, i), uAt(j+1, i-1))

	cu := colpAtU(colp, g, i, j)
	area := g.AreaAt(j)
	return t / (cu * area)
}

// horAdvV mirrors horAdvU for the V-grid: RFLX/QFLX/SFLX/TFLX are the
// transposed fields `run_VWIND` sums, per spec.md §4.4's "V-grid transpose".
func horAdvV(g *Grid, fs *FieldStore, i, j, k int) float64 {
	vwind := fs.MustGet("VWIND")
	rflx := fs.MustGet("RFLX")
	qflx := fs.MustGet("QFLX")
	sflx := fs.MustGet("SFLX")
	tflx := fs.MustGet("TFLX")
	colp := fs.MustGet("COLP")
	nb := g.Nb

	vAt := func(jj, ii int) float64 { return vwind.Data.Get(k, jj+nb, ii+nb) }

	t := rflx.Data.Get(k, j-1+nb, i+nb)*avg2(vAt(j-1, i), vAt(j, i)) -
		rflx.Data.Get(k, j+nb, i+nb)*avg2(vAt(j, i), vAt(j+1, i)) +
		qflx.Data.Get(k, j+nb, i+nb)*avg2(vAt(j, i-1), vAt(j, i)) -
		qflx.Data.Get(k, j+nb, i+1+nb)*avg2(vAt(j, i), vAt(j, i+1)) +
		sflx.Data.Get(k, j-1+nb, i+nb)*avg2(vAt(j-1, i-1), vAt(j, i)) -
		sflx.Data.Get(k, j+nb, i+1+nb)*avg2(vAt(j, i), vAt(j+1, i+1)) +
		tflx.Data.Get(k, j-1+nb, i+1+nb)*avg2(vAt(j-1, i+1), vAt(j, i)) -
		tflx.Data.Get(k, j+nb, i+nb)*avg2(vAt(j, i), vAt(j+1, i-1))

	cv := colpAtV(colp, g, i, j)
	area := 0.5 * (g.AreaAt(clampJ(g, j-1)) + g.AreaAt(clampJ(g, j)))
	return t / (cv * area)
}

func clampJ(g *Grid, j int) int {
	if j < 0 {
		return 0
	}
	if j >= g.Ny {
		return g.Ny - 1
	}
	return j
}

// vertAdv6 returns a centered vertical advection tendency using the two
// half-levels bounding layer k, for a mass-point scalar interpolated by a
// plain arithmetic mean (spec.md §4.5; shared by thermo.go/tracer.go).
// Each layer combines the velocities on its two bounding half-levels with
// the layer above, the layer itself, and the layer below; at the top and
// bottom layers the missing neighbor is replaced by the layer's own value,
// since there is no layer beyond the model top/surface. pvtfvb is not used.
// The wind-tendency vertical advection (spec.md §4.4)
// is computed separately by windVertAdvU/windVertAdvV, which need the
// COLP_NEW*A-weighted WWIND_UWIND/WWIND_VWIND precomputation this plain
// mean does not do.
func vertAdv6(wwind *Field, variable *Field, pvtfvb *Field, g *Grid, j, i, k int) float64 {
	wTop := wwind.Data.Get(k, j+g.Nb, i+g.Nb)
	wBot := wwind.Data.Get(k+1, j+g.Nb, i+g.Nb)

	valHere := variable.Data.Get(k, j+g.Nb, i+g.Nb)
	var valAbove, valBelow float64
	if k > 0 {
		valAbove = variable.Data.Get(k-1, j+g.Nb, i+g.Nb)
	} else {
		valAbove = valHere
	}
	if k < variable.Data.Shape[0]-1 {
		valBelow = variable.Data.Get(k+1, j+g.Nb, i+g.Nb)
	} else {
		valBelow = valHere
	}

	fluxTop := wTop * 0.5 * (valAbove + valHere)
	fluxBot := wBot * 0.5 * (valHere + valBelow)
	ds := g.Dsigma[k]
	return -(fluxBot - fluxTop) / ds
}

// computeVerticalMomentumFlux fills WWIND_UWIND/WWIND_VWIND (spec.md §3,
// §4.4): WWIND*COLP_NEW*A interpolated horizontally onto the U/V column,
// times U/V interpolated onto the half-level as a σ-thickness-weighted
// mean. Grounded on calc_WWIND_UWIND/calc_WWIND_VWIND in wind_cuda.py,
// including their meridional-boundary 4-point fallback for the U column
// (the V column needs no such fallback: its own staggering already stays
// off the rigid walls, consistent with EnforceWallV).
func computeVerticalMomentumFlux(g *Grid, fs *FieldStore, dt float64) error {
	wwind := fs.MustGet("WWIND")
	uwind := fs.MustGet("UWIND")
	vwind := fs.MustGet("VWIND")
	colpNew := fs.MustGet("COLPNEW")
	wwindU := fs.MustGet("WWIND_UWIND")
	wwindV := fs.MustGet("WWIND_VWIND")
	nb := g.Nb

	wAt := func(k, j, i int) float64 {
		return colpNew.Data.Get(j+nb, i+nb) * g.AreaAt(clampJ(g, j)) * wwind.Data.Get(k, j+nb, i+nb)
	}

	for i := 0; i <= g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			wwindU.Data.Set(0, 0, j+nb, i+nb)
			wwindU.Data.Set(0, g.Nz, j+nb, i+nb)
			for k := 1; k < g.Nz; k++ {
				var colpAW float64
				switch {
				case j == 0:
					colpAW = (wAt(k, j, i-1) + wAt(k, j, i) +
						wAt(k, j+1, i-1) + wAt(k, j+1, i)) / 4
				case j == g.Ny-1:
					colpAW = (wAt(k, j, i-1) + wAt(k, j, i) +
						wAt(k, j-1, i-1) + wAt(k, j-1, i)) / 4
				default:
					colpAW = (wAt(k, j+1, i-1) + wAt(k, j+1, i) +
						2*(wAt(k, j, i-1)+wAt(k, j, i)) +
						wAt(k, j-1, i-1) + wAt(k, j-1, i)) / 8
				}
				uHalf := (g.Dsigma[k]*uwind.Data.Get(k-1, j+nb, i+nb) +
					g.Dsigma[k-1]*uwind.Data.Get(k, j+nb, i+nb)) /
					(g.Dsigma[k] + g.Dsigma[k-1])
				wwindU.Data.Set(colpAW*uHalf, k, j+nb, i+nb)
			}
		}
	}

	for i := 0; i < g.Nx; i++ {
		for j := 0; j <= g.Ny; j++ {
			wwindV.Data.Set(0, 0, j+nb, i+nb)
			wwindV.Data.Set(0, g.Nz, j+nb, i+nb)
			for k := 1; k < g.Nz; k++ {
				colpAW := (wAt(k, j-1, i+1) + wAt(k, j, i+1) +
					2*(wAt(k, j-1, i)+wAt(k, j, i)) +
					wAt(k, j-1, i-1) + wAt(k, j, i-1)) / 8
				vHalf := (g.Dsigma[k]*vwind.Data.Get(k-1, j+nb, i+nb) +
					g.Dsigma[k-1]*vwind.Data.Get(k, j+nb, i+nb)) /
					(g.Dsigma[k] + g.Dsigma[k-1])
				wwindV.Data.Set(colpAW*vHalf, k, j+nb, i+nb)
			}
		}
	}
	return nil
}

// windVertAdvU returns the vertical advection tendency of UWIND at U-point
// (i,j,k), differencing the precomputed WWIND_UWIND half-levels (spec.md
// §4.4) and normalizing by COLP*area to match the m/s^2 units the other
// momentum terms already use.
func windVertAdvU(g *Grid, fs *FieldStore, i, j, k int) float64 {
	wwindU := fs.MustGet("WWIND_UWIND")
	colp := fs.MustGet("COLP")
	top := wwindU.Data.Get(k, j+g.Nb, i+g.Nb)
	bot := wwindU.Data.Get(k+1, j+g.Nb, i+g.Nb)
	cu := colpAtU(colp, g, i, j)
	area := g.AreaAt(j)
	return (top - bot) / g.Dsigma[k] / (cu * area)
}

// windVertAdvV mirrors windVertAdvU for VWIND.
func windVertAdvV(g *Grid, fs *FieldStore, i, j, k int) float64 {
	wwindV := fs.MustGet("WWIND_VWIND")
	colp := fs.MustGet("COLP")
	top := wwindV.Data.Get(k, j+g.Nb, i+g.Nb)
	bot := wwindV.Data.Get(k+1, j+g.Nb, i+g.Nb)
	cv := colpAtV(colp, g, i, j)
	area := 0.5 * (g.AreaAt(clampJ(g, j-1)) + g.AreaAt(clampJ(g, j)))
	return (top - bot) / g.Dsigma[k] / (cv * area)
}

// coriolisMetricU returns the Coriolis plus spherical-metric term for the
// U-momentum equation: f*v plus the curvature term tan(phi)/R * u * v
// (spec.md §4.4), both evaluated with v interpolated onto the U-point.
func coriolisMetricU(g *Grid, fs *FieldStore, i, j, k int) float64 {
	vwind := fs.MustGet("VWIND")
	uwind := fs.MustGet("UWIND")
	sw := vwind.Data.Get(k, j+g.Nb, i-1+g.Nb)
	se := vwind.Data.Get(k, j+g.Nb, i+g.Nb)
	nw := vwind.Data.Get(k, j+1+g.Nb, i-1+g.Nb)
	ne := vwind.Data.Get(k, j+1+g.Nb, i+g.Nb)
	vAtU := 0.25 * (sw + se + nw + ne)
	u := uwind.Data.Get(k, j+g.Nb, i+g.Nb)
	f := g.Coriolis[j]
	return f*vAtU + u*vAtU*tanApprox(g.LatMass[j])/earthRadius
}

// coriolisMetricV mirrors coriolisMetricU for the V-momentum equation.
func coriolisMetricV(g *Grid, fs *FieldStore, i, j, k int) float64 {
	uwind := fs.MustGet("UWIND")
	w := uwind.Data.Get(k, j-1+g.Nb, i+g.Nb)
	e := uwind.Data.Get(k, j-1+g.Nb, i+1+g.Nb)
	nw := uwind.Data.Get(k, j+g.Nb, i+g.Nb)
	ne := uwind.Data.Get(k, j+g.Nb, i+1+g.Nb)
	uAtV := 0.25 * (w + e + nw + ne)
	f := g.CoriolisV[j]
	return -f*uAtV - uAtV*uAtV*tanApprox(g.LatV[j])/earthRadius
}

func tanApprox(latRad float64) float64 {
	return math.Tan(latRad)
}

// preGradU returns the pressure-gradient-force tendency on the U-grid:
// -cp*POTT*PVTF gradient minus the PHI gradient, both in the x-direction
// (spec.md §4.4).
func preGradU(g *Grid, fs *FieldStore, i, j, k int) float64 {
	pvtf := fs.MustGet("PVTF")
	pott := fs.MustGet("POTT")
	phi := fs.MustGet("PHI")

	pvtfW := pvtf.Data.Get(k, j+g.Nb, i-1+g.Nb)
	pvtfE := pvtf.Data.Get(k, j+g.Nb, i+g.Nb)
	pottW := pott.Data.Get(k, j+g.Nb, i-1+g.Nb)
	pottE := pott.Data.Get(k, j+g.Nb, i+g.Nb)
	phiW := phi.Data.Get(k, j+g.Nb, i-1+g.Nb)
	phiE := phi.Data.Get(k, j+g.Nb, i+g.Nb)

	pottAtU := 0.5 * (pottW + pottE)
	dx := earthRadius * cosApprox(g.LatMass[j]) * g.DlonRad
	return -(cpDry*pottAtU*(pvtfE-pvtfW) + (phiE - phiW)) / dx
}

// preGradV mirrors preGradU in the y-direction.
func preGradV(g *Grid, fs *FieldStore, i, j, k int) float64 {
	pvtf := fs.MustGet("PVTF")
	pott := fs.MustGet("POTT")
	phi := fs.MustGet("PHI")

	pvtfS := pvtf.Data.Get(k, j-1+g.Nb, i+g.Nb)
	pvtfN := pvtf.Data.Get(k, j+g.Nb, i+g.Nb)
	pottS := pott.Data.Get(k, j-1+g.Nb, i+g.Nb)
	pottN := pott.Data.Get(k, j+g.Nb, i+g.Nb)
	phiS := phi.Data.Get(k, j-1+g.Nb, i+g.Nb)
	phiN := phi.Data.Get(k, j+g.Nb, i+g.Nb)

	pottAtV := 0.5 * (pottS + pottN)
	dy := g.Dyis
	return -(cpDry*pottAtV*(pvtfN-pvtfS) + (phiN - phiS)) / dy
}

func cosApprox(x float64) float64 {
	return math.Cos(x)
}

// StepMomentumTendencies computes dUWINDdt/dVWINDdt from the switches in
// Config, each term gated independently: HorAdv, VertAdv, Coriolis, PreGrad,
// NumDif (spec.md §4.4, §6). UVFLXMainSwitch disables the whole component
// at once, leaving the wind fields frozen.
func StepMomentumTendencies(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.Config()
	if cfg != nil && !cfg.UVFLXMainSwitch {
		return nil
	}
	dudt := fs.MustGet("DUWINDDT")
	dvdt := fs.MustGet("DVWINDDT")

	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i <= g.Nx; i++ {
				if i == g.Nx {
					continue // U-point i=Nx duplicates i=0 under periodic-x; filled by halo exchange.
				}
				var t float64
				if cfg == nil || cfg.UVFLXHorAdvSwitch {
					t += horAdvU(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXVertAdvSwitch {
					t += windVertAdvU(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXCoriolisSwitch {
					t += coriolisMetricU(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXPreGradSwitch {
					t += preGradU(g, fs, i, j, k)
				}
				if cfg != nil && cfg.UVFLXNumDifSwitch && cfg.UVFLXDifCoef > 0 {
					t += numDifU(g, fs, i, j, k, cfg.UVFLXDifCoef)
				}
				dudt.Data.Set(t, k, j+g.Nb, i+g.Nb)
			}
		}
		for j := 0; j <= g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				if j == 0 || j == g.Ny {
					dvdt.Data.Set(0, k, j+g.Nb, i+g.Nb) // rigid wall: V stays 0 there.
					continue
				}
				var t float64
				if cfg == nil || cfg.UVFLXHorAdvSwitch {
					t += horAdvV(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXVertAdvSwitch {
					t += windVertAdvV(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXCoriolisSwitch {
					t += coriolisMetricV(g, fs, i, j, k)
				}
				if cfg == nil || cfg.UVFLXPreGradSwitch {
					t += preGradV(g, fs, i, j, k)
				}
				if cfg != nil && cfg.UVFLXNumDifSwitch && cfg.UVFLXDifCoef > 0 {
					t += numDifV(g, fs, i, j, k, cfg.UVFLXDifCoef)
				}
				dvdt.Data.Set(t, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	return nil
}

// numDifU/numDifV apply a simple Laplacian numerical diffusion term, scaled
// by the configured coefficient, to the advecting flux field rather than the
// raw wind (spec.md §4.4, off by default): `run_UWIND`/`run_VWIND` in
// wind_cuda.py add this term straight onto dUFLXdt/dVFLXdt from UFLX/VFLX,
// never from UWIND/VWIND.
func numDifU(g *Grid, fs *FieldStore, i, j, k int, coef float64) float64 {
	uflx := fs.MustGet("UFLX")
	c := uflx.Data.Get(k, j+g.Nb, i+g.Nb)
	w := uflx.Data.Get(k, j+g.Nb, i-1+g.Nb)
	e := uflx.Data.Get(k, j+g.Nb, i+1+g.Nb)
	s := uflx.Data.Get(k, j-1+g.Nb, i+g.Nb)
	n := uflx.Data.Get(k, j+1+g.Nb, i+g.Nb)
	return coef * (w + e + s + n - 4*c)
}

func numDifV(g *Grid, fs *FieldStore, i, j, k int, coef float64) float64 {
	vflx := fs.MustGet("VFLX")
	c := vflx.Data.Get(k, j+g.Nb, i+g.Nb)
	w := vflx.Data.Get(k, j+g.Nb, i-1+g.Nb)
	e := vflx.Data.Get(k, j+g.Nb, i+1+g.Nb)
	s := vflx.Data.Get(k, j-1+g.Nb, i+g.Nb)
	n := vflx.Data.Get(k, j+1+g.Nb, i+g.Nb)
	return coef * (w + e + s + n - 4*c)
}
