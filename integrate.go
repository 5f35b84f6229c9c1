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

// evaluateTendencies fills every D<x>DT field from fs's current state,
// without mutating any prognostic field. It is the single "right-hand
// side" evaluation both the Euler and RK4 paths build on.
func evaluateTendencies(g *Grid, fs *FieldStore, dt float64) error {
	steps := []Kernel{
		ExchangeAll,
		StepDiagnosePressure,
		StepDiagnoseGeopotential,
		ComputeMassFluxes,
		ComputeFluxDivergence,
		computeColpTendencyOnly,
		ComputeMomentumFluxes,
		computeVerticalMomentumFlux,
		StepMomentumTendencies,
		StepPOTTTendency,
		StepTracerTendencies,
	}
	for _, step := range steps {
		if err := step(g, fs, dt); err != nil {
			return err
		}
	}
	return nil
}

// computeColpTendencyOnly fills DCOLPDT from FLXDIV without advancing COLP
// itself, used by evaluateTendencies so that RK4 stage evaluations never
// mutate the state they were computed from. It also diagnoses COLPNEW
// (spec.md §4.2 step 4, "COLP_NEW = COLP_OLD + dt*dCOLPdt") into its own
// field and halo-exchanges it, since the vertical-advection terms in
// momentum.go need COLP_NEW before StepContinuity actually advances COLP
// later in StepEuler.
func computeColpTendencyOnly(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.Config()
	if cfg != nil && !cfg.COLPMainSwitch {
		return nil
	}
	flxdiv := fs.MustGet("FLXDIV")
	dcolpdt := fs.MustGet("DCOLPDT")
	colp := fs.MustGet("COLP")
	colpNew := fs.MustGet("COLPNEW")
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
			c := colp.Data.Get(j+g.Nb, i+g.Nb)
			colpNew.Data.Set(c+dt*dcdt, j+g.Nb, i+g.Nb)
		}
	}
	Exchange(colpNew, g)
	return nil
}

// StepEuler advances every prognostic field by one explicit Euler step,
// using the density-weighted update form required by spec.md §4.6: COLP is
// advanced first, then UWIND/VWIND/POTT/QV/QC/QR are advanced as
// (COLP*X)_new = (COLP*X)_old + dt*COLP_old*dXdt, divided back out by the
// new column pressure, so that the update is consistent with the mass the
// continuity equation just moved.
func StepEuler(g *Grid, fs *FieldStore, dt float64) error {
	if err := evaluateTendencies(g, fs, dt); err != nil {
		return err
	}

	colp := fs.MustGet("COLP")
	colpOld := fs.MustGet("COLPOLD")
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			colpOld.Data.Set(colp.Data.Get(j+g.Nb, i+g.Nb), j+g.Nb, i+g.Nb)
		}
	}
	if err := StepContinuity(g, fs, dt); err != nil {
		return err
	}

	euler2D(g, fs, colpOld, "POTT", "DPOTTDT", dt)
	for _, name := range tracerNames {
		euler2D(g, fs, colpOld, name, "D"+name+"DT", dt)
	}
	eulerWind(g, fs, colpOld, "UWIND", "DUWINDDT", U, dt)
	eulerWind(g, fs, colpOld, "VWIND", "DVWINDDT", V, dt)

	if err := ClipNonNegativeTracers(g, fs, dt); err != nil {
		return err
	}
	if err := StepVerticalVelocity(g, fs, dt); err != nil {
		return err
	}
	return nil
}

func euler2D(g *Grid, fs *FieldStore, colpOld *Field, name, tendName string, dt float64) {
	colp := fs.MustGet("COLP")
	x := fs.MustGet(name)
	dxdt := fs.MustGet(tendName)
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				co := colpOld.Data.Get(j+g.Nb, i+g.Nb)
				cn := colp.Data.Get(j+g.Nb, i+g.Nb)
				xo := x.Data.Get(k, j+g.Nb, i+g.Nb)
				dxdtv := dxdt.Data.Get(k, j+g.Nb, i+g.Nb)
				numer := co*xo + dt*co*dxdtv
				var xn float64
				if cn != 0 {
					xn = numer / cn
				}
				x.Data.Set(xn, k, j+g.Nb, i+g.Nb)
			}
		}
	}
}

func eulerWind(g *Grid, fs *FieldStore, colpOld *Field, name, tendName string, stag Staggering, dt float64) {
	colp := fs.MustGet("COLP")
	x := fs.MustGet(name)
	dxdt := fs.MustGet(tendName)

	iMax, jMax := g.Nx, g.Ny
	if stag == U {
		iMax = g.Nx + 1
	} else {
		jMax = g.Ny + 1
	}

	for k := 0; k < g.Nz; k++ {
		for j := 0; j < jMax; j++ {
			for i := 0; i < iMax; i++ {
				var co, cn float64
				if stag == U {
					if i == g.Nx {
						continue
					}
					co = colpAtU(colpOld, g, i, j)
					cn = colpAtU(colp, g, i, j)
				} else {
					if j == 0 || j == g.Ny {
						continue
					}
					co = colpAtV(colpOld, g, i, j)
					cn = colpAtV(colp, g, i, j)
				}
				xo := x.Data.Get(k, j+g.Nb, i+g.Nb)
				dxdtv := dxdt.Data.Get(k, j+g.Nb, i+g.Nb)
				numer := co*xo + dt*co*dxdtv
				var xn float64
				if cn != 0 {
					xn = numer / cn
				}
				x.Data.Set(xn, k, j+g.Nb, i+g.Nb)
			}
		}
	}
	if stag == V {
		EnforceWallV(x, g)
	}
}

// rk4Weights are the classic four-stage weights applied to each stage's
// tendency evaluation.
var rk4Weights = [4]float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6}
var rk4StageFractions = [4]float64{0, 0.5, 0.5, 1.0}

// StepRK4 advances the state by one classic four-stage Runge-Kutta step.
// Per spec.md §9's design note, the four stage buffers are allocated once
// (by the orchestrator, via FieldStore.Clone) and reused every step rather
// than reallocated, avoiding per-step garbage for a long integration.
// Buffers hold the state used to evaluate each stage's tendency; the base
// fs is advanced in place from the weighted sum, matching the teacher's
// "Non-goals: no generic ODE solver" design note -- this is a fixed
// 4-stage method hand-written against FieldStore, not a general solver.
func StepRK4(g *Grid, fs *FieldStore, stageBuffers [4]*FieldStore, dt float64) error {
	accumulate := func(stage int) error {
		buf := stageBuffers[stage]
		frac := rk4StageFractions[stage]
		if err := buf.CopyFrom(fs); err != nil {
			return err
		}
		if stage > 0 {
			advanceByTendencies(g, buf, stageBuffers[stage-1], frac*dt)
		}
		return evaluateTendencies(g, buf, dt)
	}

	for stage := 0; stage < 4; stage++ {
		if err := accumulate(stage); err != nil {
			return err
		}
	}

	for stage := 0; stage < 4; stage++ {
		advanceByTendencies(g, fs, stageBuffers[stage], rk4Weights[stage]*dt)
	}

	if err := StepVerticalVelocity(g, fs, dt); err != nil {
		return err
	}
	return ClipNonNegativeTracers(g, fs, dt)
}

// advanceByTendencies adds weightedDt * (tendency evaluated in src) onto
// dst's prognostic fields in place, a simple (non-density-weighted) update
// used only between RK4 stages; the final density-weighted Euler-style
// reconciliation against COLP happens once, in StepEuler, which RK4 callers
// may run as a finishing half-step if strict mass consistency across a
// full RK4 step is required.
func advanceByTendencies(g *Grid, dst, src *FieldStore, weightedDt float64) {
	addTendency(dst, src, "UWIND", "DUWINDDT", weightedDt)
	addTendency(dst, src, "VWIND", "DVWINDDT", weightedDt)
	addTendency(dst, src, "POTT", "DPOTTDT", weightedDt)
	for _, name := range tracerNames {
		addTendency(dst, src, name, "D"+name+"DT", weightedDt)
	}
	addTendency(dst, src, "COLP", "DCOLPDT", weightedDt)
}

// addTendency adds weightedDt*tendency onto dst's field in place, element
// by element; both fields share shape since they were registered from the
// same FieldStore layout.
func addTendency(dst, src *FieldStore, name, tendName string, weightedDt float64) {
	x := dst.MustGet(name)
	t := src.MustGet(tendName)
	for idx := range x.Data.Elements {
		x.Data.Elements[idx] += weightedDt * t.Data.Elements[idx]
	}
}
