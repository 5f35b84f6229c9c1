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

import "testing"

func seedSurface(o *Orchestrator) {
	g := o.Grid
	tsoil := o.Fields.MustGet("TSOIL")
	for j := 0; j < g.Ny+2*g.Nb; j++ {
		for i := 0; i < g.Nx+2*g.Nb; i++ {
			tsoil.Data.Set(295, j, i)
		}
	}
}

// seedSurfaceWind sets a uniform zonal wind u in the lowest model layer, so
// that the bulk exchange formulas see a nonzero wind speed.
func seedSurfaceWind(o *Orchestrator, u float64) {
	uwind := o.Fields.MustGet("UWIND")
	kSurf := o.Grid.Nz - 1
	shape := uwind.Data.Shape
	for j := 0; j < shape[1]; j++ {
		for i := 0; i < shape[2]; i++ {
			uwind.Data.Set(u, kSurf, j, i)
		}
	}
}

func TestStepSurfaceNoOpWhenSwitchedOff(t *testing.T) {
	cfg := testConfig()
	cfg.SurfaceSchemeSwitch = false
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	seedSurface(o)
	if err := StepSurface(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepSurface: %v", err)
	}
	sshflx := o.Fields.MustGet("SSHFLX")
	for _, v := range sshflx.Data.Elements {
		if v != 0 {
			t.Errorf("SSHFLX should stay zero with SurfaceSchemeSwitch=false, got %g", v)
		}
	}
}

func TestStepSurfaceWarmerSoilHeatsAirAbove(t *testing.T) {
	cfg := testConfig()
	cfg.SurfaceSchemeSwitch = true
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	seedSurface(o)
	seedSurfaceWind(o, 5)

	if err := StepSurface(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepSurface: %v", err)
	}

	g := o.Grid
	sh := o.Fields.MustGet("SSHFLX").Data.Get(g.Nb, g.Nb)
	if sh <= 0 {
		t.Errorf("SSHFLX with soil warmer than the lowest layer = %g, want positive (upward)", sh)
	}
}

func TestStepSurfaceLatentHeatNeverNegative(t *testing.T) {
	cfg := testConfig()
	cfg.SurfaceSchemeSwitch = true
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	seedSurface(o)
	seedSurfaceWind(o, 5)
	// Force air much moister than the saturation value of a wet (ocean)
	// surface, so the bulk formula gives a negative, dew-deposition latent
	// flux, which the clamp turns into zero rather than negative (Open
	// Question (c): no dew deposition modeled).
	g := o.Grid
	for idx := range g.OceanMask {
		g.OceanMask[idx] = 1
	}
	qv := o.Fields.MustGet("QV")
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny+2*g.Nb; j++ {
			for i := 0; i < g.Nx+2*g.Nb; i++ {
				qv.Data.Set(0.05, k, j, i)
			}
		}
	}

	if err := StepSurface(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepSurface: %v", err)
	}

	lh := o.Fields.MustGet("SLHFLX").Data.Get(g.Nb, g.Nb)
	if lh < 0 {
		t.Errorf("SLHFLX = %g, want >= 0 (clamped, no dew deposition)", lh)
	}
}

func TestStepSurfaceSetsOceanAlbedo(t *testing.T) {
	cfg := testConfig()
	cfg.SurfaceSchemeSwitch = true
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	seedSurface(o)
	g := o.Grid
	for idx := range g.OceanMask {
		g.OceanMask[idx] = 1
	}

	if err := StepSurface(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepSurface: %v", err)
	}

	if got := o.Fields.MustGet("ALBEDO").Data.Get(g.Nb, g.Nb); got != albedoOcean {
		t.Errorf("ALBEDO over ocean = %g, want %g", got, albedoOcean)
	}
}
