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

func TestStepTracerTendenciesUniformFieldIsZero(t *testing.T) {
	o := testOrchestrator(t)
	if err := ComputeMassFluxes(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("ComputeMassFluxes: %v", err)
	}
	if err := StepTracerTendencies(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepTracerTendencies: %v", err)
	}
	for _, name := range tracerNames {
		dqdt := o.Fields.MustGet("D" + name + "DT")
		for _, v := range dqdt.Data.Elements {
			if v != 0 {
				t.Errorf("D%sDT should be zero for a uniform field with zero flux, got %g", name, v)
			}
		}
	}
}

func TestStepTracerTendenciesSkipsPhysicsWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MoistMicrophysics = false
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	if err := ComputeMassFluxes(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("ComputeMassFluxes: %v", err)
	}
	o.Fields.MustGet("DQVDTPHY").Data.Set(99, 0, 2, 2)
	if err := StepTracerTendencies(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepTracerTendencies: %v", err)
	}
	if got := o.Fields.MustGet("DQVDT").Data.Get(0, 2, 2); got != 0 {
		t.Errorf("DQVDT should ignore DQVDTPHY when MoistMicrophysics is false, got %g", got)
	}
}

func TestClipNonNegativeTracersClampsNegatives(t *testing.T) {
	o := testOrchestrator(t)
	qc := o.Fields.MustGet("QC")
	qc.Data.Set(-0.5, 0, 2, 2)
	qc.Data.Set(1.5, 0, 2, 3)
	if err := ClipNonNegativeTracers(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("ClipNonNegativeTracers: %v", err)
	}
	if got := qc.Data.Get(0, 2, 2); got != 0 {
		t.Errorf("negative QC not clamped: got %g, want 0", got)
	}
	if got := qc.Data.Get(0, 2, 3); got != 1.5 {
		t.Errorf("positive QC altered by clipping: got %g, want 1.5", got)
	}
}
