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

func TestStepEulerPreservesRestingAtmosphere(t *testing.T) {
	o := testOrchestrator(t)
	colpBefore := o.Fields.MustGet("COLP").Data.Copy()
	pottBefore := o.Fields.MustGet("POTT").Data.Copy()

	if err := StepEuler(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepEuler: %v", err)
	}

	colpAfter := o.Fields.MustGet("COLP").Data
	for i, before := range colpBefore.Elements {
		if got := colpAfter.Elements[i]; got != before {
			t.Errorf("COLP[%d] drifted from %g to %g in a resting atmosphere", i, before, got)
		}
	}
	pottAfter := o.Fields.MustGet("POTT").Data
	for i, before := range pottBefore.Elements {
		if got := pottAfter.Elements[i]; got != before {
			t.Errorf("POTT[%d] drifted from %g to %g in a resting atmosphere", i, before, got)
		}
	}
}

func TestStepRK4PreservesRestingAtmosphere(t *testing.T) {
	o := testOrchestrator(t)
	var buffers [4]*FieldStore
	for i := range buffers {
		buffers[i] = o.Fields.Clone()
	}
	colpBefore := o.Fields.MustGet("COLP").Data.Copy()

	if err := StepRK4(o.Grid, o.Fields, buffers, o.Config.Dt); err != nil {
		t.Fatalf("StepRK4: %v", err)
	}

	colpAfter := o.Fields.MustGet("COLP").Data
	for i, before := range colpBefore.Elements {
		if got := colpAfter.Elements[i]; got != before {
			t.Errorf("COLP[%d] drifted from %g to %g in a resting atmosphere under RK4", i, before, got)
		}
	}
}

func TestAddTendencyAppliesWeightedDt(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	dst := NewFieldStore(g, cfg)
	RegisterStandardFields(dst)
	src := dst.Clone()

	src.MustGet("DPOTTDT").Data.Set(2.0, 0, 2, 2)
	dst.MustGet("POTT").Data.Set(300, 0, 2, 2)

	addTendency(dst, src, "POTT", "DPOTTDT", 10)

	if got, want := dst.MustGet("POTT").Data.Get(0, 2, 2), 320.0; got != want {
		t.Errorf("addTendency result = %g, want %g", got, want)
	}
}

func TestComputeColpTendencyOnlyDoesNotMutateColp(t *testing.T) {
	o := testOrchestrator(t)
	o.Fields.MustGet("FLXDIV").Data.Set(5, 0, 2, 2)
	before := o.Fields.MustGet("COLP").Data.Get(2, 2)
	if err := computeColpTendencyOnly(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("computeColpTendencyOnly: %v", err)
	}
	if got := o.Fields.MustGet("COLP").Data.Get(2, 2); got != before {
		t.Errorf("computeColpTendencyOnly mutated COLP: %g -> %g", before, got)
	}
	if got := o.Fields.MustGet("DCOLPDT").Data.Get(2, 2); got != -5 {
		t.Errorf("DCOLPDT = %g, want -5", got)
	}
}
