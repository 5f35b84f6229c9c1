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

import (
	"math"
	"testing"
)

func TestStepDiagnosePressureFillsExnerFunctions(t *testing.T) {
	o := testOrchestrator(t)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	pvtf := o.Fields.MustGet("PVTF")
	pvtfvb := o.Fields.MustGet("PVTFVB")
	for _, v := range pvtf.Data.Elements {
		if v <= 0 || math.IsNaN(v) {
			t.Fatalf("PVTF has non-positive or NaN entry: %g", v)
		}
	}
	for _, v := range pvtfvb.Data.Elements {
		if v <= 0 || math.IsNaN(v) {
			t.Fatalf("PVTFVB has non-positive or NaN entry: %g", v)
		}
	}
}

func TestStepDiagnoseGeopotentialIncreasesUpward(t *testing.T) {
	o := testOrchestrator(t)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	if err := StepDiagnoseGeopotential(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnoseGeopotential: %v", err)
	}
	g := o.Grid
	phi := o.Fields.MustGet("PHI")
	j, i := g.Nb+g.Ny/2, g.Nb+g.Nx/2
	prev := phi.Data.Get(g.Nz-1, j, i)
	for k := g.Nz - 2; k >= 0; k-- {
		cur := phi.Data.Get(k, j, i)
		if cur <= prev {
			t.Errorf("PHI should increase with height (decreasing k): level %d = %g <= level %d = %g", k, cur, k+1, prev)
		}
		prev = cur
	}
}

func TestStepDiagnoseGeopotentialSurfaceMatchesGHSurf(t *testing.T) {
	o := testOrchestrator(t)
	if err := StepDiagnosePressure(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnosePressure: %v", err)
	}
	if err := StepDiagnoseGeopotential(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("StepDiagnoseGeopotential: %v", err)
	}
	g := o.Grid
	phivb := o.Fields.MustGet("PHIVB")
	j, i := 1, 1
	want := gravity * g.HSurf[j*g.Nx+i]
	got := phivb.Data.Get(g.Nz, j+g.Nb, i+g.Nb)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("PHIVB at surface = %g, want %g (g*HSurf)", got, want)
	}
}
