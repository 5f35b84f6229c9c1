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
	"os"
	"testing"
)

func TestNewOutputterRegistersDefaultFunctions(t *testing.T) {
	o := NewOutputter(map[string]string{"T": "POTT"})
	if _, ok := o.functions["exp"]; !ok {
		t.Errorf("expected default function exp to be registered")
	}
	if _, ok := o.functions["sum"]; !ok {
		t.Errorf("expected default function sum to be registered")
	}
}

func TestEvaluateFieldRawName(t *testing.T) {
	fs := testOrchestrator(t).Fields
	o := NewOutputter(map[string]string{"pressure": "COLP"})
	data, units, desc, err := o.evaluateField(fs, "pressure")
	if err != nil {
		t.Fatalf("evaluateField: %v", err)
	}
	if units != "Pa" {
		t.Errorf("units = %q, want Pa", units)
	}
	if desc == "" {
		t.Errorf("expected a non-empty description for a raw field")
	}
	if len(data.Elements) == 0 {
		t.Errorf("expected non-empty data")
	}
}

func TestEvaluateFieldExpression(t *testing.T) {
	fs := testOrchestrator(t).Fields
	o := NewOutputter(map[string]string{"doubled": "COLP * 2"})
	data, _, _, err := o.evaluateField(fs, "doubled")
	if err != nil {
		t.Fatalf("evaluateField: %v", err)
	}
	colp := fs.MustGet("COLP").Data
	for i, v := range data.Elements {
		if want := colp.Elements[i] * 2; v != want {
			t.Errorf("doubled[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestRemoveDuplicateNames(t *testing.T) {
	got := removeDuplicateNames([]string{"COLP", "POTT", "COLP", "QV", "POTT"})
	seen := map[string]int{}
	for _, n := range got {
		seen[n]++
	}
	for n, count := range seen {
		if count != 1 {
			t.Errorf("%s appears %d times, want 1", n, count)
		}
	}
	if len(got) != 3 {
		t.Errorf("len(got) = %d, want 3", len(got))
	}
}

func TestOutputterWriteProducesNonEmptyFile(t *testing.T) {
	o := testOrchestrator(t)
	outputter := NewOutputter(map[string]string{"pressure": "COLP", "temperature": "POTT"})

	f, err := os.CreateTemp("", "sigma-output-*.nc")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := outputter.Write(f, o.Grid, o.Fields); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("output file is empty")
	}
}
