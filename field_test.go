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

func TestRegisterShapes(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)

	mass3D := fs.Register("T1", Mass, true, "K", "test")
	if got, want := mass3D.Data.Shape, []int{g.Nz, g.Ny + 2, g.Nx + 2}; !shapeEqual(got, want) {
		t.Errorf("mass 3D shape = %v, want %v", got, want)
	}

	uField := fs.Register("U1", U, true, "m/s", "test")
	if got, want := uField.Data.Shape, []int{g.Nz, g.Ny + 2, g.Nx + 3}; !shapeEqual(got, want) {
		t.Errorf("U field shape = %v, want %v", got, want)
	}

	vField := fs.Register("V1", V, true, "m/s", "test")
	if got, want := vField.Data.Shape, []int{g.Nz, g.Ny + 3, g.Nx + 2}; !shapeEqual(got, want) {
		t.Errorf("V field shape = %v, want %v", got, want)
	}

	half := fs.RegisterHalfLevels("W1", Mass, "1/s", "test")
	if got, want := half.Data.Shape, []int{g.Nz + 1, g.Ny + 2, g.Nx + 2}; !shapeEqual(got, want) {
		t.Errorf("half-level shape = %v, want %v", got, want)
	}

	surface := fs.Register("S1", Mass, false, "Pa", "test")
	if got, want := surface.Data.Shape, []int{g.Ny + 2, g.Nx + 2}; !shapeEqual(got, want) {
		t.Errorf("2D shape = %v, want %v", got, want)
	}
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRegisterDuplicatePanics(t *testing.T) {
	cfg := testConfig()
	fs := NewFieldStore(NewGrid(cfg), cfg)
	fs.Register("DUP", Mass, false, "1", "test")
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate registration")
		}
	}()
	fs.Register("DUP", Mass, false, "1", "test")
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	cfg := testConfig()
	fs := NewFieldStore(NewGrid(cfg), cfg)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unregistered field")
		}
	}()
	fs.MustGet("NOPE")
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	f := fs.Register("X", Mass, false, "1", "test")
	f.Data.Set(1, 0, 0)

	clone := fs.Clone()
	clone.MustGet("X").Data.Set(2, 0, 0)

	if got := fs.MustGet("X").Data.Get(0, 0); got != 1 {
		t.Errorf("original field mutated by clone edit: got %g, want 1", got)
	}
}

func TestCopyFromOverwrites(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	fs.Register("X", Mass, false, "1", "test")
	fs.MustGet("X").Data.Set(1, 0, 0)

	src := fs.Clone()
	src.MustGet("X").Data.Set(99, 0, 0)

	if err := fs.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if got := fs.MustGet("X").Data.Get(0, 0); got != 99 {
		t.Errorf("CopyFrom did not overwrite: got %g, want 99", got)
	}
}

func TestSameStaggeringRejectsMismatch(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	a := fs.Register("A", Mass, true, "1", "test")
	b := fs.Register("B", U, true, "1", "test")
	if err := sameStaggering(a, b); err == nil {
		t.Errorf("expected error comparing a Mass field to a U field")
	}
}
