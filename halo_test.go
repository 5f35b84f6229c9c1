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

func TestExchangeXWrapsPeriodic(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	f := fs.Register("X", Mass, true, "1", "test")

	for j := 0; j < g.Ny+2*g.Nb; j++ {
		f.Data.Set(7, 0, j, g.Nb)             // westmost interior column
		f.Data.Set(11, 0, j, g.Nb+g.Nx-1)     // eastmost interior column
	}
	ExchangeX(f, g)

	for j := 0; j < g.Ny+2*g.Nb; j++ {
		if got := f.Data.Get(0, j, 0); got != 11 {
			t.Errorf("west halo at row %d = %g, want 11 (wrapped from east)", j, got)
		}
		if got := f.Data.Get(0, j, g.Nb+g.Nx); got != 7 {
			t.Errorf("east halo at row %d = %g, want 7 (wrapped from west)", j, got)
		}
	}
}

func TestExchangeYReplicatesEdgeRow(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	f := fs.Register("X", Mass, false, "1", "test")

	for i := 0; i < g.Nx+2*g.Nb; i++ {
		f.Data.Set(3, g.Nb, i)
		f.Data.Set(5, g.Nb+g.Ny-1, i)
	}
	ExchangeY(f, g)

	for i := 0; i < g.Nx+2*g.Nb; i++ {
		if got := f.Data.Get(0, i); got != 3 {
			t.Errorf("south halo at col %d = %g, want 3", i, got)
		}
		if got := f.Data.Get(g.Nb+g.Ny, i); got != 5 {
			t.Errorf("north halo at col %d = %g, want 5", i, got)
		}
	}
}

func TestExchangeAllCoversEveryField(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	fs.Register("A", Mass, true, "1", "test")
	fs.Register("B", U, false, "1", "test")
	if err := ExchangeAll(g, fs, cfg.Dt); err != nil {
		t.Fatalf("ExchangeAll: %v", err)
	}
}

func TestEnforceWallVZeroesBoundary(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	f := fs.Register("V1", V, false, "m/s", "test")
	for i := 0; i < g.Nx+2*g.Nb; i++ {
		f.Data.Set(42, g.Nb, i)
		f.Data.Set(42, g.Nb+g.Ny, i)
	}
	EnforceWallV(f, g)
	for i := 0; i < g.Nx+2*g.Nb; i++ {
		if got := f.Data.Get(g.Nb, i); got != 0 {
			t.Errorf("south wall V at col %d = %g, want 0", i, got)
		}
		if got := f.Data.Get(g.Nb+g.Ny, i); got != 0 {
			t.Errorf("north wall V at col %d = %g, want 0", i, got)
		}
	}
}

func TestEnforceWallVPanicsOnNonV(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	f := fs.Register("M1", Mass, false, "1", "test")
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic calling EnforceWallV on a non-V field")
		}
	}()
	EnforceWallV(f, g)
}
