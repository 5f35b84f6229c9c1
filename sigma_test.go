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

// testConfig returns a small, fast-to-allocate configuration shared by the
// package's tests: an 8x4x3 grid with every dynamics term except numerical
// diffusion switched on and physics switched off, the same shape the teacher's VarGridData test
// helper provides for its own tests.
func testConfig() *Config {
	c := Default()
	c.Nx, c.Ny, c.Nz = 8, 4, 3
	c.Dt = 100
	return c
}

// testOrchestrator builds a ready-to-step Orchestrator over testConfig,
// with a uniform resting atmosphere: COLP at a fixed value, POTT increasing
// upward, everything else zero.
func testOrchestrator(t interface{ Fatalf(string, ...interface{}) }) *Orchestrator {
	cfg := testConfig()
	o, err := NewOrchestrator(cfg)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	seedRestingAtmosphere(o.Grid, o.Fields)
	return o
}

// seedRestingAtmosphere fills COLP and POTT with a plausible resting
// profile so that pressure/geopotential diagnostics and advection terms
// operate on non-degenerate data, mirroring how the teacher's test helpers
// seed a Cell's T/P before exercising a term.
func seedRestingAtmosphere(g *Grid, fs *FieldStore) {
	colp := fs.MustGet("COLP")
	pott := fs.MustGet("POTT")
	for j := 0; j < g.Ny+2*g.Nb; j++ {
		for i := 0; i < g.Nx+2*g.Nb; i++ {
			colp.Data.Set(95000, j, i)
		}
	}
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny+2*g.Nb; j++ {
			for i := 0; i < g.Nx+2*g.Nb; i++ {
				pott.Data.Set(290+float64(k)*5, k, j, i)
			}
		}
	}
}
