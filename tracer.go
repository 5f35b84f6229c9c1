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

// tracerNames are the moisture tracers carried by the core: water vapor,
// cloud water and rain water (spec.md §3).
var tracerNames = []string{"QV", "QC", "QR"}

// StepTracerTendencies computes D<tracer>DT for QV/QC/QR using the same
// horizontal/vertical advection shape as POTT, plus whatever the
// microphysics column wrote into D<tracer>DTPHY (spec.md §4.5).
func StepTracerTendencies(g *Grid, fs *FieldStore, dt float64) error {
	cfg := fs.Config()
	for _, name := range tracerNames {
		q := fs.MustGet(name)
		dqdt := fs.MustGet("D" + name + "DT")
		dqdtphy := fs.MustGet("D" + name + "DTPHY")

		for k := 0; k < g.Nz; k++ {
			for j := 0; j < g.Ny; j++ {
				for i := 0; i < g.Nx; i++ {
					t := scalarHorAdv(g, fs, q, i, j, k) + scalarVertAdv(g, fs, q, i, j, k)
					if cfg != nil && cfg.MoistMicrophysics {
						t += dqdtphy.Data.Get(k, j+g.Nb, i+g.Nb)
					}
					dqdt.Data.Set(t, k, j+g.Nb, i+g.Nb)
				}
			}
		}
	}
	return nil
}

// ClipNonNegativeTracers enforces QV,QC,QR >= 0 after the tracers are
// advanced: advection and physics source terms can drive a mixing ratio
// slightly negative at the truncation-error level, which has no physical
// meaning for a mass concentration (spec.md §3 edge case).
func ClipNonNegativeTracers(g *Grid, fs *FieldStore, dt float64) error {
	for _, name := range tracerNames {
		q := fs.MustGet(name)
		for k := 0; k < g.Nz; k++ {
			for j := 0; j < g.Ny; j++ {
				for i := 0; i < g.Nx; i++ {
					v := q.Data.Get(k, j+g.Nb, i+g.Nb)
					if v < 0 {
						q.Data.Set(0, k, j+g.Nb, i+g.Nb)
					}
				}
			}
		}
	}
	return nil
}
