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
	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"
)

// TotalAtmosphericMass returns the domain-total dry-air mass implied by the
// current COLP field, sum(COLP(i,j)*A(i,j))/g. It is the mass-conservation
// diagnostic the orchestrator logs every step and the scenario tests check
// for drift, mirroring the teacher's totalMassPopulation/
// SteadyStateConvergenceCheck use of gonum/floats for a domain-wide sum.
func TotalAtmosphericMass(g *Grid, fs *FieldStore) float64 {
	colp := fs.MustGet("COLP")
	weighted := make([]float64, g.Ny)
	for j := 0; j < g.Ny; j++ {
		rowSum := 0.0
		for i := 0; i < g.Nx; i++ {
			rowSum += colp.Data.Get(j+g.Nb, i+g.Nb)
		}
		weighted[j] = rowSum * g.AreaAt(j)
	}
	return floats.Sum(weighted) / gravity
}

// TotalTracerMass returns the domain-total mass of one mixing-ratio tracer
// (QV, QC or QR), kg.
func TotalTracerMass(g *Grid, fs *FieldStore, name string) float64 {
	colp := fs.MustGet("COLP")
	q := fs.MustGet(name)
	total := 0.0
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				cc := colp.Data.Get(j+g.Nb, i+g.Nb)
				qv := q.Data.Get(k, j+g.Nb, i+g.Nb)
				total += qv * cc * g.Dsigma[k] * g.AreaAt(j) / gravity
			}
		}
	}
	return total
}

// MassDriftSlope fits a line through a time series of TotalAtmosphericMass
// samples (one per step) and returns its slope (kg per step) and
// R-squared, the long-run analogue of the scenario tests' per-step
// conservation check: a long integration should show slope ~ 0 even if
// individual steps carry small truncation-error noise. Mirrors the
// teacher's own use of stats.LinearRegression for a trend fit in its model-
// vs-observation evaluation.
func MassDriftSlope(history []float64) (slope, rsquared float64) {
	steps := make([]float64, len(history))
	for i := range steps {
		steps[i] = float64(i)
	}
	slope, _, rsquared, _, _, _ = stats.LinearRegression(steps, history)
	return slope, rsquared
}

// f2i rounds f to the nearest int, following the teacher's helper of the
// same name.
func f2i(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
