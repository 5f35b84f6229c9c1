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
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"
)

const daysPerSecond = 1. / 3600. / 24.

// Kernel is one step of the model's per-timestep calculation: a pure
// function of the grid geometry, the current field store and the time
// step, generalizing the teacher's CellManipulator
// (func(*Cell, Δt float64)) from a per-cell callback to a whole-field
// callback, since this core's grid is a structured array rather than a
// linked graph of Cells.
type Kernel func(g *Grid, fs *FieldStore, dt float64) error

// ColumnFunc runs one column (i,j) worth of work; ParallelOverColumns
// stripes the calls of one ColumnFunc across runtime.GOMAXPROCS goroutines the
// same way the teacher's Calculations stripes CellManipulators across
// cells in run.go.
type ColumnFunc func(i, j int)

// ParallelOverColumns runs f once per interior column of g, split across a
// fixed goroutine pool sized to GOMAXPROCS, mirroring the teacher's
// Calculations: static striping over a flattened index space with a
// sync.WaitGroup barrier, rather than spawning one goroutine per column.
func ParallelOverColumns(g *Grid, f ColumnFunc) {
	n := g.Nx * g.Ny
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > n {
		nprocs = n
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for idx := pp; idx < n; idx += nprocs {
				j := idx / g.Nx
				i := idx % g.Nx
				f(i, j)
			}
		}(pp)
	}
	wg.Wait()
}

// SanityScan is a post-step kernel that checks every prognostic field for
// non-finite values and COLP for non-positivity, returning a BreakdownError
// naming the first offending field and its (i,j,k) index in interior
// (unhaloed) indexing (spec.md §7).
func SanityScan(g *Grid, fs *FieldStore, dt float64) error {
	colp := fs.MustGet("COLP")
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			v := colp.Data.Get(j+g.Nb, i+g.Nb)
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return &BreakdownError{Field: "COLP", I: i, J: j, K: 0, Value: v}
			}
		}
	}
	for _, name := range []string{"UWIND", "VWIND", "POTT", "QV", "QC", "QR"} {
		f := fs.MustGet(name)
		for idx, v := range f.Data.Elements {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				shape := f.Data.Shape
				nx, ny := shape[len(shape)-1], shape[len(shape)-2]
				k := 0
				if len(shape) == 3 {
					k = idx / (nx * ny)
				}
				return &BreakdownError{Field: name, I: idx%nx - g.Nb, J: (idx/nx)%ny - g.Nb, K: k, Value: v}
			}
		}
	}
	return nil
}

// Log writes simulation status messages to w after every step, following
// the teacher's Log DomainManipulator in run.go. Returned as a Kernel so it
// can be appended to the orchestrator's step sequence by the caller (e.g.
// cmd/sigma) without the core package depending on any particular output
// stream.
func Log(w io.Writer) Kernel {
	startTime := time.Now()
	stepTime := time.Now()
	iteration := 0
	daysRun := 0.0

	return func(g *Grid, fs *FieldStore, dt float64) error {
		iteration++
		daysRun += dt * daysPerSecond
		fmt.Fprintf(w, "iteration %-5d  walltime=%6.3gh  Δwalltime=%4.2gs  dt=%4.0fs  day=%.3g  mass=%.6g kg\n",
			iteration, time.Since(startTime).Hours(), time.Since(stepTime).Seconds(),
			dt, daysRun, TotalAtmosphericMass(g, fs))
		stepTime = time.Now()
		return nil
	}
}
