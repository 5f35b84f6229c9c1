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
	"encoding/gob"
	"fmt"
	"io"
)

// DataVersion identifies the on-disk layout of a restart file. Load refuses
// to read a file written by an incompatible version or a grid of a
// different resolution, following save.go's versionCells check in the
// teacher.
const DataVersion = "sigma-restart-v1"

// versionState is the gob-encoded restart payload: enough of Config to
// detect a resolution mismatch, plus every field's raw elements.
type versionState struct {
	DataVersion string
	Nx, Ny, Nz  int
	Iteration   int
	Fields      map[string][]float64
}

// Save returns a Kernel that writes the current field store to w in gob
// format every time it runs; callers append it to the orchestrator's step
// sequence at whatever cadence they want a restart written (e.g. wrapped in
// a counter), the same way the teacher composes Save as a DomainManipulator
// in save.go.
func Save(w io.Writer) Kernel {
	return func(g *Grid, fs *FieldStore, dt float64) error {
		data := versionState{
			DataVersion: DataVersion,
			Nx:          g.Nx, Ny: g.Ny, Nz: g.Nz,
			Fields: make(map[string][]float64),
		}
		for _, name := range fs.Names() {
			f := fs.MustGet(name)
			cp := make([]float64, len(f.Data.Elements))
			copy(cp, f.Data.Elements)
			data.Fields[name] = cp
		}
		if err := gob.NewEncoder(w).Encode(data); err != nil {
			return &IOError{Op: "writing restart", Path: "<writer>", Err: err}
		}
		return nil
	}
}

// Load reads a restart file written by Save into fs, which must already be
// registered against a Grid of the same resolution as the one that wrote
// it -- a resolution mismatch is a fatal error, not a resample, exactly as
// the teacher's Load treats a VarGridDataVersion mismatch.
func Load(r io.Reader, g *Grid, fs *FieldStore) error {
	var data versionState
	if err := gob.NewDecoder(r).Decode(&data); err != nil {
		return &IOError{Op: "reading restart", Path: "<reader>", Err: err}
	}
	if data.DataVersion != DataVersion {
		return fmt.Errorf("sigma: restart file version %q is not compatible with %q", data.DataVersion, DataVersion)
	}
	if data.Nx != g.Nx || data.Ny != g.Ny || data.Nz != g.Nz {
		return fmt.Errorf("sigma: restart file grid (%d,%d,%d) does not match the running grid (%d,%d,%d)",
			data.Nx, data.Ny, data.Nz, g.Nx, g.Ny, g.Nz)
	}
	for name, elements := range data.Fields {
		f, err := fs.Get(name)
		if err != nil {
			return fmt.Errorf("sigma: restart file field %q: %w", name, err)
		}
		if len(elements) != len(f.Data.Elements) {
			return fmt.Errorf("sigma: restart file field %q has %d elements, expected %d", name, len(elements), len(f.Data.Elements))
		}
		copy(f.Data.Elements, elements)
	}
	return nil
}
