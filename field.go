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

	"github.com/ctessum/sparse"
)

// Field is one named prognostic, diagnostic or constant array, carrying the
// metadata the teacher attaches to Cell struct fields via `desc`/`units`
// tags -- expressed here as explicit data since the field set is
// configuration-driven rather than fixed at compile time (spec.md §3, §9).
type Field struct {
	Name        string
	Staggering  Staggering
	Is3D        bool
	Units       string
	Description string
	Data        *sparse.DenseArray
}

// FieldStore owns every named array for one model state (one full time
// level). The orchestrator holds exactly one FieldStore for the current
// state, plus whatever ping-pong buffers the active time integrator needs
// (spec.md §9 "kept as a single long-lived allocation, not re-allocated
// per time step").
type FieldStore struct {
	grid   *Grid
	config *Config
	fields map[string]*Field
}

// NewFieldStore allocates an empty store sized for g. Fields are added with
// Register as the kernels that own them are wired in, mirroring the
// teacher's pattern of each subsystem registering the Cell fields it needs.
// cfg is retained so kernels can read the run's term switches without every
// kernel function taking a separate Config parameter.
func NewFieldStore(g *Grid, cfg *Config) *FieldStore {
	return &FieldStore{grid: g, config: cfg, fields: make(map[string]*Field)}
}

// Config returns the run configuration this store was built against.
func (fs *FieldStore) Config() *Config { return fs.config }

// shape returns the halo-inclusive array shape for a given staggering and
// vertical length (0 means a 2D surface field).
func (fs *FieldStore) shape(stag Staggering, nz int) []int {
	g := fs.grid
	var ny, nx int
	switch stag {
	case Mass:
		ny, nx = g.Ny, g.Nx
	case U:
		ny, nx = g.Ny, g.Nx+1
	case V:
		ny, nx = g.Ny+1, g.Nx
	case Corner:
		ny, nx = g.Ny+1, g.Nx+1
	default:
		panic(fmt.Sprintf("sigma: unknown staggering %v", stag))
	}
	ny += 2 * g.Nb
	nx += 2 * g.Nb
	if nz > 0 {
		return []int{nz, ny, nx}
	}
	return []int{ny, nx}
}

// Register allocates and adds a new field to the store. It panics on a
// duplicate name: field registration happens once at start-up, wired
// directly into the orchestrator's construction sequence, so a collision is
// a programming error rather than a runtime condition to recover from.
func (fs *FieldStore) Register(name string, stag Staggering, is3D bool, units, desc string) *Field {
	nz := 0
	if is3D {
		nz = fs.grid.Nz
	}
	return fs.registerShaped(name, stag, is3D, nz, units, desc)
}

// RegisterHalfLevels allocates a 3D field on the Nz+1 sigma half-levels
// (interfaces) instead of the Nz layer centers -- used for WWIND, PHIVB,
// POTTVB and PVTFVB, which are all defined on vertical interfaces
// (spec.md §3/§4.3).
func (fs *FieldStore) RegisterHalfLevels(name string, stag Staggering, units, desc string) *Field {
	return fs.registerShaped(name, stag, true, fs.grid.Nz+1, units, desc)
}

func (fs *FieldStore) registerShaped(name string, stag Staggering, is3D bool, nz int, units, desc string) *Field {
	if _, exists := fs.fields[name]; exists {
		panic(fmt.Sprintf("sigma: field %q already registered", name))
	}
	f := &Field{
		Name:        name,
		Staggering:  stag,
		Is3D:        is3D,
		Units:       units,
		Description: desc,
		Data:        sparse.ZerosDense(fs.shape(stag, nz)...),
	}
	fs.fields[name] = f
	return f
}

// Get returns the named field, or an error if it was never registered.
func (fs *FieldStore) Get(name string) (*Field, error) {
	f, ok := fs.fields[name]
	if !ok {
		return nil, fmt.Errorf("sigma: field %q not registered", name)
	}
	return f, nil
}

// MustGet panics if name is not registered. It is used inside kernels, where
// every operand name is a compile-time constant chosen by the kernel's
// author -- a miss there is a programming error, not a runtime fault.
func (fs *FieldStore) MustGet(name string) *Field {
	f, err := fs.Get(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Names returns the registered field names, for iteration by the output and
// restart layers.
func (fs *FieldStore) Names() []string {
	names := make([]string, 0, len(fs.fields))
	for n := range fs.fields {
		names = append(names, n)
	}
	return names
}

// Grid returns the grid this store was allocated against.
func (fs *FieldStore) Grid() *Grid { return fs.grid }

// Clone makes a deep copy of the store, used by NewOrchestrator to allocate
// the RK4 integrator's stage buffers. It is allocated once
// per buffer slot, never per step (spec.md §9).
func (fs *FieldStore) Clone() *FieldStore {
	out := &FieldStore{grid: fs.grid, config: fs.config, fields: make(map[string]*Field, len(fs.fields))}
	for name, f := range fs.fields {
		out.fields[name] = &Field{
			Name:        f.Name,
			Staggering:  f.Staggering,
			Is3D:        f.Is3D,
			Units:       f.Units,
			Description: f.Description,
			Data:        f.Data.Copy(),
		}
	}
	return out
}

// CopyFrom overwrites fs's field contents in place from src, which must have
// been registered with the same field set (a Clone of fs, or fs itself at an
// earlier time). Used to swap RK4 ping-pong buffers without reallocating.
func (fs *FieldStore) CopyFrom(src *FieldStore) error {
	for name, dst := range fs.fields {
		s, ok := src.fields[name]
		if !ok {
			return fmt.Errorf("sigma: CopyFrom: field %q missing in source store", name)
		}
		copy(dst.Data.Elements, s.Data.Elements)
	}
	return nil
}

// sameStaggering verifies that two fields share a staggering and
// verticality before a kernel combines them, the "operand compatibility...
// checked at construction time" requirement of spec.md §9.
func sameStaggering(a, b *Field) error {
	if a.Staggering != b.Staggering || a.Is3D != b.Is3D {
		return fmt.Errorf("sigma: incompatible operands %q (%v,3D=%v) and %q (%v,3D=%v)",
			a.Name, a.Staggering, a.Is3D, b.Name, b.Staggering, b.Is3D)
	}
	return nil
}
