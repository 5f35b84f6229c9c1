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

// ExchangeX fills f's lateral (east/west) halo columns by periodic wrap:
// the domain is cyclic in longitude with period Nx, so the column just west
// of i=0 is column Nx-1 and vice versa. U and Corner fields carry one extra
// interior column, i=Nx, which is the same interface as i=0 and is copied
// from it.
func ExchangeX(f *Field, g *Grid) {
	shape := f.Data.Shape
	nk := 1
	nyDim, nxDim := shape[0], shape[1]
	if f.Is3D {
		nk, nyDim, nxDim = shape[0], shape[1], shape[2]
	}
	nxInterior := nxDim - 2*g.Nb
	period := g.Nx
	extra := nxInterior - period

	for k := 0; k < nk; k++ {
		for j := 0; j < nyDim; j++ {
			if extra > 0 {
				if f.Is3D {
					f.Data.Set(f.Data.Get(k, j, g.Nb), k, j, g.Nb+period)
				} else {
					f.Data.Set(f.Data.Get(j, g.Nb), j, g.Nb+period)
				}
			}
			for b := 0; b < g.Nb; b++ {
				// West halo column at storage index b takes the interior
				// column period-Nb+b (wrap from the east).
				srcEast := g.Nb + period - g.Nb + b
				dstWest := b
				// East halo column at storage index Nb+nxInterior+b takes
				// the interior column extra+b (wrap from the west).
				srcWest := g.Nb + extra + b
				dstEast := g.Nb + nxInterior + b

				if f.Is3D {
					f.Data.Set(f.Data.Get(k, j, srcEast), k, j, dstWest)
					f.Data.Set(f.Data.Get(k, j, srcWest), k, j, dstEast)
				} else {
					f.Data.Set(f.Data.Get(j, srcEast), j, dstWest)
					f.Data.Set(f.Data.Get(j, srcWest), j, dstEast)
				}
			}
		}
	}
}

// ExchangeY fills f's meridional (north/south) halo rows with a rigid-wall,
// zero-gradient copy of the nearest interior row: there is no flow across
// the domain's northern and southern edges, so the simplest consistent
// extension for a centered stencil is to repeat the boundary row.
func ExchangeY(f *Field, g *Grid) {
	shape := f.Data.Shape
	nk := 1
	nyDim, nxDim := shape[0], shape[1]
	if f.Is3D {
		nk, nyDim, nxDim = shape[0], shape[1], shape[2]
	}
	nyInterior := nyDim - 2*g.Nb

	for k := 0; k < nk; k++ {
		for i := 0; i < nxDim; i++ {
			for b := 0; b < g.Nb; b++ {
				southInterior := g.Nb
				northInterior := g.Nb + nyInterior - 1
				dstSouth := b
				dstNorth := g.Nb + nyInterior + b

				if f.Is3D {
					f.Data.Set(f.Data.Get(k, southInterior, i), k, dstSouth, i)
					f.Data.Set(f.Data.Get(k, northInterior, i), k, dstNorth, i)
				} else {
					f.Data.Set(f.Data.Get(southInterior, i), dstSouth, i)
					f.Data.Set(f.Data.Get(northInterior, i), dstNorth, i)
				}
			}
		}
	}
}

// Exchange applies both the periodic-x and rigid-y passes to f, in that
// order: x first so that the corner halo cells, which ExchangeY then copies
// northward/southward, already hold the wrapped values.
func Exchange(f *Field, g *Grid) {
	ExchangeX(f, g)
	ExchangeY(f, g)
}

// ExchangeAll runs Exchange over every field in the store. It is registered
// as the orchestrator's halo-exchange step, composed into the per-step
// kernel sequence the same way the teacher composes ResetCells ahead of its
// other DomainManipulators in run.go.
func ExchangeAll(g *Grid, fs *FieldStore, dt float64) error {
	for _, name := range fs.Names() {
		f := fs.MustGet(name)
		Exchange(f, g)
	}
	return nil
}

// EnforceWallV zeroes the meridional wind component at the two rigid walls
// (j=0 and j=Ny, the first and last V-staggered rows), since no physical
// process should ever set a nonzero normal velocity there. Kernels that
// update VWIND call this after every write rather than relying on the halo
// pass, which only extends values outward and does not constrain the
// boundary row itself.
func EnforceWallV(f *Field, g *Grid) {
	if f.Staggering != V {
		panic("sigma: EnforceWallV called on a non-V field")
	}
	shape := f.Data.Shape
	nk := 1
	nxDim := shape[1]
	if f.Is3D {
		nk, nxDim = shape[0], shape[2]
	}
	south := g.Nb
	north := g.Nb + g.Ny

	for k := 0; k < nk; k++ {
		for i := 0; i < nxDim; i++ {
			if f.Is3D {
				f.Data.Set(0, k, south, i)
				f.Data.Set(0, k, north, i)
			} else {
				f.Data.Set(0, south, i)
				f.Data.Set(0, north, i)
			}
		}
	}
}
