/*
Copyright © 2017 the InMAP authors.
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
	"math"
	"os"

	"github.com/ctessum/cdf"
)

// TopoSource is a regular lat/lon surface elevation (and, optionally, ocean
// mask) field, read from a NetCDF file by LoadTopography. It does not need
// to share the model grid's resolution: LoadTopography bilinearly
// interpolates it onto the model grid the way the teacher's preprocessor
// regrids external analysis fields onto the model's own staggering.
type TopoSource struct {
	Lat, Lon   []float64 // degrees, strictly increasing
	Elevation  *sparse2D // meters, shape (len(Lat), len(Lon))
	OceanFrac  *sparse2D // 0-1, shape (len(Lat), len(Lon)); nil if absent
}

// sparse2D is a minimal row-major 2-D array, used only to stage a
// TopoSource's raw NetCDF contents before interpolation; the model's own
// fields live in *sparse.DenseArray via FieldStore.
type sparse2D struct {
	ny, nx int
	data   []float64
}

func (s *sparse2D) at(j, i int) float64 { return s.data[j*s.nx+i] }

// LoadTopography reads a lat/lon elevation grid (and optional ocean mask)
// from a NetCDF file, following the teacher's readNCF/ncfFromTemplate
// pattern of opening a *cdf.File and pulling a variable's raw float32
// buffer into float64. Variable names are fixed: "lat", "lon", "elevation",
// and optionally "ocean_frac".
func LoadTopography(path string) (*TopoSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "opening topography file", Path: path, Err: err}
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, &IOError{Op: "reading topography header", Path: path, Err: err}
	}
	lat, err := readVector(ff, "lat")
	if err != nil {
		return nil, &IOError{Op: "reading topography latitude", Path: path, Err: err}
	}
	lon, err := readVector(ff, "lon")
	if err != nil {
		return nil, &IOError{Op: "reading topography longitude", Path: path, Err: err}
	}
	elev, err := read2D(ff, "elevation", len(lat), len(lon))
	if err != nil {
		return nil, &IOError{Op: "reading topography elevation", Path: path, Err: err}
	}
	src := &TopoSource{Lat: lat, Lon: lon, Elevation: elev}
	if dims := ff.Header.Lengths("ocean_frac"); len(dims) > 0 {
		oceanFrac, err := read2D(ff, "ocean_frac", len(lat), len(lon))
		if err != nil {
			return nil, &IOError{Op: "reading topography ocean fraction", Path: path, Err: err}
		}
		src.OceanFrac = oceanFrac
	}
	return src, nil
}

func readVector(ff *cdf.File, name string) ([]float64, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("sigma: variable %q not present", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	out := make([]float64, dims[0])
	for i, v := range buf.([]float32) {
		out[i] = float64(v)
	}
	return out, nil
}

func read2D(ff *cdf.File, name string, ny, nx int) (*sparse2D, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("sigma: variable %q not present", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	out := &sparse2D{ny: ny, nx: nx, data: make([]float64, ny*nx)}
	for i, v := range buf.([]float32) {
		out.data[i] = float64(v)
	}
	return out, nil
}

// NTopoSmooth is the number of Laplacian smoothing passes applied
// to interpolated topography, damping grid-scale noise that would
// otherwise excite spurious gravity waves over the pressure-gradient term.
const NTopoSmooth = 2

// InterpolateTopography bilinearly interpolates src onto g's mass grid,
// clamps elevation to be non-negative, fills g.HSurf and g.OceanMask, and
// applies NTopoSmooth passes of Laplacian smoothing with halo fills
// between passes so the smoothing stencil sees consistent neighbor values
// across the periodic x boundary.
func InterpolateTopography(g *Grid, src *TopoSource) error {
	if len(src.Lat) < 2 || len(src.Lon) < 2 {
		return fmt.Errorf("sigma: topography source needs at least 2 points per axis")
	}
	hsurf := make([]float64, g.Nx*g.Ny)
	ocean := make([]float64, g.Nx*g.Ny)
	for j := 0; j < g.Ny; j++ {
		latDeg := g.LatMass[j] * 180 / math.Pi
		for i := 0; i < g.Nx; i++ {
			lonDeg := float64(i) * g.DlonRad * 180 / math.Pi
			elev := bilinear(src.Lat, src.Lon, src.Elevation, latDeg, lonDeg)
			if elev < 0 {
				elev = 0
			}
			hsurf[j*g.Nx+i] = elev
			if src.OceanFrac != nil {
				ocean[j*g.Nx+i] = bilinear(src.Lat, src.Lon, src.OceanFrac, latDeg, lonDeg)
			}
		}
	}
	copy(g.HSurf, hsurf)
	copy(g.OceanMask, ocean)

	for pass := 0; pass < NTopoSmooth; pass++ {
		smoothHSurf(g)
	}
	return nil
}

// bilinear interpolates field at (lat,lon), clamping to the source domain's
// edges rather than extrapolating, following the teacher's staggerWorker
// edge-replication convention.
func bilinear(lats, lons []float64, field *sparse2D, lat, lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	j0, jf := bracket(lats, lat)
	i0, iFrac := bracket(lons, lon)
	j1 := minInt(j0+1, len(lats)-1)
	i1 := minInt(i0+1, len(lons)-1)
	v00 := field.at(j0, i0)
	v01 := field.at(j0, i1)
	v10 := field.at(j1, i0)
	v11 := field.at(j1, i1)
	v0 := v00*(1-iFrac) + v01*iFrac
	v1 := v10*(1-iFrac) + v11*iFrac
	return v0*(1-jf) + v1*jf
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// bracket returns the index of the largest element of xs not greater than
// x (clamped to [0,len(xs)-2]) and the fractional distance to the next
// element.
func bracket(xs []float64, x float64) (int, float64) {
	if x <= xs[0] {
		return 0, 0
	}
	if x >= xs[len(xs)-1] {
		return len(xs) - 2, 1
	}
	for k := 0; k < len(xs)-1; k++ {
		if x >= xs[k] && x <= xs[k+1] {
			return k, (x - xs[k]) / (xs[k+1] - xs[k])
		}
	}
	return len(xs) - 2, 1
}

// smoothHSurf applies one pass of 5-point Laplacian smoothing to g.HSurf,
// wrapping in x and replicating the edge row in y, matching the rigid-wall/
// periodic-x convention used by halo.go for prognostic fields.
func smoothHSurf(g *Grid) {
	out := make([]float64, len(g.HSurf))
	at := func(j, i int) float64 {
		if i < 0 {
			i += g.Nx
		}
		if i >= g.Nx {
			i -= g.Nx
		}
		if j < 0 {
			j = 0
		}
		if j >= g.Ny {
			j = g.Ny - 1
		}
		return g.HSurf[j*g.Nx+i]
	}
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			center := at(j, i)
			neighbors := (at(j-1, i) + at(j+1, i) + at(j, i-1) + at(j, i+1)) / 4
			out[j*g.Nx+i] = center + 0.5*(neighbors-center)
		}
	}
	copy(g.HSurf, out)
}
