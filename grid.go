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

import "math"

// Staggering names one of the three horizontal coordinate conventions that
// coexist on the Arakawa C-grid. It is carried as data on the field
// descriptor rather than encoded in the type system (spec.md §9).
// sameStaggering checks operand compatibility between two fields; field
// registration itself does not call it.
type Staggering int

// The four horizontal staggerings.
const (
	Mass   Staggering = iota // cell centers, nx * ny
	U                        // east-west interfaces, (nx+1) * ny
	V                        // north-south interfaces, nx * (ny+1)
	Corner                   // cell corners, (nx+1) * (ny+1)
)

func (s Staggering) String() string {
	switch s {
	case Mass:
		return "mass"
	case U:
		return "U"
	case V:
		return "V"
	case Corner:
		return "corner"
	default:
		return "unknown"
	}
}

// nb is the number of halo cells on each lateral side. The spec allows the
// implementer to fix this; one halo ring is sufficient for every stencil
// used by the momentum, continuity and tendency kernels below.
const nb = 1

// Grid holds the geometry of the model mesh: dimensions, staggering extents,
// and the geometric fields that are precomputed once at start-up and never
// mutated afterward (spec.md §3).
type Grid struct {
	Nx, Ny, Nz int
	Nb         int

	// DlonRad, DlatRad are the (constant) longitude/latitude cell widths,
	// radians.
	DlonRad, DlatRad float64

	// LatMass, LatV are cell-center and V-staggered latitudes, radians.
	// LatMass has Ny entries, LatV has Ny+1.
	LatMass []float64
	LatV    []float64

	// Area is the cell area A(i,j), m^2. Depends only on j but stored as a
	// flat per-row slice for symmetry with the rest of the field store.
	Area []float64 // length Ny

	// Dyis is the (constant) north-south extent of a U-interface, m.
	Dyis float64

	// Dxjs is the V-interface length dxjs(j), m, length Ny+1; shrinks with
	// cos(latV(j)).
	Dxjs []float64

	// Coriolis f(j) = 2*Omega*sin(latMass(j)), length Ny.
	Coriolis []float64
	// CoriolisV is f evaluated at V latitudes, length Ny+1, used by the
	// V-grid mirror of the Coriolis+metric term.
	CoriolisV []float64

	// SigmaMass are layer-center sigma values, length Nz.
	SigmaMass []float64
	// SigmaVb are half-level (interface) sigma values, length Nz+1, with
	// SigmaVb[0]=0 and SigmaVb[Nz]=1.
	SigmaVb []float64
	// Dsigma is the layer thickness in sigma space, length Nz.
	Dsigma []float64

	// HSurf is the surface geopotential height field, m, mass-staggered.
	HSurf []float64
	// OceanMask is 1 where the surface is ocean, 0 where land, mass-staggered.
	OceanMask []float64

	PairTop float64
}

// Physical constants (spec.md glossary; grounded on preproc.go's constant
// block style).
const (
	earthRadius = 6.371e6  // m
	omega       = 7.292e-5 // rad/s, Earth's rotation rate
	gravity     = 9.80665  // m/s^2
	rDry        = 287.058  // J/(kg K), specific gas constant for dry air
	cpDry       = 1004.64  // J/(kg K), specific heat of dry air at constant pressure
	kappa       = rDry / cpDry
	pRef        = 1.0e5  // Pa, reference pressure for Exner function
	latentHeat  = 2.501e6 // J/kg, latent heat of vaporization
)

// NewGrid builds the grid geometry from a validated configuration. HSurf and
// OceanMask are left zero; InterpolateTopography fills them in.
func NewGrid(c *Config) *Grid {
	g := &Grid{
		Nx: c.Nx, Ny: c.Ny, Nz: c.Nz, Nb: nb,
		PairTop: c.PairTop,
	}
	g.DlonRad = (c.Lon1Deg - c.Lon0Deg) * math.Pi / 180 / float64(c.Nx)
	g.DlatRad = c.DlatDeg * math.Pi / 180

	latSpan := g.DlatRad * float64(c.Ny)
	lat0 := -latSpan / 2

	g.LatV = make([]float64, c.Ny+1)
	for j := 0; j <= c.Ny; j++ {
		g.LatV[j] = lat0 + float64(j)*g.DlatRad
	}
	g.LatMass = make([]float64, c.Ny)
	for j := 0; j < c.Ny; j++ {
		g.LatMass[j] = (g.LatV[j] + g.LatV[j+1]) / 2
	}

	g.Area = make([]float64, c.Ny)
	for j := 0; j < c.Ny; j++ {
		g.Area[j] = earthRadius * earthRadius * g.DlonRad *
			(math.Sin(g.LatV[j+1]) - math.Sin(g.LatV[j]))
	}

	g.Dyis = earthRadius * g.DlatRad

	g.Dxjs = make([]float64, c.Ny+1)
	for j := 0; j <= c.Ny; j++ {
		g.Dxjs[j] = earthRadius * math.Cos(g.LatV[j]) * g.DlonRad
	}

	g.Coriolis = make([]float64, c.Ny)
	for j := 0; j < c.Ny; j++ {
		g.Coriolis[j] = 2 * omega * math.Sin(g.LatMass[j])
	}
	g.CoriolisV = make([]float64, c.Ny+1)
	for j := 0; j <= c.Ny; j++ {
		g.CoriolisV[j] = 2 * omega * math.Sin(g.LatV[j])
	}

	g.SigmaVb = make([]float64, c.Nz+1)
	for k := 0; k <= c.Nz; k++ {
		g.SigmaVb[k] = float64(k) / float64(c.Nz)
	}
	g.SigmaMass = make([]float64, c.Nz)
	g.Dsigma = make([]float64, c.Nz)
	for k := 0; k < c.Nz; k++ {
		g.SigmaMass[k] = (g.SigmaVb[k] + g.SigmaVb[k+1]) / 2
		g.Dsigma[k] = g.SigmaVb[k+1] - g.SigmaVb[k]
	}

	g.HSurf = make([]float64, c.Nx*c.Ny)
	g.OceanMask = make([]float64, c.Nx*c.Ny)
	return g
}

// AreaAt returns the cell area of mass-point row j (interior, unhaloed
// indexing: 0 <= j < Ny); the area does not depend on i.
func (g *Grid) AreaAt(j int) float64 { return g.Area[j] }

