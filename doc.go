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

// Package sigma implements a sigma-coordinate hydrostatic primitive-equation
// atmospheric dynamical core: an Arakawa C-grid dynamics pipeline
// (continuity, momentum, thermodynamics, tracer transport) coupled to
// column physics (warm-rain microphysics, a one-layer surface/soil slab,
// and an optional external radiation collaborator), advanced by an explicit
// Euler or classic RK4 time integrator.
package sigma
