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

import "fmt"

// ConfigError indicates that the run configuration failed validation before
// any field was allocated.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sigma: invalid configuration for %s: %s", e.Option, e.Reason)
}

// BreakdownError indicates a numerical breakdown (CFL violation) detected by
// the post-step sanity scan: COLP <= 0 or a non-finite value in a prognostic
// field.
type BreakdownError struct {
	Field   string
	I, J, K int
	Value   float64
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("sigma: numerical breakdown in %s at (i=%d,j=%d,k=%d): value=%g",
		e.Field, e.I, e.J, e.K, e.Value)
}

// IOError wraps a failure reading or writing an external collaborator file
// (restart, topography, output).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("sigma: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
