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

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate cleanly, got %v", err)
	}
}

func TestValidateRejectsNonPositiveGridSize(t *testing.T) {
	c := Default()
	c.Ny = 0
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for Ny=0")
	}
}

func TestValidateRejectsNonGlobalLongitude(t *testing.T) {
	c := Default()
	c.Lon0Deg, c.Lon1Deg = 10, 350
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for a non-global longitude extent")
	}
}

func TestValidateRejectsBadTimeStepping(t *testing.T) {
	c := Default()
	c.TimeStepping = "LEAPFROG"
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for an unrecognized TimeStepping value")
	}
}

func TestValidateRejectsRadiationWithoutSurfaceScheme(t *testing.T) {
	c := Default()
	c.RadiationSwitch = true
	c.SurfaceSchemeSwitch = false
	if err := c.Validate(); err == nil {
		t.Errorf("expected error: radiation requires the surface scheme")
	}
}

func TestValidateRejectsNegativeDiffusionCoefficient(t *testing.T) {
	c := Default()
	c.POTTDifCoef = -1
	if err := c.Validate(); err == nil {
		t.Errorf("expected error for a negative diffusion coefficient")
	}
}

func TestLoadConfigMissingFileReturnsIOError(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/sigma.toml")
	if err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
	var ioErr *IOError
	if !asIOError(err, &ioErr) {
		t.Errorf("expected an *IOError, got %T: %v", err, err)
	}
}

func asIOError(err error, target **IOError) bool {
	for err != nil {
		if e, ok := err.(*IOError); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
