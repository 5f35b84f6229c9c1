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
	"bytes"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	o := testOrchestrator(t)
	o.Fields.MustGet("POTT").Data.Set(317, 0, 2, 2)
	o.Iteration = 42

	var buf bytes.Buffer
	save := Save(&buf)
	if err := save(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg := testConfig()
	g2 := NewGrid(cfg)
	fs2 := NewFieldStore(g2, cfg)
	RegisterStandardFields(fs2)

	if err := Load(&buf, g2, fs2); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fs2.MustGet("POTT").Data.Get(0, 2, 2); got != 317 {
		t.Errorf("POTT after round-trip = %g, want 317", got)
	}
}

func TestLoadRejectsWrongGridSize(t *testing.T) {
	o := testOrchestrator(t)
	var buf bytes.Buffer
	save := Save(&buf)
	if err := save(o.Grid, o.Fields, o.Config.Dt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg := testConfig()
	cfg.Nx = cfg.Nx * 2
	g2 := NewGrid(cfg)
	fs2 := NewFieldStore(g2, cfg)
	RegisterStandardFields(fs2)

	if err := Load(&buf, g2, fs2); err == nil {
		t.Errorf("expected Load to reject a restart file with mismatched grid dimensions")
	}
}

func TestLoadRejectsGarbageData(t *testing.T) {
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	RegisterStandardFields(fs)

	buf := bytes.NewBufferString("not a valid gob stream")
	if err := Load(buf, g, fs); err == nil {
		t.Errorf("expected Load to reject non-gob data")
	}
}
