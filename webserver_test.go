/*
Copyright (C) 2013-2014 Regents of the University of Minnesota.
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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestStatusServerBroadcastsToConnectedClient(t *testing.T) {
	s := NewStatusServer()
	srv := httptest.NewServer(http.HandlerFunc(s.Handler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing status server: %v", err)
	}
	defer conn.Close()

	// Handler registers the connection only after the upgrade response has
	// been written, so Dial can return before registration; give the server
	// goroutine a moment to register it before broadcasting.
	for tries := 0; tries < 100; tries++ {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.Broadcast(Status{Iteration: 7, Day: 1.5, Mass: 42, Timestamp: "2026-01-01T00:00:00Z"})

	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast message: %v", err)
	}
	var got Status
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if got.Iteration != 7 || got.Mass != 42 {
		t.Errorf("got status %+v, want Iteration=7 Mass=42", got)
	}
}

func TestStepBroadcasterIncrementsIteration(t *testing.T) {
	s := NewStatusServer()
	kernel := StepBroadcaster(s)
	cfg := testConfig()
	g := NewGrid(cfg)
	fs := NewFieldStore(g, cfg)
	RegisterStandardFields(fs)
	seedRestingAtmosphere(g, fs)

	for i := 0; i < 3; i++ {
		if err := kernel(g, fs, cfg.Dt); err != nil {
			t.Fatalf("StepBroadcaster kernel: %v", err)
		}
	}
}
