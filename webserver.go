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
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// StatusServer pushes a JSON status snapshot over a websocket connection
// after every step, following the teacher's webserver.go live-map pattern
// generalized from rendering map tiles to pushing a small numeric summary --
// this core has no geographic geometry to tile, just a regular grid, so the
// browser-facing payload is a status line rather than a map.
type StatusServer struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// Status is one snapshot pushed to every connected client.
type Status struct {
	Iteration int     `json:"iteration"`
	Day       float64 `json:"day"`
	Mass      float64 `json:"mass_kg"`
	Timestamp string  `json:"timestamp"`
}

// NewStatusServer builds a StatusServer. Origin checking is disabled on the
// websocket upgrader because this is intended for trusted local network
// monitoring, not a public deployment.
func NewStatusServer() *StatusServer {
	return &StatusServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logrus.StandardLogger(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handler upgrades an HTTP request to a websocket and registers the
// connection to receive future Broadcast calls.
func (s *StatusServer) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("status server: upgrade failed")
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.log.WithField("remote", r.RemoteAddr).Info("status server: client connected")
}

// Broadcast sends st to every connected client, dropping any connection
// that errors on write.
func (s *StatusServer) Broadcast(st Status) {
	payload, err := json.Marshal(st)
	if err != nil {
		s.log.WithError(err).Warn("status server: marshal failed")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// StepBroadcaster returns a Kernel that broadcasts a Status snapshot on s
// after every step, for appending to an Orchestrator's step sequence the
// same way Log is appended.
func StepBroadcaster(s *StatusServer) Kernel {
	iteration := 0
	daysRun := 0.0
	return func(g *Grid, fs *FieldStore, dt float64) error {
		iteration++
		daysRun += dt * daysPerSecond
		s.Broadcast(Status{
			Iteration: iteration,
			Day:       daysRun,
			Mass:      TotalAtmosphericMass(g, fs),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return nil
	}
}

// ListenAndServe registers the websocket handler at /status and blocks
// serving HTTP on addr.
func (s *StatusServer) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.Handler)
	s.log.WithField("addr", addr).Info("status server: listening")
	return http.ListenAndServe(addr, mux)
}
