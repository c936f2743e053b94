/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tschaefer/tether/internal/version"
)

const healthTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type healthData struct {
	Status string `json:"status"`
}

type infoData struct {
	ApplicationName string   `json:"application_name"`
	ResourceId      string   `json:"resource_id"`
	InstanceIndex   int      `json:"instance_index"`
	Platform        bool     `json:"platform"`
	Profiles        []string `json:"profiles"`
	Release         string   `json:"release"`
	Commit          string   `json:"commit"`
}

type datasourceData struct {
	Driver string `json:"driver"`
	URL    string `json:"url"`
	Origin string `json:"origin"`
}

type envData struct {
	Properties map[string]string `json:"properties"`
	Datasource datasourceData    `json:"datasource"`
}

type eventData struct {
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.makeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.database.Ping(ctx); err != nil {
		s.log(r, http.StatusServiceUnavailable, "health check failed", "error", err)
		s.makeJSON(w, http.StatusServiceUnavailable, healthData{Status: "down"})
		return
	}

	s.makeJSON(w, http.StatusOK, healthData{Status: "up"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.makeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	profiles := s.info.Profiles
	if profiles == nil {
		profiles = []string{}
	}

	s.makeJSON(w, http.StatusOK, infoData{
		ApplicationName: s.info.ApplicationName,
		ResourceId:      s.info.ResourceId,
		InstanceIndex:   s.info.InstanceIndex,
		Platform:        s.info.Platform,
		Profiles:        profiles,
		Release:         version.Release(),
		Commit:          version.Commit(),
	})
}

func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.makeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	driver, url := s.database.Diagnostics()
	s.makeJSON(w, http.StatusOK, envData{
		Properties: s.controller.Properties().All(),
		Datasource: datasourceData{
			Driver: driver,
			URL:    url,
			Origin: s.info.DatasourceOrigin,
		},
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade events connection", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	events := s.controller.SubscribeInstanceEvents()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
			status := "up"
			if err := s.database.Ping(ctx); err != nil {
				status = "down"
			}
			cancel()

			if err := conn.WriteJSON(eventData{Type: "health", Status: status}); err != nil {
				return
			}
		case event := <-events:
			if err := conn.WriteJSON(eventData{Type: event.Type}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
