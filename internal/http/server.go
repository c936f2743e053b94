/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tschaefer/tether/internal/controller"
	"github.com/tschaefer/tether/internal/database"
)

// Info is the static application identity served by the info
// endpoint, assembled once at startup.
type Info struct {
	ApplicationName  string
	ResourceId       string
	InstanceIndex    int
	Platform         bool
	Profiles         []string
	DatasourceOrigin string
}

type Server struct {
	controller *controller.Controller
	database   *database.Database
	info       Info
	server     *http.Server
}

func NewServer(addr string, ctrl *controller.Controller, db *database.Database, info Info) *Server {
	slog.Debug("Initializing management server", "addr", addr)

	mux := http.NewServeMux()

	s := &Server{
		controller: ctrl,
		database:   db,
		info:       info,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	secureHealth := s.securityHeaders(http.HandlerFunc(s.handleHealth))
	mux.Handle("/health", secureHealth)

	secureInfo := s.securityHeaders(s.authMiddleware(http.HandlerFunc(s.handleInfo)))
	mux.Handle("/info", secureInfo)

	secureEnv := s.securityHeaders(s.authMiddleware(http.HandlerFunc(s.handleEnv)))
	mux.Handle("/env", secureEnv)

	secureEvents := s.securityHeaders(s.authMiddleware(http.HandlerFunc(s.handleEvents)))
	mux.Handle("/events", secureEvents)

	return s
}

func (s *Server) Start() error {
	listen, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(listen); err != nil && err != http.ErrServerClosed {
			slog.Error("Management server error", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
