/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

func (s *Server) log(r *http.Request, status int, msg string, args ...any) {
	remoteAddr := ""
	for _, h := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		if v := r.Header.Get(h); v != "" {
			remoteAddr = v
			break
		}
	}
	if remoteAddr == "" {
		remoteAddr = r.RemoteAddr
		for i := len(remoteAddr) - 1; i >= 0; i-- {
			if remoteAddr[i] == ':' {
				remoteAddr = remoteAddr[:i]
				break
			}
		}
	}

	level := slog.LevelInfo
	if status >= http.StatusBadRequest {
		level = slog.LevelWarn
	}

	args = append(args,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"remote_addr", remoteAddr,
		"user_agent", r.Header.Get("User-Agent"))

	slog.Log(context.Background(), level, msg, args...)
}

func (s *Server) makeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) makeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
