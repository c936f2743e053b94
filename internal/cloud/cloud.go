/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cloud

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"
)

// App mirrors the VCAP_APPLICATION payload the platform injects into
// every application container.
type App struct {
	ApplicationID    string   `json:"application_id"`
	ApplicationName  string   `json:"application_name"`
	ApplicationURIs  []string `json:"application_uris"`
	InstanceIndex    int      `json:"instance_index"`
	SpaceName        string   `json:"space_name"`
	OrganizationName string   `json:"organization_name"`
}

// Service is a single bound service instance from VCAP_SERVICES.
type Service struct {
	Name        string      `json:"name"`
	Label       string      `json:"label"`
	Plan        string      `json:"plan"`
	Tags        []string    `json:"tags"`
	Credentials Credentials `json:"credentials"`
}

type Env struct {
	App      *App
	Services map[string][]Service
}

var (
	ErrServiceNotFound = fmt.Errorf("service not found")
)

var relationalTags = []string{"relational", "sql", "database"}
var relationalSchemes = []string{"postgres", "postgresql", "sqlite", "mysql"}

// Detected reports whether the process runs on the platform. The
// platform always sets VCAP_APPLICATION, even for apps without
// bindings.
func Detected() bool {
	return os.Getenv("VCAP_APPLICATION") != ""
}

func Current() (*Env, error) {
	slog.Debug("Reading platform environment")

	rawApp := os.Getenv("VCAP_APPLICATION")
	if rawApp == "" {
		return nil, fmt.Errorf("VCAP_APPLICATION is not set")
	}

	var app App
	if err := json.Unmarshal([]byte(rawApp), &app); err != nil {
		return nil, fmt.Errorf("failed to unmarshal VCAP_APPLICATION: %v", err)
	}

	services := make(map[string][]Service)
	if rawServices := os.Getenv("VCAP_SERVICES"); rawServices != "" {
		if err := json.Unmarshal([]byte(rawServices), &services); err != nil {
			return nil, fmt.Errorf("failed to unmarshal VCAP_SERVICES: %v", err)
		}
	}

	return &Env{
		App:      &app,
		Services: services,
	}, nil
}

func (e *Env) ServiceByName(name string) (*Service, error) {
	for _, services := range e.Services {
		for _, service := range services {
			if service.Name == name {
				return &service, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
}

func (e *Env) ServicesByLabel(label string) []Service {
	return e.Services[label]
}

func (e *Env) ServicesByTag(tag string) []Service {
	var matches []Service
	for _, services := range e.Services {
		for _, service := range services {
			if slices.Contains(service.Tags, tag) {
				matches = append(matches, service)
			}
		}
	}

	return matches
}

// DataServices returns all bindings that look like relational data
// services, judged by tags, label or the credential URI scheme.
// Bindings with an unparsable URI are skipped.
func (e *Env) DataServices() []Service {
	var matches []Service
	for _, services := range e.Services {
		for _, service := range services {
			if service.relational() {
				matches = append(matches, service)
			}
		}
	}

	return matches
}

func (s *Service) relational() bool {
	for _, tag := range relationalTags {
		if slices.Contains(s.Tags, tag) {
			return true
		}
	}

	for _, scheme := range relationalSchemes {
		if s.Label == scheme || strings.HasPrefix(s.Label, scheme+"-") {
			return true
		}
	}

	raw, ok := s.Credentials.String("uri")
	if !ok {
		return false
	}
	uri, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return slices.Contains(relationalSchemes, uri.Scheme)
}
