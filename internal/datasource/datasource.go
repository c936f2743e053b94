/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package datasource

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tschaefer/tether/internal/cloud"
	"github.com/tschaefer/tether/internal/properties"
)

// Origin records which layer produced the effective datasource.
type Origin string

const (
	OriginProperties Origin = "properties"
	OriginBinding    Origin = "binding"
	OriginEmbedded   Origin = "embedded"
)

type Source struct {
	Driver   string
	URL      string
	Username string
	Password string
	Pool     properties.Pool
	Origin   Origin
	Service  string
}

var (
	ErrAmbiguousBinding = errors.New("multiple relational bindings")
	ErrNotRelational    = errors.New("binding is not a relational data service")
)

// Resolve determines the effective datasource. Explicit datasource
// properties win over service bindings, a single relational binding
// wins over the embedded fallback. env may be nil outside the
// platform.
func Resolve(props *properties.Properties, env *cloud.Env) (*Source, error) {
	ds := props.Datasource()

	if ds.URL != "" {
		source, err := fromProperties(ds)
		if err != nil {
			return nil, err
		}

		slog.Debug("Resolved datasource from properties", "driver", source.Driver, "url", source.Redacted())
		return source, nil
	}

	if env != nil {
		source, err := fromBinding(ds, env)
		if err != nil {
			return nil, err
		}
		if source != nil {
			slog.Debug("Resolved datasource from binding", "service", source.Service, "driver", source.Driver)
			return source, nil
		}
	}

	slog.Debug("Resolved embedded fallback datasource")
	return &Source{
		Driver: "sqlite",
		URL:    "sqlite://:memory:",
		Pool:   ds.Pool,
		Origin: OriginEmbedded,
	}, nil
}

func fromProperties(ds properties.Datasource) (*Source, error) {
	driver := ds.Driver
	if driver == "" {
		var err error
		driver, err = driverForURL(ds.URL)
		if err != nil {
			return nil, err
		}
	}

	return &Source{
		Driver:   driver,
		URL:      ds.URL,
		Username: ds.Username,
		Password: ds.Password,
		Pool:     ds.Pool,
		Origin:   OriginProperties,
	}, nil
}

func fromBinding(ds properties.Datasource, env *cloud.Env) (*Source, error) {
	var service *cloud.Service

	if ds.ServiceName != "" {
		named, err := env.ServiceByName(ds.ServiceName)
		if err != nil {
			return nil, err
		}

		candidates := env.DataServices()
		found := false
		for _, candidate := range candidates {
			if candidate.Name == named.Name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNotRelational, named.Name)
		}

		service = named
	} else {
		candidates := env.DataServices()
		switch len(candidates) {
		case 0:
			return nil, nil
		case 1:
			service = &candidates[0]
		default:
			names := make([]string, len(candidates))
			for i, candidate := range candidates {
				names[i] = candidate.Name
			}
			return nil, fmt.Errorf("%w, set datasource.service-name to one of: %s",
				ErrAmbiguousBinding, strings.Join(names, ", "))
		}
	}

	uri, ok := service.Credentials.URI()
	if !ok {
		return nil, fmt.Errorf("binding %s has no connection URI", service.Name)
	}

	driver, err := driverForURL(uri)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %v", service.Name, err)
	}

	username, password, uri := splitUserinfo(uri)
	if value, ok := service.Credentials.Username(); ok {
		username = value
	}
	if value, ok := service.Credentials.Password(); ok && value != "" {
		password = value
	}

	return &Source{
		Driver:   driver,
		URL:      uri,
		Username: username,
		Password: password,
		Pool:     ds.Pool,
		Origin:   OriginBinding,
		Service:  service.Name,
	}, nil
}

func driverForURL(raw string) (string, error) {
	uri, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid datasource URL %s: %v", raw, err)
	}

	switch uri.Scheme {
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite":
		return "sqlite", nil
	}

	return "", fmt.Errorf("unsupported datasource scheme: %s", uri.Scheme)
}

func splitUserinfo(raw string) (string, string, string) {
	uri, err := url.Parse(raw)
	if err != nil || uri.User == nil {
		return "", "", raw
	}

	username := uri.User.Username()
	password, _ := uri.User.Password()
	uri.User = nil

	return username, password, uri.String()
}

// String renders the canonical diagnostic line, driver and URL with
// user info stripped.
func (s *Source) String() string {
	return fmt.Sprintf("%s, %s", s.Driver, s.Redacted())
}

// Redacted returns the connection URL without user info.
func (s *Source) Redacted() string {
	_, _, stripped := splitUserinfo(s.URL)
	return stripped
}
