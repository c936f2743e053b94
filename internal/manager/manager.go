/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tschaefer/tether/internal/cloud"
	"github.com/tschaefer/tether/internal/controller"
	"github.com/tschaefer/tether/internal/database"
	"github.com/tschaefer/tether/internal/datasource"
	httpserver "github.com/tschaefer/tether/internal/http"
	"github.com/tschaefer/tether/internal/model"
	"github.com/tschaefer/tether/internal/profiler"
	"github.com/tschaefer/tether/internal/properties"
	"github.com/tschaefer/tether/internal/version"
)

const shutdownTimeout = 10 * time.Second

type Manager struct {
	properties *properties.Properties
	env        *cloud.Env
	source     *datasource.Source
	database   *database.Database
	model      *model.Model
	controller *controller.Controller
	profiler   profiler.Profiler
	instance   *model.Instance
}

func New(propertiesFile string) (*Manager, error) {
	slog.Debug("Initializing Manager", "propertiesFile", propertiesFile)

	props, err := properties.Load(propertiesFile)
	if err != nil {
		return nil, err
	}

	var env *cloud.Env
	if cloud.Detected() {
		env, err = cloud.Current()
		if err != nil {
			return nil, err
		}
	}

	source, err := datasource.Resolve(props, env)
	if err != nil {
		return nil, err
	}
	if source.Origin == datasource.OriginEmbedded {
		slog.Warn("No datasource configured, falling back to embedded in-memory database")
	}

	db, err := database.New(source)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	m := model.New(db.Connection())
	ctrl := controller.New(m, props)

	return &Manager{
		properties: props,
		env:        env,
		source:     source,
		database:   db,
		model:      m,
		controller: ctrl,
		profiler:   profiler.New(props, false),
	}, nil
}

// Source returns the resolved datasource.
func (m *Manager) Source() *datasource.Source {
	return m.source
}

func (m *Manager) Run(ctx context.Context, listenAddr string) {
	slog.Debug("Running Manager", "listenAddr", listenAddr)

	if listenAddr == "" {
		listenAddr = m.properties.Management().ListenAddress
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if err := m.profiler.Run(); err != nil {
		slog.Warn("Failed to start Pyroscope profiler", "error", err)
	}

	slog.Info("Starting tether", "release", version.Release(), "commit", version.Commit())
	fmt.Fprintln(os.Stderr, m.source.String())

	if err := m.register(); err != nil {
		slog.Error("Failed to register instance", "error", err)
		os.Exit(1)
	}

	server := httpserver.NewServer(listenAddr, m.controller, m.database, m.serverInfo())
	if err := server.Start(); err != nil {
		slog.Error("Failed to start management server", "error", err)
		os.Exit(1)
	}
	slog.Info("Listening on " + listenAddr)

	select {
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("Shutting down...")

	m.deregister()
	m.profiler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		slog.Error("Failed to stop management server", "error", err)
	}

	if err := m.database.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
	slog.Info("Stopped")
}

func (m *Manager) register() error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	applicationName := "tether"
	instanceIndex := 0
	if m.env != nil {
		applicationName = m.env.App.ApplicationName
		instanceIndex = m.env.App.InstanceIndex
	}

	instance := &model.Instance{
		ResourceId:       uuid.NewString(),
		Hostname:         hostname,
		ApplicationName:  applicationName,
		InstanceIndex:    instanceIndex,
		Profiles:         m.properties.ActiveProfiles(),
		DatasourceOrigin: string(m.source.Origin),
		StartedAt:        time.Now(),
	}

	instance, err = m.model.RegisterInstance(instance)
	if err != nil {
		return err
	}

	m.instance = instance
	slog.Info("Registered instance", "resource_id", instance.ResourceId, "application", applicationName)

	return nil
}

func (m *Manager) deregister() {
	if m.instance == nil {
		return
	}

	if err := m.model.DeregisterInstance(m.instance); err != nil {
		slog.Error("Failed to deregister instance", "error", err)
		return
	}

	slog.Info("Deregistered instance", "resource_id", m.instance.ResourceId)
}

func (m *Manager) serverInfo() httpserver.Info {
	info := httpserver.Info{
		Platform:         m.env != nil,
		Profiles:         m.properties.ActiveProfiles(),
		DatasourceOrigin: string(m.source.Origin),
	}

	if m.instance != nil {
		info.ApplicationName = m.instance.ApplicationName
		info.ResourceId = m.instance.ResourceId
		info.InstanceIndex = m.instance.InstanceIndex
	}

	return info
}
