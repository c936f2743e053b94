/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package profiler

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/tschaefer/tether/internal/properties"
)

type Profiler interface {
	Run() error
	Stop()
	Enabled() bool
}

type profiler struct {
	instance *pyroscope.Profiler
	config   pyroscope.Config
	enabled  bool
}

func New(props *properties.Properties, logging bool) Profiler {
	address := props.Management().Profiler
	slog.Debug("Initializing Pyroscope profiler", "serverAddress", address, "logging", logging)

	var logger pyroscope.Logger
	if logging {
		logger = pyroscope.StandardLogger
	}

	cfg := pyroscope.Config{
		ApplicationName: "tether",
		ServerAddress:   address,
		Logger:          logger,
		Tags:            map[string]string{"hostname": os.Getenv("HOSTNAME")},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	}
	return &profiler{config: cfg, enabled: address != ""}
}

func (p *profiler) Enabled() bool {
	return p.enabled
}

func (p *profiler) Run() error {
	if !p.enabled {
		return nil
	}

	slog.Debug("Starting Pyroscope profiler", "config", p.config)

	runtime.SetMutexProfileFraction(5)
	runtime.SetBlockProfileRate(5)

	instance, err := pyroscope.Start(p.config)
	p.instance = instance

	return err
}

func (p *profiler) Stop() {
	slog.Debug("Stopping Pyroscope profiler")
	if p.instance != nil {
		_ = p.instance.Stop()
	}
}
