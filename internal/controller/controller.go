/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package controller

import (
	"fmt"
	"log/slog"

	"github.com/tschaefer/tether/internal/model"
	"github.com/tschaefer/tether/internal/properties"
)

type Controller struct {
	properties *properties.Properties
	model      *model.Model
}

func New(m *model.Model, props *properties.Properties) *Controller {
	slog.Debug("Initializing Controller", "model", fmt.Sprintf("%T", m), "properties", fmt.Sprintf("%T", props))

	return &Controller{
		model:      m,
		properties: props,
	}
}

func (c *Controller) Properties() *properties.Properties {
	return c.properties
}
