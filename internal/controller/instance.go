/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package controller

import (
	"errors"

	"github.com/tschaefer/tether/internal/model"
)

var (
	ErrInstanceNotFound = errors.New("instance not found")
)

func (c *Controller) GetInstance(resourceId string) (*model.Instance, error) {
	instance := &model.Instance{ResourceId: resourceId}

	instance, err := c.model.GetInstance(instance)
	if err != nil {
		if errors.Is(err, model.ErrInstanceNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}

	return instance, nil
}

func (c *Controller) ListInstances() ([]model.Instance, error) {
	var instances []model.Instance
	if _, err := c.model.ListInstances(&instances); err != nil {
		return nil, err
	}

	return instances, nil
}

func (c *Controller) SubscribeInstanceEvents() <-chan model.InstanceEvent {
	return c.model.SubscribeInstanceEvents()
}
