/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Instance struct {
	ID               uint       `gorm:"primarykey" json:"-"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
	ResourceId       string     `gorm:"not null;unique;uniqueIndex:uidx_instances_resource_id" json:"resource_id"`
	Hostname         string     `gorm:"not null" json:"hostname"`
	ApplicationName  string     `gorm:"not null" json:"application_name"`
	InstanceIndex    int        `gorm:"not null;default:0" json:"instance_index"`
	Profiles         []string   `gorm:"not null;default:'[]';serializer:json" json:"profiles"`
	DatasourceOrigin string     `gorm:"not null" json:"datasource_origin"`
	StartedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"started_at"`
	LastSeen         *time.Time `gorm:"default:NULL" json:"last_seen"`
}

var (
	ErrInstanceNotFound = errors.New("instance not found")
)

func (m *Model) RegisterInstance(instance *Instance) (*Instance, error) {
	if err := m.db.Create(instance).Error; err != nil {
		return nil, err
	}

	m.notifyInstanceEvent("register")
	return instance, nil
}

func (m *Model) GetInstance(instance *Instance) (*Instance, error) {
	if err := m.db.Where(instance).First(instance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}

	return instance, nil
}

func (m *Model) ListInstances(instances *[]Instance) (*[]Instance, error) {
	if err := m.db.Find(instances).Error; err != nil {
		return nil, err
	}

	return instances, nil
}

func (m *Model) TouchInstance(instance *Instance) (*Instance, error) {
	now := time.Now()
	instance.LastSeen = &now

	if err := m.db.Save(instance).Error; err != nil {
		return nil, err
	}

	m.notifyInstanceEvent("touch")
	return instance, nil
}

func (m *Model) DeregisterInstance(instance *Instance) error {
	if err := m.db.Delete(instance).Error; err != nil {
		return err
	}

	m.notifyInstanceEvent("deregister")
	return nil
}
