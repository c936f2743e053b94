/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package model

import "gorm.io/gorm"

type InstanceEvent struct {
	Type string
}

type Model struct {
	db                  *gorm.DB
	instanceEventChan   chan InstanceEvent
	instanceSubscribers []chan InstanceEvent
}

func New(db *gorm.DB) *Model {
	return &Model{
		db:                  db,
		instanceEventChan:   make(chan InstanceEvent, 100),
		instanceSubscribers: make([]chan InstanceEvent, 0),
	}
}

func (m *Model) SubscribeInstanceEvents() <-chan InstanceEvent {
	ch := make(chan InstanceEvent, 10)
	m.instanceSubscribers = append(m.instanceSubscribers, ch)
	return ch
}

func (m *Model) notifyInstanceEvent(eventType string) {
	event := InstanceEvent{Type: eventType}
	select {
	case m.instanceEventChan <- event:
	default:
	}

	for _, sub := range m.instanceSubscribers {
		select {
		case sub <- event:
		default:
		}
	}
}
