package service

import "ieltsprep/internal/model"

// Broadcaster pushes messages to websocket subscribers of a class (avoids
// an import cycle with the ws package)
type Broadcaster interface {
	BroadcastToClass(classID string, role model.Role, msgType string, payload interface{})
	// ActiveClasses lists classes with at least one subscriber
	ActiveClasses() []string
}

// ClassNotifier is told when something a class snapshot shows has changed
// outside the assignments collection
type ClassNotifier interface {
	Notify(classID string)
}

// NopNotifier ignores notifications
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
