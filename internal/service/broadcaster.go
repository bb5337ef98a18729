package service

import "surakshaconnect/internal/model"

// Broadcaster pushes events to live dashboard clients (avoids import cycle
// with the websocket transport)
type Broadcaster interface {
	Publish(eventType model.FeedEventType, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Publish(model.FeedEventType, interface{}) {}
