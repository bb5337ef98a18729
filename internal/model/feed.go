package model

import (
	"encoding/json"
	"time"
)

// FeedEventType identifies a live dashboard event
type FeedEventType string

const (
	EventRequestSubmitted     FeedEventType = "request_submitted"
	EventRequestStatusChanged FeedEventType = "request_status_changed"
	EventTeamMessage          FeedEventType = "team_message"
	EventEmergencyAlert       FeedEventType = "emergency_alert"
	EventLocationUpdate       FeedEventType = "location_update"
	EventStatusUpdate         FeedEventType = "status_update"
	EventStatsUpdate          FeedEventType = "stats_update"
)

// FeedEvent is the websocket envelope sent to dashboard clients
type FeedEvent struct {
	Type      FeedEventType   `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusChange is the payload of a request_status_changed event
type StatusChange struct {
	RequestID string        `json:"requestId"`
	From      RequestStatus `json:"from"`
	To        RequestStatus `json:"to"`
	Operator  string        `json:"operator,omitempty"`
}

// TeamMessage is a message posted to the websocket placeholder endpoint
type TeamMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// StatsUpdate is the periodic dashboard refresh payload
type StatsUpdate struct {
	Counts StatusCounts   `json:"counts"`
	Impact ImpactSnapshot `json:"impact"`
}
