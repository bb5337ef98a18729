package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"surakshaconnect/internal/model"
)

var ErrUnknownMessageType = errors.New("unknown message type")

// message type -> id field returned to the sender
var teamMessageIDs = map[string]struct {
	idField string
	event   model.FeedEventType
}{
	"team_message":    {"messageId", model.EventTeamMessage},
	"emergency_alert": {"alertId", model.EventEmergencyAlert},
	"location_update": {"updateId", model.EventLocationUpdate},
	"status_update":   {"statusId", model.EventStatusUpdate},
}

// Capabilities is the static description served by GET /websocket
type Capabilities struct {
	Status                string   `json:"status"`
	Message               string   `json:"message"`
	Features              []string `json:"features"`
	SupportedMessageTypes []string `json:"supportedMessageTypes"`
	FeedPath              string   `json:"feedPath"`
}

// TeamService backs the websocket placeholder endpoint
type TeamService struct {
	sanitizer   *bluemonday.Policy
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewTeamService creates a new team service
func NewTeamService(logger *slog.Logger) *TeamService {
	return &TeamService{
		sanitizer:   bluemonday.StrictPolicy(),
		broadcaster: noopBroadcaster{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster injects the live feed publisher
func (s *TeamService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	s.broadcaster = b
}

// Capabilities describes what the realtime endpoint supports
func (s *TeamService) Capabilities() Capabilities {
	return Capabilities{
		Status:  "available",
		Message: "Realtime messaging endpoint. Post messages here; subscribe to the live feed for updates.",
		Features: []string{
			"team_communication",
			"emergency_alerts",
			"location_tracking",
			"status_updates",
		},
		SupportedMessageTypes: []string{"team_message", "emergency_alert", "location_update", "status_update"},
		FeedPath:              "/v1/ws/feed",
	}
}

// HandleMessage acknowledges a message with a fresh id and republishes it on the live feed
func (s *TeamService) HandleMessage(msg model.TeamMessage) (map[string]interface{}, error) {
	kind, ok := teamMessageIDs[msg.Type]
	if !ok {
		return nil, ErrUnknownMessageType
	}

	id := uuid.NewString()
	now := s.now().UTC()

	s.broadcaster.Publish(kind.event, map[string]interface{}{
		kind.idField: id,
		"data":       s.sanitize(msg.Data),
	})
	s.logger.Debug("team message accepted", "type", msg.Type, "id", id)

	return map[string]interface{}{
		"success":    true,
		kind.idField: id,
		"timestamp":  now,
	}, nil
}

// sanitize strips markup from every string in the payload before it is
// fanned out to dashboards
func (s *TeamService) sanitize(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return s.sanitizeValue(v)
}

func (s *TeamService) sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return s.sanitizer.Sanitize(val)
	case map[string]interface{}:
		for k, item := range val {
			val[k] = s.sanitizeValue(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = s.sanitizeValue(item)
		}
		return val
	default:
		return val
	}
}
