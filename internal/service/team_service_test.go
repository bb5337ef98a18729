package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surakshaconnect/internal/model"
)

func TestHandleMessageIDs(t *testing.T) {
	svc := NewTeamService(discardLogger())

	tests := map[string]string{
		"team_message":    "messageId",
		"emergency_alert": "alertId",
		"location_update": "updateId",
		"status_update":   "statusId",
	}
	for msgType, idField := range tests {
		t.Run(msgType, func(t *testing.T) {
			resp, err := svc.HandleMessage(model.TeamMessage{Type: msgType})
			require.NoError(t, err)
			assert.Equal(t, true, resp["success"])
			assert.NotEmpty(t, resp[idField])
		})
	}
}

func TestHandleMessageUnknownType(t *testing.T) {
	svc := NewTeamService(discardLogger())

	_, err := svc.HandleMessage(model.TeamMessage{Type: "dance_party"})
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestHandleMessageSanitizesBeforePublishing(t *testing.T) {
	svc := NewTeamService(discardLogger())
	feed := &recordingBroadcaster{}
	svc.SetBroadcaster(feed)

	data := json.RawMessage(`{"text":"<script>alert(1)</script>Need <b>water</b>","tags":["<i>urgent</i>"],"count":3}`)
	resp, err := svc.HandleMessage(model.TeamMessage{Type: "team_message", Data: data})
	require.NoError(t, err)

	events := feed.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTeamMessage, events[0].Type)

	payload := events[0].Payload.(map[string]interface{})
	assert.Equal(t, resp["messageId"], payload["messageId"])
	published := payload["data"].(map[string]interface{})
	assert.Equal(t, "Need water", published["text"])
	assert.Equal(t, []interface{}{"urgent"}, published["tags"])
	assert.Equal(t, float64(3), published["count"])
}

func TestCapabilities(t *testing.T) {
	caps := NewTeamService(discardLogger()).Capabilities()
	assert.Equal(t, "available", caps.Status)
	assert.Len(t, caps.SupportedMessageTypes, 4)
}
