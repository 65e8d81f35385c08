package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/infrastructure/config"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newIngest(f *fixture) *MQTTIngestService {
	cfg := &config.Config{MQTTTopicPrefix: "resqwave/terminal", MQTTClientID: "test", MQTTQoS: 1}
	return NewMQTTIngestService(cfg, f.alerts, f.terminals, zap.NewNop())
}

func TestParseTerminalTopic(t *testing.T) {
	tests := []struct {
		topic    string
		wantID   string
		wantKind string
		wantOK   bool
	}{
		{"resqwave/terminal/T001/alert", "T001", "alert", true},
		{"resqwave/terminal/T042/status", "T042", "status", true},
		{"resqwave/terminal//alert", "", "", false},
		{"resqwave/terminal/T001", "", "", false},
		{"resqwave/terminal/T001/alert/extra", "", "", false},
		{"other/terminal/T001/alert", "", "", false},
	}
	for _, tt := range tests {
		id, kind, ok := parseTerminalTopic("resqwave/terminal", tt.topic)
		assert.Equal(t, tt.wantOK, ok, tt.topic)
		assert.Equal(t, tt.wantID, id, tt.topic)
		assert.Equal(t, tt.wantKind, kind, tt.topic)
	}
}

func TestParseAlertType(t *testing.T) {
	for in, want := range map[string]models.AlertType{
		"Critical":       models.AlertTypeCritical,
		"critical":       models.AlertTypeCritical,
		"User-Initiated": models.AlertTypeUserInitiated,
		"user":           models.AlertTypeUserInitiated,
	} {
		got, ok := parseAlertType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseAlertType("flood")
	assert.False(t, ok)
}

func TestMQTTAlertTriggersAlert(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Sensor Node")
	ingest := newIngest(f)

	ingest.handleAlert(nil, fakeMessage{topic: "resqwave/terminal/" + term.ID + "/alert", payload: []byte(`{"alert_type":"critical"}`)})
	ingest.handleAlert(nil, fakeMessage{topic: "resqwave/terminal/" + term.ID + "/alert", payload: []byte(`not json`)})
	ingest.handleAlert(nil, fakeMessage{topic: "resqwave/terminal/T404/alert", payload: []byte(`{"alert_type":"Critical"}`)})

	alerts, err := f.alerts.ListAlerts(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeCritical, alerts[0].AlertType)
	assert.Equal(t, term.ID, alerts[0].TerminalID)
	assert.Len(t, f.publisher.on(TerminalTopic(term.ID)), 2)
}

func TestMQTTStatusUpdatesTerminal(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Sensor Node")
	require.Equal(t, models.TerminalStatusOffline, term.Status)
	ingest := newIngest(f)

	ingest.handleStatus(nil, fakeMessage{topic: "resqwave/terminal/" + term.ID + "/status", payload: []byte(`{"status":"ONLINE"}`)})
	got, err := f.terminals.GetTerminal(f.ctx, term.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TerminalStatusOnline, got.Status)

	ingest.handleStatus(nil, fakeMessage{topic: "resqwave/terminal/" + term.ID + "/status", payload: []byte(`{"status":"sleeping"}`)})
	got, err = f.terminals.GetTerminal(f.ctx, term.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TerminalStatusOnline, got.Status)
}
