package services

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
)

// 实时事件
const (
	TopicAllAlerts          = "alerts:all"
	EventLiveReport         = "liveReport:new"
	EventMapReport          = "mapReport:new"
	EventAlertStatusUpdated = "alertStatusUpdated"
)

// TerminalTopic returns the per-terminal topic
func TerminalTopic(terminalID string) string {
	return "terminal:" + terminalID
}

// Publisher delivers lifecycle events to subscribed operator sessions.
// Publish must not block.
type Publisher interface {
	Publish(topic, event string, payload interface{})
}

// NoopPublisher discards every event
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(string, string, interface{}) {}

// Runner executes fire-and-forget work after a transaction has committed.
type Runner func(func())

// GoRunner runs each job on its own goroutine
func GoRunner(job func()) { go job() }

// AlertEvent is the payload of every alert event
type AlertEvent struct {
	models.AlertView
	PreviousStatus models.AlertStatus `json:"previous_status,omitempty"`
}

// broadcaster builds denormalised payloads after commit and fans them out to
// the global feed and the terminal feed.
type broadcaster struct {
	publisher Publisher
	views     *viewBuilder
	run       Runner
	logger    *zap.Logger
}

func (b *broadcaster) alertEvent(alert models.Alert, previous models.AlertStatus, events ...string) {
	b.run(func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("broadcast panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		view, err := b.views.alertView(ctx, alert)
		if err != nil {
			b.logger.Warn("denormalising alert for broadcast failed, sending bare alert",
				zap.String("alert_id", alert.ID), zap.Error(err))
			view = models.AlertView{
				AlertID:      alert.ID,
				AlertType:    alert.AlertType,
				Status:       alert.Status,
				DateTimeSent: alert.DateTimeSent,
				TerminalID:   alert.TerminalID,
			}
		}
		payload := AlertEvent{AlertView: view, PreviousStatus: previous}
		for _, event := range events {
			b.publisher.Publish(TopicAllAlerts, event, payload)
			b.publisher.Publish(TerminalTopic(alert.TerminalID), event, payload)
		}
	})
}
