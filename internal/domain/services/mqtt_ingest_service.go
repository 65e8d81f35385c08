package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/infrastructure/config"
	"resqwave-dispatch-service/internal/infrastructure/metrics"
)

// 终端上报的消息类别
const (
	terminalKindAlert  = "alert"
	terminalKindStatus = "status"
)

// TerminalAlertMessage 终端报警消息 {prefix}/{id}/alert
type TerminalAlertMessage struct {
	AlertType string `json:"alert_type"`
}

// TerminalStatusMessage 终端心跳消息 {prefix}/{id}/status
type TerminalStatusMessage struct {
	Status string `json:"status"`
}

// MQTTIngestService subscribes to terminal topics and turns sensor triggers
// into alerts and heartbeats into terminal status.
type MQTTIngestService struct {
	cfg       *config.Config
	alerts    InterfaceAlertService
	terminals InterfaceTerminalService
	logger    *zap.Logger

	// NewClient builds the paho client; tests replace it.
	NewClient func(opts *mqtt.ClientOptions) mqtt.Client
}

// NewMQTTIngestService 创建MQTT终端接入服务
func NewMQTTIngestService(cfg *config.Config, alerts InterfaceAlertService, terminals InterfaceTerminalService, logger *zap.Logger) *MQTTIngestService {
	return &MQTTIngestService{
		cfg:       cfg,
		alerts:    alerts,
		terminals: terminals,
		logger:    logger.Named("mqtt"),
		NewClient: mqtt.NewClient,
	}
}

// String names the service in supervisor logs
func (s *MQTTIngestService) String() string {
	return "mqtt-ingest"
}

// Serve connects to the broker and blocks until ctx is cancelled. A failed
// connect is returned so the supervisor restarts the service with backoff.
func (s *MQTTIngestService) Serve(ctx context.Context) error {
	client := s.NewClient(s.clientOptions())

	token := client.Connect()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect mqtt broker %s: %w", s.cfg.MQTTBrokerURL, err)
	}

	<-ctx.Done()
	client.Disconnect(250)
	s.logger.Info("mqtt ingest stopped")
	return ctx.Err()
}

func (s *MQTTIngestService) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", s.cfg.MQTTClientID, uuid.NewString()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(false)
	if s.cfg.MQTTUsername != "" {
		opts.SetUsername(s.cfg.MQTTUsername)
		opts.SetPassword(s.cfg.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.logger.Warn("mqtt connection lost", zap.Error(err))
	})
	// 重连后需要重新订阅
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.logger.Info("mqtt connected", zap.String("broker", s.cfg.MQTTBrokerURL))
		if err := s.subscribe(c); err != nil {
			s.logger.Error("mqtt subscribe failed", zap.Error(err))
		}
	})
	return opts
}

func (s *MQTTIngestService) subscribe(c mqtt.Client) error {
	qos := byte(s.cfg.MQTTQoS)
	handlers := map[string]mqtt.MessageHandler{
		s.cfg.MQTTTopicPrefix + "/+/" + terminalKindAlert:  s.handleAlert,
		s.cfg.MQTTTopicPrefix + "/+/" + terminalKindStatus: s.handleStatus,
	}
	for topic, handler := range handlers {
		if token := c.Subscribe(topic, qos, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		s.logger.Info("mqtt subscribed", zap.String("topic", topic))
	}
	return nil
}

// parseTerminalTopic extracts the terminal id and message kind from
// {prefix}/{terminalID}/{kind}.
func parseTerminalTopic(prefix, topic string) (terminalID, kind string, ok bool) {
	rest, found := strings.CutPrefix(topic, prefix+"/")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseAlertType accepts the canonical names and the short forms terminals send.
func parseAlertType(s string) (models.AlertType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return models.AlertTypeCritical, true
	case "user-initiated", "user_initiated", "user":
		return models.AlertTypeUserInitiated, true
	}
	return "", false
}

func (s *MQTTIngestService) recoverHandler(topic string) {
	if r := recover(); r != nil {
		s.logger.Error("mqtt handler panicked",
			zap.String("topic", topic), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
	}
}

func (s *MQTTIngestService) handleAlert(_ mqtt.Client, msg mqtt.Message) {
	defer s.recoverHandler(msg.Topic())

	terminalID, _, ok := parseTerminalTopic(s.cfg.MQTTTopicPrefix, msg.Topic())
	if !ok {
		s.reject(terminalKindAlert, msg, "malformed topic")
		return
	}
	var body TerminalAlertMessage
	if err := json.Unmarshal(msg.Payload(), &body); err != nil {
		s.reject(terminalKindAlert, msg, "invalid json")
		return
	}
	alertType, ok := parseAlertType(body.AlertType)
	if !ok {
		s.reject(terminalKindAlert, msg, "unknown alert type")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	alert, err := s.alerts.TriggerAlert(ctx, terminalID, alertType, SourceMQTT)
	if err != nil {
		metrics.MQTTMessages.WithLabelValues(terminalKindAlert, outcomeOf(err)).Inc()
		s.logger.Warn("terminal alert rejected",
			zap.String("terminal_id", terminalID), zap.Error(err))
		return
	}
	metrics.MQTTMessages.WithLabelValues(terminalKindAlert, "accepted").Inc()
	s.logger.Info("terminal alert accepted",
		zap.String("terminal_id", terminalID), zap.String("alert_id", alert.ID))
}

func (s *MQTTIngestService) handleStatus(_ mqtt.Client, msg mqtt.Message) {
	defer s.recoverHandler(msg.Topic())

	terminalID, _, ok := parseTerminalTopic(s.cfg.MQTTTopicPrefix, msg.Topic())
	if !ok {
		s.reject(terminalKindStatus, msg, "malformed topic")
		return
	}
	var body TerminalStatusMessage
	if err := json.Unmarshal(msg.Payload(), &body); err != nil {
		s.reject(terminalKindStatus, msg, "invalid json")
		return
	}
	status := models.TerminalStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	if !status.IsValid() {
		s.reject(terminalKindStatus, msg, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.terminals.SetTerminalStatus(ctx, terminalID, status); err != nil {
		metrics.MQTTMessages.WithLabelValues(terminalKindStatus, outcomeOf(err)).Inc()
		s.logger.Warn("terminal status rejected",
			zap.String("terminal_id", terminalID), zap.Error(err))
		return
	}
	metrics.MQTTMessages.WithLabelValues(terminalKindStatus, "accepted").Inc()
}

func (s *MQTTIngestService) reject(kind string, msg mqtt.Message, reason string) {
	metrics.MQTTMessages.WithLabelValues(kind, "invalid").Inc()
	s.logger.Warn("mqtt message dropped",
		zap.String("topic", msg.Topic()), zap.String("reason", reason))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "unknown_terminal"
	case errors.Is(err, ErrPreconditionFailed):
		return "rejected"
	}
	return "error"
}
