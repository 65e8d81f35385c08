package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/internal/infrastructure/metrics"
)

// AlertAction is an operator action on an alert
type AlertAction string

const (
	ActionWaitlist AlertAction = "waitlist"
	ActionDispatch AlertAction = "dispatch"
)

// TriggerSource labels where an alert came from
type TriggerSource string

const (
	SourceREST      TriggerSource = "rest"
	SourceWebSocket TriggerSource = "websocket"
	SourceMQTT      TriggerSource = "mqtt"
)

// allowedFrom lists the statuses each action may be applied from
var allowedFrom = map[AlertAction][]models.AlertStatus{
	ActionWaitlist: {models.AlertStatusUnassigned},
	ActionDispatch: {models.AlertStatusUnassigned, models.AlertStatusWaitlist},
}

var actionTarget = map[AlertAction]models.AlertStatus{
	ActionWaitlist: models.AlertStatusWaitlist,
	ActionDispatch: models.AlertStatusDispatched,
}

// InterfaceAlertService defines the alert lifecycle
type InterfaceAlertService interface {
	TriggerAlert(ctx context.Context, terminalID string, alertType models.AlertType, source TriggerSource) (*models.Alert, error)
	UpdateAlertStatus(ctx context.Context, alertID string, action AlertAction) (*models.Alert, error)
	ListAlerts(ctx context.Context, status models.AlertStatus) ([]models.Alert, error)
	GetAlert(ctx context.Context, alertID string) (*models.Alert, error)
	ListMapAlerts(ctx context.Context, status models.AlertStatus) ([]models.AlertView, error)
}

// AlertService drives alerts from creation to dispatch
type AlertService struct {
	store  repository.Store
	cache  InterfaceCacheService
	views  *viewBuilder
	events *broadcaster
	logger *zap.Logger
	now    func() time.Time
}

// NewAlertService 创建警报服务. Events are published on their own goroutine
// after commit; pass a synchronous Runner to deliver them inline.
func NewAlertService(store repository.Store, cache InterfaceCacheService, publisher Publisher, run Runner, logger *zap.Logger) InterfaceAlertService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if run == nil {
		run = GoRunner
	}
	logger = logger.Named("alert")
	views := &viewBuilder{store: store}
	return &AlertService{
		store:  store,
		cache:  cache,
		views:  views,
		events: &broadcaster{publisher: publisher, views: views, run: run, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// 1 TriggerAlert creates an Unassigned alert for an existing terminal and
// announces it on the live and map feeds.
func (s *AlertService) TriggerAlert(ctx context.Context, terminalID string, alertType models.AlertType, source TriggerSource) (*models.Alert, error) {
	if strings.TrimSpace(terminalID) == "" {
		return nil, fmt.Errorf("%w: terminal id is required", ErrValidation)
	}
	if !alertType.IsValid() {
		return nil, fmt.Errorf("%w: unknown alert type %q", ErrValidation, alertType)
	}

	var created models.Alert
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		term, err := repos.Terminals.FindByID(ctx, terminalID)
		if err != nil {
			return notFound(err, "terminal", terminalID)
		}
		if term.Archived {
			return fmt.Errorf("%w: terminal %s is archived", ErrPreconditionFailed, terminalID)
		}

		id, err := nextID(ctx, repos, alertType.IDPrefix())
		if err != nil {
			return err
		}
		created = models.Alert{
			ID:           id,
			TerminalID:   terminalID,
			AlertType:    alertType,
			Status:       models.AlertStatusUnassigned,
			DateTimeSent: s.now(),
		}
		return repos.Alerts.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagAlerts)
	metrics.AlertsCreated.WithLabelValues(string(alertType), string(source)).Inc()
	s.logger.Info("alert created",
		zap.String("alert_id", created.ID),
		zap.String("terminal_id", terminalID),
		zap.String("alert_type", string(alertType)),
		zap.String("source", string(source)))

	s.events.alertEvent(created, "", EventLiveReport, EventMapReport)
	return &created, nil
}

// 2 UpdateAlertStatus applies an operator action. Both actions require a
// rescue form for the alert.
func (s *AlertService) UpdateAlertStatus(ctx context.Context, alertID string, action AlertAction) (*models.Alert, error) {
	target, ok := actionTarget[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q, expected waitlist or dispatch", ErrValidation, action)
	}

	var (
		updated  models.Alert
		previous models.AlertStatus
	)
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		alert, err := repos.Alerts.FindByID(ctx, alertID)
		if err != nil {
			return notFound(err, "alert", alertID)
		}
		if !statusIn(alert.Status, allowedFrom[action]) {
			return fmt.Errorf("%w: cannot %s an alert in status %s", ErrPreconditionFailed, action, alert.Status)
		}
		if _, err := repos.RescueForms.FindByAlertID(ctx, alertID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: alert %s has no rescue form", ErrPreconditionFailed, alertID)
			}
			return err
		}

		previous = alert.Status
		alert.Status = target
		if err := repos.Alerts.Update(ctx, alert); err != nil {
			return err
		}
		updated = *alert
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagAlerts)
	metrics.AlertTransitions.WithLabelValues(string(target)).Inc()
	s.logger.Info("alert status updated",
		zap.String("alert_id", alertID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))

	s.events.alertEvent(updated, previous, EventAlertStatusUpdated)
	return &updated, nil
}

func statusIn(s models.AlertStatus, set []models.AlertStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// 3 ListAlerts 获取警报列表，status为空时返回全部
func (s *AlertService) ListAlerts(ctx context.Context, status models.AlertStatus) ([]models.Alert, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown alert status %q", ErrValidation, status)
	}
	return remember(ctx, s.cache, alertListKey(status), TTLAlerts, alertTags, func() ([]models.Alert, error) {
		return s.store.Repositories().Alerts.List(ctx, status)
	})
}

// 4 GetAlert 获取警报详情
func (s *AlertService) GetAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	return remember(ctx, s.cache, alertKey(alertID), TTLAlerts, alertTags, func() (*models.Alert, error) {
		alert, err := s.store.Repositories().Alerts.FindByID(ctx, alertID)
		if err != nil {
			return nil, notFound(err, "alert", alertID)
		}
		return alert, nil
	})
}

// 5 ListMapAlerts returns alerts joined with terminal, group and focal person data for the map
func (s *AlertService) ListMapAlerts(ctx context.Context, status models.AlertStatus) ([]models.AlertView, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown alert status %q", ErrValidation, status)
	}
	return remember(ctx, s.cache, mapAlertsKey(status), TTLMapAlerts, mapAlertTags, func() ([]models.AlertView, error) {
		alerts, err := s.store.Repositories().Alerts.List(ctx, status)
		if err != nil {
			return nil, err
		}
		return s.views.alertViews(ctx, alerts)
	})
}
