package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
)

// 报表日期格式
const reportDateLayout = "2006-01-02"

// RescueFormInput is the on-scene assessment submitted by a dispatcher
type RescueFormInput struct {
	FocalUnreachable    bool   `json:"focal_unreachable"`
	WaterLevel          string `json:"water_level"`
	UrgencyOfEvacuation string `json:"urgency_of_evacuation"`
	HazardPresent       string `json:"hazard_present"`
	Accessibility       string `json:"accessibility"`
	ResourceNeeds       string `json:"resource_needs"`
	OtherInformation    string `json:"other_information"`
}

// validate 焦点人员可联系时，评估字段必须全部填写
func (in RescueFormInput) validate() error {
	if in.FocalUnreachable {
		return nil
	}
	var missing []string
	for name, v := range map[string]string{
		"water_level":           in.WaterLevel,
		"urgency_of_evacuation": in.UrgencyOfEvacuation,
		"hazard_present":        in.HazardPresent,
		"accessibility":         in.Accessibility,
		"resource_needs":        in.ResourceNeeds,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// PostRescueFormInput is the completion record of a dispatched rescue
type PostRescueFormInput struct {
	NoOfPersonnelDeployed int    `json:"no_of_personnel_deployed" binding:"gte=0"`
	ResourcesUsed         string `json:"resources_used"`
	ActionTaken           string `json:"action_taken"`
}

// InterfaceRescueService defines rescue form and report operations
type InterfaceRescueService interface {
	CreateRescueForm(ctx context.Context, alertID, dispatcherID string, input RescueFormInput) (*models.RescueForm, error)
	CreatePostRescueForm(ctx context.Context, alertID string, input PostRescueFormInput) (*models.PostRescueForm, error)
	ListRescueForms(ctx context.Context) ([]models.RescueForm, error)
	GetRescueForm(ctx context.Context, id string) (*models.RescueForm, error)
	PendingReports(ctx context.Context) ([]models.ReportEntry, error)
	CompletedReports(ctx context.Context) ([]models.ReportEntry, error)
	AggregatedReports(ctx context.Context, from, to string) ([]models.AggregatedReport, error)
}

// RescueService files rescue forms and builds the report views
type RescueService struct {
	store  repository.Store
	cache  InterfaceCacheService
	views  *viewBuilder
	logger *zap.Logger
	now    func() time.Time
}

// NewRescueService 创建救援表单服务
func NewRescueService(store repository.Store, cache InterfaceCacheService, logger *zap.Logger) InterfaceRescueService {
	return &RescueService{
		store:  store,
		cache:  cache,
		views:  &viewBuilder{store: store},
		logger: logger.Named("rescue"),
		now:    time.Now,
	}
}

// 1 CreateRescueForm files the assessment for an alert. The sequence row is
// locked before the existence check so concurrent submissions for the same
// alert serialise, and the unique index on emergency_id backs it up.
func (s *RescueService) CreateRescueForm(ctx context.Context, alertID, dispatcherID string, input RescueFormInput) (*models.RescueForm, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created models.RescueForm
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		id, err := nextID(ctx, repos, models.PrefixRescueForm)
		if err != nil {
			return err
		}

		alert, err := repos.Alerts.FindByID(ctx, alertID)
		if err != nil {
			return notFound(err, "alert", alertID)
		}
		if _, err := repos.RescueForms.FindByAlertID(ctx, alertID); err == nil {
			return fmt.Errorf("%w: alert %s already has a rescue form", ErrResourceConflict, alertID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		created = models.RescueForm{
			ID:                  id,
			EmergencyID:         alertID,
			FocalUnreachable:    input.FocalUnreachable,
			WaterLevel:          input.WaterLevel,
			UrgencyOfEvacuation: input.UrgencyOfEvacuation,
			HazardPresent:       input.HazardPresent,
			Accessibility:       input.Accessibility,
			ResourceNeeds:       input.ResourceNeeds,
			OtherInformation:    input.OtherInformation,
			DispatcherID:        dispatcherID,
		}
		if err := repos.RescueForms.Create(ctx, &created); err != nil {
			return conflictOnDuplicate(err, "alert %s already has a rescue form", alertID)
		}
		created.Status = models.DeriveRescueFormStatus(alert.Status, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagRescueForms)
	s.logger.Info("rescue form created",
		zap.String("rescue_form_id", created.ID),
		zap.String("alert_id", alertID),
		zap.String("dispatcher_id", dispatcherID))
	return &created, nil
}

// 2 CreatePostRescueForm closes a dispatched rescue. The record is immutable.
func (s *RescueService) CreatePostRescueForm(ctx context.Context, alertID string, input PostRescueFormInput) (*models.PostRescueForm, error) {
	if input.NoOfPersonnelDeployed < 0 {
		return nil, fmt.Errorf("%w: personnel count must not be negative", ErrValidation)
	}

	var created models.PostRescueForm
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		id, err := nextID(ctx, repos, models.PrefixPostRescueForm)
		if err != nil {
			return err
		}

		alert, err := repos.Alerts.FindByID(ctx, alertID)
		if err != nil {
			return notFound(err, "alert", alertID)
		}
		if _, err := repos.PostRescueForms.FindByAlertID(ctx, alertID); err == nil {
			return fmt.Errorf("%w: alert %s already has a post rescue form", ErrResourceConflict, alertID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if alert.Status != models.AlertStatusDispatched {
			return fmt.Errorf("%w: alert %s is %s, expected Dispatched", ErrPreconditionFailed, alertID, alert.Status)
		}
		if _, err := repos.RescueForms.FindByAlertID(ctx, alertID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: alert %s has no rescue form", ErrPreconditionFailed, alertID)
			}
			return err
		}

		created = models.PostRescueForm{
			ID:                    id,
			AlertID:               alertID,
			NoOfPersonnelDeployed: input.NoOfPersonnelDeployed,
			ResourcesUsed:         input.ResourcesUsed,
			ActionTaken:           input.ActionTaken,
			CompletedAt:           s.now(),
		}
		if err := repos.PostRescueForms.Create(ctx, &created); err != nil {
			return conflictOnDuplicate(err, "alert %s already has a post rescue form", alertID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagReports)
	s.logger.Info("post rescue form created",
		zap.String("post_rescue_form_id", created.ID),
		zap.String("alert_id", alertID))
	return &created, nil
}

// 3 ListRescueForms 获取所有救援表单
func (s *RescueService) ListRescueForms(ctx context.Context) ([]models.RescueForm, error) {
	return remember(ctx, s.cache, KeyRescueFormsAll, TTLRescueForms, rescueFormTags, func() ([]models.RescueForm, error) {
		repos := s.store.Repositories()
		forms, err := repos.RescueForms.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range forms {
			if err := s.deriveStatus(ctx, repos, &forms[i]); err != nil {
				return nil, err
			}
		}
		return forms, nil
	})
}

// 4 GetRescueForm accepts either a rescue form id or the id of its alert
func (s *RescueService) GetRescueForm(ctx context.Context, id string) (*models.RescueForm, error) {
	return remember(ctx, s.cache, rescueFormKey(id), TTLRescueForms, rescueFormTags, func() (*models.RescueForm, error) {
		repos := s.store.Repositories()
		form, err := repos.RescueForms.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			form, err = repos.RescueForms.FindByAlertID(ctx, id)
		}
		if err != nil {
			return nil, notFound(err, "rescue form", id)
		}
		if err := s.deriveStatus(ctx, repos, form); err != nil {
			return nil, err
		}
		return form, nil
	})
}

func (s *RescueService) deriveStatus(ctx context.Context, repos repository.Repositories, form *models.RescueForm) error {
	hasPost := true
	if _, err := repos.PostRescueForms.FindByAlertID(ctx, form.EmergencyID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		hasPost = false
	}
	var status models.AlertStatus
	alert, err := repos.Alerts.FindByID(ctx, form.EmergencyID)
	switch {
	case err == nil:
		status = alert.Status
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	form.Status = models.DeriveRescueFormStatus(status, hasPost)
	return nil
}

// 5 PendingReports lists dispatched rescues still waiting for a post rescue form
func (s *RescueService) PendingReports(ctx context.Context) ([]models.ReportEntry, error) {
	return remember(ctx, s.cache, KeyPendingReports, TTLReports, reportTags, func() ([]models.ReportEntry, error) {
		repos := s.store.Repositories()
		alerts, err := repos.Alerts.List(ctx, models.AlertStatusDispatched)
		if err != nil {
			return nil, err
		}

		var pending []models.Alert
		forms := make(map[string]*models.RescueForm)
		for _, a := range alerts {
			if _, err := repos.PostRescueForms.FindByAlertID(ctx, a.ID); err == nil {
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			form, err := repos.RescueForms.FindByAlertID(ctx, a.ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, err
			}
			forms[a.ID] = form
			pending = append(pending, a)
		}

		views, err := s.views.alertViews(ctx, pending)
		if err != nil {
			return nil, err
		}
		entries := make([]models.ReportEntry, 0, len(views))
		for _, v := range views {
			form := forms[v.AlertID]
			entries = append(entries, models.ReportEntry{
				AlertView:        v,
				RescueFormID:     form.ID,
				RescueFormStatus: models.RescueFormDispatched,
				WaterLevel:       form.WaterLevel,
				UrgencyLevel:     form.UrgencyOfEvacuation,
			})
		}
		return entries, nil
	})
}

// 6 CompletedReports lists closed rescues, most recently completed first
func (s *RescueService) CompletedReports(ctx context.Context) ([]models.ReportEntry, error) {
	return remember(ctx, s.cache, KeyCompletedReports, TTLReports, reportTags, func() ([]models.ReportEntry, error) {
		repos := s.store.Repositories()
		posts, err := repos.PostRescueForms.ListCompletedBetween(ctx, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}

		alerts := make([]models.Alert, 0, len(posts))
		for _, p := range posts {
			a, err := repos.Alerts.FindByID(ctx, p.AlertID)
			if err != nil {
				return nil, notFound(err, "alert", p.AlertID)
			}
			alerts = append(alerts, *a)
		}
		views, err := s.views.alertViews(ctx, alerts)
		if err != nil {
			return nil, err
		}

		entries := make([]models.ReportEntry, 0, len(posts))
		for i, p := range posts {
			completedAt := p.CompletedAt
			entry := models.ReportEntry{
				AlertView:        views[i],
				RescueFormStatus: models.RescueFormCompleted,
				PostRescueFormID: p.ID,
				CompletedAt:      &completedAt,
				PersonnelCount:   p.NoOfPersonnelDeployed,
				ActionTaken:      p.ActionTaken,
			}
			form, err := repos.RescueForms.FindByAlertID(ctx, p.AlertID)
			switch {
			case err == nil:
				entry.RescueFormID = form.ID
				entry.WaterLevel = form.WaterLevel
				entry.UrgencyLevel = form.UrgencyOfEvacuation
			case !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}
			entries = append(entries, entry)
		}
		return entries, nil
	})
}

// 7 AggregatedReports counts completed rescues per day. from and to are
// inclusive YYYY-MM-DD dates in UTC; either may be empty.
func (s *RescueService) AggregatedReports(ctx context.Context, from, to string) ([]models.AggregatedReport, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(reportDateLayout, from); err != nil {
			return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrValidation)
		}
	}
	if to != "" {
		if end, err = time.Parse(reportDateLayout, to); err != nil {
			return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrValidation)
		}
		end = end.AddDate(0, 0, 1)
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrValidation)
	}

	return remember(ctx, s.cache, aggregatedReportsKey(from, to), TTLReports, reportTags, func() ([]models.AggregatedReport, error) {
		repos := s.store.Repositories()
		posts, err := repos.PostRescueForms.ListCompletedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}

		byDate := make(map[string]*models.AggregatedReport)
		for _, p := range posts {
			alert, err := repos.Alerts.FindByID(ctx, p.AlertID)
			if err != nil {
				return nil, notFound(err, "alert", p.AlertID)
			}
			day := p.CompletedAt.UTC().Format(reportDateLayout)
			row, ok := byDate[day]
			if !ok {
				row = &models.AggregatedReport{Date: day}
				byDate[day] = row
			}
			if alert.AlertType == models.AlertTypeUserInitiated {
				row.UserInitiated++
			} else {
				row.Critical++
			}
			row.Total++
			row.Personnel += p.NoOfPersonnelDeployed
		}

		out := make([]models.AggregatedReport, 0, len(byDate))
		for _, row := range byDate {
			out = append(out, *row)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
		return out, nil
	})
}
