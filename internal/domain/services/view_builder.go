package services

import (
	"context"
	"errors"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
)

// viewBuilder joins alerts with their terminal, active group and focal person.
type viewBuilder struct {
	store repository.Store
}

func (v *viewBuilder) alertView(ctx context.Context, alert models.Alert) (models.AlertView, error) {
	views, err := v.alertViews(ctx, []models.Alert{alert})
	if err != nil {
		return models.AlertView{}, err
	}
	return views[0], nil
}

// alertViews denormalises a batch, looking each terminal up once.
func (v *viewBuilder) alertViews(ctx context.Context, alerts []models.Alert) ([]models.AlertView, error) {
	repos := v.store.Repositories()
	type terminalInfo struct {
		name  string
		group *models.CommunityGroup
		focal *models.FocalContact
	}
	seen := make(map[string]terminalInfo)

	out := make([]models.AlertView, 0, len(alerts))
	for _, a := range alerts {
		info, ok := seen[a.TerminalID]
		if !ok {
			term, err := repos.Terminals.FindByID(ctx, a.TerminalID)
			switch {
			case err == nil:
				info.name = term.Name
			case !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}

			group, err := repos.Groups.FindActiveByTerminal(ctx, a.TerminalID)
			switch {
			case err == nil:
				info.group = group
				focal, err := activeFocalPerson(ctx, repos, group.ID)
				if err != nil {
					return nil, err
				}
				info.focal = focal
			case !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}
			seen[a.TerminalID] = info
		}

		view := models.AlertView{
			AlertID:      a.ID,
			AlertType:    a.AlertType,
			Status:       a.Status,
			DateTimeSent: a.DateTimeSent,
			TerminalID:   a.TerminalID,
			TerminalName: info.name,
			FocalPerson:  info.focal,
		}
		if info.group != nil {
			view.GroupID = info.group.ID
			view.GroupName = info.group.Name
			view.Address = info.group.Address
			view.Boundary = info.group.Boundary
		}
		out = append(out, view)
	}
	return out, nil
}

// activeFocalPerson returns the first non-archived focal person of a group, or nil.
func activeFocalPerson(ctx context.Context, repos repository.Repositories, groupID string) (*models.FocalContact, error) {
	people, err := repos.FocalPersons.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		if !p.Archived {
			return &models.FocalContact{ID: p.ID, Name: p.Name, ContactNumber: p.ContactNumber}, nil
		}
	}
	return nil, nil
}
