package repository

import (
	"context"
	"errors"
	"time"

	"resqwave-dispatch-service/internal/domain/models"
)

var (
	// ErrNotFound is returned by every repository lookup that matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// TerminalRepository persists terminals
type TerminalRepository interface {
	Create(ctx context.Context, terminal *models.Terminal) error
	FindByID(ctx context.Context, id string) (*models.Terminal, error)
	// FindByIDForUpdate takes a pessimistic write lock on the row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Terminal, error)
	List(ctx context.Context, archived bool) ([]models.Terminal, error)
	Update(ctx context.Context, terminal *models.Terminal) error
}

// GroupRepository persists community groups (neighborhoods)
type GroupRepository interface {
	Create(ctx context.Context, group *models.CommunityGroup) error
	FindByID(ctx context.Context, id string) (*models.CommunityGroup, error)
	// FindByIDForUpdate locks the group row. Callers holding a terminal lock take it second.
	FindByIDForUpdate(ctx context.Context, id string) (*models.CommunityGroup, error)
	// FindActiveByTerminal returns the non-archived group bound to the terminal.
	FindActiveByTerminal(ctx context.Context, terminalID string) (*models.CommunityGroup, error)
	List(ctx context.Context, archived bool) ([]models.CommunityGroup, error)
	Update(ctx context.Context, group *models.CommunityGroup) error
}

// FocalPersonRepository persists focal persons
type FocalPersonRepository interface {
	Create(ctx context.Context, person *models.FocalPerson) error
	ListByGroup(ctx context.Context, groupID string) ([]models.FocalPerson, error)
	Update(ctx context.Context, person *models.FocalPerson) error
}

// AlertRepository persists alerts
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	FindByID(ctx context.Context, id string) (*models.Alert, error)
	// List returns alerts newest first. An empty status returns every alert.
	List(ctx context.Context, status models.AlertStatus) ([]models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
}

// RescueFormRepository persists rescue forms
type RescueFormRepository interface {
	Create(ctx context.Context, form *models.RescueForm) error
	FindByID(ctx context.Context, id string) (*models.RescueForm, error)
	FindByAlertID(ctx context.Context, alertID string) (*models.RescueForm, error)
	List(ctx context.Context) ([]models.RescueForm, error)
}

// PostRescueFormRepository persists post rescue forms. There is no update path.
type PostRescueFormRepository interface {
	Create(ctx context.Context, form *models.PostRescueForm) error
	FindByAlertID(ctx context.Context, alertID string) (*models.PostRescueForm, error)
	// ListCompletedBetween returns forms whose completedAt lies in [from, to). Zero bounds are open.
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PostRescueForm, error)
}

// SequenceRepository issues identifier suffixes
type SequenceRepository interface {
	// Next locks the named sequence row, advances it and returns the new value.
	// It must run inside a transaction so the lock is held until the insert commits.
	Next(ctx context.Context, name string) (int64, error)
}

// Repositories groups the per-entity repositories bound to one unit of work.
type Repositories struct {
	Terminals       TerminalRepository
	Groups          GroupRepository
	FocalPersons    FocalPersonRepository
	Alerts          AlertRepository
	RescueForms     RescueFormRepository
	PostRescueForms PostRescueFormRepository
	Sequences       SequenceRepository
}

// Store is the entry point to persisted state.
type Store interface {
	// Repositories returns repositories that run each call on its own.
	Repositories() Repositories
	// WithTransaction runs fn against transaction bound repositories. Any error
	// returned by fn rolls back every write made through them.
	WithTransaction(ctx context.Context, fn func(repos Repositories) error) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
