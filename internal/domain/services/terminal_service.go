package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
)

// InterfaceTerminalService defines the terminal registry
type InterfaceTerminalService interface {
	CreateTerminal(ctx context.Context, name string) (*models.Terminal, error)
	GetTerminal(ctx context.Context, id string) (*models.Terminal, error)
	ListTerminals(ctx context.Context, archived bool) ([]models.Terminal, error)
	ArchiveTerminal(ctx context.Context, id string) (*models.Terminal, error)
	UnarchiveTerminal(ctx context.Context, id string) (*models.Terminal, error)
	SetTerminalStatus(ctx context.Context, id string, status models.TerminalStatus) error
}

// TerminalService 终端登记服务
type TerminalService struct {
	store  repository.Store
	cache  InterfaceCacheService
	logger *zap.Logger
}

// NewTerminalService 创建终端服务
func NewTerminalService(store repository.Store, cache InterfaceCacheService, logger *zap.Logger) InterfaceTerminalService {
	return &TerminalService{
		store:  store,
		cache:  cache,
		logger: logger.Named("terminal"),
	}
}

// 1 CreateTerminal registers a new available, offline terminal
func (s *TerminalService) CreateTerminal(ctx context.Context, name string) (*models.Terminal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: terminal name is required", ErrValidation)
	}

	var created models.Terminal
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		id, err := nextID(ctx, repos, models.PrefixTerminal)
		if err != nil {
			return err
		}
		created = models.Terminal{
			ID:           id,
			Name:         name,
			Availability: models.TerminalAvailable,
			Status:       models.TerminalStatusOffline,
		}
		return repos.Terminals.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagTerminals)
	s.logger.Info("terminal created", zap.String("terminal_id", created.ID))
	return &created, nil
}

// 2 GetTerminal 获取终端
func (s *TerminalService) GetTerminal(ctx context.Context, id string) (*models.Terminal, error) {
	return remember(ctx, s.cache, terminalKey(id), TTLTerminals, terminalTags, func() (*models.Terminal, error) {
		t, err := s.store.Repositories().Terminals.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, "terminal", id)
		}
		return t, nil
	})
}

// 3 ListTerminals 获取终端列表
func (s *TerminalService) ListTerminals(ctx context.Context, archived bool) ([]models.Terminal, error) {
	return remember(ctx, s.cache, terminalListKey(archived), TTLTerminals, terminalTags, func() ([]models.Terminal, error) {
		return s.store.Repositories().Terminals.List(ctx, archived)
	})
}

// 4 ArchiveTerminal detaches any group bound to the terminal, then archives it.
// Archiving an archived terminal is a no-op.
func (s *TerminalService) ArchiveTerminal(ctx context.Context, id string) (*models.Terminal, error) {
	var (
		result   models.Terminal
		detached string
		changed  bool
	)
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		term, err := repos.Terminals.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "terminal", id)
		}
		result = *term
		if term.Archived {
			return nil
		}

		group, err := repos.Groups.FindActiveByTerminal(ctx, id)
		switch {
		case err == nil:
			group.TerminalID = nil
			if err := repos.Groups.Update(ctx, group); err != nil {
				return err
			}
			detached = group.ID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		term.Archived = true
		term.Availability = models.TerminalAvailable
		if err := repos.Terminals.Update(ctx, term); err != nil {
			return err
		}
		result = *term
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.InvalidateTags(ctx, TagTerminals, TagGroups)
		s.logger.Info("terminal archived", zap.String("terminal_id", id), zap.String("detached_group", detached))
	}
	return &result, nil
}

// 5 UnarchiveTerminal returns an archived terminal to the available pool
func (s *TerminalService) UnarchiveTerminal(ctx context.Context, id string) (*models.Terminal, error) {
	var (
		result  models.Terminal
		changed bool
	)
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		term, err := repos.Terminals.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "terminal", id)
		}
		result = *term
		if !term.Archived {
			return nil
		}
		term.Archived = false
		term.Availability = models.TerminalAvailable
		if err := repos.Terminals.Update(ctx, term); err != nil {
			return err
		}
		result = *term
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.InvalidateTags(ctx, TagTerminals)
	}
	return &result, nil
}

// 6 SetTerminalStatus records a connectivity change reported by the device
func (s *TerminalService) SetTerminalStatus(ctx context.Context, id string, status models.TerminalStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown terminal status %q", ErrValidation, status)
	}

	changed := false
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		term, err := repos.Terminals.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "terminal", id)
		}
		if term.Status == status {
			return nil
		}
		term.Status = status
		changed = true
		return repos.Terminals.Update(ctx, term)
	})
	if err != nil {
		return err
	}

	if changed {
		s.cache.InvalidateTags(ctx, TagTerminals)
		s.logger.Debug("terminal status changed", zap.String("terminal_id", id), zap.String("status", string(status)))
	}
	return nil
}
