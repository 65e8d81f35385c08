package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/internal/infrastructure/metrics"
	"resqwave-dispatch-service/pkg/utils"
)

// GroupInput carries the attributes of a community group
type GroupInput struct {
	Name              string   `json:"name" binding:"required"`
	Address           string   `json:"address"`
	NoOfHouseholds    int      `json:"no_of_households" binding:"gte=0"`
	NoOfResidents     int      `json:"no_of_residents" binding:"gte=0"`
	NoOfSeniors       int      `json:"no_of_seniors" binding:"gte=0"`
	NoOfChildren      int      `json:"no_of_children" binding:"gte=0"`
	NoOfPWD           int      `json:"no_of_pwd" binding:"gte=0"`
	NoOfPregnantWomen int      `json:"no_of_pregnant_women" binding:"gte=0"`
	Hazards           []string `json:"hazards"`
	Boundary          string   `json:"boundary"`
	OtherInformation  string   `json:"other_information"`
}

func (in GroupInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: group name is required", ErrValidation)
	}
	for _, n := range []int{in.NoOfHouseholds, in.NoOfResidents, in.NoOfSeniors, in.NoOfChildren, in.NoOfPWD, in.NoOfPregnantWomen} {
		if n < 0 {
			return fmt.Errorf("%w: demographic counts must not be negative", ErrValidation)
		}
	}
	return nil
}

func (in GroupInput) apply(g *models.CommunityGroup) {
	g.Name = strings.TrimSpace(in.Name)
	g.Address = in.Address
	g.NoOfHouseholds = in.NoOfHouseholds
	g.NoOfResidents = in.NoOfResidents
	g.NoOfSeniors = in.NoOfSeniors
	g.NoOfChildren = in.NoOfChildren
	g.NoOfPWD = in.NoOfPWD
	g.NoOfPregnantWomen = in.NoOfPregnantWomen
	g.Hazards = append([]string{}, in.Hazards...)
	g.Boundary = in.Boundary
	g.OtherInformation = in.OtherInformation
}

// FocalPersonInput carries the attributes of a focal person
type FocalPersonInput struct {
	Name          string `json:"name" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Password      string `json:"password"` // 为空时使用焦点人员编号作为默认密码
}

// AssignmentResult identifies the records created by an assignment
type AssignmentResult struct {
	GroupID       string `json:"group_id"`
	FocalPersonID string `json:"focal_person_id"`
	TerminalID    string `json:"terminal_id"`
}

// InterfaceAssignmentService defines the assignment coordinator
type InterfaceAssignmentService interface {
	AssignResource(ctx context.Context, terminalID string, group GroupInput, focal FocalPersonInput) (*AssignmentResult, error)
	ReleaseResource(ctx context.Context, groupID string) error
	UpdateGroup(ctx context.Context, groupID string, group GroupInput) (*models.CommunityGroup, error)
	ListGroups(ctx context.Context, family GroupFamily, archived bool) ([]models.CommunityGroup, error)
	GetGroup(ctx context.Context, family GroupFamily, groupID string) (*models.CommunityGroup, error)
}

// AssignmentService binds community groups to terminals
type AssignmentService struct {
	store  repository.Store
	cache  InterfaceCacheService
	logger *zap.Logger

	// HashPassword is replaceable so tests avoid bcrypt cost.
	HashPassword func(string) (string, error)
}

// NewAssignmentService 创建分配服务
func NewAssignmentService(store repository.Store, cache InterfaceCacheService, logger *zap.Logger) InterfaceAssignmentService {
	return &AssignmentService{
		store:        store,
		cache:        cache,
		logger:       logger.Named("assignment"),
		HashPassword: utils.HashPassword,
	}
}

// 1 AssignResource creates a group and its focal person bound to an available
// terminal. The terminal row lock is held from the availability check until
// commit, and the identifiers are issued under the same transaction.
func (s *AssignmentService) AssignResource(ctx context.Context, terminalID string, group GroupInput, focal FocalPersonInput) (*AssignmentResult, error) {
	if err := group.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(focal.Name) == "" {
		return nil, fmt.Errorf("%w: focal person name is required", ErrValidation)
	}
	if strings.TrimSpace(terminalID) == "" {
		return nil, fmt.Errorf("%w: terminal id is required", ErrValidation)
	}

	var result AssignmentResult
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		term, err := repos.Terminals.FindByIDForUpdate(ctx, terminalID)
		if err != nil {
			return notFound(err, "terminal", terminalID)
		}
		if term.Archived {
			return fmt.Errorf("%w: terminal %s is archived", ErrPreconditionFailed, terminalID)
		}
		if term.Availability != models.TerminalAvailable {
			return fmt.Errorf("%w: terminal %s is already occupied", ErrResourceConflict, terminalID)
		}

		groupID, err := nextID(ctx, repos, models.PrefixCommunityGroup)
		if err != nil {
			return err
		}
		focalID, err := nextID(ctx, repos, models.PrefixFocalPerson)
		if err != nil {
			return err
		}

		g := models.CommunityGroup{ID: groupID, TerminalID: &term.ID}
		group.apply(&g)
		if err := repos.Groups.Create(ctx, &g); err != nil {
			return err
		}

		password := focal.Password
		if password == "" {
			password = focalID
		}
		hashed, err := s.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash focal person password: %w", err)
		}
		person := models.FocalPerson{
			ID:            focalID,
			GroupID:       groupID,
			Name:          strings.TrimSpace(focal.Name),
			ContactNumber: focal.ContactNumber,
			Email:         focal.Email,
			Address:       focal.Address,
			Password:      hashed,
		}
		if err := repos.FocalPersons.Create(ctx, &person); err != nil {
			return err
		}

		term.Availability = models.TerminalOccupied
		if err := repos.Terminals.Update(ctx, term); err != nil {
			return err
		}

		result = AssignmentResult{GroupID: groupID, FocalPersonID: focalID, TerminalID: term.ID}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrResourceConflict) {
			metrics.AssignmentsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.AssignmentsTotal.WithLabelValues("success").Inc()
	s.cache.InvalidateTags(ctx, TagGroups, TagTerminals)
	s.logger.Info("terminal assigned",
		zap.String("terminal_id", result.TerminalID),
		zap.String("group_id", result.GroupID),
		zap.String("focal_person_id", result.FocalPersonID))
	return &result, nil
}

// 2 ReleaseResource archives a group with its focal persons and frees its
// terminal. Releasing an archived group succeeds without changes.
//
// Locks are taken terminal first, then group, the same order as ArchiveTerminal.
// The terminal is freed only when the locked group row still references it.
func (s *AssignmentService) ReleaseResource(ctx context.Context, groupID string) error {
	changed := false
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		snapshot, err := repos.Groups.FindByID(ctx, groupID)
		if err != nil {
			return notFound(err, "community group", groupID)
		}
		if snapshot.Archived {
			return nil
		}

		var term *models.Terminal
		if snapshot.TerminalID != nil {
			term, err = repos.Terminals.FindByIDForUpdate(ctx, *snapshot.TerminalID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		// 加锁后重读，快照可能已被并发释放覆盖
		group, err := repos.Groups.FindByIDForUpdate(ctx, groupID)
		if err != nil {
			return notFound(err, "community group", groupID)
		}
		if group.Archived {
			return nil
		}

		if term != nil && group.TerminalID != nil && *group.TerminalID == term.ID {
			term.Availability = models.TerminalAvailable
			if err := repos.Terminals.Update(ctx, term); err != nil {
				return err
			}
		}

		people, err := repos.FocalPersons.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		for i := range people {
			if people[i].Archived {
				continue
			}
			people[i].Archived = true
			if err := repos.FocalPersons.Update(ctx, &people[i]); err != nil {
				return err
			}
		}

		group.Archived = true
		group.TerminalID = nil
		changed = true
		return repos.Groups.Update(ctx, group)
	})
	if err != nil {
		return err
	}

	if changed {
		s.cache.InvalidateTags(ctx, TagGroups, TagTerminals)
		s.logger.Info("community group released", zap.String("group_id", groupID))
	}
	return nil
}

// 3 UpdateGroup edits the descriptive attributes of an active group. The
// terminal binding is never touched here.
func (s *AssignmentService) UpdateGroup(ctx context.Context, groupID string, input GroupInput) (*models.CommunityGroup, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated models.CommunityGroup
	err := s.store.WithTransaction(ctx, func(repos repository.Repositories) error {
		group, err := repos.Groups.FindByID(ctx, groupID)
		if err != nil {
			return notFound(err, "community group", groupID)
		}
		if group.Archived {
			return fmt.Errorf("%w: community group %s is archived", ErrPreconditionFailed, groupID)
		}
		input.apply(group)
		if err := repos.Groups.Update(ctx, group); err != nil {
			return err
		}
		updated = *group
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTags(ctx, TagGroups)
	return &updated, nil
}

// 4 ListGroups 获取社区组列表
func (s *AssignmentService) ListGroups(ctx context.Context, family GroupFamily, archived bool) ([]models.CommunityGroup, error) {
	return remember(ctx, s.cache, groupListKey(family, archived), TTLGroups, groupTags, func() ([]models.CommunityGroup, error) {
		return s.store.Repositories().Groups.List(ctx, archived)
	})
}

// 5 GetGroup returns a group with its focal persons and bound terminal
func (s *AssignmentService) GetGroup(ctx context.Context, family GroupFamily, groupID string) (*models.CommunityGroup, error) {
	return remember(ctx, s.cache, groupKey(family, groupID), TTLGroups, groupTags, func() (*models.CommunityGroup, error) {
		repos := s.store.Repositories()
		group, err := repos.Groups.FindByID(ctx, groupID)
		if err != nil {
			return nil, notFound(err, "community group", groupID)
		}
		people, err := repos.FocalPersons.ListByGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		group.FocalPersons = people
		if group.TerminalID != nil {
			term, err := repos.Terminals.FindByID(ctx, *group.TerminalID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			group.Terminal = term
		}
		return group, nil
	})
}
