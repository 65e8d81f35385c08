// Package memstore keeps every entity in process memory. It backs the service
// when no database is configured and is the store used by the service tests.
//
// Transactions are serialised behind one mutex, which gives the same mutual
// exclusion as the row locks taken by the relational store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
)

type state struct {
	terminals       map[string]models.Terminal
	groups          map[string]models.CommunityGroup
	focalPersons    map[string]models.FocalPerson
	alerts          map[string]models.Alert
	rescueForms     map[string]models.RescueForm
	postRescueForms map[string]models.PostRescueForm
	sequences       map[string]int64
}

func newState() *state {
	return &state{
		terminals:       make(map[string]models.Terminal),
		groups:          make(map[string]models.CommunityGroup),
		focalPersons:    make(map[string]models.FocalPerson),
		alerts:          make(map[string]models.Alert),
		rescueForms:     make(map[string]models.RescueForm),
		postRescueForms: make(map[string]models.PostRescueForm),
		sequences:       make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.terminals {
		c.terminals[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v.Clone()
	}
	for k, v := range s.focalPersons {
		c.focalPersons[k] = v
	}
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	for k, v := range s.rescueForms {
		c.rescueForms[k] = v
	}
	for k, v := range s.postRescueForms {
		c.postRescueForms[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store is an in-memory repository.Store
type Store struct {
	mu    sync.Mutex
	data  *state
	clock func() time.Time
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		data:  newState(),
		clock: time.Now,
	}
}

// Repositories returns repositories that lock the store per call.
func (s *Store) Repositories() repository.Repositories {
	return s.repos(true)
}

// WithTransaction runs fn while holding the store lock. Writes are applied to a
// working copy that replaces the committed state only when fn succeeds.
func (s *Store) WithTransaction(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := s.data
	s.data = committed.clone()
	if err := fn(s.repos(false)); err != nil {
		s.data = committed
		return err
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) repos(lock bool) repository.Repositories {
	b := &binding{store: s, lock: lock}
	return repository.Repositories{
		Terminals:       &terminalRepo{b},
		Groups:          &groupRepo{b},
		FocalPersons:    &focalPersonRepo{b},
		Alerts:          &alertRepo{b},
		RescueForms:     &rescueFormRepo{b},
		PostRescueForms: &postRescueFormRepo{b},
		Sequences:       &sequenceRepo{b},
	}
}

// binding runs repository calls either under the store lock or inside a
// transaction that already holds it.
type binding struct {
	store *Store
	lock  bool
}

func (b *binding) do(ctx context.Context, fn func(d *state, now time.Time) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.lock {
		b.store.mu.Lock()
		defer b.store.mu.Unlock()
	}
	return fn(b.store.data, b.store.clock())
}

type terminalRepo struct{ *binding }

func (r *terminalRepo) Create(ctx context.Context, t *models.Terminal) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		t.CreatedAt, t.UpdatedAt = now, now
		d.terminals[t.ID] = *t
		return nil
	})
}

func (r *terminalRepo) FindByID(ctx context.Context, id string) (*models.Terminal, error) {
	var out *models.Terminal
	err := r.do(ctx, func(d *state, _ time.Time) error {
		t, ok := d.terminals[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *terminalRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Terminal, error) {
	return r.FindByID(ctx, id)
}

func (r *terminalRepo) List(ctx context.Context, archived bool) ([]models.Terminal, error) {
	out := []models.Terminal{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, t := range d.terminals {
			if t.Archived == archived {
				out = append(out, t)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *terminalRepo) Update(ctx context.Context, t *models.Terminal) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		if _, ok := d.terminals[t.ID]; !ok {
			return repository.ErrNotFound
		}
		t.UpdatedAt = now
		d.terminals[t.ID] = *t
		return nil
	})
}

type groupRepo struct{ *binding }

func (r *groupRepo) Create(ctx context.Context, g *models.CommunityGroup) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		g.CreatedAt, g.UpdatedAt = now, now
		d.groups[g.ID] = g.Clone()
		return nil
	})
}

func (r *groupRepo) FindByID(ctx context.Context, id string) (*models.CommunityGroup, error) {
	var out *models.CommunityGroup
	err := r.do(ctx, func(d *state, _ time.Time) error {
		g, ok := d.groups[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := g.Clone()
		out = &c
		return nil
	})
	return out, err
}

func (r *groupRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.CommunityGroup, error) {
	return r.FindByID(ctx, id)
}

func (r *groupRepo) FindActiveByTerminal(ctx context.Context, terminalID string) (*models.CommunityGroup, error) {
	var out *models.CommunityGroup
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, g := range d.groups {
			if !g.Archived && g.TerminalID != nil && *g.TerminalID == terminalID {
				c := g.Clone()
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *groupRepo) List(ctx context.Context, archived bool) ([]models.CommunityGroup, error) {
	out := []models.CommunityGroup{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, g := range d.groups {
			if g.Archived == archived {
				out = append(out, g.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *groupRepo) Update(ctx context.Context, g *models.CommunityGroup) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		if _, ok := d.groups[g.ID]; !ok {
			return repository.ErrNotFound
		}
		g.UpdatedAt = now
		d.groups[g.ID] = g.Clone()
		return nil
	})
}

type focalPersonRepo struct{ *binding }

func (r *focalPersonRepo) Create(ctx context.Context, p *models.FocalPerson) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		p.CreatedAt, p.UpdatedAt = now, now
		d.focalPersons[p.ID] = *p
		return nil
	})
}

func (r *focalPersonRepo) ListByGroup(ctx context.Context, groupID string) ([]models.FocalPerson, error) {
	out := []models.FocalPerson{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, p := range d.focalPersons {
			if p.GroupID == groupID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *focalPersonRepo) Update(ctx context.Context, p *models.FocalPerson) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		if _, ok := d.focalPersons[p.ID]; !ok {
			return repository.ErrNotFound
		}
		p.UpdatedAt = now
		d.focalPersons[p.ID] = *p
		return nil
	})
}

type alertRepo struct{ *binding }

func (r *alertRepo) Create(ctx context.Context, a *models.Alert) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		a.CreatedAt, a.UpdatedAt = now, now
		stored := *a
		stored.Terminal = nil
		d.alerts[a.ID] = stored
		return nil
	})
}

func (r *alertRepo) FindByID(ctx context.Context, id string) (*models.Alert, error) {
	var out *models.Alert
	err := r.do(ctx, func(d *state, _ time.Time) error {
		a, ok := d.alerts[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *alertRepo) List(ctx context.Context, status models.AlertStatus) ([]models.Alert, error) {
	out := []models.Alert{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, a := range d.alerts {
			if status == "" || a.Status == status {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateTimeSent.Equal(out[j].DateTimeSent) {
			return out[i].ID > out[j].ID
		}
		return out[i].DateTimeSent.After(out[j].DateTimeSent)
	})
	return out, err
}

func (r *alertRepo) Update(ctx context.Context, a *models.Alert) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		if _, ok := d.alerts[a.ID]; !ok {
			return repository.ErrNotFound
		}
		a.UpdatedAt = now
		stored := *a
		stored.Terminal = nil
		d.alerts[a.ID] = stored
		return nil
	})
}

type rescueFormRepo struct{ *binding }

func (r *rescueFormRepo) Create(ctx context.Context, f *models.RescueForm) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		f.CreatedAt, f.UpdatedAt = now, now
		d.rescueForms[f.ID] = *f
		return nil
	})
}

func (r *rescueFormRepo) FindByID(ctx context.Context, id string) (*models.RescueForm, error) {
	var out *models.RescueForm
	err := r.do(ctx, func(d *state, _ time.Time) error {
		f, ok := d.rescueForms[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &f
		return nil
	})
	return out, err
}

func (r *rescueFormRepo) FindByAlertID(ctx context.Context, alertID string) (*models.RescueForm, error) {
	var out *models.RescueForm
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, f := range d.rescueForms {
			if f.EmergencyID == alertID {
				out = &f
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *rescueFormRepo) List(ctx context.Context) ([]models.RescueForm, error) {
	out := []models.RescueForm{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, f := range d.rescueForms {
			out = append(out, f)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

type postRescueFormRepo struct{ *binding }

func (r *postRescueFormRepo) Create(ctx context.Context, f *models.PostRescueForm) error {
	return r.do(ctx, func(d *state, now time.Time) error {
		f.CreatedAt, f.UpdatedAt = now, now
		d.postRescueForms[f.ID] = *f
		return nil
	})
}

func (r *postRescueFormRepo) FindByAlertID(ctx context.Context, alertID string) (*models.PostRescueForm, error) {
	var out *models.PostRescueForm
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, f := range d.postRescueForms {
			if f.AlertID == alertID {
				out = &f
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *postRescueFormRepo) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PostRescueForm, error) {
	out := []models.PostRescueForm{}
	err := r.do(ctx, func(d *state, _ time.Time) error {
		for _, f := range d.postRescueForms {
			if !from.IsZero() && f.CompletedAt.Before(from) {
				continue
			}
			if !to.IsZero() && !f.CompletedAt.Before(to) {
				continue
			}
			out = append(out, f)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, err
}

type sequenceRepo struct{ *binding }

func (r *sequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var next int64
	err := r.do(ctx, func(d *state, _ time.Time) error {
		next = d.sequences[name] + 1
		d.sequences[name] = next
		return nil
	})
	return next, err
}
