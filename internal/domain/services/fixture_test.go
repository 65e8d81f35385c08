package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/memstore"
)

type publishedEvent struct {
	Topic   string
	Event   string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(topic, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Event: event, Payload: payload})
}

func (p *recordingPublisher) on(topic string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

func syncRunner(job func()) { job() }

type fixture struct {
	ctx         context.Context
	store       *memstore.Store
	cache       InterfaceCacheService
	publisher   *recordingPublisher
	terminals   InterfaceTerminalService
	assignments InterfaceAssignmentService
	alerts      InterfaceAlertService
	rescue      InterfaceRescueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	backend := cache.NewMemoryBackend(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })

	store := memstore.NewStore()
	cacheSvc := NewCacheService(backend, logger)
	pub := &recordingPublisher{}

	assignments := NewAssignmentService(store, cacheSvc, logger).(*AssignmentService)
	assignments.HashPassword = func(p string) (string, error) { return "hashed:" + p, nil }

	return &fixture{
		ctx:         context.Background(),
		store:       store,
		cache:       cacheSvc,
		publisher:   pub,
		terminals:   NewTerminalService(store, cacheSvc, logger),
		assignments: assignments,
		alerts:      NewAlertService(store, cacheSvc, pub, syncRunner, logger),
		rescue:      NewRescueService(store, cacheSvc, logger),
	}
}

func (f *fixture) terminal(t *testing.T, name string) *models.Terminal {
	t.Helper()
	term, err := f.terminals.CreateTerminal(f.ctx, name)
	require.NoError(t, err)
	return term
}

func (f *fixture) assign(t *testing.T, terminalID, groupName string) *AssignmentResult {
	t.Helper()
	res, err := f.assignments.AssignResource(f.ctx, terminalID,
		GroupInput{Name: groupName, Address: "Purok 3, Brgy. Malanday", NoOfHouseholds: 12, Boundary: "14.63,121.09"},
		FocalPersonInput{Name: "Maria Santos", ContactNumber: "09171234567"})
	require.NoError(t, err)
	return res
}

func (f *fixture) alert(t *testing.T, terminalID string) *models.Alert {
	t.Helper()
	a, err := f.alerts.TriggerAlert(f.ctx, terminalID, models.AlertTypeCritical, SourceREST)
	require.NoError(t, err)
	return a
}

func completeAssessment() RescueFormInput {
	return RescueFormInput{
		WaterLevel:          "waist",
		UrgencyOfEvacuation: "high",
		HazardPresent:       "strong current",
		Accessibility:       "boat only",
		ResourceNeeds:       "rubber boat, life vests",
	}
}
