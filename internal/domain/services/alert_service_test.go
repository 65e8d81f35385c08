package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resqwave-dispatch-service/internal/domain/models"
)

func TestTriggerAlertCreatesUnassignedAlertAndBroadcasts(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Malanday Node 1")
	f.assign(t, term.ID, "Purok 3")

	critical := f.alert(t, term.ID)
	assert.Equal(t, "ALRT001", critical.ID)
	assert.Equal(t, models.AlertStatusUnassigned, critical.Status)
	assert.False(t, critical.DateTimeSent.IsZero())

	user, err := f.alerts.TriggerAlert(f.ctx, term.ID, models.AlertTypeUserInitiated, SourceWebSocket)
	require.NoError(t, err)
	assert.Equal(t, "UALRT001", user.ID)

	global := f.publisher.on(TopicAllAlerts)
	require.Len(t, global, 4)
	assert.Equal(t, EventLiveReport, global[0].Event)
	assert.Equal(t, EventMapReport, global[1].Event)
	assert.Len(t, f.publisher.on(TerminalTopic(term.ID)), 4)

	payload, ok := global[0].Payload.(AlertEvent)
	require.True(t, ok)
	assert.Equal(t, "ALRT001", payload.AlertID)
	assert.Equal(t, "Malanday Node 1", payload.TerminalName)
	assert.Equal(t, "Purok 3", payload.GroupName)
	assert.Equal(t, "14.63,121.09", payload.Boundary)
	require.NotNil(t, payload.FocalPerson)
	assert.Equal(t, "Maria Santos", payload.FocalPerson.Name)
}

func TestTriggerAlertGuards(t *testing.T) {
	f := newFixture(t)
	retired := f.terminal(t, "Retired")
	_, err := f.terminals.ArchiveTerminal(f.ctx, retired.ID)
	require.NoError(t, err)

	_, err = f.alerts.TriggerAlert(f.ctx, "T404", models.AlertTypeCritical, SourceREST)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.alerts.TriggerAlert(f.ctx, retired.ID, models.AlertTypeCritical, SourceREST)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	_, err = f.alerts.TriggerAlert(f.ctx, retired.ID, models.AlertType("Flood"), SourceREST)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.alerts.TriggerAlert(f.ctx, " ", models.AlertTypeCritical, SourceREST)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.publisher.on(TopicAllAlerts))
}

func TestTriggerAlertWithoutGroupStillBroadcasts(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Unbound Node")
	f.alert(t, term.ID)

	events := f.publisher.on(TopicAllAlerts)
	require.NotEmpty(t, events)
	payload := events[0].Payload.(AlertEvent)
	assert.Equal(t, "Unbound Node", payload.TerminalName)
	assert.Empty(t, payload.GroupID)
	assert.Nil(t, payload.FocalPerson)
}

func TestUpdateAlertStatusRequiresRescueForm(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)

	for _, action := range []AlertAction{ActionWaitlist, ActionDispatch} {
		_, err := f.alerts.UpdateAlertStatus(f.ctx, a.ID, action)
		assert.ErrorIs(t, err, ErrPreconditionFailed, action)
	}
	got, err := f.alerts.GetAlert(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusUnassigned, got.Status)
}

func TestAlertTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []AlertAction
		action  AlertAction
		want    models.AlertStatus
		wantErr error
	}{
		{"waitlist from unassigned", nil, ActionWaitlist, models.AlertStatusWaitlist, nil},
		{"dispatch from unassigned", nil, ActionDispatch, models.AlertStatusDispatched, nil},
		{"dispatch from waitlist", []AlertAction{ActionWaitlist}, ActionDispatch, models.AlertStatusDispatched, nil},
		{"waitlist twice", []AlertAction{ActionWaitlist}, ActionWaitlist, "", ErrPreconditionFailed},
		{"waitlist from dispatched", []AlertAction{ActionDispatch}, ActionWaitlist, "", ErrPreconditionFailed},
		{"dispatch twice", []AlertAction{ActionDispatch}, ActionDispatch, "", ErrPreconditionFailed},
		{"unknown action", nil, AlertAction("resolve"), "", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			term := f.terminal(t, "Node")
			a := f.alert(t, term.ID)
			_, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
			require.NoError(t, err)
			for _, step := range tt.path {
				_, err := f.alerts.UpdateAlertStatus(f.ctx, a.ID, step)
				require.NoError(t, err)
			}
			f.publisher.reset()

			got, err := f.alerts.UpdateAlertStatus(f.ctx, a.ID, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.publisher.on(TopicAllAlerts))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)

			events := f.publisher.on(TopicAllAlerts)
			require.Len(t, events, 1)
			assert.Equal(t, EventAlertStatusUpdated, events[0].Event)
			assert.Equal(t, tt.want, events[0].Payload.(AlertEvent).Status)
		})
	}
}

func TestUpdateAlertStatusUnknownAlert(t *testing.T) {
	f := newFixture(t)
	_, err := f.alerts.UpdateAlertStatus(f.ctx, "ALRT404", ActionDispatch)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAlertReadsAreFreshAfterStatusChange(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)
	_, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
	require.NoError(t, err)

	// populate every alert read path
	waitlisted, err := f.alerts.ListAlerts(f.ctx, models.AlertStatusWaitlist)
	require.NoError(t, err)
	assert.Empty(t, waitlisted)
	_, err = f.alerts.GetAlert(f.ctx, a.ID)
	require.NoError(t, err)
	_, err = f.alerts.ListMapAlerts(f.ctx, "")
	require.NoError(t, err)

	_, err = f.alerts.UpdateAlertStatus(f.ctx, a.ID, ActionWaitlist)
	require.NoError(t, err)

	waitlisted, err = f.alerts.ListAlerts(f.ctx, models.AlertStatusWaitlist)
	require.NoError(t, err)
	require.Len(t, waitlisted, 1)
	got, err := f.alerts.GetAlert(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusWaitlist, got.Status)
	views, err := f.alerts.ListMapAlerts(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.AlertStatusWaitlist, views[0].Status)
}

func TestListAlertsNewestFirstAndFiltered(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	first := f.alert(t, term.ID)
	second := f.alert(t, term.ID)

	all, err := f.alerts.ListAlerts(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	_, err = f.alerts.ListAlerts(f.ctx, models.AlertStatus("Closed"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMapAlertsFollowGroupChanges(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	res := f.assign(t, term.ID, "Purok 3")
	f.alert(t, term.ID)

	views, err := f.alerts.ListMapAlerts(f.ctx, models.AlertStatusUnassigned)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Purok 3", views[0].GroupName)

	_, err = f.assignments.UpdateGroup(f.ctx, res.GroupID, GroupInput{Name: "Purok Tres"})
	require.NoError(t, err)

	views, err = f.alerts.ListMapAlerts(f.ctx, models.AlertStatusUnassigned)
	require.NoError(t, err)
	assert.Equal(t, "Purok Tres", views[0].GroupName)
}
