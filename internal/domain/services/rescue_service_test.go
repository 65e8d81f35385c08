package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resqwave-dispatch-service/internal/domain/models"
)

func TestCreateRescueFormValidation(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)

	partial := completeAssessment()
	partial.Accessibility = ""
	partial.WaterLevel = " "
	_, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", partial)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "accessibility, water_level")

	// an unreachable focal person leaves the assessment optional
	form, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", RescueFormInput{FocalUnreachable: true, OtherInformation: "no answer"})
	require.NoError(t, err)
	assert.Equal(t, "RF001", form.ID)
	assert.Equal(t, models.RescueFormPending, form.Status)
}

func TestCreateRescueFormUnknownAlert(t *testing.T) {
	f := newFixture(t)
	_, err := f.rescue.CreateRescueForm(f.ctx, "ALRT404", "D001", completeAssessment())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRescueFormIsOneToOneUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.ErrorIs(t, err, ErrResourceConflict)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)

	forms, err := f.rescue.ListRescueForms(f.ctx)
	require.NoError(t, err)
	assert.Len(t, forms, 1)
}

func TestPostRescueFormGuards(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)

	_, err := f.rescue.CreatePostRescueForm(f.ctx, "ALRT404", PostRescueFormInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: 4})
	assert.ErrorIs(t, err, ErrPreconditionFailed, "alert not dispatched")

	_, err = f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
	require.NoError(t, err)
	_, err = f.alerts.UpdateAlertStatus(f.ctx, a.ID, ActionWaitlist)
	require.NoError(t, err)
	_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: 4})
	assert.ErrorIs(t, err, ErrPreconditionFailed, "waitlisted alert")

	_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRescueFormStatusIsDerived(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	a := f.alert(t, term.ID)
	form, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
	require.NoError(t, err)

	status := func(id string) models.RescueFormStatus {
		got, err := f.rescue.GetRescueForm(f.ctx, id)
		require.NoError(t, err)
		return got.Status
	}
	assert.Equal(t, models.RescueFormPending, status(form.ID))
	assert.Equal(t, models.RescueFormPending, status(a.ID), "lookup by alert id")

	_, err = f.alerts.UpdateAlertStatus(f.ctx, a.ID, ActionDispatch)
	require.NoError(t, err)
	assert.Equal(t, models.RescueFormDispatched, status(form.ID))

	_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: 6, ActionTaken: "evacuated 14 residents"})
	require.NoError(t, err)
	assert.Equal(t, models.RescueFormCompleted, status(form.ID))

	forms, err := f.rescue.ListRescueForms(f.ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, models.RescueFormCompleted, forms[0].Status)

	_, err = f.rescue.GetRescueForm(f.ctx, "RF404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportsMoveFromPendingToCompleted(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "Node")
	f.assign(t, term.ID, "Purok 3")
	a := f.alert(t, term.ID)
	_, err := f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
	require.NoError(t, err)

	pending, err := f.rescue.PendingReports(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "undispatched alerts are not pending reports")

	_, err = f.alerts.UpdateAlertStatus(f.ctx, a.ID, ActionDispatch)
	require.NoError(t, err)
	pending, err = f.rescue.PendingReports(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Purok 3", pending[0].GroupName)
	assert.Equal(t, "waist", pending[0].WaterLevel)

	completed, err := f.rescue.CompletedReports(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: 5})
	require.NoError(t, err)

	pending, err = f.rescue.PendingReports(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	completed, err = f.rescue.CompletedReports(f.ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "PRF001", completed[0].PostRescueFormID)
	assert.Equal(t, "RF001", completed[0].RescueFormID)
	assert.Equal(t, 5, completed[0].PersonnelCount)
	assert.Equal(t, models.RescueFormCompleted, completed[0].RescueFormStatus)
}

func TestAggregatedReports(t *testing.T) {
	f := newFixture(t)
	rescue := f.rescue.(*RescueService)
	term := f.terminal(t, "Node")

	complete := func(alertType models.AlertType, at time.Time, personnel int) {
		a, err := f.alerts.TriggerAlert(f.ctx, term.ID, alertType, SourceREST)
		require.NoError(t, err)
		_, err = f.rescue.CreateRescueForm(f.ctx, a.ID, "D001", completeAssessment())
		require.NoError(t, err)
		_, err = f.alerts.UpdateAlertStatus(f.ctx, a.ID, ActionDispatch)
		require.NoError(t, err)
		rescue.now = func() time.Time { return at }
		_, err = f.rescue.CreatePostRescueForm(f.ctx, a.ID, PostRescueFormInput{NoOfPersonnelDeployed: personnel})
		require.NoError(t, err)
	}
	day1 := time.Date(2025, 7, 24, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 7, 25, 23, 30, 0, 0, time.UTC)
	complete(models.AlertTypeCritical, day1, 4)
	complete(models.AlertTypeUserInitiated, day1.Add(2*time.Hour), 2)
	complete(models.AlertTypeCritical, day2, 6)

	all, err := f.rescue.AggregatedReports(f.ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.AggregatedReport{Date: "2025-07-24", Critical: 1, UserInitiated: 1, Total: 2, Personnel: 6}, all[0])
	assert.Equal(t, models.AggregatedReport{Date: "2025-07-25", Critical: 1, Total: 1, Personnel: 6}, all[1])

	// to is inclusive
	onlyDay2, err := f.rescue.AggregatedReports(f.ctx, "2025-07-25", "2025-07-25")
	require.NoError(t, err)
	require.Len(t, onlyDay2, 1)
	assert.Equal(t, "2025-07-25", onlyDay2[0].Date)

	_, err = f.rescue.AggregatedReports(f.ctx, "25/07/2025", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.rescue.AggregatedReports(f.ctx, "2025-07-26", "2025-07-25")
	assert.ErrorIs(t, err, ErrValidation)
}

// Terminal assignment through to a closed rescue, including the conflicts
// and guard failures an operator can run into on the way.
func TestDispatchScenario(t *testing.T) {
	f := newFixture(t)
	term := f.terminal(t, "T001 Malanday")
	require.Equal(t, "T001", term.ID)
	require.Equal(t, models.TerminalAvailable, term.Availability)

	res := f.assign(t, "T001", "Group A")
	assert.Equal(t, "CG001", res.GroupID)
	_, err := f.assignments.AssignResource(f.ctx, "T001", GroupInput{Name: "Group B"}, FocalPersonInput{Name: "Jose"})
	require.ErrorIs(t, err, ErrResourceConflict)
	got, err := f.terminals.GetTerminal(f.ctx, "T001")
	require.NoError(t, err)
	assert.Equal(t, models.TerminalOccupied, got.Availability)

	alert, err := f.alerts.TriggerAlert(f.ctx, "T001", models.AlertTypeCritical, SourceWebSocket)
	require.NoError(t, err)
	assert.Equal(t, "ALRT001", alert.ID)
	assert.Equal(t, models.AlertStatusUnassigned, alert.Status)
	assert.NotEmpty(t, f.publisher.on(TopicAllAlerts))

	_, err = f.alerts.UpdateAlertStatus(f.ctx, "ALRT001", ActionDispatch)
	require.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = f.rescue.CreateRescueForm(f.ctx, "ALRT001", "D001", completeAssessment())
	require.NoError(t, err)

	f.publisher.reset()
	dispatched, err := f.alerts.UpdateAlertStatus(f.ctx, "ALRT001", ActionDispatch)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusDispatched, dispatched.Status)
	events := f.publisher.on(TopicAllAlerts)
	require.Len(t, events, 1)
	assert.Equal(t, EventAlertStatusUpdated, events[0].Event)
	assert.Equal(t, models.AlertStatusUnassigned, events[0].Payload.(AlertEvent).PreviousStatus)

	_, err = f.rescue.CreatePostRescueForm(f.ctx, "ALRT001", PostRescueFormInput{NoOfPersonnelDeployed: 3})
	require.NoError(t, err)
	_, err = f.rescue.CreatePostRescueForm(f.ctx, "ALRT001", PostRescueFormInput{NoOfPersonnelDeployed: 3})
	require.ErrorIs(t, err, ErrResourceConflict)
}
