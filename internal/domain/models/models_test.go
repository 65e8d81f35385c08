package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRescueFormStatus(t *testing.T) {
	tests := []struct {
		alert AlertStatus
		post  bool
		want  RescueFormStatus
	}{
		{AlertStatusUnassigned, false, RescueFormPending},
		{AlertStatusWaitlist, false, RescueFormPending},
		{AlertStatusDispatched, false, RescueFormDispatched},
		{AlertStatusDispatched, true, RescueFormCompleted},
	}
	for _, tt := range tests {
		t.Run(string(tt.alert), func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRescueFormStatus(tt.alert, tt.post))
		})
	}
}

func TestAlertTypePrefix(t *testing.T) {
	assert.Equal(t, "ALRT", AlertTypeCritical.IDPrefix())
	assert.Equal(t, "UALRT", AlertTypeUserInitiated.IDPrefix())
	assert.False(t, AlertType("Flood").IsValid())
}

func TestCommunityGroupClone(t *testing.T) {
	tid := "T001"
	g := CommunityGroup{ID: "CG001", Hazards: []string{"flood"}, TerminalID: &tid}
	c := g.Clone()
	c.Hazards[0] = "fire"
	*c.TerminalID = "T002"
	assert.Equal(t, "flood", g.Hazards[0])
	assert.Equal(t, "T001", *g.TerminalID)
}
