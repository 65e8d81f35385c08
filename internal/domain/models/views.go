package models

import "time"

// FocalContact is the focal person summary embedded in denormalised views
type FocalContact struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
}

// AlertView is an alert joined with its terminal, group and focal person.
// It feeds the map view and every realtime alert event.
type AlertView struct {
	AlertID      string        `json:"alert_id"`
	AlertType    AlertType     `json:"alert_type"`
	Status       AlertStatus   `json:"status"`
	DateTimeSent time.Time     `json:"date_time_sent"`
	TerminalID   string        `json:"terminal_id"`
	TerminalName string        `json:"terminal_name"`
	GroupID      string        `json:"group_id,omitempty"`
	GroupName    string        `json:"group_name,omitempty"`
	Address      string        `json:"address,omitempty"`
	Boundary     string        `json:"boundary,omitempty"`
	FocalPerson  *FocalContact `json:"focal_person,omitempty"`
}

// ReportEntry is one row of the pending or completed report listings
type ReportEntry struct {
	AlertView
	RescueFormID     string           `json:"rescue_form_id"`
	RescueFormStatus RescueFormStatus `json:"rescue_form_status"`
	WaterLevel       string           `json:"water_level,omitempty"`
	UrgencyLevel     string           `json:"urgency_of_evacuation,omitempty"`
	PostRescueFormID string           `json:"post_rescue_form_id,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	PersonnelCount   int              `json:"no_of_personnel_deployed,omitempty"`
	ActionTaken      string           `json:"action_taken,omitempty"`
}

// AggregatedReport 按日期汇总的完成救援统计
type AggregatedReport struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Critical      int    `json:"critical"`
	UserInitiated int    `json:"user_initiated"`
	Total         int    `json:"total"`
	Personnel     int    `json:"personnel"`
}
