package models

import "time"

// AlertType 警报类型
type AlertType string

const (
	AlertTypeCritical      AlertType = "Critical"
	AlertTypeUserInitiated AlertType = "User-Initiated"
)

// IsValid 检查警报类型是否合法
func (t AlertType) IsValid() bool {
	return t == AlertTypeCritical || t == AlertTypeUserInitiated
}

// IDPrefix returns the identifier prefix used for alerts of this type
func (t AlertType) IDPrefix() string {
	if t == AlertTypeUserInitiated {
		return PrefixUserAlert
	}
	return PrefixCriticalAlert
}

// AlertStatus 警报状态
type AlertStatus string

const (
	AlertStatusUnassigned AlertStatus = "Unassigned"
	AlertStatusWaitlist   AlertStatus = "Waitlist"
	AlertStatusDispatched AlertStatus = "Dispatched"
)

// IsValid 检查警报状态是否合法
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusUnassigned, AlertStatusWaitlist, AlertStatusDispatched:
		return true
	}
	return false
}

// Alert is an emergency signal raised for a terminal. Alerts are never deleted.
type Alert struct {
	BaseModel
	ID           string      `gorm:"primaryKey;type:varchar(20)" json:"id"`
	TerminalID   string      `gorm:"type:varchar(20);not null;index" json:"terminal_id"`
	AlertType    AlertType   `gorm:"type:varchar(20);not null" json:"alert_type"`
	Status       AlertStatus `gorm:"type:varchar(20);not null;default:'Unassigned';index" json:"status"`
	DateTimeSent time.Time   `gorm:"not null" json:"date_time_sent"`

	Terminal *Terminal `gorm:"foreignKey:TerminalID" json:"terminal,omitempty"`
}
