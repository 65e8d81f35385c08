package models

import "time"

// PostRescueForm is the immutable completion record of a dispatched rescue
type PostRescueForm struct {
	BaseModel
	ID                    string    `gorm:"primaryKey;type:varchar(20)" json:"id"`
	AlertID               string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"alert_id"`
	NoOfPersonnelDeployed int       `gorm:"not null;default:0" json:"no_of_personnel_deployed"`
	ResourcesUsed         string    `gorm:"type:text" json:"resources_used"`
	ActionTaken           string    `gorm:"type:text" json:"action_taken"`
	CompletedAt           time.Time `gorm:"not null;index" json:"completed_at"`
}
