package models

// FocalPerson is the human point of contact for a community group
type FocalPerson struct {
	BaseModel
	ID            string `gorm:"primaryKey;type:varchar(20)" json:"id"`
	GroupID       string `gorm:"type:varchar(20);not null;index" json:"group_id"`
	Name          string `gorm:"type:varchar(100);not null" json:"name"`
	ContactNumber string `gorm:"type:varchar(30)" json:"contact_number"`
	Email         string `gorm:"type:varchar(100)" json:"email,omitempty"`
	Address       string `gorm:"type:varchar(255)" json:"address,omitempty"`
	Password      string `gorm:"type:varchar(100);not null" json:"-"`
	Archived      bool   `gorm:"not null;default:false" json:"archived"`
}
