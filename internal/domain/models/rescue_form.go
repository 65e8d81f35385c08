package models

// RescueFormStatus 救援表单状态，由警报状态和完成记录推导得出，不单独存储
type RescueFormStatus string

const (
	RescueFormPending    RescueFormStatus = "Pending"
	RescueFormDispatched RescueFormStatus = "Dispatched"
	RescueFormCompleted  RescueFormStatus = "Completed"
)

// DeriveRescueFormStatus computes the status of a rescue form from the status
// of its alert and whether a post rescue form has been filed.
func DeriveRescueFormStatus(alertStatus AlertStatus, hasPostRescue bool) RescueFormStatus {
	if hasPostRescue {
		return RescueFormCompleted
	}
	if alertStatus == AlertStatusDispatched {
		return RescueFormDispatched
	}
	return RescueFormPending
}

// RescueForm is the on-scene assessment filed for exactly one alert
type RescueForm struct {
	BaseModel
	ID                  string `gorm:"primaryKey;type:varchar(20)" json:"id"`
	EmergencyID         string `gorm:"type:varchar(20);not null;uniqueIndex" json:"emergency_id"`
	FocalUnreachable    bool   `gorm:"not null;default:false" json:"focal_unreachable"`
	WaterLevel          string `gorm:"type:varchar(50)" json:"water_level,omitempty"`
	UrgencyOfEvacuation string `gorm:"type:varchar(50)" json:"urgency_of_evacuation,omitempty"`
	HazardPresent       string `gorm:"type:varchar(255)" json:"hazard_present,omitempty"`
	Accessibility       string `gorm:"type:varchar(100)" json:"accessibility,omitempty"`
	ResourceNeeds       string `gorm:"type:varchar(255)" json:"resource_needs,omitempty"`
	OtherInformation    string `gorm:"type:text" json:"other_information,omitempty"`
	DispatcherID        string `gorm:"type:varchar(50)" json:"dispatcher_id,omitempty"`

	// Status is derived on read
	Status RescueFormStatus `gorm:"-" json:"status"`
}
