package models

// TerminalAvailability tells whether a terminal is bound to a community group
type TerminalAvailability string

const (
	TerminalAvailable TerminalAvailability = "available"
	TerminalOccupied  TerminalAvailability = "occupied"
)

// TerminalStatus is the connectivity state reported by the device heartbeat
type TerminalStatus string

const (
	TerminalStatusOnline  TerminalStatus = "online"
	TerminalStatusOffline TerminalStatus = "offline"
)

// IsValid 检查终端状态是否合法
func (s TerminalStatus) IsValid() bool {
	return s == TerminalStatusOnline || s == TerminalStatusOffline
}

// Terminal represents a physical field device that raises flood alerts
type Terminal struct {
	BaseModel
	ID           string               `gorm:"primaryKey;type:varchar(20)" json:"id"`
	Name         string               `gorm:"type:varchar(100);not null" json:"name"`
	Availability TerminalAvailability `gorm:"type:varchar(20);not null;default:'available';index" json:"availability"`
	Status       TerminalStatus       `gorm:"type:varchar(20);not null;default:'offline'" json:"status"`
	Archived     bool                 `gorm:"not null;default:false;index" json:"archived"`
}
