package models

import "time"

// BaseModel carries the audit timestamps shared by every persisted entity.
// Identifiers are human-readable codes, so each entity declares its own ID.
type BaseModel struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 实体编号前缀
const (
	PrefixTerminal       = "T"
	PrefixCommunityGroup = "CG"
	PrefixFocalPerson    = "FP"
	PrefixCriticalAlert  = "ALRT"
	PrefixUserAlert      = "UALRT"
	PrefixRescueForm     = "RF"
	PrefixPostRescueForm = "PRF"
)

// IDSequence holds the last issued numeric suffix for one identifier prefix.
// Rows are locked FOR UPDATE and advanced inside the inserting transaction.
type IDSequence struct {
	Name      string    `gorm:"primaryKey;type:varchar(20)" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (IDSequence) TableName() string {
	return "id_sequences"
}
