package models

// CommunityGroup is a registered population unit. The neighborhood API family
// exposes the same records.
type CommunityGroup struct {
	BaseModel
	ID                string   `gorm:"primaryKey;type:varchar(20)" json:"id"`
	Name              string   `gorm:"type:varchar(100);not null" json:"name"`
	Address           string   `gorm:"type:varchar(255)" json:"address"`
	NoOfHouseholds    int      `gorm:"not null;default:0" json:"no_of_households"`
	NoOfResidents     int      `gorm:"not null;default:0" json:"no_of_residents"`
	NoOfSeniors       int      `gorm:"not null;default:0" json:"no_of_seniors"`
	NoOfChildren      int      `gorm:"not null;default:0" json:"no_of_children"`
	NoOfPWD           int      `gorm:"column:no_of_pwd;not null;default:0" json:"no_of_pwd"`
	NoOfPregnantWomen int      `gorm:"not null;default:0" json:"no_of_pregnant_women"`
	Hazards           []string `gorm:"type:text;serializer:json" json:"hazards"`
	Boundary          string   `gorm:"type:text" json:"boundary,omitempty"` // GeoJSON 边界
	OtherInformation  string   `gorm:"type:text" json:"other_information,omitempty"`
	TerminalID        *string  `gorm:"type:varchar(20);index" json:"terminal_id"` // 仅在终端被本组占用时非空
	Archived          bool     `gorm:"not null;default:false;index" json:"archived"`

	// Relations - 关联关系
	Terminal     *Terminal     `gorm:"foreignKey:TerminalID" json:"terminal,omitempty"`
	FocalPersons []FocalPerson `gorm:"foreignKey:GroupID" json:"focal_persons,omitempty"`
}

// TableName 指定表名
func (CommunityGroup) TableName() string {
	return "community_groups"
}

// Clone returns a copy that shares no slices or pointers with the receiver.
func (g CommunityGroup) Clone() CommunityGroup {
	c := g
	if g.Hazards != nil {
		c.Hazards = append([]string(nil), g.Hazards...)
	}
	if g.TerminalID != nil {
		id := *g.TerminalID
		c.TerminalID = &id
	}
	c.Terminal = nil
	c.FocalPersons = nil
	return c
}
