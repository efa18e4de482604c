package model

// swagger:model Test
type Test struct {
	UUIDBase
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Test) TableName() string {
	return "tests"
}
