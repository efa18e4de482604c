package model

import (
	"time"

	"gorm.io/datatypes"
)

// TestAttempt is one student's completed, scored submission for a test.
// Rows are written exactly once and never updated.
// swagger:model TestAttempt
type TestAttempt struct {
	UUIDBase
	TestID         string         `gorm:"index;type:varchar(36)" json:"testId"`
	StudentName    string         `gorm:"size:100;not null" json:"studentName"`
	Answers        datatypes.JSON `gorm:"type:json" json:"answers"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	CompletedAt    time.Time      `json:"completedAt"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}
