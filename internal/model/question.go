package model

import "fmt"

// Option labels for a question. Every question carries exactly four options.
const (
	LabelA = "A"
	LabelB = "B"
	LabelC = "C"
	LabelD = "D"
)

var OptionLabels = []string{LabelA, LabelB, LabelC, LabelD}

func ValidLabel(label string) bool {
	for _, l := range OptionLabels {
		if label == l {
			return true
		}
	}
	return false
}

// swagger:model Question
type Question struct {
	UUIDBase
	TestID        string `gorm:"index;type:varchar(36)" json:"testId"`
	QuestionText  string `gorm:"type:text;not null" json:"questionText"`
	OptionA       string `gorm:"type:text;not null" json:"optionA"`
	OptionB       string `gorm:"type:text;not null" json:"optionB"`
	OptionC       string `gorm:"type:text;not null" json:"optionC"`
	OptionD       string `gorm:"type:text;not null" json:"optionD"`
	CorrectAnswer string `gorm:"size:1;not null" json:"correctAnswer"`
	Explanation   string `gorm:"type:text" json:"explanation,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionText returns the option text for a label, or "" for an unknown label.
func (q *Question) OptionText(label string) string {
	switch label {
	case LabelA:
		return q.OptionA
	case LabelB:
		return q.OptionB
	case LabelC:
		return q.OptionC
	case LabelD:
		return q.OptionD
	}
	return ""
}

// Validate checks the row shape at the storage boundary so the attempt flow
// never sees a question it cannot score.
func (q *Question) Validate() error {
	if q.QuestionText == "" {
		return fmt.Errorf("question %s: empty question text", q.ID)
	}
	if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return fmt.Errorf("question %s: empty option text", q.ID)
	}
	if !ValidLabel(q.CorrectAnswer) {
		return fmt.Errorf("question %s: correct answer %q is not one of A-D", q.ID, q.CorrectAnswer)
	}
	return nil
}
