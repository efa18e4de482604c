package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidOption   = errors.New("selected option must be one of A-D")
	ErrUnknownQuestion = errors.New("question does not belong to this test")
)

// AttemptSession is the transient state of one in-progress test attempt. It
// lives in the session store for the duration of the attempt and is discarded
// on submission or expiry; only the resulting TestAttempt row is durable.
type AttemptSession struct {
	ID              string            `json:"id"`
	TestID          string            `json:"testId"`
	StudentName     string            `json:"studentName"`
	QuestionIDs     []string          `json:"questionIds"`
	Answers         map[string]string `json:"answers"`
	CurrentIndex    int               `json:"currentIndex"`
	ImmediateReveal bool              `json:"immediateReveal"`
	Revealed        bool              `json:"revealed"`
	StartedAt       time.Time         `json:"startedAt"`
}

// RecordAnswer stores the selection for a question, replacing any prior
// choice. With immediate reveal enabled it also marks the current question as
// revealed until the student navigates away.
func (s *AttemptSession) RecordAnswer(questionID, label string) error {
	if !ValidLabel(label) {
		return ErrInvalidOption
	}
	if !s.contains(questionID) {
		return ErrUnknownQuestion
	}
	if s.Answers == nil {
		s.Answers = make(map[string]string)
	}
	s.Answers[questionID] = label
	if s.ImmediateReveal {
		s.Revealed = true
	}
	return nil
}

// Next advances the current-question pointer, clamping at the last question.
func (s *AttemptSession) Next() {
	if s.CurrentIndex < len(s.QuestionIDs)-1 {
		s.CurrentIndex++
	}
	s.Revealed = false
}

// Previous moves the pointer back, clamping at the first question.
func (s *AttemptSession) Previous() {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
	s.Revealed = false
}

func (s *AttemptSession) CurrentQuestionID() string {
	if len(s.QuestionIDs) == 0 {
		return ""
	}
	return s.QuestionIDs[s.CurrentIndex]
}

func (s *AttemptSession) AnsweredCount() int {
	return len(s.Answers)
}

// Complete reports whether every question in the sequence has an answer.
func (s *AttemptSession) Complete() bool {
	for _, id := range s.QuestionIDs {
		if _, ok := s.Answers[id]; !ok {
			return false
		}
	}
	return true
}

func (s *AttemptSession) contains(questionID string) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}
