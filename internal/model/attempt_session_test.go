package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(immediateReveal bool) *AttemptSession {
	return &AttemptSession{
		ID:              "sess-1",
		TestID:          "test-1",
		QuestionIDs:     []string{"q1", "q2", "q3"},
		Answers:         make(map[string]string),
		ImmediateReveal: immediateReveal,
	}
}

func TestRecordAnswerReplacesPriorChoice(t *testing.T) {
	s := newSession(false)

	require.NoError(t, s.RecordAnswer("q1", "A"))
	require.NoError(t, s.RecordAnswer("q1", "C"))

	assert.Equal(t, "C", s.Answers["q1"])
	assert.Equal(t, 1, s.AnsweredCount())
}

func TestRecordAnswerValidation(t *testing.T) {
	s := newSession(false)

	err := s.RecordAnswer("q1", "E")
	assert.ErrorIs(t, err, ErrInvalidOption)

	err = s.RecordAnswer("q1", "a")
	assert.ErrorIs(t, err, ErrInvalidOption)

	err = s.RecordAnswer("nope", "A")
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	assert.Equal(t, 0, s.AnsweredCount())
}

func TestRecordAnswerRevealsOnlyWhenEnabled(t *testing.T) {
	s := newSession(false)
	require.NoError(t, s.RecordAnswer("q1", "A"))
	assert.False(t, s.Revealed)

	s = newSession(true)
	require.NoError(t, s.RecordAnswer("q1", "A"))
	assert.True(t, s.Revealed)
}

func TestNavigationClampsAndResetsReveal(t *testing.T) {
	s := newSession(true)

	s.Previous()
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, "q1", s.CurrentQuestionID())

	require.NoError(t, s.RecordAnswer("q1", "B"))
	assert.True(t, s.Revealed)

	s.Next()
	assert.Equal(t, 1, s.CurrentIndex)
	assert.False(t, s.Revealed)

	s.Next()
	s.Next()
	s.Next()
	assert.Equal(t, 2, s.CurrentIndex)
	assert.Equal(t, "q3", s.CurrentQuestionID())

	s.Previous()
	assert.Equal(t, 1, s.CurrentIndex)
}

func TestCompleteRequiresEveryQuestion(t *testing.T) {
	s := newSession(false)
	assert.False(t, s.Complete())

	require.NoError(t, s.RecordAnswer("q1", "A"))
	require.NoError(t, s.RecordAnswer("q2", "B"))
	assert.False(t, s.Complete())

	require.NoError(t, s.RecordAnswer("q3", "D"))
	assert.True(t, s.Complete())
}
