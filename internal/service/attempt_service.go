package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mcq_platform_backend/internal/model"
	"mcq_platform_backend/internal/util"
	"mcq_platform_backend/pkg/logger"
	"mcq_platform_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores consumed by the attempt flow. They are satisfied by the repository
// types and by in-memory substitutes in tests.
type TestStore interface {
	FindByID(id string) (*model.Test, error)
}

type QuestionStore interface {
	ListByTest(testID string) ([]model.Question, error)
}

type AttemptStore interface {
	Create(attempt *model.TestAttempt) error
}

type AttemptSessionStore interface {
	Save(ctx context.Context, session *model.AttemptSession) error
	Find(ctx context.Context, id string) (*model.AttemptSession, error)
	Delete(ctx context.Context, id string) error
}

// SoundCue resolves the completion-sound asset. Failures are swallowed: a
// missing sound never affects the result of a submission.
type SoundCue interface {
	CompletionSoundURL(ctx context.Context) (string, error)
}

type AttemptService struct {
	Tests     TestStore
	Questions QuestionStore
	Attempts  AttemptStore
	Sessions  AttemptSessionStore
	Sound     SoundCue
}

func NewAttemptService(tests TestStore, questions QuestionStore, attempts AttemptStore, sessions AttemptSessionStore, sound SoundCue) *AttemptService {
	return &AttemptService{
		Tests:     tests,
		Questions: questions,
		Attempts:  attempts,
		Sessions:  sessions,
		Sound:     sound,
	}
}

// LoadTest fetches a test and its questions ordered by ascending creation
// time. Rows are validated at this boundary so the rest of the flow never
// handles a question it cannot score. Zero questions is a valid empty result.
func (s *AttemptService) LoadTest(testID string) (*model.Test, []model.Question, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrTestNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}

	questions, err := s.Questions.ListByTest(testID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
		}
	}

	return test, questions, nil
}

// StudentQuestion is a question as shown to the student mid-attempt: the
// correct answer and explanation are withheld until revealed or submitted.
type StudentQuestion struct {
	ID            string        `json:"id"`
	Segments      []TextSegment `json:"segments"`
	OptionA       string        `json:"optionA"`
	OptionB       string        `json:"optionB"`
	OptionC       string        `json:"optionC"`
	OptionD       string        `json:"optionD"`
	Selected      string        `json:"selected,omitempty"`
	CorrectAnswer string        `json:"correctAnswer,omitempty"`
	Explanation   string        `json:"explanation,omitempty"`
}

type SessionView struct {
	SessionID       string           `json:"sessionId"`
	TestID          string           `json:"testId"`
	TestName        string           `json:"testName"`
	StudentName     string           `json:"studentName,omitempty"`
	CurrentIndex    int              `json:"currentIndex"`
	TotalQuestions  int              `json:"totalQuestions"`
	AnsweredCount   int              `json:"answeredCount"`
	ImmediateReveal bool             `json:"immediateReveal"`
	Question        *StudentQuestion `json:"question,omitempty"`
}

// StartAttempt creates a fresh server-side session for a test. A test with no
// questions cannot be attempted and reads as unavailable, matching the
// student-facing behavior for missing tests.
func (s *AttemptService) StartAttempt(ctx context.Context, testID, studentName string, immediateReveal bool) (*SessionView, error) {
	test, questions, err := s.LoadTest(testID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrTestNotFound
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	session := &model.AttemptSession{
		ID:              model.GenerateUUID(),
		TestID:          testID,
		StudentName:     studentName,
		QuestionIDs:     ids,
		Answers:         make(map[string]string),
		ImmediateReveal: immediateReveal,
		StartedAt:       time.Now(),
	}

	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}

	return s.buildView(session, test, questions), nil
}

// GetSession returns the current state of an in-progress attempt.
func (s *AttemptService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	test, questions, err := s.LoadTest(session.TestID)
	if err != nil {
		return nil, err
	}

	return s.buildView(session, test, questions), nil
}

// RecordAnswer stores or replaces the student's selection for a question.
func (s *AttemptService) RecordAnswer(ctx context.Context, sessionID, questionID, label string) (*SessionView, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.RecordAnswer(questionID, label); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}

	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}

	test, questions, err := s.LoadTest(session.TestID)
	if err != nil {
		return nil, err
	}

	return s.buildView(session, test, questions), nil
}

// Navigate moves the current-question pointer. Movement past either end is a
// no-op; the pointer clamps.
func (s *AttemptService) Navigate(ctx context.Context, sessionID string, forward bool) (*SessionView, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if forward {
		session.Next()
	} else {
		session.Previous()
	}

	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}

	test, questions, err := s.LoadTest(session.TestID)
	if err != nil {
		return nil, err
	}

	return s.buildView(session, test, questions), nil
}

type SubmitResult struct {
	AttemptID      string            `json:"attemptId,omitempty"`
	TestID         string            `json:"testId"`
	StudentName    string            `json:"studentName"`
	Answers        map[string]string `json:"answers"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	Percentage     int               `json:"percentage"`
	Passed         bool              `json:"passed"`
	Classification string            `json:"classification"`
	SoundURL       string            `json:"soundUrl,omitempty"`
}

// Submit finalizes the attempt: it checks the preconditions, computes the
// score and writes exactly one attempt row. When the write fails the computed
// result is still returned alongside ErrAttemptPersist so the caller can
// decide to retry; nothing is retried here.
func (s *AttemptService) Submit(ctx context.Context, sessionID, studentName string) (*SubmitResult, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Resolve the effective name without touching the session: a rejected
	// submission must leave it unchanged.
	name := session.StudentName
	if studentName != "" {
		name = studentName
	}
	if name == "" {
		return nil, util.ErrNameRequired
	}

	test, questions, err := s.LoadTest(session.TestID)
	if err != nil {
		return nil, err
	}

	if !session.Complete() {
		return nil, util.ErrIncompleteAnswers
	}

	score := Score(questions, session.Answers)
	percentage := Percentage(score, len(questions))

	result := &SubmitResult{
		TestID:         test.ID,
		StudentName:    name,
		Answers:        session.Answers,
		Score:          score,
		TotalQuestions: len(questions),
		Percentage:     percentage,
		Passed:         percentage >= PassThreshold,
		Classification: Classify(percentage),
	}

	answersJSON, err := json.Marshal(session.Answers)
	if err != nil {
		return result, fmt.Errorf("%w: %v", util.ErrAttemptPersist, err)
	}

	attempt := &model.TestAttempt{
		TestID:         test.ID,
		StudentName:    name,
		Answers:        answersJSON,
		Score:          score,
		TotalQuestions: len(questions),
		CompletedAt:    time.Now(),
	}

	if err := s.Attempts.Create(attempt); err != nil {
		return result, fmt.Errorf("%w: %v", util.ErrAttemptPersist, err)
	}
	result.AttemptID = attempt.ID

	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		logger.Log.Warn("failed to drop attempt session", zap.String("session", sessionID), zap.Error(err))
	}

	if s.Sound != nil {
		if url, err := s.Sound.CompletionSoundURL(ctx); err == nil {
			result.SoundURL = url
		}
	}

	monitoring.AttemptsSubmitted.WithLabelValues(result.Classification).Inc()

	return result, nil
}

func (s *AttemptService) findSession(ctx context.Context, sessionID string) (*model.AttemptSession, error) {
	session, err := s.Sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrLoadFailure, err)
	}
	if session == nil {
		return nil, util.ErrSessionUnknown
	}
	return session, nil
}

func (s *AttemptService) buildView(session *model.AttemptSession, test *model.Test, questions []model.Question) *SessionView {
	view := &SessionView{
		SessionID:       session.ID,
		TestID:          test.ID,
		TestName:        test.Name,
		StudentName:     session.StudentName,
		CurrentIndex:    session.CurrentIndex,
		TotalQuestions:  len(questions),
		AnsweredCount:   session.AnsweredCount(),
		ImmediateReveal: session.ImmediateReveal,
	}

	currentID := session.CurrentQuestionID()
	for i := range questions {
		q := &questions[i]
		if q.ID != currentID {
			continue
		}
		sq := &StudentQuestion{
			ID:       q.ID,
			Segments: SplitQuestionText(q.QuestionText),
			OptionA:  q.OptionA,
			OptionB:  q.OptionB,
			OptionC:  q.OptionC,
			OptionD:  q.OptionD,
			Selected: session.Answers[q.ID],
		}
		if session.ImmediateReveal && session.Revealed {
			sq.CorrectAnswer = q.CorrectAnswer
			sq.Explanation = q.Explanation
		}
		view.Question = sq
		break
	}

	return view
}
