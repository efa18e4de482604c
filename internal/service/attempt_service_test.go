package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"mcq_platform_backend/internal/model"
	"mcq_platform_backend/internal/util"
	"mcq_platform_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeTestStore struct {
	tests map[string]*model.Test
	err   error
}

func (f *fakeTestStore) FindByID(id string) (*model.Test, error) {
	if f.err != nil {
		return nil, f.err
	}
	test, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return test, nil
}

type fakeQuestionStore struct {
	questions map[string][]model.Question
	err       error
}

func (f *fakeQuestionStore) ListByTest(testID string) ([]model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions[testID], nil
}

type fakeAttemptStore struct {
	created []*model.TestAttempt
	err     error
}

func (f *fakeAttemptStore) Create(attempt *model.TestAttempt) error {
	if f.err != nil {
		return f.err
	}
	attempt.ID = "attempt-1"
	f.created = append(f.created, attempt)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*model.AttemptSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.AttemptSession)}
}

func (f *fakeSessionStore) Save(_ context.Context, s *model.AttemptSession) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Find(_ context.Context, id string) (*model.AttemptSession, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeSound struct{ url string }

func (f *fakeSound) CompletionSoundURL(context.Context) (string, error) {
	if f.url == "" {
		return "", errors.New("sound missing")
	}
	return f.url, nil
}

func fixtureService() (*AttemptService, *fakeTestStore, *fakeQuestionStore, *fakeAttemptStore, *fakeSessionStore) {
	test := &model.Test{Name: "Basics"}
	test.ID = "test-1"

	q1 := question("q1", "B")
	q1.TestID = "test-1"
	q2 := question("q2", "C")
	q2.TestID = "test-1"

	tests := &fakeTestStore{tests: map[string]*model.Test{"test-1": test}}
	questions := &fakeQuestionStore{questions: map[string][]model.Question{"test-1": {q1, q2}}}
	attempts := &fakeAttemptStore{}
	sessions := newFakeSessionStore()

	svc := NewAttemptService(tests, questions, attempts, sessions, &fakeSound{url: "/uploads/sounds/timer.mp3"})
	return svc, tests, questions, attempts, sessions
}

func TestLoadTestNotFound(t *testing.T) {
	svc, _, _, _, _ := fixtureService()

	_, _, err := svc.LoadTest("missing")
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestLoadTestWrapsReadErrors(t *testing.T) {
	svc, tests, _, _, _ := fixtureService()
	tests.err = errors.New("connection refused")

	_, _, err := svc.LoadTest("test-1")
	assert.ErrorIs(t, err, util.ErrLoadFailure)
}

func TestLoadTestRejectsInvalidRows(t *testing.T) {
	svc, _, questions, _, _ := fixtureService()

	bad := question("q3", "X")
	questions.questions["test-1"] = append(questions.questions["test-1"], bad)

	_, _, err := svc.LoadTest("test-1")
	assert.ErrorIs(t, err, util.ErrLoadFailure)
}

func TestStartAttemptOnEmptyTest(t *testing.T) {
	svc, tests, questions, _, _ := fixtureService()

	empty := &model.Test{Name: "Empty"}
	empty.ID = "test-2"
	tests.tests["test-2"] = empty
	questions.questions["test-2"] = nil

	_, err := svc.StartAttempt(context.Background(), "test-2", "", false)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestGetSessionUnknown(t *testing.T) {
	svc, _, _, _, _ := fixtureService()

	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, util.ErrSessionUnknown)
}

func TestRecordAnswerRejectsBadInput(t *testing.T) {
	svc, _, _, _, _ := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "E")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "other", "A")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestSubmitRequiresName(t *testing.T) {
	svc, _, _, attempts, _ := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, view.SessionID, "q2", "C")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, view.SessionID, "")
	assert.ErrorIs(t, err, util.ErrNameRequired)
	assert.Empty(t, attempts.created)
}

func TestSubmitRequiresEveryAnswer(t *testing.T) {
	svc, _, _, attempts, _ := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "Alex", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, view.SessionID, "")
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)
	assert.Empty(t, attempts.created)
}

func TestRejectedSubmitLeavesSessionUnchanged(t *testing.T) {
	svc, _, _, attempts, sessions := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)

	// incomplete answers with a name supplied: rejected, and the name must
	// not stick to the stored session
	_, err = svc.Submit(ctx, view.SessionID, "Alex")
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)
	assert.Empty(t, sessions.sessions[view.SessionID].StudentName)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, view.SessionID, "q2", "C")
	require.NoError(t, err)

	// complete but anonymous: still rejected
	_, err = svc.Submit(ctx, view.SessionID, "")
	assert.ErrorIs(t, err, util.ErrNameRequired)
	assert.Empty(t, attempts.created)
}

func TestSubmitScoresAndPersists(t *testing.T) {
	svc, _, _, attempts, _ := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, view.SessionID, "q2", "A")
	require.NoError(t, err)

	result, err := svc.Submit(ctx, view.SessionID, "Alex")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 50, result.Percentage)
	assert.False(t, result.Passed)
	assert.Equal(t, ClassificationNeedsImprovement, result.Classification)
	assert.Equal(t, "Alex", result.StudentName)
	assert.Equal(t, "/uploads/sounds/timer.mp3", result.SoundURL)

	require.Len(t, attempts.created, 1)
	stored := attempts.created[0]
	assert.Equal(t, "test-1", stored.TestID)
	assert.Equal(t, "Alex", stored.StudentName)
	assert.Equal(t, 1, stored.Score)
	assert.Equal(t, 2, stored.TotalQuestions)
	assert.False(t, stored.CompletedAt.IsZero())

	// session is gone after submission
	_, err = svc.GetSession(ctx, view.SessionID)
	assert.ErrorIs(t, err, util.ErrSessionUnknown)
}

func TestSubmitPassesAtThreshold(t *testing.T) {
	svc, tests, questions, _, _ := fixtureService()
	ctx := context.Background()

	test := &model.Test{Name: "Five"}
	test.ID = "test-5"
	tests.tests["test-5"] = test
	qs := make([]model.Question, 5)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		qs[i] = question(id, "A")
		qs[i].TestID = "test-5"
	}
	questions.questions["test-5"] = qs

	view, err := svc.StartAttempt(ctx, "test-5", "Sam", false)
	require.NoError(t, err)

	answers := map[string]string{"a": "A", "b": "A", "c": "A", "d": "B", "e": "B"}
	for id, label := range answers {
		_, err = svc.RecordAnswer(ctx, view.SessionID, id, label)
		require.NoError(t, err)
	}

	result, err := svc.Submit(ctx, view.SessionID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 60, result.Percentage)
	assert.True(t, result.Passed)
	assert.Equal(t, ClassificationPassed, result.Classification)
}

func TestSubmitKeepsScoreWhenPersistFails(t *testing.T) {
	svc, _, _, attempts, sessions := fixtureService()
	ctx := context.Background()

	attempts.err = errors.New("table locked")

	view, err := svc.StartAttempt(ctx, "test-1", "Alex", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, view.SessionID, "q2", "C")
	require.NoError(t, err)

	result, err := svc.Submit(ctx, view.SessionID, "")
	assert.ErrorIs(t, err, util.ErrAttemptPersist)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Passed)

	// the session survives so the student can retry the submission
	_, ok := sessions.sessions[view.SessionID]
	assert.True(t, ok)
}

func TestSubmitSwallowsSoundFailure(t *testing.T) {
	svc, _, _, _, _ := fixtureService()
	svc.Sound = &fakeSound{}
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "Alex", false)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "B")
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, view.SessionID, "q2", "C")
	require.NoError(t, err)

	result, err := svc.Submit(ctx, view.SessionID, "")
	require.NoError(t, err)
	assert.Empty(t, result.SoundURL)
}

func TestRevealOnlyWithFlag(t *testing.T) {
	svc, _, _, _, _ := fixtureService()
	ctx := context.Background()

	// flag off: answering reveals nothing
	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)
	view, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "A")
	require.NoError(t, err)
	require.NotNil(t, view.Question)
	assert.Empty(t, view.Question.CorrectAnswer)
	assert.Empty(t, view.Question.Explanation)

	// flag on: answering reveals, navigating away hides again
	view, err = svc.StartAttempt(ctx, "test-1", "", true)
	require.NoError(t, err)
	view, err = svc.RecordAnswer(ctx, view.SessionID, "q1", "A")
	require.NoError(t, err)
	require.NotNil(t, view.Question)
	assert.Equal(t, "B", view.Question.CorrectAnswer)

	view, err = svc.Navigate(ctx, view.SessionID, true)
	require.NoError(t, err)
	require.NotNil(t, view.Question)
	assert.Equal(t, "q2", view.Question.ID)
	assert.Empty(t, view.Question.CorrectAnswer)
}

func TestNavigateClampsAtEnds(t *testing.T) {
	svc, _, _, _, _ := fixtureService()
	ctx := context.Background()

	view, err := svc.StartAttempt(ctx, "test-1", "", false)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex)

	view, err = svc.Navigate(ctx, view.SessionID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex)

	view, err = svc.Navigate(ctx, view.SessionID, true)
	require.NoError(t, err)
	view, err = svc.Navigate(ctx, view.SessionID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentIndex)
	assert.Equal(t, "q2", view.Question.ID)
}
