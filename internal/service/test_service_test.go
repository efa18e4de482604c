package service

import (
	"sort"
	"testing"

	"mcq_platform_backend/internal/model"
	"mcq_platform_backend/internal/repository"
	"mcq_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTestAdminStore struct {
	tests map[string]*model.Test
	next  int
}

func newFakeTestAdminStore() *fakeTestAdminStore {
	return &fakeTestAdminStore{tests: make(map[string]*model.Test)}
}

func (f *fakeTestAdminStore) Create(test *model.Test) error {
	f.next++
	test.ID = model.GenerateUUID()
	f.tests[test.ID] = test
	return nil
}

func (f *fakeTestAdminStore) FindByID(id string) (*model.Test, error) {
	test, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (f *fakeTestAdminStore) Update(test *model.Test) error {
	f.tests[test.ID] = test
	return nil
}

func (f *fakeTestAdminStore) Delete(id string) error {
	delete(f.tests, id)
	return nil
}

func (f *fakeTestAdminStore) List(page, limit int) ([]repository.TestListRow, int64, error) {
	rows := make([]repository.TestListRow, 0, len(f.tests))
	for _, t := range f.tests {
		rows = append(rows, repository.TestListRow{Test: *t})
	}
	return rows, int64(len(rows)), nil
}

type fakeQuestionAdminStore struct {
	questions map[string]*model.Question
}

func newFakeQuestionAdminStore() *fakeQuestionAdminStore {
	return &fakeQuestionAdminStore{questions: make(map[string]*model.Question)}
}

func (f *fakeQuestionAdminStore) Create(q *model.Question) error {
	if q.ID == "" {
		q.ID = model.GenerateUUID()
	}
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionAdminStore) Update(q *model.Question) error {
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionAdminStore) Delete(id string) error {
	delete(f.questions, id)
	return nil
}

func (f *fakeQuestionAdminStore) ListByTest(testID string) ([]model.Question, error) {
	var qs []model.Question
	for _, q := range f.questions {
		if q.TestID == testID {
			qs = append(qs, *q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].CreatedAt.Before(qs[j].CreatedAt) })
	return qs, nil
}

type fakeAttemptAdminStore struct {
	attempts map[string]*model.TestAttempt
}

func (f *fakeAttemptAdminStore) FindByID(id string) (*model.TestAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAttemptAdminStore) ListByTest(testID string, page, limit int, studentName string) ([]model.TestAttempt, int64, error) {
	var out []model.TestAttempt
	for _, a := range f.attempts {
		if a.TestID == testID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func authoringFixture() (*TestService, *fakeTestAdminStore, *fakeQuestionAdminStore) {
	tests := newFakeTestAdminStore()
	questions := newFakeQuestionAdminStore()
	attempts := &fakeAttemptAdminStore{attempts: make(map[string]*model.TestAttempt)}
	return NewTestService(tests, questions, attempts), tests, questions
}

func strPtr(s string) *string { return &s }

func validQuestions() []QuestionReq {
	return []QuestionReq{
		{QuestionText: "What prints?", OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", CorrectAnswer: "B", Explanation: "because"},
		{QuestionText: "What errors?", OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", CorrectAnswer: "D"},
	}
}

func TestCreateTestValidation(t *testing.T) {
	svc, _, _ := authoringFixture()

	qs := validQuestions()

	tests := []struct {
		name string
		req  TestReq
	}{
		{"missing name", TestReq{Questions: &qs}},
		{"blank name", TestReq{Name: strPtr("  "), Questions: &qs}},
		{"no questions", TestReq{Name: strPtr("T")}},
		{"empty questions", TestReq{Name: strPtr("T"), Questions: &[]QuestionReq{}}},
		{"bad correct answer", TestReq{Name: strPtr("T"), Questions: &[]QuestionReq{
			{QuestionText: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "E"},
		}}},
		{"missing option", TestReq{Name: strPtr("T"), Questions: &[]QuestionReq{
			{QuestionText: "q", OptionA: "a", OptionB: "b", OptionC: "c", CorrectAnswer: "A"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTest(1, tt.req)
			assert.ErrorIs(t, err, util.ErrInvalidInput)
		})
	}
}

func TestCreateTestPreservesQuestionOrder(t *testing.T) {
	svc, _, questions := authoringFixture()

	qs := validQuestions()
	test, err := svc.CreateTest(7, TestReq{Name: strPtr("Basics"), Questions: &qs})
	require.NoError(t, err)
	assert.Equal(t, uint(7), test.CreatorID)

	stored, err := questions.ListByTest(test.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "What prints?", stored[0].QuestionText)
	assert.Equal(t, "What errors?", stored[1].QuestionText)
	assert.True(t, stored[0].CreatedAt.Before(stored[1].CreatedAt))
}

func TestUpdateTestReconcilesQuestions(t *testing.T) {
	svc, _, questions := authoringFixture()

	qs := validQuestions()
	test, err := svc.CreateTest(1, TestReq{Name: strPtr("Basics"), Questions: &qs})
	require.NoError(t, err)

	stored, err := questions.ListByTest(test.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// keep the first (edited), drop the second, add a new one
	updated := []QuestionReq{
		{ID: stored[0].ID, QuestionText: "Edited?", OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", CorrectAnswer: "A"},
		{QuestionText: "Brand new?", OptionA: "w", OptionB: "x", OptionC: "y", OptionD: "z", CorrectAnswer: "C"},
	}
	_, err = svc.UpdateTest(test.ID, TestReq{Name: strPtr("Basics v2"), Questions: &updated})
	require.NoError(t, err)

	after, err := questions.ListByTest(test.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)

	texts := []string{after[0].QuestionText, after[1].QuestionText}
	assert.Contains(t, texts, "Edited?")
	assert.Contains(t, texts, "Brand new?")
	assert.NotContains(t, texts, "What errors?")

	got, err := svc.Tests.FindByID(test.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basics v2", got.Name)
}

func TestUpdateTestUnknownID(t *testing.T) {
	svc, _, _ := authoringFixture()

	_, err := svc.UpdateTest("missing", TestReq{Name: strPtr("X")})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
