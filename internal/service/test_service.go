package service

import (
	"fmt"
	"strings"
	"time"

	"mcq_platform_backend/internal/model"
	"mcq_platform_backend/internal/repository"
	"mcq_platform_backend/internal/util"
)

// Authoring-side stores. Satisfied by the repository types and by in-memory
// substitutes in tests.
type TestAdminStore interface {
	Create(test *model.Test) error
	FindByID(id string) (*model.Test, error)
	Update(test *model.Test) error
	Delete(id string) error
	List(page, limit int) ([]repository.TestListRow, int64, error)
}

type QuestionAdminStore interface {
	Create(question *model.Question) error
	Update(question *model.Question) error
	Delete(id string) error
	ListByTest(testID string) ([]model.Question, error)
}

type AttemptAdminStore interface {
	FindByID(id string) (*model.TestAttempt, error)
	ListByTest(testID string, page, limit int, studentName string) ([]model.TestAttempt, int64, error)
}

type TestService struct {
	Tests     TestAdminStore
	Questions QuestionAdminStore
	Attempts  AttemptAdminStore
}

func NewTestService(tests TestAdminStore, questions QuestionAdminStore, attempts AttemptAdminStore) *TestService {
	return &TestService{Tests: tests, Questions: questions, Attempts: attempts}
}

type QuestionReq struct {
	ID            string `json:"id"`
	QuestionText  string `json:"questionText"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

type TestReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Questions   *[]QuestionReq `json:"questions"`
}

func validateQuestionReq(i int, q *QuestionReq) error {
	if strings.TrimSpace(q.QuestionText) == "" ||
		strings.TrimSpace(q.OptionA) == "" ||
		strings.TrimSpace(q.OptionB) == "" ||
		strings.TrimSpace(q.OptionC) == "" ||
		strings.TrimSpace(q.OptionD) == "" {
		return fmt.Errorf("%w: question %d is missing text or options", util.ErrInvalidInput, i+1)
	}
	if !model.ValidLabel(q.CorrectAnswer) {
		return fmt.Errorf("%w: question %d correct answer must be one of A-D", util.ErrInvalidInput, i+1)
	}
	return nil
}

// CreateTest creates a test with its questions. Question order follows the
// request; creation timestamps are staggered so created_at ordering matches.
func (s *TestService) CreateTest(creatorID uint, req TestReq) (*model.Test, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: test name is required", util.ErrInvalidInput)
	}
	if req.Questions == nil || len(*req.Questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", util.ErrInvalidInput)
	}
	for i := range *req.Questions {
		if err := validateQuestionReq(i, &(*req.Questions)[i]); err != nil {
			return nil, err
		}
	}

	test := &model.Test{
		Name:      strings.TrimSpace(*req.Name),
		CreatorID: creatorID,
	}
	if req.Description != nil {
		test.Description = *req.Description
	}

	if err := s.Tests.Create(test); err != nil {
		return nil, err
	}

	base := time.Now()
	for i, qReq := range *req.Questions {
		q := &model.Question{
			TestID:        test.ID,
			QuestionText:  qReq.QuestionText,
			OptionA:       qReq.OptionA,
			OptionB:       qReq.OptionB,
			OptionC:       qReq.OptionC,
			OptionD:       qReq.OptionD,
			CorrectAnswer: qReq.CorrectAnswer,
			Explanation:   qReq.Explanation,
		}
		q.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		if err := s.Questions.Create(q); err != nil {
			return nil, err
		}
	}

	return test, nil
}

// UpdateTest applies partial updates; when questions are supplied the stored
// set is reconciled against them (update by id, create new, delete missing).
func (s *TestService) UpdateTest(testID string, req TestReq) (*model.Test, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: test name is required", util.ErrInvalidInput)
		}
		test.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		test.Description = *req.Description
	}

	if err := s.Tests.Update(test); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for i := range *req.Questions {
			if err := validateQuestionReq(i, &(*req.Questions)[i]); err != nil {
				return nil, err
			}
		}

		existing, err := s.Questions.ListByTest(testID)
		if err != nil {
			return nil, err
		}
		existingMap := make(map[string]*model.Question, len(existing))
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		base := time.Now()
		keep := make(map[string]bool)
		for i, qReq := range *req.Questions {
			if q, ok := existingMap[qReq.ID]; qReq.ID != "" && ok {
				q.QuestionText = qReq.QuestionText
				q.OptionA = qReq.OptionA
				q.OptionB = qReq.OptionB
				q.OptionC = qReq.OptionC
				q.OptionD = qReq.OptionD
				q.CorrectAnswer = qReq.CorrectAnswer
				q.Explanation = qReq.Explanation
				if err := s.Questions.Update(q); err != nil {
					return nil, err
				}
				keep[q.ID] = true
				continue
			}

			q := &model.Question{
				TestID:        testID,
				QuestionText:  qReq.QuestionText,
				OptionA:       qReq.OptionA,
				OptionB:       qReq.OptionB,
				OptionC:       qReq.OptionC,
				OptionD:       qReq.OptionD,
				CorrectAnswer: qReq.CorrectAnswer,
				Explanation:   qReq.Explanation,
			}
			q.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
			if err := s.Questions.Create(q); err != nil {
				return nil, err
			}
		}

		for id := range existingMap {
			if !keep[id] {
				if err := s.Questions.Delete(id); err != nil {
					return nil, err
				}
			}
		}
	}

	return test, nil
}

func (s *TestService) DeleteTest(testID string) error {
	return s.Tests.Delete(testID)
}

func (s *TestService) GetTest(testID string) (*model.Test, []model.Question, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		return nil, nil, err
	}
	qs, err := s.Questions.ListByTest(testID)
	return test, qs, err
}

func (s *TestService) ListTests(page, limit int) ([]repository.TestListRow, int64, error) {
	return s.Tests.List(page, limit)
}

func (s *TestService) ListAttempts(testID string, page, limit int, studentName string) ([]model.TestAttempt, int64, error) {
	return s.Attempts.ListByTest(testID, page, limit, studentName)
}

// GetAttemptDetail resolves an attempt with its test and questions so a tutor
// can review a student's answers question by question.
func (s *TestService) GetAttemptDetail(attemptID string) (map[string]interface{}, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		return nil, err
	}

	test, qs, err := s.GetTest(attempt.TestID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"attempt":   attempt,
		"test":      test,
		"questions": qs,
	}, nil
}
