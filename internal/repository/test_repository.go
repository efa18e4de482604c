package repository

import (
	"mcq_platform_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id string) (*model.Test, error) {
	var test model.Test
	err := r.DB.First(&test, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

// Delete removes a test together with its questions and attempts.
func (r *TestRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&model.TestAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Test{}, "id = ?", id).Error
	})
}

type TestListRow struct {
	model.Test
	QuestionCount int `json:"questionCount"`
	AttemptCount  int `json:"attemptCount"`
}

// List returns tests newest first with per-test question and attempt counts.
func (r *TestRepository) List(page, limit int) ([]TestListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Test{}).Where("deleted_at IS NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tests []TestListRow
	query := r.DB.Table("tests t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM questions q WHERE q.test_id = t.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM test_attempts a WHERE a.test_id = t.id AND a.deleted_at IS NULL) as attempt_count").
		Where("t.deleted_at IS NULL")

	if limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("t.created_at desc").Scan(&tests).Error
	return tests, total, err
}
