package repository

import (
	"mcq_platform_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.TestAttempt, error) {
	var a model.TestAttempt
	err := r.DB.First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByTest returns attempts for a test newest first, optionally filtered by
// a student-name substring.
func (r *AttemptRepository) ListByTest(testID string, page, limit int, studentName string) ([]model.TestAttempt, int64, error) {
	query := r.DB.Model(&model.TestAttempt{}).Where("test_id = ?", testID)

	if studentName != "" {
		query = query.Where("student_name LIKE ?", "%"+studentName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.TestAttempt
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}
