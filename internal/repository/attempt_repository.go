package repository

import (
	"lms_progress_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(tx *gorm.DB, attempt *model.AttemptRecord) error {
	return tx.Create(attempt).Error
}

func (r *AttemptRepository) ListByUserAndSubconcept(userID, subconceptID uint) ([]model.AttemptRecord, error) {
	var attempts []model.AttemptRecord
	err := r.DB.Where("user_id = ? AND subconcept_id = ?", userID, subconceptID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}
