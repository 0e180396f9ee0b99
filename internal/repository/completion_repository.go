package repository

import (
	"lms_progress_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// Upsert 原子写入完成记录
// 并发重复提交依赖 (user_id, subconcept_id) 唯一索引，冲突时退化为更新，
// 不走先查后插，避免竞态下产生重复行
func (r *CompletionRepository) Upsert(tx *gorm.DB, fact *model.CompletionFact) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "subconcept_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed", "completed_at", "updated_at",
		}),
	}).Create(fact).Error
}

func (r *CompletionRepository) FindByUserAndSubconcept(userID, subconceptID uint) (*model.CompletionFact, error) {
	var fact model.CompletionFact
	err := r.DB.Where("user_id = ? AND subconcept_id = ?", userID, subconceptID).
		First(&fact).Error
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// CompletedSetByUnit 单元内已完成的子概念 ID 集合
func (r *CompletionRepository) CompletedSetByUnit(userID, unitID uint) (map[uint]bool, error) {
	var facts []model.CompletionFact
	err := r.DB.Where("user_id = ? AND unit_id = ? AND completed = ?", userID, unitID, true).
		Find(&facts).Error
	if err != nil {
		return nil, err
	}
	return toCompletedSet(facts), nil
}

// CompletedSetByStage 阶段内已完成的子概念 ID 集合
func (r *CompletionRepository) CompletedSetByStage(userID, stageID uint) (map[uint]bool, error) {
	var facts []model.CompletionFact
	err := r.DB.Where("user_id = ? AND stage_id = ? AND completed = ?", userID, stageID, true).
		Find(&facts).Error
	if err != nil {
		return nil, err
	}
	return toCompletedSet(facts), nil
}

// CompletedSetByProgram 整个项目内已完成的子概念 ID 集合
func (r *CompletionRepository) CompletedSetByProgram(userID, programID uint) (map[uint]bool, error) {
	var facts []model.CompletionFact
	err := r.DB.Where("user_id = ? AND program_id = ? AND completed = ?", userID, programID, true).
		Find(&facts).Error
	if err != nil {
		return nil, err
	}
	return toCompletedSet(facts), nil
}

func toCompletedSet(facts []model.CompletionFact) map[uint]bool {
	set := make(map[uint]bool, len(facts))
	for _, f := range facts {
		set[f.SubconceptID] = true
	}
	return set
}
