package repository

import (
	"lms_progress_backend/internal/model"

	"gorm.io/gorm"
)

// CurriculumRepository 只读课程结构查询
// 进度计算不做懒加载，全部通过显式 Preload 取出有序结构
type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) ListPrograms() ([]model.Program, error) {
	var programs []model.Program
	err := r.DB.Order("id").Find(&programs).Error
	return programs, err
}

// FindProgramByID 取整个课程树：阶段、单元、子概念映射均按 position 排序
func (r *CurriculumRepository) FindProgramByID(id uint) (*model.Program, error) {
	var program model.Program
	err := r.DB.
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stages.position")
		}).
		Preload("Stages.Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.position")
		}).
		Preload("Stages.Units.Subconcepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("unit_subconcepts.position")
		}).
		Preload("Stages.Units.Subconcepts.Subconcept").
		First(&program, id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *CurriculumRepository) FindStageByID(id uint) (*model.Stage, error) {
	var stage model.Stage
	err := r.DB.
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.position")
		}).
		Preload("Units.Subconcepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("unit_subconcepts.position")
		}).
		Preload("Units.Subconcepts.Subconcept").
		First(&stage, id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *CurriculumRepository) FindUnitByID(id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.
		Preload("Subconcepts", func(db *gorm.DB) *gorm.DB {
			return db.Order("unit_subconcepts.position")
		}).
		Preload("Subconcepts.Subconcept").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *CurriculumRepository) FindSubconceptByID(id uint) (*model.Subconcept, error) {
	var sub model.Subconcept
	err := r.DB.First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SubconceptBelongsToUnit 提交校验用：子概念必须挂在该单元下
func (r *CurriculumRepository) SubconceptBelongsToUnit(subconceptID, unitID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UnitSubconcept{}).
		Where("subconcept_id = ? AND unit_id = ?", subconceptID, unitID).
		Count(&count).Error
	return count > 0, err
}
