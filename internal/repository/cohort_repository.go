package repository

import (
	"lms_progress_backend/internal/model"

	"gorm.io/gorm"
)

type CohortRepository struct {
	DB *gorm.DB
}

func NewCohortRepository(db *gorm.DB) *CohortRepository {
	return &CohortRepository{DB: db}
}

func (r *CohortRepository) FindByID(id uint) (*model.CohortConfig, error) {
	var cohort model.CohortConfig
	err := r.DB.First(&cohort, id).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

// FindUserCohortForProgram 用户在某项目下所属的班级配置
func (r *CohortRepository) FindUserCohortForProgram(userID, programID uint) (*model.CohortConfig, error) {
	var cohort model.CohortConfig
	err := r.DB.
		Joins("JOIN user_cohort_memberships m ON m.cohort_id = cohort_configs.id").
		Where("m.user_id = ? AND cohort_configs.program_id = ? AND m.status = ? AND m.deleted_at IS NULL",
			userID, programID, model.MembershipActive).
		First(&cohort).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

func (r *CohortRepository) FindMembership(userID, cohortID uint) (*model.UserCohortMembership, error) {
	var m model.UserCohortMembership
	err := r.DB.Where("user_id = ? AND cohort_id = ?", userID, cohortID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ActiveMemberships 班级的有效成员，按排行榜积分降序
func (r *CohortRepository) ActiveMemberships(cohortID uint) ([]model.UserCohortMembership, error) {
	var memberships []model.UserCohortMembership
	err := r.DB.Where("cohort_id = ? AND status = ?", cohortID, model.MembershipActive).
		Order("leaderboard_score DESC").
		Find(&memberships).Error
	return memberships, err
}

// AddLeaderboardScore 排行榜积分累加
// 存储层原子自增，不做应用层读改写，并发提交不会丢更新
func (r *CohortRepository) AddLeaderboardScore(tx *gorm.DB, userID, cohortID uint, delta int) error {
	return tx.Model(&model.UserCohortMembership{}).
		Where("user_id = ? AND cohort_id = ? AND status = ?", userID, cohortID, model.MembershipActive).
		Update("leaderboard_score", gorm.Expr("leaderboard_score + ?", delta)).Error
}
