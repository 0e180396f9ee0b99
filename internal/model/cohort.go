package model

import "time"

type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipDisabled MembershipStatus = "disabled"
)

// CohortConfig 班级配置，决定阶段延迟解锁策略
// swagger:model CohortConfig
type CohortConfig struct {
	BaseModel
	ProgramID      uint      `gorm:"not null;index" json:"programId"`
	OrganizationID uint      `gorm:"not null;default:0" json:"organizationId"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	// DelayedStageUnlockEnabled 开启后第 i 个阶段在 startDate + i*delayInDays 之前锁定
	DelayedStageUnlockEnabled bool `gorm:"default:false" json:"delayedStageUnlockEnabled"`
	DelayInDays               int  `gorm:"default:0" json:"delayInDays"`
}

func (CohortConfig) TableName() string {
	return "cohort_configs"
}

// UserCohortMembership 用户与班级的关系，承载排行榜积分
// swagger:model UserCohortMembership
type UserCohortMembership struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:uq_user_cohort" json:"userId"`
	CohortID uint `gorm:"not null;uniqueIndex:uq_user_cohort" json:"cohortId"`
	// LeaderboardScore 单调递增，只通过提交得分累加
	LeaderboardScore int              `gorm:"not null;default:0" json:"leaderboardScore"`
	Status           MembershipStatus `gorm:"type:enum('active','disabled');default:'active'" json:"status"`
}

func (UserCohortMembership) TableName() string {
	return "user_cohort_memberships"
}
