package model

import "time"

// CompletionFact 用户完成某个子概念的持久记录
// (user_id, subconcept_id) 唯一，重复提交只更新时间戳，永不产生重复行
// swagger:model CompletionFact
type CompletionFact struct {
	BaseModel
	UserID       uint      `gorm:"not null;uniqueIndex:uq_user_subconcept" json:"userId"`
	SubconceptID uint      `gorm:"not null;uniqueIndex:uq_user_subconcept" json:"subconceptId"`
	UnitID       uint      `gorm:"not null;index" json:"unitId"`
	StageID      uint      `gorm:"not null;index" json:"stageId"`
	ProgramID    uint      `gorm:"not null;index" json:"programId"`
	Completed    bool      `gorm:"not null;default:true" json:"completed"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (CompletionFact) TableName() string {
	return "completion_facts"
}

// AttemptRecord 每次提交的追加日志，独立于 CompletionFact
// swagger:model AttemptRecord
type AttemptRecord struct {
	BaseModel
	AttemptUID   string    `gorm:"size:36;uniqueIndex" json:"attemptUid"`
	UserID       uint      `gorm:"not null;index:idx_attempt_user_sub" json:"userId"`
	SubconceptID uint      `gorm:"not null;index:idx_attempt_user_sub" json:"subconceptId"`
	UnitID       uint      `gorm:"not null" json:"unitId"`
	StageID      uint      `gorm:"not null" json:"stageId"`
	ProgramID    uint      `gorm:"not null" json:"programId"`
	CohortID     uint      `gorm:"not null" json:"cohortId"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

func (AttemptRecord) TableName() string {
	return "attempt_records"
}
