package service

import (
	"fmt"

	"lms_progress_backend/internal/model"
)

// 缓存键的六个层级 + 用户会话级，前缀固定便于按模式清理
const (
	attemptListKeyPrefix    = "progress:attempts:"
	unitReportKeyPrefix     = "progress:unit:"
	stageReportKeyPrefix    = "progress:stage:"
	programReportKeyPrefix  = "progress:program:"
	userProgressKeyPrefix   = "progress:user:"
	cohortProgressKeyPrefix = "progress:cohort:"
	userSessionKeyPrefix    = "session:user:"
)

func AttemptListKey(userID, subconceptID uint) string {
	return fmt.Sprintf("%s%d:%d", attemptListKeyPrefix, userID, subconceptID)
}

func UnitReportKey(userID, unitID uint, role model.UserRole) string {
	return fmt.Sprintf("%s%d:%d:%s", unitReportKeyPrefix, userID, unitID, role)
}

func StageReportKey(userID, stageID uint) string {
	return fmt.Sprintf("%s%d:%d", stageReportKeyPrefix, userID, stageID)
}

func ProgramReportKey(userID, programID uint, role model.UserRole) string {
	return fmt.Sprintf("%s%d:%d:%s", programReportKeyPrefix, userID, programID, role)
}

// UserProgressKey 与 ProgramReportKey 是不同的键空间：前者以项目为首键，
// 供导出和班级视图使用
func UserProgressKey(programID, userID uint, role model.UserRole) string {
	return fmt.Sprintf("%s%d:%d:%s", userProgressKeyPrefix, programID, userID, role)
}

func CohortProgressKey(programID, cohortID uint) string {
	return fmt.Sprintf("%s%d:%d", cohortProgressKeyPrefix, programID, cohortID)
}

func UserSessionKey(userID uint) string {
	return fmt.Sprintf("%s%d", userSessionKeyPrefix, userID)
}

// FactScope 一次完成事实变化的作用域
type FactScope struct {
	UserID       uint
	SubconceptID uint
	UnitID       uint
	StageID      uint
	ProgramID    uint
	CohortID     uint
	Role         model.UserRole
}

// KeysForFactChange 失效键推导表
//
// 完成事实变化后必须驱逐的全部缓存键，按层级从细到粗排列。
// 顺序只为排查方便，不承载语义；漏掉任何一层都会造成脏读，
// 所以新增缓存层级时必须同步补进这张表
func KeysForFactChange(s FactScope) []string {
	return []string{
		AttemptListKey(s.UserID, s.SubconceptID),
		UnitReportKey(s.UserID, s.UnitID, s.Role),
		StageReportKey(s.UserID, s.StageID),
		ProgramReportKey(s.UserID, s.ProgramID, s.Role),
		UserProgressKey(s.ProgramID, s.UserID, s.Role),
		CohortProgressKey(s.ProgramID, s.CohortID),
		UserSessionKey(s.UserID),
	}
}

// PatternsForUser 按用户粗粒度清理时使用的键模式
func PatternsForUser(userID uint) []string {
	return []string{
		fmt.Sprintf("%s%d:*", attemptListKeyPrefix, userID),
		fmt.Sprintf("%s%d:*", unitReportKeyPrefix, userID),
		fmt.Sprintf("%s%d:*", stageReportKeyPrefix, userID),
		fmt.Sprintf("%s%d:*", programReportKeyPrefix, userID),
		fmt.Sprintf("%s*:%d:*", userProgressKeyPrefix, userID),
		UserSessionKey(userID),
	}
}
