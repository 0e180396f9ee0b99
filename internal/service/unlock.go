package service

import (
	"lms_progress_backend/internal/model"
	"math"
	"time"
)

type UnlockState string

const (
	UnlockStateUnlocked             UnlockState = "unlocked"
	UnlockStateLockedByTime         UnlockState = "locked_by_time"
	UnlockStateLockedByPrerequisite UnlockState = "locked_by_prerequisite"
)

// StageAccess 阶段解锁评估结果
// AvailableDate 在未启用延迟解锁时也会给出，仅作展示，不做强制
type StageAccess struct {
	State            UnlockState
	Enabled          bool
	AvailableDate    time.Time
	DaysUntilEnabled int
}

// StageUnlockScheduler 阶段解锁调度
// (now, 班级配置, 阶段序号, 前一阶段状态) 的纯函数，便于用不同 now 测试
type StageUnlockScheduler struct{}

// Evaluate 评估第 stageIndex 个阶段（0 起）当前是否可访问
//
// 规则：
//   - 第 0 个阶段永远解锁
//   - 启用延迟解锁时，now 早于 startDate + i*delayInDays 则按时间锁定，
//     无论前置是否完成
//   - 时间条件满足（或未启用）后检查前置：前一阶段完成或被跳过才解锁
func (StageUnlockScheduler) Evaluate(now time.Time, cohort *model.CohortConfig, stageIndex int, prevStatus model.StageStatus, prevSkipped bool) StageAccess {
	expected := expectedUnlockDate(cohort, stageIndex)

	if stageIndex <= 0 {
		return StageAccess{State: UnlockStateUnlocked, Enabled: true, AvailableDate: expected}
	}

	if cohort != nil && cohort.DelayedStageUnlockEnabled && now.Before(expected) {
		return StageAccess{
			State:            UnlockStateLockedByTime,
			AvailableDate:    expected,
			DaysUntilEnabled: daysBetween(now, expected),
		}
	}

	if prevSkipped || prevStatus.Satisfied() {
		return StageAccess{State: UnlockStateUnlocked, Enabled: true, AvailableDate: expected}
	}

	return StageAccess{State: UnlockStateLockedByPrerequisite, AvailableDate: expected}
}

func expectedUnlockDate(cohort *model.CohortConfig, stageIndex int) time.Time {
	if cohort == nil {
		return time.Time{}
	}
	return cohort.StartDate.AddDate(0, 0, stageIndex*cohort.DelayInDays)
}

// daysBetween 剩余天数向上取整，锁定状态下至少报告 1 天
func daysBetween(now, expected time.Time) int {
	days := int(math.Ceil(expected.Sub(now).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}
