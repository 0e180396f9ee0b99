package service

import (
	"testing"
	"time"

	"lms_progress_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func delayedCohort(start time.Time, delayDays int) *model.CohortConfig {
	return &model.CohortConfig{
		BaseModel:                 model.BaseModel{ID: 1},
		ProgramID:                 1,
		StartDate:                 start,
		DelayedStageUnlockEnabled: true,
		DelayInDays:               delayDays,
	}
}

func TestEvaluate_FirstStageAlwaysUnlocked(t *testing.T) {
	var s StageUnlockScheduler
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(now.AddDate(0, 0, 30), 7)

	// 即使班级尚未开班，第 0 个阶段也解锁
	access := s.Evaluate(now, cohort, 0, model.StageStatusNo, false)

	assert.Equal(t, UnlockStateUnlocked, access.State)
	assert.True(t, access.Enabled)
}

func TestEvaluate_LockedByTime(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 7)
	now := start.AddDate(0, 0, 3)

	// 第 2 个阶段 (index 2) 应在 start+14 天解锁
	access := s.Evaluate(now, cohort, 2, model.StageStatusYes, false)

	assert.Equal(t, UnlockStateLockedByTime, access.State)
	assert.False(t, access.Enabled)
	assert.Equal(t, start.AddDate(0, 0, 14), access.AvailableDate)
	assert.Equal(t, 11, access.DaysUntilEnabled)
}

func TestEvaluate_TimeLockOverridesCompletedPrerequisite(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 14)

	// 前置已完成，但时间未到仍然锁定
	access := s.Evaluate(start.AddDate(0, 0, 1), cohort, 1, model.StageStatusYes, false)

	assert.Equal(t, UnlockStateLockedByTime, access.State)
}

func TestEvaluate_DaysUntilEnabledCeiling(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 1)
	expected := start.AddDate(0, 0, 1)

	// 解锁前 1 小时仍报告 1 天
	access := s.Evaluate(expected.Add(-time.Hour), cohort, 1, model.StageStatusYes, false)
	assert.Equal(t, 1, access.DaysUntilEnabled)

	// 25 小时 → 向上取整为 2 天
	access = s.Evaluate(expected.Add(-25*time.Hour), cohort, 1, model.StageStatusYes, false)
	assert.Equal(t, 2, access.DaysUntilEnabled)
}

func TestEvaluate_DeterministicForSameNow(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 7)
	now := start.AddDate(0, 0, 5)

	first := s.Evaluate(now, cohort, 3, model.StageStatusYes, false)
	second := s.Evaluate(now, cohort, 3, model.StageStatusYes, false)

	assert.Equal(t, first, second)
}

func TestEvaluate_PrerequisiteGate(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 7)
	now := start.AddDate(0, 0, 30)

	tests := []struct {
		name        string
		prevStatus  model.StageStatus
		prevSkipped bool
		want        UnlockState
	}{
		{"prev complete", model.StageStatusYes, false, UnlockStateUnlocked},
		{"prev complete without assignments", model.StageStatusCompletedWithoutAssignments, false, UnlockStateUnlocked},
		{"prev incomplete", model.StageStatusNo, false, UnlockStateLockedByPrerequisite},
		{"prev skipped", model.StageStatusNo, true, UnlockStateUnlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := s.Evaluate(now, cohort, 1, tt.prevStatus, tt.prevSkipped)
			assert.Equal(t, tt.want, access.State)
			assert.Equal(t, tt.want == UnlockStateUnlocked, access.Enabled)
		})
	}
}

func TestEvaluate_DelayDisabledSkipsTimeCheck(t *testing.T) {
	var s StageUnlockScheduler
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cohort := delayedCohort(start, 7)
	cohort.DelayedStageUnlockEnabled = false

	// 未启用延迟解锁时只看前置
	access := s.Evaluate(start, cohort, 5, model.StageStatusYes, false)

	assert.Equal(t, UnlockStateUnlocked, access.State)
}

func TestEvaluate_NilCohort(t *testing.T) {
	var s StageUnlockScheduler
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	access := s.Evaluate(now, nil, 1, model.StageStatusYes, false)

	assert.Equal(t, UnlockStateUnlocked, access.State)
	assert.True(t, access.AvailableDate.IsZero())
}
