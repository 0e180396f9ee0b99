package service

import (
	"context"
	"errors"
	"time"

	"lms_progress_backend/internal/model"
	"lms_progress_backend/internal/repository"
	"lms_progress_backend/internal/util"

	"gorm.io/gorm"
)

const availableDateLayout = "2006-01-02"

// ProgressService 读侧进度服务：读穿缓存 + 进度引擎 + 解锁调度
type ProgressService struct {
	CurriculumRepo *repository.CurriculumRepository
	CompletionRepo *repository.CompletionRepository
	CohortRepo     *repository.CohortRepository
	Engine         *ProgressEngine
	Scheduler      StageUnlockScheduler
	Cache          *ProgressCache
}

func NewProgressService(
	curriculumRepo *repository.CurriculumRepository,
	completionRepo *repository.CompletionRepository,
	cohortRepo *repository.CohortRepository,
	cache *ProgressCache,
) *ProgressService {
	return &ProgressService{
		CurriculumRepo: curriculumRepo,
		CompletionRepo: completionRepo,
		CohortRepo:     cohortRepo,
		Engine:         NewProgressEngine(),
		Cache:          cache,
	}
}

// UnitProgress 单元进度，缓存键 (userId, unitId, role)
func (s *ProgressService) UnitProgress(ctx context.Context, userID, unitID uint, role model.UserRole) (*UnitReport, error) {
	key := UnitReportKey(userID, unitID, role)
	var cached UnitReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	unit, err := s.CurriculumRepo.FindUnitByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}

	completed, err := s.CompletionRepo.CompletedSetByUnit(userID, unitID)
	if err != nil {
		return nil, err
	}

	report := s.Engine.ComputeUnitReport(unit, role, completed)
	s.Cache.SetJSON(ctx, key, &report)
	return &report, nil
}

// StageProgress 阶段进度，缓存键 (userId, stageId)
func (s *ProgressService) StageProgress(ctx context.Context, userID, stageID uint, role model.UserRole) (*StageReport, error) {
	key := StageReportKey(userID, stageID)
	var cached StageReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	stage, err := s.CurriculumRepo.FindStageByID(stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStageNotFound
		}
		return nil, err
	}

	completed, err := s.CompletionRepo.CompletedSetByStage(userID, stageID)
	if err != nil {
		return nil, err
	}

	report := s.buildStageReport(stage, role, completed)
	s.Cache.SetJSON(ctx, key, &report)
	return &report, nil
}

// ProgramProgress 项目级进度报表，缓存键 (userId, programId, role)
//
// 逐阶段计算单元/阶段状态，再用解锁调度器按班级配置填充
// enabled / availableDate / daysUntilEnabled
func (s *ProgressService) ProgramProgress(ctx context.Context, userID, programID uint, role model.UserRole) (*ProgramProgressReport, error) {
	key := ProgramReportKey(userID, programID, role)
	var cached ProgramProgressReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	report, err := s.computeProgramProgress(userID, programID, role, time.Now())
	if err != nil {
		return nil, err
	}

	s.Cache.SetJSON(ctx, key, report)
	// 用户进度键空间与项目报表键空间内容一致，同步填充
	s.Cache.SetJSON(ctx, UserProgressKey(programID, userID, role), report)
	return report, nil
}

func (s *ProgressService) computeProgramProgress(userID, programID uint, role model.UserRole, now time.Time) (*ProgramProgressReport, error) {
	program, err := s.CurriculumRepo.FindProgramByID(programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}

	completed, err := s.CompletionRepo.CompletedSetByProgram(userID, programID)
	if err != nil {
		return nil, err
	}

	// 用户可能不属于任何班级，此时没有延迟解锁策略
	cohort, err := s.CohortRepo.FindUserCohortForProgram(userID, programID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	report := &ProgramProgressReport{
		ProgramID: programID,
		Stages:    make([]StageReport, 0, len(program.Stages)),
	}

	prevStatus := model.StageStatus("")
	prevSkipped := true // 第 0 阶段之前没有前置
	for i := range program.Stages {
		stage := &program.Stages[i]
		stageReport := s.buildStageReport(stage, role, completed)

		access := s.Scheduler.Evaluate(now, cohort, i, prevStatus, prevSkipped)
		stageReport.Enabled = access.Enabled
		stageReport.DaysUntilEnabled = access.DaysUntilEnabled
		if !access.AvailableDate.IsZero() {
			stageReport.AvailableDate = access.AvailableDate.Format(availableDateLayout)
		}

		report.Stages = append(report.Stages, stageReport)
		prevStatus = stageReport.Status
		prevSkipped = s.Engine.StageSkipped(stage)
	}

	report.OverallCompletionPct = OverallCompletionPct(report.Stages)
	return report, nil
}

func (s *ProgressService) buildStageReport(stage *model.Stage, role model.UserRole, completed map[uint]bool) StageReport {
	report := StageReport{
		StageID: stage.ID,
		Name:    stage.Name,
		Units:   make([]UnitReport, 0, len(stage.Units)),
	}
	for j := range stage.Units {
		report.Units = append(report.Units, s.Engine.ComputeUnitReport(&stage.Units[j], role, completed))
	}
	report.Status = s.Engine.ComputeStageStatus(report.Units)
	return report
}
