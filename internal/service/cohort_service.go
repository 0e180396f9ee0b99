package service

import (
	"context"
	"errors"

	"lms_progress_backend/internal/model"
	"lms_progress_backend/internal/repository"
	"lms_progress_backend/internal/util"

	"gorm.io/gorm"
)

// CohortUserProgress 班级报表中的单个成员行
type CohortUserProgress struct {
	UserID           uint   `json:"userId"`
	Name             string `json:"name"`
	CompletedStages  int    `json:"completedStages"`
	TotalStages      int    `json:"totalStages"`
	CompletedUnits   int    `json:"completedUnits"`
	TotalUnits       int    `json:"totalUnits"`
	LeaderboardScore int    `json:"leaderboardScore"`
}

// CohortProgressReport 班级进度/排行榜报表，按积分降序
type CohortProgressReport struct {
	CohortID  uint                 `json:"cohortId"`
	ProgramID uint                 `json:"programId"`
	Users     []CohortUserProgress `json:"users"`
}

type CohortService struct {
	CohortRepo     *repository.CohortRepository
	CurriculumRepo *repository.CurriculumRepository
	CompletionRepo *repository.CompletionRepository
	UserRepo       *repository.UserRepository
	Engine         *ProgressEngine
	Cache          *ProgressCache
}

func NewCohortService(
	cohortRepo *repository.CohortRepository,
	curriculumRepo *repository.CurriculumRepository,
	completionRepo *repository.CompletionRepository,
	userRepo *repository.UserRepository,
	cache *ProgressCache,
) *CohortService {
	return &CohortService{
		CohortRepo:     cohortRepo,
		CurriculumRepo: curriculumRepo,
		CompletionRepo: completionRepo,
		UserRepo:       userRepo,
		Engine:         NewProgressEngine(),
		Cache:          cache,
	}
}

// CohortProgress 班级整体进度，缓存键 (programId, cohortId)
//
// 成员进度统一按 learner 角色的可见性计算：排行榜展示的是学员视角的完成度
func (s *CohortService) CohortProgress(ctx context.Context, cohortID uint) (*CohortProgressReport, error) {
	cohort, err := s.CohortRepo.FindByID(cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCohortNotFound
		}
		return nil, err
	}

	key := CohortProgressKey(cohort.ProgramID, cohortID)
	var cached CohortProgressReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	program, err := s.CurriculumRepo.FindProgramByID(cohort.ProgramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}

	memberships, err := s.CohortRepo.ActiveMemberships(cohortID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}
	names, err := s.UserRepo.NamesByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	report := &CohortProgressReport{
		CohortID:  cohortID,
		ProgramID: cohort.ProgramID,
		Users:     make([]CohortUserProgress, 0, len(memberships)),
	}

	// memberships 已按 leaderboard_score 降序取出
	for _, m := range memberships {
		completed, err := s.CompletionRepo.CompletedSetByProgram(m.UserID, cohort.ProgramID)
		if err != nil {
			return nil, err
		}
		summary := s.Engine.ComputeProgramSummary(program, model.Learner, completed)
		report.Users = append(report.Users, CohortUserProgress{
			UserID:           m.UserID,
			Name:             names[m.UserID],
			CompletedStages:  summary.CompletedStages,
			TotalStages:      summary.TotalStages,
			CompletedUnits:   summary.CompletedUnits,
			TotalUnits:       summary.TotalUnits,
			LeaderboardScore: m.LeaderboardScore,
		})
	}

	s.Cache.SetJSON(ctx, key, report)
	return report, nil
}
