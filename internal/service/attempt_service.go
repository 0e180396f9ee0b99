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

// attemptTxTimeout 写事务的超时上限，防止唯一索引争用下的长时间锁等待
const attemptTxTimeout = 30 * time.Second

type SubmitAttemptRequest struct {
	SubconceptID uint      `json:"subconceptId" binding:"required"`
	UnitID       uint      `json:"unitId" binding:"required"`
	StageID      uint      `json:"stageId" binding:"required"`
	ProgramID    uint      `json:"programId" binding:"required"`
	CohortID     uint      `json:"cohortId"`
	Score        int       `json:"score"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// AttemptService 提交写路径：追加尝试日志、原子 upsert 完成记录、
// 累加排行榜积分，随后同步驱逐缓存再应答
type AttemptService struct {
	DB             *gorm.DB
	CurriculumRepo *repository.CurriculumRepository
	CompletionRepo *repository.CompletionRepository
	AttemptRepo    *repository.AttemptRepository
	CohortRepo     *repository.CohortRepository
	Invalidator    *CacheInvalidationCoordinator
	Cache          *ProgressCache
}

func NewAttemptService(
	db *gorm.DB,
	curriculumRepo *repository.CurriculumRepository,
	completionRepo *repository.CompletionRepository,
	attemptRepo *repository.AttemptRepository,
	cohortRepo *repository.CohortRepository,
	invalidator *CacheInvalidationCoordinator,
	cache *ProgressCache,
) *AttemptService {
	return &AttemptService{
		DB:             db,
		CurriculumRepo: curriculumRepo,
		CompletionRepo: completionRepo,
		AttemptRepo:    attemptRepo,
		CohortRepo:     cohortRepo,
		Invalidator:    invalidator,
		Cache:          cache,
	}
}

// SubmitAttempt 提交一次尝试
//
// 同一事务内：尝试日志追加 + 完成记录 upsert + 积分自增。
// 并发重复提交由唯一索引兜底，冲突退化为更新，不产生重复行。
// 缓存驱逐在事务提交后、应答之前执行，失败不回滚写入
func (s *AttemptService) SubmitAttempt(ctx context.Context, userID uint, role model.UserRole, req SubmitAttemptRequest) (*model.AttemptRecord, error) {
	sub, err := s.CurriculumRepo.FindSubconceptByID(req.SubconceptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubconceptNotFound
		}
		return nil, err
	}

	if err := validateAttempt(&req, sub); err != nil {
		return nil, err
	}

	ok, err := s.CurriculumRepo.SubconceptBelongsToUnit(req.SubconceptID, req.UnitID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrSubconceptNotInUnit
	}

	txCtx, cancel := context.WithTimeout(ctx, attemptTxTimeout)
	defer cancel()

	attempt := &model.AttemptRecord{
		AttemptUID:   model.GenerateUUID(),
		UserID:       userID,
		SubconceptID: req.SubconceptID,
		UnitID:       req.UnitID,
		StageID:      req.StageID,
		ProgramID:    req.ProgramID,
		CohortID:     req.CohortID,
		Score:        req.Score,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	err = s.DB.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if err := s.AttemptRepo.Create(tx, attempt); err != nil {
			return err
		}

		fact := &model.CompletionFact{
			UserID:       userID,
			SubconceptID: req.SubconceptID,
			UnitID:       req.UnitID,
			StageID:      req.StageID,
			ProgramID:    req.ProgramID,
			Completed:    true,
			CompletedAt:  time.Now(),
		}
		if err := s.CompletionRepo.Upsert(tx, fact); err != nil {
			return err
		}

		if req.CohortID != 0 && req.Score > 0 {
			if err := s.CohortRepo.AddLeaderboardScore(tx, userID, req.CohortID, req.Score); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 先驱逐再应答，压缩脏读窗口
	s.Invalidator.FactChanged(ctx, FactScope{
		UserID:       userID,
		SubconceptID: req.SubconceptID,
		UnitID:       req.UnitID,
		StageID:      req.StageID,
		ProgramID:    req.ProgramID,
		CohortID:     req.CohortID,
		Role:         role,
	})

	return attempt, nil
}

// ListAttempts 用户在某子概念下的全部尝试，缓存键 (userId, subconceptId)
func (s *AttemptService) ListAttempts(ctx context.Context, userID, subconceptID uint) ([]model.AttemptRecord, error) {
	key := AttemptListKey(userID, subconceptID)
	var cached []model.AttemptRecord
	if s.Cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	attempts, err := s.AttemptRepo.ListByUserAndSubconcept(userID, subconceptID)
	if err != nil {
		return nil, err
	}

	s.Cache.SetJSON(ctx, key, attempts)
	return attempts, nil
}

// validateAttempt 边界校验：得分不超过上限，结束时间不早于开始时间
func validateAttempt(req *SubmitAttemptRequest, sub *model.Subconcept) error {
	if req.Score < 0 {
		return util.ErrScoreExceedsMax
	}
	if sub.MaxScore > 0 && req.Score > sub.MaxScore {
		return util.ErrScoreExceedsMax
	}
	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return util.ErrInvalidTimeRange
	}
	return nil
}
