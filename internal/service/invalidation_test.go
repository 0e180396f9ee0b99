package service

import (
	"context"
	"testing"

	"lms_progress_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

// recordingEvictor 记录驱逐调用，替代真实 Redis
type recordingEvictor struct {
	deleted  []string
	patterns []string
}

func (r *recordingEvictor) Delete(_ context.Context, keys ...string) {
	r.deleted = append(r.deleted, keys...)
}

func (r *recordingEvictor) DeleteByPattern(_ context.Context, pattern string) {
	r.patterns = append(r.patterns, pattern)
}

func TestFactChanged_EvictsAllDerivedKeys(t *testing.T) {
	rec := &recordingEvictor{}
	coord := NewCacheInvalidationCoordinator(rec)
	scope := FactScope{
		UserID:       7,
		SubconceptID: 42,
		UnitID:       3,
		StageID:      2,
		ProgramID:    1,
		CohortID:     9,
		Role:         model.Learner,
	}

	coord.FactChanged(context.Background(), scope)

	assert.Equal(t, KeysForFactChange(scope), rec.deleted)
}

func TestFactChanged_Idempotent(t *testing.T) {
	rec := &recordingEvictor{}
	coord := NewCacheInvalidationCoordinator(rec)
	scope := FactScope{UserID: 7, SubconceptID: 42, UnitID: 3, StageID: 2, ProgramID: 1, CohortID: 9, Role: model.Learner}

	coord.FactChanged(context.Background(), scope)
	coord.FactChanged(context.Background(), scope)

	// 重复触发只是再删一遍同样的键，不报错也不漏删
	assert.Len(t, rec.deleted, 2*len(KeysForFactChange(scope)))
}

func TestEvictForUser(t *testing.T) {
	rec := &recordingEvictor{}
	coord := NewCacheInvalidationCoordinator(rec)

	coord.EvictForUser(context.Background(), 7, 1, model.Mentor)

	assert.ElementsMatch(t, []string{
		ProgramReportKey(7, 1, model.Mentor),
		UserProgressKey(1, 7, model.Mentor),
		UserSessionKey(7),
	}, rec.deleted)
}

func TestEvictAllForUser_UsesPatterns(t *testing.T) {
	rec := &recordingEvictor{}
	coord := NewCacheInvalidationCoordinator(rec)

	coord.EvictAllForUser(context.Background(), 7)

	assert.Equal(t, PatternsForUser(7), rec.patterns)
	assert.Empty(t, rec.deleted)
}

func TestEvictCohort(t *testing.T) {
	rec := &recordingEvictor{}
	coord := NewCacheInvalidationCoordinator(rec)

	coord.EvictCohort(context.Background(), 1, 9)

	assert.Equal(t, []string{CohortProgressKey(1, 9)}, rec.deleted)
}
