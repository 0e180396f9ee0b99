package service

import (
	"testing"

	"lms_progress_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "progress:attempts:7:42", AttemptListKey(7, 42))
	assert.Equal(t, "progress:unit:7:42:learner", UnitReportKey(7, 42, model.Learner))
	assert.Equal(t, "progress:stage:7:42", StageReportKey(7, 42))
	assert.Equal(t, "progress:program:7:42:mentor", ProgramReportKey(7, 42, model.Mentor))
	assert.Equal(t, "progress:user:42:7:learner", UserProgressKey(42, 7, model.Learner))
	assert.Equal(t, "progress:cohort:42:9", CohortProgressKey(42, 9))
	assert.Equal(t, "session:user:7", UserSessionKey(7))
}

func TestProgramAndUserKeysAreDistinctSpaces(t *testing.T) {
	// 两个键空间首键含义不同，相同参数组合不能撞到一起
	assert.NotEqual(t,
		ProgramReportKey(7, 7, model.Learner),
		UserProgressKey(7, 7, model.Learner))
}

func TestKeysForFactChange_CoversEveryLevel(t *testing.T) {
	scope := FactScope{
		UserID:       7,
		SubconceptID: 42,
		UnitID:       3,
		StageID:      2,
		ProgramID:    1,
		CohortID:     9,
		Role:         model.Learner,
	}

	keys := KeysForFactChange(scope)

	require.Len(t, keys, 7)
	assert.Contains(t, keys, AttemptListKey(7, 42))
	assert.Contains(t, keys, UnitReportKey(7, 3, model.Learner))
	assert.Contains(t, keys, StageReportKey(7, 2))
	assert.Contains(t, keys, ProgramReportKey(7, 1, model.Learner))
	assert.Contains(t, keys, UserProgressKey(1, 7, model.Learner))
	assert.Contains(t, keys, CohortProgressKey(1, 9))
	assert.Contains(t, keys, UserSessionKey(7))

	// 全部互不相同
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestKeysForFactChange_OrderedFineToCoarse(t *testing.T) {
	scope := FactScope{UserID: 7, SubconceptID: 42, UnitID: 3, StageID: 2, ProgramID: 1, CohortID: 9, Role: model.Learner}

	keys := KeysForFactChange(scope)

	assert.Equal(t, AttemptListKey(7, 42), keys[0])
	assert.Equal(t, UserSessionKey(7), keys[len(keys)-1])
}

func TestPatternsForUser(t *testing.T) {
	patterns := PatternsForUser(7)

	require.Len(t, patterns, 6)
	assert.Contains(t, patterns, "progress:attempts:7:*")
	assert.Contains(t, patterns, "progress:unit:7:*")
	assert.Contains(t, patterns, "progress:stage:7:*")
	assert.Contains(t, patterns, "progress:program:7:*")
	assert.Contains(t, patterns, "progress:user:*:7:*")
	assert.Contains(t, patterns, "session:user:7")
}
