package service

import (
	"testing"

	"lms_progress_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalSub(id uint) model.Subconcept {
	return model.Subconcept{
		BaseModel:  model.BaseModel{ID: id},
		Name:       "sub",
		Type:       string(model.SubconceptNormal),
		Visibility: "learner,mentor",
	}
}

func assignmentSub(id uint) model.Subconcept {
	s := normalSub(id)
	s.Type = "assignment"
	return s
}

func mappingsFor(subs ...model.Subconcept) []model.UnitSubconcept {
	mappings := make([]model.UnitSubconcept, len(subs))
	for i, s := range subs {
		mappings[i] = model.UnitSubconcept{
			UnitID:       1,
			SubconceptID: s.ID,
			Position:     i,
			Subconcept:   s,
		}
	}
	return mappings
}

func TestComputeSubconceptStatuses_SequentialGating(t *testing.T) {
	e := NewProgressEngine()
	subs := []model.Subconcept{normalSub(1), normalSub(2), normalSub(3)}

	statuses := e.ComputeSubconceptStatuses(subs, map[uint]bool{1: true})

	assert.Equal(t, []model.SubconceptStatus{
		model.SubconceptCompleted,
		model.SubconceptIncomplete,
		model.SubconceptDisabled,
	}, statuses)
}

func TestComputeSubconceptStatuses_NothingCompleted(t *testing.T) {
	e := NewProgressEngine()
	subs := []model.Subconcept{normalSub(1), normalSub(2)}

	statuses := e.ComputeSubconceptStatuses(subs, map[uint]bool{})

	assert.Equal(t, model.SubconceptIncomplete, statuses[0])
	assert.Equal(t, model.SubconceptDisabled, statuses[1])
}

func TestComputeSubconceptStatuses_AssignmentDoesNotTakeSlot(t *testing.T) {
	e := NewProgressEngine()
	// 作业夹在常规项之间：常规项 1 完成后作业 2 不占槽位，3 仍是当前可做项
	subs := []model.Subconcept{normalSub(1), assignmentSub(2), normalSub(3)}

	statuses := e.ComputeSubconceptStatuses(subs, map[uint]bool{1: true})

	assert.Equal(t, model.SubconceptCompleted, statuses[0])
	assert.Equal(t, model.SubconceptIgnored, statuses[1])
	assert.Equal(t, model.SubconceptIncomplete, statuses[2])
}

func TestComputeSubconceptStatuses_AssignmentBlockedByPrecedingNormal(t *testing.T) {
	e := NewProgressEngine()
	subs := []model.Subconcept{normalSub(1), assignmentSub(2)}

	statuses := e.ComputeSubconceptStatuses(subs, map[uint]bool{})

	// 边界之后的常规项 1 未完成，作业 2 被阻塞
	assert.Equal(t, model.SubconceptIncomplete, statuses[0])
	assert.Equal(t, model.SubconceptDisabled, statuses[1])
}

func TestComputeSubconceptStatuses_AssignmentBoundaryScan(t *testing.T) {
	e := NewProgressEngine()
	// 前一个作业是边界：只看边界之后、当前作业之前的常规项
	subs := []model.Subconcept{
		normalSub(1),
		assignmentSub(2),
		normalSub(3),
		assignmentSub(4),
	}

	// 3 未完成 → 作业 4 被阻塞，作业 2 不受影响（1 已完成）
	statuses := e.ComputeSubconceptStatuses(subs, map[uint]bool{1: true})
	assert.Equal(t, model.SubconceptIgnored, statuses[1])
	assert.Equal(t, model.SubconceptDisabled, statuses[3])

	// 3 完成后作业 4 变为 ignored
	statuses = e.ComputeSubconceptStatuses(subs, map[uint]bool{1: true, 3: true})
	assert.Equal(t, model.SubconceptIgnored, statuses[3])
}

func TestComputeSubconceptStatuses_MonotonicUnderNewCompletions(t *testing.T) {
	e := NewProgressEngine()
	subs := []model.Subconcept{normalSub(1), normalSub(2), assignmentSub(3), normalSub(4)}

	rank := map[model.SubconceptStatus]int{
		model.SubconceptDisabled:   0,
		model.SubconceptIgnored:    1,
		model.SubconceptIncomplete: 1,
		model.SubconceptCompleted:  2,
	}

	completed := map[uint]bool{}
	prev := e.ComputeSubconceptStatuses(subs, completed)
	for _, id := range []uint{1, 2, 3, 4} {
		completed[id] = true
		next := e.ComputeSubconceptStatuses(subs, completed)
		for i := range next {
			assert.GreaterOrEqual(t, rank[next[i]], rank[prev[i]],
				"completing %d must not downgrade position %d", id, i)
		}
		prev = next
	}
}

func TestComputeUnitReport_AllNormalCompleted(t *testing.T) {
	e := NewProgressEngine()
	unit := &model.Unit{
		BaseModel:   model.BaseModel{ID: 10},
		Name:        "指针基础",
		Subconcepts: mappingsFor(normalSub(1), normalSub(2)),
	}

	report := e.ComputeUnitReport(unit, model.Learner, map[uint]bool{1: true, 2: true})

	assert.Equal(t, model.UnitStatusYes, report.Status)
	assert.Equal(t, 2, report.CompletedCount)
	assert.Equal(t, 2, report.TotalCount)
}

func TestComputeUnitReport_CompletedWithoutAssignments(t *testing.T) {
	e := NewProgressEngine()
	unit := &model.Unit{
		BaseModel:   model.BaseModel{ID: 10},
		Subconcepts: mappingsFor(normalSub(1), assignmentSub(2)),
	}

	report := e.ComputeUnitReport(unit, model.Learner, map[uint]bool{1: true})

	assert.Equal(t, model.UnitStatusCompletedWithoutAssignments, report.Status)
	// 作业不计入完成度统计
	assert.Equal(t, 1, report.TotalCount)
	assert.Equal(t, 1, report.CompletedCount)
}

func TestComputeUnitReport_AssignmentCompletedCountsAsYes(t *testing.T) {
	e := NewProgressEngine()
	unit := &model.Unit{
		BaseModel:   model.BaseModel{ID: 10},
		Subconcepts: mappingsFor(normalSub(1), assignmentSub(2)),
	}

	report := e.ComputeUnitReport(unit, model.Learner, map[uint]bool{1: true, 2: true})

	assert.Equal(t, model.UnitStatusYes, report.Status)
}

func TestComputeUnitReport_Incomplete(t *testing.T) {
	e := NewProgressEngine()
	unit := &model.Unit{
		BaseModel:   model.BaseModel{ID: 10},
		Subconcepts: mappingsFor(normalSub(1), normalSub(2)),
	}

	report := e.ComputeUnitReport(unit, model.Learner, map[uint]bool{1: true})

	assert.Equal(t, model.UnitStatusIncomplete, report.Status)
	assert.Equal(t, 1, report.CompletedCount)
}

func TestComputeUnitReport_NoVisibleSubconcepts(t *testing.T) {
	e := NewProgressEngine()

	empty := &model.Unit{BaseModel: model.BaseModel{ID: 10}}
	report := e.ComputeUnitReport(empty, model.Learner, nil)
	assert.Equal(t, model.UnitStatusNoSubconcepts, report.Status)

	// 对该角色全部不可见时同样视为空单元
	hidden := normalSub(1)
	hidden.Visibility = "mentor"
	invisible := &model.Unit{
		BaseModel:   model.BaseModel{ID: 11},
		Subconcepts: mappingsFor(hidden),
	}
	report = e.ComputeUnitReport(invisible, model.Learner, nil)
	assert.Equal(t, model.UnitStatusNoSubconcepts, report.Status)
	assert.Zero(t, report.TotalCount)
}

func TestComputeUnitReport_OnlyAssignmentsAllDone(t *testing.T) {
	e := NewProgressEngine()
	unit := &model.Unit{
		BaseModel:   model.BaseModel{ID: 10},
		Subconcepts: mappingsFor(assignmentSub(1)),
	}

	report := e.ComputeUnitReport(unit, model.Learner, map[uint]bool{1: true})

	// TotalCount 为 0 且无挂起作业 → yes
	assert.Equal(t, model.UnitStatusYes, report.Status)
	assert.Zero(t, report.TotalCount)
}

func TestComputeStageStatus(t *testing.T) {
	e := NewProgressEngine()

	tests := []struct {
		name  string
		units []model.UnitStatus
		want  model.StageStatus
	}{
		{"all yes", []model.UnitStatus{model.UnitStatusYes, model.UnitStatusYes}, model.StageStatusYes},
		{"one incomplete", []model.UnitStatus{model.UnitStatusYes, model.UnitStatusIncomplete}, model.StageStatusNo},
		{"without assignments propagates", []model.UnitStatus{model.UnitStatusYes, model.UnitStatusCompletedWithoutAssignments}, model.StageStatusCompletedWithoutAssignments},
		{"empty unit skipped", []model.UnitStatus{model.UnitStatusNoSubconcepts, model.UnitStatusYes}, model.StageStatusYes},
		{"all units empty", []model.UnitStatus{model.UnitStatusNoSubconcepts}, model.StageStatusYes},
		{"no units", nil, model.StageStatusYes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := make([]UnitReport, len(tt.units))
			for i, st := range tt.units {
				units[i] = UnitReport{Status: st}
			}
			assert.Equal(t, tt.want, e.ComputeStageStatus(units))
		})
	}
}

func TestComputeProgramSummary(t *testing.T) {
	e := NewProgressEngine()
	program := &model.Program{
		BaseModel: model.BaseModel{ID: 1},
		Stages: []model.Stage{
			{
				BaseModel: model.BaseModel{ID: 100},
				Units: []model.Unit{
					{BaseModel: model.BaseModel{ID: 200}, Subconcepts: mappingsFor(normalSub(1))},
					{BaseModel: model.BaseModel{ID: 201}, Subconcepts: mappingsFor(normalSub(2))},
				},
			},
			{
				// 零单元阶段视为已完成
				BaseModel: model.BaseModel{ID: 101},
			},
		},
	}

	summary := e.ComputeProgramSummary(program, model.Learner, map[uint]bool{1: true})

	assert.Equal(t, 2, summary.TotalStages)
	assert.Equal(t, 1, summary.CompletedStages)
	assert.Equal(t, 2, summary.TotalUnits)
	assert.Equal(t, 1, summary.CompletedUnits)
}

func TestOverallCompletionPct(t *testing.T) {
	stages := []StageReport{
		{Units: []UnitReport{{CompletedCount: 2, TotalCount: 4}}},
		{Units: []UnitReport{{CompletedCount: 1, TotalCount: 1}}},
	}

	assert.InDelta(t, 60.0, OverallCompletionPct(stages), 0.001)
	assert.Zero(t, OverallCompletionPct(nil))
	assert.Zero(t, OverallCompletionPct([]StageReport{{Units: []UnitReport{{TotalCount: 0}}}}))
}

func TestVisibleSubconcepts_PreservesOrder(t *testing.T) {
	e := NewProgressEngine()
	hidden := normalSub(2)
	hidden.Visibility = "mentor"
	mappings := mappingsFor(normalSub(1), hidden, normalSub(3))

	subs := e.VisibleSubconcepts(model.Learner, mappings)

	require.Len(t, subs, 2)
	assert.Equal(t, uint(1), subs[0].ID)
	assert.Equal(t, uint(3), subs[1].ID)
}
