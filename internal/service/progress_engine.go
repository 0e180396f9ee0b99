package service

import (
	"lms_progress_backend/internal/model"
)

// SubconceptReport 单个子概念在报表中的状态行
type SubconceptReport struct {
	SubconceptID uint                   `json:"id"`
	Name         string                 `json:"name"`
	Type         string                 `json:"type"`
	Status       model.SubconceptStatus `json:"status"`
}

// UnitReport 单元进度报表
type UnitReport struct {
	UnitID         uint               `json:"unitId"`
	Name           string             `json:"name"`
	Status         model.UnitStatus   `json:"status"`
	Subconcepts    []SubconceptReport `json:"subconcepts"`
	CompletedCount int                `json:"completedCount"`
	TotalCount     int                `json:"totalCount"`
}

// StageReport 阶段进度报表，解锁信息在项目级报表中填充
type StageReport struct {
	StageID          uint              `json:"stageId"`
	Name             string            `json:"name"`
	Status           model.StageStatus `json:"status"`
	Units            []UnitReport      `json:"units"`
	Enabled          bool              `json:"enabled"`
	AvailableDate    string            `json:"availableDate,omitempty"`
	DaysUntilEnabled int               `json:"daysUntilEnabled"`
}

// ProgramProgressReport 项目级进度报表
type ProgramProgressReport struct {
	ProgramID            uint          `json:"programId"`
	Stages               []StageReport `json:"stages"`
	OverallCompletionPct float64       `json:"overallCompletionPct"`
}

// ProgramSummary 班级报表用的汇总计数
type ProgramSummary struct {
	CompletedStages int `json:"completedStages"`
	TotalStages     int `json:"totalStages"`
	CompletedUnits  int `json:"completedUnits"`
	TotalUnits      int `json:"totalUnits"`
}

// ProgressEngine 进度计算引擎
// 所有计算都在传入的课程结构和完成集合上进行，内部不做任何 I/O
type ProgressEngine struct {
	visibility VisibilityFilter
}

func NewProgressEngine() *ProgressEngine {
	return &ProgressEngine{}
}

// VisibleSubconcepts 按 position 顺序过滤出该角色可见的子概念
// 映射已由仓储层按 position 排序取出
func (e *ProgressEngine) VisibleSubconcepts(role model.UserRole, mappings []model.UnitSubconcept) []model.Subconcept {
	subs := make([]model.Subconcept, 0, len(mappings))
	for _, m := range mappings {
		sc := m.Subconcept
		if e.visibility.IsVisible(role, &sc) {
			subs = append(subs, sc)
		}
	}
	return subs
}

// ComputeSubconceptStatuses 按顺序推导每个子概念的状态
//
// 扫描时维护一个"开放槽位"：第一个没有完成记录的常规子概念是当前可做项
// （incomplete），其后的常规子概念全部 disabled。作业类子概念不占槽位：
// 未完成的作业向前找最近的作业边界，若边界之后的常规项全部完成则为
// ignored（挂起但不阻塞），否则 disabled。
func (e *ProgressEngine) ComputeSubconceptStatuses(subs []model.Subconcept, completed map[uint]bool) []model.SubconceptStatus {
	statuses := make([]model.SubconceptStatus, len(subs))
	slotTaken := false

	for i := range subs {
		sc := &subs[i]
		if completed[sc.ID] {
			statuses[i] = model.SubconceptCompleted
			continue
		}

		if sc.IsAssignment() {
			boundary := -1
			for j := i - 1; j >= 0; j-- {
				if subs[j].IsAssignment() {
					boundary = j
					break
				}
			}
			blocked := false
			for j := boundary + 1; j < i; j++ {
				if !subs[j].IsAssignment() && !completed[subs[j].ID] {
					blocked = true
					break
				}
			}
			if blocked {
				statuses[i] = model.SubconceptDisabled
			} else {
				statuses[i] = model.SubconceptIgnored
			}
			continue
		}

		if !slotTaken {
			statuses[i] = model.SubconceptIncomplete
			slotTaken = true
		} else {
			statuses[i] = model.SubconceptDisabled
		}
	}
	return statuses
}

// ComputeUnitReport 单元级聚合
//
// 完成度只看可见的常规子概念；作业不阻塞完成，但未交作业时
// 状态降级为 "Unit Completed without Assignments"
func (e *ProgressEngine) ComputeUnitReport(unit *model.Unit, role model.UserRole, completed map[uint]bool) UnitReport {
	subs := e.VisibleSubconcepts(role, unit.Subconcepts)
	report := UnitReport{
		UnitID:      unit.ID,
		Name:        unit.Name,
		Subconcepts: make([]SubconceptReport, 0, len(subs)),
	}

	if len(subs) == 0 {
		report.Status = model.UnitStatusNoSubconcepts
		return report
	}

	statuses := e.ComputeSubconceptStatuses(subs, completed)

	assignmentPending := false
	for i := range subs {
		sc := &subs[i]
		report.Subconcepts = append(report.Subconcepts, SubconceptReport{
			SubconceptID: sc.ID,
			Name:         sc.Name,
			Type:         sc.Type,
			Status:       statuses[i],
		})
		if sc.IsAssignment() {
			if !completed[sc.ID] {
				assignmentPending = true
			}
			continue
		}
		report.TotalCount++
		if completed[sc.ID] {
			report.CompletedCount++
		}
	}

	switch {
	case report.TotalCount == 0 || report.CompletedCount == report.TotalCount:
		if assignmentPending {
			report.Status = model.UnitStatusCompletedWithoutAssignments
		} else {
			report.Status = model.UnitStatusYes
		}
	default:
		report.Status = model.UnitStatusIncomplete
	}
	return report
}

// ComputeStageStatus 阶段级聚合
//
// 没有可见子概念的单元视为跳过，不参与判定；
// 零单元的阶段同样视为已满足（skip 等价）
func (e *ProgressEngine) ComputeStageStatus(units []UnitReport) model.StageStatus {
	withoutAssignments := false
	for _, u := range units {
		switch u.Status {
		case model.UnitStatusYes:
		case model.UnitStatusCompletedWithoutAssignments:
			withoutAssignments = true
		case model.UnitStatusNoSubconcepts:
			// 跳过
		default:
			return model.StageStatusNo
		}
	}
	if withoutAssignments {
		return model.StageStatusCompletedWithoutAssignments
	}
	return model.StageStatusYes
}

// StageSkipped 阶段没有任何单元时不阻塞后续阶段的前置检查
func (e *ProgressEngine) StageSkipped(stage *model.Stage) bool {
	return len(stage.Units) == 0
}

// ComputeProgramSummary 汇总整个项目的阶段/单元完成计数
func (e *ProgressEngine) ComputeProgramSummary(program *model.Program, role model.UserRole, completed map[uint]bool) ProgramSummary {
	var summary ProgramSummary
	for i := range program.Stages {
		stage := &program.Stages[i]
		summary.TotalStages++
		unitReports := make([]UnitReport, 0, len(stage.Units))
		for j := range stage.Units {
			unit := &stage.Units[j]
			report := e.ComputeUnitReport(unit, role, completed)
			unitReports = append(unitReports, report)
			summary.TotalUnits++
			if report.Status.Completed() {
				summary.CompletedUnits++
			}
		}
		if e.StageSkipped(stage) || e.ComputeStageStatus(unitReports).Satisfied() {
			summary.CompletedStages++
		}
	}
	return summary
}

// OverallCompletionPct 按可见常规子概念计算整体完成百分比
// 部分完成也照常输出，不要求阶段全部完成
func OverallCompletionPct(stages []StageReport) float64 {
	total, done := 0, 0
	for _, st := range stages {
		for _, u := range st.Units {
			total += u.TotalCount
			done += u.CompletedCount
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) * 100 / float64(total)
}
