package model

// SubconceptStatus 子概念在用户视角下的状态
type SubconceptStatus string

const (
	SubconceptCompleted  SubconceptStatus = "completed"
	SubconceptIncomplete SubconceptStatus = "incomplete"
	SubconceptDisabled   SubconceptStatus = "disabled"
	// SubconceptIgnored 作业类子概念未完成但不阻塞后续内容
	SubconceptIgnored SubconceptStatus = "ignored"
)

// UnitStatus 单元完成状态，字符串取值与报表输出保持一致
type UnitStatus string

const (
	UnitStatusYes        UnitStatus = "yes"
	UnitStatusIncomplete UnitStatus = "incomplete"
	// UnitStatusCompletedWithoutAssignments 所有常规子概念已完成但仍有作业未提交
	UnitStatusCompletedWithoutAssignments UnitStatus = "Unit Completed without Assignments"
	// UnitStatusNoSubconcepts 单元对该角色没有任何可见子概念，不阻塞阶段链
	UnitStatusNoSubconcepts UnitStatus = "No subconcepts in this unit"
)

type StageStatus string

const (
	StageStatusYes                         StageStatus = "yes"
	StageStatusNo                          StageStatus = "no"
	StageStatusCompletedWithoutAssignments StageStatus = "Stage Completed without Assignments"
)

// Completed 单元是否视为已完成（作业未交的变体也算完成）
func (s UnitStatus) Completed() bool {
	return s == UnitStatusYes || s == UnitStatusCompletedWithoutAssignments || s == UnitStatusNoSubconcepts
}

// Satisfied 阶段状态是否满足后续阶段的前置条件
func (s StageStatus) Satisfied() bool {
	return s == StageStatusYes || s == StageStatusCompletedWithoutAssignments
}
