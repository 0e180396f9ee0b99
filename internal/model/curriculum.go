package model

import "strings"

type SubconceptType string

const (
	SubconceptNormal SubconceptType = "normal"
)

// AssignmentTypePrefix 作业类子概念的类型前缀，例如 assignment、assignment_review
const AssignmentTypePrefix = "assignment"

// swagger:model Program
type Program struct {
	BaseModel
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Stages      []Stage `gorm:"foreignKey:ProgramID" json:"stages,omitempty"`
}

func (Program) TableName() string {
	return "programs"
}

// swagger:model Stage
type Stage struct {
	BaseModel
	ProgramID uint   `gorm:"not null;index" json:"programId"`
	Name      string `gorm:"size:200;not null" json:"name"`
	// Position 决定阶段在项目中的顺序，同时决定延迟解锁的时间点
	Position int    `gorm:"not null;default:0" json:"position"`
	Units    []Unit `gorm:"foreignKey:StageID" json:"units,omitempty"`
}

func (Stage) TableName() string {
	return "stages"
}

// swagger:model Unit
type Unit struct {
	BaseModel
	StageID     uint             `gorm:"not null;index" json:"stageId"`
	Name        string           `gorm:"size:200;not null" json:"name"`
	Position    int              `gorm:"not null;default:0" json:"position"`
	Subconcepts []UnitSubconcept `gorm:"foreignKey:UnitID" json:"subconcepts,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// UnitSubconcept 单元与子概念的有序映射
// swagger:model UnitSubconcept
type UnitSubconcept struct {
	BaseModel
	UnitID       uint       `gorm:"not null;uniqueIndex:uq_unit_subconcept" json:"unitId"`
	SubconceptID uint       `gorm:"not null;uniqueIndex:uq_unit_subconcept" json:"subconceptId"`
	Position     int        `gorm:"not null;default:0" json:"position"`
	Subconcept   Subconcept `gorm:"foreignKey:SubconceptID" json:"subconcept"`
}

func (UnitSubconcept) TableName() string {
	return "unit_subconcepts"
}

// swagger:model Subconcept
type Subconcept struct {
	BaseModel
	Name string `gorm:"size:200;not null" json:"name"`
	// Type normal 或 assignment-*，作业类不阻塞单元完成
	Type string `gorm:"size:50;default:'normal'" json:"type"`
	// Visibility 逗号分隔的角色集合，例如 "learner,mentor"
	Visibility string `gorm:"size:200" json:"visibility"`
	MaxScore   int    `gorm:"default:100" json:"maxScore"`
}

func (Subconcept) TableName() string {
	return "subconcepts"
}

// IsAssignment 作业类子概念不参与单元完成度统计
func (s *Subconcept) IsAssignment() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.Type)), AssignmentTypePrefix)
}
