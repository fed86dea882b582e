package model

import (
	"time"

	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// 实验报告状态
const (
	ReportStatusPending   int8 = 0 // 未开始
	ReportStatusDraft     int8 = 1 // 草稿
	ReportStatusSubmitted int8 = 2 // 已提交
	ReportStatusGraded    int8 = 3 // 已批改
)

// ExperimentTemplate 实验模板模型，Content为结构化表单定义(JSON)
type ExperimentTemplate struct {
	dal.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	Status      int8   `gorm:"default:1" json:"status"`
	CreatorID   uint   `gorm:"index" json:"creatorId"`
}

// TableName 表名
func (ExperimentTemplate) TableName() string {
	return "experiment_template"
}

// ExperimentReport 实验报告模型，Content为按模板填写的答案(JSON)
type ExperimentReport struct {
	dal.Model
	TemplateID  uint       `gorm:"index;not null" json:"templateId"`
	CourseID    uint       `gorm:"index;not null" json:"courseId"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Title       string     `gorm:"size:200" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Status      int8       `gorm:"default:1" json:"status"` // 1:草稿 2:已提交 3:已批改
	Score       *float64   `json:"score"`
	Comment     string     `gorm:"size:500" json:"comment"`
	GraderID    uint       `gorm:"default:0" json:"graderId"`
	SubmittedAt *time.Time `json:"submittedAt"`
	GradedAt    *time.Time `json:"gradedAt"`

	Template *ExperimentTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	User     *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (ExperimentReport) TableName() string {
	return "experiment_report"
}
