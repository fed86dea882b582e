package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// Organization 组织机构模型
type Organization struct {
	dal.Model
	ParentID uint            `gorm:"default:0;index" json:"parentId"`
	Name     string          `gorm:"size:100;not null" json:"name"`
	Code     string          `gorm:"size:50" json:"code"`
	Leader   string          `gorm:"size:50" json:"leader"`
	Sort     int             `gorm:"default:0" json:"sort"`
	Status   int8            `gorm:"default:1" json:"status"`
	Children []*Organization `gorm:"-" json:"children,omitempty"`
}

// TableName 表名
func (Organization) TableName() string {
	return "sys_org"
}
