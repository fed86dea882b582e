package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// 菜单类型
const (
	MenuTypeDirectory = "D" // 目录
	MenuTypeMenu      = "M" // 菜单
	MenuTypeButton    = "B" // 按钮
)

// Menu 菜单模型，Code作为权限标识参与鉴权
type Menu struct {
	dal.Model
	ParentID  uint    `gorm:"default:0;index" json:"parentId"`
	Name      string  `gorm:"size:50;not null" json:"name"`
	Code      string  `gorm:"size:100;index" json:"code"` // 权限标识，如 system:user
	Path      string  `gorm:"size:255" json:"path"`
	Component string  `gorm:"size:255" json:"component"`
	Icon      string  `gorm:"size:50" json:"icon"`
	Type      string  `gorm:"size:1;default:M" json:"type"` // D:目录 M:菜单 B:按钮
	Visible   int8    `gorm:"default:1" json:"visible"`
	Status    int8    `gorm:"default:1" json:"status"`
	Sort      int     `gorm:"default:0" json:"sort"`
	Children  []*Menu `gorm:"-" json:"children,omitempty"`
}

// TableName 表名
func (Menu) TableName() string {
	return "sys_menu"
}
