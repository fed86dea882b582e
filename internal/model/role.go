package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// Role 角色模型
type Role struct {
	dal.Model
	Name        string  `gorm:"size:50;not null" json:"name"`
	Code        string  `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Status      int8    `gorm:"default:1" json:"status"`
	Sort        int     `gorm:"default:0" json:"sort"`
	Description string  `gorm:"size:255" json:"description"`
	Menus       []*Menu `gorm:"many2many:role_menu" json:"menus,omitempty"`
}

// TableName 表名
func (Role) TableName() string {
	return "sys_role"
}

// RoleMenu 角色菜单关联
type RoleMenu struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID uint `gorm:"index:idx_role_menu;not null" json:"roleId"`
	MenuID uint `gorm:"index:idx_role_menu;not null" json:"menuId"`
}

// TableName 表名
func (RoleMenu) TableName() string {
	return "role_menu"
}
