package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// 用户状态
const (
	UserStatusActive int8 = 1 // 正常
	UserStatusLocked int8 = 2 // 锁定
)

// User 用户模型
type User struct {
	dal.Model
	Username    string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password    string `gorm:"size:255;not null" json:"-"`
	DisplayName string `gorm:"size:50" json:"displayName"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Avatar      string `gorm:"size:255" json:"avatar"`
	Status      int8   `gorm:"default:1" json:"status"` // 1:正常 2:锁定
	RoleID      uint   `gorm:"index" json:"roleId"`
	OrgID       uint   `gorm:"index" json:"orgId"`
	Role        *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "sys_user"
}

// IsActive 是否可登录
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
