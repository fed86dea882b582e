package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// LoginLog 登录日志
type LoginLog struct {
	dal.Model
	UserID    uint   `gorm:"index" json:"userId"`
	Username  string `gorm:"size:50" json:"username"`
	IP        string `gorm:"size:50" json:"ip"`
	UserAgent string `gorm:"size:255" json:"userAgent"`
	Status    int8   `gorm:"default:1" json:"status"` // 1:成功 0:失败
	Message   string `gorm:"size:255" json:"message"`
}

// TableName 表名
func (LoginLog) TableName() string {
	return "sys_login_log"
}
