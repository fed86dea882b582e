package model

import (
	"time"

	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// Notice 通知公告模型
type Notice struct {
	dal.Model
	Title       string `gorm:"size:200;not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	Type        int8   `gorm:"default:1" json:"type"` // 1:通知 2:公告
	Status      int8   `gorm:"default:1" json:"status"`
	PublisherID uint   `gorm:"index" json:"publisherId"`
}

// TableName 表名
func (Notice) TableName() string {
	return "notice"
}

// 待办状态
const (
	TodoStatusOpen int8 = 0 // 未完成
	TodoStatusDone int8 = 1 // 已完成
)

// Todo 待办事项模型
type Todo struct {
	dal.Model
	UserID  uint       `gorm:"index;not null" json:"userId"`
	Title   string     `gorm:"size:200;not null" json:"title"`
	Content string     `gorm:"size:500" json:"content"`
	Status  int8       `gorm:"default:0" json:"status"` // 0:未完成 1:已完成
	DueAt   *time.Time `json:"dueAt"`
}

// TableName 表名
func (Todo) TableName() string {
	return "todo"
}
