package dal

import (
	"time"
)

// Model 基础模型，所有实体嵌入此结构
// 系统中的删除均为物理删除，不使用软删除字段
type Model struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// GetID 获取主键
func (m *Model) GetID() uint {
	return m.ID
}
