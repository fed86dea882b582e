package todo

import "time"

// CreateRequest 创建待办请求
type CreateRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	DueAt   *time.Time `json:"dueAt"`
}

// UpdateRequest 更新待办请求
type UpdateRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Status  *int8      `json:"status"`
	DueAt   *time.Time `json:"dueAt"`
}

// ListRequest 待办列表请求
type ListRequest struct {
	Status *int8 `query:"status"`
}
