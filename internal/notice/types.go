package notice

// CreateRequest 创建通知请求
type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    int8   `json:"type"`
	Status  int8   `json:"status"`
}

// UpdateRequest 更新通知请求
type UpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    int8   `json:"type"`
	Status  int8   `json:"status"`
}

// ListRequest 通知列表请求
type ListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Title    string `query:"title"`
	Type     *int8  `query:"type"`
	Status   *int8  `query:"status"`
}
