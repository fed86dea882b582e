package template

// CreateRequest 创建实验模板请求
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Status      int8   `json:"status"`
}

// UpdateRequest 更新实验模板请求
type UpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Status      int8   `json:"status"`
}

// ListRequest 实验模板列表请求
type ListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Name     string `query:"name"`
	Status   *int8  `query:"status"`
}
