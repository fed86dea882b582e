package role

// CreateRequest 创建角色请求
type CreateRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Sort        int    `json:"sort"`
	Status      int8   `json:"status"`
	Description string `json:"description"`
	MenuIDs     []uint `json:"menuIds"`
}

// UpdateRequest 更新角色请求
type UpdateRequest struct {
	Name        string `json:"name"`
	Sort        int    `json:"sort"`
	Status      int8   `json:"status"`
	Description string `json:"description"`
}

// ListRequest 角色列表请求
type ListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Name     string `query:"name"`
	Status   *int8  `query:"status"`
}

// AssignMenusRequest 分配菜单请求
type AssignMenusRequest struct {
	MenuIDs []uint `json:"menuIds"`
}
