package menu

// CreateRequest 创建菜单请求
type CreateRequest struct {
	ParentID  uint   `json:"parentId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Path      string `json:"path"`
	Component string `json:"component"`
	Icon      string `json:"icon"`
	Type      string `json:"type"`
	Visible   int8   `json:"visible"`
	Status    int8   `json:"status"`
	Sort      int    `json:"sort"`
}

// UpdateRequest 更新菜单请求
type UpdateRequest struct {
	ParentID  uint   `json:"parentId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Path      string `json:"path"`
	Component string `json:"component"`
	Icon      string `json:"icon"`
	Type      string `json:"type"`
	Visible   int8   `json:"visible"`
	Status    int8   `json:"status"`
	Sort      int    `json:"sort"`
}

// ListRequest 菜单列表请求
type ListRequest struct {
	Name   string `query:"name"`
	Status *int8  `query:"status"`
}
