package organization

// CreateRequest 创建组织请求
type CreateRequest struct {
	ParentID uint   `json:"parentId"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Leader   string `json:"leader"`
	Sort     int    `json:"sort"`
	Status   int8   `json:"status"`
}

// UpdateRequest 更新组织请求
type UpdateRequest struct {
	ParentID uint   `json:"parentId"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Leader   string `json:"leader"`
	Sort     int    `json:"sort"`
	Status   int8   `json:"status"`
}

// ListRequest 组织列表请求
type ListRequest struct {
	Name   string `query:"name"`
	Status *int8  `query:"status"`
}
