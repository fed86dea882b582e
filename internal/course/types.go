package course

// CreateRequest 创建课程请求
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Semester    string `json:"semester"`
	Cover       string `json:"cover"`
	Status      int8   `json:"status"`
}

// UpdateRequest 更新课程请求
type UpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Semester    string `json:"semester"`
	Cover       string `json:"cover"`
	Status      int8   `json:"status"`
}

// ListRequest 课程列表请求
type ListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Name     string `query:"name"`
	Semester string `query:"semester"`
	Status   *int8  `query:"status"`
}

// BindUsersRequest 绑定课程成员请求
type BindUsersRequest struct {
	UserIDs  []uint `json:"userIds"`
	UserType int8   `json:"userType"`
}

// UnbindUsersRequest 解绑课程成员请求
type UnbindUsersRequest struct {
	UserIDs []uint `json:"userIds"`
}

// BindTemplatesRequest 绑定实验模板请求
type BindTemplatesRequest struct {
	TemplateIDs []uint `json:"templateIds"`
}

// UnbindTemplatesRequest 解绑实验模板请求
type UnbindTemplatesRequest struct {
	TemplateIDs []uint `json:"templateIds"`
}

// MemberListRequest 课程成员列表请求
type MemberListRequest struct {
	UserType *int8 `query:"userType"`
}
