package user

// CreateRequest 创建用户请求
type CreateRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
	RoleID      uint   `json:"roleId"`
	OrgID       uint   `json:"orgId"`
	Status      int8   `json:"status"`
}

// UpdateRequest 更新用户请求
type UpdateRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
	RoleID      uint   `json:"roleId"`
	OrgID       uint   `json:"orgId"`
	Status      int8   `json:"status"`
}

// ListRequest 用户列表请求
type ListRequest struct {
	Page        int    `query:"page"`
	PageSize    int    `query:"pageSize"`
	Username    string `query:"username"`
	DisplayName string `query:"displayName"`
	Status      *int8  `query:"status"`
	RoleID      *uint  `query:"roleId"`
	OrgID       *uint  `query:"orgId"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
