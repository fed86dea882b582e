package loginlog

// ListRequest 登录日志列表请求
type ListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Username string `query:"username"`
	Status   *int8  `query:"status"`
}
