package dal

// Pagination 分页参数
type Pagination struct {
	Page     int `json:"page" form:"page" query:"page"`
	PageSize int `json:"pageSize" form:"pageSize" query:"pageSize"`
}

// NewPagination 创建分页参数，自动修正非法值
func NewPagination(page, pageSize int) *Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return &Pagination{Page: page, PageSize: pageSize}
}

// Offset 计算偏移量
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	List     []*T  `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// NewPagedResult 创建分页结果
func NewPagedResult[T any](list []*T, total int64, pagination *Pagination) *PagedResult[T] {
	return &PagedResult[T]{
		List:     list,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
}
