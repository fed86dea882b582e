package report

// SaveRequest 保存实验报告请求，重复保存覆盖草稿
type SaveRequest struct {
	TemplateID uint   `json:"templateId"`
	CourseID   uint   `json:"courseId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// GradeRequest 批改请求
type GradeRequest struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// ListRequest 报告列表请求
type ListRequest struct {
	Page       int   `query:"page"`
	PageSize   int   `query:"pageSize"`
	CourseID   *uint `query:"courseId"`
	TemplateID *uint `query:"templateId"`
	UserID     *uint `query:"userId"`
	Status     *int8 `query:"status"`
}

// OverviewRequest 报告总览请求
type OverviewRequest struct {
	CourseID   uint `query:"courseId"`
	TemplateID uint `query:"templateId"`
}

// OverviewItem 报告总览行，每个课程学生一行
type OverviewItem struct {
	UserID      uint     `json:"userId"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	ReportID    uint     `json:"reportId"`
	Status      int8     `json:"status"`
	StatusName  string   `json:"statusName"`
	Score       *float64 `json:"score"`
	SubmittedAt string   `json:"submittedAt"`
}
