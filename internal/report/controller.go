package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/course"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
)

// Controller 实验报告控制器
type Controller struct {
	repo    Repository
	courses course.Repository
}

// NewController 创建实验报告控制器
func NewController(repo Repository, courses course.Repository) *Controller {
	return &Controller{repo: repo, courses: courses}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	// 学生侧，仅要求登录，只能操作自己的报告
	my := r.Group("/my/reports", middleware.RequireAuth())
	my.Post("", c.Save)
	my.Post("/:id/submit", c.Submit)
	my.Delete("/:id", c.MyDelete)
	my.Get("", c.MyList)
	my.Get("/:id", c.MyGet)
	my.Get("/:id/export", c.MyExport)

	// 教师侧
	reports := r.Group("/reports", middleware.RequirePermission("course:manage"))
	reports.Get("", c.List)
	reports.Get("/overview", c.Overview)
	reports.Get("/:id", c.Get)
	reports.Put("/:id/grade", c.Grade)
	reports.Get("/:id/export", c.Export)
}

// Save 保存报告草稿
// 同一学生同一课程同一模板只有一份报告，重复保存覆盖草稿内容
// @Summary 保存实验报告
// @Tags 实验报告
// @Accept json
// @Produce json
// @Param request body SaveRequest true "保存报告请求"
// @Success 200 {object} response.Response
// @Router /my/reports [post]
func (c *Controller) Save(ctx *fiber.Ctx) error {
	var req SaveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	rep, err := c.save(ctx.UserContext(), &req, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, rep)
}

// save 保存报告业务逻辑
func (c *Controller) save(ctx context.Context, req *SaveRequest, userID uint) (*model.ExperimentReport, error) {
	if req.TemplateID == 0 || req.CourseID == 0 {
		return nil, errors.BadRequest("课程和模板不能为空")
	}
	if _, err := parseContent(req.Content); err != nil {
		return nil, errors.BadRequest("报告内容格式错误")
	}

	isMember, err := c.courses.IsMember(ctx, req.CourseID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.Forbidden("不是课程成员")
	}

	rep, err := c.repo.FindByOwner(ctx, req.TemplateID, req.CourseID, userID)
	if err != nil {
		return nil, err
	}

	if rep == nil {
		rep = &model.ExperimentReport{
			TemplateID: req.TemplateID,
			CourseID:   req.CourseID,
			UserID:     userID,
			Title:      req.Title,
			Content:    req.Content,
			Status:     model.ReportStatusDraft,
		}
		if err := c.repo.Create(ctx, rep); err != nil {
			return nil, err
		}
		return rep, nil
	}

	if rep.Status != model.ReportStatusDraft {
		return nil, errors.BadRequest("报告已提交，无法修改")
	}

	rep.Title = req.Title
	rep.Content = req.Content
	if err := c.repo.Update(ctx, rep); err != nil {
		return nil, err
	}

	return rep, nil
}

// Submit 提交报告
// 仅草稿可提交，提交后不可再修改
// @Summary 提交实验报告
// @Tags 实验报告
// @Param id path int true "报告ID"
// @Success 200 {object} response.Response
// @Router /my/reports/{id}/submit [post]
func (c *Controller) Submit(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	rep, err := c.ownReport(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	if rep.Status != model.ReportStatusDraft {
		return response.Fail(ctx, errors.BadRequest("仅草稿可以提交"))
	}

	now := time.Now()
	rep.Status = model.ReportStatusSubmitted
	rep.SubmittedAt = &now
	if err := c.repo.Update(ctx.UserContext(), rep); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, rep)
}

// MyDelete 删除我的报告
// 仅草稿可删除，已提交的报告留作批改记录
// @Summary 删除实验报告
// @Tags 实验报告
// @Param id path int true "报告ID"
// @Success 200 {object} response.Response
// @Router /my/reports/{id} [delete]
func (c *Controller) MyDelete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	if err := c.deleteDraft(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// deleteDraft 删除草稿业务逻辑
func (c *Controller) deleteDraft(ctx context.Context, id, userID uint) error {
	rep, err := c.ownReport(ctx, id, userID)
	if err != nil {
		return err
	}
	if rep.Status != model.ReportStatusDraft {
		return errors.BadRequest("仅草稿可以删除")
	}

	return c.repo.Delete(ctx, id)
}

// MyList 我的报告列表
// @Summary 我的报告列表
// @Tags 实验报告
// @Success 200 {object} response.Response
// @Router /my/reports [get]
func (c *Controller) MyList(ctx *fiber.Ctx) error {
	reports, err := c.repo.FindByUserID(ctx.UserContext(), middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, reports)
}

// MyGet 我的报告详情
func (c *Controller) MyGet(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	rep, err := c.ownReport(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, rep)
}

// MyExport 导出我的报告为Markdown
// @Summary 导出我的报告
// @Tags 实验报告
// @Param id path int true "报告ID"
// @Produce text/markdown
// @Router /my/reports/{id}/export [get]
func (c *Controller) MyExport(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	rep, err := c.repo.FindByID(ctx.UserContext(), id,
		dal.WithPreload("Template"), dal.WithPreload("User"))
	if err != nil {
		return response.Fail(ctx, err)
	}
	if rep == nil || rep.UserID != middleware.GetUserID(ctx) {
		return response.NotFound(ctx, "报告不存在")
	}

	return c.writeMarkdown(ctx, rep)
}

// ownReport 查询并校验归属
func (c *Controller) ownReport(ctx context.Context, id, userID uint) (*model.ExperimentReport, error) {
	rep, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil || rep.UserID != userID {
		return nil, errors.NotFound("报告")
	}
	return rep, nil
}

// List 报告列表
// @Summary 报告列表
// @Tags 实验报告
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param courseId query int false "课程ID"
// @Param templateId query int false "模板ID"
// @Success 200 {object} response.Response
// @Router /reports [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.ExperimentReport{})
	if req.CourseID != nil {
		query = query.Where("course_id = ?", *req.CourseID)
	}
	if req.TemplateID != nil {
		query = query.Where("template_id = ?", *req.TemplateID)
	}
	if req.UserID != nil {
		query = query.Where("user_id = ?", *req.UserID)
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	query = query.Order("id DESC").Preload("Template").Preload("User")

	result, err := c.repo.FindPagedWithQuery(ctx.UserContext(), query, pagination)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.SuccessPage(ctx, result.List, result.Total, result.Page, result.PageSize)
}

// Get 报告详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	rep, err := c.repo.FindByID(ctx.UserContext(), id,
		dal.WithPreload("Template"), dal.WithPreload("User"))
	if err != nil {
		return response.Fail(ctx, err)
	}
	if rep == nil {
		return response.NotFound(ctx, "报告不存在")
	}

	return response.Success(ctx, rep)
}

// Grade 批改报告
// 已提交或已批改的报告可以批改，批改后学生不可再修改
// @Summary 批改实验报告
// @Tags 实验报告
// @Accept json
// @Produce json
// @Param id path int true "报告ID"
// @Param request body GradeRequest true "批改请求"
// @Success 200 {object} response.Response
// @Router /reports/{id}/grade [put]
func (c *Controller) Grade(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	var req GradeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	rep, err := c.grade(ctx.UserContext(), id, &req, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, rep)
}

// grade 批改业务逻辑
func (c *Controller) grade(ctx context.Context, id uint, req *GradeRequest, graderID uint) (*model.ExperimentReport, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, errors.BadRequest("成绩必须在0到100之间")
	}

	rep, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, errors.NotFound("报告")
	}
	if rep.Status != model.ReportStatusSubmitted && rep.Status != model.ReportStatusGraded {
		return nil, errors.BadRequest("报告尚未提交，无法批改")
	}

	now := time.Now()
	score := req.Score
	rep.Score = &score
	rep.Comment = req.Comment
	rep.GraderID = graderID
	rep.GradedAt = &now
	rep.Status = model.ReportStatusGraded

	if err := c.repo.Update(ctx, rep); err != nil {
		return nil, err
	}

	return rep, nil
}

// Overview 报告总览
// 按课程学生逐人给出报告状态，未建报告的学生标记为未开始
// @Summary 报告总览
// @Tags 实验报告
// @Param courseId query int true "课程ID"
// @Param templateId query int true "模板ID"
// @Success 200 {object} response.Response
// @Router /reports/overview [get]
func (c *Controller) Overview(ctx *fiber.Ctx) error {
	var req OverviewRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if req.CourseID == 0 || req.TemplateID == 0 {
		return response.BadRequest(ctx, "课程和模板不能为空")
	}

	items, err := c.overview(ctx.UserContext(), req.CourseID, req.TemplateID)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, items)
}

// overview 总览业务逻辑
func (c *Controller) overview(ctx context.Context, courseID, templateID uint) ([]*OverviewItem, error) {
	studentType := model.CourseUserStudent
	students, err := c.courses.Members(ctx, courseID, &studentType)
	if err != nil {
		return nil, err
	}

	reports, err := c.repo.FindForOverview(ctx, courseID, templateID)
	if err != nil {
		return nil, err
	}

	items := make([]*OverviewItem, 0, len(students))
	for _, s := range students {
		item := &OverviewItem{
			UserID:      s.ID,
			Username:    s.Username,
			DisplayName: s.DisplayName,
			Status:      model.ReportStatusPending,
		}
		if rep, ok := reports[s.ID]; ok {
			item.ReportID = rep.ID
			item.Status = rep.Status
			item.Score = rep.Score
			if rep.SubmittedAt != nil {
				item.SubmittedAt = rep.SubmittedAt.Format(time.DateTime)
			}
		}
		item.StatusName = StatusName(item.Status)
		items = append(items, item)
	}

	return items, nil
}

// Export 导出报告为Markdown
// @Summary 导出实验报告
// @Tags 实验报告
// @Param id path int true "报告ID"
// @Produce text/markdown
// @Router /reports/{id}/export [get]
func (c *Controller) Export(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid report id")
	}

	rep, err := c.repo.FindByID(ctx.UserContext(), id,
		dal.WithPreload("Template"), dal.WithPreload("User"))
	if err != nil {
		return response.Fail(ctx, err)
	}
	if rep == nil {
		return response.NotFound(ctx, "报告不存在")
	}

	return c.writeMarkdown(ctx, rep)
}

// writeMarkdown 渲染Markdown并以附件形式返回
func (c *Controller) writeMarkdown(ctx *fiber.Ctx, rep *model.ExperimentReport) error {
	md, err := ExportMarkdown(rep)
	if err != nil {
		return response.Fail(ctx, errors.Wrap(err, 400, "报告内容格式错误"))
	}

	filename := fmt.Sprintf("report-%d.md", rep.ID)
	ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.SendString(md)
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
