package course

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
)

// Controller 课程控制器
type Controller struct {
	repo Repository
}

// NewController 创建课程控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	courses := r.Group("/courses", middleware.RequirePermission("course:manage"))
	courses.Post("", c.Create)
	courses.Put("/:id", c.Update)
	courses.Delete("/:id", c.Delete)
	courses.Get("/:id", c.Get)
	courses.Get("", c.List)
	courses.Post("/:id/users", c.BindUsers)
	courses.Delete("/:id/users", c.UnbindUsers)
	courses.Get("/:id/users", c.Members)
	courses.Post("/:id/templates", c.BindTemplates)
	courses.Delete("/:id/templates", c.UnbindTemplates)
	courses.Get("/:id/templates", c.Templates)

	// 学生查看自己参与的课程，仅要求登录
	r.Get("/my/courses", middleware.RequireAuth(), c.MyCourses)
	r.Get("/my/courses/:id/templates", middleware.RequireAuth(), c.MyCourseTemplates)
}

// Create 创建课程
// @Summary 创建课程
// @Tags 课程管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建课程请求"
// @Success 200 {object} response.Response
// @Router /courses [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if req.Name == "" {
		return response.BadRequest(ctx, "课程名称不能为空")
	}

	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		Semester:    req.Semester,
		Cover:       req.Cover,
		Status:      req.Status,
		CreatorID:   middleware.GetUserID(ctx),
	}
	if course.Status == 0 {
		course.Status = 1
	}

	if err := c.repo.Create(ctx.UserContext(), course); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, course)
}

// Update 更新课程
// @Summary 更新课程
// @Tags 课程管理
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param request body UpdateRequest true "更新课程请求"
// @Success 200 {object} response.Response
// @Router /courses/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	course, err := c.update(ctx.UserContext(), id, &req, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, course)
}

// update 更新课程业务逻辑
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest, userID uint) (*model.Course, error) {
	course, err := c.manageCourse(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	course.Description = req.Description
	course.Semester = req.Semester
	if req.Cover != "" {
		course.Cover = req.Cover
	}
	if req.Status > 0 {
		course.Status = req.Status
	}

	if err := c.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Delete 删除课程
// 仅创建者可删除，物理删除，同时清理成员与模板绑定关系
// @Summary 删除课程
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /courses/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	if err := c.delete(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// delete 删除课程业务逻辑
func (c *Controller) delete(ctx context.Context, id, userID uint) error {
	course, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if course == nil {
		return errors.NotFound("课程")
	}
	if course.CreatorID != userID {
		return errors.Forbidden("仅课程创建者可以删除")
	}

	db := c.repo.DB(ctx)
	if err := db.Where("course_id = ?", id).Delete(&model.CourseUser{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&model.CourseTemplate{}).Error; err != nil {
		return err
	}

	return c.repo.Delete(ctx, id)
}

// Get 获取课程详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	course, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if course == nil {
		return response.NotFound(ctx, "课程不存在")
	}

	return response.Success(ctx, course)
}

// List 课程列表
// @Summary 课程列表
// @Tags 课程管理
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param name query string false "课程名称"
// @Success 200 {object} response.Response
// @Router /courses [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.Course{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Semester != "" {
		query = query.Where("semester = ?", req.Semester)
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	query = query.Order("id DESC")

	result, err := c.repo.FindPagedWithQuery(ctx.UserContext(), query, pagination)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.SuccessPage(ctx, result.List, result.Total, result.Page, result.PageSize)
}

// BindUsers 绑定课程成员
// @Summary 绑定课程成员
// @Tags 课程管理
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param request body BindUsersRequest true "绑定成员请求"
// @Success 200 {object} response.Response
// @Router /courses/{id}/users [post]
func (c *Controller) BindUsers(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req BindUsersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if len(req.UserIDs) == 0 {
		return response.BadRequest(ctx, "成员列表不能为空")
	}
	if req.UserType != model.CourseUserStudent && req.UserType != model.CourseUserAdmin {
		return response.BadRequest(ctx, "非法的成员类型")
	}

	if _, err := c.manageCourse(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.BindUsers(ctx.UserContext(), id, req.UserIDs, req.UserType); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// UnbindUsers 解绑课程成员
// @Summary 解绑课程成员
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /courses/{id}/users [delete]
func (c *Controller) UnbindUsers(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req UnbindUsersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if len(req.UserIDs) == 0 {
		return response.BadRequest(ctx, "成员列表不能为空")
	}

	if _, err := c.manageCourse(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.UnbindUsers(ctx.UserContext(), id, req.UserIDs); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// Members 课程成员列表
// @Summary 课程成员列表
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Param userType query int false "成员类型"
// @Success 200 {object} response.Response
// @Router /courses/{id}/users [get]
func (c *Controller) Members(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req MemberListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	users, err := c.repo.Members(ctx.UserContext(), id, req.UserType)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, users)
}

// BindTemplates 绑定实验模板
// @Summary 绑定实验模板
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /courses/{id}/templates [post]
func (c *Controller) BindTemplates(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req BindTemplatesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if len(req.TemplateIDs) == 0 {
		return response.BadRequest(ctx, "模板列表不能为空")
	}

	if _, err := c.manageCourse(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.BindTemplates(ctx.UserContext(), id, req.TemplateIDs); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// UnbindTemplates 解绑实验模板
// @Summary 解绑实验模板
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /courses/{id}/templates [delete]
func (c *Controller) UnbindTemplates(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	var req UnbindTemplatesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if len(req.TemplateIDs) == 0 {
		return response.BadRequest(ctx, "模板列表不能为空")
	}

	if _, err := c.manageCourse(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.UnbindTemplates(ctx.UserContext(), id, req.TemplateIDs); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// Templates 课程绑定的实验模板列表
// @Summary 课程实验模板列表
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /courses/{id}/templates [get]
func (c *Controller) Templates(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	templates, err := c.repo.Templates(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, templates)
}

// MyCourses 当前用户参与的课程
// @Summary 我的课程
// @Tags 课程管理
// @Success 200 {object} response.Response
// @Router /my/courses [get]
func (c *Controller) MyCourses(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)

	courses, err := c.repo.FindByUserID(ctx.UserContext(), userID)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, courses)
}

// MyCourseTemplates 当前用户所在课程的实验模板，非课程成员拒绝访问
// @Summary 我的课程实验模板
// @Tags 课程管理
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response
// @Router /my/courses/{id}/templates [get]
func (c *Controller) MyCourseTemplates(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid course id")
	}

	isMember, err := c.repo.IsMember(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}
	if !isMember {
		return response.Forbidden(ctx, "不是课程成员")
	}

	templates, err := c.repo.Templates(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, templates)
}

// manageCourse 查询课程并校验管理权，创建者或课程管理员放行
func (c *Controller) manageCourse(ctx context.Context, id, userID uint) (*model.Course, error) {
	course, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, errors.NotFound("课程")
	}
	if course.CreatorID == userID {
		return course, nil
	}

	admin, err := c.repo.IsAdmin(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, errors.Forbidden("不是课程创建者或管理员")
	}
	return course, nil
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
