package template

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

// Controller 实验模板控制器
type Controller struct {
	repo Repository
}

// NewController 创建实验模板控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	templates := r.Group("/templates", middleware.RequirePermission("experiment:template"))
	templates.Post("", c.Create)
	templates.Put("/:id", c.Update)
	templates.Delete("/:id", c.Delete)
	templates.Get("/:id", c.Get)
	templates.Get("", c.List)
}

// Create 创建实验模板
// @Summary 创建实验模板
// @Tags 实验模板
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建模板请求"
// @Success 200 {object} response.Response
// @Router /templates [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	tpl, err := c.create(ctx.UserContext(), &req, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, tpl)
}

// create 创建实验模板业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest, creatorID uint) (*model.ExperimentTemplate, error) {
	if req.Name == "" {
		return nil, errors.BadRequest("模板名称不能为空")
	}
	if _, err := ParseContent(req.Content); err != nil {
		return nil, errors.BadRequest("模板内容格式错误")
	}

	tpl := &model.ExperimentTemplate{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Status:      req.Status,
		CreatorID:   creatorID,
	}
	if tpl.Status == 0 {
		tpl.Status = 1
	}

	if err := c.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}

	return tpl, nil
}

// Update 更新实验模板
// @Summary 更新实验模板
// @Tags 实验模板
// @Accept json
// @Produce json
// @Param id path int true "模板ID"
// @Param request body UpdateRequest true "更新模板请求"
// @Success 200 {object} response.Response
// @Router /templates/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid template id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	tpl, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, tpl)
}

// update 更新实验模板业务逻辑
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest) (*model.ExperimentTemplate, error) {
	tpl, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, errors.NotFound("实验模板")
	}

	if _, err := ParseContent(req.Content); err != nil {
		return nil, errors.BadRequest("模板内容格式错误")
	}

	if req.Name != "" {
		tpl.Name = req.Name
	}
	tpl.Description = req.Description
	if req.Content != "" {
		tpl.Content = req.Content
	}
	if req.Status > 0 {
		tpl.Status = req.Status
	}

	if err := c.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}

	return tpl, nil
}

// Delete 删除实验模板
// 物理删除，已绑定课程或已有报告时拒绝
// @Summary 删除实验模板
// @Tags 实验模板
// @Param id path int true "模板ID"
// @Success 200 {object} response.Response
// @Router /templates/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid template id")
	}

	if err := c.delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// delete 删除实验模板业务逻辑
func (c *Controller) delete(ctx context.Context, id uint) error {
	tpl, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tpl == nil {
		return errors.NotFound("实验模板")
	}

	bound, err := c.repo.BoundToCourse(ctx, id)
	if err != nil {
		return err
	}
	if bound {
		return errors.BadRequest("模板已绑定课程，无法删除")
	}

	hasReports, err := c.repo.HasReports(ctx, id)
	if err != nil {
		return err
	}
	if hasReports {
		return errors.BadRequest("模板下已有实验报告，无法删除")
	}

	return c.repo.Delete(ctx, id)
}

// Get 获取实验模板详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid template id")
	}

	tpl, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if tpl == nil {
		return response.NotFound(ctx, "实验模板不存在")
	}

	return response.Success(ctx, tpl)
}

// List 实验模板列表
// @Summary 实验模板列表
// @Tags 实验模板
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param name query string false "模板名称"
// @Success 200 {object} response.Response
// @Router /templates [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.ExperimentTemplate{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
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

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
