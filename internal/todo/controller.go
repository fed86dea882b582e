package todo

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
)

// Controller 待办控制器，待办只属于创建者本人
type Controller struct {
	repo Repository
}

// NewController 创建待办控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	todos := r.Group("/todos", middleware.RequireAuth())
	todos.Post("", c.Create)
	todos.Put("/:id", c.Update)
	todos.Delete("/:id", c.Delete)
	todos.Get("", c.List)
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办事项
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建待办请求"
// @Success 200 {object} response.Response
// @Router /todos [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if req.Title == "" {
		return response.BadRequest(ctx, "标题不能为空")
	}

	todo := &model.Todo{
		UserID:  middleware.GetUserID(ctx),
		Title:   req.Title,
		Content: req.Content,
		Status:  model.TodoStatusOpen,
		DueAt:   req.DueAt,
	}

	if err := c.repo.Create(ctx.UserContext(), todo); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, todo)
}

// Update 更新待办
// @Summary 更新待办
// @Tags 待办事项
// @Param id path int true "待办ID"
// @Success 200 {object} response.Response
// @Router /todos/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid todo id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	todo, err := c.ownTodo(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return response.Fail(ctx, err)
	}

	if req.Title != "" {
		todo.Title = req.Title
	}
	todo.Content = req.Content
	if req.Status != nil {
		todo.Status = *req.Status
	}
	if req.DueAt != nil {
		todo.DueAt = req.DueAt
	}

	if err := c.repo.Update(ctx.UserContext(), todo); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, todo)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办事项
// @Param id path int true "待办ID"
// @Success 200 {object} response.Response
// @Router /todos/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid todo id")
	}

	if _, err := c.ownTodo(ctx.UserContext(), id, middleware.GetUserID(ctx)); err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// List 我的待办列表
// @Summary 我的待办列表
// @Tags 待办事项
// @Param status query int false "状态"
// @Success 200 {object} response.Response
// @Router /todos [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	todos, err := c.repo.FindByUserID(ctx.UserContext(), middleware.GetUserID(ctx), req.Status)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, todos)
}

// ownTodo 查询并校验归属
func (c *Controller) ownTodo(ctx context.Context, id, userID uint) (*model.Todo, error) {
	todo, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo == nil || todo.UserID != userID {
		return nil, errors.NotFound("待办")
	}
	return todo, nil
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
