package role

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

// Controller 角色控制器
type Controller struct {
	repo Repository
}

// NewController 创建角色控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	roles := r.Group("/roles", middleware.RequirePermission("system:role"))
	roles.Post("", c.Create)
	roles.Put("/:id", c.Update)
	roles.Delete("/:id", c.Delete)
	roles.Get("/:id", c.Get)
	roles.Get("", c.List)
	roles.Get("/:id/menus", c.GetMenus)
	roles.Put("/:id/menus", c.AssignMenus)
}

// Create 创建角色
// @Summary 创建角色
// @Tags 角色管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建角色请求"
// @Success 200 {object} response.Response
// @Router /roles [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	role, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, role)
}

// create 创建角色业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Role, error) {
	if req.Name == "" || req.Code == "" {
		return nil, errors.BadRequest("角色名称和编码不能为空")
	}

	existing, err := c.repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("角色编码")
	}

	role := &model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Sort:        req.Sort,
		Status:      req.Status,
		Description: req.Description,
	}
	if role.Status == 0 {
		role.Status = 1
	}

	if err := c.repo.Create(ctx, role); err != nil {
		return nil, err
	}

	if len(req.MenuIDs) > 0 {
		if err := c.repo.ReplaceMenus(ctx, role.ID, req.MenuIDs); err != nil {
			return nil, err
		}
	}

	return role, nil
}

// Update 更新角色
// @Summary 更新角色
// @Tags 角色管理
// @Accept json
// @Produce json
// @Param id path int true "角色ID"
// @Param request body UpdateRequest true "更新角色请求"
// @Success 200 {object} response.Response
// @Router /roles/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid role id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	role, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, role)
}

// update 更新角色业务逻辑，编码创建后不可变更
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest) (*model.Role, error) {
	role, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NotFound("角色")
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	role.Sort = req.Sort
	if req.Status > 0 {
		role.Status = req.Status
	}
	role.Description = req.Description

	if err := c.repo.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// Delete 删除角色
// 物理删除，仍被用户使用时拒绝，并同步清理菜单授权
// @Summary 删除角色
// @Tags 角色管理
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response
// @Router /roles/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid role id")
	}

	if err := c.delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// delete 删除角色业务逻辑
func (c *Controller) delete(ctx context.Context, id uint) error {
	role, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return errors.NotFound("角色")
	}

	inUse, err := c.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return errors.BadRequest("角色已被用户使用，无法删除")
	}

	if err := c.repo.ReplaceMenus(ctx, id, nil); err != nil {
		return err
	}

	return c.repo.Delete(ctx, id)
}

// Get 获取角色详情
// @Summary 获取角色详情
// @Tags 角色管理
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response
// @Router /roles/{id} [get]
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid role id")
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}

	return response.Success(ctx, role)
}

// List 角色列表
// @Summary 角色列表
// @Tags 角色管理
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param name query string false "角色名称"
// @Success 200 {object} response.Response
// @Router /roles [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.Role{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	query = query.Order("sort, id")

	result, err := c.repo.FindPagedWithQuery(ctx.UserContext(), query, pagination)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.SuccessPage(ctx, result.List, result.Total, result.Page, result.PageSize)
}

// GetMenus 获取角色的菜单ID集合
// @Summary 获取角色菜单
// @Tags 角色管理
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response
// @Router /roles/{id}/menus [get]
func (c *Controller) GetMenus(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid role id")
	}

	ids, err := c.repo.MenuIDs(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, ids)
}

// AssignMenus 分配菜单
// 整体替换授权集合，下一次请求即按新权限鉴权
// @Summary 分配菜单
// @Tags 角色管理
// @Accept json
// @Produce json
// @Param id path int true "角色ID"
// @Param request body AssignMenusRequest true "分配菜单请求"
// @Success 200 {object} response.Response
// @Router /roles/{id}/menus [put]
func (c *Controller) AssignMenus(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid role id")
	}

	var req AssignMenusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}

	if err := c.repo.ReplaceMenus(ctx.UserContext(), id, req.MenuIDs); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
