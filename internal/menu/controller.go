package menu

import (
	"context"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
)

// Controller 菜单控制器
type Controller struct {
	repo Repository
}

// NewController 创建菜单控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	menus := r.Group("/menus", middleware.RequirePermission("system:menu"))
	menus.Post("", c.Create)
	menus.Put("/:id", c.Update)
	menus.Delete("/:id", c.Delete)
	menus.Get("", c.List)
	// tree需先于:id注册
	menus.Get("/tree", c.Tree)
	menus.Get("/:id", c.Get)
}

// Create 创建菜单
// @Summary 创建菜单
// @Tags 菜单管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建菜单请求"
// @Success 200 {object} response.Response
// @Router /menus [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	menu, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, menu)
}

// create 创建菜单业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Menu, error) {
	if req.Name == "" {
		return nil, errors.BadRequest("菜单名称不能为空")
	}
	if req.Type == "" {
		req.Type = model.MenuTypeMenu
	}
	if req.Type != model.MenuTypeDirectory && req.Type != model.MenuTypeMenu && req.Type != model.MenuTypeButton {
		return nil, errors.BadRequest("非法的菜单类型")
	}

	if req.ParentID > 0 {
		parent, err := c.repo.FindByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, errors.NotFound("上级菜单")
		}
	}

	menu := &model.Menu{
		ParentID:  req.ParentID,
		Name:      req.Name,
		Code:      req.Code,
		Path:      req.Path,
		Component: req.Component,
		Icon:      req.Icon,
		Type:      req.Type,
		Visible:   req.Visible,
		Status:    req.Status,
		Sort:      req.Sort,
	}
	if menu.Status == 0 {
		menu.Status = 1
	}
	if menu.Visible == 0 {
		menu.Visible = 1
	}

	if err := c.repo.Create(ctx, menu); err != nil {
		return nil, err
	}

	return menu, nil
}

// Update 更新菜单
// @Summary 更新菜单
// @Tags 菜单管理
// @Accept json
// @Produce json
// @Param id path int true "菜单ID"
// @Param request body UpdateRequest true "更新菜单请求"
// @Success 200 {object} response.Response
// @Router /menus/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid menu id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	menu, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, menu)
}

// update 更新菜单业务逻辑
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest) (*model.Menu, error) {
	menu, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, errors.NotFound("菜单")
	}

	if req.ParentID == id {
		return nil, errors.BadRequest("上级菜单不能是自身")
	}

	if req.Name != "" {
		menu.Name = req.Name
	}
	menu.ParentID = req.ParentID
	menu.Code = req.Code
	menu.Path = req.Path
	menu.Component = req.Component
	menu.Icon = req.Icon
	if req.Type != "" {
		menu.Type = req.Type
	}
	if req.Visible > 0 {
		menu.Visible = req.Visible
	}
	if req.Status > 0 {
		menu.Status = req.Status
	}
	menu.Sort = req.Sort

	if err := c.repo.Update(ctx, menu); err != nil {
		return nil, err
	}

	return menu, nil
}

// Delete 删除菜单
// 物理删除，存在子菜单或被角色引用时拒绝
// @Summary 删除菜单
// @Tags 菜单管理
// @Param id path int true "菜单ID"
// @Success 200 {object} response.Response
// @Router /menus/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid menu id")
	}

	if err := c.delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// delete 删除菜单业务逻辑
func (c *Controller) delete(ctx context.Context, id uint) error {
	menu, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if menu == nil {
		return errors.NotFound("菜单")
	}

	hasChildren, err := c.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return errors.BadRequest("存在子菜单，无法删除")
	}

	referenced, err := c.repo.ReferencedByRole(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return errors.BadRequest("菜单已被角色引用，无法删除")
	}

	return c.repo.Delete(ctx, id)
}

// Get 获取菜单详情
// @Summary 获取菜单详情
// @Tags 菜单管理
// @Param id path int true "菜单ID"
// @Success 200 {object} response.Response
// @Router /menus/{id} [get]
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid menu id")
	}

	menu, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if menu == nil {
		return response.NotFound(ctx, "菜单不存在")
	}

	return response.Success(ctx, menu)
}

// List 菜单列表
// @Summary 菜单列表
// @Tags 菜单管理
// @Param name query string false "菜单名称"
// @Param status query int false "状态"
// @Success 200 {object} response.Response
// @Router /menus [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	query := c.repo.DB(ctx.UserContext()).Model(&model.Menu{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}

	var menus []*model.Menu
	if err := query.Order("sort, id").Find(&menus).Error; err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, menus)
}

// Tree 菜单树
// @Summary 菜单树
// @Tags 菜单管理
// @Success 200 {object} response.Response
// @Router /menus/tree [get]
func (c *Controller) Tree(ctx *fiber.Ctx) error {
	menus, err := c.repo.Find(ctx.UserContext(), nil)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, BuildTree(menus))
}

// BuildTree 将平铺菜单构造成树
func BuildTree(menus []*model.Menu) []*model.Menu {
	nodes := make(map[uint]*model.Menu, len(menus))
	for _, m := range menus {
		m.Children = nil
		nodes[m.ID] = m
	}

	var roots []*model.Menu
	for _, m := range menus {
		if parent, ok := nodes[m.ParentID]; ok && m.ParentID != m.ID {
			parent.Children = append(parent.Children, m)
		} else {
			roots = append(roots, m)
		}
	}

	sortTree(roots)
	return roots
}

// sortTree 按Sort与ID递归排序
func sortTree(menus []*model.Menu) {
	sort.SliceStable(menus, func(i, j int) bool {
		if menus[i].Sort != menus[j].Sort {
			return menus[i].Sort < menus[j].Sort
		}
		return menus[i].ID < menus[j].ID
	})
	for _, m := range menus {
		if len(m.Children) > 0 {
			sortTree(m.Children)
		}
	}
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
