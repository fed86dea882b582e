package organization

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

// Controller 组织控制器
type Controller struct {
	repo Repository
}

// NewController 创建组织控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	orgs := r.Group("/orgs", middleware.RequirePermission("system:org"))
	orgs.Post("", c.Create)
	orgs.Put("/:id", c.Update)
	orgs.Delete("/:id", c.Delete)
	orgs.Get("", c.List)
	// tree需先于:id注册
	orgs.Get("/tree", c.Tree)
	orgs.Get("/:id", c.Get)
}

// Create 创建组织
// @Summary 创建组织
// @Tags 组织管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建组织请求"
// @Success 200 {object} response.Response
// @Router /orgs [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	org, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, org)
}

// create 创建组织业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Organization, error) {
	if req.Name == "" {
		return nil, errors.BadRequest("组织名称不能为空")
	}

	if req.ParentID > 0 {
		parent, err := c.repo.FindByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, errors.NotFound("上级组织")
		}
	}

	org := &model.Organization{
		ParentID: req.ParentID,
		Name:     req.Name,
		Code:     req.Code,
		Leader:   req.Leader,
		Sort:     req.Sort,
		Status:   req.Status,
	}
	if org.Status == 0 {
		org.Status = 1
	}

	if err := c.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// Update 更新组织
// @Summary 更新组织
// @Tags 组织管理
// @Accept json
// @Produce json
// @Param id path int true "组织ID"
// @Param request body UpdateRequest true "更新组织请求"
// @Success 200 {object} response.Response
// @Router /orgs/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid org id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	org, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, org)
}

// update 更新组织业务逻辑
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest) (*model.Organization, error) {
	org, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errors.NotFound("组织")
	}

	if req.ParentID == id {
		return nil, errors.BadRequest("上级组织不能是自身")
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	org.ParentID = req.ParentID
	org.Code = req.Code
	org.Leader = req.Leader
	org.Sort = req.Sort
	if req.Status > 0 {
		org.Status = req.Status
	}

	if err := c.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// Delete 删除组织
// 物理删除，存在下级组织或挂靠用户时拒绝
// @Summary 删除组织
// @Tags 组织管理
// @Param id path int true "组织ID"
// @Success 200 {object} response.Response
// @Router /orgs/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid org id")
	}

	if err := c.delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// delete 删除组织业务逻辑
func (c *Controller) delete(ctx context.Context, id uint) error {
	org, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if org == nil {
		return errors.NotFound("组织")
	}

	hasChildren, err := c.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return errors.BadRequest("存在下级组织，无法删除")
	}

	hasUsers, err := c.repo.HasUsers(ctx, id)
	if err != nil {
		return err
	}
	if hasUsers {
		return errors.BadRequest("组织下仍有用户，无法删除")
	}

	return c.repo.Delete(ctx, id)
}

// Get 获取组织详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid org id")
	}

	org, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if org == nil {
		return response.NotFound(ctx, "组织不存在")
	}

	return response.Success(ctx, org)
}

// List 组织列表
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	query := c.repo.DB(ctx.UserContext()).Model(&model.Organization{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}

	var orgs []*model.Organization
	if err := query.Order("sort, id").Find(&orgs).Error; err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, orgs)
}

// Tree 组织树
// @Summary 组织树
// @Tags 组织管理
// @Success 200 {object} response.Response
// @Router /orgs/tree [get]
func (c *Controller) Tree(ctx *fiber.Ctx) error {
	orgs, err := c.repo.Find(ctx.UserContext(), nil)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, buildTree(orgs))
}

// buildTree 将平铺组织构造成树
func buildTree(orgs []*model.Organization) []*model.Organization {
	nodes := make(map[uint]*model.Organization, len(orgs))
	for _, o := range orgs {
		o.Children = nil
		nodes[o.ID] = o
	}

	var roots []*model.Organization
	for _, o := range orgs {
		if parent, ok := nodes[o.ParentID]; ok && o.ParentID != o.ID {
			parent.Children = append(parent.Children, o)
		} else {
			roots = append(roots, o)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].Sort != roots[j].Sort {
			return roots[i].Sort < roots[j].Sort
		}
		return roots[i].ID < roots[j].ID
	})
	return roots
}

// parseID 解析路径参数中的ID
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
