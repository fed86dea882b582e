package user

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
)

// DefaultPassword 重置密码时的默认密码
const DefaultPassword = "123456"

// Controller 用户控制器
type Controller struct {
	repo Repository
}

// NewController 创建用户控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	users := r.Group("/users", middleware.RequirePermission("system:user"))
	users.Post("", c.Create)
	users.Put("/:id", c.Update)
	users.Delete("/:id", c.Delete)
	users.Get("/:id", c.Get)
	users.Get("", c.List)
	users.Put("/:id/password/reset", c.ResetPassword)

	// 个人中心，仅要求登录
	profile := r.Group("/profile", middleware.RequireAuth())
	profile.Get("", c.GetProfile)
	profile.Put("", c.UpdateProfile)
	profile.Put("/password", c.ChangePassword)
}

// Create 创建用户
// @Summary 创建用户
// @Tags 用户管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建用户请求"
// @Success 200 {object} response.Response
// @Router /users [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	user, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, user)
}

// create 创建用户业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errors.BadRequest("用户名和密码不能为空")
	}

	existing, err := c.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("用户名")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, 500, "密码加密失败")
	}

	user := &model.User{
		Username:    req.Username,
		Password:    hashedPassword,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		RoleID:      req.RoleID,
		OrgID:       req.OrgID,
		Status:      req.Status,
	}
	if user.Status == 0 {
		user.Status = model.UserStatusActive
	}

	if err := c.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update 更新用户
// @Summary 更新用户
// @Tags 用户管理
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param request body UpdateRequest true "更新用户请求"
// @Success 200 {object} response.Response
// @Router /users/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid user id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	user, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, user)
}

// update 更新用户业务逻辑
func (c *Controller) update(ctx context.Context, id uint, req *UpdateRequest) (*model.User, error) {
	user, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("用户")
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.RoleID > 0 {
		user.RoleID = req.RoleID
	}
	if req.OrgID > 0 {
		user.OrgID = req.OrgID
	}
	if req.Status > 0 {
		user.Status = req.Status
	}

	if err := c.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete 删除用户
// 物理删除，用户立即失去登录与访问能力，关联数据由调用方自行处理
// @Summary 删除用户
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /users/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid user id")
	}

	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// Get 获取用户详情
// @Summary 获取用户详情
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /users/{id} [get]
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid user id")
	}

	user, err := c.repo.FindByID(ctx.UserContext(), id, dal.WithPreload("Role"))
	if err != nil {
		return response.Fail(ctx, err)
	}
	if user == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	return response.Success(ctx, user)
}

// List 用户列表
// @Summary 用户列表
// @Tags 用户管理
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param username query string false "用户名"
// @Param status query int false "状态"
// @Success 200 {object} response.Response
// @Router /users [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	result, err := c.list(ctx.UserContext(), &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.SuccessPage(ctx, result.List, result.Total, result.Page, result.PageSize)
}

// list 用户列表业务逻辑
func (c *Controller) list(ctx context.Context, req *ListRequest) (*dal.PagedResult[model.User], error) {
	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx).Model(&model.User{})
	if req.Username != "" {
		query = query.Where("username LIKE ?", "%"+req.Username+"%")
	}
	if req.DisplayName != "" {
		query = query.Where("display_name LIKE ?", "%"+req.DisplayName+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.RoleID != nil {
		query = query.Where("role_id = ?", *req.RoleID)
	}
	if req.OrgID != nil {
		query = query.Where("org_id = ?", *req.OrgID)
	}
	query = query.Order("id DESC").Preload("Role")

	return c.repo.FindPagedWithQuery(ctx, query, pagination)
}

// GetProfile 获取个人信息
// @Summary 获取个人信息
// @Tags 个人中心
// @Success 200 {object} response.Response
// @Router /profile [get]
func (c *Controller) GetProfile(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return response.Unauthorized(ctx, "")
	}

	user, err := c.repo.FindByID(ctx.UserContext(), userID, dal.WithPreload("Role"))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, user)
}

// UpdateProfile 更新个人信息
// @Summary 更新个人信息
// @Tags 个人中心
// @Accept json
// @Produce json
// @Param request body UpdateRequest true "更新信息请求"
// @Success 200 {object} response.Response
// @Router /profile [put]
func (c *Controller) UpdateProfile(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return response.Unauthorized(ctx, "")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	// 不允许修改自身角色、组织和状态
	req.RoleID = 0
	req.OrgID = 0
	req.Status = 0

	user, err := c.update(ctx.UserContext(), userID, &req)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 个人中心
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "修改密码请求"
// @Success 200 {object} response.Response
// @Router /profile/password [put]
func (c *Controller) ChangePassword(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return response.Unauthorized(ctx, "")
	}

	var req ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	if err := c.changePassword(ctx.UserContext(), userID, &req); err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, nil)
}

// changePassword 修改密码业务逻辑
func (c *Controller) changePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	user, err := c.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.NotFound("用户")
	}

	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return errors.BadRequest("原密码错误")
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return errors.Wrap(err, 500, "密码加密失败")
	}

	return c.repo.UpdatePassword(ctx, userID, hashedPassword)
}

// ResetPassword 重置用户密码
// @Summary 重置用户密码
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/password/reset [put]
func (c *Controller) ResetPassword(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid user id")
	}

	var req ResetPasswordRequest
	_ = ctx.BodyParser(&req)
	if req.NewPassword == "" {
		req.NewPassword = DefaultPassword
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return response.Fail(ctx, err)
	}

	if err := c.repo.UpdatePassword(ctx.UserContext(), id, hashedPassword); err != nil {
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
