package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/menu"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/internal/user"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/database"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/logger"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 登录失败限制
const (
	maxLoginFailures = 5
	loginFailureTTL  = 10 * time.Minute
)

// Controller 认证控制器
type Controller struct {
	users      user.Repository
	menus      menu.Repository
	resolver   *Resolver
	jwtManager *auth.JWTManager
	failures   *database.Cache
	db         *gorm.DB
}

// NewController 创建认证控制器
func NewController(users user.Repository, menus menu.Repository, resolver *Resolver, jwtManager *auth.JWTManager, db *gorm.DB) *Controller {
	var failures *database.Cache
	if database.RedisReady() {
		failures = database.NewCache("login:fail")
	}
	return &Controller{
		users:      users,
		menus:      menus,
		resolver:   resolver,
		jwtManager: jwtManager,
		failures:   failures,
		db:         db,
	}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	r.Post("/auth/login", c.Login)
	r.Post("/auth/logout", middleware.RequireAuth(), c.Logout)
	r.Get("/auth/info", middleware.RequireAuth(), c.Info)
	r.Get("/auth/menus", middleware.RequireAuth(), c.Menus)
}

// Login 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} response.Response
// @Router /auth/login [post]
func (c *Controller) Login(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(ctx, "用户名和密码不能为空")
	}

	resp, err := c.login(ctx.UserContext(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, resp)
}

// login 登录业务逻辑
func (c *Controller) login(ctx context.Context, req *LoginRequest, ip, userAgent string) (*LoginResponse, error) {
	locked, err := c.tooManyFailures(ctx, req.Username)
	if err != nil {
		logger.Warn("login throttle check failed", zap.Error(err))
	}
	if locked {
		return nil, errors.Unauthorized("登录失败次数过多，请稍后重试")
	}

	u, err := c.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	// 用户不存在与密码错误返回同样的提示
	if u == nil || !auth.CheckPassword(u.Password, req.Password) {
		c.recordFailure(ctx, req.Username)
		c.writeLoginLog(ctx, u, req.Username, ip, userAgent, 0, "用户名或密码错误")
		return nil, errors.ErrInvalidCredential
	}

	if u.Status == model.UserStatusLocked {
		c.writeLoginLog(ctx, u, req.Username, ip, userAgent, 0, "账号已锁定")
		return nil, errors.ErrAccountLocked
	}

	c.clearFailures(ctx, req.Username)

	token, err := c.jwtManager.CreateTokenInfo(u.ID, u.Username, u.DisplayName)
	if err != nil {
		return nil, errors.Wrap(err, 500, "生成令牌失败")
	}

	authorities, err := c.menus.FindCodesByRoleID(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}

	c.writeLoginLog(ctx, u, req.Username, ip, userAgent, 1, "登录成功")

	return &LoginResponse{
		Token:       token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Authorities: authorities,
	}, nil
}

// Logout 登出
// 无服务端令牌状态，仅清除登录失败计数并记录日志
// @Summary 登出
// @Tags 认证
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (c *Controller) Logout(ctx *fiber.Ctx) error {
	principal := middleware.GetPrincipal(ctx)
	if principal != nil {
		c.clearFailures(ctx.UserContext(), principal.Username)
	}
	return response.Success(ctx, nil)
}

// Info 当前用户信息与菜单
// @Summary 当前用户信息
// @Tags 认证
// @Success 200 {object} response.Response
// @Router /auth/info [get]
func (c *Controller) Info(ctx *fiber.Ctx) error {
	principal := middleware.GetPrincipal(ctx)

	menus, err := c.menus.FindByRoleID(ctx.UserContext(), principal.RoleID)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, &InfoResponse{
		Principal: principal,
		Menus:     menu.BuildTree(visibleMenus(menus)),
	})
}

// Menus 当前用户菜单树
// @Summary 当前用户菜单树
// @Tags 认证
// @Success 200 {object} response.Response
// @Router /auth/menus [get]
func (c *Controller) Menus(ctx *fiber.Ctx) error {
	principal := middleware.GetPrincipal(ctx)

	menus, err := c.menus.FindByRoleID(ctx.UserContext(), principal.RoleID)
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, menu.BuildTree(visibleMenus(menus)))
}

// visibleMenus 过滤按钮类型与隐藏菜单，仅保留可见的导航节点
func visibleMenus(menus []*model.Menu) []*model.Menu {
	result := make([]*model.Menu, 0, len(menus))
	for _, m := range menus {
		if m.Type == model.MenuTypeButton || m.Visible != 1 {
			continue
		}
		result = append(result, m)
	}
	return result
}

// tooManyFailures 是否超出失败次数限制
func (c *Controller) tooManyFailures(ctx context.Context, username string) (bool, error) {
	if c.failures == nil {
		return false, nil
	}
	val, err := c.failures.Get(ctx, username)
	if err != nil {
		// key不存在视为无失败记录
		return false, nil
	}
	var count int
	fmt.Sscanf(val, "%d", &count)
	return count >= maxLoginFailures, nil
}

// recordFailure 记录一次登录失败
func (c *Controller) recordFailure(ctx context.Context, username string) {
	if c.failures == nil {
		return
	}
	if _, err := c.failures.Incr(ctx, username); err != nil {
		logger.Warn("record login failure failed", zap.Error(err))
		return
	}
	_ = c.failures.Expire(ctx, username, loginFailureTTL)
}

// clearFailures 清除失败计数
func (c *Controller) clearFailures(ctx context.Context, username string) {
	if c.failures == nil {
		return
	}
	_ = c.failures.Del(ctx, username)
}

// writeLoginLog 写登录日志，失败不影响主流程
func (c *Controller) writeLoginLog(ctx context.Context, u *model.User, username, ip, userAgent string, status int8, message string) {
	log := &model.LoginLog{
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Status:    status,
		Message:   message,
	}
	if u != nil {
		log.UserID = u.ID
	}
	if err := c.db.WithContext(ctx).Create(log).Error; err != nil {
		logger.Warn("write login log failed", zap.Error(err))
	}
}
