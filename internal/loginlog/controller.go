package loginlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
	"gorm.io/gorm"
)

// Controller 登录日志控制器
type Controller struct {
	repo *dal.BaseRepository[model.LoginLog]
}

// NewController 创建登录日志控制器
func NewController(db *gorm.DB) *Controller {
	return &Controller{
		repo: dal.NewBaseRepository[model.LoginLog](db),
	}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	logs := r.Group("/login-logs", middleware.RequirePermission("system:user"))
	logs.Get("", c.List)
}

// List 登录日志列表
// @Summary 登录日志列表
// @Tags 登录日志
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Param username query string false "用户名"
// @Success 200 {object} response.Response
// @Router /login-logs [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.LoginLog{})
	if req.Username != "" {
		query = query.Where("username LIKE ?", "%"+req.Username+"%")
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
