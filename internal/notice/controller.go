package notice

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/database"
	"github.com/laoming/experiment-manage-system/pkg/logger"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
	"github.com/laoming/experiment-manage-system/pkg/response"
	"go.uber.org/zap"
)

// 最新通知缓存
const (
	latestKey   = "latest"
	latestLimit = 5
	latestTTL   = 5 * time.Minute
)

// Controller 通知控制器
type Controller struct {
	repo  Repository
	cache *database.Cache
}

// NewController 创建通知控制器
func NewController(repo Repository) *Controller {
	var cache *database.Cache
	if database.RedisReady() {
		cache = database.NewCache("notice")
	}
	return &Controller{repo: repo, cache: cache}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	manage := middleware.RequirePermission("notice:manage")

	notices := r.Group("/notices")
	notices.Post("", manage, c.Create)
	notices.Put("/:id", manage, c.Update)
	notices.Delete("/:id", manage, c.Delete)
	notices.Get("", manage, c.List)

	// 已登录用户可读，latest需先于:id注册
	notices.Get("/latest", middleware.RequireAuth(), c.Latest)
	notices.Get("/:id", middleware.RequireAuth(), c.Get)
}

// Create 创建通知
// @Summary 创建通知
// @Tags 通知管理
// @Accept json
// @Produce json
// @Param request body CreateRequest true "创建通知请求"
// @Success 200 {object} response.Response
// @Router /notices [post]
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if req.Title == "" {
		return response.BadRequest(ctx, "标题不能为空")
	}

	notice := &model.Notice{
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		Status:      req.Status,
		PublisherID: middleware.GetUserID(ctx),
	}
	if notice.Type == 0 {
		notice.Type = 1
	}
	if notice.Status == 0 {
		notice.Status = 1
	}

	if err := c.repo.Create(ctx.UserContext(), notice); err != nil {
		return response.Fail(ctx, err)
	}

	c.invalidateLatest(ctx.UserContext())
	return response.Success(ctx, notice)
}

// Update 更新通知
// @Summary 更新通知
// @Tags 通知管理
// @Param id path int true "通知ID"
// @Success 200 {object} response.Response
// @Router /notices/{id} [put]
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid notice id")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	notice, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if notice == nil {
		return response.NotFound(ctx, "通知不存在")
	}

	if req.Title != "" {
		notice.Title = req.Title
	}
	notice.Content = req.Content
	if req.Type > 0 {
		notice.Type = req.Type
	}
	if req.Status > 0 {
		notice.Status = req.Status
	}

	if err := c.repo.Update(ctx.UserContext(), notice); err != nil {
		return response.Fail(ctx, err)
	}

	c.invalidateLatest(ctx.UserContext())
	return response.Success(ctx, notice)
}

// Delete 删除通知
// @Summary 删除通知
// @Tags 通知管理
// @Param id path int true "通知ID"
// @Success 200 {object} response.Response
// @Router /notices/{id} [delete]
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid notice id")
	}

	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.Fail(ctx, err)
	}

	c.invalidateLatest(ctx.UserContext())
	return response.Success(ctx, nil)
}

// Get 通知详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id := parseID(ctx.Params("id"))
	if id == 0 {
		return response.BadRequest(ctx, "invalid notice id")
	}

	notice, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.Fail(ctx, err)
	}
	if notice == nil {
		return response.NotFound(ctx, "通知不存在")
	}

	return response.Success(ctx, notice)
}

// List 通知列表
// @Summary 通知列表
// @Tags 通知管理
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /notices [get]
func (c *Controller) List(ctx *fiber.Ctx) error {
	var req ListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}

	pagination := dal.NewPagination(req.Page, req.PageSize)

	query := c.repo.DB(ctx.UserContext()).Model(&model.Notice{})
	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}
	if req.Type != nil {
		query = query.Where("type = ?", *req.Type)
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

// Latest 最新通知
// 结果缓存在Redis中，通知变更时失效
// @Summary 最新通知
// @Tags 通知管理
// @Success 200 {object} response.Response
// @Router /notices/latest [get]
func (c *Controller) Latest(ctx *fiber.Ctx) error {
	notices, err := c.latest(ctx.UserContext())
	if err != nil {
		return response.Fail(ctx, err)
	}

	return response.Success(ctx, notices)
}

// latest 读取最新通知，优先走缓存
func (c *Controller) latest(ctx context.Context) ([]*model.Notice, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, latestKey); err == nil && cached != "" {
			var notices []*model.Notice
			if err := json.Unmarshal([]byte(cached), &notices); err == nil {
				return notices, nil
			}
		}
	}

	notices, err := c.repo.FindLatest(ctx, latestLimit)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(notices); err == nil {
			if err := c.cache.Set(ctx, latestKey, data, latestTTL); err != nil {
				logger.Warn("cache latest notices failed", zap.Error(err))
			}
		}
	}

	return notices, nil
}

// invalidateLatest 通知变更后失效缓存
func (c *Controller) invalidateLatest(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, latestKey); err != nil {
		logger.Warn("invalidate notice cache failed", zap.Error(err))
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
