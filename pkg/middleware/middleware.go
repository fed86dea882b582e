package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/laoming/experiment-manage-system/pkg/logger"
	"github.com/laoming/experiment-manage-system/pkg/response"
	"github.com/laoming/experiment-manage-system/pkg/utils"
	"go.uber.org/zap"
)

// PrincipalResolver 按用户名解析认证主体，权限集每次实时计算
type PrincipalResolver interface {
	ResolveByUsername(ctx context.Context, username string) (*auth.Principal, error)
}

// LoadAuth 认证加载中间件
// 任何解析失败均降级为匿名请求继续处理，是否放行由后续守卫决定
func LoadAuth(jwtManager *auth.JWTManager, resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		token := strings.TrimPrefix(header, "Bearer ")

		username, err := jwtManager.ExtractUsername(token)
		if err != nil {
			// 签名错误、格式错误、已过期，一律按匿名处理
			logger.Warn("token decode failed",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Next()
		}

		principal, err := resolver.ResolveByUsername(c.Context(), username)
		if err != nil {
			if !errors.Is(err, auth.ErrPrincipalNotFound) && !errors.Is(err, auth.ErrPrincipalDisabled) {
				logger.Warn("resolve principal failed",
					zap.String("username", username),
					zap.Error(err),
				)
			}
			return c.Next()
		}

		// 二次校验：token的subject必须与解析出的主体一致且未过期
		if !jwtManager.ValidateToken(token, principal.Username) {
			return c.Next()
		}

		c.Locals("principal", principal)
		c.Locals("userId", principal.UserID)
		c.Locals("username", principal.Username)

		return c.Next()
	}
}

// RequireAuth 认证守卫，匿名请求返回401
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetPrincipal(c) == nil {
			return response.Unauthorized(c, "未登录或登录已过期")
		}
		return c.Next()
	}
}

// RequirePermission 权限守卫，缺少指定权限标识返回403
func RequirePermission(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return response.Unauthorized(c, "未登录或登录已过期")
		}
		if !principal.HasAuthority(code) {
			return response.Forbidden(c, "没有访问权限")
		}
		return c.Next()
	}
}

// GetPrincipal 从上下文获取认证主体，匿名请求返回nil
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	principal := c.Locals("principal")
	if principal == nil {
		return nil
	}
	return principal.(*auth.Principal)
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *fiber.Ctx) uint {
	userID := c.Locals("userId")
	if userID == nil {
		return 0
	}
	return userID.(uint)
}

// GetUsername 从上下文获取用户名
func GetUsername(c *fiber.Ctx) string {
	username := c.Locals("username")
	if username == nil {
		return ""
	}
	return username.(string)
}

// Recovery 恢复中间件
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
				)
				_ = response.ServerError(c, "")
			}
		}()
		return c.Next()
	}
}

// Cors 跨域中间件
func Cors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin != "" {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}

// RequestID 请求ID中间件
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = utils.UUID()
		}
		c.Locals("requestId", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// AccessLog 访问日志中间件
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.String("ip", c.IP()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}

// ErrorHandler 统一错误处理中间件
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			switch e := err.(type) {
			case *errors.AppError:
				_ = response.Fail(c, e)
			case *fiber.Error:
				_ = response.Error(c, e.Code, e.Message)
			default:
				logger.Error("unhandled error",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				_ = response.ServerError(c, "")
			}
			return nil
		}
		return nil
	}
}
