package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authsvc "github.com/laoming/experiment-manage-system/internal/auth"
	"github.com/laoming/experiment-manage-system/internal/course"
	"github.com/laoming/experiment-manage-system/internal/loginlog"
	"github.com/laoming/experiment-manage-system/internal/menu"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/internal/notice"
	"github.com/laoming/experiment-manage-system/internal/organization"
	"github.com/laoming/experiment-manage-system/internal/report"
	"github.com/laoming/experiment-manage-system/internal/role"
	"github.com/laoming/experiment-manage-system/internal/template"
	"github.com/laoming/experiment-manage-system/internal/todo"
	"github.com/laoming/experiment-manage-system/internal/user"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/config"
	"github.com/laoming/experiment-manage-system/pkg/database"
	"github.com/laoming/experiment-manage-system/pkg/logger"
	"github.com/laoming/experiment-manage-system/pkg/middleware"
)

const serviceName = "experiment-manage-system"

func main() {
	// 加载配置
	if err := config.Init(""); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer database.Close()

	// 初始化Redis
	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatal("初始化Redis失败", zap.Error(err))
	}
	defer database.CloseRedis()

	// 数据库迁移
	if err := migrate(); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 初始化基础数据
	if err := seed(); err != nil {
		logger.Fatal("初始化基础数据失败", zap.Error(err))
	}

	app := newApp(cfg)

	// 优雅关闭
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("服务正在关闭...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := cfg.Server.Addr()
	logger.Info("服务启动", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("服务启动失败", zap.Error(err))
	}
}

// newApp 构建Fiber应用并装配路由
func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	db := database.Get()
	jwtManager := auth.NewJWTManager(&cfg.JWT)

	// 仓储
	userRepo := user.NewRepository(db)
	roleRepo := role.NewRepository(db)
	menuRepo := menu.NewRepository(db)
	orgRepo := organization.NewRepository(db)
	courseRepo := course.NewRepository(db)
	templateRepo := template.NewRepository(db)
	reportRepo := report.NewRepository(db)
	noticeRepo := notice.NewRepository(db)
	todoRepo := todo.NewRepository(db)

	resolver := authsvc.NewResolver(userRepo, menuRepo)

	// 全局中间件
	app.Use(middleware.Recovery())
	app.Use(middleware.Cors())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	app.Use(middleware.ErrorHandler())
	app.Use(middleware.LoadAuth(jwtManager, resolver))

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(200).JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")
	authsvc.NewController(userRepo, menuRepo, resolver, jwtManager, db).RegisterRoutes(api)
	user.NewController(userRepo).RegisterRoutes(api)
	role.NewController(roleRepo).RegisterRoutes(api)
	menu.NewController(menuRepo).RegisterRoutes(api)
	organization.NewController(orgRepo).RegisterRoutes(api)
	course.NewController(courseRepo).RegisterRoutes(api)
	template.NewController(templateRepo).RegisterRoutes(api)
	report.NewController(reportRepo, courseRepo).RegisterRoutes(api)
	notice.NewController(noticeRepo).RegisterRoutes(api)
	todo.NewController(todoRepo).RegisterRoutes(api)
	loginlog.NewController(db).RegisterRoutes(api)

	return app
}

// migrate 自动迁移全部表结构
func migrate() error {
	return database.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.RoleMenu{},
		&model.Menu{},
		&model.Organization{},
		&model.Course{},
		&model.CourseUser{},
		&model.CourseTemplate{},
		&model.ExperimentTemplate{},
		&model.ExperimentReport{},
		&model.Notice{},
		&model.Todo{},
		&model.LoginLog{},
	)
}
