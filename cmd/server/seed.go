package main

import (
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/database"
	"github.com/laoming/experiment-manage-system/pkg/logger"
	"gorm.io/gorm"
)

// seed 初始化管理员角色、菜单和账号，仅在空库时执行
func seed() error {
	db := database.Get()

	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		sysDir := &model.Menu{Name: "系统管理", Type: model.MenuTypeDirectory, Path: "/system", Icon: "setting", Sort: 1}
		if err := tx.Create(sysDir).Error; err != nil {
			return err
		}

		menus := defaultMenus(sysDir.ID)
		if err := tx.Create(&menus).Error; err != nil {
			return err
		}
		menus = append(menus, sysDir)

		adminRole := &model.Role{Name: "系统管理员", Code: "admin", Description: "内置管理员角色"}
		studentRole := &model.Role{Name: "学生", Code: "student", Sort: 1, Description: "内置学生角色"}
		if err := tx.Create([]*model.Role{adminRole, studentRole}).Error; err != nil {
			return err
		}

		// 管理员授予全部菜单
		bindings := make([]*model.RoleMenu, 0, len(menus))
		for _, m := range menus {
			bindings = append(bindings, &model.RoleMenu{RoleID: adminRole.ID, MenuID: m.ID})
		}
		if err := tx.Create(&bindings).Error; err != nil {
			return err
		}

		password, err := auth.HashPassword("admin123")
		if err != nil {
			return err
		}
		admin := &model.User{
			Username:    "admin",
			Password:    password,
			DisplayName: "管理员",
			Status:      model.UserStatusActive,
			RoleID:      adminRole.ID,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		logger.Info("已初始化默认管理员账号 admin")
		return nil
	})
}

// defaultMenus 内置菜单，Code为权限标识
func defaultMenus(sysDirID uint) []*model.Menu {
	return []*model.Menu{
		{ParentID: sysDirID, Name: "用户管理", Type: model.MenuTypeMenu, Code: "system:user", Path: "/system/user", Sort: 1},
		{ParentID: sysDirID, Name: "角色管理", Type: model.MenuTypeMenu, Code: "system:role", Path: "/system/role", Sort: 2},
		{ParentID: sysDirID, Name: "菜单管理", Type: model.MenuTypeMenu, Code: "system:menu", Path: "/system/menu", Sort: 3},
		{ParentID: sysDirID, Name: "组织管理", Type: model.MenuTypeMenu, Code: "system:org", Path: "/system/org", Sort: 4},
		{Name: "课程管理", Type: model.MenuTypeMenu, Code: "course:manage", Path: "/course", Sort: 2},
		{Name: "实验模板", Type: model.MenuTypeMenu, Code: "experiment:template", Path: "/template", Sort: 3},
		{Name: "通知管理", Type: model.MenuTypeMenu, Code: "notice:manage", Path: "/notice", Sort: 4},
	}
}
