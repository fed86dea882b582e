package menu

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 菜单仓储接口
type Repository interface {
	dal.Repository[model.Menu]
	DB(ctx context.Context) *gorm.DB
	FindByRoleID(ctx context.Context, roleID uint) ([]*model.Menu, error)
	FindCodesByRoleID(ctx context.Context, roleID uint) ([]string, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	ReferencedByRole(ctx context.Context, id uint) (bool, error)
}

// repository 菜单仓储实现
type repository struct {
	*dal.BaseRepository[model.Menu]
}

// NewRepository 创建菜单仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Menu](db),
	}
}

// FindByRoleID 查询角色通过role_menu关联到的全部菜单
func (r *repository) FindByRoleID(ctx context.Context, roleID uint) ([]*model.Menu, error) {
	var menus []*model.Menu
	err := r.DB(ctx).
		Joins("JOIN role_menu ON role_menu.menu_id = sys_menu.id").
		Where("role_menu.role_id = ?", roleID).
		Where("sys_menu.status = ?", 1).
		Order("sys_menu.sort, sys_menu.id").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// FindCodesByRoleID 查询角色持有的权限标识集合，空Code的菜单不参与鉴权
func (r *repository) FindCodesByRoleID(ctx context.Context, roleID uint) ([]string, error) {
	var codes []string
	err := r.DB(ctx).Model(&model.Menu{}).
		Joins("JOIN role_menu ON role_menu.menu_id = sys_menu.id").
		Where("role_menu.role_id = ?", roleID).
		Where("sys_menu.status = ?", 1).
		Where("sys_menu.code <> ''").
		Distinct().
		Pluck("sys_menu.code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// HasChildren 是否存在子菜单
func (r *repository) HasChildren(ctx context.Context, id uint) (bool, error) {
	return r.Exists(ctx, map[string]interface{}{"parent_id": id})
}

// ReferencedByRole 是否被角色引用
func (r *repository) ReferencedByRole(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.RoleMenu{}).Where("menu_id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
