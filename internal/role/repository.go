package role

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/laoming/experiment-manage-system/pkg/utils"
	"gorm.io/gorm"
)

// Repository 角色仓储接口
type Repository interface {
	dal.Repository[model.Role]
	DB(ctx context.Context) *gorm.DB
	FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *dal.Pagination) (*dal.PagedResult[model.Role], error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	MenuIDs(ctx context.Context, roleID uint) ([]uint, error)
	ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error
	InUse(ctx context.Context, roleID uint) (bool, error)
}

// repository 角色仓储实现
type repository struct {
	*dal.BaseRepository[model.Role]
}

// NewRepository 创建角色仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Role](db),
	}
}

// FindByCode 根据编码查找
func (r *repository) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	return r.FindOne(ctx, map[string]interface{}{"code": code})
}

// MenuIDs 查询角色持有的菜单ID集合
func (r *repository) MenuIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	err := r.DB(ctx).Model(&model.RoleMenu{}).
		Where("role_id = ?", roleID).
		Pluck("menu_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceMenus 整体替换角色的菜单授权，先删后插在同一事务内完成
func (r *repository) ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}
		// 请求中的重复ID只插一行
		rows := utils.Map(utils.Unique(menuIDs), func(menuID uint) *model.RoleMenu {
			return &model.RoleMenu{RoleID: roleID, MenuID: menuID}
		})
		return tx.Create(rows).Error
	})
}

// InUse 角色是否仍被用户使用
func (r *repository) InUse(ctx context.Context, roleID uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.User{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
