package organization

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 组织仓储接口
type Repository interface {
	dal.Repository[model.Organization]
	DB(ctx context.Context) *gorm.DB
	HasChildren(ctx context.Context, id uint) (bool, error)
	HasUsers(ctx context.Context, id uint) (bool, error)
}

// repository 组织仓储实现
type repository struct {
	*dal.BaseRepository[model.Organization]
}

// NewRepository 创建组织仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Organization](db),
	}
}

// HasChildren 是否存在下级组织
func (r *repository) HasChildren(ctx context.Context, id uint) (bool, error) {
	return r.Exists(ctx, map[string]interface{}{"parent_id": id})
}

// HasUsers 是否仍有用户挂靠
func (r *repository) HasUsers(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.User{}).
		Where("org_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
