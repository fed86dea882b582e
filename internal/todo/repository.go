package todo

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 待办仓储接口
type Repository interface {
	dal.Repository[model.Todo]
	DB(ctx context.Context) *gorm.DB
	FindByUserID(ctx context.Context, userID uint, status *int8) ([]*model.Todo, error)
}

// repository 待办仓储实现
type repository struct {
	*dal.BaseRepository[model.Todo]
}

// NewRepository 创建待办仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Todo](db),
	}
}

// FindByUserID 查询用户的待办列表
func (r *repository) FindByUserID(ctx context.Context, userID uint, status *int8) ([]*model.Todo, error) {
	query := r.DB(ctx).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var todos []*model.Todo
	if err := query.Order("id DESC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}
