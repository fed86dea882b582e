package notice

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 通知仓储接口
type Repository interface {
	dal.Repository[model.Notice]
	DB(ctx context.Context) *gorm.DB
	FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *dal.Pagination) (*dal.PagedResult[model.Notice], error)
	FindLatest(ctx context.Context, limit int) ([]*model.Notice, error)
}

// repository 通知仓储实现
type repository struct {
	*dal.BaseRepository[model.Notice]
}

// NewRepository 创建通知仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Notice](db),
	}
}

// FindLatest 查询最新发布的通知
func (r *repository) FindLatest(ctx context.Context, limit int) ([]*model.Notice, error) {
	var notices []*model.Notice
	err := r.DB(ctx).
		Where("status = ?", 1).
		Order("id DESC").
		Limit(limit).
		Find(&notices).Error
	if err != nil {
		return nil, err
	}
	return notices, nil
}
