package template

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 实验模板仓储接口
type Repository interface {
	dal.Repository[model.ExperimentTemplate]
	DB(ctx context.Context) *gorm.DB
	FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *dal.Pagination) (*dal.PagedResult[model.ExperimentTemplate], error)
	BoundToCourse(ctx context.Context, id uint) (bool, error)
	HasReports(ctx context.Context, id uint) (bool, error)
}

// repository 实验模板仓储实现
type repository struct {
	*dal.BaseRepository[model.ExperimentTemplate]
}

// NewRepository 创建实验模板仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.ExperimentTemplate](db),
	}
}

// BoundToCourse 模板是否已绑定到课程
func (r *repository) BoundToCourse(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.CourseTemplate{}).
		Where("template_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasReports 模板是否已有实验报告
func (r *repository) HasReports(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.ExperimentReport{}).
		Where("template_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
