package report

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 实验报告仓储接口
type Repository interface {
	dal.Repository[model.ExperimentReport]
	DB(ctx context.Context) *gorm.DB
	FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *dal.Pagination) (*dal.PagedResult[model.ExperimentReport], error)
	FindByOwner(ctx context.Context, templateID, courseID, userID uint) (*model.ExperimentReport, error)
	FindByUserID(ctx context.Context, userID uint) ([]*model.ExperimentReport, error)
	FindForOverview(ctx context.Context, courseID, templateID uint) (map[uint]*model.ExperimentReport, error)
}

// repository 实验报告仓储实现
type repository struct {
	*dal.BaseRepository[model.ExperimentReport]
}

// NewRepository 创建实验报告仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.ExperimentReport](db),
	}
}

// FindByOwner 查询学生在某课程某模板下的报告，一人一份
func (r *repository) FindByOwner(ctx context.Context, templateID, courseID, userID uint) (*model.ExperimentReport, error) {
	return r.FindOne(ctx, map[string]interface{}{
		"template_id": templateID,
		"course_id":   courseID,
		"user_id":     userID,
	})
}

// FindByUserID 查询学生的全部报告
func (r *repository) FindByUserID(ctx context.Context, userID uint) ([]*model.ExperimentReport, error) {
	return r.Find(ctx, map[string]interface{}{"user_id": userID},
		dal.WithPreload("Template"), dal.WithOrder("id DESC"))
}

// FindForOverview 查询课程模板下的全部报告，按学生ID索引
func (r *repository) FindForOverview(ctx context.Context, courseID, templateID uint) (map[uint]*model.ExperimentReport, error) {
	reports, err := r.Find(ctx, map[string]interface{}{
		"course_id":   courseID,
		"template_id": templateID,
	})
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*model.ExperimentReport, len(reports))
	for _, rep := range reports {
		byUser[rep.UserID] = rep
	}
	return byUser, nil
}
