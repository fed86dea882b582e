package course

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"gorm.io/gorm"
)

// Repository 课程仓储接口
type Repository interface {
	dal.Repository[model.Course]
	DB(ctx context.Context) *gorm.DB
	FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *dal.Pagination) (*dal.PagedResult[model.Course], error)
	BindUsers(ctx context.Context, courseID uint, userIDs []uint, userType int8) error
	UnbindUsers(ctx context.Context, courseID uint, userIDs []uint) error
	Members(ctx context.Context, courseID uint, userType *int8) ([]*model.User, error)
	IsMember(ctx context.Context, courseID, userID uint) (bool, error)
	IsAdmin(ctx context.Context, courseID, userID uint) (bool, error)
	BindTemplates(ctx context.Context, courseID uint, templateIDs []uint) error
	UnbindTemplates(ctx context.Context, courseID uint, templateIDs []uint) error
	Templates(ctx context.Context, courseID uint) ([]*model.ExperimentTemplate, error)
	FindByUserID(ctx context.Context, userID uint) ([]*model.Course, error)
}

// repository 课程仓储实现
type repository struct {
	*dal.BaseRepository[model.Course]
}

// NewRepository 创建课程仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Course](db),
	}
}

// BindUsers 绑定课程成员，已绑定的跳过
func (r *repository) BindUsers(ctx context.Context, courseID uint, userIDs []uint, userType int8) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var bound []uint
		if err := tx.Model(&model.CourseUser{}).
			Where("course_id = ? AND user_id IN ?", courseID, userIDs).
			Pluck("user_id", &bound).Error; err != nil {
			return err
		}

		boundSet := make(map[uint]struct{}, len(bound))
		for _, id := range bound {
			boundSet[id] = struct{}{}
		}

		rows := make([]*model.CourseUser, 0, len(userIDs))
		for _, userID := range userIDs {
			if _, ok := boundSet[userID]; ok {
				continue
			}
			rows = append(rows, &model.CourseUser{
				CourseID: courseID,
				UserID:   userID,
				UserType: userType,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
}

// UnbindUsers 解绑课程成员
func (r *repository) UnbindUsers(ctx context.Context, courseID uint, userIDs []uint) error {
	return r.DB(ctx).
		Where("course_id = ? AND user_id IN ?", courseID, userIDs).
		Delete(&model.CourseUser{}).Error
}

// Members 课程成员列表
func (r *repository) Members(ctx context.Context, courseID uint, userType *int8) ([]*model.User, error) {
	query := r.DB(ctx).Model(&model.User{}).
		Joins("JOIN course_user ON course_user.user_id = sys_user.id").
		Where("course_user.course_id = ?", courseID)
	if userType != nil {
		query = query.Where("course_user.user_type = ?", *userType)
	}

	var users []*model.User
	if err := query.Order("sys_user.id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsMember 用户是否为课程成员
func (r *repository) IsMember(ctx context.Context, courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.CourseUser{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAdmin 用户是否为课程管理员
func (r *repository) IsAdmin(ctx context.Context, courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&model.CourseUser{}).
		Where("course_id = ? AND user_id = ? AND user_type = ?", courseID, userID, model.CourseUserAdmin).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BindTemplates 绑定实验模板，已绑定的跳过
func (r *repository) BindTemplates(ctx context.Context, courseID uint, templateIDs []uint) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var bound []uint
		if err := tx.Model(&model.CourseTemplate{}).
			Where("course_id = ? AND template_id IN ?", courseID, templateIDs).
			Pluck("template_id", &bound).Error; err != nil {
			return err
		}

		boundSet := make(map[uint]struct{}, len(bound))
		for _, id := range bound {
			boundSet[id] = struct{}{}
		}

		rows := make([]*model.CourseTemplate, 0, len(templateIDs))
		for _, templateID := range templateIDs {
			if _, ok := boundSet[templateID]; ok {
				continue
			}
			rows = append(rows, &model.CourseTemplate{
				CourseID:   courseID,
				TemplateID: templateID,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
}

// UnbindTemplates 解绑实验模板
func (r *repository) UnbindTemplates(ctx context.Context, courseID uint, templateIDs []uint) error {
	return r.DB(ctx).
		Where("course_id = ? AND template_id IN ?", courseID, templateIDs).
		Delete(&model.CourseTemplate{}).Error
}

// Templates 课程绑定的实验模板列表
func (r *repository) Templates(ctx context.Context, courseID uint) ([]*model.ExperimentTemplate, error) {
	var templates []*model.ExperimentTemplate
	err := r.DB(ctx).Model(&model.ExperimentTemplate{}).
		Joins("JOIN course_template ON course_template.template_id = experiment_template.id").
		Where("course_template.course_id = ?", courseID).
		Order("experiment_template.id").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindByUserID 用户参与的课程列表
func (r *repository) FindByUserID(ctx context.Context, userID uint) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.DB(ctx).Model(&model.Course{}).
		Joins("JOIN course_user ON course_user.course_id = course.id").
		Where("course_user.user_id = ?", userID).
		Where("course.status = ?", 1).
		Order("course.id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}
