package model

import (
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// 课程成员类型
const (
	CourseUserStudent int8 = 1 // 学生
	CourseUserAdmin   int8 = 2 // 管理员
)

// Course 课程模型
type Course struct {
	dal.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Semester    string `gorm:"size:50" json:"semester"`
	Cover       string `gorm:"size:255" json:"cover"`
	Status      int8   `gorm:"default:1" json:"status"`
	CreatorID   uint   `gorm:"index" json:"creatorId"`
}

// TableName 表名
func (Course) TableName() string {
	return "course"
}

// CourseUser 课程成员关联
type CourseUser struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID uint `gorm:"index:idx_course_user;not null" json:"courseId"`
	UserID   uint `gorm:"index:idx_course_user;not null" json:"userId"`
	UserType int8 `gorm:"default:1" json:"userType"` // 1:学生 2:管理员
}

// TableName 表名
func (CourseUser) TableName() string {
	return "course_user"
}

// CourseTemplate 课程实验模板关联
type CourseTemplate struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID   uint `gorm:"index:idx_course_template;not null" json:"courseId"`
	TemplateID uint `gorm:"index:idx_course_template;not null" json:"templateId"`
}

// TableName 表名
func (CourseTemplate) TableName() string {
	return "course_template"
}
