package course

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseUser{},
		&model.CourseTemplate{},
		&model.ExperimentTemplate{},
	))
	return db
}

type fixture struct {
	ctrl     *Controller
	repo     Repository
	courseID uint
	creator  *model.User
	admin    *model.User
	teacher  *model.User
}

// newFixture 创建课程，creator为创建者，admin绑定为课程管理员，teacher与课程无关
func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := NewRepository(db)
	ctrl := NewController(repo)

	users := []*model.User{
		{Username: "creator", Password: "x", Status: model.UserStatusActive},
		{Username: "admin", Password: "x", Status: model.UserStatusActive},
		{Username: "teacher", Password: "x", Status: model.UserStatusActive},
	}
	require.NoError(t, db.Create(&users).Error)

	c := &model.Course{Name: "模拟电路", Status: 1, CreatorID: users[0].ID}
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, repo.BindUsers(ctx, c.ID, []uint{users[1].ID}, model.CourseUserAdmin))

	return &fixture{
		ctrl:     ctrl,
		repo:     repo,
		courseID: c.ID,
		creator:  users[0],
		admin:    users[1],
		teacher:  users[2],
	}
}

func TestManageCourse(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	// 创建者与课程管理员放行
	_, err := f.ctrl.manageCourse(ctx, f.courseID, f.creator.ID)
	require.NoError(t, err)
	_, err = f.ctrl.manageCourse(ctx, f.courseID, f.admin.ID)
	require.NoError(t, err)

	// 无关教师拒绝
	_, err = f.ctrl.manageCourse(ctx, f.courseID, f.teacher.ID)
	require.Error(t, err)
	assert.Equal(t, 403, errors.GetCode(err))

	// 不存在的课程
	_, err = f.ctrl.manageCourse(ctx, 9999, f.creator.ID)
	require.Error(t, err)
	assert.Equal(t, 404, errors.GetCode(err))
}

func TestUpdateRequiresManager(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	// 无关教师不能修改别人的课程
	_, err := f.ctrl.update(ctx, f.courseID, &UpdateRequest{Name: "篡改"}, f.teacher.ID)
	require.Error(t, err)
	assert.Equal(t, 403, errors.GetCode(err))

	// 课程管理员可以修改
	updated, err := f.ctrl.update(ctx, f.courseID, &UpdateRequest{Name: "数字电路"}, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "数字电路", updated.Name)
}

func TestDeleteCreatorOnly(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	tpl := &model.ExperimentTemplate{Name: "示波器实验", Status: 1}
	require.NoError(t, db.Create(tpl).Error)
	require.NoError(t, f.repo.BindTemplates(ctx, f.courseID, []uint{tpl.ID}))

	// 课程管理员也不能删除
	err := f.ctrl.delete(ctx, f.courseID, f.admin.ID)
	require.Error(t, err)
	assert.Equal(t, 403, errors.GetCode(err))

	// 创建者删除，绑定关系一并清理
	require.NoError(t, f.ctrl.delete(ctx, f.courseID, f.creator.ID))

	var users, templates int64
	require.NoError(t, db.Model(&model.CourseUser{}).Where("course_id = ?", f.courseID).Count(&users).Error)
	require.NoError(t, db.Model(&model.CourseTemplate{}).Where("course_id = ?", f.courseID).Count(&templates).Error)
	assert.Zero(t, users)
	assert.Zero(t, templates)
}

func TestIsAdmin(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	admin, err := f.repo.IsAdmin(ctx, f.courseID, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, admin)

	// 学生身份的成员不是管理员
	require.NoError(t, f.repo.BindUsers(ctx, f.courseID, []uint{f.teacher.ID}, model.CourseUserStudent))
	admin, err = f.repo.IsAdmin(ctx, f.courseID, f.teacher.ID)
	require.NoError(t, err)
	assert.False(t, admin)
}
