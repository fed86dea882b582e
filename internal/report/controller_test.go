package report

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/laoming/experiment-manage-system/internal/course"
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
		&model.ExperimentReport{},
	))
	return db
}

type fixture struct {
	ctrl     *Controller
	courseID uint
	tplID    uint
	students []*model.User
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	ctx := context.Background()

	courseRepo := course.NewRepository(db)
	ctrl := NewController(NewRepository(db), courseRepo)

	c := &model.Course{Name: "模拟电路", Status: 1}
	require.NoError(t, db.Create(c).Error)

	tpl := &model.ExperimentTemplate{Name: "示波器实验", Status: 1}
	require.NoError(t, db.Create(tpl).Error)

	students := []*model.User{
		{Username: "alice", Password: "x", DisplayName: "爱丽丝", Status: model.UserStatusActive},
		{Username: "bob", Password: "x", DisplayName: "鲍勃", Status: model.UserStatusActive},
	}
	require.NoError(t, db.Create(&students).Error)

	ids := []uint{students[0].ID, students[1].ID}
	require.NoError(t, courseRepo.BindUsers(ctx, c.ID, ids, model.CourseUserStudent))

	return &fixture{ctrl: ctrl, courseID: c.ID, tplID: tpl.ID, students: students}
}

func TestSaveCreatesDraft(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	rep, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
		Title:      "我的报告",
		Content:    `{"components":[{"type":"input","data":{"label":"目的"}}],"inputData":{"0":{"value":"学习"}}}`,
	}, f.students[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusDraft, rep.Status)

	// 再次保存覆盖同一份草稿
	rep2, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
		Title:      "我的报告v2",
		Content:    `{"components":[{"type":"input","data":{"label":"目的"}}],"inputData":{"0":{"value":"再学习"}}}`,
	}, f.students[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, rep2.ID)
	assert.Equal(t, "我的报告v2", rep2.Title)
}

func TestSaveRejectsNonMember(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)

	outsider := &model.User{Username: "eve", Password: "x", Status: model.UserStatusActive}
	require.NoError(t, db.Create(outsider).Error)

	_, err := f.ctrl.save(context.Background(), &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, outsider.ID)
	require.Error(t, err)
	assert.Equal(t, 403, errors.GetCode(err))
}

func TestSaveRejectsSubmittedReport(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	rep, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, f.students[0].ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(rep).Update("status", model.ReportStatusSubmitted).Error)

	_, err = f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
		Title:      "改不了",
	}, f.students[0].ID)
	assert.Error(t, err)
}

func TestDeleteDraft(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	rep, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, f.students[0].ID)
	require.NoError(t, err)

	// 别人删不掉
	err = f.ctrl.deleteDraft(ctx, rep.ID, f.students[1].ID)
	require.Error(t, err)
	assert.Equal(t, 404, errors.GetCode(err))

	require.NoError(t, f.ctrl.deleteDraft(ctx, rep.ID, f.students[0].ID))

	var count int64
	require.NoError(t, db.Model(&model.ExperimentReport{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteSubmittedReportRejected(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	rep, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, f.students[0].ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(rep).Update("status", model.ReportStatusSubmitted).Error)

	err = f.ctrl.deleteDraft(ctx, rep.ID, f.students[0].ID)
	assert.Error(t, err)
}

func TestGrade(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	rep, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, f.students[0].ID)
	require.NoError(t, err)

	// 草稿不可批改
	_, err = f.ctrl.grade(ctx, rep.ID, &GradeRequest{Score: 90}, 99)
	assert.Error(t, err)

	require.NoError(t, db.Model(rep).Update("status", model.ReportStatusSubmitted).Error)

	graded, err := f.ctrl.grade(ctx, rep.ID, &GradeRequest{Score: 90, Comment: "不错"}, 99)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusGraded, graded.Status)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 90.0, *graded.Score)
	assert.Equal(t, uint(99), graded.GraderID)
	assert.NotNil(t, graded.GradedAt)

	// 成绩越界
	_, err = f.ctrl.grade(ctx, rep.ID, &GradeRequest{Score: 101}, 99)
	assert.Error(t, err)
}

func TestOverview(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	// alice有草稿，bob没有任何报告
	_, err := f.ctrl.save(ctx, &SaveRequest{
		TemplateID: f.tplID,
		CourseID:   f.courseID,
	}, f.students[0].ID)
	require.NoError(t, err)

	items, err := f.ctrl.overview(ctx, f.courseID, f.tplID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byUser := make(map[string]*OverviewItem)
	for _, item := range items {
		byUser[item.Username] = item
	}

	assert.Equal(t, model.ReportStatusDraft, byUser["alice"].Status)
	assert.Equal(t, "草稿", byUser["alice"].StatusName)
	assert.Equal(t, model.ReportStatusPending, byUser["bob"].Status)
	assert.Equal(t, "未开始", byUser["bob"].StatusName)
	assert.Zero(t, byUser["bob"].ReportID)
}
