package role

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/laoming/experiment-manage-system/internal/model"
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
		&model.Role{},
		&model.RoleMenu{},
		&model.Menu{},
	))
	return db
}

func TestReplaceMenus(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	r := &model.Role{Name: "教师", Code: "teacher"}
	require.NoError(t, repo.Create(ctx, r))

	// 首次授权
	require.NoError(t, repo.ReplaceMenus(ctx, r.ID, []uint{1, 2, 3}))
	ids, err := repo.MenuIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3}, ids)

	// 整体替换，旧授权全部清除
	require.NoError(t, repo.ReplaceMenus(ctx, r.ID, []uint{3, 4}))
	ids, err = repo.MenuIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{3, 4}, ids)

	// 请求中的重复ID只落一行
	require.NoError(t, repo.ReplaceMenus(ctx, r.ID, []uint{5, 5, 6}))
	ids, err = repo.MenuIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{5, 6}, ids)

	// 清空授权
	require.NoError(t, repo.ReplaceMenus(ctx, r.ID, nil))
	ids, err = repo.MenuIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	r := &model.Role{Name: "教师", Code: "teacher"}
	require.NoError(t, repo.Create(ctx, r))

	inUse, err := repo.InUse(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	u := &model.User{Username: "alice", Password: "x", Status: model.UserStatusActive, RoleID: r.ID}
	require.NoError(t, db.Create(u).Error)

	inUse, err = repo.InUse(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	// 用户被物理删除后不再计入
	require.NoError(t, db.Delete(u).Error)
	inUse, err = repo.InUse(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestFindByCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Role{Name: "教师", Code: "teacher"}))

	r, err := repo.FindByCode(ctx, "teacher")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "教师", r.Name)

	missing, err := repo.FindByCode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
