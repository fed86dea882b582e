package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/laoming/experiment-manage-system/internal/menu"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/internal/user"
	pkgauth "github.com/laoming/experiment-manage-system/pkg/auth"
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
		&model.LoginLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, status int8) *model.User {
	t.Helper()

	role := &model.Role{Name: "教师", Code: "teacher-" + username}
	require.NoError(t, db.Create(role).Error)

	menus := []*model.Menu{
		{Name: "用户管理", Code: "system:user", Type: model.MenuTypeMenu, Status: 1},
		{Name: "课程管理", Code: "course:manage", Type: model.MenuTypeMenu, Status: 1},
	}
	require.NoError(t, db.Create(&menus).Error)
	for _, m := range menus {
		require.NoError(t, db.Create(&model.RoleMenu{RoleID: role.ID, MenuID: m.ID}).Error)
	}

	hash, err := pkgauth.HashPassword("secret123")
	require.NoError(t, err)

	u := &model.User{
		Username:    username,
		Password:    hash,
		DisplayName: "测试用户",
		Status:      status,
		RoleID:      role.ID,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newTestResolver(db *gorm.DB) *Resolver {
	return NewResolver(user.NewRepository(db), menu.NewRepository(db))
}

func TestResolveActiveUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", model.UserStatusActive)
	resolver := newTestResolver(db)

	p, err := resolver.ResolveByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "测试用户", p.DisplayName)
	assert.Equal(t, "教师", p.RoleName)
	assert.ElementsMatch(t, []string{"system:user", "course:manage"}, p.Authorities)
}

func TestResolveUnknownUser(t *testing.T) {
	db := newTestDB(t)
	resolver := newTestResolver(db)

	_, err := resolver.ResolveByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, pkgauth.ErrPrincipalNotFound)
}

func TestResolveDisabledUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "locked", model.UserStatusLocked)
	resolver := newTestResolver(db)

	_, err := resolver.ResolveByUsername(context.Background(), "locked")
	assert.ErrorIs(t, err, pkgauth.ErrPrincipalDisabled)
}

func TestResolveReflectsPermissionChanges(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "alice", model.UserStatusActive)
	resolver := newTestResolver(db)

	p, err := resolver.ResolveByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Contains(t, p.Authorities, "system:user")

	// 回收角色授权后，下一次解析立即生效
	require.NoError(t, db.Where("role_id = ?", u.RoleID).Delete(&model.RoleMenu{}).Error)

	p, err = resolver.ResolveByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, p.Authorities)
}

func TestResolveSkipsDisabledMenus(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "alice", model.UserStatusActive)
	resolver := newTestResolver(db)

	// 停用一个菜单后其权限标识不再出现
	require.NoError(t, db.Model(&model.Menu{}).
		Where("code = ?", "system:user").
		Update("status", 0).Error)

	p, err := resolver.ResolveByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"course:manage"}, p.Authorities)
}
