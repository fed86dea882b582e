package auth

import (
	"context"
	"testing"

	"github.com/laoming/experiment-manage-system/internal/menu"
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/internal/user"
	pkgauth "github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/config"
	"github.com/laoming/experiment-manage-system/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestController(db *gorm.DB) *Controller {
	users := user.NewRepository(db)
	menus := menu.NewRepository(db)
	resolver := NewResolver(users, menus)
	jwtManager := pkgauth.NewJWTManager(&config.JWTConfig{
		Secret: "test-secret",
		Issuer: "ems-test",
		Expire: 60_000,
	})
	return NewController(users, menus, resolver, jwtManager, db)
}

func TestLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", model.UserStatusActive)
	c := newTestController(db)

	resp, err := c.login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "secret123",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "alice", resp.Username)
	assert.ElementsMatch(t, []string{"system:user", "course:manage"}, resp.Authorities)

	// 签发的token能通过校验
	assert.True(t, c.jwtManager.ValidateToken(resp.Token, "alice"))

	// 成功登录写入日志
	var logs []*model.LoginLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, int8(1), logs[0].Status)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", model.UserStatusActive)
	c := newTestController(db)

	_, err := c.login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "wrong",
	}, "127.0.0.1", "test-agent")
	assert.ErrorIs(t, err, errors.ErrInvalidCredential)

	var logs []*model.LoginLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, int8(0), logs[0].Status)
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	db := newTestDB(t)
	c := newTestController(db)

	// 用户不存在与密码错误返回同一个错误，避免探测账号
	_, err := c.login(context.Background(), &LoginRequest{
		Username: "nobody",
		Password: "whatever",
	}, "127.0.0.1", "test-agent")
	assert.ErrorIs(t, err, errors.ErrInvalidCredential)
}

func TestLoginLockedUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "locked", model.UserStatusLocked)
	c := newTestController(db)

	_, err := c.login(context.Background(), &LoginRequest{
		Username: "locked",
		Password: "secret123",
	}, "127.0.0.1", "test-agent")
	assert.ErrorIs(t, err, errors.ErrAccountLocked)
}

func TestLoginDeletedUser(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ghost", model.UserStatusActive)
	require.NoError(t, db.Delete(u).Error)
	c := newTestController(db)

	// 已删除账号的表现与不存在一致
	_, err := c.login(context.Background(), &LoginRequest{
		Username: "ghost",
		Password: "secret123",
	}, "127.0.0.1", "test-agent")
	assert.ErrorIs(t, err, errors.ErrInvalidCredential)
}
