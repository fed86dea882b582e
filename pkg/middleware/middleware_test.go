package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver 内存中的主体解析器
type fakeResolver struct {
	principals map[string]*auth.Principal
	errs       map[string]error
}

func (f *fakeResolver) ResolveByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	if err, ok := f.errs[username]; ok {
		return nil, err
	}
	if p, ok := f.principals[username]; ok {
		return p, nil
	}
	return nil, auth.ErrPrincipalNotFound
}

func newTestApp(resolver *fakeResolver) (*fiber.App, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager(&config.JWTConfig{
		Secret: "test-secret",
		Issuer: "ems-test",
		Expire: 60_000,
	})

	app := fiber.New()
	app.Use(LoadAuth(jwtManager, resolver))

	app.Get("/public", func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(p.Username)
	})
	app.Get("/private", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin", RequirePermission("system:user"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app, jwtManager
}

func TestLoadAuthAnonymous(t *testing.T) {
	app, _ := newTestApp(&fakeResolver{})

	req := httptest.NewRequest("GET", "/public", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestLoadAuthInvalidTokenDegradesToAnonymous(t *testing.T) {
	app, _ := newTestApp(&fakeResolver{})

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestLoadAuthTamperedTokenDegradesToAnonymous(t *testing.T) {
	resolver := &fakeResolver{
		principals: map[string]*auth.Principal{
			"alice": {UserID: 1, Username: "alice"},
		},
	}
	app, jwtManager := newTestApp(resolver)

	token, err := jwtManager.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	// 签名被篡改的token按匿名处理
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+tampered)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestLoadAuthValidToken(t *testing.T) {
	resolver := &fakeResolver{
		principals: map[string]*auth.Principal{
			"alice": {UserID: 1, Username: "alice", Authorities: []string{"system:user"}},
		},
	}
	app, jwtManager := newTestApp(resolver)

	token, err := jwtManager.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "alice", string(body))
}

func TestLoadAuthDisabledPrincipalDegradesToAnonymous(t *testing.T) {
	resolver := &fakeResolver{
		errs: map[string]error{"alice": auth.ErrPrincipalDisabled},
	}
	app, jwtManager := newTestApp(resolver)

	token, err := jwtManager.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestRequireAuth(t *testing.T) {
	resolver := &fakeResolver{
		principals: map[string]*auth.Principal{
			"alice": {UserID: 1, Username: "alice"},
		},
	}
	app, jwtManager := newTestApp(resolver)

	// 匿名请求401
	req := httptest.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	// 已登录放行
	token, err := jwtManager.GenerateToken(1, "alice", "")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	resolver := &fakeResolver{
		principals: map[string]*auth.Principal{
			"admin":   {UserID: 1, Username: "admin", Authorities: []string{"system:user"}},
			"student": {UserID: 2, Username: "student", Authorities: []string{"course:view"}},
		},
	}
	app, jwtManager := newTestApp(resolver)

	// 匿名401
	req := httptest.NewRequest("GET", "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	// 无权限403
	token, err := jwtManager.GenerateToken(2, "student", "")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// 有权限放行
	token, err = jwtManager.GenerateToken(1, "admin", "")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestLoadAuthSubjectMismatch(t *testing.T) {
	// 解析出的主体用户名与token subject不一致时按匿名处理
	resolver := &fakeResolver{
		principals: map[string]*auth.Principal{
			"alice": {UserID: 1, Username: "someone-else"},
		},
	}
	app, jwtManager := newTestApp(resolver)

	token, err := jwtManager.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}
