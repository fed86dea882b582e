package auth

import (
	"context"

	"github.com/laoming/experiment-manage-system/internal/menu"
	"github.com/laoming/experiment-manage-system/internal/user"
	"github.com/laoming/experiment-manage-system/pkg/auth"
	"github.com/laoming/experiment-manage-system/pkg/dal"
)

// Resolver 认证主体解析器
// 每次调用都从数据库重新读取用户与权限，保证权限变更即时生效
type Resolver struct {
	users user.Repository
	menus menu.Repository
}

// NewResolver 创建解析器
func NewResolver(users user.Repository, menus menu.Repository) *Resolver {
	return &Resolver{users: users, menus: menus}
}

// ResolveByUsername 按用户名解析认证主体
// 用户不存在返回ErrPrincipalNotFound，锁定返回ErrPrincipalDisabled
func (r *Resolver) ResolveByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	u, err := r.users.FindOne(ctx, map[string]interface{}{"username": username}, dal.WithPreload("Role"))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrPrincipalNotFound
	}
	if !u.IsActive() {
		return nil, auth.ErrPrincipalDisabled
	}

	authorities, err := r.menus.FindCodesByRoleID(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}

	principal := &auth.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		RoleID:      u.RoleID,
		Authorities: authorities,
	}
	if u.Role != nil {
		principal.RoleName = u.Role.Name
	}

	return principal, nil
}
