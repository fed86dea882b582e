package auth

import (
	"errors"

	"github.com/laoming/experiment-manage-system/pkg/utils"
)

var (
	// ErrPrincipalNotFound 用户不存在
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalDisabled 用户被锁定
	ErrPrincipalDisabled = errors.New("principal disabled")
)

// Principal 当前请求的认证主体，权限集在每次请求时重新计算
type Principal struct {
	UserID      uint     `json:"userId"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	RoleID      uint     `json:"roleId"`
	RoleName    string   `json:"roleName"`
	Authorities []string `json:"authorities"`
}

// HasAuthority 判断是否持有指定权限标识
func (p *Principal) HasAuthority(code string) bool {
	return utils.Contains(p.Authorities, code)
}
