package auth

import (
	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/auth"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token       string   `json:"token"`
	TokenType   string   `json:"tokenType"`
	ExpiresIn   int64    `json:"expiresIn"`
	UserID      uint     `json:"userId"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Authorities []string `json:"authorities"`
}

// InfoResponse 当前用户信息响应
type InfoResponse struct {
	Principal *auth.Principal `json:"principal"`
	Menus     []*model.Menu   `json:"menus"`
}
