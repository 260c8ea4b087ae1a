package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest Google 登录请求
// 由前端完成 Google 认证后携带身份信息回传
type GoogleLoginRequest struct {
	ProviderUserID string `json:"providerUserId" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	DisplayName    string `json:"displayName" binding:"omitempty,max=30"`
	PhotoURL       string `json:"photoURL" binding:"omitempty,max=500"`
}

// TokenData 登录成功返回的 Token 信息
type TokenData struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// UserInfo 用户公开信息（不含密码）
type UserInfo struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PhotoURL     string `json:"photo_url,omitempty"`
	AuthProvider string `json:"auth_provider"`
}
