package service

import (
	"errors"
	"strings"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/repository"
	"github.com/Murari17/Clipverse-video/pkg/logger"
	"github.com/Murari17/Clipverse-video/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("用户不存在")
	ErrUsernameExists = errors.New("用户名已被占用")
	ErrEmailExists    = errors.New("邮箱已被注册")
	// 登录失败统一返回同一条消息，不区分邮箱不存在和密码错误，防止账号枚举
	ErrInvalidCredential = errors.New("邮箱或密码错误")
)

type AuthService struct {
	userStore repository.UserStore
	tokens    *utils.TokenMaker
}

func NewAuthService(userStore repository.UserStore, tokens *utils.TokenMaker) *AuthService {
	return &AuthService{userStore: userStore, tokens: tokens}
}

// Register 本地用户注册
// 邮箱统一转小写后判重，密码 bcrypt 哈希后入库
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.TokenData, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userStore.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userStore.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        email,
		Password:     hashedPassword,
		AuthProvider: model.AuthProviderLocal,
	}

	if err := s.userStore.Create(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login 本地用户登录，返回 token 数据
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userStore.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	// Google 用户没有本地密码，走同一条失败消息
	if !user.IsLocal() || user.Password == "" {
		return nil, ErrInvalidCredential
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	return s.issueToken(user)
}

// GoogleLogin Google 联合登录
// 优先按 Google 标识查找；其次按邮箱绑定已有本地账号（就地升级）；都没有则新建用户
func (s *AuthService) GoogleLogin(req *dto.GoogleLoginRequest) (*dto.TokenData, error) {
	user, err := s.userStore.GetByGoogleID(req.ProviderUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.linkOrCreateGoogleUser(req)
		if err != nil {
			return nil, err
		}
	}

	return s.issueToken(user)
}

// linkOrCreateGoogleUser 按邮箱绑定已有账号，不存在则创建 Google 用户
func (s *AuthService) linkOrCreateGoogleUser(req *dto.GoogleLoginRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userStore.GetByEmail(email)
	if err == nil {
		// 邮箱相同的本地账号：挂接 Google 标识并切换认证方式，不创建重复用户
		updated, err := s.userStore.Update(existing.ID, map[string]interface{}{
			"google_id":     req.ProviderUserID,
			"photo_url":     req.PhotoURL,
			"auth_provider": model.AuthProviderGoogle,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Linked google identity to existing account",
			zap.Int64("user_id", updated.ID),
		)
		return updated, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := req.DisplayName
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	googleID := req.ProviderUserID
	user := &model.User{
		Username:     username,
		Email:        email,
		GoogleID:     &googleID,
		PhotoURL:     req.PhotoURL,
		AuthProvider: model.AuthProviderGoogle,
	}

	if err := s.userStore.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCurrentUser 根据用户 ID 获取用户信息
func (s *AuthService) GetCurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userStore.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *AuthService) issueToken(user *model.User) (*dto.TokenData, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: s.tokens.ExpireSeconds(),
		User:      *toUserInfo(user),
	}, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PhotoURL:     user.PhotoURL,
		AuthProvider: user.AuthProvider,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
