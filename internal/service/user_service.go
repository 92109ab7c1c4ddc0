package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"
	"sync"
	"time"

	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	postRepo       interfaces.PostRepository
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, postRepo interfaces.PostRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		postRepo:       postRepo,
		tokenBlacklist: make(map[string]time.Time),
	}
}

// Register 注册新用户
func (s *UserService) Register(user *model.User) error {
	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "该邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	if user.Theme == "" {
		user.Theme = "light"
	}
	if user.Language == "" {
		user.Language = "en"
	}

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID))
	return nil
}

// Login 用户登录，校验邮箱和密码
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		util.Logger.Warn("登录失败，用户不存在", zap.String("email", email))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// UpdateProfile 更新用户资料，只覆盖允许修改的字段
func (s *UserService) UpdateProfile(userID int, name, bio, avatarURL, theme, language string) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if bio != "" {
		user.Bio = bio
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if theme != "" {
		user.Theme = theme
	}
	if language != "" {
		user.Language = language
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 修改密码，需要先验证旧密码
func (s *UserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New(errors.ErrInvalidCredentials, "旧密码不正确")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	util.Logger.Info("用户密码已修改", zap.Int("user_id", userID))
	return nil
}

// DeleteAccount 软删除账号，帖子和评论保留
func (s *UserService) DeleteAccount(userID int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	user.DeletedAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	util.Logger.Info("用户账号已删除", zap.Int("user_id", userID))
	return nil
}

// GetUserStats 获取创作统计，仅限本人查看
func (s *UserService) GetUserStats(requesterID, userID int) (*model.UserStats, error) {
	if requesterID != userID {
		return nil, errors.New(errors.ErrForbidden, "无权查看他人统计数据")
	}

	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}

	stats, err := s.postRepo.GetAuthorStats(userID)
	if err != nil {
		return nil, err
	}
	stats.Range = "all"
	return stats, nil
}

// SearchUsers 按名称或邮箱模糊搜索用户
func (s *UserService) SearchUsers(query string, limit int) ([]*model.UserSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(query, limit)
}

// Logout 将用户当前令牌加入黑名单
func (s *UserService) Logout(token string) error {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()

	s.tokenBlacklist[token] = time.Now().Add(24 * time.Hour)

	// 顺手清理过期条目
	now := time.Now()
	for t, expiry := range s.tokenBlacklist {
		if now.After(expiry) {
			delete(s.tokenBlacklist, t)
		}
	}
	return nil
}

// IsTokenBlacklisted 检查令牌是否已登出
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	defer s.blacklistMutex.RUnlock()

	expiry, ok := s.tokenBlacklist[token]
	if !ok {
		return false
	}
	return time.Now().Before(expiry)
}

// UserServiceInterface 定义了用户服务的方法
type UserServiceInterface interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateProfile(userID int, name, bio, avatarURL, theme, language string) (*model.User, error)
	ChangePassword(userID int, oldPassword, newPassword string) error
	DeleteAccount(userID int) error
	GetUserStats(requesterID, userID int) (*model.UserStats, error)
	SearchUsers(query string, limit int) ([]*model.UserSummary, error)
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
