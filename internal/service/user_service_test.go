package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestRegisterDuplicateEmail 重复邮箱注册返回409错误
func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	userRepo.On("FindByEmail", "a@b.com").Return(&model.User{ID: 1, Email: "a@b.com"}, nil)

	err := svc.Register(&model.User{Email: "a@b.com", PasswordHash: "Password1"})

	assert.True(t, errors.Is(err, errors.ErrUserExists))
	userRepo.AssertNotCalled(t, "Create")
}

// TestRegisterHashesPassword 注册时密码被哈希后存储
func TestRegisterHashesPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	userRepo.On("FindByEmail", "a@b.com").Return(nil, nil)
	userRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	user := &model.User{Name: "测试用户", Email: "a@b.com", PasswordHash: "Password1"}
	err := svc.Register(user)

	assert.NoError(t, err)
	assert.NotEqual(t, "Password1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Password1")))
	assert.Equal(t, "light", user.Theme)
}

// TestLoginWrongPassword 密码错误返回401错误
func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.DefaultCost)
	userRepo.On("FindByEmail", "a@b.com").Return(&model.User{ID: 1, PasswordHash: string(hashed)}, nil)

	_, err := svc.Login("a@b.com", "WrongPass1")

	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestLoginUnknownEmail 未注册邮箱返回401而不是404，避免泄露注册状态
func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	userRepo.On("FindByEmail", "nobody@b.com").Return(nil, nil)

	_, err := svc.Login("nobody@b.com", "Password1")

	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestGetUserStatsOwnerOnly 只有本人能看自己的创作统计
func TestGetUserStatsOwnerOnly(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	_, err := svc.GetUserStats(1, 2)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	postRepo.AssertNotCalled(t, "GetAuthorStats")
}

// TestGetUserStats 本人查看返回聚合数据
func TestGetUserStats(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	userRepo.On("FindByID", 1).Return(&model.User{ID: 1}, nil)
	postRepo.On("GetAuthorStats", 1).Return(&model.UserStats{
		TotalPosts: 3, TotalViews: 120, TotalLikes: 9, TotalComments: 4,
	}, nil)

	stats, err := svc.GetUserStats(1, 1)

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPosts)
	assert.Equal(t, "all", stats.Range)
}

// TestTokenBlacklist 登出后的令牌被拉黑
func TestTokenBlacklist(t *testing.T) {
	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	svc := NewUserService(userRepo, postRepo)

	assert.False(t, svc.IsTokenBlacklisted("token-a"))

	err := svc.Logout("token-a")

	assert.NoError(t, err)
	assert.True(t, svc.IsTokenBlacklisted("token-a"))
	assert.False(t, svc.IsTokenBlacklisted("token-b"))
}
