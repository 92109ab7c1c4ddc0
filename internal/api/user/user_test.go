package user

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGraphService 是 GraphServiceInterface 的模拟实现
type MockGraphService struct {
	mock.Mock
}

func (m *MockGraphService) ToggleFollow(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGraphService) IsFollowing(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGraphService) GetFollowers(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.UserSummary), args.Int(1), args.Error(2)
}

func (m *MockGraphService) GetFollowing(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.UserSummary), args.Int(1), args.Error(2)
}

var _ service.GraphServiceInterface = (*MockGraphService)(nil)

// MockBookmarkService 覆盖收藏切换所需的互动服务方法
type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) TogglePostLike(userID, postID int) (bool, int, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockBookmarkService) ToggleCommentLike(userID, commentID int) (bool, int, error) {
	args := m.Called(userID, commentID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockBookmarkService) ToggleBookmark(userID, postID int) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkService) ListBookmarks(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockBookmarkService) GetTrendingPosts(period string, limit int) ([]*model.TrendingPost, error) {
	args := m.Called(period, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrendingPost), args.Error(1)
}

func (m *MockBookmarkService) GetPopularTags(limit int) ([]*model.TagCount, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TagCount), args.Error(1)
}

func (m *MockBookmarkService) GetRecommendations(userID, limit int) ([]*model.Post, *model.RecommendationSignals, error) {
	args := m.Called(userID, limit)
	var posts []*model.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]*model.Post)
	}
	var signals *model.RecommendationSignals
	if args.Get(1) != nil {
		signals = args.Get(1).(*model.RecommendationSignals)
	}
	return posts, signals, args.Error(2)
}

func (m *MockBookmarkService) GetPostAnalytics(requesterID, postID int) (*model.PostAnalytics, error) {
	args := m.Called(requesterID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostAnalytics), args.Error(1)
}

func (m *MockBookmarkService) ReportContent(reporterID int, targetType string, targetID int, reason, description string) error {
	args := m.Called(reporterID, targetType, targetID, reason, description)
	return args.Error(0)
}

var _ service.InteractionServiceInterface = (*MockBookmarkService)(nil)

func asUser(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// TestToggleFollow 关注切换返回新状态
func TestToggleFollow(t *testing.T) {
	graphService := new(MockGraphService)
	handler := NewUserHandler(nil, nil, graphService, nil, nil)

	router := gin.New()
	router.PUT("/users/follow/:id", asUser(1), handler.ToggleFollow)

	graphService.On("ToggleFollow", 1, 2).Return(true, nil)

	req, _ := http.NewRequest("PUT", "/users/follow/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Following bool `json:"following"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Following)
	graphService.AssertExpectations(t)
}

// TestToggleFollowSelf 关注自己返回400
func TestToggleFollowSelf(t *testing.T) {
	graphService := new(MockGraphService)
	handler := NewUserHandler(nil, nil, graphService, nil, nil)

	router := gin.New()
	router.PUT("/users/follow/:id", asUser(1), handler.ToggleFollow)

	graphService.On("ToggleFollow", 1, 1).
		Return(false, errors.New(errors.ErrSelfFollow, "不能关注自己"))

	req, _ := http.NewRequest("PUT", "/users/follow/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestToggleBookmark 收藏切换返回新状态
func TestToggleBookmark(t *testing.T) {
	bookmarkService := new(MockBookmarkService)
	handler := NewUserHandler(nil, nil, nil, bookmarkService, nil)

	router := gin.New()
	router.PUT("/users/bookmark/:postId", asUser(1), handler.ToggleBookmark)

	bookmarkService.On("ToggleBookmark", 1, 10).Return(false, nil)

	req, _ := http.NewRequest("PUT", "/users/bookmark/10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Bookmarked bool `json:"bookmarked"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Bookmarked)
}

// TestGetStatsForbidden 查看他人统计返回403
func TestGetStatsForbidden(t *testing.T) {
	userService := new(MockUserService)
	handler := NewUserHandler(userService, nil, nil, nil, nil)

	router := gin.New()
	router.GET("/users/:id/stats", asUser(1), handler.GetStats)

	userService.On("GetUserStats", 1, 2).
		Return(nil, errors.New(errors.ErrForbidden, "无权查看他人统计数据"))

	req, _ := http.NewRequest("GET", "/users/2/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
