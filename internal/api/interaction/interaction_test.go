package interaction

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"blog-backend/internal/util"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// MockInteractionService 是 InteractionServiceInterface 的模拟实现
type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) TogglePostLike(userID, postID int) (bool, int, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockInteractionService) ToggleCommentLike(userID, commentID int) (bool, int, error) {
	args := m.Called(userID, commentID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockInteractionService) ToggleBookmark(userID, postID int) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInteractionService) ListBookmarks(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockInteractionService) GetTrendingPosts(period string, limit int) ([]*model.TrendingPost, error) {
	args := m.Called(period, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrendingPost), args.Error(1)
}

func (m *MockInteractionService) GetPopularTags(limit int) ([]*model.TagCount, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TagCount), args.Error(1)
}

func (m *MockInteractionService) GetRecommendations(userID, limit int) ([]*model.Post, *model.RecommendationSignals, error) {
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

func (m *MockInteractionService) GetPostAnalytics(requesterID, postID int) (*model.PostAnalytics, error) {
	args := m.Called(requesterID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostAnalytics), args.Error(1)
}

func (m *MockInteractionService) ReportContent(reporterID int, targetType string, targetID int, reason, description string) error {
	args := m.Called(reporterID, targetType, targetID, reason, description)
	return args.Error(0)
}

var _ service.InteractionServiceInterface = (*MockInteractionService)(nil)

// asUser 在测试路由里注入登录用户
func asUser(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// TestGetTrending 测试热榜处理器
func TestGetTrending(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/trending", handler.GetTrending)

	mockService.On("GetTrendingPosts", "day", 0).Return([]*model.TrendingPost{
		{ID: 1, Title: "热门帖子", Engagement: 113},
	}, nil)

	req, _ := http.NewRequest("GET", "/trending?period=day", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Count   int                   `json:"count"`
		Data    []*model.TrendingPost `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 113, resp.Data[0].Engagement)
	mockService.AssertExpectations(t)
}

// TestGetTrendingLimit limit 查询参数透传到服务层
func TestGetTrendingLimit(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/trending", handler.GetTrending)

	mockService.On("GetTrendingPosts", "week", 2).Return([]*model.TrendingPost{
		{ID: 1}, {ID: 2},
	}, nil)

	req, _ := http.NewRequest("GET", "/trending?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	mockService.AssertExpectations(t)
}

// TestGetPopularTagsLimit 热门标签同样接受 limit 参数
func TestGetPopularTagsLimit(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/tags/popular", handler.GetPopularTags)

	mockService.On("GetPopularTags", 5).Return([]*model.TagCount{
		{Tag: "go", Count: 3},
	}, nil)

	req, _ := http.NewRequest("GET", "/tags/popular?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestGetTrendingInvalidPeriod 非法时间窗口返回400
func TestGetTrendingInvalidPeriod(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/trending", handler.GetTrending)

	req, _ := http.NewRequest("GET", "/trending?period=year", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetTrendingPosts")
}

// TestGetRecommendations 推荐响应携带推荐依据
func TestGetRecommendations(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/recommendations", asUser(7), handler.GetRecommendations)

	mockService.On("GetRecommendations", 7, 0).Return(
		[]*model.Post{{ID: 20}},
		&model.RecommendationSignals{
			Categories:      []string{"Technology"},
			Tags:            []string{"go"},
			FollowedAuthors: 2,
		}, nil)

	req, _ := http.NewRequest("GET", "/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count   int `json:"count"`
			BasedOn struct {
				Categories      []string `json:"categories"`
				FollowedAuthors int      `json:"followed_authors"`
			} `json:"based_on"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, []string{"Technology"}, resp.Data.BasedOn.Categories)
	assert.Equal(t, 2, resp.Data.BasedOn.FollowedAuthors)
}

// TestGetPostAnalyticsForbidden 非作者访问分析返回403
func TestGetPostAnalyticsForbidden(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.GET("/analytics/post/:id", asUser(1), handler.GetPostAnalytics)

	mockService.On("GetPostAnalytics", 1, 10).
		Return(nil, errors.New(errors.ErrForbidden, "仅作者可查看帖子分析"))

	req, _ := http.NewRequest("GET", "/analytics/post/10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestReportContent 测试举报处理器
func TestReportContent(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.POST("/report", asUser(1), handler.ReportContent)

	mockService.On("ReportContent", 1, "post", 10, "spam", "垃圾广告").Return(nil)

	body := []byte(`{"content_type": "post", "content_id": 10, "reason": "spam", "description": "垃圾广告"}`)
	req, _ := http.NewRequest("POST", "/report", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestReportContentBadReason 非法举报原因被绑定校验拦下
func TestReportContentBadReason(t *testing.T) {
	mockService := new(MockInteractionService)
	handler := NewInteractionHandler(mockService)

	router := gin.New()
	router.POST("/report", asUser(1), handler.ReportContent)

	body := []byte(`{"content_type": "post", "content_id": 10, "reason": "dislike"}`)
	req, _ := http.NewRequest("POST", "/report", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ReportContent")
}
