package interaction

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/service"
	"blog-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InteractionHandler 处理热榜、推荐和帖子分析相关的HTTP请求
type InteractionHandler struct {
	interactionService service.InteractionServiceInterface
}

func NewInteractionHandler(interactionService service.InteractionServiceInterface) *InteractionHandler {
	return &InteractionHandler{interactionService}
}

// parseLimit 解析 limit 查询参数，缺省或非法时返回0由服务层取默认值
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// GetTrending 获取热榜，period 支持 day/week/month
func (h *InteractionHandler) GetTrending(c *gin.Context) {
	period := c.DefaultQuery("period", "week")
	if !util.IsValidTrendingPeriod(period) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的时间范围"))
		return
	}

	posts, err := h.interactionService.GetTrendingPosts(period, parseLimit(c))
	if err != nil {
		util.Logger.Error("获取热榜失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取热榜失败", err))
		return
	}

	errors.HandleList(c, posts, len(posts), 0, nil)
}

// GetPopularTags 获取热门标签
func (h *InteractionHandler) GetPopularTags(c *gin.Context) {
	tags, err := h.interactionService.GetPopularTags(parseLimit(c))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取热门标签失败", err))
		return
	}

	errors.HandleList(c, tags, len(tags), 0, nil)
}

// GetRecommendations 获取个性化推荐
func (h *InteractionHandler) GetRecommendations(c *gin.Context) {
	userID := c.GetInt("user_id")

	posts, signals, err := h.interactionService.GetRecommendations(userID, parseLimit(c))
	if err != nil {
		util.Logger.Error("获取推荐失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取推荐失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":    posts,
		"count":    len(posts),
		"based_on": signals,
	}, "")
}

// GetPostAnalytics 获取帖子分析，仅作者可见
func (h *InteractionHandler) GetPostAnalytics(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	analytics, err := h.interactionService.GetPostAnalytics(userID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, analytics, "")
}

// ReportContent 举报帖子或评论
func (h *InteractionHandler) ReportContent(c *gin.Context) {
	userID := c.GetInt("user_id")

	var reportData struct {
		ContentType string `json:"content_type" binding:"required,oneof=post comment"`
		ContentID   int    `json:"content_id" binding:"required"`
		Reason      string `json:"reason" binding:"required,oneof=spam harassment inappropriate misinformation other"`
		Description string `json:"description" binding:"omitempty,max=1000"`
	}

	if err := c.ShouldBindJSON(&reportData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的举报数据", err))
		return
	}

	err := h.interactionService.ReportContent(userID,
		reportData.ContentType, reportData.ContentID,
		reportData.Reason, reportData.Description)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "举报已受理，感谢你的反馈")
}
