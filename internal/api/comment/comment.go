package comment

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	commentService     service.CommentServiceInterface
	interactionService service.InteractionServiceInterface
}

func NewCommentHandler(
	commentService service.CommentServiceInterface,
	interactionService service.InteractionServiceInterface,
) *CommentHandler {
	return &CommentHandler{
		commentService:     commentService,
		interactionService: interactionService,
	}
}

// ListByPost 获取帖子的评论树
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	comments, err := h.commentService.ListComments(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleList(c, comments, len(comments), 0, nil)
}

// ListByUser 分页获取用户发表的评论
func (h *CommentHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	comments, total, err := h.commentService.ListUserComments(userID, page, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取评论失败", err))
		return
	}

	errors.HandleList(c, comments, len(comments), total, errors.NewPagination(page, limit, total))
}

// CreateComment 创建评论或回复
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID := c.GetInt("user_id")

	var commentData struct {
		PostID   int    `json:"post_id" binding:"required"`
		ParentID *int   `json:"parent_id"`
		Content  string `json:"content" binding:"required,min=1,max=2000"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment := &model.Comment{
		AuthorID: userID,
		PostID:   commentData.PostID,
		ParentID: commentData.ParentID,
		Content:  commentData.Content,
	}

	if err := h.commentService.CreateComment(comment); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, comment, "评论发表成功")
}

// UpdateComment 修改评论，仅作者可操作
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID := c.GetInt("user_id")
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的评论ID"))
		return
	}

	var commentData struct {
		Content string `json:"content" binding:"required,min=1,max=2000"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment, err := h.commentService.UpdateComment(userID, commentID, commentData.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, comment, "评论更新成功")
}

// DeleteComment 删除评论，评论作者或帖子作者可操作
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID := c.GetInt("user_id")
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的评论ID"))
		return
	}

	if err := h.commentService.DeleteComment(userID, commentID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "评论删除成功")
}

// ToggleLike 切换评论点赞状态
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	userID := c.GetInt("user_id")
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的评论ID"))
		return
	}

	liked, likeCount, err := h.interactionService.ToggleCommentLike(userID, commentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	message := "已取消点赞"
	if liked {
		message = "点赞成功"
	}
	errors.HandleSuccess(c, gin.H{
		"liked":      liked,
		"like_count": likeCount,
	}, message)
}
