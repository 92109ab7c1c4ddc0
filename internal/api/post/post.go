package post

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"blog-backend/internal/storage"
	"blog-backend/internal/util"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理帖子相关的HTTP请求
type PostHandler struct {
	postService        service.PostServiceInterface
	interactionService service.InteractionServiceInterface
	storage            storage.Storage
}

func NewPostHandler(
	postService service.PostServiceInterface,
	interactionService service.InteractionServiceInterface,
	store storage.Storage,
) *PostHandler {
	return &PostHandler{
		postService:        postService,
		interactionService: interactionService,
		storage:            store,
	}
}

// CreatePost 创建帖子，默认为草稿
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetInt("user_id")

	var postData struct {
		Title           string   `json:"title" binding:"required,min=3,max=200"`
		Content         string   `json:"content" binding:"required"`
		Excerpt         string   `json:"excerpt" binding:"omitempty,max=500"`
		FeaturedImage   string   `json:"featured_image"`
		Category        string   `json:"category" binding:"required,postcategory"`
		Tags            []string `json:"tags" binding:"omitempty,max=10"`
		Status          string   `json:"status" binding:"omitempty,oneof=draft published"`
		CommentsEnabled *bool    `json:"comments_enabled"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		util.Logger.Warn("创建帖子失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	commentsEnabled := true
	if postData.CommentsEnabled != nil {
		commentsEnabled = *postData.CommentsEnabled
	}

	post := &model.Post{
		AuthorID:        userID,
		Title:           postData.Title,
		Content:         postData.Content,
		Excerpt:         postData.Excerpt,
		FeaturedImage:   postData.FeaturedImage,
		Category:        postData.Category,
		Tags:            postData.Tags,
		Status:          postData.Status,
		CommentsEnabled: commentsEnabled,
	}

	if err := h.postService.CreatePost(post); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建帖子失败", err))
		return
	}

	errors.HandleSuccess(c, post, "帖子创建成功")
}

// GetPostBySlug 按 slug 获取帖子详情
func (h *PostHandler) GetPostBySlug(c *gin.Context) {
	viewerID := c.GetInt("user_id")

	post, err := h.postService.GetPostBySlug(c.Param("slug"), viewerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, post, "")
}

// GetPostByID 按ID获取帖子，编辑页使用
func (h *PostHandler) GetPostByID(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	post, err := h.postService.GetPostByID(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 草稿只有作者可见
	if post.Status != model.PostStatusPublished && post.AuthorID != c.GetInt("user_id") {
		errors.HandleError(c, errors.New(errors.ErrPostNotFound, "帖子不存在"))
		return
	}

	errors.HandleSuccess(c, post, "")
}

// UpdatePost 更新帖子，仅作者可操作
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	var postData struct {
		Title           string   `json:"title" binding:"omitempty,min=3,max=200"`
		Content         string   `json:"content"`
		Excerpt         string   `json:"excerpt" binding:"omitempty,max=500"`
		FeaturedImage   string   `json:"featured_image"`
		Category        string   `json:"category" binding:"omitempty,postcategory"`
		Tags            []string `json:"tags" binding:"omitempty,max=10"`
		Status          string   `json:"status" binding:"omitempty,oneof=draft published"`
		CommentsEnabled *bool    `json:"comments_enabled"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post := &model.Post{
		ID:            postID,
		Title:         postData.Title,
		Content:       postData.Content,
		Excerpt:       postData.Excerpt,
		FeaturedImage: postData.FeaturedImage,
		Category:      postData.Category,
		Tags:          postData.Tags,
		Status:        postData.Status,
	}

	if err := h.postService.UpdatePost(userID, post, postData.CommentsEnabled); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, post, "帖子更新成功")
}

// DeletePost 删除帖子，仅作者可操作
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "帖子删除成功")
}

// ListPosts 分页列出已发布帖子
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := model.PostFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
	}
	if authorID, err := strconv.Atoi(c.Query("author")); err == nil {
		filter.AuthorID = authorID
	}

	posts, total, err := h.postService.ListPosts(filter, page, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleList(c, posts, len(posts), total, errors.NewPagination(page, limit, total))
}

// ListUserPosts 列出指定用户的帖子。
// 查自己时可以带 status 参数看到草稿，查别人只返回已发布。
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var posts []*model.Post
	var total int
	if c.GetInt("user_id") == targetID {
		posts, total, err = h.postService.ListMyPosts(targetID, c.Query("status"), page, limit)
	} else {
		filter := model.PostFilter{AuthorID: targetID}
		posts, total, err = h.postService.ListPosts(filter, page, limit)
	}
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleList(c, posts, len(posts), total, errors.NewPagination(page, limit, total))
}

// ToggleLike 切换帖子点赞状态
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	liked, likeCount, err := h.interactionService.TogglePostLike(userID, postID)
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

// UploadImage 上传帖子配图
func (h *PostHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少图片文件", err))
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" && ext != ".gif" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "不支持的图片格式"))
		return
	}

	path := "posts/" + util.GenerateUniqueFilename(file.Filename)
	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("图片上传失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "图片上传失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"url": url}, "图片上传成功")
}
