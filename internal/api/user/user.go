package user

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/service"
	"blog-backend/internal/storage"
	"blog-backend/internal/util"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 处理用户资料、社交关系和收藏相关的HTTP请求
type UserHandler struct {
	userService        service.UserServiceInterface
	postService        service.PostServiceInterface
	graphService       service.GraphServiceInterface
	interactionService service.InteractionServiceInterface
	storage            storage.Storage
}

func NewUserHandler(
	userService service.UserServiceInterface,
	postService service.PostServiceInterface,
	graphService service.GraphServiceInterface,
	interactionService service.InteractionServiceInterface,
	store storage.Storage,
) *UserHandler {
	return &UserHandler{
		userService:        userService,
		postService:        postService,
		graphService:       graphService,
		interactionService: interactionService,
		storage:            store,
	}
}

// GetProfile 获取用户公开资料，附带发布帖数
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	postCount, err := h.postService.CountPublishedByAuthor(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子数失败", err))
		return
	}

	// 当前登录用户是否关注了该用户
	isFollowing := false
	if viewerID := c.GetInt("user_id"); viewerID != 0 && viewerID != userID {
		if following, err := h.graphService.IsFollowing(viewerID, userID); err == nil {
			isFollowing = following
		}
	}

	errors.HandleSuccess(c, gin.H{
		"user":            user.Summary(),
		"post_count":      postCount,
		"follower_count":  user.FollowerCount,
		"following_count": user.FollowingCount,
		"is_following":    isFollowing,
	}, "")
}

// UpdateProfile 更新当前用户的资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var updateData struct {
		Name     string `json:"name" binding:"omitempty,min=2,max=50"`
		Bio      string `json:"bio" binding:"omitempty,max=500"`
		Theme    string `json:"theme" binding:"omitempty,oneof=light dark"`
		Language string `json:"language" binding:"omitempty,max=10"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.UpdateProfile(userID,
		updateData.Name, updateData.Bio, "", updateData.Theme, updateData.Language)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, user, "资料更新成功")
}

// ChangePassword 修改当前用户密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var passwordData struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&passwordData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !isPasswordStrong(passwordData.NewPassword) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "新密码强度不足"))
		return
	}

	if err := h.userService.ChangePassword(userID, passwordData.OldPassword, passwordData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "密码修改成功")
}

// DeleteAccount 注销当前用户账号
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.userService.DeleteAccount(userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "账号已删除")
}

// GetStats 获取创作统计，仅限本人
func (h *UserHandler) GetStats(c *gin.Context) {
	requesterID := c.GetInt("user_id")
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	stats, err := h.userService.GetUserStats(requesterID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, stats, "")
}

// SearchUsers 按名称或邮箱搜索用户
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少搜索关键词"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	users, err := h.userService.SearchUsers(query, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "搜索失败", err))
		return
	}

	errors.HandleList(c, users, len(users), 0, nil)
}

// ToggleFollow 切换对目标用户的关注状态
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	followerID := c.GetInt("user_id")
	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	following, err := h.graphService.ToggleFollow(followerID, followedID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	message := "已取消关注"
	if following {
		message = "关注成功"
	}
	errors.HandleSuccess(c, gin.H{"following": following}, message)
}

// GetFollowers 分页获取粉丝列表
func (h *UserHandler) GetFollowers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	followers, total, err := h.graphService.GetFollowers(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleList(c, followers, len(followers), total, errors.NewPagination(page, pageSize, total))
}

// GetFollowing 分页获取关注列表
func (h *UserHandler) GetFollowing(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的用户ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	following, total, err := h.graphService.GetFollowing(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleList(c, following, len(following), total, errors.NewPagination(page, pageSize, total))
}

// ToggleBookmark 切换帖子收藏状态
func (h *UserHandler) ToggleBookmark(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的帖子ID"))
		return
	}

	bookmarked, err := h.interactionService.ToggleBookmark(userID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	message := "已取消收藏"
	if bookmarked {
		message = "收藏成功"
	}
	errors.HandleSuccess(c, gin.H{"bookmarked": bookmarked}, message)
}

// GetBookmarks 获取当前用户的收藏列表
func (h *UserHandler) GetBookmarks(c *gin.Context) {
	userID := c.GetInt("user_id")

	posts, err := h.interactionService.ListBookmarks(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取收藏失败", err))
		return
	}

	errors.HandleList(c, posts, len(posts), 0, nil)
}

// UploadAvatar 上传头像并更新资料
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少头像文件", err))
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "不支持的图片格式"))
		return
	}

	path := "avatars/" + util.GenerateUniqueFilename(file.Filename)
	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("头像上传失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "头像上传失败", err))
		return
	}

	user, err := h.userService.UpdateProfile(userID, "", "", url, "", "")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"avatar_url": user.AvatarURL}, "头像更新成功")
}
