package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

// PostService 处理帖子的创建、查询和生命周期
type PostService struct {
	postRepo interfaces.PostRepository
}

func NewPostService(postRepo interfaces.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost 创建帖子，slug、摘要和阅读时长由内容派生
func (s *PostService) CreatePost(post *model.Post) error {
	post.Slug = util.Slugify(post.Title)
	post.ReadingTime = util.ReadingTime(post.Content)
	if post.Excerpt == "" {
		post.Excerpt = util.GenerateExcerpt(post.Content)
	}
	if post.Status == "" {
		post.Status = model.PostStatusDraft
	}
	if post.Status == model.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(post); err != nil {
		return err
	}

	util.Logger.Info("帖子创建成功",
		zap.Int("post_id", post.ID),
		zap.String("status", post.Status))
	return nil
}

// GetPostBySlug 按 slug 获取帖子。
// 草稿只有作者本人可见；viewerID 为 0 表示未登录。
func (s *PostService) GetPostBySlug(slug string, viewerID int) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if post.Status != model.PostStatusPublished && post.AuthorID != viewerID {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	// 非作者访问才计浏览量
	if post.Status == model.PostStatusPublished && viewerID != post.AuthorID {
		if err := s.postRepo.IncrementViews(post.ID); err == nil {
			post.Views++
		}
	}

	if viewerID != 0 {
		liked, err := s.postRepo.IsLikedByUser(post.ID, viewerID)
		if err == nil {
			post.IsLiked = liked
		}
	}

	return post, nil
}

// GetPostByID 按ID获取帖子，不做可见性过滤，供内部调用
func (s *PostService) GetPostByID(id int) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

// UpdatePost 更新帖子，仅作者可操作。
// commentsEnabled 为 nil 时保持原值。
func (s *PostService) UpdatePost(userID int, post *model.Post, commentsEnabled *bool) error {
	existing, err := s.GetPostByID(post.ID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return errors.New(errors.ErrForbidden, "无权修改他人帖子")
	}

	if post.Title != "" && post.Title != existing.Title {
		existing.Title = post.Title
		existing.Slug = util.Slugify(post.Title)
	}
	if post.Content != "" {
		existing.Content = post.Content
		existing.ReadingTime = util.ReadingTime(post.Content)
	}
	if post.Excerpt != "" {
		existing.Excerpt = post.Excerpt
	}
	if post.FeaturedImage != "" {
		existing.FeaturedImage = post.FeaturedImage
	}
	if post.Category != "" {
		existing.Category = post.Category
	}
	if post.Tags != nil {
		existing.Tags = post.Tags
	}
	if commentsEnabled != nil {
		existing.CommentsEnabled = *commentsEnabled
	}

	// 首次发布时落一次发布时间，之后不再改动
	if post.Status != "" {
		if post.Status == model.PostStatusPublished && existing.PublishedAt == nil {
			now := time.Now()
			existing.PublishedAt = &now
		}
		existing.Status = post.Status
	}

	if err := s.postRepo.Update(existing); err != nil {
		return err
	}

	*post = *existing
	return nil
}

// DeletePost 删除帖子及其关联数据，仅作者可操作
func (s *PostService) DeletePost(userID, postID int) error {
	existing, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return errors.New(errors.ErrForbidden, "无权删除他人帖子")
	}

	return s.postRepo.Delete(postID)
}

// ListPosts 分页列出已发布帖子，支持分类/标签/作者/搜索过滤
func (s *PostService) ListPosts(filter model.PostFilter, page, limit int) ([]*model.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	filter.Status = model.PostStatusPublished
	return s.postRepo.List(filter, page, limit)
}

// ListMyPosts 列出指定作者的帖子，含草稿，仅限本人
func (s *PostService) ListMyPosts(userID int, status string, page, limit int) ([]*model.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	filter := model.PostFilter{AuthorID: userID, Status: status, SortBy: "created_at"}
	return s.postRepo.List(filter, page, limit)
}

// CountPublishedByAuthor 统计作者已发布的帖子数
func (s *PostService) CountPublishedByAuthor(authorID int) (int, error) {
	return s.postRepo.CountByAuthor(authorID, model.PostStatusPublished)
}

// PostServiceInterface 定义了帖子服务的方法
type PostServiceInterface interface {
	CreatePost(post *model.Post) error
	GetPostBySlug(slug string, viewerID int) (*model.Post, error)
	GetPostByID(id int) (*model.Post, error)
	UpdatePost(userID int, post *model.Post, commentsEnabled *bool) error
	DeletePost(userID, postID int) error
	ListPosts(filter model.PostFilter, page, limit int) ([]*model.Post, int, error)
	ListMyPosts(userID int, status string, page, limit int) ([]*model.Post, int, error)
	CountPublishedByAuthor(authorID int) (int, error)
}

var _ PostServiceInterface = (*PostService)(nil)
