package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestCreatePostDefaults 创建帖子时派生 slug、摘要和阅读时长，默认为草稿
func TestCreatePostDefaults(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("Create", mock.AnythingOfType("*model.Post")).Return(nil)

	post := &model.Post{
		AuthorID: 1,
		Title:    "My First Post",
		Content:  "<p>hello world, this is content</p>",
		Category: "Technology",
	}

	err := svc.CreatePost(post)

	assert.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Contains(t, post.Slug, "my-first-post")
	assert.NotEmpty(t, post.Excerpt)
	assert.GreaterOrEqual(t, post.ReadingTime, 1)
	assert.Nil(t, post.PublishedAt)
}

// TestCreatePostPublished 直接发布时落发布时间
func TestCreatePostPublished(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("Create", mock.AnythingOfType("*model.Post")).Return(nil)

	post := &model.Post{
		AuthorID: 1,
		Title:    "发布的帖子",
		Content:  "内容",
		Category: "Technology",
		Status:   model.PostStatusPublished,
	}

	err := svc.CreatePost(post)

	assert.NoError(t, err)
	assert.NotNil(t, post.PublishedAt)
}

// TestGetPostBySlugMissing 不存在的帖子返回404错误
func TestGetPostBySlugMissing(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("FindBySlug", "nope").Return(nil, nil)

	_, err := svc.GetPostBySlug("nope", 0)

	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestGetPostBySlugDraftHidden 草稿对非作者表现为不存在
func TestGetPostBySlugDraftHidden(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	draft := &model.Post{ID: 1, AuthorID: 2, Status: model.PostStatusDraft, Slug: "draft-post"}
	postRepo.On("FindBySlug", "draft-post").Return(draft, nil)
	postRepo.On("IsLikedByUser", 1, mock.Anything).Return(false, nil)

	_, err := svc.GetPostBySlug("draft-post", 1)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))

	// 作者本人可见，且不计浏览量
	post, err := svc.GetPostBySlug("draft-post", 2)
	assert.NoError(t, err)
	assert.Equal(t, 1, post.ID)
	postRepo.AssertNotCalled(t, "IncrementViews")
}

// TestGetPostBySlugIncrementsViews 非作者访问已发布帖子时计浏览量
func TestGetPostBySlugIncrementsViews(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	published := &model.Post{ID: 1, AuthorID: 2, Status: model.PostStatusPublished, Slug: "hello", Views: 10}
	postRepo.On("FindBySlug", "hello").Return(published, nil)
	postRepo.On("IncrementViews", 1).Return(nil)
	postRepo.On("IsLikedByUser", 1, 3).Return(true, nil)

	post, err := svc.GetPostBySlug("hello", 3)

	assert.NoError(t, err)
	assert.Equal(t, 11, post.Views)
	assert.True(t, post.IsLiked)
	postRepo.AssertExpectations(t)
}

// TestUpdatePostForbidden 非作者不能修改帖子
func TestUpdatePostForbidden(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, AuthorID: 2}, nil)

	err := svc.UpdatePost(1, &model.Post{ID: 1, Title: "改标题"}, nil)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	postRepo.AssertNotCalled(t, "Update")
}

// TestUpdatePostPublishOnce 发布时间只在首次发布时落一次
func TestUpdatePostPublishOnce(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	firstPublish := time.Now().Add(-48 * time.Hour)
	existing := &model.Post{
		ID:          1,
		AuthorID:    2,
		Title:       "旧标题",
		Content:     "内容",
		Status:      model.PostStatusPublished,
		PublishedAt: &firstPublish,
	}
	postRepo.On("FindByID", 1).Return(existing, nil)
	postRepo.On("Update", mock.AnythingOfType("*model.Post")).Return(nil)

	update := &model.Post{ID: 1, Status: model.PostStatusPublished}
	err := svc.UpdatePost(2, update, nil)

	assert.NoError(t, err)
	assert.Equal(t, firstPublish.Unix(), update.PublishedAt.Unix())
}

// TestDeletePostForbidden 非作者不能删除帖子
func TestDeletePostForbidden(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, AuthorID: 2}, nil)

	err := svc.DeletePost(1, 1)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	postRepo.AssertNotCalled(t, "Delete")
}

// TestListPostsForcesPublished 公共列表强制只返回已发布帖子
func TestListPostsForcesPublished(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo)

	postRepo.On("List", mock.MatchedBy(func(f model.PostFilter) bool {
		return f.Status == model.PostStatusPublished
	}), 1, 10).Return([]*model.Post{}, 0, nil)

	_, _, err := svc.ListPosts(model.PostFilter{Status: "draft"}, 1, 10)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}
