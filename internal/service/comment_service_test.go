package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func intPtr(v int) *int { return &v }

// TestCreateCommentMissingPost 评论不存在的帖子返回404错误
func TestCreateCommentMissingPost(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	postRepo.On("FindByID", 99).Return(nil, nil)

	err := svc.CreateComment(&model.Comment{PostID: 99, AuthorID: 1, Content: "hi"})

	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestCreateCommentDisabled 帖子关闭评论时返回403错误
func TestCreateCommentDisabled(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, CommentsEnabled: false}, nil)

	err := svc.CreateComment(&model.Comment{PostID: 1, AuthorID: 1, Content: "hi"})

	assert.True(t, errors.Is(err, errors.ErrCommentsDisabled))
	commentRepo.AssertNotCalled(t, "Create")
}

// TestCreateReplyWrongPost 父评论必须属于同一帖子
func TestCreateReplyWrongPost(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, CommentsEnabled: true}, nil)
	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, PostID: 2}, nil)

	err := svc.CreateComment(&model.Comment{PostID: 1, AuthorID: 1, ParentID: intPtr(5), Content: "hi"})

	assert.True(t, errors.Is(err, errors.ErrValidation))
}

// TestCreateReplyToReply 不允许回复回复，评论只有两层
func TestCreateReplyToReply(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, CommentsEnabled: true}, nil)
	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, PostID: 1, ParentID: intPtr(3)}, nil)

	err := svc.CreateComment(&model.Comment{PostID: 1, AuthorID: 1, ParentID: intPtr(5), Content: "hi"})

	assert.True(t, errors.Is(err, errors.ErrValidation))
	commentRepo.AssertNotCalled(t, "Create")
}

// TestCreateReply 合法回复创建成功
func TestCreateReply(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, CommentsEnabled: true}, nil)
	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, PostID: 1}, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Return(nil)

	err := svc.CreateComment(&model.Comment{PostID: 1, AuthorID: 1, ParentID: intPtr(5), Content: "hi"})

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

// TestUpdateCommentForbidden 非作者不能修改评论
func TestUpdateCommentForbidden(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, AuthorID: 2}, nil)

	_, err := svc.UpdateComment(1, 5, "改内容")

	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

// TestUpdateCommentMarksEdited 修改评论后带编辑标记
func TestUpdateCommentMarksEdited(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, AuthorID: 1, Content: "旧内容"}, nil)
	commentRepo.On("Update", mock.AnythingOfType("*model.Comment")).Return(nil)

	comment, err := svc.UpdateComment(1, 5, "新内容")

	assert.NoError(t, err)
	assert.True(t, comment.Edited)
	assert.NotNil(t, comment.EditedAt)
	assert.Equal(t, "新内容", comment.Content)
}

// TestDeleteCommentByPostAuthor 帖子作者可以删除他人评论
func TestDeleteCommentByPostAuthor(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, AuthorID: 2, PostID: 1}, nil)
	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, AuthorID: 3}, nil)
	commentRepo.On("Delete", 5).Return(nil)

	err := svc.DeleteComment(3, 5)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

// TestDeleteCommentForbidden 既不是评论作者也不是帖子作者时拒绝删除
func TestDeleteCommentForbidden(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	svc := NewCommentService(commentRepo, postRepo)

	commentRepo.On("FindByID", 5).Return(&model.Comment{ID: 5, AuthorID: 2, PostID: 1}, nil)
	postRepo.On("FindByID", 1).Return(&model.Post{ID: 1, AuthorID: 3}, nil)

	err := svc.DeleteComment(4, 5)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	commentRepo.AssertNotCalled(t, "Delete")
}
