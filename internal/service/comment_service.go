package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

// CommentService 处理评论及两层回复结构
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
}

func NewCommentService(commentRepo interfaces.CommentRepository, postRepo interfaces.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment 创建评论或回复。
// 回复必须挂在同一帖子的顶层评论上，不允许多层嵌套。
func (s *CommentService) CreateComment(comment *model.Comment) error {
	post, err := s.postRepo.FindByID(comment.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if !post.CommentsEnabled {
		return errors.New(errors.ErrCommentsDisabled, "该帖子已关闭评论")
	}

	if comment.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*comment.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return errors.New(errors.ErrCommentNotFound, "父评论不存在")
		}
		if parent.PostID != comment.PostID {
			return errors.New(errors.ErrValidation, "父评论不属于该帖子")
		}
		if parent.ParentID != nil {
			return errors.New(errors.ErrValidation, "只支持两层评论，不能回复回复")
		}
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return err
	}

	util.Logger.Info("评论创建成功",
		zap.Int("comment_id", comment.ID),
		zap.Int("post_id", comment.PostID))
	return nil
}

// UpdateComment 修改评论内容，仅作者可操作，并标记编辑时间
func (s *CommentService) UpdateComment(userID, commentID int, content string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}
	if comment.AuthorID != userID {
		return nil, errors.New(errors.ErrForbidden, "无权修改他人评论")
	}

	now := time.Now()
	comment.Content = content
	comment.Edited = true
	comment.EditedAt = &now

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 删除评论及其回复。评论作者和帖子作者都有权删除。
func (s *CommentService) DeleteComment(userID, commentID int) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	if comment.AuthorID != userID {
		post, err := s.postRepo.FindByID(comment.PostID)
		if err != nil {
			return err
		}
		if post == nil || post.AuthorID != userID {
			return errors.New(errors.ErrForbidden, "无权删除该评论")
		}
	}

	return s.commentRepo.Delete(commentID)
}

// ListComments 返回帖子的评论树，顶层倒序、回复正序
func (s *CommentService) ListComments(postID int) ([]*model.Comment, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	return s.commentRepo.ListByPost(postID)
}

// ListUserComments 分页列出用户发表的评论
func (s *CommentService) ListUserComments(userID, page, limit int) ([]*model.Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.commentRepo.ListByAuthor(userID, page, limit)
}

// CommentServiceInterface 定义了评论服务的方法
type CommentServiceInterface interface {
	CreateComment(comment *model.Comment) error
	UpdateComment(userID, commentID int, content string) (*model.Comment, error)
	DeleteComment(userID, commentID int) error
	ListComments(postID int) ([]*model.Comment, error)
	ListUserComments(userID, page, limit int) ([]*model.Comment, int, error)
}

var _ CommentServiceInterface = (*CommentService)(nil)
