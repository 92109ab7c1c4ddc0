package interfaces

import "blog-backend/internal/model"

// CommentRepository 接口定义了评论仓库应该实现的方法
type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id int) (*model.Comment, error)
	Update(comment *model.Comment) error
	// Delete 删除评论及其全部回复
	Delete(id int) error
	// ListByPost 返回帖子的顶层评论，回复挂在 Replies 上（只有两层）
	ListByPost(postID int) ([]*model.Comment, error)
	ListByAuthor(authorID, page, limit int) ([]*model.Comment, int, error)
	CountByPost(postID int) (int, error)
}
