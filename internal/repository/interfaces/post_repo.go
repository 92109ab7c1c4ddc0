package interfaces

import "blog-backend/internal/model"

// PostRepository 接口定义了帖子仓库应该实现的方法
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id int) (*model.Post, error)
	FindBySlug(slug string) (*model.Post, error)
	Update(post *model.Post) error
	Delete(id int) error
	List(filter model.PostFilter, page, limit int) ([]*model.Post, int, error)
	CountByAuthor(authorID int, status string) (int, error)
	// IncrementViews 以相对更新的方式递增浏览量，计数只增不减
	IncrementViews(id int) error
	IsLikedByUser(postID, userID int) (bool, error)
	GetAuthorStats(authorID int) (*model.UserStats, error)
}
