package interfaces

import "blog-backend/internal/model"

// GraphRepository 维护关注边账本和用户表上的反范式化计数。
// CreateEdge/DeleteEdge 必须把边和两侧计数放在同一事务中更新。
type GraphRepository interface {
	EdgeExists(followerID, followedID int) (bool, error)
	CreateEdge(followerID, followedID int) error
	DeleteEdge(followerID, followedID int) error
	GetFollowers(userID, page, pageSize int) ([]*model.UserSummary, int, error)
	GetFollowing(userID, page, pageSize int) ([]*model.UserSummary, int, error)
	GetFollowingIDs(userID int) ([]int, error)
}
