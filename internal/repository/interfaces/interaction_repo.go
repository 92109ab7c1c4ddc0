package interfaces

import (
	"time"

	"blog-backend/internal/model"
)

// InteractionRepository 承载点赞/收藏的切换原语和参与度聚合查询。
// 切换操作在存储层以条件更新完成，同一目标上的并发切换不会丢失更新。
type InteractionRepository interface {
	TogglePostLike(userID, postID int) (liked bool, likeCount int, err error)
	ToggleCommentLike(userID, commentID int) (liked bool, likeCount int, err error)
	ToggleBookmark(userID, postID int) (bookmarked bool, err error)
	// ListBookmarks 按插入顺序返回收藏的帖子
	ListBookmarks(userID int) ([]*model.Post, error)

	// GetPostEngagements 返回发布时间不早于 since 的已发布帖子快照行
	GetPostEngagements(since time.Time) ([]*model.PostEngagement, error)
	GetPopularTags(limit int) ([]*model.TagCount, error)
	GetTagsForPosts(postIDs []int) (map[int][]string, error)

	GetLikedPostSignals(userID int) ([]*model.PostSignal, error)
	// FindCandidatePosts 查找推荐候选集：已发布、非本人、未点赞，
	// 且命中（关注作者 ∪ 分类 ∪ 标签）任一信号
	FindCandidatePosts(userID int, excludeIDs, authorIDs []int, categories, tags []string, limit int) ([]*model.Post, error)

	CountUniqueCommenters(postID int) (int, error)
}
