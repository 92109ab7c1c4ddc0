package model

import "time"

// Comment 结构体表示评论模型。回复只允许两层：
// 回复的 ParentID 必须指向同一帖子下的顶层评论。
type Comment struct {
	ID        int          `json:"id"`
	AuthorID  int          `json:"author_id"`
	PostID    int          `json:"post_id"`
	ParentID  *int         `json:"parent_id,omitempty"`
	Content   string       `json:"content"`
	Edited    bool         `json:"edited"`
	EditedAt  *time.Time   `json:"edited_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Author    *UserSummary `json:"author,omitempty"`
	LikeCount int          `json:"like_count"`
	Replies   []*Comment   `json:"replies,omitempty"`
}

// CommentLike 评论点赞记录，(user_id, comment_id) 唯一
type CommentLike struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	CommentID int       `json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
