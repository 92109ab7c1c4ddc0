package model

import "time"

// 帖子状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// PostCategories 帖子分类枚举
var PostCategories = []string{
	"Technology", "Travel", "Food", "Lifestyle",
	"Business", "Health", "Entertainment", "Other",
}

// Post 结构体表示帖子模型
type Post struct {
	ID              int          `json:"id"`
	AuthorID        int          `json:"author_id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Content         string       `json:"content"`
	Excerpt         string       `json:"excerpt"`
	FeaturedImage   string       `json:"featured_image,omitempty"`
	Category        string       `json:"category"`
	Tags            []string     `json:"tags"`
	Status          string       `json:"status"`
	PublishedAt     *time.Time   `json:"published_at,omitempty"` // 首次发布时设置，且只设置一次
	Views           int          `json:"views"`
	ReadingTime     int          `json:"reading_time"`
	CommentsEnabled bool         `json:"comments_enabled"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Author          *UserSummary `json:"author,omitempty"`
	LikeCount       int          `json:"like_count"`
	CommentCount    int          `json:"comment_count"`
	IsLiked         bool         `json:"is_liked"`
}

// PostLike 帖子点赞记录，(user_id, post_id) 唯一
type PostLike struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark 收藏记录，(user_id, post_id) 唯一，id 顺序即插入顺序
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostFilter 帖子列表查询条件
type PostFilter struct {
	Category string
	Tag      string
	AuthorID int
	Search   string
	Status   string
	SortBy   string
}
