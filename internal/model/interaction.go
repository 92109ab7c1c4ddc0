package model

import "time"

// TrendingPost 参与度排名中的帖子，附带计算出的 engagement 分值
type TrendingPost struct {
	ID            int          `json:"id"`
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	Excerpt       string       `json:"excerpt"`
	FeaturedImage string       `json:"featured_image,omitempty"`
	Category      string       `json:"category"`
	Tags          []string     `json:"tags"`
	Views         int          `json:"views"`
	LikeCount     int          `json:"like_count"`
	CommentCount  int          `json:"comment_count"`
	Engagement    int          `json:"engagement"`
	PublishedAt   *time.Time   `json:"published_at"`
	Author        *UserSummary `json:"author"`
}

// TagCount 标签出现次数
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// RecommendationSignals 推荐依据，随推荐结果一起返回
type RecommendationSignals struct {
	Categories      []string `json:"categories"`
	Tags            []string `json:"tags"`
	FollowedAuthors int      `json:"followed_authors"`
}

// DailyViews 单日浏览量（当前为占位数据，等待真实的浏览事件管道）
type DailyViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// Referrer 来源统计（占位数据）
type Referrer struct {
	Source string `json:"source"`
	Visits int    `json:"visits"`
}

// PostAnalytics 帖子的参与度分析，仅作者可见
type PostAnalytics struct {
	PostID           int          `json:"post_id"`
	Title            string       `json:"title"`
	TotalViews       int          `json:"total_views"`
	TotalLikes       int          `json:"total_likes"`
	TotalComments    int          `json:"total_comments"`
	UniqueCommenters int          `json:"unique_commenters"`
	EngagementRate   float64      `json:"engagement_rate"`
	ReadingTime      int          `json:"reading_time"`
	PublishedAt      *time.Time   `json:"published_at"`
	DailyViews       []DailyViews `json:"daily_views"`
	TopReferrers     []Referrer   `json:"top_referrers"`
}

// PostEngagement 参与度计算的快照行：帖子的原始计数
type PostEngagement struct {
	Post         TrendingPost
	Views        int
	LikeCount    int
	CommentCount int
}

// PostSignal 用户点赞过的帖子的分类与标签，推荐引擎的输入
type PostSignal struct {
	PostID   int
	Category string
	Tags     []string
}
