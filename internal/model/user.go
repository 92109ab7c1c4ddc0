package model

import "time"

// User 结构体表示用户模型
type User struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"` // 密码哈希不应在JSON中暴露
	AvatarURL      string     `json:"avatar_url"`
	Bio            string     `json:"bio"`
	Theme          string     `json:"theme"`
	Language       string     `json:"language"`
	FollowerCount  int        `json:"follower_count"`  // 反范式化计数，仅由关注事务维护
	FollowingCount int        `json:"following_count"` // 同上
	EmailVerified  bool       `json:"email_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// UserSummary 用户摘要信息，附加在帖子和评论上
type UserSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio,omitempty"`
}

// Summary 返回用户的摘要信息
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
}

// UserStats 用户在所有帖子上的累计统计
type UserStats struct {
	TotalPosts    int    `json:"total_posts"`
	TotalViews    int    `json:"total_views"`
	TotalLikes    int    `json:"total_likes"`
	TotalComments int    `json:"total_comments"`
	Range         string `json:"range"`
}
