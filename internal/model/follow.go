package model

import "time"

// Follow 关注边，(follower_id, followed_id) 唯一。
// 这是关注关系的事实账本；users 表上的 follower_count/following_count
// 是反范式化计数，必须和边在同一事务里更新。
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id"`
	FollowedID int       `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
