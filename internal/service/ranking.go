package service

import (
	"blog-backend/internal/model"
	"math"
	"sort"
)

// clampLimit 修正调用方传入的条数：非正数取默认值，超过上限截到上限
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// engagementScore 参与度打分：浏览计1分，点赞计2分，评论计3分
func engagementScore(views, likes, comments int) int {
	return views + 2*likes + 3*comments
}

// rankByEngagement 按参与度排名并截取前 limit 条。
// 分值相同时按ID升序，保证结果稳定可复现。
func rankByEngagement(rows []*model.PostEngagement, limit int) []*model.TrendingPost {
	ranked := make([]*model.TrendingPost, 0, len(rows))
	for _, row := range rows {
		post := row.Post
		post.Views = row.Views
		post.LikeCount = row.LikeCount
		post.CommentCount = row.CommentCount
		post.Engagement = engagementScore(row.Views, row.LikeCount, row.CommentCount)
		ranked = append(ranked, &post)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Engagement != ranked[j].Engagement {
			return ranked[i].Engagement > ranked[j].Engagement
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// countSignals 统计点赞帖子的分类和标签出现次数。
// 同一篇帖子里重复的标签计多次。
func countSignals(signals []*model.PostSignal) (categories, tags map[string]int) {
	categories = make(map[string]int)
	tags = make(map[string]int)
	for _, s := range signals {
		if s.Category != "" {
			categories[s.Category]++
		}
		for _, tag := range s.Tags {
			tags[tag]++
		}
	}
	return categories, tags
}

// topNByCount 取出现次数最多的前 n 个键，次数相同时按名称升序
func topNByCount(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// engagementRate 参与率：(点赞+评论)/浏览量×100，保留两位小数。
// 浏览量为零时返回0而不是除零。
func engagementRate(views, likes, comments int) float64 {
	if views == 0 {
		return 0
	}
	rate := float64(likes+comments) / float64(views) * 100
	return math.Round(rate*100) / 100
}
