package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTrendingLimit       = 10
	defaultPopularTagsLimit    = 20
	defaultRecommendationLimit = 10
	maxListLimit               = 50
	topCategorySignals         = 3
	topTagSignals              = 5
)

// InteractionService 处理点赞、收藏、热榜和个性化推荐
type InteractionService struct {
	interactionRepo interfaces.InteractionRepository
	postRepo        interfaces.PostRepository
	commentRepo     interfaces.CommentRepository
	graphRepo       interfaces.GraphRepository
}

func NewInteractionService(
	interactionRepo interfaces.InteractionRepository,
	postRepo interfaces.PostRepository,
	commentRepo interfaces.CommentRepository,
	graphRepo interfaces.GraphRepository,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		commentRepo:     commentRepo,
		graphRepo:       graphRepo,
	}
}

// TogglePostLike 切换帖子点赞，返回切换后的状态和最新点赞数
func (s *InteractionService) TogglePostLike(userID, postID int) (bool, int, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return false, 0, err
	}
	if post == nil {
		return false, 0, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	return s.interactionRepo.TogglePostLike(userID, postID)
}

// ToggleCommentLike 切换评论点赞
func (s *InteractionService) ToggleCommentLike(userID, commentID int) (bool, int, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return false, 0, err
	}
	if comment == nil {
		return false, 0, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	return s.interactionRepo.ToggleCommentLike(userID, commentID)
}

// ToggleBookmark 切换帖子收藏
func (s *InteractionService) ToggleBookmark(userID, postID int) (bool, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	return s.interactionRepo.ToggleBookmark(userID, postID)
}

// ListBookmarks 获取用户的收藏列表
func (s *InteractionService) ListBookmarks(userID int) ([]*model.Post, error) {
	return s.interactionRepo.ListBookmarks(userID)
}

// GetTrendingPosts 按窗口内参与度取热榜。
// period 支持 day/week/month，缺省为 week；limit 非法时取默认值。
func (s *InteractionService) GetTrendingPosts(period string, limit int) ([]*model.TrendingPost, error) {
	limit = clampLimit(limit, defaultTrendingLimit)
	now := time.Now()
	var since time.Time
	switch period {
	case "day":
		since = now.AddDate(0, 0, -1)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		period = "week"
		since = now.AddDate(0, 0, -7)
	}

	rows, err := s.interactionRepo.GetPostEngagements(since)
	if err != nil {
		return nil, err
	}

	ranked := rankByEngagement(rows, limit)

	ids := make([]int, 0, len(ranked))
	for _, p := range ranked {
		ids = append(ids, p.ID)
	}
	tags, err := s.interactionRepo.GetTagsForPosts(ids)
	if err != nil {
		return nil, err
	}
	for _, p := range ranked {
		p.Tags = tags[p.ID]
	}

	util.Logger.Info("热榜计算完成",
		zap.String("period", period),
		zap.Int("candidates", len(rows)),
		zap.Int("returned", len(ranked)))
	return ranked, nil
}

// GetPopularTags 取全站热门标签
func (s *InteractionService) GetPopularTags(limit int) ([]*model.TagCount, error) {
	return s.interactionRepo.GetPopularTags(clampLimit(limit, defaultPopularTagsLimit))
}

// GetRecommendations 基于点赞历史和关注关系生成个性化推荐。
// 信号：点赞帖子的高频分类（前3）和标签（前5），以及关注的作者。
// 没有任何信号时返回空结果而不是全站兜底。
func (s *InteractionService) GetRecommendations(userID, limit int) ([]*model.Post, *model.RecommendationSignals, error) {
	limit = clampLimit(limit, defaultRecommendationLimit)
	liked, err := s.interactionRepo.GetLikedPostSignals(userID)
	if err != nil {
		return nil, nil, err
	}

	followingIDs, err := s.graphRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, nil, err
	}

	categoryCounts, tagCounts := countSignals(liked)
	topCategories := topNByCount(categoryCounts, topCategorySignals)
	topTags := topNByCount(tagCounts, topTagSignals)

	signals := &model.RecommendationSignals{
		Categories:      topCategories,
		Tags:            topTags,
		FollowedAuthors: len(followingIDs),
	}

	likedIDs := make([]int, 0, len(liked))
	for _, l := range liked {
		likedIDs = append(likedIDs, l.PostID)
	}

	posts, err := s.interactionRepo.FindCandidatePosts(
		userID, likedIDs, followingIDs, topCategories, topTags, limit)
	if err != nil {
		return nil, nil, err
	}

	util.Logger.Info("推荐生成完成",
		zap.Int("user_id", userID),
		zap.Int("liked_posts", len(liked)),
		zap.Int("following", len(followingIDs)),
		zap.Int("returned", len(posts)))
	return posts, signals, nil
}

// GetPostAnalytics 获取帖子分析数据，仅作者可见。
// 每日浏览和来源目前是占位数据，等浏览事件管道上线后替换。
func (s *InteractionService) GetPostAnalytics(requesterID, postID int) (*model.PostAnalytics, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != requesterID {
		return nil, errors.New(errors.ErrForbidden, "仅作者可查看帖子分析")
	}

	uniqueCommenters, err := s.interactionRepo.CountUniqueCommenters(postID)
	if err != nil {
		return nil, err
	}

	analytics := &model.PostAnalytics{
		PostID:           post.ID,
		Title:            post.Title,
		TotalViews:       post.Views,
		TotalLikes:       post.LikeCount,
		TotalComments:    post.CommentCount,
		UniqueCommenters: uniqueCommenters,
		EngagementRate:   engagementRate(post.Views, post.LikeCount, post.CommentCount),
		ReadingTime:      post.ReadingTime,
		PublishedAt:      post.PublishedAt,
		DailyViews:       placeholderDailyViews(),
		TopReferrers:     placeholderReferrers(),
	}
	return analytics, nil
}

// placeholderDailyViews 生成最近7天的占位浏览曲线
func placeholderDailyViews() []model.DailyViews {
	views := make([]model.DailyViews, 0, 7)
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		views = append(views, model.DailyViews{
			Date:  date.Format("2006-01-02"),
			Views: rand.Intn(51) + 10,
		})
	}
	return views
}

func placeholderReferrers() []model.Referrer {
	return []model.Referrer{
		{Source: "direct", Visits: 45},
		{Source: "google", Visits: 32},
		{Source: "twitter", Visits: 18},
	}
}

// ReportContent 受理举报。目前只校验并记录，审核流水线接入前不落库。
func (s *InteractionService) ReportContent(reporterID int, targetType string, targetID int, reason, description string) error {
	switch targetType {
	case "post":
		post, err := s.postRepo.FindByID(targetID)
		if err != nil {
			return err
		}
		if post == nil {
			return errors.New(errors.ErrPostNotFound, "帖子不存在")
		}
	case "comment":
		comment, err := s.commentRepo.FindByID(targetID)
		if err != nil {
			return err
		}
		if comment == nil {
			return errors.New(errors.ErrCommentNotFound, "评论不存在")
		}
	default:
		return errors.New(errors.ErrValidation, "不支持的举报类型")
	}

	util.Logger.Warn("收到内容举报",
		zap.Int("reporter_id", reporterID),
		zap.String("target_type", targetType),
		zap.Int("target_id", targetID),
		zap.String("reason", reason),
		zap.String("description", description))
	return nil
}

// InteractionServiceInterface 定义了互动服务的方法
type InteractionServiceInterface interface {
	TogglePostLike(userID, postID int) (bool, int, error)
	ToggleCommentLike(userID, commentID int) (bool, int, error)
	ToggleBookmark(userID, postID int) (bool, error)
	ListBookmarks(userID int) ([]*model.Post, error)
	GetTrendingPosts(period string, limit int) ([]*model.TrendingPost, error)
	GetPopularTags(limit int) ([]*model.TagCount, error)
	GetRecommendations(userID, limit int) ([]*model.Post, *model.RecommendationSignals, error)
	GetPostAnalytics(requesterID, postID int) (*model.PostAnalytics, error)
	ReportContent(reporterID int, targetType string, targetID int, reason, description string) error
}

var _ InteractionServiceInterface = (*InteractionService)(nil)
