package mysql

import (
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type interactionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *interactionRepository {
	return &interactionRepository{db: db}
}

// TogglePostLike 先尝试删除，删不到再插入。
// 两条语句各自原子，(post_id, user_id) 上的唯一索引保证并发切换不会重复点赞。
func (r *interactionRepository) TogglePostLike(userID, postID int) (bool, int, error) {
	result, err := r.db.Exec(`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID)
	if err != nil {
		util.Logger.Error("切换帖子点赞失败", zap.Error(err),
			zap.Int("post_id", postID), zap.Int("user_id", userID))
		return false, 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := false
	if affected == 0 {
		_, err := r.db.Exec(`INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, NOW())`,
			postID, userID)
		if err != nil {
			// 并发切换撞上唯一索引时当作已点赞
			if !strings.Contains(err.Error(), "Duplicate entry") {
				util.Logger.Error("切换帖子点赞失败", zap.Error(err), zap.Int("post_id", postID))
				return false, 0, err
			}
		}
		liked = true
	}

	var likeCount int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID).Scan(&likeCount); err != nil {
		return false, 0, err
	}

	return liked, likeCount, nil
}

func (r *interactionRepository) ToggleCommentLike(userID, commentID int) (bool, int, error) {
	result, err := r.db.Exec(`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`,
		commentID, userID)
	if err != nil {
		util.Logger.Error("切换评论点赞失败", zap.Error(err),
			zap.Int("comment_id", commentID), zap.Int("user_id", userID))
		return false, 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := false
	if affected == 0 {
		_, err := r.db.Exec(`INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES (?, ?, NOW())`,
			commentID, userID)
		if err != nil {
			if !strings.Contains(err.Error(), "Duplicate entry") {
				util.Logger.Error("切换评论点赞失败", zap.Error(err), zap.Int("comment_id", commentID))
				return false, 0, err
			}
		}
		liked = true
	}

	var likeCount int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM comment_likes WHERE comment_id = ?`, commentID).Scan(&likeCount); err != nil {
		return false, 0, err
	}

	return liked, likeCount, nil
}

func (r *interactionRepository) ToggleBookmark(userID, postID int) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM bookmarks WHERE post_id = ? AND user_id = ?`,
		postID, userID)
	if err != nil {
		util.Logger.Error("切换收藏失败", zap.Error(err),
			zap.Int("post_id", postID), zap.Int("user_id", userID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return false, nil
	}

	_, err = r.db.Exec(`INSERT INTO bookmarks (post_id, user_id, created_at) VALUES (?, ?, NOW())`,
		postID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return true, nil
		}
		util.Logger.Error("切换收藏失败", zap.Error(err), zap.Int("post_id", postID))
		return false, err
	}
	return true, nil
}

func (r *interactionRepository) ListBookmarks(userID int) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.slug, p.excerpt, p.featured_image,
               p.category, p.status, p.published_at, p.views, p.reading_time,
               p.comments_enabled, p.created_at, p.updated_at,
               u.name, u.avatar_url,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
        FROM bookmarks b
        JOIN posts p ON b.post_id = p.id
        JOIN users u ON p.author_id = u.id
        WHERE b.user_id = ?
        ORDER BY b.id ASC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		util.Logger.Error("查询收藏列表失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	return scanPostRows(rows)
}

func scanPostRows(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var author model.UserSummary
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt,
			&post.FeaturedImage, &post.Category, &post.Status, &post.PublishedAt,
			&post.Views, &post.ReadingTime, &post.CommentsEnabled,
			&post.CreatedAt, &post.UpdatedAt,
			&author.Name, &author.AvatarURL,
			&post.LikeCount, &post.CommentCount,
		)
		if err != nil {
			return nil, err
		}
		author.ID = post.AuthorID
		post.Author = &author
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// GetPostEngagements 拉取窗口内已发布帖子的参与度快照，排序打分在服务层做
func (r *interactionRepository) GetPostEngagements(since time.Time) ([]*model.PostEngagement, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.slug, p.excerpt, p.featured_image,
               p.category, p.published_at, p.views,
               u.name, u.avatar_url,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE p.status = ? AND p.published_at >= ?`

	rows, err := r.db.Query(query, model.PostStatusPublished, since)
	if err != nil {
		util.Logger.Error("查询帖子参与度失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []*model.PostEngagement
	for rows.Next() {
		var e model.PostEngagement
		var author model.UserSummary
		err := rows.Scan(
			&e.Post.ID, &author.ID, &e.Post.Title, &e.Post.Slug,
			&e.Post.Excerpt, &e.Post.FeaturedImage, &e.Post.Category,
			&e.Post.PublishedAt, &e.Views,
			&author.Name, &author.AvatarURL,
			&e.LikeCount, &e.CommentCount,
		)
		if err != nil {
			return nil, err
		}
		e.Post.Author = &author
		e.Post.Views = e.Views
		e.Post.LikeCount = e.LikeCount
		e.Post.CommentCount = e.CommentCount
		result = append(result, &e)
	}
	return result, rows.Err()
}

// GetPopularTags 按出现次数统计标签，同一篇帖子里的重复标签计多次
func (r *interactionRepository) GetPopularTags(limit int) ([]*model.TagCount, error) {
	query := `
        SELECT pt.tag, COUNT(*) AS cnt
        FROM post_tags pt
        JOIN posts p ON pt.post_id = p.id
        WHERE p.status = ?
        GROUP BY pt.tag
        ORDER BY cnt DESC, pt.tag ASC
        LIMIT ?`

	rows, err := r.db.Query(query, model.PostStatusPublished, limit)
	if err != nil {
		util.Logger.Error("查询热门标签失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tags []*model.TagCount
	for rows.Next() {
		var t model.TagCount
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

func (r *interactionRepository) GetLikedPostSignals(userID int) ([]*model.PostSignal, error) {
	rows, err := r.db.Query(`
        SELECT p.id, p.category
        FROM post_likes pl
        JOIN posts p ON pl.post_id = p.id
        WHERE pl.user_id = ?`, userID)
	if err != nil {
		util.Logger.Error("查询点赞信号失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	var signals []*model.PostSignal
	byID := make(map[int]*model.PostSignal)
	for rows.Next() {
		var s model.PostSignal
		if err := rows.Scan(&s.PostID, &s.Category); err != nil {
			return nil, err
		}
		signals = append(signals, &s)
		byID[s.PostID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(signals))
	for _, s := range signals {
		ids = append(ids, s.PostID)
	}
	tagQuery := fmt.Sprintf(`
        SELECT post_id, tag FROM post_tags
        WHERE post_id IN (%s)
        ORDER BY post_id, position`, placeholders(len(ids)))

	tagRows, err := r.db.Query(tagQuery, intArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var postID int
		var tag string
		if err := tagRows.Scan(&postID, &tag); err != nil {
			return nil, err
		}
		if s, ok := byID[postID]; ok {
			s.Tags = append(s.Tags, tag)
		}
	}
	return signals, tagRows.Err()
}

func (r *interactionRepository) FindCandidatePosts(userID int, excludeIDs, authorIDs []int, categories, tags []string, limit int) ([]*model.Post, error) {
	// 三个信号全空时不下发全表查询
	if len(authorIDs) == 0 && len(categories) == 0 && len(tags) == 0 {
		return nil, nil
	}

	conds := []string{"p.status = ?", "p.author_id != ?"}
	args := []interface{}{model.PostStatusPublished, userID}

	if len(excludeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("p.id NOT IN (%s)", placeholders(len(excludeIDs))))
		args = append(args, intArgs(excludeIDs)...)
	}

	var signals []string
	if len(authorIDs) > 0 {
		signals = append(signals, fmt.Sprintf("p.author_id IN (%s)", placeholders(len(authorIDs))))
		args = append(args, intArgs(authorIDs)...)
	}
	if len(categories) > 0 {
		signals = append(signals, fmt.Sprintf("p.category IN (%s)", placeholders(len(categories))))
		args = append(args, stringArgs(categories)...)
	}
	if len(tags) > 0 {
		signals = append(signals, fmt.Sprintf(
			"EXISTS(SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag IN (%s))",
			placeholders(len(tags))))
		args = append(args, stringArgs(tags)...)
	}
	conds = append(conds, "("+strings.Join(signals, " OR ")+")")

	query := fmt.Sprintf(`
        SELECT p.id, p.author_id, p.title, p.slug, p.excerpt, p.featured_image,
               p.category, p.status, p.published_at, p.views, p.reading_time,
               p.comments_enabled, p.created_at, p.updated_at,
               u.name, u.avatar_url,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE %s
        ORDER BY p.published_at DESC, p.id DESC
        LIMIT ?`, strings.Join(conds, " AND "))
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询推荐候选失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	return scanPostRows(rows)
}

// GetTagsForPosts 批量加载帖子标签，按帖子内顺序返回
func (r *interactionRepository) GetTagsForPosts(postIDs []int) (map[int][]string, error) {
	if len(postIDs) == 0 {
		return map[int][]string{}, nil
	}

	query := fmt.Sprintf(`
        SELECT post_id, tag FROM post_tags
        WHERE post_id IN (%s)
        ORDER BY post_id, position`, placeholders(len(postIDs)))

	rows, err := r.db.Query(query, intArgs(postIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[int][]string)
	for rows.Next() {
		var postID int
		var tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return nil, err
		}
		tags[postID] = append(tags[postID], tag)
	}
	return tags, rows.Err()
}

func (r *interactionRepository) CountUniqueCommenters(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(DISTINCT author_id) FROM comments WHERE post_id = ?`,
		postID).Scan(&count)
	return count, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func intArgs(values []int) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
