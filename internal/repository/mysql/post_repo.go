package mysql

import (
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO posts
	          (author_id, title, slug, content, excerpt, featured_image, category,
	           status, published_at, reading_time, comments_enabled, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := tx.Exec(query,
		post.AuthorID, post.Title, post.Slug, post.Content, post.Excerpt,
		post.FeaturedImage, post.Category, post.Status, post.PublishedAt,
		post.ReadingTime, post.CommentsEnabled)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)

	// 插入标签，保留顺序和重复项
	if err := insertTags(tx, post.ID, post.Tags); err != nil {
		util.Logger.Error("插入帖子标签失败", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

func insertTags(tx *sql.Tx, postID int, tags []string) error {
	query := `INSERT INTO post_tags (post_id, tag, position) VALUES (?, ?, ?)`
	for i, tag := range tags {
		if _, err := tx.Exec(query, postID, tag, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *postRepository) FindByID(id int) (*model.Post, error) {
	return r.findOne("p.id = ?", id)
}

func (r *postRepository) FindBySlug(slug string) (*model.Post, error) {
	return r.findOne("p.slug = ?", slug)
}

func (r *postRepository) findOne(cond string, arg interface{}) (*model.Post, error) {
	query := fmt.Sprintf(`
        SELECT p.id, p.author_id, p.title, p.slug, p.content, p.excerpt,
               p.featured_image, p.category, p.status, p.published_at,
               p.views, p.reading_time, p.comments_enabled, p.created_at, p.updated_at,
               u.name, u.avatar_url, u.bio,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE %s`, cond)

	var post model.Post
	var author model.UserSummary
	err := r.db.QueryRow(query, arg).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.FeaturedImage, &post.Category, &post.Status, &post.PublishedAt,
		&post.Views, &post.ReadingTime, &post.CommentsEnabled, &post.CreatedAt, &post.UpdatedAt,
		&author.Name, &author.AvatarURL, &author.Bio,
		&post.LikeCount, &post.CommentCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	author.ID = post.AuthorID
	post.Author = &author

	tags, err := r.loadTags(post.ID)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	return &post, nil
}

func (r *postRepository) loadTags(postID int) ([]string, error) {
	rows, err := r.db.Query(`SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *postRepository) Update(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// author_id、views 不在更新列中：作者不可变，浏览量只走 IncrementViews
	query := `UPDATE posts
	          SET title = ?, slug = ?, content = ?, excerpt = ?, featured_image = ?,
	              category = ?, status = ?, published_at = ?, reading_time = ?,
	              comments_enabled = ?, updated_at = NOW()
	          WHERE id = ?`

	_, err = tx.Exec(query,
		post.Title, post.Slug, post.Content, post.Excerpt, post.FeaturedImage,
		post.Category, post.Status, post.PublishedAt, post.ReadingTime,
		post.CommentsEnabled, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}

	// 重建标签
	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, post.ID); err != nil {
		return err
	}
	if err := insertTags(tx, post.ID, post.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postRepository) Delete(id int) error {
	util.Logger.Info("开始删除帖子", zap.Int("post_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)`,
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM post_likes WHERE post_id = ?`,
		`DELETE FROM bookmarks WHERE post_id = ?`,
		`DELETE FROM post_tags WHERE post_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

func (r *postRepository) List(filter model.PostFilter, page, limit int) ([]*model.Post, int, error) {
	conds := []string{"1=1"}
	var args []interface{}

	if filter.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conds = append(conds, "p.category = ?")
		args = append(args, filter.Category)
	}
	if filter.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if filter.Tag != "" {
		conds = append(conds, "EXISTS(SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag = ?)")
		args = append(args, filter.Tag)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, `(p.title LIKE ? OR p.content LIKE ?
		    OR EXISTS(SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag LIKE ?))`)
		args = append(args, pattern, pattern, pattern)
	}

	where := strings.Join(conds, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM posts p WHERE %s`, where)
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "p.published_at DESC, p.id DESC"
	if filter.SortBy == "created_at" {
		orderBy = "p.created_at DESC, p.id DESC"
	}

	offset := (page - 1) * limit
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
        ORDER BY %s
        LIMIT ? OFFSET ?`, where, orderBy)

	args = append(args, limit, offset)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

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
			return nil, 0, err
		}
		author.ID = post.AuthorID
		post.Author = &author
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// 为每个帖子加载标签
	for _, post := range posts {
		tags, err := r.loadTags(post.ID)
		if err != nil {
			return nil, 0, err
		}
		post.Tags = tags
	}

	return posts, total, nil
}

func (r *postRepository) CountByAuthor(authorID int, status string) (int, error) {
	var count int
	var err error
	if status != "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = ? AND status = ?`,
			authorID, status).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = ?`,
			authorID).Scan(&count)
	}
	return count, err
}

// IncrementViews 以相对更新递增浏览量，避免读-改-写竞争
func (r *postRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("递增浏览量失败", zap.Error(err), zap.Int("post_id", id))
	}
	return err
}

func (r *postRepository) IsLikedByUser(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM post_likes
            WHERE post_id = ? AND user_id = ?
        )
    `, postID, userID).Scan(&exists)
	return exists, err
}

func (r *postRepository) GetAuthorStats(authorID int) (*model.UserStats, error) {
	stats := &model.UserStats{}

	err := r.db.QueryRow(`
        SELECT COUNT(*), COALESCE(SUM(views), 0)
        FROM posts
        WHERE author_id = ?`, authorID).Scan(&stats.TotalPosts, &stats.TotalViews)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`
        SELECT COUNT(*)
        FROM post_likes pl
        JOIN posts p ON pl.post_id = p.id
        WHERE p.author_id = ?`, authorID).Scan(&stats.TotalLikes)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`
        SELECT COUNT(*)
        FROM comments c
        JOIN posts p ON c.post_id = p.id
        WHERE p.author_id = ?`, authorID).Scan(&stats.TotalComments)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
