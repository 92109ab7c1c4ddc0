package mysql

import (
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
        c.id, c.author_id, c.post_id, c.parent_id, c.content,
        c.edited, c.edited_at, c.created_at, c.updated_at,
        u.name, u.avatar_url,
        (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id)`

func (r *commentRepository) Create(comment *model.Comment) error {
	query := `INSERT INTO comments
	          (author_id, post_id, parent_id, content, created_at, updated_at)
	          VALUES (?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.Exec(query,
		comment.AuthorID, comment.PostID, comment.ParentID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Any("comment", comment))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)

	util.Logger.Info("评论创建成功",
		zap.Int("comment_id", comment.ID),
		zap.Any("parent_id", comment.ParentID))
	return nil
}

func (r *commentRepository) FindByID(id int) (*model.Comment, error) {
	query := `
        SELECT ` + commentColumns + `
        FROM comments c
        JOIN users u ON c.author_id = u.id
        WHERE c.id = ?`

	var comment model.Comment
	var author model.UserSummary
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.AuthorID, &comment.PostID, &comment.ParentID,
		&comment.Content, &comment.Edited, &comment.EditedAt,
		&comment.CreatedAt, &comment.UpdatedAt,
		&author.Name, &author.AvatarURL,
		&comment.LikeCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	author.ID = comment.AuthorID
	comment.Author = &author
	return &comment, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	query := `UPDATE comments
	          SET content = ?, edited = ?, edited_at = ?, updated_at = NOW()
	          WHERE id = ?`
	_, err := r.db.Exec(query, comment.Content, comment.Edited, comment.EditedAt, comment.ID)
	if err != nil {
		util.Logger.Error("更新评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
	}
	return err
}

func (r *commentRepository) Delete(id int) error {
	util.Logger.Info("开始删除评论", zap.Int("comment_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 先删回复及其点赞，再删评论本身
	for _, query := range []string{
		`DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE parent_id = ?)`,
		`DELETE FROM comments WHERE parent_id = ?`,
		`DELETE FROM comment_likes WHERE comment_id = ?`,
		`DELETE FROM comments WHERE id = ?`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("评论删除成功", zap.Int("comment_id", id))
	return nil
}

func (r *commentRepository) ListByPost(postID int) ([]*model.Comment, error) {
	query := `
        SELECT ` + commentColumns + `
        FROM comments c
        JOIN users u ON c.author_id = u.id
        WHERE c.post_id = ?
        ORDER BY c.created_at DESC, c.id DESC`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var author model.UserSummary
		err := rows.Scan(
			&comment.ID, &comment.AuthorID, &comment.PostID, &comment.ParentID,
			&comment.Content, &comment.Edited, &comment.EditedAt,
			&comment.CreatedAt, &comment.UpdatedAt,
			&author.Name, &author.AvatarURL,
			&comment.LikeCount,
		)
		if err != nil {
			return nil, err
		}
		author.ID = comment.AuthorID
		comment.Author = &author
		all = append(all, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 组装两层结构：回复按时间正序挂到顶层评论上
	byID := make(map[int]*model.Comment, len(all))
	var topLevel []*model.Comment
	for _, c := range all {
		if c.ParentID == nil {
			byID[c.ID] = c
			topLevel = append(topLevel, c)
		}
	}
	for i := len(all) - 1; i >= 0; i-- {
		c := all[i]
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}

	return topLevel, nil
}

func (r *commentRepository) ListByAuthor(authorID, page, limit int) ([]*model.Comment, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE author_id = ?`, authorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query := `
        SELECT ` + commentColumns + `
        FROM comments c
        JOIN users u ON c.author_id = u.id
        WHERE c.author_id = ?
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, authorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var author model.UserSummary
		err := rows.Scan(
			&comment.ID, &comment.AuthorID, &comment.PostID, &comment.ParentID,
			&comment.Content, &comment.Edited, &comment.EditedAt,
			&comment.CreatedAt, &comment.UpdatedAt,
			&author.Name, &author.AvatarURL,
			&comment.LikeCount,
		)
		if err != nil {
			return nil, 0, err
		}
		author.ID = comment.AuthorID
		comment.Author = &author
		comments = append(comments, &comment)
	}

	return comments, total, rows.Err()
}

func (r *commentRepository) CountByPost(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}
