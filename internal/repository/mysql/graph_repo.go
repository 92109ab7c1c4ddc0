package mysql

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

type graphRepository struct {
	db *sql.DB
}

func NewGraphRepository(db *sql.DB) *graphRepository {
	return &graphRepository{db: db}
}

func (r *graphRepository) EdgeExists(followerID, followedID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM follows
            WHERE follower_id = ? AND followed_id = ?
        )
    `, followerID, followedID).Scan(&exists)
	return exists, err
}

// CreateEdge 插入关注边并更新两侧的反范式化计数。
// 三个写操作在同一事务中，边上的唯一索引兜底重复关注。
func (r *graphRepository) CreateEdge(followerID, followedID int) error {
	util.Logger.Info("开始创建关注",
		zap.Int("follower_id", followerID),
		zap.Int("followed_id", followedID))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, NOW())`,
		followerID, followedID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return errors.Wrap(errors.ErrResourceConflict, "已经关注过该用户", err)
		}
		util.Logger.Error("创建关注失败", zap.Error(err))
		return err
	}

	if _, err := tx.Exec(`UPDATE users SET following_count = following_count + 1 WHERE id = ?`, followerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE users SET follower_count = follower_count + 1 WHERE id = ?`, followedID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交关注事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("关注创建成功")
	return nil
}

// DeleteEdge 删除关注边并回退两侧计数，同样在一个事务中
func (r *graphRepository) DeleteEdge(followerID, followedID int) error {
	util.Logger.Info("开始删除关注",
		zap.Int("follower_id", followerID),
		zap.Int("followed_id", followedID))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
	if err != nil {
		util.Logger.Error("删除关注失败", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// 边不存在，计数不动
		return tx.Commit()
	}

	if _, err := tx.Exec(`UPDATE users SET following_count = following_count - 1 WHERE id = ? AND following_count > 0`, followerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE users SET follower_count = follower_count - 1 WHERE id = ? AND follower_count > 0`, followedID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交取消关注事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("关注删除成功")
	return nil
}

func (r *graphRepository) GetFollowers(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT follower_count FROM users WHERE id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.name, u.avatar_url, u.bio
        FROM users u
        JOIN follows f ON u.id = f.follower_id
        WHERE f.followed_id = ?
        ORDER BY f.created_at DESC, f.id DESC
        LIMIT ? OFFSET ?`

	return r.queryUsers(query, userID, pageSize, offset, total)
}

func (r *graphRepository) GetFollowing(userID, page, pageSize int) ([]*model.UserSummary, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT following_count FROM users WHERE id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.name, u.avatar_url, u.bio
        FROM users u
        JOIN follows f ON u.id = f.followed_id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC, f.id DESC
        LIMIT ? OFFSET ?`

	return r.queryUsers(query, userID, pageSize, offset, total)
}

func (r *graphRepository) queryUsers(query string, userID, pageSize, offset, total int) ([]*model.UserSummary, int, error) {
	rows, err := r.db.Query(query, userID, pageSize, offset)
	if err != nil {
		util.Logger.Error("查询关注关系失败", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var users []*model.UserSummary
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Bio); err != nil {
			return nil, 0, err
		}
		users = append(users, &u)
	}
	return users, total, rows.Err()
}

func (r *graphRepository) GetFollowingIDs(userID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT followed_id FROM follows WHERE follower_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
