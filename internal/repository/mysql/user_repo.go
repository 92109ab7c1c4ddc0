package mysql

import (
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (name, email, password_hash, avatar_url, bio, theme, language, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.Exec(query,
		user.Name, user.Email, user.PasswordHash,
		user.AvatarURL, user.Bio, user.Theme, user.Language)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			util.Logger.Warn("创建用户失败，邮箱已存在", zap.String("email", user.Email))
			return err
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)

	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, avatar_url, bio, theme, language,
               follower_count, following_count, email_verified,
               created_at, updated_at, deleted_at
        FROM users
        WHERE id = ? AND deleted_at IS NULL`

	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, avatar_url, bio, theme, language,
               follower_count, following_count, email_verified,
               created_at, updated_at, deleted_at
        FROM users
        WHERE email = ? AND deleted_at IS NULL`

	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.Bio, &user.Theme, &user.Language,
		&user.FollowerCount, &user.FollowingCount, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users
	          SET name = ?, password_hash = ?, avatar_url = ?, bio = ?,
	              theme = ?, language = ?, email_verified = ?, deleted_at = ?,
	              updated_at = NOW()
	          WHERE id = ?`

	_, err := r.db.Exec(query,
		user.Name, user.PasswordHash, user.AvatarURL, user.Bio,
		user.Theme, user.Language, user.EmailVerified, user.DeletedAt,
		user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}
	return nil
}

func (r *userRepository) Search(query string, limit int) ([]*model.UserSummary, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(`
        SELECT id, name, avatar_url, bio
        FROM users
        WHERE deleted_at IS NULL AND (name LIKE ? OR email LIKE ?)
        ORDER BY name ASC
        LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		util.Logger.Error("搜索用户失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*model.UserSummary
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Bio); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
