package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogsphere/api/internal/core/domain"
)

type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, userID, postID int64) (*domain.Like, error) {
	like := &domain.Like{UserID: userID, PostID: postID, CreatedAt: time.Now().UTC()}
	res, err := r.db.ExecContext(ctx, `INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
		like.UserID, like.PostID, like.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.ErrAlreadyLiked
		case isForeignKeyViolation(err):
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("like last insert id: %w", err)
	}
	like.ID = id
	return like, nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return requireRow(res, domain.ErrLikeNotFound)
}

func (r *LikeRepository) ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Like, int64, error) {
	return r.list(ctx, `post_id = ?`, postID, page)
}

func (r *LikeRepository) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Like, int64, error) {
	return r.list(ctx, `user_id = ?`, userID, page)
}

func (r *LikeRepository) list(ctx context.Context, where string, arg int64, page domain.Page) ([]domain.Like, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count likes: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, post_id, created_at FROM likes WHERE `+where+
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, arg, page.Limit, page.Skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var out []domain.Like
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan like: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate likes: %w", err)
	}
	return out, total, nil
}
