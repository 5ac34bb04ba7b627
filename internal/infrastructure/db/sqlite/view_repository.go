package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogsphere/api/internal/core/domain"
)

type ViewRepository struct {
	db *sql.DB
}

func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func (r *ViewRepository) Record(ctx context.Context, v *domain.View) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO views (user_id, post_id, ip_address, viewed_at) VALUES (?, ?, ?, ?)`,
		v.UserID, v.PostID, v.IPAddress, v.ViewedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("insert view: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("view last insert id: %w", err)
	}
	v.ID = id
	return nil
}

func (r *ViewRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM views WHERE post_id = ?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return n, nil
}
