package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blogsphere/api/internal/core/domain"
)

const commentColumns = `id, content, user_id, post_id, created_at`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO comments (content, user_id, post_id, created_at)
VALUES (?, ?, ?, ?)`,
		c.Content, c.UserID, c.PostID, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("comment last insert id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	return c, err
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Comment, error) {
	return r.list(ctx, `post_id = ?`, postID, page)
}

func (r *CommentRepository) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Comment, error) {
	return r.list(ctx, `user_id = ?`, userID, page)
}

func (r *CommentRepository) list(ctx context.Context, where string, arg int64, page domain.Page) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE `+where+
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, arg, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if err := requireRow(res, domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireRow(res, domain.ErrCommentNotFound)
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.UserID, &c.PostID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}
