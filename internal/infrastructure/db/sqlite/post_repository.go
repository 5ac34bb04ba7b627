package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

const postSummarySelect = `
SELECT p.id, p.title, p.content, p.user_id, p.category_id, p.created_at, p.updated_at,
	u.username, c.name,
	(SELECT COUNT(*) FROM comments WHERE post_id = p.id),
	(SELECT COUNT(*) FROM likes WHERE post_id = p.id),
	(SELECT COUNT(*) FROM views WHERE post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.user_id
JOIN categories c ON c.id = p.category_id`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, content, user_id, category_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.UserID,
		post.CategoryID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return postWriteErr(err, "insert post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, content, user_id, category_id, created_at, updated_at
FROM posts WHERE id = ?`, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.UserID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) Summary(ctx context.Context, id int64) (*domain.PostSummary, error) {
	row := r.db.QueryRowContext(ctx, postSummarySelect+` WHERE p.id = ?`, id)
	s, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns the posts matching filter, newest first, with the total
// number of matches.
func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]domain.PostSummary, int64, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != 0 {
		where = append(where, "p.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.UserID != 0 {
		where = append(where, "p.user_id = ?")
		args = append(args, filter.UserID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := postSummarySelect + clause + ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Page.Limit, filter.Page.Skip)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []domain.PostSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return out, total, nil
}

func (r *PostRepository) Update(ctx context.Context, id int64, patch domain.PostUpdate) (*domain.Post, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.CategoryID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, postWriteErr(err, "update post")
	}
	if err := requireRow(res, domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes the post with its comments, likes and views.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireRow(res, domain.ErrPostNotFound)
}

func postWriteErr(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrPostTitleTaken
	case isForeignKeyViolation(err):
		return domain.ErrCategoryNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanSummary(row rowScanner) (*domain.PostSummary, error) {
	var s domain.PostSummary
	err := row.Scan(
		&s.ID, &s.Title, &s.Content, &s.UserID, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt,
		&s.Author, &s.CategoryName,
		&s.CommentCount, &s.LikeCount, &s.ViewCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post summary: %w", err)
	}
	return &s, nil
}
