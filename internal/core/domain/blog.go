package domain

import "time"

// Field bounds for blog content.
const (
	CategoryNameMaxLen = 30
	PostTitleMinLen    = 3
	PostTitleMaxLen    = 100
	PostContentMinLen  = 10
	CommentMaxLen      = 150
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UserID     int64     `json:"user_id"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostSummary is a post with its engagement counters.
type PostSummary struct {
	Post
	Author       string `json:"author"`
	CategoryName string `json:"category"`
	CommentCount int64  `json:"comment_count"`
	LikeCount    int64  `json:"like_count"`
	ViewCount    int64  `json:"view_count"`
}

// PostUpdate holds the fields a patch may change. Nil means unchanged.
type PostUpdate struct {
	Title      *string
	Content    *string
	CategoryID *int64
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Like struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLikes summarizes the likes on one post.
type PostLikes struct {
	PostID    int64  `json:"post_id"`
	LikeCount int64  `json:"like_count"`
	Likes     []Like `json:"likes"`
}

// View records one read of a post. UserID is nil for anonymous readers.
type View struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	PostID    int64     `json:"post_id"`
	IPAddress string    `json:"ip_address"`
	ViewedAt  time.Time `json:"view_at"`
}
