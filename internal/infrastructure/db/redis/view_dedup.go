package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewWindow = time.Hour

// ViewDeduplicator suppresses repeated views of a post by the same reader.
// Key format: views:<post_id>:<viewer_key>
type ViewDeduplicator struct {
	client *redis.Client
	window time.Duration
}

// NewViewDeduplicator creates a ViewDeduplicator wrapping the given Redis
// client. A reader counts once per window.
func NewViewDeduplicator(client *redis.Client, window time.Duration) *ViewDeduplicator {
	if window <= 0 {
		window = defaultViewWindow
	}
	return &ViewDeduplicator{client: client, window: window}
}

// FirstView reports whether viewerKey has not read postID within the window,
// and marks it as seen.
func (d *ViewDeduplicator) FirstView(ctx context.Context, postID int64, viewerKey string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(postID, viewerKey), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup: %w", err)
	}
	return ok, nil
}

func (d *ViewDeduplicator) key(postID int64, viewerKey string) string {
	return fmt.Sprintf("views:%d:%s", postID, viewerKey)
}
