package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newDedup(t *testing.T, window time.Duration) (*ViewDeduplicator, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewDeduplicator(client, window), mr
}

func TestViewDeduplicator_FirstViewOnce(t *testing.T) {
	d, _ := newDedup(t, time.Hour)
	ctx := context.Background()

	first, err := d.FirstView(ctx, 1, "u:7")
	if err != nil || !first {
		t.Fatalf("expected first view, got %v, %v", first, err)
	}
	again, err := d.FirstView(ctx, 1, "u:7")
	if err != nil || again {
		t.Fatalf("expected repeat view to be suppressed, got %v, %v", again, err)
	}

	other, err := d.FirstView(ctx, 2, "u:7")
	if err != nil || !other {
		t.Fatalf("expected first view of another post, got %v, %v", other, err)
	}
	anon, err := d.FirstView(ctx, 1, "ip:10.0.0.1")
	if err != nil || !anon {
		t.Fatalf("expected first anonymous view, got %v, %v", anon, err)
	}
}

func TestViewDeduplicator_WindowExpires(t *testing.T) {
	d, mr := newDedup(t, time.Minute)
	ctx := context.Background()

	if _, err := d.FirstView(ctx, 1, "u:7"); err != nil {
		t.Fatalf("FirstView: %v", err)
	}
	mr.FastForward(time.Minute + time.Second)

	again, err := d.FirstView(ctx, 1, "u:7")
	if err != nil || !again {
		t.Fatalf("expected view to count after the window, got %v, %v", again, err)
	}
}

func TestViewDeduplicator_RedisDown(t *testing.T) {
	d, mr := newDedup(t, time.Minute)
	mr.Close()

	if _, err := d.FirstView(context.Background(), 1, "u:7"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}
