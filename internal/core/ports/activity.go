package ports

import (
	"context"

	"github.com/blogsphere/api/internal/core/domain"
)

// ActivitySink stores auth activity events.
type ActivitySink interface {
	Record(ctx context.Context, event domain.ActivityEvent) error
}

// ActivityPublisher hands events to the background writer. Publish must not
// block the caller.
type ActivityPublisher interface {
	Publish(event domain.ActivityEvent)
}
