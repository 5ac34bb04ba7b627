package mongo

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/blogsphere/api/internal/core/domain"
)

func TestActivityRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("record inserts one document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewActivityRepository(mt.DB)

		err := repo.Record(context.Background(), domain.ActivityEvent{
			Kind:     domain.ActivityLogin,
			Username: "alice",
			Success:  true,
		})
		if err != nil {
			t.Fatalf("Record returned error: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			t.Fatalf("expected insert command, got %+v", started)
		}
	})

	mt.Run("record surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key",
		}))
		repo := NewActivityRepository(mt.DB)

		if err := repo.Record(context.Background(), domain.ActivityEvent{Kind: domain.ActivityLogin, Username: "alice"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
