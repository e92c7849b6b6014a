package tracker

import (
	"context"

	"github.com/rpggio/attendance/internal/domain/activity"
)

// DocumentRepository provides persistence for the tracker documents.
type DocumentRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, docs map[string][]byte) error
}

// ActivityLogger records tracker changes.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.Entry) error
}
