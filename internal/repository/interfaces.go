package repository

import (
	"context"

	"github.com/rpggio/attendance/internal/domain/activity"
)

// DocumentRepository stores whole documents under fixed keys
type DocumentRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
	PutAll(ctx context.Context, docs map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
