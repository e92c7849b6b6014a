package badgerstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rpggio/attendance/internal/domain/activity"
)

var (
	activityPrefix = []byte("activity/")
	sequenceKey    = []byte("meta/activity_seq")
)

const maxConflictRetries = 3

// ActivityRepository implements repository.ActivityRepository on Badger.
// Entries are keyed by a monotonically increasing id.
type ActivityRepository struct {
	db *badger.DB
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *badger.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an entry and assigns its id.
func (r *ActivityRepository) Log(_ context.Context, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var err error
	for range maxConflictRetries {
		err = r.db.Update(func(txn *badger.Txn) error {
			id, err := nextID(txn)
			if err != nil {
				return err
			}
			stored := *entry
			stored.ID = id
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}
			if err := txn.Set(activityKey(id), data); err != nil {
				return err
			}
			entry.ID = id
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// List returns matching entries newest first.
func (r *ActivityRepository) List(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	entries := []activity.Entry{}
	skipped := 0
	if err := r.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Reverse = true
		it := txn.NewIterator(itOpts)
		defer it.Close()

		seek := append(append([]byte{}, activityPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(activityPrefix); it.Next() {
			var entry activity.Entry
			if err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &entry)
			}); err != nil {
				return err
			}
			if !opts.Matches(entry) {
				continue
			}
			if skipped < opts.Offset {
				skipped++
				continue
			}
			entries = append(entries, entry)
			if opts.Limit > 0 && len(entries) >= opts.Limit {
				return nil
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

func nextID(txn *badger.Txn) (int64, error) {
	var last uint64
	item, err := txn.Get(sequenceKey)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(value []byte) error {
			if len(value) != 8 {
				return fmt.Errorf("corrupt activity sequence")
			}
			last = binary.BigEndian.Uint64(value)
			return nil
		}); err != nil {
			return 0, err
		}
	}

	next := last + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := txn.Set(sequenceKey, buf); err != nil {
		return 0, err
	}
	return int64(next), nil
}

func activityKey(id int64) []byte {
	return []byte(fmt.Sprintf("activity/%020d", id))
}
