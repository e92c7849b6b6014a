package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rpggio/attendance/internal/repository"
)

// DocumentRepository implements repository.DocumentRepository on Badger.
type DocumentRepository struct {
	db *badger.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *badger.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Get(_ context.Context, key string) ([]byte, error) {
	var body []byte
	if err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey(key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return body, nil
}

func (r *DocumentRepository) Put(ctx context.Context, key string, body []byte) error {
	return r.PutAll(ctx, map[string][]byte{key: body})
}

// PutAll stores several documents in one transaction.
func (r *DocumentRepository) PutAll(_ context.Context, docs map[string][]byte) error {
	for key := range docs {
		if key == "" {
			return repository.ErrInvalidInput
		}
	}
	if err := r.db.Update(func(txn *badger.Txn) error {
		for key, body := range docs {
			if err := txn.Set(documentKey(key), body); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to put documents: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(_ context.Context, key string) error {
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(documentKey(key))
	}); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

func documentKey(key string) []byte {
	return []byte(fmt.Sprintf("documents/%s", key))
}
