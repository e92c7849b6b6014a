package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/attendance/internal/repository"
)

// DocumentRepository implements repository.DocumentRepository for SQLite
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const upsertDocument = `
	INSERT INTO documents (key, body, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
		body = excluded.body,
		updated_at = excluded.updated_at
`

// Get returns the document stored under key
func (r *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return body, nil
}

// Put stores a single document
func (r *DocumentRepository) Put(ctx context.Context, key string, body []byte) error {
	if key == "" {
		return repository.ErrInvalidInput
	}
	if _, err := r.db.ExecContext(ctx, upsertDocument, key, body); err != nil {
		return fmt.Errorf("failed to put document %s: %w", key, err)
	}
	return nil
}

// PutAll stores several documents in one transaction
func (r *DocumentRepository) PutAll(ctx context.Context, docs map[string][]byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, body := range docs {
		if key == "" {
			return repository.ErrInvalidInput
		}
		if _, err := tx.ExecContext(ctx, upsertDocument, key, body); err != nil {
			return fmt.Errorf("failed to put document %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}
	return nil
}

// Delete removes a document. Deleting a missing key is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}
