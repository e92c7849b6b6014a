package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/attendance/internal/badgerstore"
	"github.com/rpggio/attendance/internal/config"
	"github.com/rpggio/attendance/internal/repository"
	"github.com/rpggio/attendance/internal/sqlite"
)

// store bundles the repositories of one storage driver.
type store struct {
	documents repository.DocumentRepository
	activity  repository.ActivityRepository
	close     func() error
}

func (s *store) Close() error {
	return s.close()
}

func openStore(cfg config.StoreConfig, logger *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := ensureParentDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			documents: sqlite.NewDocumentRepository(db),
			activity:  sqlite.NewActivityRepository(db),
			close:     db.Close,
		}, nil
	case config.DriverBadger:
		if cfg.Path != "" && cfg.Path != sqlite.MemoryDSN {
			if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
				return nil, fmt.Errorf("prepare badger dir: %w", err)
			}
		}
		db, err := badgerstore.Open(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			documents: badgerstore.NewDocumentRepository(db),
			activity:  badgerstore.NewActivityRepository(db),
			close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func ensureParentDir(path string) error {
	if path == sqlite.MemoryDSN || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
