package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artbook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artbook/internal/dbx"
)

const (
	// TokenKey is the single well-known metadata key of the credential.
	TokenKey = "token"
	// SetAtKey records when the credential was stored (RFC 3339, UTC).
	SetAtKey = "token_set_at"
)

// SQLiteStore persists the credential in the metadata table.
type SQLiteStore struct {
	db    *sql.DB
	cache cache
	now   func() time.Time
}

// Open restores a previously stored credential, if any, from db.
func Open(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, now: time.Now}

	repo := metadata.NewSQLiteRepository(db)
	token, _, err := repo.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	raw, _, err := repo.Get(ctx, SetAtKey)
	if err != nil {
		return nil, fmt.Errorf("load token timestamp: %w", err)
	}

	var setAt time.Time
	if raw != "" {
		if setAt, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, fmt.Errorf("parse token timestamp: %w", err)
		}
	}
	s.cache.put(token, setAt)
	return s, nil
}

func (s *SQLiteStore) Get() (string, bool) {
	return s.cache.get()
}

// SetAt reports when the current credential was stored. Zero when none is held.
func (s *SQLiteStore) SetAt() time.Time {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()
	return s.cache.setAt
}

// Set persists token; the in-memory copy only changes when the write succeeds.
func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	setAt := s.now().UTC().Truncate(time.Second)

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, SetAtKey, setAt.Format(time.RFC3339))
	})
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.cache.put(token, setAt)
	return nil
}

// Clear drops the in-memory credential unconditionally, then removes the
// persisted copy.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.cache.put("", time.Time{})

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, SetAtKey)
	})
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
