// Package sqlite is the persisted credstore driver. The credential lives in
// a single-row table so it survives process restarts; the optional cookie
// mirror is updated inside Save/Clear so the two credential views share one
// write path.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rankwise/dashboard/pkg/credstore"

	_ "modernc.org/sqlite"
)

// credentialRow is the fixed primary key of the single credential row.
const credentialRow = 1

type Store struct {
	db     *sql.DB
	dsn    string
	mirror credstore.Mirror
}

// New opens (creating if needed) the credential database at dsn. mirror may
// be nil for contexts that have no cookie view, e.g. tests.
func New(dsn string, mirror credstore.Mirror) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Serialize writers instead of surfacing SQLITE_BUSY, and keep readers
	// unblocked during credential writes.
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{db: db, dsn: dsn, mirror: mirror}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Load(ctx context.Context) (credstore.Credential, error) {
	var cred credstore.Credential
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token FROM credentials WHERE id = ?`,
		credentialRow,
	).Scan(&cred.AccessToken, &cred.RefreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return credstore.Credential{}, credstore.ErrNoCredential
	}
	if err != nil {
		return credstore.Credential{}, err
	}
	return cred, nil
}

func (s *Store) Save(ctx context.Context, cred credstore.Credential) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (id, access_token, refresh_token, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   updated_at = excluded.updated_at`,
		credentialRow, cred.AccessToken, cred.RefreshToken, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if s.mirror != nil {
		s.mirror.Set(cred.AccessToken)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE id = ?`, credentialRow,
	); err != nil {
		return err
	}
	if s.mirror != nil {
		s.mirror.Clear()
	}
	return nil
}
