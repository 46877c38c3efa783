package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/model"
	"github.com/enryu8191/Creator-Bot/tracker"
)

const dbDriver = "sqlite3"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store keeps one row per guild: the whole session record as a JSON blob.
// The tracker owns the schema's meaning; this layer only moves records.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path and ensures the
// sessions table exists.
func New(path string) (*Store, error) {
	conn, err := sql.Open(dbDriver, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	createSessionsTableSQL := `
	CREATE TABLE IF NOT EXISTS guild_sessions (
		guild_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := conn.Exec(createSessionsTableSQL); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to create guild_sessions table")
	}

	logrus.WithField("path", path).Info("session database ready")
	return &Store{db: conn}, nil
}

// Load fetches the guild's session record. A guild with no record yet
// returns (nil, nil); the tracker creates state lazily.
func (s *Store) Load(ctx context.Context, guildID string) (*model.GuildSession, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM guild_sessions WHERE guild_id = ?", guildID).Scan(&blob)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err, "load session")
	}

	var session model.GuildSession
	if err := json.UnmarshalFromString(blob, &session); err != nil {
		// A record we cannot decode is not transient; surface it so the
		// tracker can refuse the guild rather than guess.
		return nil, errors.Wrap(err, "failed to decode session record")
	}
	return &session, nil
}

// Save upserts the guild's session record atomically in one statement.
func (s *Store) Save(ctx context.Context, guildID string, session *model.GuildSession) error {
	blob, err := json.MarshalToString(session)
	if err != nil {
		return errors.Wrap(err, "failed to encode session record")
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO guild_sessions (guild_id, state, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(guild_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		guildID, blob, time.Now().Unix())
	if err != nil {
		return storeErr(err, "save session")
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// storeErr maps driver failures onto the tracker's transient error taxonomy
// so the command surface can decide what is worth retrying.
func storeErr(err error, op string) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(tracker.ErrStoreTimeout, op)
	}
	return errors.Wrapf(tracker.ErrStoreUnavailable, "%s: %v", op, err)
}
