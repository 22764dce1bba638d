// Package sqlite implements the persistence ports on a local SQLite
// file. It is the default durable backend in local mode.
//
// Store is safe for concurrent use. The underlying sql.DB handles
// connection pooling; individual operations are single statements or
// transactions and therefore atomic.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inesrocha/temper/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and applies
// the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating sqlite schema: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		turn_index INTEGER NOT NULL,
		speaker TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		analysis TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, turn_index);

	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		assessment TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_session ON assessments(session_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS opponent_models (
		session_id TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(session.ID), string(session.UserID), session.Name, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		var exists bool
		if s.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)", string(session.ID),
		).Scan(&exists) == nil && exists {
			return domain.ErrSessionExists
		}
		return err
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?
	`, session.Name, session.UpdatedAt, string(session.ID))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM sessions WHERE id = ?
	`, string(id)).Scan(&session.ID, &session.UserID, &session.Name, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM sessions WHERE user_id = ?
		ORDER BY created_at DESC
	`
	args := []any{string(userID)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.Name, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (s *Store) AppendTurn(ctx context.Context, turn *domain.Turn) error {
	analysis, err := json.Marshal(turn.Analysis)
	if err != nil {
		return fmt.Errorf("encoding turn analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO turns (id, session_id, turn_index, speaker, text, created_at, analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(turn.ID), string(turn.SessionID), turn.Index, string(turn.Speaker), turn.Text, turn.CreatedAt, string(analysis))
	return err
}

func (s *Store) TurnsBySession(ctx context.Context, sessionID domain.SessionID) ([]*domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, turn_index, speaker, text, created_at, analysis
		FROM turns WHERE session_id = ?
		ORDER BY turn_index
	`, string(sessionID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var analysis string
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Index, &turn.Speaker, &turn.Text, &turn.CreatedAt, &analysis); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(analysis), &turn.Analysis); err != nil {
			return nil, fmt.Errorf("decoding turn analysis: %w", err)
		}
		turns = append(turns, &turn)
	}
	return turns, rows.Err()
}

func (s *Store) CountTurns(ctx context.Context, sessionID domain.SessionID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM turns WHERE session_id = ?", string(sessionID),
	).Scan(&count)
	return count, err
}

func (s *Store) SaveAssessment(ctx context.Context, a *domain.SessionAssessment) error {
	assessment, err := json.Marshal(a.Assessment)
	if err != nil {
		return fmt.Errorf("encoding assessment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessments (id, session_id, created_at, assessment)
		VALUES (?, ?, ?, ?)
	`, string(a.ID), string(a.SessionID), a.CreatedAt, string(assessment))
	return err
}

func (s *Store) LatestAssessment(ctx context.Context, sessionID domain.SessionID) (*domain.SessionAssessment, error) {
	var snapshot domain.SessionAssessment
	var assessment string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, created_at, assessment
		FROM assessments WHERE session_id = ?
		ORDER BY created_at DESC LIMIT 1
	`, string(sessionID)).Scan(&snapshot.ID, &snapshot.SessionID, &snapshot.CreatedAt, &assessment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(assessment), &snapshot.Assessment); err != nil {
		return nil, fmt.Errorf("decoding assessment: %w", err)
	}
	return &snapshot, nil
}

func (s *Store) SaveOpponentProfile(ctx context.Context, sessionID domain.SessionID, p *domain.OpponentProfile) error {
	profile, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding opponent profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO opponent_models (session_id, profile)
		VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET profile = excluded.profile
	`, string(sessionID), string(profile))
	return err
}

func (s *Store) GetOpponentProfile(ctx context.Context, sessionID domain.SessionID) (*domain.OpponentProfile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT profile FROM opponent_models WHERE session_id = ?", string(sessionID),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var profile domain.OpponentProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decoding opponent profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
