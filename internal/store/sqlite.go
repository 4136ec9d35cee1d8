package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aaronzipp/sus-arena/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS agents (
	agent_id   TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	score      REAL NOT NULL DEFAULT 0,
	win_count  INTEGER NOT NULL DEFAULT 0,
	game_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS matching_queue (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id  TEXT NOT NULL UNIQUE,
	score     REAL NOT NULL,
	is_human  INTEGER NOT NULL,
	join_time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_sessions (
	room_id       TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	current_round INTEGER NOT NULL,
	body          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_results (
	room_id     TEXT PRIMARY KEY,
	scores      TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);
`

// SQLiteStore persists sessions, the queue and agents in SQLite
type SQLiteStore struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (creating if needed) a SQLite store at path and applies the schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	sqlDB, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cleanPath, err)
	}
	// One connection keeps the pragmas below in force for every statement.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", cleanPath, err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA synchronous=NORMAL"} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s on %s: %w", pragma, cleanPath, err)
		}
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// SaveSession upserts the full session document
func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.GameSession) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if session == nil || strings.TrimSpace(session.RoomID) == "" {
		return fmt.Errorf("room id is required")
	}
	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.RoomID, err)
	}
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO game_sessions (room_id, status, current_round, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(room_id) DO UPDATE SET
		   status = excluded.status,
		   current_round = excluded.current_round,
		   body = excluded.body,
		   updated_at = excluded.updated_at`,
		session.RoomID, string(session.Status), session.CurrentRound, string(body),
		toMillis(createdAt), toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.RoomID, err)
	}
	return nil
}

// LoadSession reads the session document for roomID
func (s *SQLiteStore) LoadSession(ctx context.Context, roomID string) (*models.GameSession, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM game_sessions WHERE room_id = ?`, roomID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", roomID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", roomID, err)
	}
	var session models.GameSession
	if err := json.Unmarshal([]byte(body), &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", roomID, err)
	}
	return &session, nil
}

// DeleteSession removes a session row if present
func (s *SQLiteStore) DeleteSession(ctx context.Context, roomID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM game_sessions WHERE room_id = ?`, roomID); err != nil {
		return fmt.Errorf("delete session %s: %w", roomID, err)
	}
	return nil
}

// Enqueue replaces any entry for the agent with a fresh one at the back of the queue
func (s *SQLiteStore) Enqueue(ctx context.Context, entry models.QueueEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enqueue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matching_queue WHERE agent_id = ?`, entry.AgentID); err != nil {
		return fmt.Errorf("enqueue %s: clear previous entry: %w", entry.AgentID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matching_queue (agent_id, score, is_human, join_time) VALUES (?, ?, ?, ?)`,
		entry.AgentID, entry.Score, entry.IsHuman, toMillis(entry.JoinTime),
	); err != nil {
		return fmt.Errorf("enqueue %s: %w", entry.AgentID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enqueue %s: %w", entry.AgentID, err)
	}
	return nil
}

// Dequeue deletes the agent's entry if present and reports whether one was removed
func (s *SQLiteStore) Dequeue(ctx context.Context, agentID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM matching_queue WHERE agent_id = ?`, agentID)
	if err != nil {
		return false, fmt.Errorf("dequeue %s: %w", agentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("dequeue %s: rows affected: %w", agentID, err)
	}
	return n > 0, nil
}

// ListQueue returns the queue in insertion order
func (s *SQLiteStore) ListQueue(ctx context.Context) ([]models.QueueEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT agent_id, score, is_human, join_time FROM matching_queue ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		var (
			e        models.QueueEntry
			joinTime int64
		)
		if err := rows.Scan(&e.AgentID, &e.Score, &e.IsHuman, &joinTime); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		e.JoinTime = fromMillis(joinTime)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue: %w", err)
	}
	return entries, nil
}

// ClearQueue removes every queue entry
func (s *SQLiteStore) ClearQueue(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM matching_queue`); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// SaveAgent creates or updates an agent profile
func (s *SQLiteStore) SaveAgent(ctx context.Context, agent models.AgentProfile) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(agent.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	now := toMillis(s.now())
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO agents (agent_id, name, avatar, score, win_count, game_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(agent_id) DO UPDATE SET
		   name = excluded.name,
		   avatar = excluded.avatar,
		   score = excluded.score,
		   win_count = excluded.win_count,
		   game_count = excluded.game_count,
		   updated_at = excluded.updated_at`,
		agent.AgentID, agent.Name, agent.Avatar, agent.Score, agent.WinCount, agent.GameCount, now, now,
	)
	if err != nil {
		return fmt.Errorf("save agent %s: %w", agent.AgentID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (models.AgentProfile, error) {
	var a models.AgentProfile
	err := row.Scan(&a.AgentID, &a.Name, &a.Avatar, &a.Score, &a.WinCount, &a.GameCount)
	return a, err
}

// GetAgentByID retrieves an agent profile
func (s *SQLiteStore) GetAgentByID(ctx context.Context, agentID string) (models.AgentProfile, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgentProfile{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT agent_id, name, avatar, score, win_count, game_count FROM agents WHERE agent_id = ?`, agentID)
	agent, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AgentProfile{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if err != nil {
		return models.AgentProfile{}, fmt.Errorf("get agent %s: %w", agentID, err)
	}
	return agent, nil
}

// ListAgents returns every agent in creation order
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]models.AgentProfile, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT agent_id, name, avatar, score, win_count, game_count FROM agents ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []models.AgentProfile
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, nil
}

// RecordResult credits a finished game to every player's profile in one
// transaction. A room is credited once; later calls return its stored scores.
func (s *SQLiteStore) RecordResult(ctx context.Context, roomID string, players, winners []models.Player) ([]models.PlayerScore, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	won := winnerSet(winners)
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record result: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var recorded string
	err = tx.QueryRowContext(ctx, `SELECT scores FROM game_results WHERE room_id = ?`, roomID).Scan(&recorded)
	switch {
	case err == nil:
		var scores []models.PlayerScore
		if err := json.Unmarshal([]byte(recorded), &scores); err != nil {
			return nil, fmt.Errorf("decode result for room %s: %w", roomID, err)
		}
		return scores, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("record result for room %s: %w", roomID, err)
	}

	now := toMillis(s.now())
	scores := make([]models.PlayerScore, 0, len(players))
	for _, p := range players {
		row := tx.QueryRowContext(ctx,
			`SELECT agent_id, name, avatar, score, win_count, game_count FROM agents WHERE agent_id = ?`, p.AgentID)
		profile, err := scanAgent(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record result for room %s: agent %s: %w", roomID, p.AgentID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("record result for room %s: %w", roomID, err)
		}
		updated, score := settle(profile, won[p.AgentID])
		if _, err := tx.ExecContext(ctx,
			`UPDATE agents SET score = ?, win_count = ?, game_count = ?, updated_at = ? WHERE agent_id = ?`,
			updated.Score, updated.WinCount, updated.GameCount, now, updated.AgentID,
		); err != nil {
			return nil, fmt.Errorf("record result for room %s: update %s: %w", roomID, p.AgentID, err)
		}
		scores = append(scores, score)
	}
	body, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("encode result for room %s: %w", roomID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_results (room_id, scores, recorded_at) VALUES (?, ?, ?)`, roomID, string(body), now,
	); err != nil {
		return nil, fmt.Errorf("record result for room %s: %w", roomID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record result: %w", err)
	}
	return scores, nil
}
