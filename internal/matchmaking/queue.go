package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
)

// QueueStore is the external storage behind the matching queue
type QueueStore interface {
	Enqueue(ctx context.Context, entry models.QueueEntry) error
	Dequeue(ctx context.Context, agentID string) (bool, error)
	ListQueue(ctx context.Context) ([]models.QueueEntry, error)
	ClearQueue(ctx context.Context) error
}

// Queue applies enqueue/dequeue policy over a QueueStore
type Queue struct {
	store  QueueStore
	now    func() time.Time
	logger *slog.Logger
}

// NewQueue wraps store; now defaults to time.Now
func NewQueue(store QueueStore, now func() time.Time, logger *slog.Logger) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{store: store, now: now, logger: logging.OrDefault(logger)}
}

// Enqueue upserts the agent's entry with a fresh join time
func (q *Queue) Enqueue(ctx context.Context, agentID string, score float64, isHuman bool) (models.QueueEntry, error) {
	entry := models.QueueEntry{AgentID: agentID, Score: score, IsHuman: isHuman, JoinTime: q.now()}
	if err := q.store.Enqueue(ctx, entry); err != nil {
		return models.QueueEntry{}, fmt.Errorf("enqueue %s: %w", agentID, err)
	}
	return entry, nil
}

// Dequeue removes an entry the caller expects to be present
func (q *Queue) Dequeue(ctx context.Context, agentID string) error {
	removed, err := q.store.Dequeue(ctx, agentID)
	if err != nil {
		return fmt.Errorf("dequeue %s: %w", agentID, err)
	}
	if !removed {
		return fmt.Errorf("dequeue %s: %w", agentID, ErrNotInQueue)
	}
	return nil
}

// DequeueTolerant removes an entry during rollback; a missing entry is only logged
func (q *Queue) DequeueTolerant(ctx context.Context, agentID string) error {
	removed, err := q.store.Dequeue(ctx, agentID)
	if err != nil {
		return fmt.Errorf("dequeue %s: %w", agentID, err)
	}
	if !removed {
		q.logger.Warn("rollback dequeue found no entry", "agent", agentID)
	}
	return nil
}

// List returns every entry in insertion order
func (q *Queue) List(ctx context.Context) ([]models.QueueEntry, error) {
	entries, err := q.store.ListQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return entries, nil
}

// Clear drops every entry
func (q *Queue) Clear(ctx context.Context) error {
	if err := q.store.ClearQueue(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// Info summarizes the queue
func (q *Queue) Info(ctx context.Context) (models.QueueInfo, error) {
	entries, err := q.List(ctx)
	if err != nil {
		return models.QueueInfo{}, err
	}
	info := models.QueueInfo{Count: len(entries), Items: make([]models.QueueInfoItem, 0, len(entries))}
	for _, e := range entries {
		info.Items = append(info.Items, models.QueueInfoItem{AgentID: e.AgentID, IsHuman: e.IsHuman})
	}
	return info, nil
}
