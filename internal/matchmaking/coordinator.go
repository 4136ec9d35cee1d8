// Package matchmaking pairs queued agents into game rooms.
//
// A Coordinator runs one periodic tick. Each tick tops up the queue with
// idle bots once the oldest waiter has waited too long, then hands the head
// of the queue to a RoomFactory. Ticks are single-flight: a tick that finds
// another one in progress skips, unless the other one has held the flag
// past LockTimeout, in which case it is treated as crashed.
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aaronzipp/sus-arena/internal/agentstate"
	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/store"
)

// Config holds the coordinator's timing and room-size settings
type Config struct {
	TickInterval      time.Duration
	LockTimeout       time.Duration
	MaxWait           time.Duration
	PlayersPerRoom    int
	MinPlayersToStart int
	SpyRatio          float64
}

// DefaultConfig returns the standard game settings
func DefaultConfig() Config {
	return Config{
		TickInterval:      game.TickInterval,
		LockTimeout:       game.LockTimeout,
		MaxWait:           game.MaxWait,
		PlayersPerRoom:    game.PlayersPerRoom,
		MinPlayersToStart: game.MinPlayersToStart,
		SpyRatio:          game.SpyRatio,
	}
}

// Deps are the collaborators a Coordinator works against
type Deps struct {
	States    *agentstate.Store
	Queue     QueueStore
	Directory AgentDirectory
	Sessions  SessionStore
	Words     []models.WordPair
	Now       func() time.Time
	Logger    *slog.Logger
}

// TickReport describes what one tick did
type TickReport struct {
	TickID    string
	Skipped   bool
	BotsAdded int
	Room      *models.GameSession
}

// Coordinator owns the matching loop and the agent-facing match operations
type Coordinator struct {
	cfg       Config
	states    *agentstate.Store
	queue     *Queue
	directory AgentDirectory
	factory   *RoomFactory
	now       func() time.Time
	logger    *slog.Logger

	mu         sync.Mutex
	inFlight   bool
	startedAt  time.Time
	generation uint64

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending sync.WaitGroup
}

// NewCoordinator wires a coordinator from cfg and deps
func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := logging.OrDefault(deps.Logger)
	queue := NewQueue(deps.Queue, now, logger.With("component", "queue"))
	return &Coordinator{
		cfg:       cfg,
		states:    deps.States,
		queue:     queue,
		directory: deps.Directory,
		factory:   NewRoomFactory(deps.States, queue, deps.Directory, deps.Sessions, deps.Words, cfg.SpyRatio, now, logger),
		now:       now,
		logger:    logger.With("component", "coordinator"),
	}
}

// StartMatching puts an idle agent into the queue
func (c *Coordinator) StartMatching(ctx context.Context, agentID string) error {
	profile, err := c.directory.GetAgentByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("start matching %s: %w", agentID, ErrAgentNotFound)
		}
		return fmt.Errorf("start matching %s: %w", agentID, err)
	}

	_, err = c.states.Update(agentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
		if cur.Status != models.AgentIdle {
			return nil, fmt.Errorf("start matching %s: %w (status %s)", agentID, ErrAlreadyMatching, cur.Status)
		}
		if _, err := c.queue.Enqueue(ctx, agentID, profile.Score, true); err != nil {
			return nil, err
		}
		return &agentstate.Change{Status: models.AgentInMatchingQueue}, nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("agent joined queue", "agent", agentID)
	return nil
}

// CancelMatching takes a queued agent out of the queue
func (c *Coordinator) CancelMatching(ctx context.Context, agentID string) error {
	_, err := c.states.Update(agentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
		if cur.Status != models.AgentInMatchingQueue {
			return nil, fmt.Errorf("cancel matching %s: %w (status %s)", agentID, ErrNotInQueue, cur.Status)
		}
		if err := c.queue.Dequeue(ctx, agentID); err != nil {
			return nil, err
		}
		return &agentstate.Change{Status: models.AgentIdle}, nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("agent left queue", "agent", agentID)
	return nil
}

// CheckStatus returns the agent's current match state
func (c *Coordinator) CheckStatus(agentID string) models.AgentMatchState {
	return c.states.Get(agentID)
}

// QueueInfo summarizes the queue
func (c *Coordinator) QueueInfo(ctx context.Context) (models.QueueInfo, error) {
	return c.queue.Info(ctx)
}

// ResetQueue empties the queue; used on startup before the loop runs
func (c *Coordinator) ResetQueue(ctx context.Context) error {
	return c.queue.Clear(ctx)
}

func (c *Coordinator) acquire(tickID string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.inFlight {
		held := now.Sub(c.startedAt)
		if held <= c.cfg.LockTimeout {
			c.logger.Debug("tick skipped, previous tick in flight", "tick", tickID, "held", held, "generation", c.generation)
			return 0, false
		}
		c.logger.Warn("self-heal: clearing stale matching lock",
			"tick", tickID,
			"held", held,
			"lock_started_at", c.startedAt,
			"now", now,
			"stale_generation", c.generation,
		)
	}
	c.generation++
	c.inFlight = true
	c.startedAt = now
	return c.generation, true
}

func (c *Coordinator) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.inFlight = false
	c.startedAt = time.Time{}
}

// Tick runs one matching pass
func (c *Coordinator) Tick(ctx context.Context) (TickReport, error) {
	report := TickReport{TickID: uuid.NewString()}
	gen, ok := c.acquire(report.TickID)
	if !ok {
		report.Skipped = true
		return report, nil
	}
	defer c.release(gen)

	err := c.tick(ctx, &report)
	if err != nil {
		c.mu.Lock()
		startedAt, inFlight := c.startedAt, c.inFlight
		c.mu.Unlock()
		c.logger.Error("matching tick failed",
			"tick", report.TickID,
			"generation", gen,
			"in_flight", inFlight,
			"lock_started_at", startedAt,
			"now", c.now(),
			"err", err,
		)
	}
	return report, err
}

func (c *Coordinator) tick(ctx context.Context, report *TickReport) error {
	entries, err := c.queue.List(ctx)
	if err != nil {
		return err
	}

	entries, report.BotsAdded, err = c.backfill(ctx, entries, report.TickID)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	if len(entries) < c.cfg.MinPlayersToStart {
		return nil
	}
	n := min(len(entries), c.cfg.PlayersPerRoom)
	session, err := c.factory.CreateRoom(ctx, entries[:n])
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	report.Room = session
	c.logger.Info("room formed", "tick", report.TickID, "room", session.RoomID, "players", n, "queued", len(entries))
	return nil
}

// backfill tops the queue up with idle directory agents once the first
// over-age entry is found. It runs at most once per tick.
func (c *Coordinator) backfill(ctx context.Context, entries []models.QueueEntry, tickID string) ([]models.QueueEntry, int, error) {
	now := c.now()
	overdue := false
	for _, e := range entries {
		if now.Sub(e.JoinTime) > c.cfg.MaxWait {
			overdue = true
			break
		}
	}
	if !overdue {
		return entries, 0, nil
	}
	shortfall := c.cfg.PlayersPerRoom - len(entries)
	if shortfall <= 0 {
		return entries, 0, nil
	}

	agents, err := c.directory.ListAgents(ctx)
	if err != nil {
		return entries, 0, fmt.Errorf("list agents: %w", err)
	}
	queued := make(map[string]bool, len(entries))
	for _, e := range entries {
		queued[e.AgentID] = true
	}
	var candidates []models.AgentProfile
	for _, a := range agents {
		if queued[a.AgentID] {
			continue
		}
		if c.states.Get(a.AgentID).Status != models.AgentIdle {
			continue
		}
		candidates = append(candidates, a)
	}
	if err := game.Shuffle(candidates); err != nil {
		return entries, 0, err
	}

	added := 0
	for _, a := range candidates {
		if added == shortfall {
			break
		}
		var entry models.QueueEntry
		_, err := c.states.Update(a.AgentID, func(cur models.AgentMatchState) (*agentstate.Change, error) {
			if cur.Status != models.AgentIdle {
				return nil, fmt.Errorf("%w (status %s)", ErrAlreadyMatching, cur.Status)
			}
			e, err := c.queue.Enqueue(ctx, a.AgentID, a.Score, false)
			if err != nil {
				return nil, err
			}
			entry = e
			return &agentstate.Change{Status: models.AgentInMatchingQueue}, nil
		})
		if err != nil {
			c.logger.Warn("backfill skipped agent", "tick", tickID, "agent", a.AgentID, "err", err)
			continue
		}
		entries = append(entries, entry)
		added++
	}
	if added > 0 {
		c.logger.Info("backfilled queue with bots", "tick", tickID, "added", added, "shortfall", shortfall)
	}
	return entries, added, nil
}

// Run ticks every TickInterval until ctx is done. Each tick runs in its own
// goroutine so a slow tick makes later ones hit the single-flight guard.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	tickCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pending.Add(1)
			go func() {
				defer c.pending.Done()
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("matching tick panicked", "panic", r)
					}
				}()
				_, _ = c.Tick(tickCtx)
			}()
		}
	}
}

// Start launches Run in the background. Calling Start twice is a no-op.
func (c *Coordinator) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		c.Run(ctx)
	}(c.done)
	c.logger.Info("matching service started", "interval", c.cfg.TickInterval)
}

// Stop halts the loop and waits for any in-flight tick to finish
func (c *Coordinator) Stop() {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.pending.Wait()
	c.logger.Info("matching service stopped")
}
