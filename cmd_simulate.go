package main

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaronzipp/sus-arena/internal/arena"
	"github.com/aaronzipp/sus-arena/internal/bots"
	"github.com/aaronzipp/sus-arena/internal/render"
)

// simClock is a wall clock that can be pushed forward so queued
// agents count as having waited long enough for backfill.
type simClock struct {
	mu     sync.Mutex
	offset time.Duration
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

func (c *simClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.offset += d
	c.mu.Unlock()
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		players   int
		seed      uint64
		maxRounds int
		showQR    bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Queue the demo agents, form one room and play it to the end with bots",
		Long:  "simulate seeds the demo agents, queues --players of them, runs one matching tick\n(backfilling the room with idle agents) and plays the game with scripted bots.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			clock := &simClock{}
			svc, err := a.service(arena.Options{SeedAgents: true, Now: clock.Now})
			if err != nil {
				return err
			}
			if err := svc.Prepare(ctx); err != nil {
				return err
			}

			agents, err := svc.ListAgents(ctx)
			if err != nil {
				return err
			}
			if players <= 0 || players > len(agents) {
				players = len(agents)
			}
			for _, agent := range agents[:players] {
				if err := svc.Coordinator().StartMatching(ctx, agent.AgentID); err != nil {
					return fmt.Errorf("queue %s: %w", agent.AgentID, err)
				}
			}

			clock.Advance(a.cfg.MaxWait + time.Second)
			report, err := svc.Coordinator().Tick(ctx)
			if err != nil {
				return fmt.Errorf("matching tick: %w", err)
			}
			if report.Room == nil {
				return fmt.Errorf("no room formed from %d queued agents", players)
			}

			behavior := bots.Scripted{}
			if seed != 0 {
				r := rand.New(rand.NewPCG(seed, seed))
				behavior.Pick = r.IntN
			}
			driver := &bots.Driver{Room: svc, Behavior: behavior, MaxRounds: maxRounds, Logger: a.logger}
			view, err := driver.PlayToEnd(ctx, report.Room.RoomID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backfilled %d bot(s)\n\n", report.BotsAdded)
			fmt.Fprint(out, render.Transcript(view))

			if showQR {
				qr, err := render.QRCodeText(render.RoomURL(a.cfg.PublicURL, view.RoomID))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", qr)
			}

			standings, err := svc.ListAgents(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s", render.ScoreTable(standings))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&players, "players", 0, "agents to queue before the tick (all demo agents when 0)")
	f.Uint64Var(&seed, "seed", 0, "seed for bot choices (random when 0)")
	f.IntVar(&maxRounds, "max-rounds", 20, "give up after this many rounds")
	f.BoolVar(&showQR, "qr", false, "print a QR code linking to the room")
	return cmd
}
