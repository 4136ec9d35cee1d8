package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aaronzipp/sus-arena/internal/matchmaking"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "" || !cfg.SeedAgents {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got, want := cfg.Matchmaking(), matchmaking.DefaultConfig(); got.PlayersPerRoom != want.PlayersPerRoom ||
		got.MinPlayersToStart != want.MinPlayersToStart ||
		got.TickInterval != want.TickInterval ||
		got.LockTimeout != want.LockTimeout ||
		got.MaxWait != want.MaxWait {
		t.Fatalf("matchmaking = %+v, want %+v", got, want)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SUS_ADDR=:9999\nSUS_MAX_WAIT=2s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("SUS_ADDR", ":7000")
	// godotenv sets process variables; make sure ours is restored afterwards.
	t.Setenv("SUS_MAX_WAIT", "")
	os.Unsetenv("SUS_MAX_WAIT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("addr = %q, want environment to win", cfg.Addr)
	}
	if cfg.MaxWait != 2*time.Second {
		t.Fatalf("max wait = %s, want 2s from .env", cfg.MaxWait)
	}
}

func TestLoadMissingDotenvIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SUS_PLAYERS_PER_ROOM", "six")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero tick", mutate: func(c *Config) { c.TickInterval = 0 }, want: "tick interval"},
		{name: "zero lock timeout", mutate: func(c *Config) { c.LockTimeout = 0 }, want: "lock timeout"},
		{name: "negative wait", mutate: func(c *Config) { c.MaxWait = -time.Second }, want: "max wait"},
		{name: "room below minimum", mutate: func(c *Config) { c.PlayersPerRoom = 2 }, want: "players per room"},
		{name: "room above name pool", mutate: func(c *Config) { c.PlayersPerRoom = 17 }, want: "exceeds the 16 display names"},
		{name: "no spies", mutate: func(c *Config) { c.SpyRatio = 0 }, want: "spy ratio"},
		{name: "all spies", mutate: func(c *Config) { c.SpyRatio = 1 }, want: "spy ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("validate err = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
