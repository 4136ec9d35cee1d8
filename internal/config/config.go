// Package config loads arena settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aaronzipp/sus-arena/internal/game"
	"github.com/aaronzipp/sus-arena/internal/matchmaking"
)

// Config holds everything the arena reads at startup
type Config struct {
	Addr      string `env:"SUS_ADDR"       envDefault:":8080"`
	DBPath    string `env:"SUS_DB_PATH"`
	PublicURL string `env:"SUS_PUBLIC_URL" envDefault:"http://localhost:8080"`
	LogLevel  string `env:"SUS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"SUS_LOG_FORMAT" envDefault:"text"`

	TickInterval      time.Duration `env:"SUS_TICK_INTERVAL"        envDefault:"5s"`
	LockTimeout       time.Duration `env:"SUS_LOCK_TIMEOUT"         envDefault:"30s"`
	MaxWait           time.Duration `env:"SUS_MAX_WAIT"             envDefault:"10s"`
	PlayersPerRoom    int           `env:"SUS_PLAYERS_PER_ROOM"     envDefault:"6"`
	MinPlayersToStart int           `env:"SUS_MIN_PLAYERS_TO_START" envDefault:"3"`
	SpyRatio          float64       `env:"SUS_SPY_RATIO"            envDefault:"0.3333333333333333"`
	SeedAgents        bool          `env:"SUS_SEED_AGENTS"          envDefault:"true"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads dotenvPath if it exists, then the environment. Variables
// already set in the environment win over the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the matching loop cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, fmt.Errorf("lock timeout must be positive, got %s", c.LockTimeout))
	}
	if c.MaxWait < 0 {
		errs = append(errs, fmt.Errorf("max wait must not be negative, got %s", c.MaxWait))
	}
	if c.MinPlayersToStart < 1 {
		errs = append(errs, fmt.Errorf("min players to start must be at least 1, got %d", c.MinPlayersToStart))
	}
	if c.PlayersPerRoom < c.MinPlayersToStart {
		errs = append(errs, fmt.Errorf("players per room (%d) is below min players to start (%d)", c.PlayersPerRoom, c.MinPlayersToStart))
	}
	if c.PlayersPerRoom > len(game.DisplayNames) {
		errs = append(errs, fmt.Errorf("players per room (%d) exceeds the %d display names", c.PlayersPerRoom, len(game.DisplayNames)))
	}
	if c.SpyRatio <= 0 || c.SpyRatio >= 1 {
		errs = append(errs, fmt.Errorf("spy ratio must be in (0, 1), got %v", c.SpyRatio))
	}
	return errors.Join(errs...)
}

// Matchmaking returns the coordinator settings
func (c Config) Matchmaking() matchmaking.Config {
	return matchmaking.Config{
		TickInterval:      c.TickInterval,
		LockTimeout:       c.LockTimeout,
		MaxWait:           c.MaxWait,
		PlayersPerRoom:    c.PlayersPerRoom,
		MinPlayersToStart: c.MinPlayersToStart,
		SpyRatio:          c.SpyRatio,
	}
}
