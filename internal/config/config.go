// Package config defines service configuration structures and loading
// hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PoolFile points at the harvested player-pool snapshot.
	PoolFile string `koanf:"pool_file"`

	// StoreBackend selects challenge persistence: file, sqlite, memory.
	StoreBackend string `koanf:"store_backend"`

	// DataDir holds per-date challenge documents for the file backend.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// Budget is the team cost ceiling. The tier scale comes from the
	// pool file, so both the $0-$3 and $1-$5 schemes work by adjusting
	// this single knob.
	Budget int `koanf:"budget"`

	// TeamSize is the required roster size.
	TeamSize int `koanf:"team_size"`

	// SampleSize is how many players each daily challenge draws per
	// cost tier.
	SampleSize int `koanf:"sample_size"`

	// SeasonGames is the projected season length.
	SeasonGames int `koanf:"season_games"`

	// ProjectionMode selects deterministic or stochastic records.
	ProjectionMode string `koanf:"projection_mode"`

	// ProjectionSeed seeds the stochastic mode when non-zero.
	ProjectionSeed int64 `koanf:"projection_seed"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Pregenerate enables the scheduler that builds the next day's
	// challenge ahead of time.
	Pregenerate bool `koanf:"pregenerate"`

	// PregenerateHour is the UTC hour at which pregeneration runs.
	PregenerateHour int `koanf:"pregenerate_hour"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		PoolFile:            "player_pool.json",
		StoreBackend:        "file",
		DataDir:             "data/challenges",
		SQLitePath:          "data/challenges.db",
		Budget:              10,
		TeamSize:            5,
		SampleSize:          5,
		SeasonGames:         82,
		ProjectionMode:      "deterministic",
		MaxLeaderboardLimit: 100,
		Pregenerate:         false,
		PregenerateHour:     0,
	}
}
