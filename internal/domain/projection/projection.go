// Package projection converts averaged team statistics into a
// projected season record.
package projection

import (
	"math"
	"math/rand"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// Mode selects how the season record is derived from the win
// probability.
type Mode string

const (
	// ModeDeterministic rounds the expected win count. This is the
	// canonical mode: identical inputs always yield identical records.
	ModeDeterministic Mode = "deterministic"
	// ModeStochastic simulates the season game by game with perturbed
	// win probabilities. Reproducible only for a fixed seed.
	ModeStochastic Mode = "stochastic"
)

// Weights is the linear combination applied to averaged team stats to
// produce a scalar rating.
type Weights struct {
	Points   float64
	Rebounds float64
	Assists  float64
	Steals   float64
	Blocks   float64
	FGPct    float64
	FTPct    float64
	ThreePct float64
}

// DefaultWeights mirror the production rating formula: scoring
// dominates, percentages act as small correctives.
func DefaultWeights() Weights {
	return Weights{
		Points:   0.35,
		Rebounds: 0.15,
		Assists:  0.15,
		Steals:   0.10,
		Blocks:   0.10,
		FGPct:    0.10,
		FTPct:    0.05,
		ThreePct: 0.05,
	}
}

// LeagueBaseline is the fixed per-player league-average stat line the
// rating is compared against. It is process configuration, never
// derived from live data.
func LeagueBaseline() model.PlayerStats {
	return model.PlayerStats{
		Points:      15.0,
		Rebounds:    5.0,
		Assists:     3.5,
		Steals:      1.0,
		Blocks:      0.5,
		FGPct:       0.45,
		FTPct:       0.75,
		ThreePct:    0.35,
		Minutes:     25.0,
		GamesPlayed: 60.0,
	}
}

// Calibration constants. The raw logistic compresses realistic rosters
// into a narrow band around 0.5; the boost restores spread and the cap
// keeps no roster certain.
const (
	logisticSlope  = 0.15
	boostThreshold = 0.4
	boostFactor    = 0.2
	probabilityCap = 0.85

	// Stochastic per-game noise bounds.
	gameNoise   = 0.1
	minGameProb = 0.1
	maxGameProb = 0.9
	playoffWins = 41
	defaultSeed = 1
)

// Option applies a configuration option to the Projector.
type Option func(*Projector)

// WithWeights overrides the rating weights.
func WithWeights(w Weights) Option {
	return func(p *Projector) { p.weights = w }
}

// WithBaseline overrides the league baseline stat line.
func WithBaseline(b model.PlayerStats) Option {
	return func(p *Projector) { p.baseline = b }
}

// WithGames sets the season length.
func WithGames(games int) Option {
	return func(p *Projector) {
		if games > 0 {
			p.games = games
		}
	}
}

// WithMode selects the record derivation mode.
func WithMode(mode Mode) Option {
	return func(p *Projector) {
		if mode == ModeDeterministic || mode == ModeStochastic {
			p.mode = mode
		}
	}
}

// WithSeed seeds the stochastic mode's random source.
func WithSeed(seed int64) Option {
	return func(p *Projector) {
		p.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // reproducibility matters, not secrecy
	}
}

// Projector computes win probabilities and projected records.
type Projector struct {
	weights  Weights
	baseline model.PlayerStats
	games    int
	mode     Mode
	rng      *rand.Rand
}

// New creates a Projector with default configuration: canonical
// deterministic mode over an 82-game season.
func New(opts ...Option) *Projector {
	p := &Projector{
		weights:  DefaultWeights(),
		baseline: LeagueBaseline(),
		games:    model.SeasonGames,
		mode:     ModeDeterministic,
		rng:      rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // deterministic seed for reproducible runs
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rating applies the weighted linear combination to a stat line.
func (p *Projector) Rating(stats model.PlayerStats) float64 {
	w := p.weights
	return stats.Points*w.Points +
		stats.Rebounds*w.Rebounds +
		stats.Assists*w.Assists +
		stats.Steals*w.Steals +
		stats.Blocks*w.Blocks +
		stats.FGPct*w.FGPct +
		stats.FTPct*w.FTPct +
		stats.ThreePct*w.ThreePct
}

// WinProbability maps averaged team stats to a calibrated win
// probability in [0, 0.85].
func (p *Projector) WinProbability(teamAvg model.PlayerStats) float64 {
	diff := p.Rating(teamAvg) - p.Rating(p.baseline)
	base := 1 / (1 + math.Exp(-logisticSlope*diff))
	if base > boostThreshold {
		return math.Min(probabilityCap, base+(base-boostThreshold)*boostFactor)
	}
	return base
}

// Project computes the projected season record for averaged team stats.
func (p *Projector) Project(teamAvg model.PlayerStats) model.ProjectedRecord {
	prob := p.WinProbability(teamAvg)

	var wins int
	switch p.mode {
	case ModeStochastic:
		wins = p.simulateSeason(prob)
	default:
		wins = int(math.Round(float64(p.games) * prob))
	}

	return model.ProjectedRecord{
		Wins:           wins,
		Losses:         p.games - wins,
		WinProbability: prob,
		PowerRating:    prob * 100,
		MadePlayoffs:   wins >= playoffThreshold(p.games),
	}
}

// simulateSeason runs independent per-game trials. Each game's win
// probability is the season probability perturbed by uniform noise and
// clamped away from certainty in either direction.
func (p *Projector) simulateSeason(prob float64) int {
	wins := 0
	for i := 0; i < p.games; i++ {
		gameProb := prob + (p.rng.Float64()*2-1)*gameNoise
		gameProb = math.Max(minGameProb, math.Min(maxGameProb, gameProb))
		if p.rng.Float64() < gameProb {
			wins++
		}
	}
	return wins
}

// playoffThreshold scales the 41-win cutoff to non-standard season
// lengths.
func playoffThreshold(games int) int {
	if games == model.SeasonGames {
		return playoffWins
	}
	return (games + 1) / 2
}
