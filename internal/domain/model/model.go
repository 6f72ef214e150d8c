// Package model contains domain models passed between layers.
package model

import "time"

// PlayerStats holds a player's season-average statistics.
// Percentages are fractions in [0,1].
type PlayerStats struct {
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	FGPct       float64 `json:"fg_pct"`
	FTPct       float64 `json:"ft_pct"`
	ThreePct    float64 `json:"three_pct"`
	Minutes     float64 `json:"minutes"`
	GamesPlayed float64 `json:"games_played"`
}

// PoolPlayer is one entry of the tiered player pool. Names are unique
// within a tier but not globally.
type PoolPlayer struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	CostTier int         `json:"cost_tier"`
	Stats    PlayerStats `json:"stats"`
}

// TeamSize is the fixed roster size for every assembled team.
const TeamSize = 5

// Team is a validated roster. Only the roster assembler constructs
// one, so TotalCost is always within budget and Members always holds
// exactly TeamSize players.
type Team struct {
	Members   []PoolPlayer `json:"members"`
	TotalCost int          `json:"total_cost"`
	Averages  PlayerStats  `json:"averages"`
}

// SeasonGames is the regular-season length used for projections.
const SeasonGames = 82

// ProjectedRecord is a projected season outcome for a team.
type ProjectedRecord struct {
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinProbability float64 `json:"win_probability"`
	PowerRating    float64 `json:"power_rating"`
	MadePlayoffs   bool    `json:"made_playoffs"`
}

// Submission is one player's entry for a daily challenge. Submissions
// are write-once: a player gets exactly one per challenge date.
type Submission struct {
	ID         string          `json:"id"`
	PlayerName string          `json:"player_name"`
	Team       Team            `json:"team"`
	Record     ProjectedRecord `json:"record"`
	Percentile float64         `json:"percentile"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Challenge is the per-date aggregate: a frozen sample of the player
// pool plus all submissions received for that date.
type Challenge struct {
	Date        string                `json:"date"`
	Pool        map[int][]PoolPlayer  `json:"player_pool"`
	Submissions map[string]Submission `json:"submissions"`
}

// Clone returns a deep copy so callers can hand challenges across
// goroutines without sharing mutable state.
func (c Challenge) Clone() Challenge {
	out := Challenge{
		Date:        c.Date,
		Pool:        make(map[int][]PoolPlayer, len(c.Pool)),
		Submissions: make(map[string]Submission, len(c.Submissions)),
	}
	for tier, players := range c.Pool {
		cp := make([]PoolPlayer, len(players))
		copy(cp, players)
		out.Pool[tier] = cp
	}
	for name, sub := range c.Submissions {
		cp := sub
		cp.Team.Members = append([]PoolPlayer(nil), sub.Team.Members...)
		out.Submissions[name] = cp
	}
	return out
}

// RankedSubmission pairs a submission with its leaderboard rank
// (1-based).
type RankedSubmission struct {
	Submission
	Rank int `json:"rank"`
}
