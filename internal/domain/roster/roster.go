// Package roster resolves user-supplied player names against a tiered
// pool and assembles budget-constrained teams.
package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// Default assembly configuration constants.
const (
	defaultBudget = 10

	// suggestionThreshold is the minimum Levenshtein similarity for a
	// pool name to be offered as a "did you mean" hint.
	suggestionThreshold = 0.5
)

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithBudget sets the cost ceiling for assembled teams.
func WithBudget(budget int) Option {
	return func(a *Assembler) {
		if budget > 0 {
			a.budget = budget
		}
	}
}

// WithTeamSize sets the required roster size.
func WithTeamSize(size int) Option {
	return func(a *Assembler) {
		if size > 0 {
			a.teamSize = size
		}
	}
}

// Assembler builds validated teams from input names. It never mutates
// the pool it is given.
type Assembler struct {
	budget   int
	teamSize int
}

// New creates an Assembler with default configuration.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		budget:   defaultBudget,
		teamSize: model.TeamSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Budget returns the configured cost ceiling.
func (a *Assembler) Budget() int { return a.budget }

// Assemble resolves names against pool and returns a Team whose total
// cost is within budget. Names resolve independently and in order:
// exact case-insensitive match first, then a substring fallback that
// fails if more than one pool player qualifies. A resolved player that
// would push the running cost over budget is unaffordable and counts
// as unresolved. Fewer resolved players than the roster size yields an
// IncompleteTeamError.
func (a *Assembler) Assemble(names []string, pool map[int][]model.PoolPlayer) (model.Team, error) {
	if len(names) != a.teamSize {
		return model.Team{}, fmt.Errorf("%w: got %d, want %d", ErrWrongNameCount, len(names), a.teamSize)
	}

	tiers := sortedTiers(pool)

	var (
		members   []model.PoolPlayer
		totalCost int
		missing   []string
		used      = map[playerKey]bool{}
	)
	for _, name := range names {
		p, found, err := resolve(name, pool, tiers, used)
		if err != nil {
			return model.Team{}, err
		}
		if !found {
			missing = append(missing, name)
			continue
		}
		if totalCost+p.CostTier > a.budget {
			// Unaffordable, not a hard failure.
			missing = append(missing, name)
			continue
		}
		members = append(members, p)
		totalCost += p.CostTier
		used[key(p)] = true
	}

	if len(members) < a.teamSize {
		return model.Team{}, &IncompleteTeamError{
			Resolved:    len(members),
			Required:    a.teamSize,
			Missing:     missing,
			Suggestions: suggest(missing, pool, tiers),
		}
	}

	return model.Team{
		Members:   members,
		TotalCost: totalCost,
		Averages:  average(members),
	}, nil
}

type playerKey struct {
	tier int
	id   int
}

func key(p model.PoolPlayer) playerKey { return playerKey{tier: p.CostTier, id: p.ID} }

// resolve searches the pool for name. Tier order is ascending and
// slice order is preserved, so resolution is deterministic.
func resolve(name string, pool map[int][]model.PoolPlayer, tiers []int, used map[playerKey]bool) (model.PoolPlayer, bool, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		// Empty queries would substring-match everything.
		return model.PoolPlayer{}, false, nil
	}

	// Phase one: exact case-insensitive match.
	for _, tier := range tiers {
		for _, p := range pool[tier] {
			if used[key(p)] {
				continue
			}
			if strings.ToLower(p.Name) == query {
				return p, true, nil
			}
		}
	}

	// Phase two: bidirectional substring fallback, unique or nothing.
	var candidates []model.PoolPlayer
	for _, tier := range tiers {
		for _, p := range pool[tier] {
			if used[key(p)] {
				continue
			}
			poolName := strings.ToLower(p.Name)
			if strings.Contains(poolName, query) || strings.Contains(query, poolName) {
				candidates = append(candidates, p)
			}
		}
	}
	switch len(candidates) {
	case 0:
		return model.PoolPlayer{}, false, nil
	case 1:
		return candidates[0], true, nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		return model.PoolPlayer{}, false, &AmbiguousNameError{Name: name, Candidates: names}
	}
}

// suggest finds the closest pool name for each unresolved input using
// Levenshtein similarity.
func suggest(missing []string, pool map[int][]model.PoolPlayer, tiers []int) map[string]string {
	if len(missing) == 0 {
		return nil
	}
	out := make(map[string]string, len(missing))
	for _, name := range missing {
		query := strings.ToLower(strings.TrimSpace(name))
		if query == "" {
			continue
		}
		best := ""
		bestScore := suggestionThreshold
		for _, tier := range tiers {
			for _, p := range pool[tier] {
				full := strings.ToLower(p.Name)
				distance := fuzzy.LevenshteinDistance(query, full)
				maxLen := len(query)
				if len(full) > maxLen {
					maxLen = len(full)
				}
				if maxLen == 0 {
					continue
				}
				similarity := 1 - float64(distance)/float64(maxLen)
				if similarity > bestScore {
					bestScore = similarity
					best = p.Name
				}
			}
		}
		if best != "" {
			out[name] = best
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// average computes the per-field arithmetic mean of member stats.
func average(members []model.PoolPlayer) model.PlayerStats {
	var sum model.PlayerStats
	for _, p := range members {
		sum.Points += p.Stats.Points
		sum.Rebounds += p.Stats.Rebounds
		sum.Assists += p.Stats.Assists
		sum.Steals += p.Stats.Steals
		sum.Blocks += p.Stats.Blocks
		sum.FGPct += p.Stats.FGPct
		sum.FTPct += p.Stats.FTPct
		sum.ThreePct += p.Stats.ThreePct
		sum.Minutes += p.Stats.Minutes
		sum.GamesPlayed += p.Stats.GamesPlayed
	}
	n := float64(len(members))
	return model.PlayerStats{
		Points:      sum.Points / n,
		Rebounds:    sum.Rebounds / n,
		Assists:     sum.Assists / n,
		Steals:      sum.Steals / n,
		Blocks:      sum.Blocks / n,
		FGPct:       sum.FGPct / n,
		FTPct:       sum.FTPct / n,
		ThreePct:    sum.ThreePct / n,
		Minutes:     sum.Minutes / n,
		GamesPlayed: sum.GamesPlayed / n,
	}
}

func sortedTiers(pool map[int][]model.PoolPlayer) []int {
	tiers := make([]int, 0, len(pool))
	for tier := range pool {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	return tiers
}
