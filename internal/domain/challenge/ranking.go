package challenge

import (
	"sort"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// Rank orders submissions by (wins desc, losses asc) with submission
// time and player name as deterministic tiebreakers, and assigns
// 1-based ranks. Sorting an already-ranked leaderboard yields the same
// order.
func Rank(submissions map[string]model.Submission) []model.RankedSubmission {
	subs := make([]model.Submission, 0, len(submissions))
	for _, s := range submissions {
		subs = append(subs, s)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Record.Wins != subs[j].Record.Wins {
			return subs[i].Record.Wins > subs[j].Record.Wins
		}
		if subs[i].Record.Losses != subs[j].Record.Losses {
			return subs[i].Record.Losses < subs[j].Record.Losses
		}
		if !subs[i].Timestamp.Equal(subs[j].Timestamp) {
			return subs[i].Timestamp.Before(subs[j].Timestamp)
		}
		return subs[i].PlayerName < subs[j].PlayerName
	})

	out := make([]model.RankedSubmission, len(subs))
	for i, s := range subs {
		out[i] = model.RankedSubmission{Submission: s, Rank: i + 1}
	}
	return out
}

// Percentile returns the relative standing of the 0-indexed position i
// on a leaderboard of size n: the top entry scores 100, the bottom
// 100/n.
func Percentile(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 100 * float64(n-i) / float64(n)
}

// recomputePercentiles rewrites every submission's percentile from the
// current standings. Inserting a record shifts everyone else's
// relative position, so this runs on every accepted submission.
func recomputePercentiles(ch *model.Challenge) {
	ranked := Rank(ch.Submissions)
	n := len(ranked)
	for i, r := range ranked {
		sub := ch.Submissions[r.PlayerName]
		sub.Percentile = Percentile(i, n)
		ch.Submissions[r.PlayerName] = sub
	}
}
