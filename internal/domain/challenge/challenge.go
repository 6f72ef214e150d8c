// Package challenge owns the daily challenge lifecycle: lazy
// generation of a frozen pool sample, write-once submissions, and
// leaderboard derivation.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/fastbreak/internal/domain/model"
	"github.com/courtside/fastbreak/internal/domain/projection"
	"github.com/courtside/fastbreak/internal/domain/roster"
	"github.com/courtside/fastbreak/pkg/logger"
	"github.com/courtside/fastbreak/pkg/metrics"
)

// DateLayout is the calendar-date format keying challenges.
const DateLayout = "2006-01-02"

// Default lifecycle configuration constants.
const (
	// defaultSampleSize players are drawn per cost tier when a new
	// challenge is generated.
	defaultSampleSize = 5
)

// Store persists challenges, one record per date. Update must apply fn
// atomically with respect to other writers of the same date so
// concurrent submissions cannot lose updates.
type Store interface {
	// Load returns the persisted challenge for date, or ErrNotFound.
	Load(ctx context.Context, date string) (model.Challenge, error)
	// Save writes the full challenge record.
	Save(ctx context.Context, ch model.Challenge) error
	// Update atomically applies fn to the stored challenge for date and
	// persists the result. fn returning an error aborts without saving.
	Update(ctx context.Context, date string, fn func(*model.Challenge) error) error
}

// PoolProvider supplies the full, validated player pool snapshot.
type PoolProvider interface {
	Snapshot(ctx context.Context) (map[int][]model.PoolPlayer, error)
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithSampleSize sets how many players are sampled per tier.
func WithSampleSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.sampleSize = n
		}
	}
}

// WithSampleSeed seeds challenge generation for reproducible sampling.
func WithSampleSeed(seed int64) Option {
	return func(m *Manager) {
		m.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not security
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager coordinates challenge generation, submissions, and reads.
type Manager struct {
	store     Store
	provider  PoolProvider
	assembler *roster.Assembler
	projector *projection.Projector

	sampleSize int
	rng        *rand.Rand
	now        func() time.Time
	log        logger.Logger

	// genMu serializes lazy generation per date within this process.
	genMu sync.Mutex
}

// NewManager creates a Manager with default configuration.
func NewManager(store Store, provider PoolProvider, assembler *roster.Assembler, projector *projection.Projector, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		provider:   provider,
		assembler:  assembler,
		projector:  projector,
		sampleSize: defaultSampleSize,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling, not security
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get()
	}
	return m
}

// Get returns the challenge for date, generating and persisting a new
// one on first access. The generated pool sample is frozen: later
// reads return the persisted state verbatim.
func (m *Manager) Get(ctx context.Context, date string) (model.Challenge, error) {
	if err := validateDate(date); err != nil {
		return model.Challenge{}, err
	}

	ch, err := m.store.Load(ctx, date)
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Challenge{}, fmt.Errorf("load challenge %s: %w", date, err)
	}

	// First access for this date: generate under the lock, re-checking
	// the store so concurrent callers settle on one sample.
	m.genMu.Lock()
	defer m.genMu.Unlock()

	ch, err = m.store.Load(ctx, date)
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Challenge{}, fmt.Errorf("load challenge %s: %w", date, err)
	}
	return m.generate(ctx, date)
}

func (m *Manager) generate(ctx context.Context, date string) (model.Challenge, error) {
	full, err := m.provider.Snapshot(ctx)
	if err != nil {
		return model.Challenge{}, fmt.Errorf("%w: %v", ErrPoolUnavailable, err)
	}
	if len(full) == 0 {
		return model.Challenge{}, fmt.Errorf("%w: empty snapshot", ErrPoolUnavailable)
	}

	ch := model.Challenge{
		Date:        date,
		Pool:        m.samplePool(full),
		Submissions: map[string]model.Submission{},
	}
	if err := m.store.Save(ctx, ch); err != nil {
		return model.Challenge{}, fmt.Errorf("persist challenge %s: %w", date, err)
	}

	metrics.RecordChallengeGenerated()
	m.log.Info(ctx, "generated daily challenge",
		logger.String("date", date),
		logger.Int("tiers", len(ch.Pool)),
	)
	return ch, nil
}

// samplePool draws sampleSize players per tier without replacement.
// Tiers smaller than the sample size are taken whole.
func (m *Manager) samplePool(full map[int][]model.PoolPlayer) map[int][]model.PoolPlayer {
	out := make(map[int][]model.PoolPlayer, len(full))

	tiers := make([]int, 0, len(full))
	for tier := range full {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)

	for _, tier := range tiers {
		players := full[tier]
		if len(players) <= m.sampleSize {
			out[tier] = append([]model.PoolPlayer(nil), players...)
			continue
		}
		idx := m.rng.Perm(len(players))[:m.sampleSize]
		sort.Ints(idx)
		sample := make([]model.PoolPlayer, 0, m.sampleSize)
		for _, i := range idx {
			sample = append(sample, players[i])
		}
		out[tier] = sample
	}
	return out
}

// Submit runs the full submission flow for playerName on date:
// duplicate check, assembly against the challenge's sampled pool,
// projection, percentile recomputation, and atomic persistence. The
// submission is committed only once the store write succeeds.
func (m *Manager) Submit(ctx context.Context, date, playerName string, names []string) (model.Submission, error) {
	if err := validateDate(date); err != nil {
		return model.Submission{}, err
	}
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return model.Submission{}, errors.New("player name is required")
	}

	// Ensure the challenge exists before entering the read-modify-write.
	if _, err := m.Get(ctx, date); err != nil {
		return model.Submission{}, err
	}

	var accepted model.Submission
	err := m.store.Update(ctx, date, func(ch *model.Challenge) error {
		if _, exists := ch.Submissions[playerName]; exists {
			return fmt.Errorf("%w: %s already submitted for %s", ErrDuplicateSubmission, playerName, date)
		}

		team, err := m.assembler.Assemble(names, ch.Pool)
		if err != nil {
			return err
		}
		record := m.projector.Project(team.Averages)

		accepted = model.Submission{
			ID:         uuid.NewString(),
			PlayerName: playerName,
			Team:       team,
			Record:     record,
			Timestamp:  m.now().UTC(),
		}
		if ch.Submissions == nil {
			ch.Submissions = map[string]model.Submission{}
		}
		ch.Submissions[playerName] = accepted
		recomputePercentiles(ch)
		accepted = ch.Submissions[playerName]

		metrics.UpdateLeaderboardSize(date, len(ch.Submissions))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSubmission) {
			metrics.RecordDuplicateSubmission()
		}
		return model.Submission{}, err
	}

	metrics.RecordSubmission()
	m.log.Info(ctx, "accepted submission",
		logger.String("date", date),
		logger.String("player", playerName),
		logger.Int("wins", accepted.Record.Wins),
	)
	return accepted, nil
}

// Leaderboard returns the ranked submissions for date.
func (m *Manager) Leaderboard(ctx context.Context, date string) ([]model.RankedSubmission, error) {
	ch, err := m.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	return Rank(ch.Submissions), nil
}

// Submission returns playerName's entry for date, or ErrNotFound.
func (m *Manager) Submission(ctx context.Context, date, playerName string) (model.Submission, error) {
	ch, err := m.Get(ctx, date)
	if err != nil {
		return model.Submission{}, err
	}
	sub, ok := ch.Submissions[strings.TrimSpace(playerName)]
	if !ok {
		return model.Submission{}, fmt.Errorf("%w: no submission for %s on %s", ErrNotFound, playerName, date)
	}
	return sub, nil
}

// Pool returns the frozen pool sample for date.
func (m *Manager) Pool(ctx context.Context, date string) (map[int][]model.PoolPlayer, error) {
	ch, err := m.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	return ch.Pool, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
