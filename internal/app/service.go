// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/model"
	"github.com/courtside/fastbreak/internal/domain/projection"
	"github.com/courtside/fastbreak/internal/domain/roster"
	"github.com/courtside/fastbreak/pkg/logger"
	"github.com/courtside/fastbreak/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the challenge persistence backend.
func WithStore(store challenge.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithPoolProvider sets the full player-pool snapshot source.
func WithPoolProvider(provider challenge.PoolProvider) Option {
	return func(s *Service) { s.provider = provider }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBudget sets the team cost ceiling.
func WithBudget(budget int) Option {
	return func(s *Service) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithTeamSize sets the required roster size.
func WithTeamSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.teamSize = size
		}
	}
}

// WithSampleSize sets how many players each challenge samples per tier.
func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithSeasonGames sets the projected season length.
func WithSeasonGames(games int) Option {
	return func(s *Service) {
		if games > 0 {
			s.games = games
		}
	}
}

// WithProjectionMode selects deterministic or stochastic projection.
func WithProjectionMode(mode projection.Mode) Option {
	return func(s *Service) { s.mode = mode }
}

// WithProjectionSeed seeds the stochastic projection mode.
func WithProjectionSeed(seed int64) Option {
	return func(s *Service) { s.projectionSeed = &seed }
}

// WithSampleSeed seeds challenge pool sampling.
func WithSampleSeed(seed int64) Option {
	return func(s *Service) { s.sampleSeed = &seed }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service implements the API dependencies for the daily challenge
// system.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	store    challenge.Store
	provider challenge.PoolProvider

	// Configuration
	budget         int
	teamSize       int
	sampleSize     int
	games          int
	mode           projection.Mode
	projectionSeed *int64
	sampleSeed     *int64
	now            func() time.Time

	// Built on Start
	assembler *roster.Assembler
	projector *projection.Projector
	manager   *challenge.Manager

	started bool
	log     logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		budget:     10,
		teamSize:   model.TeamSize,
		sampleSize: 5,
		games:      model.SeasonGames,
		mode:       projection.ModeDeterministic,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the domain components. Store and pool provider must have
// been supplied.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return errors.New("challenge store is required")
	}
	if s.provider == nil {
		return errors.New("pool provider is required")
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	s.assembler = roster.New(
		roster.WithBudget(s.budget),
		roster.WithTeamSize(s.teamSize),
	)

	projOpts := []projection.Option{
		projection.WithGames(s.games),
		projection.WithMode(s.mode),
	}
	if s.projectionSeed != nil {
		projOpts = append(projOpts, projection.WithSeed(*s.projectionSeed))
	}
	s.projector = projection.New(projOpts...)

	mgrOpts := []challenge.Option{
		challenge.WithSampleSize(s.sampleSize),
		challenge.WithLogger(s.log.Named("challenge")),
		challenge.WithClock(s.now),
	}
	if s.sampleSeed != nil {
		mgrOpts = append(mgrOpts, challenge.WithSampleSeed(*s.sampleSeed))
	}
	s.manager = challenge.NewManager(s.store, s.provider, s.assembler, s.projector, mgrOpts...)

	s.started = true
	s.log.Info(ctx, "challenge service started",
		logger.Int("budget", s.budget),
		logger.Int("teamSize", s.teamSize),
		logger.Int("sampleSize", s.sampleSize),
		logger.String("projectionMode", string(s.mode)),
	)
	return nil
}

// Stop releases resources held by the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.log.Info(context.Background(), "challenge service stopped")
}

// Today returns the current challenge date.
func (s *Service) Today() string {
	return s.now().UTC().Format(challenge.DateLayout)
}

// PlayerPool returns the frozen pool sample for date, generating the
// challenge lazily on first access. An empty date means today.
func (s *Service) PlayerPool(ctx context.Context, date string) (map[int][]model.PoolPlayer, error) {
	return s.manager.Pool(ctx, s.orToday(date))
}

// ProjectTeam assembles names against the full pool snapshot and
// projects a record without persisting anything.
func (s *Service) ProjectTeam(ctx context.Context, names []string) (model.ProjectedRecord, error) {
	full, err := s.provider.Snapshot(ctx)
	if err != nil {
		return model.ProjectedRecord{}, fmt.Errorf("%w: %v", challenge.ErrPoolUnavailable, err)
	}

	team, err := s.assembler.Assemble(names, full)
	if err != nil {
		recordAssemblyFailure(err)
		return model.ProjectedRecord{}, err
	}

	start := time.Now()
	record := s.projector.Project(team.Averages)
	metrics.ObserveProjectionDuration(time.Since(start))
	return record, nil
}

// SubmitTeam runs the full submission flow for date.
func (s *Service) SubmitTeam(ctx context.Context, date, playerName string, names []string) (model.Submission, error) {
	start := time.Now()
	sub, err := s.manager.Submit(ctx, s.orToday(date), playerName, names)
	metrics.ObserveSubmitDuration(time.Since(start))
	if err != nil {
		recordAssemblyFailure(err)
		return model.Submission{}, err
	}
	return sub, nil
}

// Leaderboard returns ranked submissions for date.
func (s *Service) Leaderboard(ctx context.Context, date string) ([]model.RankedSubmission, error) {
	return s.manager.Leaderboard(ctx, s.orToday(date))
}

// Submission returns one player's entry for date.
func (s *Service) Submission(ctx context.Context, date, playerName string) (model.Submission, error) {
	return s.manager.Submission(ctx, s.orToday(date), playerName)
}

// Pregenerate ensures the challenge for date exists. The daily
// scheduler uses it to build tomorrow's challenge ahead of traffic.
func (s *Service) Pregenerate(ctx context.Context, date string) error {
	_, err := s.manager.Get(ctx, date)
	return err
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":        s.started,
		"budget":         s.budget,
		"teamSize":       s.teamSize,
		"sampleSize":     s.sampleSize,
		"seasonGames":    s.games,
		"projectionMode": string(s.mode),
		"today":          s.Today(),
	}
	if s.started {
		if board, err := s.manager.Leaderboard(ctx, s.Today()); err == nil {
			stats["todaySubmissions"] = len(board)
		}
	}
	return stats
}

func (s *Service) orToday(date string) string {
	if date == "" {
		return s.Today()
	}
	return date
}

func recordAssemblyFailure(err error) {
	switch {
	case errors.Is(err, roster.ErrIncompleteTeam):
		metrics.RecordAssemblyFailure("incomplete")
	case errors.Is(err, roster.ErrAmbiguousName):
		metrics.RecordAssemblyFailure("ambiguous")
	case errors.Is(err, roster.ErrWrongNameCount):
		metrics.RecordAssemblyFailure("name_count")
	}
}
