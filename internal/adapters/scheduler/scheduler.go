// Package scheduler pregenerates upcoming daily challenges on a timer.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/pkg/logger"
)

// Pregenerator is the slice of the application service the scheduler needs.
type Pregenerator interface {
	Today() string
	Pregenerate(ctx context.Context, date string) error
}

// Scheduler runs a daily job that builds the next day's challenge ahead
// of the first request, so midnight traffic never pays the generation cost.
type Scheduler struct {
	sched gocron.Scheduler
	svc   Pregenerator
	hour  int
	log   logger.Logger
}

// New creates a scheduler firing once a day at the given UTC hour.
func New(svc Pregenerator, hour int) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		sched: sched,
		svc:   svc,
		hour:  hour,
		log:   logger.Get().Named("scheduler"),
	}, nil
}

// Start registers the daily job and launches the scheduler.
func (s *Scheduler) Start() error {
	_, err := s.sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(s.hour), 0, 0))),
		gocron.NewTask(s.pregenerateTomorrow),
	)
	if err != nil {
		return fmt.Errorf("create pregeneration job: %w", err)
	}

	s.sched.Start()
	s.log.Info(context.Background(), "scheduler started", logger.Int("hour_utc", s.hour))
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) pregenerateTomorrow() {
	today, err := time.Parse(challenge.DateLayout, s.svc.Today())
	if err != nil {
		s.log.Error(context.Background(), "parse current date", logger.Error(err))
		return
	}
	date := today.AddDate(0, 0, 1).Format(challenge.DateLayout)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.svc.Pregenerate(ctx, date); err != nil {
		s.log.Error(ctx, "pregenerate challenge", logger.String("date", date), logger.Error(err))
		return
	}
	s.log.Info(ctx, "challenge pregenerated", logger.String("date", date))
}
