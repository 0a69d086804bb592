package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds a single job run.
const runTimeout = 5 * time.Minute

// SubscriptionExpirer is satisfied by service.SubscriptionService.
type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler specs use the six-field form with seconds, e.g. "0 0 2 * * *".
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}
}

// AddSubscriptionExpiry registers the trial/plan expiry sweep.
func (s *Scheduler) AddSubscriptionExpiry(spec string, expirer SubscriptionExpirer) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.expireSubscriptions(expirer)
	})
	if err != nil {
		return fmt.Errorf("schedule subscription expiry %q: %w", spec, err)
	}
	s.logger.Info("subscription expiry scheduled", zap.String("spec", spec))
	return nil
}

func (s *Scheduler) expireSubscriptions(expirer SubscriptionExpirer) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	n, err := expirer.ExpireDue(ctx)
	if err != nil {
		s.logger.Error("subscription expiry failed", zap.Error(err))
		return
	}
	s.logger.Info("subscription expiry done",
		zap.Int64("expired", n),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}
