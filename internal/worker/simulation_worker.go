package worker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/dispatch"
	"github.com/spec-kit/phishsim/internal/persistence"
	"github.com/spec-kit/phishsim/internal/scheduling"
)

// Simulation supervises the two background loops: the scheduling-policy sweep
// and the dispatch loop. Both run until the context is cancelled; a loop error
// is fatal to the process so a supervisor can restart it with clean state.
type Simulation struct {
	sweeper    *scheduling.Sweeper
	dispatcher *dispatch.Loop
	lease      *persistence.Lease
	clock      clockwork.Clock
	logger     *zap.Logger
	leaseTTL   time.Duration
}

// NewSimulation bundles the loops with their shared lease.
func NewSimulation(sweeper *scheduling.Sweeper, dispatcher *dispatch.Loop, lease *persistence.Lease, clock clockwork.Clock, logger *zap.Logger, leaseTTL time.Duration) *Simulation {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Simulation{
		sweeper:    sweeper,
		dispatcher: dispatcher,
		lease:      lease,
		clock:      clock,
		logger:     logger,
		leaseTTL:   leaseTTL,
	}
}

// Start acquires the loop lease and launches both loops. Loop errors are
// logged at fatal level, terminating the process for supervised restart.
func (s *Simulation) Start(ctx context.Context) {
	go func() {
		if err := s.waitForLease(ctx); err != nil {
			return
		}

		go s.renewLease(ctx)

		go func() {
			if err := s.sweeper.Run(ctx); err != nil {
				s.logger.Fatal("scheduling sweep failed", zap.Error(err))
			}
		}()
		go func() {
			if err := s.dispatcher.Run(ctx); err != nil {
				s.logger.Fatal("dispatch loop failed", zap.Error(err))
			}
		}()
	}()
}

func (s *Simulation) waitForLease(ctx context.Context) error {
	for {
		ok, err := s.lease.Acquire(ctx)
		if err != nil {
			s.logger.Warn("lease acquire failed", zap.Error(err))
		} else if ok {
			s.logger.Info("simulation loops started")
			return nil
		} else {
			s.logger.Info("simulation loops held by another instance, standing by")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.leaseTTL):
		}
	}
}

func (s *Simulation) renewLease(ctx context.Context) {
	interval := s.leaseTTL / 2
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = s.lease.Release(releaseCtx)
			cancel()
			return
		case <-ticker.Chan():
			if _, err := s.lease.Renew(ctx); err != nil {
				s.logger.Warn("lease renew failed", zap.Error(err))
			}
		}
	}
}
