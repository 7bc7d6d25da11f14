package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/events"
	"github.com/spec-kit/phishsim/internal/observability"
	"github.com/spec-kit/phishsim/internal/repository"
)

// Sweeper runs the policy over the full staff population on a fixed cadence.
type Sweeper struct {
	policy     *Policy
	staff      repository.StaffRepository
	sends      repository.ScheduledSendRepository
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	interval   time.Duration
}

// SweeperDependencies bundles collaborators for the sweeper.
type SweeperDependencies struct {
	Policy     *Policy
	StaffRepo  repository.StaffRepository
	SendRepo   repository.ScheduledSendRepository
	Dispatcher events.Dispatcher
	Clock      clockwork.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewSweeper constructs the sweep loop.
func NewSweeper(deps SweeperDependencies, interval time.Duration) *Sweeper {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sweeper{
		policy:     deps.Policy,
		staff:      deps.StaffRepo,
		sends:      deps.SendRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		interval:   interval,
	}
}

// Run evaluates the policy on every tick until the context is cancelled.
// Storage errors propagate to the caller; a supervising process restart is
// the recovery path.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := s.RunPass(ctx); err != nil {
				return err
			}
		}
	}
}

// RunPass performs a single sweep over the staff population.
func (s *Sweeper) RunPass(ctx context.Context) error {
	now := s.clock.Now().UTC()

	staff, err := s.staff.ListAll(ctx)
	if err != nil {
		return err
	}

	scheduled := 0
	for _, member := range staff {
		pending, err := s.sends.CountPendingForStaff(ctx, member.ID)
		if err != nil {
			return err
		}
		if pending > 0 {
			continue
		}

		send, rule, ok := s.policy.Evaluate(member, now)
		if !ok {
			continue
		}

		if err := s.sends.Create(ctx, send); err != nil {
			return err
		}
		scheduled++

		s.logger.Info("phishing send scheduled",
			zap.String("staff_id", member.ID),
			zap.String("rule", string(rule)),
			zap.String("template", string(send.Template)),
			zap.Time("send_time", send.SendTime))

		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventPhishScheduled,
				StaffID:   member.ID,
				Timestamp: now,
				Payload: events.PhishScheduledPayload{
					Template: send.Template,
					SendTime: send.SendTime,
					Rule:     string(rule),
				},
			})
		}
	}

	if s.metrics != nil {
		s.metrics.Inc(observability.CounterSweepsCompleted)
		s.metrics.Add(observability.CounterSendsScheduled, int64(scheduled))
	}
	return nil
}
