// Package dispatch reconciles pending scheduled sends against the clock and
// triggers delivery exactly once per due entry.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/events"
	"github.com/spec-kit/phishsim/internal/mailer"
	"github.com/spec-kit/phishsim/internal/observability"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/risk"
)

// Loop polls pending sends and delivers the ones whose minute has arrived.
type Loop struct {
	sends      repository.ScheduledSendRepository
	staff      repository.StaffRepository
	notifier   mailer.Notifier
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	interval   time.Duration
	batchLimit int
}

// LoopDependencies bundles collaborators for the dispatch loop.
type LoopDependencies struct {
	SendRepo   repository.ScheduledSendRepository
	StaffRepo  repository.StaffRepository
	Notifier   mailer.Notifier
	Dispatcher events.Dispatcher
	Clock      clockwork.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewLoop constructs the dispatch loop.
func NewLoop(deps LoopDependencies, interval time.Duration, batchLimit int) *Loop {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if batchLimit <= 0 {
		batchLimit = 10
	}
	return &Loop{
		sends:      deps.SendRepo,
		staff:      deps.StaffRepo,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		interval:   interval,
		batchLimit: batchLimit,
	}
}

// Run polls on the configured interval until the context is cancelled.
// Storage errors propagate; the supervising process restart is the recovery
// path, and already-marked-sent rows are cleaned up without resending.
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := l.RunOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// RunOnce performs a single reconciliation pass.
//
// Due times are matched at minute resolution: both the send time and the
// current time are truncated to the minute before comparison. A poll that
// misses the matching minute leaves the entry pending; there is no catch-up
// extrapolation, the monthly scheduling floor re-triggers eventually.
func (l *Loop) RunOnce(ctx context.Context) error {
	pending, err := l.sends.ListPending(ctx, l.batchLimit)
	if err != nil {
		return err
	}

	nowMinute := l.clock.Now().UTC().Truncate(time.Minute)

	for _, send := range pending {
		if !send.SendTime.UTC().Truncate(time.Minute).Equal(nowMinute) {
			continue
		}

		if send.Sent {
			// Crash-recovery leftover: the previous process marked the row
			// sent but died before deleting it. Clean up without resending.
			if err := l.sends.Delete(ctx, send.ID); err != nil {
				return err
			}
			if l.metrics != nil {
				l.metrics.Inc(observability.CounterStaleDeleted)
			}
			l.logger.Warn("deleted stale sent entry", zap.String("send_id", send.ID))
			continue
		}

		if err := l.deliver(ctx, send); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) deliver(ctx context.Context, send domain.ScheduledSend) error {
	// Mark sent before any delivery side effect so a crash cannot resend.
	send.Sent = true
	if err := l.sends.Update(ctx, &send); err != nil {
		return err
	}

	member, err := l.staff.GetByID(ctx, send.StaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Staff deleted after scheduling; drop the orphaned send.
			l.logger.Warn("dropping send for missing staff", zap.String("send_id", send.ID))
			return l.sends.Delete(ctx, send.ID)
		}
		return err
	}

	now := l.clock.Now().UTC()
	updated := risk.ApplyDelivery(*member, now)
	if err := l.staff.Update(ctx, &updated); err != nil {
		return err
	}

	l.notifier.Enqueue(mailer.Message{
		StaffID:   member.ID,
		StaffName: member.Name,
		To:        send.StaffEmail,
		Template:  send.Template,
	})

	l.logger.Info("scheduled send dispatched",
		zap.String("staff_id", member.ID),
		zap.String("email", send.StaffEmail),
		zap.String("template", string(send.Template)),
		zap.Time("send_time", send.SendTime))

	if l.dispatcher != nil {
		_ = l.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPhishSent,
			StaffID:   member.ID,
			Timestamp: now,
			Payload: events.PhishSentPayload{
				Template:   send.Template,
				StaffEmail: send.StaffEmail,
			},
		})
	}
	if l.metrics != nil {
		l.metrics.Inc(observability.CounterSendsDispatched)
	}

	return l.sends.Delete(ctx, send.ID)
}
