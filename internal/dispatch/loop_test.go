package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/mailer"
	"github.com/spec-kit/phishsim/internal/observability"
	"github.com/spec-kit/phishsim/internal/repository"
)

type fakeSendRepo struct {
	sends   map[string]domain.ScheduledSend
	listErr error
}

func newFakeSendRepo(sends ...domain.ScheduledSend) *fakeSendRepo {
	repo := &fakeSendRepo{sends: map[string]domain.ScheduledSend{}}
	for _, s := range sends {
		repo.sends[s.ID] = s
	}
	return repo
}

func (f *fakeSendRepo) Create(ctx context.Context, send *domain.ScheduledSend) error {
	f.sends[send.ID] = *send
	return nil
}

func (f *fakeSendRepo) Update(ctx context.Context, send *domain.ScheduledSend) error {
	if _, ok := f.sends[send.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.sends[send.ID] = *send
	return nil
}

func (f *fakeSendRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.sends[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.sends, id)
	return nil
}

func (f *fakeSendRepo) ListPending(ctx context.Context, limit int) ([]domain.ScheduledSend, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.ScheduledSend
	for _, s := range f.sends {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendTime.Before(out[j].SendTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSendRepo) CountPendingForStaff(ctx context.Context, staffID string) (int, error) {
	count := 0
	for _, s := range f.sends {
		if s.StaffID == staffID && !s.Sent {
			count++
		}
	}
	return count, nil
}

type fakeStaffRepo struct {
	staff map[string]domain.Staff
}

func newFakeStaffRepo(staff ...domain.Staff) *fakeStaffRepo {
	repo := &fakeStaffRepo{staff: map[string]domain.Staff{}}
	for _, s := range staff {
		repo.staff[s.ID] = s
	}
	return repo
}

func (f *fakeStaffRepo) Create(ctx context.Context, s *domain.Staff) error { return nil }
func (f *fakeStaffRepo) Update(ctx context.Context, s *domain.Staff) error {
	f.staff[s.ID] = *s
	return nil
}
func (f *fakeStaffRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}
func (f *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeStaffRepo) List(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return nil, nil
}
func (f *fakeStaffRepo) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Staff, error) {
	return nil, nil
}
func (f *fakeStaffRepo) ListAll(ctx context.Context) ([]domain.Staff, error) { return nil, nil }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (n *recordingNotifier) Enqueue(msg mailer.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) sent() []mailer.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.Message(nil), n.messages...)
}

func newTestLoop(sends *fakeSendRepo, staff *fakeStaffRepo, notifier *recordingNotifier, clock clockwork.Clock) *Loop {
	return NewLoop(LoopDependencies{
		SendRepo:  sends,
		StaffRepo: staff,
		Notifier:  notifier,
		Clock:     clock,
		Logger:    zap.NewNop(),
		Metrics:   observability.NewMetrics(),
	}, 15*time.Second, 10)
}

func TestLoopRunOnce(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	member := domain.Staff{
		ID:        "st-1",
		Name:      "Jordan",
		Email:     "jordan@example.com",
		Delivered: 2,
		Clicked:   1,
		LastSent:  due.Add(-10 * 24 * time.Hour),
	}
	pendingSend := domain.ScheduledSend{
		ID:         "send-1",
		StaffID:    member.ID,
		StaffEmail: member.Email,
		Template:   domain.TemplateBank,
		SendTime:   due,
	}

	t.Run("dispatches anywhere inside the due minute", func(t *testing.T) {
		for _, offset := range []time.Duration{0, 30 * time.Second, 59 * time.Second} {
			sends := newFakeSendRepo(pendingSend)
			staff := newFakeStaffRepo(member)
			notifier := &recordingNotifier{}
			loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due.Add(offset)))

			require.NoError(t, loop.RunOnce(ctx))

			require.Len(t, notifier.sent(), 1)
			assert.Equal(t, member.Email, notifier.sent()[0].To)
			assert.Equal(t, domain.TemplateBank, notifier.sent()[0].Template)
			assert.Empty(t, sends.sends, "dispatched entry must be deleted")
		}
	})

	t.Run("leaves the entry pending when the minute has passed", func(t *testing.T) {
		sends := newFakeSendRepo(pendingSend)
		staff := newFakeStaffRepo(member)
		notifier := &recordingNotifier{}
		loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due.Add(61*time.Second)))

		require.NoError(t, loop.RunOnce(ctx))

		assert.Empty(t, notifier.sent())
		assert.Len(t, sends.sends, 1)
	})

	t.Run("leaves the entry pending when it is not yet due", func(t *testing.T) {
		sends := newFakeSendRepo(pendingSend)
		staff := newFakeStaffRepo(member)
		notifier := &recordingNotifier{}
		loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due.Add(-time.Minute)))

		require.NoError(t, loop.RunOnce(ctx))

		assert.Empty(t, notifier.sent())
		assert.Len(t, sends.sends, 1)
	})

	t.Run("delivery updates the staff record", func(t *testing.T) {
		sends := newFakeSendRepo(pendingSend)
		staff := newFakeStaffRepo(member)
		notifier := &recordingNotifier{}
		loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due))

		require.NoError(t, loop.RunOnce(ctx))

		updated := staff.staff[member.ID]
		assert.Equal(t, member.Delivered+1, updated.Delivered)
		assert.Equal(t, due, updated.LastSent)
	})

	t.Run("already-sent entries are deleted without resending", func(t *testing.T) {
		stale := pendingSend
		stale.Sent = true
		sends := newFakeSendRepo(stale)
		staff := newFakeStaffRepo(member)
		notifier := &recordingNotifier{}
		loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due))

		require.NoError(t, loop.RunOnce(ctx))

		assert.Empty(t, notifier.sent())
		assert.Empty(t, sends.sends)
		assert.Equal(t, member, staff.staff[member.ID], "staff counters must not change")
	})

	t.Run("orphaned sends for deleted staff are dropped", func(t *testing.T) {
		sends := newFakeSendRepo(pendingSend)
		staff := newFakeStaffRepo() // no staff rows
		notifier := &recordingNotifier{}
		loop := newTestLoop(sends, staff, notifier, clockwork.NewFakeClockAt(due))

		require.NoError(t, loop.RunOnce(ctx))

		assert.Empty(t, notifier.sent())
		assert.Empty(t, sends.sends)
	})

	t.Run("storage errors propagate", func(t *testing.T) {
		sends := newFakeSendRepo()
		sends.listErr = errors.New("connection reset")
		loop := newTestLoop(sends, newFakeStaffRepo(), &recordingNotifier{}, clockwork.NewFakeClockAt(due))

		assert.Error(t, loop.RunOnce(ctx))
	})
}

func TestLoopRun(t *testing.T) {
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	member := domain.Staff{ID: "st-1", Email: "jordan@example.com", LastSent: due.Add(-40 * 24 * time.Hour)}
	send := domain.ScheduledSend{
		ID:         "send-1",
		StaffID:    member.ID,
		StaffEmail: member.Email,
		Template:   domain.TemplateOffice,
		SendTime:   due,
	}

	t.Run("polling dispatches the due entry and stops on cancellation", func(t *testing.T) {
		sends := newFakeSendRepo(send)
		staff := newFakeStaffRepo(member)
		notifier := &recordingNotifier{}
		clock := clockwork.NewFakeClockAt(due.Add(-15 * time.Second))
		loop := newTestLoop(sends, staff, notifier, clock)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		clock.BlockUntil(1)
		clock.Advance(15 * time.Second)

		require.Eventually(t, func() bool {
			return len(notifier.sent()) == 1
		}, time.Second, 5*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	})
}
