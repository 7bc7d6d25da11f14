package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/phishsim/internal/domain"
	apperrors "github.com/spec-kit/phishsim/pkg/util"
)

type memSendRepo struct {
	sends  map[string]domain.ScheduledSend
	nextID int
}

func newMemSendRepo() *memSendRepo {
	return &memSendRepo{sends: map[string]domain.ScheduledSend{}}
}

func (m *memSendRepo) Create(ctx context.Context, send *domain.ScheduledSend) error {
	m.nextID++
	send.ID = fmt.Sprintf("send-%d", m.nextID)
	m.sends[send.ID] = *send
	return nil
}

func (m *memSendRepo) Update(ctx context.Context, send *domain.ScheduledSend) error {
	m.sends[send.ID] = *send
	return nil
}

func (m *memSendRepo) Delete(ctx context.Context, id string) error {
	delete(m.sends, id)
	return nil
}

func (m *memSendRepo) ListPending(ctx context.Context, limit int) ([]domain.ScheduledSend, error) {
	var out []domain.ScheduledSend
	for _, s := range m.sends {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSendRepo) CountPendingForStaff(ctx context.Context, staffID string) (int, error) {
	count := 0
	for _, s := range m.sends {
		if s.StaffID == staffID && !s.Sent {
			count++
		}
	}
	return count, nil
}

func TestSimulationServiceScheduleSend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	newSim := func(t *testing.T) (*serviceFixture, *memSendRepo, *SimulationService) {
		t.Helper()
		f := newServiceFixture(t)
		sends := newMemSendRepo()
		sim := NewSimulationService(f.service, sends, clockwork.NewFakeClockAt(now))
		return f, sends, sim
	}

	t.Run("creates a pending send for a future time", func(t *testing.T) {
		f, sends, sim := newSim(t)
		member := f.addStaff(t, "casey", 0)

		send, err := sim.ScheduleSend(ctx, member.ID, domain.TemplatePayroll, now.Add(2*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, member.ID, send.StaffID)
		assert.Equal(t, member.Email, send.StaffEmail)
		assert.False(t, send.Sent)
		assert.Len(t, sends.sends, 1)
	})

	t.Run("rejects templates outside the closed set", func(t *testing.T) {
		f, _, sim := newSim(t)
		member := f.addStaff(t, "casey", 0)

		_, err := sim.ScheduleSend(ctx, member.ID, domain.Template("lottery"), now.Add(time.Hour))
		assert.Error(t, err)
	})

	t.Run("rejects past send times", func(t *testing.T) {
		f, _, sim := newSim(t)
		member := f.addStaff(t, "casey", 0)

		_, err := sim.ScheduleSend(ctx, member.ID, domain.TemplateOffice, now.Add(-time.Minute))
		assert.Error(t, err)
	})

	t.Run("refuses a second pending send for the same staff", func(t *testing.T) {
		f, _, sim := newSim(t)
		member := f.addStaff(t, "casey", 0)

		_, err := sim.ScheduleSend(ctx, member.ID, domain.TemplateBank, now.Add(time.Hour))
		require.NoError(t, err)

		_, err = sim.ScheduleSend(ctx, member.ID, domain.TemplateBank, now.Add(2*time.Hour))

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})

	t.Run("unknown staff yields not found", func(t *testing.T) {
		_, _, sim := newSim(t)

		_, err := sim.ScheduleSend(ctx, "missing", domain.TemplateBank, now.Add(time.Hour))
		assert.Error(t, err)
	})
}
