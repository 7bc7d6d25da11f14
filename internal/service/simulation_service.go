package service

import (
	"context"
	"time"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/repository"
	apperrors "github.com/spec-kit/phishsim/pkg/util"
)

// SimulationService exposes manual scheduling alongside the automatic sweep.
type SimulationService struct {
	staffService *StaffService
	sends        repository.ScheduledSendRepository
	clock        Clock
}

// NewSimulationService constructs the service.
func NewSimulationService(staffService *StaffService, sends repository.ScheduledSendRepository, clock Clock) *SimulationService {
	return &SimulationService{staffService: staffService, sends: sends, clock: clock}
}

// ScheduleSend creates a one-off scheduled send for a staff member. The same
// one-pending-send-per-staff precondition as the automatic policy applies.
func (s *SimulationService) ScheduleSend(ctx context.Context, staffID string, template domain.Template, sendTime time.Time) (*domain.ScheduledSend, error) {
	member, err := s.staffService.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if _, err := domain.ParseTemplate(string(template)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if !sendTime.After(s.now()) {
		return nil, apperrors.NewValidationError("send_time must be in the future", nil)
	}

	pending, err := s.sends.CountPendingForStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, apperrors.NewConflict("staff member already has a pending send", nil)
	}

	send := &domain.ScheduledSend{
		StaffID:    member.ID,
		StaffEmail: member.Email,
		Template:   template,
		SendTime:   sendTime.UTC(),
	}
	if err := s.sends.Create(ctx, send); err != nil {
		return nil, err
	}
	return send, nil
}

func (s *SimulationService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now().UTC()
	}
	return time.Now().UTC()
}
