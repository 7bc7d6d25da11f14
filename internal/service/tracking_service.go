package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/events"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/risk"
)

// TrackingService records staff interactions with simulated phishing emails
// and keeps the department aggregates current.
type TrackingService struct {
	staffService *StaffService
	staff        repository.StaffRepository
	dispatcher   events.Dispatcher
	clock        Clock
}

// NewTrackingService constructs the service.
func NewTrackingService(staffService *StaffService, staffRepo repository.StaffRepository, dispatcher events.Dispatcher, clock Clock) *TrackingService {
	return &TrackingService{
		staffService: staffService,
		staff:        staffRepo,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// RecordClick applies the link-clicked risk update for a staff member.
func (t *TrackingService) RecordClick(ctx context.Context, staffID string) (*domain.Staff, error) {
	return t.record(ctx, staffID, events.EventLinkClicked, risk.ApplyClick)
}

// RecordSubmission applies the credentials-submitted risk update. The landing
// page is only reachable through a tracked click, so a preceding click is
// guaranteed by the flow, not re-validated.
func (t *TrackingService) RecordSubmission(ctx context.Context, staffID string) (*domain.Staff, error) {
	return t.record(ctx, staffID, events.EventCredentialsSubmitted, risk.ApplySubmission)
}

func (t *TrackingService) record(ctx context.Context, staffID string, eventType events.EventType, apply func(domain.Staff) domain.Staff) (*domain.Staff, error) {
	member, err := t.staffService.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	updated := apply(*member)
	if err := t.staff.Update(ctx, &updated); err != nil {
		return nil, err
	}
	if err := t.staffService.RecomputeDepartment(ctx, updated.DepartmentID); err != nil {
		return nil, err
	}

	if t.dispatcher != nil {
		_ = t.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      eventType,
			StaffID:   updated.ID,
			Timestamp: t.now(),
			Payload: events.InteractionPayload{
				RiskScore:  updated.RiskScore,
				LatestRisk: updated.LatestRisk,
				Direction:  updated.Direction,
			},
		})
	}
	return &updated, nil
}

func (t *TrackingService) now() time.Time {
	if t.clock != nil {
		return t.clock.Now().UTC()
	}
	return time.Now().UTC()
}
