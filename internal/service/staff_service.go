package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/events"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/risk"
	apperrors "github.com/spec-kit/phishsim/pkg/util"
)

// StaffService coordinates staff and department workflows, keeping the
// department aggregates in step with membership and score changes.
type StaffService struct {
	staff       repository.StaffRepository
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	clock       Clock
}

// StaffDependencies bundles repositories for the staff service.
type StaffDependencies struct {
	StaffRepo      repository.StaffRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
	Clock          Clock
}

// StaffCreateInput describes staff creation payload.
type StaffCreateInput struct {
	Name         string
	Email        string
	DepartmentID string
}

// StaffUpdateInput describes a partial staff update.
type StaffUpdateInput struct {
	Name         *string
	Email        *string
	DepartmentID *string
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:       deps.StaffRepo,
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
		clock:       deps.Clock,
	}
}

// CreateStaff registers a new staff member in an existing department.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.Staff, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}

	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", nil)
		}
		return nil, err
	}

	member := &domain.Staff{
		Name:         name,
		Email:        email,
		DepartmentID: input.DepartmentID,
		LastSent:     domain.LastSentSentinel,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// GetStaff fetches one staff member.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", nil)
		}
		return nil, err
	}
	return member, nil
}

// ListStaff lists staff ordered by descending risk score.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return s.staff.List(ctx, filter)
}

// UpdateStaff applies a partial update. A department transfer recomputes the
// aggregates of both the source and destination departments.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, input StaffUpdateInput) (*domain.Staff, error) {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	previousDept := member.DepartmentID
	if input.Name != nil {
		member.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.DepartmentID != nil && *input.DepartmentID != previousDept {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", nil)
			}
			return nil, err
		}
		member.DepartmentID = *input.DepartmentID
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, err
	}

	if member.DepartmentID != previousDept {
		if err := s.RecomputeDepartment(ctx, previousDept); err != nil {
			return nil, err
		}
		if err := s.RecomputeDepartment(ctx, member.DepartmentID); err != nil {
			return nil, err
		}
	}
	return member, nil
}

// DeleteStaff removes a staff member and refreshes the department aggregate.
// Pending scheduled sends vanish with the row (cascade delete).
func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		return err
	}
	return s.RecomputeDepartment(ctx, member.DepartmentID)
}

// ResetRisk zeroes a staff member's scoring history. This is the only path
// that writes the score outside the risk-engine update rules.
func (s *StaffService) ResetRisk(ctx context.Context, id string) (*domain.Staff, error) {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	previousScore := member.RiskScore
	reset := risk.Reset(*member)
	if err := s.staff.Update(ctx, &reset); err != nil {
		return nil, err
	}
	if err := s.RecomputeDepartment(ctx, reset.DepartmentID); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRiskReset,
			StaffID:   reset.ID,
			Timestamp: s.now(),
			Payload:   events.RiskResetPayload{PreviousScore: previousScore},
		})
	}
	return &reset, nil
}

// CreateDepartment registers a new department.
func (s *StaffService) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name required", nil)
	}
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// ListDepartments lists all departments with their aggregates.
func (s *StaffService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

// DeleteDepartment removes an empty department.
func (s *StaffService) DeleteDepartment(ctx context.Context, id string) error {
	members, err := s.staff.ListByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return apperrors.NewConflict("department still has staff members", nil)
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("department", nil)
		}
		return err
	}
	return nil
}

// RecomputeDepartment refreshes one department aggregate from its current
// membership. The aggregate is eventually consistent with concurrent staff
// updates; it is recomputed opportunistically, not under a transaction.
func (s *StaffService) RecomputeDepartment(ctx context.Context, departmentID string) error {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	members, err := s.staff.ListByDepartment(ctx, departmentID)
	if err != nil {
		return err
	}

	dept.RiskScore = risk.DepartmentMean(members)
	return s.departments.Update(ctx, dept)
}

func (s *StaffService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now().UTC()
	}
	return time.Now().UTC()
}
