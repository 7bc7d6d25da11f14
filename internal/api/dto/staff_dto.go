package dto

import (
	"time"

	"github.com/spec-kit/phishsim/internal/domain"
)

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
}

// UpdateStaffRequest payload; nil fields are left untouched.
type UpdateStaffRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// StaffResponse is the API shape of a staff record.
type StaffResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id"`
	Delivered    int       `json:"delivered"`
	Clicked      int       `json:"clicked"`
	Submitted    int       `json:"submitted"`
	RiskScore    float64   `json:"risk_score"`
	LatestRisk   float64   `json:"latest_risk"`
	Direction    bool      `json:"direction"`
	LastSent     time.Time `json:"last_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewStaffResponse maps a domain record.
func NewStaffResponse(s domain.Staff) StaffResponse {
	return StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		DepartmentID: s.DepartmentID,
		Delivered:    s.Delivered,
		Clicked:      s.Clicked,
		Submitted:    s.Submitted,
		RiskScore:    s.RiskScore,
		LatestRisk:   s.LatestRisk,
		Direction:    s.Direction,
		LastSent:     s.LastSent,
		CreatedAt:    s.CreatedAt,
	}
}

// NewStaffResponses maps a slice of domain records.
func NewStaffResponses(staff []domain.Staff) []StaffResponse {
	out := make([]StaffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, NewStaffResponse(s))
	}
	return out
}
