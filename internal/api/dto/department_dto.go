package dto

import (
	"time"

	"github.com/spec-kit/phishsim/internal/domain"
)

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse is the API shape of a department aggregate.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RiskScore float64   `json:"risk_score"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDepartmentResponse maps a domain record.
func NewDepartmentResponse(d domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		RiskScore: d.RiskScore,
		CreatedAt: d.CreatedAt,
	}
}

// NewDepartmentResponses maps a slice of domain records.
func NewDepartmentResponses(depts []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, NewDepartmentResponse(d))
	}
	return out
}
