package domain

import "time"

// Department groups staff for aggregate risk reporting.
type Department struct {
	ID   string
	Name string
	// RiskScore is the arithmetic mean of member scores, zero when empty.
	RiskScore float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
