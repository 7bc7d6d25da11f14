package domain

import "time"

// LastSentSentinel is stored for staff who have never received a simulated
// email. It keeps the staleness rules immediately satisfiable for new staff.
var LastSentSentinel = time.Unix(0, 0).UTC()

// Staff models one employee enrolled in the awareness programme.
type Staff struct {
	ID           string
	Name         string
	Email        string
	DepartmentID string
	Delivered    int
	Clicked      int
	Submitted    int
	// RiskScore is a running 0-100 estimate of phishing susceptibility.
	RiskScore float64
	// LatestRisk is the score of the most recent single interaction (0, 30 or 100).
	LatestRisk float64
	// Direction is true when the most recent update decreased the risk score.
	Direction bool
	LastSent  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NeverSent reports whether the staff member has never been targeted.
func (s Staff) NeverSent() bool {
	return !s.LastSent.After(LastSentSentinel)
}
