package domain

import "time"

// ScheduledSend is a pending instruction to deliver one simulated phishing
// email to one staff member at a future time. Rows are transient: the dispatch
// loop marks them sent and deletes them, the delivery itself being recorded on
// the staff counters instead.
type ScheduledSend struct {
	ID      string
	StaffID string
	// StaffEmail is denormalized at scheduling time so a later address change
	// does not redirect an in-flight simulation.
	StaffEmail string
	Template   Template
	SendTime   time.Time
	Sent       bool
	CreatedAt  time.Time
}
