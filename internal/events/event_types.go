package events

import (
	"time"

	"github.com/spec-kit/phishsim/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPhishScheduled       EventType = "phish_scheduled"
	EventPhishSent            EventType = "phish_sent"
	EventLinkClicked          EventType = "link_clicked"
	EventCredentialsSubmitted EventType = "credentials_submitted"
	EventRiskReset            EventType = "risk_reset"
)

// Event represents a domain event emitted by the simulation loops and services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PhishScheduledPayload payload.
type PhishScheduledPayload struct {
	Template domain.Template `json:"template"`
	SendTime time.Time       `json:"send_time"`
	Rule     string          `json:"rule"`
}

// PhishSentPayload payload.
type PhishSentPayload struct {
	Template   domain.Template `json:"template"`
	StaffEmail string          `json:"staff_email"`
}

// InteractionPayload covers click and submission events.
type InteractionPayload struct {
	RiskScore  float64 `json:"risk_score"`
	LatestRisk float64 `json:"latest_risk"`
	Direction  bool    `json:"direction"`
}

// RiskResetPayload payload.
type RiskResetPayload struct {
	PreviousScore float64 `json:"previous_score"`
}
