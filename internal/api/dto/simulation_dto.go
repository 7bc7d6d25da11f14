package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued bearer token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ScheduleSendRequest payload for a manual one-off send.
type ScheduleSendRequest struct {
	StaffID  string    `json:"staff_id"`
	Template string    `json:"template"`
	SendTime time.Time `json:"send_time"`
}

// ScheduledSendResponse is the API shape of a pending send.
type ScheduledSendResponse struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	StaffEmail string    `json:"staff_email"`
	Template   string    `json:"template"`
	SendTime   time.Time `json:"send_time"`
}
