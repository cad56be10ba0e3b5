package alerts

import "time"

// Task type constants
const (
	TaskVerificationEmail = "email:verification"
)

const QueueEmails = "emails"

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Verification email payload
type VerificationEmailPayload struct {
	Email             string        `json:"email"`
	VerificationToken string        `json:"verification_token"`
	Envelope          EmailEnvelope `json:"envelope"`
	RequestedAt       time.Time     `json:"requested_at"`
}
