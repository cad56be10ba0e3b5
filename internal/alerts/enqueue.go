package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	sendTimeout    = 30 * time.Second
	enqueueTimeout = 2 * time.Second
)

// VerificationLink is the URL a user follows to confirm their address.
func VerificationLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/users/verify/" + token
}

// BuildVerificationEmail renders the verification email for email.
func BuildVerificationEmail(appURL, email, token string) EmailEnvelope {
	link := VerificationLink(appURL, token)
	return EmailEnvelope{
		To:      email,
		Subject: "Please verify your email address",
		Body:    fmt.Sprintf("Click the following link to verify your email: %s\n\nIf the link doesn't work, copy and paste the URL above.", link),
	}
}

// NewVerificationTask packs a verification email into a queue task.
func NewVerificationTask(appURL, email, token string) (*asynq.Task, error) {
	payload := VerificationEmailPayload{
		Email:             email,
		VerificationToken: token,
		Envelope:          BuildVerificationEmail(appURL, email, token),
		RequestedAt:       time.Now().UTC(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerificationEmail, b, asynq.Queue(QueueEmails), asynq.MaxRetry(5)), nil
}

// QueueNotifier hands verification emails to the asynq worker. The enqueue
// runs on its own goroutine so a slow redis never holds up the request.
type QueueNotifier struct {
	client  *asynq.Client
	appURL  string
	timeout time.Duration
	log     zerolog.Logger
}

func NewQueueNotifier(client *asynq.Client, appURL string, log zerolog.Logger) *QueueNotifier {
	return &QueueNotifier{client: client, appURL: appURL, timeout: enqueueTimeout, log: log}
}

func (n *QueueNotifier) NotifyVerification(_ context.Context, email, token string) error {
	task, err := NewVerificationTask(n.appURL, email, token)
	if err != nil {
		return err
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if _, err := n.client.EnqueueContext(ctx, task); err != nil {
			n.log.Error().Err(err).Str("email", email).Msg("verification task not enqueued")
		}
	}()
	return nil
}

// DirectNotifier sends on its own goroutine when no queue is configured.
// Failures only reach the log.
type DirectNotifier struct {
	mailer Mailer
	appURL string
	log    zerolog.Logger
}

func NewDirectNotifier(mailer Mailer, appURL string, log zerolog.Logger) *DirectNotifier {
	return &DirectNotifier{mailer: mailer, appURL: appURL, log: log}
}

func (n *DirectNotifier) NotifyVerification(_ context.Context, email, token string) error {
	env := BuildVerificationEmail(n.appURL, email, token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.mailer.Send(ctx, env); err != nil {
			n.log.Error().Err(err).Str("to", email).Msg("verification email send failed")
			return
		}
		n.log.Info().Str("to", email).Msg("verification email sent")
	}()
	return nil
}
