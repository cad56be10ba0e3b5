package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/logger"
)

// Worker runs the asynq server that delivers queued emails.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	mailer Mailer
	log    zerolog.Logger
}

func NewWorker(opts asynq.RedisClientOpt, mailer Mailer, log zerolog.Logger) *Worker {
	w := &Worker{mailer: mailer, log: log}
	w.server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueEmails: 10,
		},
		Logger: logger.AsynqAdapter{L: log},
	})
	w.mux = asynq.NewServeMux()
	w.mux.HandleFunc(TaskVerificationEmail, w.handleVerificationEmail)
	return w
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("asynq start: %w", err)
	}
	w.log.Info().Msg("email worker started")
	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info().Msg("email worker stopped")
	return nil
}

func (w *Worker) handleVerificationEmail(ctx context.Context, t *asynq.Task) error {
	var p VerificationEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Envelope.To == "" {
		return errors.Join(errors.New("verification email without recipient"), asynq.SkipRetry)
	}
	if err := w.mailer.Send(ctx, p.Envelope); err != nil {
		w.log.Error().Err(err).Str("to", p.Envelope.To).Msg("verification email send failed")
		return err
	}
	w.log.Info().Str("to", p.Envelope.To).Msg("verification email sent")
	return nil
}
