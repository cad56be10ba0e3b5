package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/config"
)

type fakeMailer struct {
	sent chan EmailEnvelope
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan EmailEnvelope, 4)}
}

func (m *fakeMailer) Send(_ context.Context, env EmailEnvelope) error {
	m.sent <- env
	return m.err
}

func TestBuildVerificationEmail(t *testing.T) {
	env := BuildVerificationEmail("http://localhost:8080/", "ann@example.com", "tok123")
	assert.Equal(t, "ann@example.com", env.To)
	assert.Equal(t, "Please verify your email address", env.Subject)
	assert.Contains(t, env.Body, "http://localhost:8080/users/verify/tok123")
}

func TestNewVerificationTask(t *testing.T) {
	task, err := NewVerificationTask("https://api.example.com", "ann@example.com", "tok")
	require.NoError(t, err)
	assert.Equal(t, TaskVerificationEmail, task.Type())

	var p VerificationEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "ann@example.com", p.Email)
	assert.Equal(t, "tok", p.VerificationToken)
	assert.Contains(t, p.Envelope.Body, "https://api.example.com/users/verify/tok")
}

func TestWorkerHandlesVerificationEmail(t *testing.T) {
	mailer := newFakeMailer()
	w := NewWorker(asynq.RedisClientOpt{Addr: "127.0.0.1:0"}, mailer, zerolog.Nop())

	task, err := NewVerificationTask("http://app", "ann@example.com", "tok")
	require.NoError(t, err)
	require.NoError(t, w.handleVerificationEmail(context.Background(), task))

	env := <-mailer.sent
	assert.Equal(t, "ann@example.com", env.To)
}

func TestWorkerSkipsRetryOnBadPayload(t *testing.T) {
	w := NewWorker(asynq.RedisClientOpt{Addr: "127.0.0.1:0"}, newFakeMailer(), zerolog.Nop())

	err := w.handleVerificationEmail(context.Background(), asynq.NewTask(TaskVerificationEmail, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestWorkerReturnsSendError(t *testing.T) {
	mailer := newFakeMailer()
	mailer.err = errors.New("smtp down")
	w := NewWorker(asynq.RedisClientOpt{Addr: "127.0.0.1:0"}, mailer, zerolog.Nop())

	task, err := NewVerificationTask("http://app", "ann@example.com", "tok")
	require.NoError(t, err)
	err = w.handleVerificationEmail(context.Background(), task)
	assert.EqualError(t, err, "smtp down")
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestDirectNotifierSendsInBackground(t *testing.T) {
	mailer := newFakeMailer()
	n := NewDirectNotifier(mailer, "http://app", zerolog.Nop())

	require.NoError(t, n.NotifyVerification(context.Background(), "ann@example.com", "tok"))

	select {
	case env := <-mailer.sent:
		assert.Contains(t, env.Body, "http://app/users/verify/tok")
	case <-time.After(2 * time.Second):
		t.Fatal("email was not sent")
	}
}

func TestDirectNotifierSwallowsSendError(t *testing.T) {
	mailer := newFakeMailer()
	mailer.err = errors.New("boom")
	n := NewDirectNotifier(mailer, "http://app", zerolog.Nop())

	assert.NoError(t, n.NotifyVerification(context.Background(), "ann@example.com", "tok"))
	<-mailer.sent
}

type lockedBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestQueueNotifierDoesNotBlockOnRedis(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: addr})
	t.Cleanup(func() { client.Close() })

	var logs lockedBuffer
	n := NewQueueNotifier(client, "http://app", zerolog.New(&logs))

	start := time.Now()
	require.NoError(t, n.NotifyVerification(context.Background(), "ann@example.com", "tok"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "verification task not enqueued")
	}, 10*time.Second, 50*time.Millisecond)
}

func TestPlunkMailer(t *testing.T) {
	var got plunkSendBody
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewPlunkMailer("key", srv.URL, "from@example.com", "", srv.Client())
	require.NoError(t, m.Send(context.Background(), EmailEnvelope{To: "ann@example.com", Subject: "s", Body: "b"}))
	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, "ann@example.com", got.To)
	assert.Equal(t, "from@example.com", got.From)
}

func TestPlunkMailerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	m := NewPlunkMailer("key", srv.URL, "", "", srv.Client())
	err := m.Send(context.Background(), EmailEnvelope{To: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestNewMailer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.Provider = "log"
	m, err := NewMailer(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	cfg.Mail.Provider = "smtp"
	_, err = NewMailer(cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg.Mail.Provider = "plunk"
	_, err = NewMailer(cfg, zerolog.Nop())
	assert.Error(t, err)
	cfg.Mail.PlunkAPIKey = "k"
	m, err = NewMailer(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &PlunkMailer{}, m)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@x.com", "reply@x.com", EmailEnvelope{To: "to@x.com", Subject: "Hi", Body: "<html>hi</html>"}))
	assert.Contains(t, msg, "Reply-To: reply@x.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")

	plain := string(buildMessage("from@x.com", "", EmailEnvelope{To: "to@x.com", Subject: "Hi", Body: "hi"}))
	assert.NotContains(t, plain, "Reply-To")
	assert.Contains(t, plain, "Content-Type: text/plain")
}
