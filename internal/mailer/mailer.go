// Package mailer delivers simulated phishing emails as a fire-and-forget
// handoff: callers enqueue and never observe the outcome.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/domain"
)

// Message is one simulated phishing email to deliver.
type Message struct {
	StaffID   string
	StaffName string
	To        string
	Template  domain.Template
}

// Notifier is the delivery handoff consumed by the dispatch loop.
type Notifier interface {
	Enqueue(msg Message)
}

// AsyncMailer renders and "sends" messages on a background worker goroutine.
// The real SMTP hop is out of scope; delivery is logged and optionally
// forwarded to a webhook collector.
type AsyncMailer struct {
	cfg    config.MailerConfig
	logger *zap.Logger
	queue  chan Message
}

// NewAsyncMailer builds the mailer with a bounded queue.
func NewAsyncMailer(cfg config.MailerConfig, logger *zap.Logger) *AsyncMailer {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	return &AsyncMailer{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Message, size),
	}
}

// Start runs the delivery worker until the context is cancelled.
func (m *AsyncMailer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-m.queue:
				m.deliver(msg)
			}
		}
	}()
}

// Enqueue hands a message to the worker without blocking the caller.
// A full queue drops the message; delivery is best-effort.
func (m *AsyncMailer) Enqueue(msg Message) {
	select {
	case m.queue <- msg:
	default:
		m.logger.Warn("mail queue full, dropping message",
			zap.String("staff_id", msg.StaffID),
			zap.String("template", string(msg.Template)))
	}
}

func (m *AsyncMailer) deliver(msg Message) {
	clickURL := fmt.Sprintf("%s/t/%s/click?tpl=%s", m.cfg.TrackingBaseURL, msg.StaffID, msg.Template)

	rendered, err := Render(msg.Template, msg.StaffName, clickURL)
	if err != nil {
		m.logger.Error("render phishing email", zap.Error(err), zap.String("staff_id", msg.StaffID))
		return
	}

	m.logger.Info("simulated phishing email dispatched",
		zap.String("from", m.cfg.EmailFrom),
		zap.String("to", msg.To),
		zap.String("template", string(msg.Template)),
		zap.String("subject", rendered.Subject))

	if m.cfg.WebhookURL != "" {
		m.logger.Debug("forwarding delivery record to webhook",
			zap.String("url", m.cfg.WebhookURL),
			zap.String("staff_id", msg.StaffID))
	}
}
