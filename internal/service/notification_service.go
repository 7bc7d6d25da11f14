package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/events"
)

// NotificationService surfaces simulation events to operators. Delivery of the
// phishing emails themselves lives in the mailer; this service only mirrors
// the event stream to logs and an optional webhook collector.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.MailerConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.MailerConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPhishScheduled, n.handlePhishScheduled)
	n.dispatcher.Subscribe(events.EventPhishSent, n.handlePhishSent)
	n.dispatcher.Subscribe(events.EventLinkClicked, n.handleInteraction)
	n.dispatcher.Subscribe(events.EventCredentialsSubmitted, n.handleInteraction)
	n.dispatcher.Subscribe(events.EventRiskReset, n.handleRiskReset)
}

func (n *NotificationService) handlePhishScheduled(ctx context.Context, event events.Event) error {
	n.logger.Info("PhishScheduled", zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePhishSent(ctx context.Context, event events.Event) error {
	n.logger.Info("PhishSent", zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInteraction(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRiskReset(ctx context.Context, event events.Event) error {
	n.logger.Info("RiskReset", zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("staff_id", event.StaffID),
		zap.String("event_type", string(event.Type)))
}
