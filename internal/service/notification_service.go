package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventAccountCreated, n.handleAccountCreated)
	n.dispatcher.Subscribe(events.EventPaymentSubmitted, n.handlePaymentSubmitted)
	n.dispatcher.Subscribe(events.EventOrderVerified, n.handleOrderVerified)
}

func (n *NotificationService) handleAccountCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountCreated", zap.String("owner_id", event.OwnerID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentSubmitted", zap.String("owner_id", event.OwnerID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOrderVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderVerified", zap.String("owner_id", event.OwnerID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("owner_id", event.OwnerID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("owner_id", event.OwnerID),
		zap.String("event_type", string(event.Type)))
}
