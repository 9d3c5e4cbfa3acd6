package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
)

// NotificationService turns ticket events into (stubbed) email, SMS and Slack messages,
// honouring the channel toggles in settings.
type NotificationService struct {
	dispatcher events.Dispatcher
	settings   repository.SettingsRepository
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, settings repository.SettingsRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		settings:   settings,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handle)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	channels, err := n.channels(ctx)
	if err != nil {
		return err
	}
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))

	if channels.EmailEnabled {
		n.sendEmailNotificationStub(ctx, event)
	}
	if channels.SMSEnabled && event.Type == events.EventTicketEscalated {
		n.sendSMSNotificationStub(ctx, event)
	}
	if channels.SlackEnabled {
		n.sendSlackNotificationStub(ctx, event)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) channels(ctx context.Context) (domain.NotificationSettings, error) {
	if n.settings == nil {
		return domain.DefaultSettings().NotificationSettings, nil
	}
	s, err := n.settings.Get(ctx)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	return s.NotificationSettings, nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendSMSNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.SMSFrom) == "" {
		return
	}
	n.logger.Debug("sendSMSNotificationStub",
		zap.String("from", n.cfg.SMSFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendSlackNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.SlackURL) == "" {
		return
	}
	n.logger.Debug("sendSlackNotificationStub",
		zap.String("url", n.cfg.SlackURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
