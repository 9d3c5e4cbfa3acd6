package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
)

func TestNotificationsFollowChannelSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil, nil)
	notifier := NewNotificationService(dispatcher, f.repo, zap.New(core), config.NotificationConfig{
		EmailFrom: "helpdesk@company.com",
		SMSFrom:   "+1-555-0000",
		SlackURL:  "https://hooks.slack.invalid/T000",
	})
	notifier.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: "0006"}))
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendSlackNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendSMSNotificationStub").Len())

	_, err := f.repo.Update(ctx, func(s *domain.Settings) error {
		s.NotificationSettings = domain.NotificationSettings{SMSEnabled: true}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketEscalated, TicketID: "0001"}))
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendSMSNotificationStub").Len())
}
