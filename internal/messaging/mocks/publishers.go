package mocks

import (
	"context"

	"daydreams-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock PushNotificationPublisher
type PushNotificationPublisher struct {
	mock.Mock
}

func (m *PushNotificationPublisher) PublishPushNotification(ctx context.Context, payload models.PushNotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
