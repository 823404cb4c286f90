package push

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daydreams-server/internal/models"
)

// Моки провайдера токенов и платформенных отправителей.
type mockTokenProvider struct {
	mock.Mock
}

func (m *mockTokenProvider) GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]models.DeviceTokenInfo, error) {
	args := m.Called(ctx, userID)
	var tokens []models.DeviceTokenInfo
	if v, ok := args.Get(0).([]models.DeviceTokenInfo); ok {
		tokens = v
	}
	return tokens, args.Error(1)
}

type mockPlatformSender struct {
	mock.Mock
	platform string
}

func (m *mockPlatformSender) Send(ctx context.Context, tokens []string, notification models.PushNotification, data map[string]string) error {
	args := m.Called(ctx, tokens, notification, data)
	return args.Error(0)
}

func (m *mockPlatformSender) Platform() string {
	return m.platform
}

func testPayload(userID uuid.UUID) models.PushNotificationPayload {
	return models.PushNotificationPayload{
		UserID: userID,
		Notification: models.PushNotification{
			Title: "Your daydream is ready",
			Body:  "It's your turn to write today's story.",
		},
		Data: map[string]string{"event": models.EventPromptCreated},
	}
}

func TestSendNotification(t *testing.T) {
	t.Run("routes tokens to their platforms", func(t *testing.T) {
		tp := new(mockTokenProvider)
		fcm := &mockPlatformSender{platform: "android"}
		apns := &mockPlatformSender{platform: "ios"}
		svc := NewNotificationService(tp, zap.NewNop(), fcm, apns)

		userID := uuid.New()
		tp.On("GetUserDeviceTokens", mock.Anything, userID).Return([]models.DeviceTokenInfo{
			{Token: "droid-1", Platform: "android"},
			{Token: "iphone-1", Platform: "ios"},
			{Token: "droid-2", Platform: "android"},
		}, nil)
		fcm.On("Send", mock.Anything, []string{"droid-1", "droid-2"}, mock.Anything, mock.Anything).Return(nil)
		apns.On("Send", mock.Anything, []string{"iphone-1"}, mock.Anything, mock.Anything).Return(nil)

		err := svc.SendNotification(context.Background(), testPayload(userID))
		require.NoError(t, err)
		fcm.AssertExpectations(t)
		apns.AssertExpectations(t)
	})

	t.Run("no tokens is not an error", func(t *testing.T) {
		tp := new(mockTokenProvider)
		fcm := &mockPlatformSender{platform: "android"}
		svc := NewNotificationService(tp, zap.NewNop(), fcm, nil)

		userID := uuid.New()
		tp.On("GetUserDeviceTokens", mock.Anything, userID).Return([]models.DeviceTokenInfo{}, nil)

		err := svc.SendNotification(context.Background(), testPayload(userID))
		require.NoError(t, err)
		fcm.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("platform failure is returned", func(t *testing.T) {
		tp := new(mockTokenProvider)
		apns := &mockPlatformSender{platform: "ios"}
		svc := NewNotificationService(tp, zap.NewNop(), nil, apns)

		userID := uuid.New()
		tp.On("GetUserDeviceTokens", mock.Anything, userID).Return([]models.DeviceTokenInfo{
			{Token: "iphone-1", Platform: "ios"},
		}, nil)
		apns.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("apns unavailable"))

		err := svc.SendNotification(context.Background(), testPayload(userID))
		assert.ErrorContains(t, err, "apns")
	})

	t.Run("token provider failure is swallowed", func(t *testing.T) {
		tp := new(mockTokenProvider)
		svc := NewNotificationService(tp, zap.NewNop(), nil, nil)

		userID := uuid.New()
		tp.On("GetUserDeviceTokens", mock.Anything, userID).Return(nil, errors.New("db down"))

		err := svc.SendNotification(context.Background(), testPayload(userID))
		assert.NoError(t, err)
	})
}
