package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
	repomocks "daydreams-server/internal/repository/mocks"
)

// stubStreamer собирает websocket-уведомления вместо реальной рассылки.
type stubStreamer struct {
	mu     sync.Mutex
	events []streamEvent
}

type streamEvent struct {
	UserID uuid.UUID
	Type   string
}

func (s *stubStreamer) NotifyUser(userID uuid.UUID, messageType string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, streamEvent{UserID: userID, Type: messageType})
}

func (s *stubStreamer) eventsFor(userID uuid.UUID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var types []string
	for _, e := range s.events {
		if e.UserID == userID {
			types = append(types, e.Type)
		}
	}
	return types
}

// newTestConfigService строит ConfigService поверх пустого мок-репозитория.
func newTestConfigService(t *testing.T) *configservice.ConfigService {
	t.Helper()
	repo := new(repomocks.DynamicConfigRepository)
	repo.On("GetAll", mock.Anything, nil).Return(map[string]string{}, nil)
	cfg, err := configservice.NewConfigService(repo, nil, zap.NewNop())
	require.NoError(t, err)
	return cfg
}
