package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
	msgmocks "daydreams-server/internal/messaging/mocks"
	"daydreams-server/internal/models"
	repomocks "daydreams-server/internal/repository/mocks"
)

type schedulerFixture struct {
	s            *ReminderScheduler
	settingsRepo *repomocks.SettingsRepository
	partnerRepo  *repomocks.PartnershipRepository
	promptRepo   *repomocks.PromptRepository
	publisher    *msgmocks.PushNotificationPublisher

	partnership *models.Partnership
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	f := &schedulerFixture{
		settingsRepo: new(repomocks.SettingsRepository),
		partnerRepo:  new(repomocks.PartnershipRepository),
		promptRepo:   new(repomocks.PromptRepository),
		publisher:    new(msgmocks.PushNotificationPublisher),
	}
	f.partnership = &models.Partnership{
		ID:        uuid.New(),
		InviterID: uuid.New(),
		InviteeID: uuid.New(),
	}

	cfgRepo := new(repomocks.DynamicConfigRepository)
	cfgRepo.On("GetAll", mock.Anything, nil).Return(map[string]string{}, nil)
	cfg, err := configservice.NewConfigService(cfgRepo, nil, zap.NewNop())
	require.NoError(t, err)

	f.s = NewReminderScheduler(
		nil,
		f.settingsRepo,
		f.partnerRepo,
		f.promptRepo,
		f.publisher,
		cfg,
		time.Minute,
		zap.NewNop(),
	)
	// 09:00 UTC ровно.
	f.s.now = func() time.Time { return time.Date(2025, 6, 15, 9, 0, 30, 0, time.UTC) }
	return f
}

func (f *schedulerFixture) settings(hour, minute int) *models.CategorySettings {
	return &models.CategorySettings{
		PartnershipID:     f.partnership.ID,
		EnabledCategories: []string{"park"},
		ReminderHour:      hour,
		ReminderMinute:    minute,
		Timezone:          "UTC",
	}
}

func TestReminderScheduler(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("reminds assigned author when story missing", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		prompt := &models.DailyPrompt{
			ID:            uuid.New(),
			PartnershipID: f.partnership.ID,
			PromptDate:    today,
			AssignedTo:    models.AuthorRoleInvitee,
		}

		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{f.settings(9, 0)}, nil)
		f.partnerRepo.On("GetByID", ctx, nil, f.partnership.ID).Return(f.partnership, nil)
		f.promptRepo.On("GetByDate", ctx, nil, f.partnership.ID, today).Return(prompt, nil)
		f.publisher.On("PublishPushNotification", ctx, mock.AnythingOfType("models.PushNotificationPayload")).Return(nil)

		f.s.runOnce(ctx)

		f.publisher.AssertCalled(t, "PublishPushNotification", ctx, mock.MatchedBy(func(p models.PushNotificationPayload) bool {
			return p.UserID == f.partnership.InviteeID && p.Data["event"] == models.EventDailyReminder
		}))
	})

	t.Run("does not remind twice the same day", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		prompt := &models.DailyPrompt{
			ID:            uuid.New(),
			PartnershipID: f.partnership.ID,
			AssignedTo:    models.AuthorRoleInviter,
		}

		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{f.settings(9, 0)}, nil)
		f.partnerRepo.On("GetByID", ctx, nil, f.partnership.ID).Return(f.partnership, nil)
		f.promptRepo.On("GetByDate", ctx, nil, f.partnership.ID, today).Return(prompt, nil)
		f.publisher.On("PublishPushNotification", ctx, mock.Anything).Return(nil)

		f.s.runOnce(ctx)
		f.s.runOnce(ctx)

		f.publisher.AssertNumberOfCalls(t, "PublishPushNotification", 1)
	})

	t.Run("story already written skips reminder", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		prompt := &models.DailyPrompt{
			ID:         uuid.New(),
			AssignedTo: models.AuthorRoleInviter,
			StoryText:  "done for today",
		}

		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{f.settings(9, 0)}, nil)
		f.partnerRepo.On("GetByID", ctx, nil, f.partnership.ID).Return(f.partnership, nil)
		f.promptRepo.On("GetByDate", ctx, nil, f.partnership.ID, today).Return(prompt, nil)

		f.s.runOnce(ctx)

		f.publisher.AssertNotCalled(t, "PublishPushNotification", mock.Anything, mock.Anything)
	})

	t.Run("outside reminder window does nothing", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{f.settings(20, 30)}, nil)

		f.s.runOnce(ctx)

		f.partnerRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishPushNotification", mock.Anything, mock.Anything)
	})

	t.Run("no prompt yet reminds both partners", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{f.settings(9, 0)}, nil)
		f.partnerRepo.On("GetByID", ctx, nil, f.partnership.ID).Return(f.partnership, nil)
		f.promptRepo.On("GetByDate", ctx, nil, f.partnership.ID, today).Return(nil, models.ErrPromptNotFound)
		f.publisher.On("PublishPushNotification", ctx, mock.Anything).Return(nil)

		f.s.runOnce(ctx)

		f.publisher.AssertNumberOfCalls(t, "PublishPushNotification", 2)
	})

	t.Run("partnership timezone shifts the window", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ctx := context.Background()

		// 09:00 UTC = 05:00 в Нью-Йорке, окно 09:00 местного не наступило.
		settings := f.settings(9, 0)
		settings.Timezone = "America/New_York"
		f.settingsRepo.On("ListAll", ctx, nil).Return([]*models.CategorySettings{settings}, nil)

		f.s.runOnce(ctx)

		f.publisher.AssertNotCalled(t, "PublishPushNotification", mock.Anything, mock.Anything)
	})
}

func TestReminderSchedulerStartStop(t *testing.T) {
	f := newSchedulerFixture(t)
	f.s.checkInterval = 10 * time.Millisecond
	f.settingsRepo.On("ListAll", mock.Anything, nil).Return([]*models.CategorySettings{}, nil)

	f.s.Start()
	time.Sleep(50 * time.Millisecond)
	f.s.Stop()

	assert.True(t, len(f.settingsRepo.Calls) > 0, "шедулер должен успеть выполнить хотя бы одну проверку")
}
