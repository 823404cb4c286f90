package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
	"daydreams-server/internal/messaging"
	"daydreams-server/internal/models"
	"daydreams-server/internal/repository"
)

// ReminderScheduler периодически проверяет, у каких партнерств наступило
// время дневного напоминания, и публикует push автору дня, если история
// еще не написана.
type ReminderScheduler struct {
	db           repository.DBTX
	settingsRepo repository.SettingsRepository
	partnerRepo  repository.PartnershipRepository
	promptRepo   repository.PromptRepository
	publisher    messaging.PushNotificationPublisher
	cfg          *configservice.ConfigService
	logger       *zap.Logger

	checkInterval time.Duration
	shutdownChan  chan struct{}
	wg            sync.WaitGroup

	// Партнерства, которым напоминание за сегодня уже отправлено.
	mu       sync.Mutex
	lastSent map[uuid.UUID]string

	now func() time.Time
}

// NewReminderScheduler создает шедулер напоминаний.
func NewReminderScheduler(
	db repository.DBTX,
	settingsRepo repository.SettingsRepository,
	partnerRepo repository.PartnershipRepository,
	promptRepo repository.PromptRepository,
	publisher messaging.PushNotificationPublisher,
	cfg *configservice.ConfigService,
	checkInterval time.Duration,
	logger *zap.Logger,
) *ReminderScheduler {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &ReminderScheduler{
		db:            db,
		settingsRepo:  settingsRepo,
		partnerRepo:   partnerRepo,
		promptRepo:    promptRepo,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger.Named("ReminderScheduler"),
		checkInterval: checkInterval,
		shutdownChan:  make(chan struct{}),
		lastSent:      make(map[uuid.UUID]string),
		now:           time.Now,
	}
}

// Start запускает цикл проверки в отдельной горутине.
func (s *ReminderScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()

		s.logger.Info("Reminder scheduler started", zap.Duration("interval", s.checkInterval))
		for {
			select {
			case <-s.shutdownChan:
				s.logger.Info("Reminder scheduler stopped")
				return
			case <-ticker.C:
				s.runOnce(context.Background())
			}
		}
	}()
}

// Stop останавливает шедулер и дожидается завершения текущей проверки.
func (s *ReminderScheduler) Stop() {
	close(s.shutdownChan)
	s.wg.Wait()
}

// runOnce проходит по всем настройкам и шлет напоминания, чье время пришло.
func (s *ReminderScheduler) runOnce(ctx context.Context) {
	settingsList, err := s.settingsRepo.ListAll(ctx, s.db)
	if err != nil {
		s.logger.Error("Failed to list settings", zap.Error(err))
		return
	}

	for _, settings := range settingsList {
		if err := s.checkPartnership(ctx, settings); err != nil {
			s.logger.Error("Reminder check failed",
				zap.String("partnershipID", settings.PartnershipID.String()),
				zap.Error(err))
		}
	}
}

func (s *ReminderScheduler) checkPartnership(ctx context.Context, settings *models.CategorySettings) error {
	localNow := s.now().In(settings.Location())

	// Окно срабатывания: от hh:mm до hh:mm + интервал проверки.
	reminderMinute := settings.ReminderHour*60 + settings.ReminderMinute
	nowMinute := localNow.Hour()*60 + localNow.Minute()
	windowMinutes := int(s.checkInterval.Minutes())
	if windowMinutes < 1 {
		windowMinutes = 1
	}
	if nowMinute < reminderMinute || nowMinute >= reminderMinute+windowMinutes {
		return nil
	}

	localDate := localNow.Format("2006-01-02")
	s.mu.Lock()
	alreadySent := s.lastSent[settings.PartnershipID] == localDate
	s.mu.Unlock()
	if alreadySent {
		return nil
	}

	partnership, err := s.partnerRepo.GetByID(ctx, s.db, settings.PartnershipID)
	if err != nil {
		return fmt.Errorf("failed to load partnership: %w", err)
	}

	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC)
	targetID := partnership.InviterID

	prompt, err := s.promptRepo.GetByDate(ctx, s.db, partnership.ID, today)
	switch {
	case err == nil:
		if prompt.StoryText != "" {
			// История уже написана, напоминать не о чем.
			s.markSent(partnership.ID, localDate)
			return nil
		}
		if prompt.AssignedTo == models.AuthorRoleInvitee {
			targetID = partnership.InviteeID
		}
	case errors.Is(err, models.ErrPromptNotFound):
		// Промпт за сегодня никто не открывал: напоминаем обоим зайти.
		if err := s.publishReminder(ctx, partnership.InviteeID, nil); err != nil {
			return err
		}
	default:
		return err
	}

	if err := s.publishReminder(ctx, targetID, prompt); err != nil {
		return err
	}
	s.markSent(partnership.ID, localDate)
	return nil
}

func (s *ReminderScheduler) markSent(partnershipID uuid.UUID, localDate string) {
	s.mu.Lock()
	s.lastSent[partnershipID] = localDate
	s.mu.Unlock()
}

func (s *ReminderScheduler) publishReminder(ctx context.Context, userID uuid.UUID, prompt *models.DailyPrompt) error {
	body := s.cfg.GetString(configservice.ConfigKeyReminderPushBody, configservice.DefaultReminderPushBody)
	data := map[string]string{"event": models.EventDailyReminder}
	if prompt != nil {
		data["prompt_id"] = prompt.ID.String()
	}

	payload := models.PushNotificationPayload{
		UserID: userID,
		Notification: models.PushNotification{
			Title: "Daily daydream",
			Body:  body,
		},
		Data: data,
	}
	if err := s.publisher.PublishPushNotification(ctx, payload); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}

	s.logger.Debug("Reminder published", zap.String("userID", userID.String()))
	return nil
}
