package configservice

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"daydreams-server/internal/repository"
)

const (
	// Ключи динамической конфигурации, доступные другим пакетам.
	ConfigKeyWeatherAPIKey    = "weather.api_key"
	ConfigKeyPromptPushTitle  = "push.prompt_created_title"
	ConfigKeyReminderPushBody = "push.daily_reminder_body"
	ConfigKeyHistoryPageSize  = "history.page_size"

	DefaultPromptPushTitle  = "Your daydream is ready"
	DefaultReminderPushBody = "Don't forget today's daydream!"
	DefaultHistoryPageSize  = 20

	// Минимальный интервал между перечитываниями конфигурации из БД.
	minReloadInterval = 30 * time.Second
)

// ConfigService управляет динамическими конфигурациями, загруженными из БД.
// Он обеспечивает потокобезопасный доступ к этим конфигурациям.
type ConfigService struct {
	logger     *zap.Logger
	repo       repository.DynamicConfigRepository
	db         repository.DBTX
	mu         sync.RWMutex
	configs    map[string]string
	lastReload time.Time
}

// NewConfigService создает новый экземпляр ConfigService и загружает начальные конфигурации.
func NewConfigService(repo repository.DynamicConfigRepository, db repository.DBTX, logger *zap.Logger) (*ConfigService, error) {
	cs := &ConfigService{
		logger:  logger.Named("ConfigService"),
		repo:    repo,
		db:      db,
		configs: make(map[string]string),
	}

	cs.logger.Info("Loading initial dynamic configurations...")
	if err := cs.loadAllConfigs(context.Background()); err != nil {
		cs.logger.Error("Failed to load initial dynamic configurations", zap.Error(err))
		return nil, err
	}
	cs.logger.Info("Dynamic configurations loaded", zap.Int("count", len(cs.configs)))

	return cs, nil
}

// loadAllConfigs загружает все конфигурации из репозитория в кэш.
func (cs *ConfigService) loadAllConfigs(ctx context.Context) error {
	configs, err := cs.repo.GetAll(ctx, cs.db)
	if err != nil {
		return err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.configs = make(map[string]string, len(configs))
	for key, value := range configs {
		cs.configs[key] = value
	}
	cs.lastReload = time.Now()
	return nil
}

// Reload перечитывает конфигурации из БД, но не чаще чем раз в minReloadInterval.
func (cs *ConfigService) Reload(ctx context.Context) error {
	cs.mu.RLock()
	last := cs.lastReload
	cs.mu.RUnlock()

	if time.Since(last) < minReloadInterval {
		cs.logger.Debug("Reload skipped, last load was too recent", zap.Time("last_reload", last))
		return nil
	}
	return cs.loadAllConfigs(ctx)
}

// get возвращает значение конфигурации по ключу (внутренний метод без логов).
func (cs *ConfigService) get(key string) (string, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	val, ok := cs.configs[key]
	return val, ok
}

// GetString возвращает строковое значение конфигурации по ключу или значение по умолчанию.
func (cs *ConfigService) GetString(key string, defaultValue string) string {
	val, ok := cs.get(key)
	if !ok || val == "" {
		return defaultValue
	}
	return val
}

// GetInt возвращает целочисленное значение конфигурации по ключу или значение по умолчанию.
func (cs *ConfigService) GetInt(key string, defaultValue int) int {
	strVal, ok := cs.get(key)
	if !ok {
		return defaultValue
	}
	intVal, err := strconv.Atoi(strVal)
	if err != nil {
		cs.logger.Warn("Failed to parse int config, using default",
			zap.String("key", key), zap.String("value", strVal), zap.Error(err))
		return defaultValue
	}
	return intVal
}

// WeatherAPIKey возвращает ключ внешнего погодного API.
// Если ключ отсутствует в кэше, делается попытка перечитать конфигурацию из БД.
func (cs *ConfigService) WeatherAPIKey(ctx context.Context) (string, error) {
	if val, ok := cs.get(ConfigKeyWeatherAPIKey); ok && val != "" {
		return val, nil
	}

	if err := cs.Reload(ctx); err != nil {
		return "", err
	}

	val, ok := cs.get(ConfigKeyWeatherAPIKey)
	if !ok || val == "" {
		return "", repository.ErrConfigKeyNotFound
	}
	return val, nil
}
