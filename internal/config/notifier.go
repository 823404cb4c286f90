package config

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

// NotifierConfig содержит конфигурацию воркера push-уведомлений.
type NotifierConfig struct {
	RabbitMQ          NotifierRabbitMQConfig
	FCM               FCMConfig
	APNS              APNSConfig
	Database          NotifierDatabaseConfig
	Log               NotifierLogConfig
	PushQueueName     string `yaml:"push_queue_name" env:"PUSH_QUEUE_NAME" env-default:"push_notifications"`
	WorkerConcurrency int    `yaml:"worker_concurrency" env:"WORKER_CONCURRENCY" env-default:"10"`
	HealthCheckPort   string `yaml:"health_check_port" env:"HEALTH_CHECK_PORT" env-default:"8088"`
}

type NotifierRabbitMQConfig struct {
	URI string `yaml:"uri" env:"RABBITMQ_URI" env-required:"true"`
}

type FCMConfig struct {
	CredentialsPath string `yaml:"credentials_path" env:"FCM_CREDENTIALS_PATH"` // Путь к файлу ключа сервис-аккаунта
}

type APNSConfig struct {
	KeyID   string `yaml:"key_id" env:"APNS_KEY_ID"`
	TeamID  string `yaml:"team_id" env:"APNS_TEAM_ID"`
	KeyPath string `yaml:"key_path" env:"APNS_KEY_PATH"`
	Topic   string `yaml:"topic" env:"APNS_TOPIC"`
}

// NotifierDatabaseConfig - подключение notifier-а к той же БД за токенами устройств.
type NotifierDatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-required:"true"`
}

type NotifierLogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// LoadNotifierConfig загружает конфигурацию notifier-а из yaml-файла с
// фолбэком на переменные окружения.
func LoadNotifierConfig() (*NotifierConfig, error) {
	configPath := "config.yml"

	var cfg NotifierConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v. Попытка чтения из переменных окружения.", configPath, err)
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("ошибка загрузки конфигурации notifier: %w", err)
		}
	}
	return &cfg, nil
}
