package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Настройки для MinIO (хранилище изображений питомцев)
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	// MinioPublicURL — базовый адрес, по которому изображения доступны клиентам.
	// Если пуст, строится из MinioEndpoint.
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	// Redis используется как поисковый гео-индекс
	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	RabbitMQ struct {
		RabbitMQURL  string `env:"RABBITMQ_URL,required"`
		ReindexQueue string `env:"RABBITMQ_REINDEX_QUEUE" envDefault:"pet_reindex_queue"`
		NotifyQueue  string `env:"RABBITMQ_NOTIFY_QUEUE" envDefault:"sighting_notify_queue"`
	}

	SMTP struct {
		Addr     string `env:"SMTP_ADDR" envDefault:"localhost:1025"`
		User     string `env:"SMTP_USER"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"SMTP_FROM" envDefault:"petfinder@localhost"`
	}

	ImageUploadTimeout time.Duration `env:"IMAGE_UPLOAD_TIMEOUT" envDefault:"15s"`
	IndexTimeout       time.Duration `env:"INDEX_TIMEOUT" envDefault:"3s"`
	NearbyRadiusMeters float64       `env:"NEARBY_RADIUS_METERS" envDefault:"20000"`
	ReconcileInterval  time.Duration `env:"RECONCILE_INTERVAL" envDefault:"10m"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.NearbyRadiusMeters <= 0 {
		return nil, fmt.Errorf("NEARBY_RADIUS_METERS must be positive, got %v", cfg.NearbyRadiusMeters)
	}

	return &cfg, nil
}
