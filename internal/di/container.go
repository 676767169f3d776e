package di

import (
	"context"
	"time"

	"github.com/GoArmGo/PetFinder/internal/adapter/index/redisgeo"
	"github.com/GoArmGo/PetFinder/internal/adapter/storage/minio"
	"github.com/GoArmGo/PetFinder/internal/app"
	"github.com/GoArmGo/PetFinder/internal/config"
	"github.com/GoArmGo/PetFinder/internal/database/client"
	"github.com/GoArmGo/PetFinder/internal/database/postgres"
	"github.com/GoArmGo/PetFinder/internal/database/storage"
	"github.com/GoArmGo/PetFinder/internal/handler"
	"github.com/GoArmGo/PetFinder/internal/logger"
	"github.com/GoArmGo/PetFinder/internal/mailer"
	"github.com/GoArmGo/PetFinder/internal/rabbitmq"
	"github.com/GoArmGo/PetFinder/internal/usecase"
)

const initTimeout = 30 * time.Second

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	var closers []func() error
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// 2. PostgreSQL: подключение, миграции и gorm поверх того же пула
	dbClient, err := client.NewClient(ctx, cfg.DatabaseURL, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, dbClient.Close)

	if err := postgres.ApplyMigrations(dbClient.DB.DB, slogger); err != nil {
		return fail(err)
	}

	gormDB, err := postgres.OpenGorm(dbClient.DB.DB)
	if err != nil {
		return fail(err)
	}

	// 3. Инициализация хранилищ
	petStorage := storage.NewPetStorage(dbClient.DB, slogger)
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	reportStorage := storage.NewReportStorage(dbClient.DB, slogger)
	credentialStorage := postgres.NewGormCredentialStorage(gormDB, slogger)

	// 4. Гео-индекс в Redis
	rdb, err := redisgeo.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, rdb.Close)

	petIndex := redisgeo.NewPetIndex(rdb, slogger)
	userIndex := redisgeo.NewUserIndex(rdb, slogger)

	// 5. Хранилище изображений (S3 / MinIO)
	imageStore, err := minio.NewMinioClient(ctx, cfg, slogger)
	if err != nil {
		return fail(err)
	}

	// 6. RabbitMQ: один клиент публикует и потребляет обе очереди
	rabbitMQClient, err := rabbitmq.NewClient(cfg.RabbitMQ.RabbitMQURL, cfg.RabbitMQ.ReindexQueue, cfg.RabbitMQ.NotifyQueue, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() error {
		rabbitMQClient.Close()
		return nil
	})

	notifier := mailer.NewSMTPNotifier(cfg.SMTP.Addr, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, slogger)

	// 7. Инициализация бизнес-логики (usecases)
	timeouts := usecase.Timeouts{
		ImageUpload: cfg.ImageUploadTimeout,
		Index:       cfg.IndexTimeout,
	}

	petUseCase := usecase.NewPetUseCase(petStorage, userStorage, petIndex, imageStore, rabbitMQClient, timeouts, slogger)
	nearbyUseCase := usecase.NewNearbyUseCase(petIndex, cfg.NearbyRadiusMeters, timeouts, slogger)
	userUseCase := usecase.NewUserUseCase(userStorage, credentialStorage, userIndex, rabbitMQClient, timeouts, slogger)
	reportUseCase := usecase.NewReportUseCase(reportStorage, petStorage, userStorage, rabbitMQClient, notifier, slogger)
	syncUseCase := usecase.NewIndexSyncUseCase(petStorage, userStorage, petIndex, userIndex, timeouts, slogger)

	// 8. Ограничиваем 5 параллельных загрузок изображений
	uploadLimiter := make(chan struct{}, 5)

	router := handler.NewRouter(
		handler.NewPetHandler(petUseCase, nearbyUseCase, uploadLimiter, slogger),
		handler.NewUserHandler(userUseCase, slogger),
		handler.NewReportHandler(reportUseCase, slogger),
		cfg.RequestTimeout,
		slogger,
	)

	// 9. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, app.Deps{
		Router:           router,
		SyncUseCase:      syncUseCase,
		ReportUseCase:    reportUseCase,
		ReindexConsumer:  rabbitMQClient,
		SightingConsumer: rabbitMQClient,
		Closers:          closers,
	})

	slogger.Info("all dependencies initialized")
	return application, nil
}
