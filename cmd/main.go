package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	reservationpb "github.com/reservefield/booking-core/internal/api/reservation/v1"
	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/config"
	"github.com/reservefield/booking-core/internal/db"
	"github.com/reservefield/booking-core/internal/httpapi"
	"github.com/reservefield/booking-core/internal/lock"
	"github.com/reservefield/booking-core/internal/logging"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
	"github.com/reservefield/booking-core/internal/service"
)

func main() {
	// 1. Конфиг: .env, затем переменные окружения.
	config.LoadDotEnv()

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		bootLogger := logging.Init("booking-core", "development", "info")
		bootLogger.Fatal().Err(err).Msg("load app config")
	}
	logger := logging.Init("booking-core", appCfg.Env, appCfg.LogLevel)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("load db config")
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init db")
	}

	// 3. Миграции моделей и ограничений.
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal().Err(err).Msg("auto migrate")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("sql DB")
	}
	defer sqlDB.Close()

	// 4. Ядро бронирования.
	locker, closeLocker := newLocker(appCfg, logger)
	defer closeLocker()

	core := booking.NewService(
		repository.NewStore(gormDB),
		booking.WithLocation(appCfg.Location),
		booking.WithLocker(locker),
		booking.WithLogger(logger.With().Str("component", "booking").Logger()),
	)

	// 5. gRPC.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(service.LoggingInterceptor(logger)))
	reservationpb.RegisterReservationServiceServer(grpcServer, service.NewReservationService(core, logger))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", appCfg.GRPCAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", appCfg.GRPCAddr).Msg("listen grpc")
	}

	go func() {
		logger.Info().Str("addr", appCfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal().Err(err).Msg("grpc serve")
		}
	}()

	// 6. HTTP.
	router := httpapi.NewRouter(core, httpapi.Config{
		JWTSecret:   []byte(appCfg.JWTSecret),
		CORSOrigins: appCfg.CORSOrigins,
		Logger:      logger.With().Str("component", "http").Logger(),
	})
	httpServer := httpapi.NewServer(appCfg.HTTPAddr, router, appCfg.HTTPReadTimeout, appCfg.HTTPWriteTimeout)

	go func() {
		logger.Info().Str("addr", appCfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http serve")
		}
	}()

	// 7. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	grpcServer.GracefulStop()
}

// newLocker выбирает Redis, если он настроен, иначе блокировку в памяти процесса
// (годится для одного экземпляра).
func newLocker(cfg *config.AppConfig, logger zerolog.Logger) (lock.Locker, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn().Msg("REDIS_ADDR is empty, using in-process booking lock")
		return lock.NewLocalLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping")
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis booking lock")
	return lock.NewRedisLocker(client, cfg.LockTTL), func() { _ = client.Close() }
}
