package main // Entry point package

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/config"     // Internal config loader
    "github.com/iliyamo/tailor-api/internal/database"   // MySQL pool and schema
    "github.com/iliyamo/tailor-api/internal/handler"    // HTTP handlers
    "github.com/iliyamo/tailor-api/internal/logger"     // zerolog setup
    "github.com/iliyamo/tailor-api/internal/queue"      // audit consumer
    "github.com/iliyamo/tailor-api/internal/repository" // MySQL repositories
    "github.com/iliyamo/tailor-api/internal/router"     // Internal router setup
    "github.com/iliyamo/tailor-api/internal/service"    // business logic
    "github.com/iliyamo/tailor-api/internal/utils"      // tokens and passwords
)

func main() {
    if err := config.LoadDotEnv(os.Getenv("ENV_PATH")); err != nil {
        log.Warn().Err(err).Msg("could not read .env file")
    }
    cfg := config.Load() // Load environment config
    logger.Init(cfg.Env, cfg.LogLevel)
    if err := config.Validate(cfg); err != nil {
        log.Fatal().Err(err).Msg("invalid configuration")
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    db, err := database.Open(cfg.DB)
    if err != nil {
        log.Fatal().Err(err).Msg("database connection failed")
    }
    defer db.Close()
    mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
    err = database.Migrate(mctx, db)
    cancel()
    if err != nil {
        log.Fatal().Err(err).Msg("database migration failed")
    }

    rdb := config.NewRedisClient(config.LoadRedisConfig())
    if rdb == nil {
        log.Warn().Msg("redis unavailable, response cache disabled")
    } else {
        defer rdb.Close()
    }

    var events service.EventPublisher = service.NoopPublisher{}
    qcfg := config.LoadQueueConfig()
    if qcfg.Enabled {
        pub := service.NewAMQPPublisher(qcfg, 1024)
        go pub.Run(ctx)
        events = pub
        if qcfg.ConsumerEnabled {
            go func() {
                if err := queue.StartAuditConsumer(ctx, qcfg); err != nil && !errors.Is(err, context.Canceled) {
                    log.Error().Err(err).Msg("audit consumer stopped")
                }
            }()
        }
    }

    users := repository.NewUserRepo(db)
    sessions := repository.NewTokenRepo(db)
    customers := repository.NewCustomerRepo(db)
    measurements := repository.NewMeasurementRepo(db)
    codec := utils.NewTokenCodec(cfg.Token)

    authSvc := service.NewAuthService(users, sessions, utils.NewPasswordHasher(cfg.BcryptCost), codec, events)
    customerSvc := service.NewCustomerService(users, customers, measurements, events)
    go service.NewSessionSweeper(sessions, cfg.SweepInterval).Run(ctx)

    e := router.New(router.Deps{
        Config:    cfg,
        Cache:     config.LoadCacheConfig(),
        Redis:     rdb,
        Verifier:  codec,
        Auth:      handler.NewAuthHandler(authSvc),
        Customers: handler.NewCustomerHandler(customerSvc),
    })

    addr := ":" + cfg.Port // Address string with port
    go func() {
        log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("server failed")
        }
    }()

    <-ctx.Done()
    log.Info().Msg("shutting down")
    sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer scancel()
    if err := e.Shutdown(sctx); err != nil {
        log.Error().Err(err).Msg("graceful shutdown failed")
    }
}
