package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-server/configs"
	"notes-server/repository"
	"notes-server/server"
	"notes-server/utils"

	"github.com/rs/zerolog"
)

func main() {
	cfg, notice, err := configs.Load()
	logger := configs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if notice != "" {
		logger.Debug().Msg(notice)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store unavailable")
	}
	defer closeStore()

	keys := utils.NewKeyStore()
	if err := keys.AddOrUpdateKey(cfg.JWTKeyID, []byte(cfg.JWTSecret)); err != nil {
		logger.Fatal().Err(err).Msg("invalid signing key")
	}
	deps.Issuer = utils.NewTokenIssuer(keys, cfg.JWTTTL)
	deps.BcryptCost = cfg.BcryptCost
	deps.Logger = logger
	deps.ServiceName = cfg.ServiceName
	deps.CORSOrigins = cfg.CORSOrigins
	deps.Metrics = true
	if !cfg.RequestLog {
		deps.RequestLogs = nil
	}

	app := server.NewApp(deps)

	if cfg.ConsulAddress != "" {
		service := configs.NewConsulService(cfg.ServiceName, cfg.ServiceHost, cfg.Port())
		if err := configs.RegisterService(ctx, http.DefaultClient, cfg.ConsulAddress, service); err != nil {
			logger.Fatal().Err(err).Msg("consul service registration failed")
		}
		logger.Info().Str("service", service.ID).Msg("registered with consul")
	}

	grpcServer := server.NewGRPCServer(cfg.ServiceName, logger)
	go func() {
		if err := grpcServer.RunGRPCServer(cfg.GRPCAddr); err != nil {
			logger.Fatal().Err(err).Msg("failed to start gRPC server")
		}
	}()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("driver", cfg.StoreDriver).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	grpcServer.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}

// openStore connects the configured storage driver and fills the repository fields of
// server.Dependencies. Sessions live in Redis unless the whole store is in memory.
func openStore(ctx context.Context, cfg configs.Config, logger zerolog.Logger) (server.Dependencies, func(), error) {
	var deps server.Dependencies

	switch cfg.StoreDriver {
	case configs.DriverMemory:
		mem := repository.NewMemoryStore()
		deps.Notes, deps.Users, deps.Titles, deps.Sessions, deps.RequestLogs = mem, mem, mem, mem, mem
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return deps, func() {}, nil

	case configs.DriverMongo:
		client, err := configs.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return deps, nil, err
		}
		logger.Info().Msg("connected to MongoDB")
		db := client.Database(cfg.MongoDatabase)

		notes := repository.NewMongoNoteRepository(db.Collection("notes"))
		users := repository.NewMongoUserRepository(db.Collection("users"))
		if err := notes.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return deps, nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return deps, nil, err
		}
		deps.Notes = notes
		deps.Users = users
		deps.Titles = repository.NewMongoTitleRepository(db.Collection("titles"))
		deps.RequestLogs = repository.NewMongoRequestLogRepository(db.Collection("logs"))

		redisClient, err := configs.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return deps, nil, err
		}
		deps.Sessions = repository.NewRedisSessionRepository(redisClient)

		return deps, func() {
			_ = redisClient.Close()
			_ = client.Disconnect(context.Background())
		}, nil

	case configs.DriverPostgres:
		pool, err := configs.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return deps, nil, err
		}
		logger.Info().Msg("connected to Postgres")
		if err := repository.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return deps, nil, err
		}
		deps.Notes = repository.NewPgNoteRepository(pool)
		deps.Users = repository.NewPgUserRepository(pool)
		deps.Titles = repository.NewPgTitleRepository(pool)
		deps.RequestLogs = repository.NewPgRequestLogRepository(pool)

		redisClient, err := configs.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			pool.Close()
			return deps, nil, err
		}
		deps.Sessions = repository.NewRedisSessionRepository(redisClient)

		return deps, func() {
			_ = redisClient.Close()
			pool.Close()
		}, nil
	}

	return deps, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
