package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/blogsphere/api/internal/api"
	"github.com/blogsphere/api/internal/core/ports"
	"github.com/blogsphere/api/internal/core/service"
	"github.com/blogsphere/api/internal/infrastructure/config"
	mongostore "github.com/blogsphere/api/internal/infrastructure/db/mongo"
	redisstore "github.com/blogsphere/api/internal/infrastructure/db/redis"
	"github.com/blogsphere/api/internal/infrastructure/db/sqlite"
	"github.com/blogsphere/api/internal/infrastructure/http/handlers"
	"github.com/blogsphere/api/internal/infrastructure/queue"
	"github.com/blogsphere/api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blogsphere-api",
	})

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("path", cfg.Database.Path).Msg("sqlite ready")

	var rdb *redis.Client
	var dedup ports.ViewDeduplicator
	if cfg.Redis.Enabled() {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		dedup = redisstore.NewViewDeduplicator(rdb, cfg.Views.DedupWindow)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis view dedup enabled")
	}

	var mc *mongo.Client
	sink, err := activitySink(ctx, cfg, log, &mc)
	if err != nil {
		return err
	}
	if mc != nil {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mc.Disconnect(disconnectCtx)
		}()
	}

	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, sink, log)

	users := sqlite.NewUserRepository(db)
	categories := sqlite.NewCategoryRepository(db)
	posts := sqlite.NewPostRepository(db)

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	codec := service.NewJWTCodec([]byte(cfg.Auth.JWTSecret), time.Now)
	resolver := service.NewSessionResolver(codec, users, log)

	e := api.NewRouter(api.Dependencies{
		Auth: service.NewAuthService(users, hasher, codec, resolver, service.AuthConfig{
			AccessTTL:  cfg.Auth.AccessTTL(),
			RefreshTTL: cfg.Auth.RefreshTTL(),
		}, dispatcher, log),
		Users:       service.NewUserService(users, hasher, dispatcher, log),
		Categories:  service.NewCategoryService(categories, posts, log),
		Posts:       service.NewPostService(posts, categories, sqlite.NewViewRepository(db), dedup, log),
		Comments:    service.NewCommentService(sqlite.NewCommentRepository(db), posts, users, log),
		Likes:       service.NewLikeService(sqlite.NewLikeRepository(db), posts, users, log),
		Sessions:    resolver,
		HealthReady: handlers.NewHealthDependenciesHandler(db, rdb, mc),
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The dispatcher outlives the HTTP server so in-flight requests can
	// still publish while it shuts down.
	dctx, stopDispatcher := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher.Start(dctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	stopDispatcher()
	dispatcher.Wait()
	return err
}

// activitySink picks MongoDB when configured and the log otherwise. The
// connected client is returned through mc so the caller can close it.
func activitySink(ctx context.Context, cfg *config.Config, log zerolog.Logger, mc **mongo.Client) (ports.ActivitySink, error) {
	if !cfg.Mongo.Enabled() {
		return queue.NewLogSink(log), nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	*mc = client

	repo := mongostore.NewActivityRepository(db)
	if err := repo.EnsureIndexes(ctx, cfg.Mongo.Retention); err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb activity trail enabled")
	return repo, nil
}
