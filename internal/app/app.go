package app

import (
	"context"
	"ieltsprep/internal/cache"
	"ieltsprep/internal/config"
	"ieltsprep/internal/repository"
	"ieltsprep/internal/repository/memory"
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest"
	"ieltsprep/internal/transport/ws"
	"ieltsprep/pkg/logger"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Stores groups every persistence dependency the services need
type Stores struct {
	ClassRepo      repository.ClassRepo
	FolderRepo     repository.FolderRepo
	AssignmentRepo repository.AssignmentRepo
	SubmissionRepo repository.SubmissionRepo
	DraftCache     cache.DraftCache
	AttemptCache   cache.AttemptCache
	AnalyticsCache cache.AnalyticsCache
	RankingCache   cache.RankingCache

	closers []func(context.Context) error
}

// Close releases database connections
func (s *Stores) Close(ctx context.Context) {
	for _, c := range s.closers {
		if err := c(ctx); err != nil {
			logger.Log.Warn("store close failed", zap.Error(err))
		}
	}
}

// MemoryStores keeps everything in process, for local runs and tests
func MemoryStores() *Stores {
	return &Stores{
		ClassRepo:      memory.NewClassRepo(),
		FolderRepo:     memory.NewFolderRepo(),
		AssignmentRepo: memory.NewAssignmentRepo(),
		SubmissionRepo: memory.NewSubmissionRepo(),
		DraftCache:     cache.NewMemoryDraftCache(),
		AttemptCache:   cache.NewMemoryAttemptCache(),
		AnalyticsCache: cache.NewMemoryAnalyticsCache(),
		RankingCache:   cache.NewMemoryRankingCache(),
	}
}

// ConnectStores opens MongoDB and Redis and ensures indexes
func ConnectStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}
	logger.Log.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)
	repository.EnsureIndexes(ctx, db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     strings.TrimPrefix(cfg.Redis.Addr, "redis://"),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		mongoClient.Disconnect(ctx)
		rdb.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	logger.Log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	return &Stores{
		ClassRepo:      repository.NewClassRepo(db),
		FolderRepo:     repository.NewFolderRepo(mongoClient, db),
		AssignmentRepo: repository.NewAssignmentRepo(db),
		SubmissionRepo: repository.NewSubmissionRepo(db),
		DraftCache:     cache.NewDraftCache(rdb),
		AttemptCache:   cache.NewAttemptCache(rdb),
		AnalyticsCache: cache.NewAnalyticsCache(rdb),
		RankingCache:   cache.NewRankingCache(rdb),
		closers: []func(context.Context) error{
			mongoClient.Disconnect,
			func(context.Context) error { return rdb.Close() },
		},
	}, nil
}

// App is the wired API: services, websocket hub, class feed and router
type App struct {
	Router http.Handler
	Hub    *ws.Hub
	Feed   *service.ClassFeed
	Auth   *service.AuthService
	Stores *Stores
}

// New wires services onto the given stores
func New(cfg *config.Config, stores *Stores, ai *service.AIService, media *service.MediaService) *App {
	hub := ws.NewHub()

	authSvc := service.NewAuthService(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	classSvc := service.NewClassService(stores.ClassRepo)
	assignmentSvc := service.NewAssignmentService(stores.AssignmentRepo, stores.FolderRepo, stores.SubmissionRepo, stores.AnalyticsCache, stores.RankingCache, classSvc)

	// the feed needs the assignment service and folders notify the feed
	feed := service.NewClassFeed(stores.AssignmentRepo, assignmentSvc, hub)
	folderSvc := service.NewFolderService(stores.FolderRepo, classSvc, feed)

	draftSvc := service.NewDraftService(stores.DraftCache, classSvc, stores.FolderRepo, stores.AssignmentRepo, ai)
	submissionSvc := service.NewSubmissionService(stores.SubmissionRepo, assignmentSvc, stores.AttemptCache, stores.AnalyticsCache, stores.RankingCache, ai, media)
	analyticsSvc := service.NewAnalyticsService(stores.AnalyticsCache, stores.RankingCache, stores.ClassRepo, stores.SubmissionRepo, assignmentSvc)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		ClassService:      classSvc,
		FolderService:     folderSvc,
		DraftService:      draftSvc,
		AssignmentService: assignmentSvc,
		SubmissionService: submissionSvc,
		AnalyticsService:  analyticsSvc,
		MediaService:      media,
		WSHub:             hub,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		DevTokens:         cfg.Server.Mode == "debug",
	})

	return &App{
		Router: router,
		Hub:    hub,
		Feed:   feed,
		Auth:   authSvc,
		Stores: stores,
	}
}

// Start runs the class feed until ctx is done
func (a *App) Start(ctx context.Context) {
	go func() {
		if err := a.Feed.Run(ctx); err != nil {
			logger.Log.Error("class feed stopped", zap.Error(err))
		}
	}()
}

// Close stops the hub and releases the stores
func (a *App) Close(ctx context.Context) {
	a.Hub.Stop()
	a.Stores.Close(ctx)
}
