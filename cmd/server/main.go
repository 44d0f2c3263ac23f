package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/d60-Lab/newsportal/docs"
	"github.com/d60-Lab/newsportal/internal/api"
	"github.com/d60-Lab/newsportal/internal/api/handler"
	"github.com/d60-Lab/newsportal/internal/cache"
	"github.com/d60-Lab/newsportal/internal/config"
	"github.com/d60-Lab/newsportal/internal/newsapi"
	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/internal/tts"
	"github.com/d60-Lab/newsportal/pkg/database"
	"github.com/d60-Lab/newsportal/pkg/logger"
	"github.com/d60-Lab/newsportal/pkg/token"
	"github.com/d60-Lab/newsportal/pkg/tracing"
)

// @title       NewsPortal API
// @version     1.0
// @description 新闻聚合门户后端：账号、收藏/点赞/浏览、搜索历史、新闻代理与 TTS
// @BasePath    /api
func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config.yaml）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "newsportal", cfg.Otel.Endpoint)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.L().Fatal("open database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.L().Fatal("migrate database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	mirror := cache.NewMirror(rdb, cfg.Cache.MirrorTTL)

	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	recentRepo := repository.NewRecentlyViewedRepository(db)
	searchRepo := repository.NewSearchHistoryRepository(db)
	statsRepo := repository.NewArticleStatsRepository(db)

	statsWorker := service.NewStatsWorker(statsRepo, cfg.Stats.QueueSize)
	stopStats := statsWorker.Start(cfg.Stats.Workers)

	newsClient := newsapi.NewClient(cfg.News.BaseURL, cfg.News.APIKey, cfg.News.Country, cfg.News.PageSize, cfg.News.Timeout)
	newsSvc := service.NewNewsService(newsClient, statsRepo, cfg.News.CSVPath)

	h := handler.New(
		service.NewAuthService(userRepo, tokens),
		service.NewInteractionService(interactionRepo, statsWorker, mirror, cfg.Stats.DecrementOnRemove),
		service.NewHistoryService(recentRepo, searchRepo, mirror, rdb),
		newsSvc,
		tts.NewService(rdb, cfg.TTS.CacheTTL),
	)

	r := api.NewRouter(h, tokens, api.RouterOptions{
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
		Tracing:   cfg.Otel.Endpoint != "",
	})

	// 启动时落一份新闻快照，上游不可用不阻塞启动
	go func() {
		snapCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := newsSvc.WriteCSVSnapshot(snapCtx); err != nil {
			logger.Warn("news snapshot failed", zap.Error(err))
		}
	}()

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	// 排空计数队列后再退出
	if err := stopStats(shutCtx); err != nil {
		logger.Warn("stats worker drain", zap.Error(err))
	}
}
