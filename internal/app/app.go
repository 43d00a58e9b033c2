package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/config"
	"github.com/nft1025/task/internal/kv"
	"github.com/nft1025/task/internal/store"
)

type App struct {
	cfg    config.Config
	kvc    kv.Client
	store  store.Store
	router *gin.Engine
	log    zerolog.Logger
}

// New wires the store (Redis-backed when configured, flat-file otherwise)
// and the router. A configured but unreachable Redis is fatal here; loss of
// connectivity after boot degrades reads instead.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.kvc = kv.NewRedis(rdb)
		a.store = store.NewRedis(a.kvc, cfg.Redis.CacheTTL.Duration(), log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis-backed store")
	} else {
		a.store = store.NewFile(cfg.File.Path, log)
		log.Warn().Str("path", cfg.File.Path).Msg("no redis configured, using flat-file store")
	}

	a.router = newRouter(cfg, a.store, a.kvc, log)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.kvc != nil {
		_ = a.kvc.Close()
	}
	return nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func newRouter(cfg config.Config, st store.Store, kvc kv.Client, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, cfg, st, kvc, log)
	return r
}
