package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"Gin_postgres_redis_line_bot/config"
	"Gin_postgres_redis_line_bot/db"
	"Gin_postgres_redis_line_bot/line"
	"Gin_postgres_redis_line_bot/loans"
	"Gin_postgres_redis_line_bot/session"
	"Gin_postgres_redis_line_bot/sheet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 簡化別名，handlers 用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依賴
type App struct {
	Router *gin.Engine
	DB     *gorm.DB      // STORE=postgres 時才有
	RDB    *redis.Client // 沒設 REDIS_ADDR 時為 nil
	Config config.Config

	Repo   *db.Repo
	Store  *loans.Store
	Bot    *loans.Bot
	Line   *line.Client
	Dedupe *session.Deduper
}

const (
	lockTTL   = 10 * time.Second
	lockWait  = 5 * time.Second
	dedupeTTL = 24 * time.Hour
)

func MustNew(cfg config.Config) *App {
	a, err := New(cfg)
	if err != nil {
		slog.Error("init app", "err", err)
		os.Exit(1)
	}
	return a
}

func New(cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	// --- Row store ---
	var rows loans.RowStore
	switch cfg.Store {
	case config.StorePostgres:
		conn, err := db.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = conn
		a.Repo = db.NewRepo(conn)
		rows = a.Repo
	case config.StoreMemory, "":
		slog.Warn("using in-memory sheet, data is lost on restart")
		rows = sheet.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	a.Store = loans.NewStore(rows, cfg.Location)

	// --- LINE ---
	lc, err := line.NewClient(cfg.LineAPIBaseURL, cfg.LineChannelToken, cfg.LineRatePerSecond)
	if err != nil {
		return nil, err
	}
	a.Line = lc
	var profiles loans.ProfileLookup = a.Line
	var locker loans.Locker = loans.NewLocalLocker()

	// --- Redis（可選）---
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.RDB = rdb
		profiles = session.NewNameCache(rdb, a.Line, cfg.NameCacheTTL)
		locker = session.NewLocker(rdb, lockTTL, lockWait)
		a.Dedupe = session.NewDeduper(rdb, dedupeTTL)
	}

	a.Bot = loans.NewBot(a.Store, profiles, locker, time.Now)

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a.Router = r
	return a, nil
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
