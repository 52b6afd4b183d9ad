package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"Gin_postgres_redis_line_bot/app"
	"Gin_postgres_redis_line_bot/config"
	"Gin_postgres_redis_line_bot/routes"

	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.String("addr", "", "listen address (default \":$PORT\")")
	store := pflag.String("store", "", "row store backend: memory or postgres (default $STORE)")
	pflag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if *store != "" {
		cfg.Store = *store
	}

	application := app.MustNew(cfg)
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application.Bootstrap(ctx)
	cancel()

	r := application.Router
	routes.RegisterRoutes(r, application)

	listen := *addr
	if listen == "" {
		listen = ":" + cfg.Port
	}
	slog.Info("listening", "addr", listen)
	if err := r.Run(listen); err != nil {
		slog.Error("server stopped", "err", err)
	}
}
