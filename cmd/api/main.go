package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/app"
	"github.com/nft1025/task/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}

	log := newLogger(cfg.App.Env)
	log.Info().Str("env", cfg.App.Env).Str("region", cfg.App.Region).Msg("config loaded")

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("app init")
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("app close")
	}
}

func newLogger(env string) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	switch env {
	case "prod":
		log = log.Level(zerolog.InfoLevel)
	default:
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		log = log.Output(consoleWriter).Level(zerolog.DebugLevel)
	}
	return log
}
