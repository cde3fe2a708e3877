package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/config"
	"github.com/vaughan-dsouza/BeSocial/internal/db"
	"github.com/vaughan-dsouza/BeSocial/internal/handlers"
	"github.com/vaughan-dsouza/BeSocial/internal/logger"
	"github.com/vaughan-dsouza/BeSocial/internal/media"
	"github.com/vaughan-dsouza/BeSocial/internal/store"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer dbConn.Close()

	if err := db.InitSchema(ctx, dbConn); err != nil {
		log.WithError(err).Fatal("db schema")
	}

	deps := handlers.Deps{
		Store:         store.New(dbConn),
		Log:           log,
		Access:        utils.Signer{Secret: cfg.Tokens.AccessSecret, TTL: cfg.Tokens.AccessTTL},
		Refresh:       utils.Signer{Secret: cfg.Tokens.RefreshSecret, TTL: cfg.Tokens.RefreshTTL},
		MaxImageBytes: cfg.Media.MaxImageBytes,
	}

	mediaStore, err := media.New(ctx, cfg.Media)
	if err != nil {
		log.WithError(err).Fatal("media init")
	}
	if mediaStore != nil {
		deps.Media = mediaStore
		log.WithField("backend", cfg.Media.Backend).Info("image uploads enabled")
	}

	h := handlers.NewHandler(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, deps.Access, log, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}
