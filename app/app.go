package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"imghost/config"
	"imghost/controller"
	"imghost/logger"
	"imghost/metadata"
	"imghost/route"
	"imghost/server"
	"imghost/service"
	"imghost/utils"
)

// Run wires the stores, services and HTTP server from cfg and blocks until
// SIGINT/SIGTERM or a server failure.
func Run(cfg *config.Config, l *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Auth.Misconfigured() {
		l.Warn("app - Run - auth credentials or JWT secret missing, login and protected routes will answer 500")
	}

	// Metadata
	backend, closeMeta, err := newMetadataBackend(ctx, cfg.Metadata)
	if err != nil {
		return fmt.Errorf("app - Run - newMetadataBackend: %w", err)
	}
	defer func() {
		if err := closeMeta(); err != nil {
			l.Error(err, "app - Run - close metadata backend")
		}
	}()
	l.Info("app - Run - metadata backend: %s", cfg.Metadata.Backend)

	// Objects
	objs, closeObjs, err := newObjectStore(ctx, cfg.Objects, l)
	if err != nil {
		return fmt.Errorf("app - Run - newObjectStore: %w", err)
	}
	defer func() {
		if err := closeObjs(); err != nil {
			l.Error(err, "app - Run - close object store")
		}
	}()
	l.Info("app - Run - object backend: %s", cfg.Objects.Backend)

	// Services
	images := service.NewImages(metadata.New(backend, l), objs, cfg.Upload.MaxFileSize, l)
	auth := service.NewAuth(
		utils.Credentials{
			Username:     cfg.Auth.Username,
			Password:     cfg.Auth.Password,
			PasswordHash: cfg.Auth.PasswordHash,
		},
		utils.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)

	// HTTP
	router := route.NewRouter(
		route.Handlers{
			Auth: controller.NewAuthController(auth, controller.CookieConfig{
				Name:   cfg.Auth.CookieName,
				Secure: cfg.Auth.CookieSecure,
			}, l),
			Images: controller.NewImagesController(images, l),
		},
		auth,
		route.Options{
			CORS:           cfg.CORS,
			Perimeter:      cfg.Perimeter,
			CookieName:     cfg.Auth.CookieName,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		},
		l.Zerolog(),
	)

	httpServer := server.New(router, l,
		server.Port(cfg.HTTP.Port),
		server.ReadTimeout(cfg.HTTP.ReadTimeout),
		server.WriteTimeout(cfg.HTTP.WriteTimeout),
		server.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	)
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	var runErr error
	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err := <-httpServer.Notify():
		runErr = fmt.Errorf("app - Run - httpServer.Notify: %w", err)
		l.Error(runErr)
	}

	// Shutdown
	if err := httpServer.Shutdown(); err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	return runErr
}
