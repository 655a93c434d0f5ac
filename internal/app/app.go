package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roulette_sentinel/internal/config"
	"roulette_sentinel/pkg/logger"

	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
	configPath      string
}

func NewApp(configPath string) *App {
	return &App{configPath: configPath}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider(s.configPath)
}

func (s *App) initLogger() error {
	cfg := s.ServiceProvider.LoggerCfg()
	return logger.Init(logger.Config{
		Level:      cfg.Level(),
		OutputFile: cfg.File(),
		Compress:   true,
	})
}

func (s *App) Run() error {
	err := config.Load(".env")
	if err != nil {
		logger.Warnf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()
	if err = s.initLogger(); err != nil {
		return errors.Wrap(err, "init logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer s.ServiceProvider.Close()

	srv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting server at %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Infof("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
