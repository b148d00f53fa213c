package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/db"
	"github.com/classbridge/classbridge-backend/internal/logger"
)

type App struct {
	Config   *Config
	Log      *logger.Logger
	Postgres *db.PostgresService
	Clients  *Clients
	Router   *gin.Engine
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(os.Getenv("APP_MODE"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := loadConfig(log)
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	postgres, err := db.NewPostgresService(log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := postgres.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	clients, err := wireClients(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("wire clients: %w", err)
	}

	repos := wireRepos(postgres.DB(), log)
	services := wireServices(postgres.DB(), log, repos, clients)
	handlers := wireHandlers(postgres.DB(), log, services)
	middleware := wireMiddleware(log, services)
	router := wireRouter(log, middleware, handlers)

	return &App{
		Config:   cfg,
		Log:      log,
		Postgres: postgres,
		Clients:  clients,
		Router:   router,
	}, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then drains for up to 15s.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", "port", a.Config.Port, "mode", a.Config.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.Log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	a.Clients.Close()
	return nil
}
