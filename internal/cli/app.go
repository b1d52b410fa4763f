// Package cli implements the interactive ward client: a small REPL over the
// services layer with background connectivity watching and sync triggering.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/config"
	"github.com/materna-health/materna/internal/connectivity"
	"github.com/materna-health/materna/internal/logging"
	"github.com/materna-health/materna/internal/metrics"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/remote"
	"github.com/materna-health/materna/internal/repositories"
	"github.com/materna-health/materna/internal/services"
	"github.com/materna-health/materna/internal/syncer"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	services *services.Services
	repos    *repositories.Repositories
	driver   *syncer.Driver
	monitor  *connectivity.Monitor
	logger   logging.Logger

	db     *sql.DB
	reader *bufio.Reader

	// current is the profile subsequent clinical commands operate on.
	current *models.MaternalProfile
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewZerologLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())

	db, err := repositories.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err.Error())
		return nil, err
	}
	repos := repositories.New(db)

	if err := ensureDeviceID(ctx, repos); err != nil {
		_ = db.Close()
		return nil, err
	}

	client := remote.NewHTTPClient(cfg.RemoteEndpointURL, cfg.APIToken)
	m := metrics.New(prometheus.DefaultRegisterer)
	driver := syncer.NewDriver(repos, client, cfg.FacilityID, cfg.UnitID, logger, m,
		syncer.WithMaxAttempts(cfg.MaxJobAttempts),
		syncer.WithPassTimeout(cfg.SyncTimeout))

	monitor := connectivity.NewMonitor(client, cfg.OnlineCheckInterval, logger)
	monitor.OnReachable(func() {
		_ = driver.SyncNow(context.Background())
	})

	return &App{
		config:   cfg,
		services: services.New(repos, logger, cfg.FacilityID, cfg.UnitID),
		repos:    repos,
		driver:   driver,
		monitor:  monitor,
		logger:   logger,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// ensureDeviceID assigns the device a stable identity on first start.
func ensureDeviceID(ctx context.Context, repos *repositories.Repositories) error {
	_, err := repos.Metadata.Get(ctx, common.MetadataKeyDeviceID)
	if errors.Is(err, common.ErrorNotFound) {
		return repos.Metadata.Set(ctx, common.MetadataKeyDeviceID, uuid.NewString())
	}
	return err
}

func (a *App) Run(ctx context.Context) {
	a.monitor.Start(ctx)
	defer a.monitor.Stop()
	defer func() { _ = a.db.Close() }()

	a.Root(ctx)
}

func (a *App) mode() Mode {
	if a.monitor.Reachable() {
		return ModeOnline
	}
	return ModeOffline
}

// kickSync starts a background pass so a fresh record reaches the server
// without waiting for the next connectivity event. Offline it does nothing;
// a doomed pass would only push the job into backoff.
func (a *App) kickSync(ctx context.Context) {
	if !a.monitor.Reachable() {
		return
	}
	go func() {
		_ = a.driver.SyncNow(context.WithoutCancel(ctx))
	}()
}
