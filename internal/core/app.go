// Package core wires the collaborators into a runnable app: config, logging,
// storage, discord clients, the poll loop, and the health server.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"stockwatch/internal/catalog"
	"stockwatch/internal/config"
	"stockwatch/internal/discord"
	"stockwatch/internal/health"
	"stockwatch/internal/notify"
	"stockwatch/internal/stock"
	"stockwatch/internal/storage"
	"stockwatch/internal/watch"
	logx "stockwatch/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store     storage.Store
	extractor *stock.Extractor
	composer  *notify.Composer
	watcher   *watch.Watcher
	healthS   *health.Service

	cfgSub chan *config.Config
}

// NewApp builds the full dependency graph from the config file. Missing
// required configuration fails here, before anything starts.
func NewApp(cfgPath string) (*App, error) {
	cfgMgr := config.NewManager(cfgPath)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logxConfig(cfg), nil)
	cfgMgr.SetLogger(log.With(logx.String("comp", "config")))

	busy, _ := cfg.StorageBusyTimeout()
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	client := discord.NewClient(cfg.Discord.Token, log.With(logx.String("comp", "discord")))
	webhook := discord.NewWebhook(cfg.Discord.WebhookURL, log.With(logx.String("comp", "webhook")))
	// The webhook doubles as the error-log sink.
	logSvc.SetSender(webhook)

	extractor := stock.NewExtractor(client, cfg.Discord.Vendor, cfg.Discord.FetchLimit,
		log.With(logx.String("comp", "extract")))
	composer := notify.NewComposer(cfg.Discord.GuildID, priorities(cfg), client)
	publisher := notify.NewPublisher(webhook, store, log.With(logx.String("comp", "publish")))

	interval, err := cfg.PollInterval()
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, err
	}

	health.InitMetrics()
	watcher := watch.New(extractor, composer, publisher, store,
		watch.Feeds{Seeds: cfg.Discord.SeedChannelID, Gear: cfg.Discord.GearChannelID},
		interval, log.With(logx.String("comp", "watch")))

	healthS := health.New(health.Config{Enabled: cfg.Health.Enabled, Addr: cfg.Health.Addr},
		log.With(logx.String("comp", "health")))

	return &App{
		cfgMgr:    cfgMgr,
		logSvc:    logSvc,
		log:       log,
		store:     store,
		extractor: extractor,
		composer:  composer,
		watcher:   watcher,
		healthS:   healthS,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.healthS.Start(); err != nil {
		return fmt.Errorf("health server: %w", err)
	}
	if err := a.watcher.Start(ctx); err != nil {
		return err
	}

	// Hot reload of the soft knobs.
	a.cfgSub = a.cfgMgr.Subscribe(1)
	go a.cfgMgr.Watch(ctx)
	go a.reloadLoop(ctx)

	// systemd integration is a no-op outside a unit.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	if wd, err := daemon.SdWatchdogEnabled(false); err == nil && wd > 0 {
		go a.watchdogLoop(ctx, wd/2)
	}

	a.log.Info("stockwatch started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	a.watcher.Stop(ctx)
	a.healthS.Stop(ctx)
	if a.cfgSub != nil {
		a.cfgMgr.Unsubscribe(a.cfgSub)
		a.cfgSub = nil
	}
	err := a.store.Close()
	a.log.Info("stockwatch stopped")
	_ = a.logSvc.Close()
	return err
}

func (a *App) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-a.cfgSub:
			if !ok || cfg == nil {
				return
			}
			a.logSvc.Apply(logxConfig(cfg))
			if d, err := cfg.PollInterval(); err == nil {
				a.watcher.SetInterval(d)
			}
			a.extractor.SetLimit(cfg.Discord.FetchLimit)
			a.composer.SetPriorities(priorities(cfg))
		}
	}
}

func (a *App) watchdogLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}

func logxConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Webhook: logx.WebhookConfig{
			Enabled:    cfg.Logging.Webhook.Enabled,
			MinLevel:   cfg.Logging.Webhook.MinLevel,
			RatePerSec: cfg.Logging.Webhook.RatePerSec,
		},
	}
}

func priorities(cfg *config.Config) catalog.Priorities {
	p := catalog.DefaultPriorities()
	if len(cfg.Priority.Seeds) > 0 {
		p.Seeds = catalog.NewPrioritySet(cfg.Priority.Seeds)
	}
	if len(cfg.Priority.Gear) > 0 {
		p.Gear = catalog.NewPrioritySet(cfg.Priority.Gear)
	}
	return p
}
