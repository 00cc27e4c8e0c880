package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/yard-scout/internal/bot"
	"github.com/Houeta/yard-scout/internal/config"
	"github.com/Houeta/yard-scout/internal/parser"
	"github.com/Houeta/yard-scout/internal/repository"
	"github.com/Houeta/yard-scout/internal/repository/jsonfile"
	"github.com/Houeta/yard-scout/internal/repository/sqlite"
	"github.com/Houeta/yard-scout/internal/services/checker"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	bot     *bot.Bot
	checker *checker.Checker
	closers []func() error
}

// loadConfig reads the configuration. Commands that notify need a recipient chat.
func loadConfig(cfgPath string, notify bool) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if notify {
		if err = cfg.RequireRecipient(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	return cfg, nil
}

func newBaseApp(cfg *config.Config) (*app, error) {
	out, closeLog, err := openLogOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: setupLogger(cfg.Env, out), closers: []func() error{closeLog}}, nil
}

// newApp wires everything an inventory check needs.
func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := loadConfig(cfgPath, true)
	if err != nil {
		return nil, err
	}

	a, err := newBaseApp(cfg)
	if err != nil {
		return nil, err
	}

	store, err := a.newStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if err = a.initBot(); err != nil {
		_ = a.Close()
		return nil, err
	}

	source := parser.NewParser(a.log, cfg.Search.URL, cfg.Search.Timeout)
	a.checker = checker.NewChecker(a.log, source, store, a.bot, checker.WithTitle(cfg.Search.Title))

	return a, nil
}

// newBotApp wires only the logger and the bot, so it starts without a chat id.
func newBotApp(cfgPath string) (*app, error) {
	cfg, err := loadConfig(cfgPath, false)
	if err != nil {
		return nil, err
	}

	a, err := newBaseApp(cfg)
	if err != nil {
		return nil, err
	}

	if err = a.initBot(); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) initBot() error {
	var err error
	a.bot, err = bot.NewBot(a.log, a.cfg.Tg.Token, a.cfg.Tg.ChatID, a.cfg.Tg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to init bot: %w", err)
	}

	return nil
}

func (a *app) newStore(ctx context.Context) (repository.SnapshotStore, error) {
	switch a.cfg.Storage.Driver {
	case "sqlite":
		repo, err := sqlite.NewRepository(ctx, a.log, a.cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to init sqlite storage: %w", err)
		}
		// The database must be closed before the log file.
		a.closers = append([]func() error{repo.Close}, a.closers...)
		return repo, nil
	default:
		return jsonfile.NewStore(a.log, a.cfg.Storage.Path), nil
	}
}

// Close releases resources in the order they have to be released.
func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
