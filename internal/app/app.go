package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/inflight"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/route"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string // empty uses ~/.config/shelf/config.toml
	PrefsPath  string // empty uses ~/.config/shelf/prefs.toml
	BookID     string // book to open first; empty resumes the last one
}

// env holds what every entry point needs: config, logger and token store.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
	store  *credential.FileStore
}

func open(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		store:  credential.NewFileStore(cfg.TokenPath),
	}, nil
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := open(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	client, err := catalog.NewClient(catalog.Options{
		BaseURL:           e.cfg.APIURL,
		Timeout:           e.cfg.RequestTimeout,
		RequestsPerSecond: e.cfg.RequestsPerSecond,
		Logger:            e.logger,
	})
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	start := startPath(opts.BookID, userPrefs.LastBook)
	e.logger.Info("starting", "api", client.BaseURL(), "start", start)

	return ui.Run(ui.Options{
		Context:     ctx,
		API:         client,
		Credentials: e.store,
		Guard:       &inflight.Guard[string]{},
		Logger:      e.logger,
		Config:      &e.cfg,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   prefsPath,
		StartPath:   start,
		LastBook:    userPrefs.LastBook,
	})
}

// startPath picks the first route: an explicit id, then the last opened
// book, then home.
func startPath(bookID, lastBook string) string {
	if id := strings.TrimSpace(bookID); id != "" {
		return route.Book(id)
	}
	if id := strings.TrimSpace(lastBook); id != "" {
		return route.Book(id)
	}
	return route.Root
}
