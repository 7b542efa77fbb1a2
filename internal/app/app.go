package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/config"
	"github.com/five82/shaker/internal/favorites"
	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/notes"
	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
	"github.com/five82/shaker/internal/translate"
	"github.com/five82/shaker/internal/ui"
)

// Options configure the shaker application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shaker/prefs.toml
	DotEnv     string // empty uses ./.env
	Ephemeral  bool   // keep favorites and notes in memory only
	RetryEvery time.Duration
	Logger     *slog.Logger
}

// App holds the wired components shared by the TUI and the CLI commands.
type App struct {
	Config    config.Config
	Repo      *recipe.Repository
	Favorites *favorites.Store
	Notes     *notes.Store
	Store     *state.Store
	Loader    *Loader

	log       *slog.Logger
	prefsPath string
	closer    io.Closer

	mu    sync.Mutex
	prefs prefs.Prefs
}

// New loads configuration and opens storage. The caller must Close the App.
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var envFiles []string
	if opts.DotEnv != "" {
		envFiles = append(envFiles, opts.DotEnv)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	var (
		opener kv.Opener
		closer io.Closer
	)
	if opts.Ephemeral {
		opener = kv.NewMemory()
	} else {
		db, err := kv.Open(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		opener = db
		closer = db
	}

	client, err := cocktaildb.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("init cocktaildb client: %w", err)
	}

	retry := opts.RetryEvery
	if retry == 0 {
		retry = defaultRetryInterval
	}

	a := &App{
		Config:    cfg,
		Favorites: favorites.New(opener.Namespace(favorites.Namespace), log),
		Notes:     notes.New(opener.Namespace(notes.Namespace)),
		Store:     &state.Store{},
		log:       log,
		prefsPath: opts.PrefsPath,
		closer:    closer,
		prefs:     userPrefs,
	}
	a.Repo = recipe.NewRepository(client,
		recipe.WithLogger(log),
		recipe.WithFilters(userPrefs.Filters()),
		recipe.WithTranslator(a.translator(userPrefs)),
	)
	a.Loader = NewLoader(a.Repo, a.Store, log, retry)

	log.Debug("app initialized",
		"api", cfg.APIBaseURL,
		"database", cfg.DatabasePath(),
		"ephemeral", opts.Ephemeral,
		"translate_to", userPrefs.TranslateTo,
	)
	return a, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Prefs returns the current user settings.
func (a *App) Prefs() prefs.Prefs {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// UpdatePrefs saves p and applies it to the repository. Recipes already on
// screen keep their old filters until the next load.
func (a *App) UpdatePrefs(p prefs.Prefs) error {
	if err := prefs.Save(a.prefsPath, p); err != nil {
		return err
	}
	loaded, err := prefs.Load(a.prefsPath)
	if err != nil {
		return err
	}
	a.apply(loaded)
	return nil
}

// ResetAll deletes saved settings and every favorite. Notes are kept.
func (a *App) ResetAll(ctx context.Context) error {
	if err := prefs.Reset(a.prefsPath); err != nil {
		return err
	}
	if err := a.Favorites.Clear(ctx); err != nil {
		return err
	}
	a.apply(prefs.Default())
	a.log.Info("settings and favorites reset")
	return nil
}

// TranslationAvailable reports whether a translation service is configured.
func (a *App) TranslationAvailable() bool {
	return a.Config.TranslationConfigured()
}

func (a *App) apply(p prefs.Prefs) {
	a.mu.Lock()
	a.prefs = p
	a.mu.Unlock()
	a.Repo.SetFilters(p.Filters())
	a.Repo.SetTranslator(a.translator(p))
}

// translator returns nil when translation is off or misconfigured.
func (a *App) translator(p prefs.Prefs) translate.Translator {
	if !a.Config.TranslationConfigured() || !translate.Enabled(p.TranslateTo) {
		return nil
	}
	tr, err := translate.NewLibreTranslate(a.Config.TranslateURL, p.TranslateTo,
		translate.WithAPIKey(a.Config.TranslateAPIKey),
		translate.WithLogger(a.log),
	)
	if err != nil {
		a.log.Warn("translation disabled", "translate_to", p.TranslateTo, "error", err)
		return nil
	}
	return tr
}

// Run boots the shaker TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Loader.Start(ctx)
	// The UI shows the splash screen until this first load lands.
	a.Loader.Request(state.Random())

	uiOpts := ui.Options{
		Context:   ctx,
		Store:     a.Store,
		Loader:    a.Loader,
		Favorites: a.Favorites,
		Notes:     a.Notes,
		Settings:  a,
		Logger:    a.log,
	}
	return ui.Run(uiOpts)
}
