package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/shaker/internal/app"
	"github.com/five82/shaker/internal/config"
	"github.com/five82/shaker/internal/logtail"
	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
	"github.com/five82/shaker/internal/timer"
	"github.com/five82/shaker/internal/translate"
)

func (c *CLI) appOptions(log *slog.Logger) app.Options {
	return app.Options{
		ConfigPath: c.Config,
		PrefsPath:  c.Prefs,
		Ephemeral:  c.Ephemeral,
		Logger:     log,
	}
}

// openApp wires the application for a one-shot command.
func (c *CLI) openApp() (*app.App, error) {
	return app.New(c.appOptions(slog.Default()))
}

// TUICmd starts the interactive interface.
type TUICmd struct{}

func (t *TUICmd) Run(ctx context.Context, root *CLI) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logFile, err := openLogFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := newLogger(logFile, root.Verbose)
	log.Info("starting shaker", "config", root.Config, "ephemeral", root.Ephemeral)
	return app.Run(ctx, root.appOptions(log))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// SearchCmd searches by drink name.
type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Drink name. Blank searches for margarita."`
	Full  bool   `short:"f" help:"Print ingredients and instructions"`
}

func (s *SearchCmd) Run(ctx context.Context, root *CLI) error {
	return runQuery(ctx, root, state.Search(s.Query), s.Full)
}

// IngredientCmd searches by ingredient.
type IngredientCmd struct {
	Name string `arg:"" help:"Ingredient, for example gin"`
	Full bool   `short:"f" help:"Print ingredients and instructions"`
}

func (i *IngredientCmd) Run(ctx context.Context, root *CLI) error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("ingredient must not be blank")
	}
	return runQuery(ctx, root, state.Ingredient(i.Name), i.Full)
}

// RandomCmd prints a random selection.
type RandomCmd struct {
	Count int  `short:"n" default:"30" help:"How many drinks to fetch"`
	Full  bool `short:"f" help:"Print ingredients and instructions"`
}

func (r *RandomCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.Repo.Random(ctx, r.Count)
	return printResult(ctx, root.Out, a, res, r.Full)
}

func runQuery(ctx context.Context, root *CLI, q state.Query, full bool) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.Loader.Load(ctx, q)
	return printResult(ctx, root.Out, a, res, full)
}

func printResult(ctx context.Context, w io.Writer, a *app.App, res recipe.Result, full bool) error {
	if res.Err != nil {
		fmt.Fprintf(w, "Recipe service unavailable, showing bundled recipes (%v)\n\n", res.Err)
	}
	if len(res.Recipes) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return nil
	}
	favs, err := a.Favorites.List(ctx)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}
	printRecipes(w, res.Recipes, favoriteSet(favs), full)
	return nil
}

// FavoritesCmd groups the favorite subcommands.
type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorites (default)"`
	Add    FavoritesAddCmd    `cmd:"" help:"Add a recipe to favorites"`
	Remove FavoritesRemoveCmd `cmd:"" help:"Remove a recipe from favorites"`
	Toggle FavoritesToggleCmd `cmd:"" help:"Add the recipe if missing, otherwise remove it"`
}

type FavoritesListCmd struct {
	Full bool `short:"f" help:"Print ingredients and instructions"`
}

func (l *FavoritesListCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	favs, err := a.Favorites.List(ctx)
	if err != nil {
		return err
	}
	if len(favs) == 0 {
		fmt.Fprintln(root.Out, "No favorites yet.")
		return nil
	}
	printRecipes(root.Out, favs, favoriteSet(favs), l.Full)
	return nil
}

type FavoritesAddCmd struct {
	Name string `arg:"" help:"Recipe name (quote names with spaces)"`
}

func (c *FavoritesAddCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := lookupRecipe(ctx, a, c.Name)
	if err != nil {
		return err
	}
	if err := a.Favorites.Add(ctx, r); err != nil {
		return err
	}
	fmt.Fprintf(root.Out, "Added %s to favorites\n", r.Name)
	return nil
}

type FavoritesRemoveCmd struct {
	Name string `arg:"" help:"Recipe name"`
}

func (c *FavoritesRemoveCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Favorites.Remove(ctx, c.Name); err != nil {
		return err
	}
	fmt.Fprintf(root.Out, "Removed %s from favorites\n", c.Name)
	return nil
}

type FavoritesToggleCmd struct {
	Name string `arg:"" help:"Recipe name"`
}

func (c *FavoritesToggleCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fav, err := a.Favorites.IsFavorite(ctx, c.Name)
	if err != nil {
		return err
	}
	r := recipe.Recipe{Name: c.Name}
	if !fav {
		if r, err = lookupRecipe(ctx, a, c.Name); err != nil {
			return err
		}
	}
	added, err := a.Favorites.Toggle(ctx, r)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(root.Out, "Added %s to favorites\n", r.Name)
	} else {
		fmt.Fprintf(root.Out, "Removed %s from favorites\n", r.Name)
	}
	return nil
}

// lookupRecipe finds the recipe called name, offline falling back to the
// bundled list.
func lookupRecipe(ctx context.Context, a *app.App, name string) (recipe.Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return recipe.Recipe{}, errors.New("recipe name must not be blank")
	}
	res := a.Repo.Search(ctx, name)
	r, err := recipe.FindByName(res.Recipes, name)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("%q: %w", name, err)
	}
	return r, nil
}

// NoteCmd groups the note subcommands.
type NoteCmd struct {
	Get NoteGetCmd `cmd:"" help:"Print the note for a recipe"`
	Set NoteSetCmd `cmd:"" help:"Replace the note for a recipe. No text clears it."`
}

type NoteGetCmd struct {
	Name string `arg:"" help:"Recipe name"`
}

func (c *NoteGetCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := a.Notes.Get(ctx, c.Name)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintf(root.Out, "No note for %s\n", c.Name)
		return nil
	}
	fmt.Fprintln(root.Out, text)
	return nil
}

type NoteSetCmd struct {
	Name string   `arg:"" help:"Recipe name"`
	Text []string `arg:"" optional:"" help:"Note text"`
}

func (c *NoteSetCmd) Run(ctx context.Context, root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	text := strings.Join(c.Text, " ")
	if err := a.Notes.Set(ctx, c.Name, text); err != nil {
		return err
	}
	fmt.Fprintf(root.Out, "Saved note for %s\n", c.Name)
	return nil
}

// TimerCmd runs a countdown in the terminal.
type TimerCmd struct {
	Seconds int           `arg:"" help:"Countdown length in seconds"`
	Tick    time.Duration `hidden:"" default:"1s"`
}

func (c *TimerCmd) Run(ctx context.Context, root *CLI) error {
	if c.Seconds <= 0 {
		return errors.New("seconds must be positive")
	}
	out := root.Out
	done := make(chan struct{})
	t := timer.New(ctx,
		timer.WithTick(c.Tick),
		timer.WithLogger(slog.Default()),
		timer.WithObserver(func(remaining int) {
			fmt.Fprintf(out, "\r%s ", clock(remaining))
			if remaining == 0 {
				close(done)
			}
		}),
	)
	defer t.Close()

	t.Init(c.Seconds)
	fmt.Fprintf(out, "%s ", clock(c.Seconds))
	t.Start()

	select {
	case <-done:
		fmt.Fprintln(out, "\nTime's up!")
	case <-ctx.Done():
		t.Pause()
		fmt.Fprintf(out, "\nStopped with %s left\n", clock(t.Remaining()))
	}
	return nil
}

// SettingsCmd groups the settings subcommands.
type SettingsCmd struct {
	Show  SettingsShowCmd  `cmd:"" default:"1" help:"Print settings and file locations (default)"`
	Reset SettingsResetCmd `cmd:"" help:"Restore default settings and clear favorites"`
}

type SettingsShowCmd struct{}

func (s *SettingsShowCmd) Run(root *CLI) error {
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Prefs()
	translation := translate.DisplayName(p.TranslateTo)
	if !a.TranslationAvailable() {
		translation += " (translate_url not set)"
	}
	prefsPath := root.Prefs
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	database := a.Config.DatabasePath()
	if root.Ephemeral {
		database = "in memory"
	}

	rows := [][2]string{
		{"Theme", p.Theme},
		{"Non-alcoholic only", fmt.Sprintf("%t", p.NonAlcoholicOnly)},
		{"Measurement unit", p.MeasurementUnit},
		{"Translate to", translation},
		{"API", a.Config.APIBaseURL},
		{"Settings file", prefsPath},
		{"Database", database},
		{"Log file", a.Config.LogPath()},
	}
	for _, row := range rows {
		fmt.Fprintf(root.Out, "%-20s %s\n", row[0]+":", row[1])
	}
	return nil
}

type SettingsResetCmd struct {
	Yes bool `short:"y" help:"Confirm the reset"`
}

func (s *SettingsResetCmd) Run(ctx context.Context, root *CLI) error {
	if !s.Yes {
		return errors.New("this removes every favorite; pass --yes to confirm")
	}
	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ResetAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(root.Out, "Settings and favorites reset. Notes were kept.")
	return nil
}

// LogsCmd prints the tail of the TUI log.
type LogsCmd struct {
	Lines int    `short:"n" default:"50" help:"Number of lines to show (0 shows all)"`
	Level string `short:"l" default:"debug" enum:"debug,info,warn,error" help:"Minimum level (debug, info, warn, error)"`
}

func (l *LogsCmd) Run(root *CLI) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var minLevel slog.Level
	if err := minLevel.UnmarshalText([]byte(l.Level)); err != nil {
		return err
	}

	lines, err := logtail.Read(cfg.LogPath(), 0)
	if err != nil {
		return err
	}
	lines = logtail.Filter(lines, minLevel)
	if l.Lines > 0 && len(lines) > l.Lines {
		lines = lines[len(lines)-l.Lines:]
	}
	if len(lines) == 0 {
		fmt.Fprintf(root.Out, "No log entries in %s\n", cfg.LogPath())
		return nil
	}
	for _, line := range logtail.HighlightLines(lines) {
		fmt.Fprintln(root.Out, line)
	}
	return nil
}
