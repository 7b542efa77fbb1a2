package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI is the root command line. Global flags apply to every subcommand.
type CLI struct {
	Config    string `short:"c" help:"Config file path (default ~/.config/shaker/config.toml)" placeholder:"PATH"`
	Prefs     string `help:"Settings file path (default ~/.config/shaker/prefs.toml)" placeholder:"PATH"`
	Ephemeral bool   `help:"Keep favorites and notes in memory only"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	TUI        TUICmd        `cmd:"" name:"tui" default:"1" help:"Start the terminal UI (default)"`
	Search     SearchCmd     `cmd:"" help:"Search recipes by name"`
	Random     RandomCmd     `cmd:"" help:"Show a random selection of recipes"`
	Ingredient IngredientCmd `cmd:"" help:"Find recipes that use an ingredient"`
	Favorites  FavoritesCmd  `cmd:"" help:"List or change favorite recipes"`
	Note       NoteCmd       `cmd:"" help:"Read or write the note for a recipe"`
	Timer      TimerCmd      `cmd:"" help:"Count down in the terminal"`
	Settings   SettingsCmd   `cmd:"" help:"Show or reset settings"`
	Logs       LogsCmd       `cmd:"" help:"Print the end of the TUI log file"`

	Out io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing and sets up stderr logging. The TUI
// replaces it with a file logger once the config is known.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.Verbose))
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shaker: %v\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return 2
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "shaker: %v\n", err)
		return 1
	}
	return 0
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("shaker"),
		kong.Description("Browse cocktail recipes, keep favorites and notes, and time your shakes."),
		kong.UsageOnError(),
	)
}
