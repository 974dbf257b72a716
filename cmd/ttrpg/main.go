package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Aditya-1301/AI-TTRPG/internal/config"
	"github.com/Aditya-1301/AI-TTRPG/internal/game"
	"github.com/Aditya-1301/AI-TTRPG/internal/gm"
	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
	"github.com/Aditya-1301/AI-TTRPG/internal/store"
	"github.com/Aditya-1301/AI-TTRPG/internal/tui"
)

const version = "0.1.0"

type cli struct {
	UI      uiCmd      `cmd:"" default:"1" help:"Open the session manager (default)."`
	Play    playCmd    `cmd:"" help:"Run the gameplay loop in the plain terminal."`
	Version versionCmd `cmd:"" help:"Print the version."`
}

type uiCmd struct{}

type playCmd struct {
	Resume string `help:"Session UUID to resume directly." env:"TTRPG_RESUME_SESSION"`
}

type versionCmd struct{}

// appContext carries the shared dependencies into the subcommands.
type appContext struct {
	cfg   *config.Config
	store store.Store
}

func (c *uiCmd) Run(app *appContext) error {
	// The session manager relaunches this binary for gameplay.
	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve own binary path: %w", err)
	}
	return tui.Run(app.store, selfPath)
}

func (c *playCmd) Run(app *appContext) error {
	provider, err := gm.NewProvider(app.cfg.GM)
	if err != nil {
		return err
	}
	L_info("gm provider ready", "provider", provider.Name(), "model", provider.Model())

	g := game.New(app.store, provider, app.cfg.GM.MaxHistoryTokens)
	return g.Run(context.Background(), c.Resume)
}

func (c *versionCmd) Run(app *appContext) error {
	fmt.Printf("ttrpg %s\n", version)
	return nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("ttrpg"),
		kong.Description("An AI game-mastered TTRPG with persistent campaigns."),
		kong.UsageOnError(),
	)

	// Version short-circuits before any setup touches the filesystem.
	if ctx.Command() == "version" {
		fmt.Printf("ttrpg %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	Init(&Config{
		Level: ParseLevel(cfg.Log.Level),
		File:  cfg.Log.File,
	})
	defer Close()
	L_info("ttrpg %s starting", version)

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		L_fatal("failed to open store: %v", err)
	}
	defer st.Close()

	app := &appContext{cfg: cfg, store: st}
	if err := ctx.Run(app); err != nil {
		L_error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
