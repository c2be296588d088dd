// homebound plays a level file in the terminal. Build:
//
//	go build -o homebound ./cmd/homebound
//
// Usage:
//
//	./homebound [--levels levels/levels.txt] [--config homebound.yaml] [--mute] [--no-watch]
//
// Settings may also come from HOMEBOUND_* environment variables or a .env
// file in the working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"homebound/internal/config"
	"homebound/internal/game"
	"homebound/internal/level"
	"homebound/internal/sound"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cmd := &cli.Command{
		Name:  "homebound",
		Usage: "push everyone home",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels",
				Value:   "levels/levels.txt",
				Usage:   "level file to play",
				Sources: cli.EnvVars("HOMEBOUND_LEVELS"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file",
				Sources: cli.EnvVars("HOMEBOUND_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log",
				Value:   filepath.Join(os.TempDir(), "homebound.log"),
				Usage:   "log file (the terminal is taken by the game)",
				Sources: cli.EnvVars("HOMEBOUND_LOG"),
			},
			&cli.BoolFlag{Name: "mute", Usage: "disable sound"},
			&cli.BoolFlag{Name: "no-watch", Usage: "do not reload the level file when it changes"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.Bool("mute") {
		cfg.Mute = true
	}

	logger, closeLog, err := openLog(cmd.String("log"), cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	path := cmd.String("levels")
	levels, err := game.LoadLevels(path)
	if err != nil {
		return err
	}

	player := openSound(cfg, logger)
	defer player.Close()

	progress, err := game.NewProgressLog(logger)
	if err != nil {
		logger.Warn("progress log disabled", "error", err)
	}

	opts := game.DefaultOptions()
	opts.ApplyConfig(cfg)
	opts.Sound = player
	opts.Progress = progress
	opts.Logger = logger
	opts.Name = os.Getenv("USER")
	p, err := game.NewPlayer(levels, opts)
	if err != nil {
		return err
	}

	var reloads <-chan []*level.Level
	if !cmd.Bool("no-watch") {
		if reloads, err = game.Watch(ctx, path, logger); err != nil {
			logger.Warn("level hot reload disabled", "error", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	game.Run(ctx, screen, p, reloads)
	return nil
}

// openLog sends structured logs to path at the configured level.
func openLog(path string, cfg config.Config) (*slog.Logger, func(), error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}

// openSound starts the audio worker, falling back to silence when muted or
// when no audio device is available.
func openSound(cfg config.Config, logger *slog.Logger) *sound.Worker {
	var out sound.Output
	if !cfg.Mute {
		var err error
		if out, err = sound.OpenSpeaker(); err != nil {
			logger.Warn("sound disabled", "error", err)
			out = nil
		}
	}
	w := sound.NewWorker(out, 16, logger)
	w.Start()
	return w
}
