package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tesselate/tesselate/internal/config"
	"github.com/tesselate/tesselate/internal/console"
	"github.com/tesselate/tesselate/internal/dispatcher"
	"github.com/tesselate/tesselate/internal/engine"
	"github.com/tesselate/tesselate/internal/layout"
	"github.com/tesselate/tesselate/internal/logging"
	intOtel "github.com/tesselate/tesselate/internal/otel"
)

const appName = "tesselate"

var (
	// SessionStartTime names the session log file
	SessionStartTime = time.Now()

	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider

	// game is read by the log context provider, so it may be nil early on
	game *engine.Game
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	configDir := flags.String("config-dir", ".", "directory containing "+config.FileName)
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := config.BindFlags(flags); err != nil {
		return err
	}

	SlogManager = logging.NewSlogManager()
	defer SlogManager.Close()

	configErr := config.Load(*configDir)
	logCfg := config.GetLogConfig()

	logFile, err := openLogFile(logCfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	var remote io.Writer
	if gl := config.GetGraylogConfig(); gl.Enabled {
		remote, err = SlogManager.DialGraylog(gl.Address)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graylog disabled: %v\n", err)
			remote = nil
		}
	}

	var logOut io.Writer = os.Stderr
	if logFile != nil {
		logOut = logFile
	}

	otelCfg := config.GetOTelConfig()
	var otelErr error
	OTelProvider, otelErr = intOtel.New(intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ExportInterval: otelCfg.ExportInterval,
		MetricWriter:   os.Stderr,
		LogWriter:      logOut,
	})
	if otelErr != nil {
		OTelProvider, _ = intOtel.New(intOtel.Config{})
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Error("OTel shutdown", "error", err)
		}
	}()

	var fileOut io.Writer
	if logFile != nil {
		fileOut = logFile
	}
	setupOpts := []logging.SetupOption{logging.WithContext(gameContext)}
	if remote != nil {
		setupOpts = append(setupOpts, logging.WithRemote(remote))
	}
	if lp := OTelProvider.LoggerProvider(); lp != nil {
		setupOpts = append(setupOpts, logging.WithLoggerProvider(lp))
	}
	SlogManager.Setup(fileOut, logCfg.Level, setupOpts...)
	Logger = SlogManager.Logger()

	switch {
	case errors.Is(configErr, config.ErrNoConfigFile):
		Logger.Info("No config file, using defaults", "dir", *configDir)
	case configErr != nil:
		Logger.Warn("Failed to load config, using defaults!", "error", configErr)
	default:
		Logger.Info("Loaded config", "dir", *configDir)
	}
	if otelErr != nil {
		Logger.Error("Failed to initialize OTel provider", "error", otelErr)
	}

	game, err = newGame()
	if err != nil {
		return err
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(logging.NewZerolog(logOut, logCfg.Level, remote)))
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	opts := []console.Option{console.WithLogger(Logger)}
	if config.GetGameConfig().JSON {
		opts = append(opts, console.WithJSON())
	} else {
		opts = append(opts, console.WithPrompt("> "))
	}
	c := console.New(game, os.Stdout, opts...)
	c.Register(d)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = c.Run(ctx, os.Stdin, d)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newGame() (*engine.Game, error) {
	bc := config.GetBoardConfig()
	seed := config.GetGameConfig().Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []engine.Option{
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithLogger(Logger),
		engine.WithMeter(OTelProvider.Meter("github.com/tesselate/tesselate/internal/engine")),
	}
	if bc.Pattern != "" {
		p, err := layout.ParsePattern(bc.Pattern)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithPattern(p))
	}

	Logger.Debug("Starting game", "seed", seed, "pattern", bc.Pattern, "scale", bc.Scale)
	return engine.New(engine.Config{
		Width:         bc.Width,
		Height:        bc.Height,
		Scale:         bc.Scale,
		DotRadius:     bc.DotRadius,
		MaxEdgeLength: bc.MaxEdgeLength,
	}, opts...)
}

// openLogFile returns nil when logging to a file is disabled.
func openLogFile(cfg config.LogConfig) (*os.File, error) {
	if !cfg.ToFile {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}

	path := logging.LogFilePath(cfg.Dir, appName, SessionStartTime)
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func gameContext() []slog.Attr {
	if game == nil {
		return nil
	}
	return game.LogAttrs()
}
