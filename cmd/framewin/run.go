package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/1broseidon/framewin/internal/config"
	"github.com/1broseidon/framewin/internal/daemon"
	"github.com/1broseidon/framewin/internal/ipc"
	"github.com/1broseidon/framewin/internal/logging"
	"github.com/1broseidon/framewin/internal/platform/native"
	"github.com/1broseidon/framewin/internal/runtimepath"
	"github.com/1broseidon/framewin/internal/source"
	"github.com/1broseidon/framewin/internal/window"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/framewin/config.yaml)")
	backendName := fs.String("backend", "", "Override backend (glfw, x11)")
	presenterName := fs.String("presenter", "", "Override presenter (gl, blit)")
	fps := fs.Int("fps", 0, "Override frames per second")
	noIPC := fs.Bool("no-ipc", false, "Do not listen on the control socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewin run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open every configured window and render until all are closed.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		return 2
	}

	var res *config.LoadResult
	var err error
	if *path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(*path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	if *backendName != "" {
		cfg.Backend = *backendName
	}
	if *presenterName != "" {
		cfg.Presenter = *presenterName
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	logger.Info("configuration loaded", "files", len(res.Files), "backend", cfg.Backend, "presenter", cfg.Presenter, "fps", cfg.FPS)

	backend, err := native.Open(cfg.Backend, cfg.Presenter, logger)
	if err != nil {
		logger.Error("failed to open backend", "backend", cfg.Backend, "error", err)
		return 1
	}
	defer backend.Close()

	manager := window.NewManager(window.Options{
		Backend:    backend,
		Logger:     logger,
		NoWarnings: cfg.NoWarnings,
	})
	sources := make(map[string]source.Source)
	for _, name := range cfg.WindowNames() {
		wc, err := cfg.Window(name)
		if err != nil {
			logger.Error("invalid window", "window", name, "error", err)
			return 1
		}
		if !manager.Initialize(name, wc) {
			logger.Warn("window already initialized", "window", name)
			continue
		}
		src, err := source.Open(cfg.Windows[name].Source)
		if err != nil {
			logger.Error("failed to open source", "window", name, "source", cfg.Windows[name].Source, "error", err)
			return 1
		}
		sources[name] = src
	}

	var ipcServer *ipc.Server
	if !*noIPC {
		ipcServer, err = ipc.NewServer("", logger)
		if err != nil {
			logger.Error("failed to create IPC server", "error", err)
			return 1
		}
		if err := ipcServer.Start(); err != nil {
			logger.Error("failed to start IPC server", "error", err)
			return 1
		}
		defer ipcServer.Stop()
	}

	if pidPath, err := writePIDFile(); err != nil {
		logger.Warn("failed to write pid file", "error", err)
	} else {
		defer os.Remove(pidPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := daemon.NewRunner(daemon.Config{
		Manager: manager,
		Sources: sources,
		FPS:     cfg.FPS,
		IPC:     ipcServer,
		Info: ipc.Info{
			Backend:   cfg.Backend,
			Presenter: cfg.Presenter,
			FPS:       cfg.FPS,
		},
		Logger: logger,
	})
	if err := runner.Run(ctx); err != nil {
		logger.Error("render loop failed", "error", err)
		return 1
	}
	return 0
}

func writePIDFile() (string, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
