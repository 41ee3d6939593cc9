// Package main is the entry point for the slate editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/slateedit/slate/internal/app"
	"github.com/slateedit/slate/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "slate - a terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: slate [options] [files...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("slate %s\n", version)
		return 0
	}

	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slate: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logOut := os.Stderr
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "slate: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := app.NewLogger(app.ParseLogLevel(cfg.Logging.Level), logOut)

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slate: %v\n", err)
		return 1
	}
	defer a.Shutdown()

	if path != "" {
		if err := a.WatchConfig(path); err != nil {
			logger.Warn("config watch unavailable: %v", err)
		}
	}

	if args := flag.Args(); len(args) > 0 {
		for _, arg := range args {
			if _, err := a.OpenFile(arg); err != nil {
				fmt.Fprintf(os.Stderr, "slate: %v\n", err)
				return 1
			}
		}
	} else {
		a.NewScratch()
	}

	sh, err := newShell(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slate: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		sh.quit()
	}()

	if err := sh.run(); err != nil {
		fmt.Fprintf(os.Stderr, "slate: %v\n", err)
		return 1
	}
	return 0
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "slate", "slate.toml")
}
