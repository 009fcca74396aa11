package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/wallweather/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/wallweather/config.toml)")
	pollSeconds := flag.Int("poll", 0, "poll interval in seconds (optional, overrides poll_seconds)")
	dashboard := flag.Bool("tui", false, "show the terminal dashboard")
	once := flag.Bool("once", false, "apply the current wallpaper once and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Once:       *once,
		Dashboard:  *dashboard && !*once,
		Debug:      *debug,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "wallweather: %v\n", err)
		return 1
	}
	return 0
}
