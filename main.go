package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/getlantern/systray"

	"flyff-assist/internal/config"
	"flyff-assist/internal/logging"
)

const logPath = "Debug.log"

// SafeGo runs fn in a goroutine that logs a panic instead of crashing.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("PANIC in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", config.DefaultPath, "path of the data file")
		trainPath  = flag.String("train", "", "run detection on a screenshot and write result.png")
		input      = flag.String("input", "browser", "input backend: browser or native")
		origin     = flag.String("origin", "0,0", "screen position of the canvas for native input (x,y)")
		ocr        = flag.Bool("ocr", false, "read the ping with Tesseract to detect disconnects")
		overlay    = flag.Bool("overlay", false, "draw detections over the game canvas")
		verbose    = flag.Bool("verbose", false, "log debug messages")
	)
	flag.Parse()

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	if err := logging.Init(logPath, level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logging.Close()
	logging.Info("=== Flyff Assist Started ===")

	data, err := config.Load(*configPath)
	if err != nil {
		logging.Error("Invalid configuration: %v", err)
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if errors.Is(err, config.ErrGridShape) {
			return 2
		}
		return 1
	}

	if *trainPath != "" {
		if err := TrainingMode(*trainPath, data); err != nil {
			logging.Error("Training mode failed: %v", err)
			fmt.Fprintf(os.Stderr, "Training mode failed: %v\n", err)
			return 1
		}
		return 0
	}

	pos, err := parseOrigin(*origin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	bot, err := NewBot(Options{
		ConfigPath: *configPath,
		Input:      *input,
		Origin:     pos,
		OCR:        *ocr,
		Overlay:    *overlay,
	}, data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	SafeGo(func() {
		sig := <-sigChan
		logging.Info("Signal received: %v, shutting down gracefully...", sig)
		systray.Quit()
	})

	bot.tray.Run()
	bot.Shutdown()
	logging.Info("=== Flyff Assist Shutdown ===")
	return 0
}
