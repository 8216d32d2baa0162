package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go-clockin/internal/app"
	"go-clockin/internal/config"
	"go-clockin/internal/domain"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	watch := flag.Bool("watch", false, "stay open and clock on every Enter")
	recordFix := flag.String("record-fix", "", "write `lat,lon` as the device's last fix before clocking (redis source only)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stdin := bufio.NewReader(os.Stdin)
	a, err := app.BuildClockin(ctx, cfg, stdin, os.Stdout, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer a.Close()

	if *recordFix != "" {
		if err := record(ctx, a, *recordFix); err != nil {
			logger.Fatal("record fix failed", zap.Error(err))
		}
	}

	a.Controller.Init(ctx)

	if !*watch {
		a.Controller.Clock(ctx)
		return
	}

	fmt.Println("Press Enter to clock, Ctrl-D to quit.")
	for {
		if _, err := stdin.ReadString('\n'); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("read input", zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		a.Controller.Clock(ctx)
	}
}

func record(ctx context.Context, a *app.Clockin, raw string) error {
	if a.Recorder == nil {
		return errors.New("-record-fix needs LOCATION_SOURCE=redis")
	}
	latS, lonS, ok := strings.Cut(raw, ",")
	if !ok {
		return fmt.Errorf("expected lat,lon, got %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	return a.Recorder.Record(ctx, domain.GeoPosition{Latitude: lat, Longitude: lon}, time.Now())
}

func newLogger(cfg *config.ClientConfig) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
