// Command live streams bars from a market data provider through the strategy
// engine, persisting signals and serving them over HTTP and WebSocket.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/config"
	"github.com/rxtech-lab/argo-signal/internal/engine"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/server"
	"github.com/rxtech-lab/argo-signal/internal/store"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata"
)

func liveAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	feedFlag := cmd.String("feed")
	timespan := marketdata.Timespan(cmd.String("timespan"))
	lookback := cmd.Duration("lookback")
	poll := cmd.Duration("poll")

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Symbols) == 0 {
		return fmt.Errorf("config has no symbols to stream")
	}

	strategies, err := cfg.BuildStrategies()
	if err != nil {
		return fmt.Errorf("failed to build strategies: %w", err)
	}

	var signalStore *store.SignalStore
	if cfg.Store.Path != "" {
		signalStore, err = store.Open(cfg.Store.Path, appLogger)
		if err != nil {
			return fmt.Errorf("failed to open signal store: %w", err)
		}
		defer signalStore.Close()
	}

	var signalServer *server.Server
	if cfg.Server.Listen != "" {
		signalServer = server.New(appLogger, signalStore)
		if err := signalServer.Start(cfg.Server.Listen); err != nil {
			return fmt.Errorf("failed to start signal server: %w", err)
		}
		defer signalServer.Stop()
	}

	feed, err := marketdata.NewFeed(marketdata.FeedType(feedFlag), marketdata.FeedConfig{
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
		CSVPath:       cmd.String("data"),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s feed: %w", feedFlag, err)
	}

	sink := func(sig types.Signal) {
		if sig.Actionable() {
			appLogger.Info("signal",
				zap.String("symbol", sig.Symbol),
				zap.String("strategy", sig.Strategy),
				zap.String("direction", string(sig.Direction)),
				zap.Float64("confidence", sig.Confidence),
				zap.Bool("exit", sig.Exit),
				zap.String("reason", sig.Reason))
		}

		if signalStore != nil {
			if _, err := signalStore.Write(sig); err != nil {
				appLogger.Error("failed to persist signal", zap.Error(err))
			}
		}

		if signalServer != nil {
			signalServer.Broadcast(sig)
		}
	}

	eng, err := engine.New(appLogger, nil, strategies, sink)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("received interrupt, shutting down")
		cancel()
	}()

	appLogger.Info("streaming bars",
		zap.Strings("symbols", cfg.Symbols),
		zap.String("feed", feedFlag),
		zap.String("timespan", string(timespan)),
		zap.Duration("poll", poll))

	// Backfill from the lookback window first so strategies warm up before
	// acting on live bars.
	lastSeen := make(map[string]time.Time, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		lastSeen[symbol] = time.Now().Add(-lookback)
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		for _, symbol := range cfg.Symbols {
			if err := pollSymbol(ctx, eng, feed, symbol, timespan, lastSeen); err != nil {
				appLogger.Error("poll failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// pollSymbol submits bars newer than the last seen bar time and advances the
// high-water mark. Fetching from just past the mark keeps polls idempotent.
func pollSymbol(ctx context.Context, eng *engine.Engine, feed marketdata.Feed,
	symbol string, timespan marketdata.Timespan, lastSeen map[string]time.Time) error {
	since := lastSeen[symbol]

	for bar, err := range feed.Bars(ctx, symbol, since.Add(time.Millisecond), time.Now(), timespan) {
		if err != nil {
			return err
		}

		if !bar.Time.After(since) {
			continue
		}

		if err := eng.Submit(bar); err != nil {
			return err
		}

		lastSeen[symbol] = bar.Time
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "live",
		Usage: "Stream live bars through the strategy engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine config YAML",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Bar feed to stream from (%s, %s)", marketdata.FeedBinance, marketdata.FeedPolygon),
				Value:   string(marketdata.FeedBinance),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the CSV bar file when using the csv feed",
			},
			&cli.StringFlag{
				Name:  "timespan",
				Usage: "Bar interval (1m, 5m, 1h, ...)",
				Value: string(marketdata.TimespanOneMinute),
			},
			&cli.DurationFlag{
				Name:  "lookback",
				Usage: "Historical window fetched at startup to warm strategies up",
				Value: 4 * time.Hour,
			},
			&cli.DurationFlag{
				Name:  "poll",
				Usage: "Interval between feed polls",
				Value: 30 * time.Second,
			},
		},
		Action: liveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
