// Command replay feeds historical bars through the strategy engine and
// persists the emitted signals.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/config"
	"github.com/rxtech-lab/argo-signal/internal/engine"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/store"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata"
)

func replayAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	feedFlag := cmd.String("feed")
	dataPath := cmd.String("data")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	timespan := marketdata.Timespan(cmd.String("timespan"))
	actionableOnly := cmd.Bool("actionable-only")

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
		return fmt.Errorf("config has no symbols to replay")
	}

	strategies, err := cfg.BuildStrategies()
	if err != nil {
		return fmt.Errorf("failed to build strategies: %w", err)
	}

	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = ":memory:"
	}

	signalStore, err := store.Open(storePath, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open signal store: %w", err)
	}
	defer signalStore.Close()

	feed, err := marketdata.NewFeed(marketdata.FeedType(feedFlag), marketdata.FeedConfig{
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
		CSVPath:       dataPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s feed: %w", feedFlag, err)
	}

	sink := func(signal types.Signal) {
		if actionableOnly && !signal.Actionable() {
			return
		}

		if _, err := signalStore.Write(signal); err != nil {
			appLogger.Error("failed to persist signal", zap.Error(err))
		}
	}

	eng, err := engine.New(appLogger, nil, strategies, sink)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Replaying bars"),
		progressbar.OptionShowCount())

	var submitted int

	for _, symbol := range cfg.Symbols {
		for b, err := range feed.Bars(ctx, symbol, start, end, timespan) {
			if err != nil {
				return fmt.Errorf("feed error for %s: %w", symbol, err)
			}

			if err := eng.Submit(b); err != nil {
				return fmt.Errorf("failed to submit bar: %w", err)
			}

			submitted++
			bar.Add(1)
		}
	}

	eng.Close()
	bar.Finish()

	stored, err := signalStore.Count()
	if err != nil {
		return fmt.Errorf("failed to count signals: %w", err)
	}

	appLogger.Info("replay complete",
		zap.Int("bars", submitted),
		zap.Int("signals", stored),
		zap.Int("strategies", len(strategies)),
		zap.String("store", storePath))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "replay",
		Usage: "Replay historical bars through the strategy engine",
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
				Usage:   fmt.Sprintf("Bar feed to replay from (%s, %s, %s)", marketdata.FeedCSV, marketdata.FeedBinance, marketdata.FeedPolygon),
				Value:   string(marketdata.FeedCSV),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the CSV bar file when using the csv feed",
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "timespan",
				Usage: "Bar interval (1m, 5m, 1h, 1d, ...)",
				Value: string(marketdata.TimespanOneDay),
			},
			&cli.BoolFlag{
				Name:  "actionable-only",
				Usage: "Persist only long/short signals, dropping neutral ones",
			},
		},
		Action: replayAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
