// Command download fetches historical bars from a market data provider and
// writes them to a CSV file the replay command can consume.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata"
)

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	ticker := cmd.String("ticker")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	feedFlag := cmd.String("feed")
	timespan := marketdata.Timespan(cmd.String("timespan"))
	output := cmd.String("output")

	feed, err := marketdata.NewFeed(marketdata.FeedType(feedFlag), marketdata.FeedConfig{
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s feed: %w", feedFlag, err)
	}

	log.Printf("Downloading %s from %s to %s via %s...",
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02"), feedFlag)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)),
		progressbar.OptionShowCount())

	var bars []*types.Bar

	for b, err := range feed.Bars(ctx, ticker, start, end, timespan) {
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}

		barCopy := b
		bars = append(bars, &barCopy)
		bar.Add(1)
	}

	bar.Finish()

	if len(bars) == 0 {
		return fmt.Errorf("no bars returned for %s", ticker)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&bars, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	log.Printf("Wrote %d bars to %s", len(bars), output)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical bars to CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Symbol to download",
				Required: true,
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
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", marketdata.FeedBinance, marketdata.FeedPolygon),
				Value:   string(marketdata.FeedBinance),
			},
			&cli.StringFlag{
				Name:  "timespan",
				Usage: "Bar interval (1m, 5m, 1h, 1d, ...)",
				Value: string(marketdata.TimespanOneMinute),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path",
				Value:   "bars.csv",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
