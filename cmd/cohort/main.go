// Command cohort inspects the labeled launch-signal cohort behind the
// predictor and can run a one-off outcome back-fill sweep.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/config"
	"mintshield/internal/domain"
	"mintshield/internal/providers"
	"mintshield/internal/storage"
	chstore "mintshield/internal/storage/clickhouse"
	"mintshield/internal/track"
)

func main() {
	sweep := flag.Bool("sweep", false, "run one outcome back-fill sweep before reporting")
	riskScore := flag.Int("risk", -1, "preview the cohort matched for this risk score")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ClickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "CLICKHOUSE_DSN is required")
		os.Exit(1)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to clickhouse")
	}
	defer conn.Close()

	signals := chstore.NewLaunchSignalStore(conn)

	if *sweep {
		market := providers.NewMarketClient(cfg.Providers.MarketURL, logger)
		tracker := track.NewTracker(signals, market, track.TrackerConfig{
			BatchSize:  cfg.Jobs.OutcomeBatchSize,
			RugDropPct: cfg.Jobs.RugDropPct,
		}, logger)
		tracker.Sweep(ctx)
	}

	labeled, err := signals.CountLabeled(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("count labeled signals")
	}

	report := map[string]interface{}{
		"labeled":          labeled,
		"statisticalReady": labeled >= 100,
	}

	if *riskScore >= 0 {
		cohort, err := signals.QuerySimilar(ctx, &storage.SimilarityQuery{
			RiskScore: *riskScore,
			RiskBand:  15,
			Platform:  domain.PlatformNone,
			Limit:     500,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("query similar signals")
		}
		report["riskScore"] = *riskScore
		report["cohortSize"] = len(cohort)

		rugged := 0
		for _, s := range cohort {
			if s.Rugged != nil && *s.Rugged {
				rugged++
			}
		}
		if len(cohort) > 0 {
			report["cohortRugRate"] = float64(rugged) / float64(len(cohort))
		}
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	_ = out.Encode(report)
}
