// Command scan runs a single scan against one mint and prints the result
// as JSON. Useful for spot checks and for piping into jq.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/checks"
	"mintshield/internal/config"
	"mintshield/internal/domain"
	"mintshield/internal/predict"
	"mintshield/internal/providers"
	"mintshield/internal/scan"
	"mintshield/internal/solana"
	"mintshield/internal/storage/memory"
)

func main() {
	mode := flag.String("mode", "deep", "scan mode: deep or instant")
	timeout := flag.Duration("timeout", 30*time.Second, "overall scan deadline")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scan [flags] <mint>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	mint := flag.Arg(0)

	scanMode := domain.ScanMode(*mode)
	if scanMode != domain.ModeDeep && scanMode != domain.ModeInstant {
		fmt.Fprintf(os.Stderr, "unknown mode %q, want deep or instant\n", *mode)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	rpc := solana.NewHTTPClient(cfg.RPCEndpoint)
	battery := checks.NewBattery(cfg.Weights, logger)
	signals := memory.NewLaunchSignalStore()

	sources := scan.Providers{
		Security:  providers.NewSecurityClient(cfg.Providers.SecurityURL, cfg.Providers.SecurityAPIKey, logger),
		Market:    providers.NewMarketClient(cfg.Providers.MarketURL, logger),
		Forensics: providers.NewForensicsClient(cfg.Providers.ForensicsURL, logger),
		Quote:     providers.NewQuoteClient(cfg.Providers.QuoteURL, logger),
		Metadata:  providers.NewMetadataClient(cfg.Providers.IPFSGateway, logger),
	}

	scanner := scan.New(rpc, battery, sources, predict.New(signals, logger), signals, nil, scan.Config{
		GraduationMarketCapUSD: cfg.Scan.GraduationMarketCapUSD,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := scanner.Scan(ctx, mint, scanMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan: %v\n", err)
		os.Exit(1)
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}

	// Exit code mirrors the verdict so scripts can branch on it.
	if resp.RiskLevel == domain.RiskHigh || resp.RiskLevel == domain.RiskCritical {
		os.Exit(3)
	}
}
