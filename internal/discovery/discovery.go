// Package discovery watches launch-platform program logs and emits fresh
// mint addresses for instant scanning. Discovery is opportunistic: a
// dropped or missed launch is never an error, the next scan request will
// cover it.
package discovery

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"mintshield/internal/domain"
	"mintshield/internal/observability"
	"mintshield/internal/solana"
)

// launchBuffer is the emit-channel capacity; events past it are dropped.
const launchBuffer = 256

// Launch is one discovered token launch.
type Launch struct {
	Mint      string
	Platform  domain.Platform
	Signature string
	Slot      int64
}

// LogSource is the subscription feed a watch consumes, satisfied by
// solana.LogStream.
type LogSource interface {
	Notifications() <-chan solana.LogNotification
	Close() error
}

// watch pairs one program subscription with its platform label.
type watch struct {
	source   LogSource
	platform domain.Platform
}

// Monitor fans several program-log subscriptions into one launch feed.
type Monitor struct {
	ledger   solana.Client
	watches  []watch
	launches chan Launch
	log      zerolog.Logger
}

// NewMonitor creates a monitor over explicit log sources.
func NewMonitor(ledger solana.Client, logger zerolog.Logger) *Monitor {
	return &Monitor{
		ledger:   ledger,
		launches: make(chan Launch, launchBuffer),
		log:      logger.With().Str("component", "discovery").Logger(),
	}
}

// Watch adds one program subscription to the monitor.
func (m *Monitor) Watch(source LogSource, platform domain.Platform) {
	m.watches = append(m.watches, watch{source: source, platform: platform})
}

// Connect creates a monitor subscribed to the pump.fun and Raydium
// programs over the given WebSocket endpoint.
func Connect(ctx context.Context, wsEndpoint string, ledger solana.Client, logger zerolog.Logger) (*Monitor, error) {
	m := NewMonitor(ledger, logger)

	pump, err := solana.NewLogStream(ctx, wsEndpoint, []string{solana.PumpFunProgramID}, nil)
	if err != nil {
		return nil, err
	}
	m.Watch(pump, domain.PlatformPump)

	raydium, err := solana.NewLogStream(ctx, wsEndpoint, []string{solana.RaydiumAMMProgramID}, nil)
	if err != nil {
		pump.Close()
		return nil, err
	}
	m.Watch(raydium, domain.PlatformRaydium)
	return m, nil
}

// Launches returns the discovered-launch feed.
func (m *Monitor) Launches() <-chan Launch {
	return m.launches
}

// Run consumes every subscription until the context ends, then closes the
// sources and the launch feed.
func (m *Monitor) Run(ctx context.Context) {
	done := make(chan struct{}, len(m.watches))
	for _, w := range m.watches {
		go func(w watch) {
			m.consume(ctx, w)
			done <- struct{}{}
		}(w)
	}

	<-ctx.Done()
	for _, w := range m.watches {
		w.source.Close()
	}
	for range m.watches {
		<-done
	}
	close(m.launches)
}

func (m *Monitor) consume(ctx context.Context, w watch) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-w.source.Notifications():
			if !ok {
				return
			}
			m.handle(ctx, w.platform, n)
		}
	}
}

func (m *Monitor) handle(ctx context.Context, platform domain.Platform, n solana.LogNotification) {
	if n.Err != nil || !isLaunch(platform, n.Logs) {
		return
	}

	mint := m.extractMint(ctx, n.Signature)
	if mint == "" {
		return
	}

	launch := Launch{
		Mint:      mint,
		Platform:  platform,
		Signature: n.Signature,
		Slot:      n.Slot,
	}
	select {
	case m.launches <- launch:
		observability.RecordLaunchDiscovered(string(platform))
		m.log.Debug().Str("mint", mint).Str("platform", string(platform)).Msg("launch discovered")
	default:
		observability.DefaultMetrics.LaunchesDropped.Inc()
	}
}

// isLaunch matches the program log lines that mark a token or pool
// creation for each platform.
func isLaunch(platform domain.Platform, logs []string) bool {
	for _, line := range logs {
		switch platform {
		case domain.PlatformPump:
			if strings.Contains(line, "Instruction: Create") &&
				!strings.Contains(line, "CreateIdempotent") {
				return true
			}
		case domain.PlatformRaydium:
			if strings.Contains(line, "initialize2") ||
				strings.Contains(line, "Instruction: Initialize2") {
				return true
			}
		}
	}
	return false
}

// extractMint fetches the launch transaction and returns the first
// non-native mint it touched.
func (m *Monitor) extractMint(ctx context.Context, signature string) string {
	tx, err := m.ledger.GetTransaction(ctx, signature)
	if err != nil || tx == nil || tx.Meta == nil {
		return ""
	}
	for _, tb := range tx.Meta.PostTokenBalances {
		if tb.Mint != "" && tb.Mint != solana.WSOLMint {
			return tb.Mint
		}
	}
	return ""
}
