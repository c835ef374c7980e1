package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

func testSignal(mint string, risk int, mcap float64) *domain.LaunchSignal {
	return &domain.LaunchSignal{
		Mint:         mint,
		Platform:     domain.PlatformPump,
		RiskScore:    risk,
		MarketCapUSD: mcap,
		CreatedAt:    1_756_300_000_000,
	}
}

func labeled(sig *domain.LaunchSignal, mcap24h float64) *domain.LaunchSignal {
	sig.MarketCap24h = &mcap24h
	return sig
}

func TestLaunchSignalInsertIdempotency(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testSignal("mint1", 40, 10_000)))

	err := s.Insert(ctx, testSignal("mint1", 99, 99_999))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The original snapshot survives the duplicate insert.
	got, err := s.GetByMint(ctx, "mint1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.RiskScore)
}

func TestLaunchSignalInsertValidation(t *testing.T) {
	s := NewLaunchSignalStore()
	assert.ErrorIs(t, s.Insert(context.Background(), &domain.LaunchSignal{}), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.Insert(context.Background(), nil), storage.ErrInvalidInput)
}

func TestLaunchSignalGetByMintNotFound(t *testing.T) {
	s := NewLaunchSignalStore()
	_, err := s.GetByMint(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLaunchSignalUpdateOutcome(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, testSignal("mint1", 40, 10_000)))

	rugged := true
	mins := 42
	require.NoError(t, s.UpdateOutcome(ctx, "mint1", &storage.Outcome{
		Horizon:      domain.Horizon1h,
		MarketCapUSD: 25_000,
		PriceUSD:     0.002,
		Rugged:       &rugged,
		RugMinutes:   &mins,
	}))

	got, err := s.GetByMint(ctx, "mint1")
	require.NoError(t, err)
	require.NotNil(t, got.MarketCap1h)
	assert.Equal(t, 25_000.0, *got.MarketCap1h)
	require.NotNil(t, got.Rugged)
	assert.True(t, *got.Rugged)
	assert.Equal(t, 42, *got.RugMinutes)
	assert.False(t, got.Labeled(), "1h outcome alone is not labeled")

	require.NoError(t, s.UpdateOutcome(ctx, "mint1", &storage.Outcome{
		Horizon:      domain.Horizon24h,
		MarketCapUSD: 5_000,
		PriceUSD:     0.0004,
	}))
	got, err = s.GetByMint(ctx, "mint1")
	require.NoError(t, err)
	assert.True(t, got.Labeled())

	assert.ErrorIs(t, s.UpdateOutcome(ctx, "missing", &storage.Outcome{Horizon: domain.Horizon1h}), storage.ErrNotFound)
}

func TestLaunchSignalPendingOutcomes(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	young := testSignal("young", 40, 10_000)
	young.CreatedAt = 2_000
	old := testSignal("old", 40, 10_000)
	old.CreatedAt = 1_000
	observed := testSignal("observed", 40, 10_000)
	observed.CreatedAt = 900
	mc := 1_000.0
	observed.MarketCap1h = &mc

	require.NoError(t, s.Insert(ctx, young))
	require.NoError(t, s.Insert(ctx, old))
	require.NoError(t, s.Insert(ctx, observed))

	pending, err := s.PendingOutcomes(ctx, domain.Horizon1h, 1_500, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "old", pending[0].Mint)
}

func TestLaunchSignalCountLabeled(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, labeled(testSignal("a", 40, 10_000), 20_000)))
	require.NoError(t, s.Insert(ctx, testSignal("b", 40, 10_000)))

	n, err := s.CountLabeled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLaunchSignalQuerySimilar(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, labeled(testSignal("near", 42, 10_000), 20_000)))
	require.NoError(t, s.Insert(ctx, labeled(testSignal("edge", 55, 10_000), 20_000)))
	require.NoError(t, s.Insert(ctx, labeled(testSignal("far-risk", 70, 10_000), 20_000)))
	require.NoError(t, s.Insert(ctx, labeled(testSignal("far-mcap", 40, 1_000_000), 20_000)))
	require.NoError(t, s.Insert(ctx, testSignal("unlabeled", 40, 10_000)))
	other := labeled(testSignal("other-platform", 40, 10_000), 20_000)
	other.Platform = domain.PlatformRaydium
	require.NoError(t, s.Insert(ctx, other))

	got, err := s.QuerySimilar(ctx, &storage.SimilarityQuery{
		RiskScore:    40,
		RiskBand:     15,
		Platform:     domain.PlatformPump,
		MarketCapUSD: 12_000,
		Limit:        500,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].Mint, "nearest by risk distance first")
	assert.Equal(t, "edge", got[1].Mint)
}

func TestLaunchSignalQuerySimilarAnyPlatform(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	pump := labeled(testSignal("pump", 40, 10_000), 20_000)
	ray := labeled(testSignal("ray", 40, 10_000), 20_000)
	ray.Platform = domain.PlatformRaydium
	require.NoError(t, s.Insert(ctx, pump))
	require.NoError(t, s.Insert(ctx, ray))

	got, err := s.QuerySimilar(ctx, &storage.SimilarityQuery{
		RiskScore: 40,
		RiskBand:  15,
		Platform:  domain.PlatformNone,
		Limit:     500,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLaunchSignalQuerySimilarLimit(t *testing.T) {
	s := NewLaunchSignalStore()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		require.NoError(t, s.Insert(ctx, labeled(testSignal(string(rune('a'+i)), 40+i%10, 10_000), 20_000)))
	}
	got, err := s.QuerySimilar(ctx, &storage.SimilarityQuery{
		RiskScore: 40,
		RiskBand:  15,
		Platform:  domain.PlatformNone,
		Limit:     5,
	})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
