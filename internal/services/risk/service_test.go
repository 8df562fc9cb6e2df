package risk

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/storage"
)

type mockClient struct {
	histories map[string][]models.Bar
	quotes    map[string]*models.Quote
	errs      map[string]error
}

func newMockClient() *mockClient {
	return &mockClient{
		histories: map[string][]models.Bar{},
		quotes:    map[string]*models.Quote{},
		errs:      map[string]error{},
	}
}

func (m *mockClient) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	return m.histories[symbol], nil
}

func (m *mockClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	if quote, ok := m.quotes[symbol]; ok {
		return quote, nil
	}
	return nil, errors.New("no quote")
}

func (m *mockClient) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	return nil, nil
}

func barsWithCloses(closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.Bar{Date: base.AddDate(0, 0, i), Close: c}
	}
	return bars
}

// alternatingBars produces a series oscillating around a base price so
// that returns have non-zero variance.
func alternatingBars(n int, base, swing float64) []models.Bar {
	closes := make([]float64, n)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = base + swing
		} else {
			closes[i] = base - swing
		}
	}
	return barsWithCloses(closes...)
}

func newTestService(t *testing.T, client *mockClient) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return NewService(client, store, logger)
}

func TestSharpe(t *testing.T) {
	client := newMockClient()
	client.histories["AAPL"] = alternatingBars(60, 100, 2)
	svc := newTestService(t, client)

	result, err := svc.Sharpe(context.Background(), "AAPL", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 0.04, result.RiskFreeRate)
	assert.Greater(t, result.AnnualVolatility, 0.0)
	assert.InDelta(t, (result.AnnualReturn-0.04)/result.AnnualVolatility, result.Sharpe, 1e-9)
}

func TestSharpeInsufficientData(t *testing.T) {
	client := newMockClient()
	client.histories["THIN"] = alternatingBars(10, 100, 2)
	svc := newTestService(t, client)

	_, err := svc.Sharpe(context.Background(), "THIN", 0.04, "1y")
	assert.ErrorContains(t, err, "not enough data")
}

func TestBetaTracksBenchmark(t *testing.T) {
	// Stock returns are exactly twice the benchmark's.
	benchCloses := make([]float64, 60)
	stockCloses := make([]float64, 60)
	bench, stock := 100.0, 100.0
	for i := range benchCloses {
		r := 0.01
		if i%2 == 0 {
			r = -0.01
		}
		bench *= 1 + r
		stock *= 1 + 2*r
		benchCloses[i] = bench
		stockCloses[i] = stock
	}

	client := newMockClient()
	client.histories["TSLA"] = barsWithCloses(stockCloses...)
	client.histories["SPY"] = barsWithCloses(benchCloses...)
	svc := newTestService(t, client)

	result, err := svc.Beta(context.Background(), "TSLA", "", "")
	require.NoError(t, err)
	assert.Equal(t, "SPY", result.Benchmark)
	assert.InDelta(t, 2.0, result.Beta, 0.01)
	assert.InDelta(t, 1.0, result.Correlation, 0.001)
}

func TestBetaInsufficientData(t *testing.T) {
	client := newMockClient()
	client.histories["AAPL"] = alternatingBars(10, 100, 1)
	client.histories["SPY"] = alternatingBars(60, 100, 1)
	svc := newTestService(t, client)

	_, err := svc.Beta(context.Background(), "AAPL", "SPY", "1y")
	assert.ErrorContains(t, err, "not enough data")
}

func TestPortfolioRisk(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 100, Beta: 1.2}
	client.quotes["KO"] = &models.Quote{Symbol: "KO", Price: 50, Beta: 0.6}
	client.histories["AAPL"] = alternatingBars(60, 100, 3)
	client.histories["KO"] = alternatingBars(60, 50, 0.5)
	svc := newTestService(t, client)
	ctx := context.Background()

	portfolio := models.NewPortfolio()
	portfolio.Holdings["AAPL"] = models.Holding{Shares: 10, AvgPrice: 90}
	portfolio.Holdings["KO"] = models.Holding{Shares: 20, AvgPrice: 45}
	require.NoError(t, svc.storage.PortfolioStorage().SavePortfolio(ctx, portfolio))

	result, err := svc.PortfolioRisk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, result.TotalValue)
	require.Len(t, result.Positions, 2)

	// AAPL swings harder, so it sorts first.
	assert.Equal(t, "AAPL", result.Positions[0].Symbol)
	assert.Equal(t, 0.5, result.Positions[0].Weight)
	assert.InDelta(t, 0.9, result.Beta, 0.001)
	assert.Equal(t, 0.5, result.MaxWeight)
	assert.Equal(t, 1.0, result.Top3Weight)
}

func TestPortfolioRiskEmpty(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.PortfolioRisk(context.Background())
	assert.ErrorContains(t, err, "empty")
}

func TestPortfolioRiskDefaultsBeta(t *testing.T) {
	client := newMockClient()
	client.quotes["XYZ"] = &models.Quote{Symbol: "XYZ", Price: 10}
	client.histories["XYZ"] = alternatingBars(60, 10, 0.2)
	svc := newTestService(t, client)
	ctx := context.Background()

	portfolio := models.NewPortfolio()
	portfolio.Holdings["XYZ"] = models.Holding{Shares: 100, AvgPrice: 8}
	require.NoError(t, svc.storage.PortfolioStorage().SavePortfolio(ctx, portfolio))

	result, err := svc.PortfolioRisk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Beta)
}

func TestVaR(t *testing.T) {
	client := newMockClient()
	client.histories["SPY"] = alternatingBars(100, 100, 2)
	svc := newTestService(t, client)

	result, err := svc.VaR(context.Background(), "SPY", 0, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, 10000.0, result.PositionSize)
	assert.Greater(t, result.HistoricalVaR, 0.0)
	assert.Greater(t, result.ParametricVaR, 0.0)
	assert.InDelta(t, result.HistoricalVaR/10000*100, result.VaRPct, 1e-9)
}

func TestVaRUnknownConfidenceFallsBack(t *testing.T) {
	client := newMockClient()
	client.histories["SPY"] = alternatingBars(100, 100, 2)
	svc := newTestService(t, client)

	standard, err := svc.VaR(context.Background(), "SPY", 0.95, "1y", 10000)
	require.NoError(t, err)
	odd, err := svc.VaR(context.Background(), "SPY", 0.93, "1y", 10000)
	require.NoError(t, err)

	// 0.93 is not in the z table, so the parametric leg matches 0.95.
	assert.InDelta(t, standard.ParametricVaR, odd.ParametricVaR, 1e-9)
}

func TestDrawdown(t *testing.T) {
	// Rise to 200, crash to 100, recover to 180.
	closes := []float64{100, 150, 200, 160, 120, 100, 140, 180}
	pad := make([]float64, 30)
	for i := range pad {
		pad[i] = 100
	}
	client := newMockClient()
	client.histories["AAPL"] = barsWithCloses(append(pad, closes...)...)
	svc := newTestService(t, client)

	result, err := svc.Drawdown(context.Background(), "AAPL", "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, result.PeakPrice)
	assert.Equal(t, 100.0, result.TroughPrice)
	assert.InDelta(t, -0.5, result.MaxDrawdown, 1e-9)
	assert.Equal(t, 200.0, result.AllTimeHigh)
	assert.Equal(t, 180.0, result.CurrentPrice)
	assert.InDelta(t, -0.1, result.CurrentDrawdown, 1e-9)
}

func TestDrawdownAtHigh(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	client := newMockClient()
	client.histories["UP"] = barsWithCloses(closes...)
	svc := newTestService(t, client)

	result, err := svc.Drawdown(context.Background(), "UP", "5y")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.MaxDrawdown)
	assert.Equal(t, 0.0, result.CurrentDrawdown)
	assert.True(t, math.Abs(result.CurrentDrawdown) < 1e-12)
}

func TestVaRInsufficientData(t *testing.T) {
	client := newMockClient()
	client.histories["THIN"] = alternatingBars(5, 100, 1)
	svc := newTestService(t, client)

	_, err := svc.VaR(context.Background(), "THIN", 0.95, "1y", 10000)
	assert.ErrorContains(t, err, "not enough data")
}
