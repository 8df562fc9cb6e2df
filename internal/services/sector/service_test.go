package sector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/storage"
)

type mockClient struct {
	quotes    map[string]*models.Quote
	histories map[string][]models.Bar
	errs      map[string]error
}

func newMockClient() *mockClient {
	return &mockClient{
		quotes:    map[string]*models.Quote{},
		histories: map[string][]models.Bar{},
		errs:      map[string]error{},
	}
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

func (m *mockClient) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	return m.histories[symbol], nil
}

func (m *mockClient) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	return nil, nil
}

func (m *mockClient) addStock(symbol string, quote models.Quote, firstClose, lastClose float64) {
	quote.Symbol = symbol
	m.quotes[symbol] = &quote
	m.histories[symbol] = []models.Bar{{Close: firstClose}, {Close: lastClose}}
}

func newTestService(t *testing.T, client *mockClient) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return NewService(client, store, logger)
}

func TestAnalyze(t *testing.T) {
	client := newMockClient()
	client.addStock("NEE", models.Quote{Price: 80, MarketCap: 160e9, PERatio: 20}, 100, 110)
	client.addStock("DUK", models.Quote{Price: 100, MarketCap: 80e9, PERatio: 18}, 100, 95)
	svc := newTestService(t, client)

	analysis, err := svc.Analyze(context.Background(), "Utilities")
	require.NoError(t, err)
	require.Len(t, analysis.Stocks, 2)
	assert.Equal(t, 240e9, analysis.TotalMarketCap)
	assert.InDelta(t, 2.5, analysis.AvgReturn, 1e-9)
	assert.InDelta(t, 19.0, analysis.AvgPE, 1e-9)
	assert.Equal(t, 1, analysis.PositiveCount)

	// Sorted best return first
	assert.Equal(t, "NEE", analysis.Stocks[0].Symbol)
}

func TestAnalyzeUnknownSector(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.Analyze(context.Background(), "Cryptocurrency")
	assert.ErrorContains(t, err, "not recognized")
	assert.ErrorContains(t, err, "Technology")
}

func TestAnalyzeNoData(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.Analyze(context.Background(), "Energy")
	assert.ErrorContains(t, err, "could not retrieve data")
}

func TestCompareRanksBy3Mo(t *testing.T) {
	client := newMockClient()

	// 300 bars each so all lookbacks resolve.
	mkBars := func(start, end float64) []models.Bar {
		bars := make([]models.Bar, 300)
		for i := range bars {
			frac := float64(i) / 299
			bars[i] = models.Bar{Close: start + (end-start)*frac}
		}
		return bars
	}
	client.histories["XLK"] = mkBars(100, 130)
	client.histories["XLU"] = mkBars(100, 105)
	svc := newTestService(t, client)

	performances, err := svc.Compare(context.Background())
	require.NoError(t, err)
	require.Len(t, performances, 2)
	assert.Equal(t, "Technology", performances[0].Sector)
	assert.Equal(t, "XLK", performances[0].ETF)
	assert.Greater(t, performances[0].Return3Mo, performances[1].Return3Mo)
	assert.InDelta(t, 30.0, performances[0].Return1Yr, 1e-9)
}

func TestCompareShortHistoryFallsBackToFirstBar(t *testing.T) {
	client := newMockClient()
	client.histories["XLE"] = []models.Bar{{Close: 100}, {Close: 110}}
	svc := newTestService(t, client)

	performances, err := svc.Compare(context.Background())
	require.NoError(t, err)
	require.Len(t, performances, 1)
	assert.InDelta(t, 10.0, performances[0].Return1Mo, 1e-9)
	assert.InDelta(t, 10.0, performances[0].Return3Mo, 1e-9)
	assert.InDelta(t, 10.0, performances[0].Return1Yr, 1e-9)
}

func TestCompareNoData(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.Compare(context.Background())
	assert.ErrorContains(t, err, "could not retrieve")
}

func TestLeadersByMetric(t *testing.T) {
	client := newMockClient()
	client.addStock("XOM", models.Quote{Price: 110, MarketCap: 450e9, AvgVolume: 15e6, DividendYield: 0.034}, 100, 105)
	client.addStock("CVX", models.Quote{Price: 150, MarketCap: 280e9, AvgVolume: 8e6, DividendYield: 0.041}, 100, 112)
	svc := newTestService(t, client)
	ctx := context.Background()

	leaders, err := svc.Leaders(ctx, "Energy", "return")
	require.NoError(t, err)
	assert.Equal(t, "CVX", leaders[0].Symbol)

	leaders, err = svc.Leaders(ctx, "Energy", "market_cap")
	require.NoError(t, err)
	assert.Equal(t, "XOM", leaders[0].Symbol)

	leaders, err = svc.Leaders(ctx, "Energy", "dividend_yield")
	require.NoError(t, err)
	assert.Equal(t, "CVX", leaders[0].Symbol)

	// Unknown metric ranks by return.
	leaders, err = svc.Leaders(ctx, "Energy", "momentum")
	require.NoError(t, err)
	assert.Equal(t, "CVX", leaders[0].Symbol)
}

func TestLeadersUnknownSector(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.Leaders(context.Background(), "Utilities", "return")
	assert.ErrorContains(t, err, "not recognized")
}

func TestPortfolioAllocation(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 200, Sector: "Technology"}
	client.quotes["MSFT"] = &models.Quote{Symbol: "MSFT", Price: 400, Sector: "Technology"}
	client.quotes["KO"] = &models.Quote{Symbol: "KO", Price: 60, Sector: "Consumer Defensive"}
	svc := newTestService(t, client)
	ctx := context.Background()

	portfolio := models.NewPortfolio()
	portfolio.Holdings["AAPL"] = models.Holding{Shares: 10, AvgPrice: 150}
	portfolio.Holdings["MSFT"] = models.Holding{Shares: 5, AvgPrice: 300}
	portfolio.Holdings["KO"] = models.Holding{Shares: 50, AvgPrice: 55}
	require.NoError(t, svc.storage.PortfolioStorage().SavePortfolio(ctx, portfolio))

	allocation, err := svc.PortfolioAllocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7000.0, allocation.TotalValue)
	require.Len(t, allocation.Weights, 2)

	tech := allocation.Weights[0]
	assert.Equal(t, "Technology", tech.Sector)
	assert.Equal(t, 4000.0, tech.Value)
	assert.InDelta(t, 57.14, tech.Percentage, 0.01)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tech.Symbols)
}

func TestPortfolioAllocationUnknownSector(t *testing.T) {
	client := newMockClient()
	client.quotes["XYZ"] = &models.Quote{Symbol: "XYZ", Price: 10}
	svc := newTestService(t, client)
	ctx := context.Background()

	portfolio := models.NewPortfolio()
	portfolio.Holdings["XYZ"] = models.Holding{Shares: 10, AvgPrice: 8}
	require.NoError(t, svc.storage.PortfolioStorage().SavePortfolio(ctx, portfolio))

	allocation, err := svc.PortfolioAllocation(ctx)
	require.NoError(t, err)
	require.Len(t, allocation.Weights, 1)
	assert.Equal(t, "Unknown", allocation.Weights[0].Sector)
}

func TestPortfolioAllocationEmpty(t *testing.T) {
	svc := newTestService(t, newMockClient())
	_, err := svc.PortfolioAllocation(context.Background())
	assert.ErrorContains(t, err, "empty")
}
