package portfolio

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
	quotes map[string]*models.Quote
	errs   map[string]error
}

func newMockClient() *mockClient {
	return &mockClient{
		quotes: map[string]*models.Quote{},
		errs:   map[string]error{},
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
	return nil, errors.New("not implemented")
}

func (m *mockClient) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	return nil, nil
}

func newTestService(t *testing.T, client *mockClient) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return NewService(client, store, logger)
}

func TestAddHoldingNewPosition(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	holding, err := svc.AddHolding(ctx, "AAPL", 10, 150, "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, 10.0, holding.Shares)
	assert.Equal(t, 150.0, holding.AvgPrice)
	assert.Equal(t, "2026-08-01", holding.LastUpdated)
}

func TestAddHoldingAveragesPrice(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 10, 100, "2026-08-01")
	require.NoError(t, err)
	holding, err := svc.AddHolding(ctx, "AAPL", 10, 200, "2026-08-02")
	require.NoError(t, err)

	assert.Equal(t, 20.0, holding.Shares)
	assert.Equal(t, 150.0, holding.AvgPrice)

	// The blended price is rounded to cents.
	holding, err = svc.AddHolding(ctx, "AAPL", 10, 100, "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, 30.0, holding.Shares)
	assert.Equal(t, 133.33, holding.AvgPrice)
}

func TestAddHoldingValidation(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 0, 100, "")
	assert.Error(t, err)
	_, err = svc.AddHolding(ctx, "AAPL", 10, -1, "")
	assert.Error(t, err)
}

func TestRemoveHoldingPartialSell(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 10, 100, "2026-08-01")
	require.NoError(t, err)

	txn, remaining, err := svc.RemoveHolding(ctx, "AAPL", 4, 120, "2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, 6.0, remaining)
	assert.Equal(t, models.TransactionSell, txn.Type)
	assert.Equal(t, 80.0, txn.ProfitLoss)
	assert.InDelta(t, 20.0, txn.ProfitLossPct, 0.001)
	assert.NotEmpty(t, txn.ID)
}

func TestRemoveHoldingFullSellDeletesPosition(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 10, 100, "2026-08-01")
	require.NoError(t, err)

	_, remaining, err := svc.RemoveHolding(ctx, "AAPL", 10, 90, "2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, 0.0, remaining)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Positions)
}

func TestRemoveHoldingErrors(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, _, err := svc.RemoveHolding(ctx, "TSLA", 1, 100, "")
	assert.ErrorContains(t, err, "don't own any shares")

	_, err = svc.AddHolding(ctx, "TSLA", 5, 100, "")
	require.NoError(t, err)
	_, _, err = svc.RemoveHolding(ctx, "TSLA", 6, 100, "")
	assert.ErrorContains(t, err, "only own")
}

func TestViewWithLivePrices(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 200}
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 10, 150, "2026-08-01")
	require.NoError(t, err)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Positions, 1)
	assert.True(t, view.Positions[0].PriceKnown)
	assert.Equal(t, 200.0, view.Positions[0].CurrentPrice)
	assert.Equal(t, 1500.0, view.TotalCost)
	assert.Equal(t, 2000.0, view.TotalValue)
	assert.Equal(t, 500.0, view.GainLoss)
	assert.InDelta(t, 33.333, view.GainLossPct, 0.001)
}

func TestViewSurvivesQuoteFailure(t *testing.T) {
	client := newMockClient()
	client.errs["AAPL"] = errors.New("upstream down")
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 10, 150, "2026-08-01")
	require.NoError(t, err)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Positions, 1)
	assert.False(t, view.Positions[0].PriceKnown)
	assert.Equal(t, 0.0, view.Positions[0].CurrentPrice)
	assert.Equal(t, 1500.0, view.TotalCost)
	assert.Equal(t, 0.0, view.TotalValue)
}

func TestTransactionsNewestFirst(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	_, err := svc.AddHolding(ctx, "AAPL", 1, 100, "2026-08-01")
	require.NoError(t, err)
	_, err = svc.AddHolding(ctx, "MSFT", 1, 300, "2026-08-02")
	require.NoError(t, err)
	_, _, err = svc.RemoveHolding(ctx, "AAPL", 1, 110, "2026-08-03")
	require.NoError(t, err)

	txns, err := svc.Transactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionSell, txns[0].Type)
	assert.Equal(t, "AAPL", txns[0].Symbol)
	assert.Equal(t, "MSFT", txns[1].Symbol)
}

func TestTransactionsEmpty(t *testing.T) {
	svc := newTestService(t, newMockClient())
	txns, err := svc.Transactions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
