package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

type mockClient struct {
	lastSymbol string
	lastPeriod string
	quote      *models.Quote
	bars       []models.Bar
	err        error
}

func (m *mockClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.lastSymbol = symbol
	return m.quote, m.err
}

func (m *mockClient) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	m.lastSymbol = symbol
	m.lastPeriod = period
	return m.bars, m.err
}

func (m *mockClient) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	return nil, nil
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
	assert.Equal(t, "^VIX", NormalizeSymbol("^vix"))
	assert.Equal(t, "", NormalizeSymbol("  "))
}

func TestGetQuoteNormalizes(t *testing.T) {
	client := &mockClient{quote: &models.Quote{Symbol: "AAPL", Price: 180}}
	svc := NewService(client, common.NewSilentLogger())

	quote, err := svc.GetQuote(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", client.lastSymbol)
	assert.Equal(t, 180.0, quote.Price)

	_, err = svc.GetQuote(context.Background(), "  ")
	assert.ErrorContains(t, err, "symbol is required")
}

func TestGetHistoryDefaultsPeriod(t *testing.T) {
	client := &mockClient{bars: []models.Bar{{Close: 100}}}
	svc := NewService(client, common.NewSilentLogger())

	bars, err := svc.GetHistory(context.Background(), "spy", "")
	require.NoError(t, err)
	assert.Equal(t, "SPY", client.lastSymbol)
	assert.Equal(t, "1mo", client.lastPeriod)
	assert.Len(t, bars, 1)
}

func TestGetHistoryPropagatesError(t *testing.T) {
	client := &mockClient{err: errors.New("upstream down")}
	svc := NewService(client, common.NewSilentLogger())

	_, err := svc.GetHistory(context.Background(), "SPY", "1y")
	assert.ErrorContains(t, err, "upstream down")
}
