package alerts

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

func rampBars(n int, start, step float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Close: start + float64(i)*step}
	}
	return bars
}

func newTestService(t *testing.T, client *mockClient) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return NewService(client, store, logger)
}

func TestSetPriceAlert(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	svc := newTestService(t, client)

	alert, err := svc.SetPriceAlert(context.Background(), "AAPL", 200, "above", "")
	require.NoError(t, err)
	assert.Equal(t, "AAPL price above $200", alert.Name)
	assert.Equal(t, 180.0, alert.CurrentPrice)
	assert.Equal(t, models.AlertStatusActive, alert.Status)
	assert.NotEmpty(t, alert.ID)

	book, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, book.PriceAlerts, 1)
}

func TestSetPriceAlertValidation(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	svc := newTestService(t, client)

	_, err := svc.SetPriceAlert(context.Background(), "AAPL", 200, "sideways", "")
	assert.ErrorContains(t, err, "invalid alert_type")

	_, err = svc.SetPriceAlert(context.Background(), "UNKNOWN", 200, "above", "")
	assert.ErrorContains(t, err, "could not fetch current price")
}

func TestSetRSIAlert(t *testing.T) {
	client := newMockClient()
	client.histories["TSLA"] = rampBars(60, 100, 1)
	svc := newTestService(t, client)

	alert, err := svc.SetRSIAlert(context.Background(), "TSLA", 70, "above", "overbought watch")
	require.NoError(t, err)
	assert.Equal(t, "overbought watch", alert.Name)
	assert.Equal(t, 100.0, alert.CurrentRSI)
}

func TestSetRSIAlertValidation(t *testing.T) {
	client := newMockClient()
	client.histories["TSLA"] = rampBars(60, 100, 1)
	svc := newTestService(t, client)

	_, err := svc.SetRSIAlert(context.Background(), "TSLA", 150, "above", "")
	assert.ErrorContains(t, err, "between 0 and 100")

	client.histories["THIN"] = rampBars(5, 100, 1)
	_, err = svc.SetRSIAlert(context.Background(), "THIN", 70, "above", "")
	assert.ErrorContains(t, err, "not enough data")
}

func TestCheckTriggersAndPersists(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.SetPriceAlert(ctx, "AAPL", 175, "above", "")
	require.NoError(t, err)
	_, err = svc.SetPriceAlert(ctx, "AAPL", 150, "below", "")
	require.NoError(t, err)

	items, err := svc.Check(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Triggered)
	assert.False(t, items[1].Triggered)

	book, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusTriggered, book.PriceAlerts[0].Status)
	assert.Equal(t, models.AlertStatusActive, book.PriceAlerts[1].Status)

	// A second check skips the already-triggered alert.
	items, err = svc.Check(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCheckRSIAlert(t *testing.T) {
	client := newMockClient()
	client.histories["BEAR"] = rampBars(60, 200, -1)
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.SetRSIAlert(ctx, "BEAR", 30, "below", "")
	require.NoError(t, err)

	items, err := svc.Check(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rsi", items[0].Kind)
	assert.True(t, items[0].Triggered)
}

func TestCheckSurvivesQuoteFailure(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.SetPriceAlert(ctx, "AAPL", 175, "above", "")
	require.NoError(t, err)
	client.errs["AAPL"] = errors.New("upstream down")

	items, err := svc.Check(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Checked)
	assert.False(t, items[0].Triggered)
}

func TestCheckNoAlerts(t *testing.T) {
	svc := newTestService(t, newMockClient())
	items, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearTriggered(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.SetPriceAlert(ctx, "AAPL", 175, "above", "")
	require.NoError(t, err)
	_, err = svc.SetPriceAlert(ctx, "AAPL", 150, "below", "")
	require.NoError(t, err)
	_, err = svc.Check(ctx)
	require.NoError(t, err)

	clearedPrice, clearedRSI, err := svc.ClearTriggered(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, clearedPrice)
	assert.Equal(t, 0, clearedRSI)

	book, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, book.PriceAlerts, 1)
	assert.Equal(t, models.AlertStatusActive, book.PriceAlerts[0].Status)
}

func TestDeleteAll(t *testing.T) {
	client := newMockClient()
	client.quotes["AAPL"] = &models.Quote{Symbol: "AAPL", Price: 180}
	client.histories["AAPL"] = rampBars(60, 100, 1)
	svc := newTestService(t, client)
	ctx := context.Background()

	_, err := svc.SetPriceAlert(ctx, "AAPL", 200, "above", "")
	require.NoError(t, err)
	_, err = svc.SetRSIAlert(ctx, "AAPL", 70, "above", "")
	require.NoError(t, err)

	count, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	book, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, book.PriceAlerts)
	assert.Empty(t, book.RSIAlerts)
}
