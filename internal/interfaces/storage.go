package interfaces

import (
	"context"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// StorageManager provides access to all storage areas
type StorageManager interface {
	SentimentStorage() SentimentStorage
	PortfolioStorage() PortfolioStorage
	AlertStorage() AlertStorage
	KeyValueStorage() KeyValueStorage
	ChartStorage() ChartStorage
	Close() error
}

// SentimentStorage persists the rolling sentiment history.
// The sequence must be readable back exactly as written, preserving
// insertion order.
type SentimentStorage interface {
	GetHistory(ctx context.Context) (*models.SentimentHistory, error)
	SaveHistory(ctx context.Context, history *models.SentimentHistory) error
}

// PortfolioStorage persists holdings and the transaction ledger
type PortfolioStorage interface {
	GetPortfolio(ctx context.Context) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
}

// AlertStorage persists price and RSI alerts
type AlertStorage interface {
	GetAlerts(ctx context.Context) (*models.AlertBook, error)
	SaveAlerts(ctx context.Context, alerts *models.AlertBook) error
}

// KeyValueStorage provides generic key-value persistence for small
// records such as the brokerage session
type KeyValueStorage interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// ChartStorage persists rendered chart images
type ChartStorage interface {
	// SaveChart writes image bytes and returns the absolute file path
	SaveChart(ctx context.Context, name string, data []byte) (string, error)
}
