// Package market provides quote and price history lookups
package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// Service implements MarketService over the market-data client.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates a market service.
func NewService(client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// NormalizeSymbol upper-cases and trims a user-supplied ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetQuote retrieves the current quote for a symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	s.logger.Debug().Str("symbol", symbol).Float64("price", quote.Price).Msg("Quote fetched")
	return quote, nil
}

// GetHistory retrieves daily bars for a lookback period, oldest first.
func (s *Service) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if period == "" {
		period = "1mo"
	}

	bars, err := s.client.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}

	s.logger.Debug().Str("symbol", symbol).Str("period", period).Int("bars", len(bars)).Msg("History fetched")
	return bars, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
