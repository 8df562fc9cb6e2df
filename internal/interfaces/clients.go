// Package interfaces defines service contracts for the stock MCP server
package interfaces

import (
	"context"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// MarketDataClient provides access to the market-data provider.
// History periods follow the provider's range notation ("5d", "1mo",
// "2mo", "3mo", "6mo", "1y", "2y"). Absence of data is an empty result,
// not an error.
type MarketDataClient interface {
	// GetQuote retrieves the current quote for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetHistory retrieves daily bars for a lookback period, ordered
	// chronologically (oldest first)
	GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error)

	// GetDividends retrieves dividend payments over a lookback period
	GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error)
}

// StakeClient provides access to the Stake brokerage GraphQL API.
// All calls operate on an explicitly injected session config; there is
// no ambient process state.
type StakeClient interface {
	// Configure replaces the active session, optionally persisting it
	Configure(ctx context.Context, session models.StakeSessionConfig, persist bool) error

	// Status returns the active session with tokens redacted, or nil
	// when no session is configured
	Status(ctx context.Context) (*models.StakeSessionConfig, error)

	// Clear drops the active session and any persisted copy
	Clear(ctx context.Context) error

	// PlaceOrder submits an equity order
	PlaceOrder(ctx context.Context, req models.StakeOrderRequest) (*models.StakeOrder, error)

	// CancelOrder cancels a pending order by ID
	CancelOrder(ctx context.Context, orderID string) error

	// ListOrders returns current orders, optionally filtered by status
	ListOrders(ctx context.Context, statusFilter string) ([]models.StakeOrder, error)

	// Execute runs a raw GraphQL document and returns the decoded
	// response body
	Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error)
}
