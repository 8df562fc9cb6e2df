// Package portfolio manages holdings and the transaction ledger.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// Service implements PortfolioService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates a portfolio service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AddHolding merges a buy into the portfolio. An existing position is
// blended at the cost-weighted average price, rounded to cents.
func (s *Service) AddHolding(ctx context.Context, symbol string, shares, price float64, date string) (*models.Holding, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("shares must be positive, got %v", shares)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive, got %v", price)
	}
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	store := s.storage.PortfolioStorage()
	portfolio, err := store.GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	holding := portfolio.Holdings[symbol]
	if holding.Shares > 0 {
		totalCost := holding.Shares*holding.AvgPrice + shares*price
		totalShares := holding.Shares + shares
		holding = models.Holding{
			Shares:      totalShares,
			AvgPrice:    round2(totalCost / totalShares),
			LastUpdated: date,
		}
	} else {
		holding = models.Holding{
			Shares:      shares,
			AvgPrice:    price,
			LastUpdated: date,
		}
	}
	portfolio.Holdings[symbol] = holding

	portfolio.Transactions = append(portfolio.Transactions, models.Transaction{
		ID:     uuid.NewString(),
		Type:   models.TransactionBuy,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
		Date:   date,
		Total:  round2(shares * price),
	})

	if err := store.SavePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Float64("shares", shares).Float64("price", price).Msg("Holding added")
	return &holding, nil
}

// RemoveHolding sells shares from a position, recording realized P/L
// against the average cost. Selling the full position deletes it.
// Returns the sell transaction and the shares remaining.
func (s *Service) RemoveHolding(ctx context.Context, symbol string, shares, price float64, date string) (*models.Transaction, float64, error) {
	if shares <= 0 {
		return nil, 0, fmt.Errorf("shares must be positive, got %v", shares)
	}
	if price <= 0 {
		return nil, 0, fmt.Errorf("price must be positive, got %v", price)
	}
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	store := s.storage.PortfolioStorage()
	portfolio, err := store.GetPortfolio(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load portfolio: %w", err)
	}

	holding, ok := portfolio.Holdings[symbol]
	if !ok {
		return nil, 0, fmt.Errorf("you don't own any shares of %s", symbol)
	}
	if shares > holding.Shares {
		return nil, 0, fmt.Errorf("you only own %v shares of %s, cannot sell %v", holding.Shares, symbol, shares)
	}

	profitLoss := round2((price - holding.AvgPrice) * shares)
	profitLossPct := ((price - holding.AvgPrice) / holding.AvgPrice) * 100

	remaining := holding.Shares - shares
	if remaining > 0 {
		holding.Shares = remaining
		holding.LastUpdated = date
		portfolio.Holdings[symbol] = holding
	} else {
		delete(portfolio.Holdings, symbol)
	}

	txn := models.Transaction{
		ID:            uuid.NewString(),
		Type:          models.TransactionSell,
		Symbol:        symbol,
		Shares:        shares,
		Price:         price,
		Date:          date,
		Total:         round2(shares * price),
		ProfitLoss:    profitLoss,
		ProfitLossPct: profitLossPct,
	}
	portfolio.Transactions = append(portfolio.Transactions, txn)

	if err := store.SavePortfolio(ctx, portfolio); err != nil {
		return nil, 0, err
	}

	s.logger.Info().
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("profit_loss", profitLoss).
		Msg("Holding sold")
	return &txn, remaining, nil
}

// View values every holding at its live price. Positions whose quote
// cannot be fetched are reported at cost with a zero price.
func (s *Service) View(ctx context.Context) (*models.PortfolioView, error) {
	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	symbols := make([]string, 0, len(portfolio.Holdings))
	for symbol := range portfolio.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	view := &models.PortfolioView{}
	for _, symbol := range symbols {
		holding := portfolio.Holdings[symbol]
		position := models.PortfolioPosition{
			Symbol:      symbol,
			Shares:      holding.Shares,
			AvgPrice:    holding.AvgPrice,
			Invested:    holding.CostBasis(),
			LastUpdated: holding.LastUpdated,
		}

		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil || quote.Price == 0 {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Quote unavailable for position")
		} else {
			position.PriceKnown = true
			position.CurrentPrice = quote.Price
			position.CurrentValue = quote.Price * holding.Shares
			position.GainLoss = position.CurrentValue - position.Invested
			if position.Invested > 0 {
				position.GainLossPct = (position.GainLoss / position.Invested) * 100
			}
		}

		view.Positions = append(view.Positions, position)
		view.TotalCost += position.Invested
		view.TotalValue += position.CurrentValue
	}

	view.GainLoss = view.TotalValue - view.TotalCost
	if view.TotalCost > 0 {
		view.GainLossPct = (view.GainLoss / view.TotalCost) * 100
	}

	return view, nil
}

// Transactions returns the most recent transactions, newest first.
func (s *Service) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}

	total := len(portfolio.Transactions)
	if total == 0 {
		return nil, nil
	}

	start := total - limit
	if start < 0 {
		start = 0
	}
	recent := portfolio.Transactions[start:]

	// Newest first
	reversed := make([]models.Transaction, len(recent))
	for i, txn := range recent {
		reversed[len(recent)-1-i] = txn
	}
	return reversed, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
