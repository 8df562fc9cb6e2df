// Package dividends provides dividend history, yield analysis, income
// projection, and a high-yield screen.
package dividends

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// screenUniverse is the fixed list of well-known dividend payers used
// by the high-yield screen: aristocrats, telecom and tech payers,
// financials, utilities, REITs, and tobacco.
var screenUniverse = []string{
	"JNJ", "PG", "KO", "PEP", "MCD", "WMT", "XOM", "CVX",
	"T", "VZ", "IBM", "INTC", "CSCO", "BMY",
	"JPM", "BAC", "C", "WFC",
	"NEE", "DUK", "SO", "D",
	"O", "STAG", "MPW",
	"MO", "PM", "BTI",
}

// periodYears maps lookback periods to calendar years for filtering
// dividend payments.
var periodYears = map[string]float64{
	"1mo": 1.0 / 12, "3mo": 0.25, "6mo": 0.5,
	"1y": 1, "2y": 2, "5y": 5, "10y": 10,
}

// ScreenLimit caps the number of rows returned by the high-yield screen.
const ScreenLimit = 15

// Service implements DividendService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates a dividend service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// History summarizes a symbol's dividend payments over a period.
// period "max" keeps everything.
func (s *Service) History(ctx context.Context, symbol, period string) (*models.DividendHistory, error) {
	if period == "" {
		period = "5y"
	}

	payments, err := s.client.GetDividends(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dividends for %s: %w", symbol, err)
	}

	if period != "max" {
		years, ok := periodYears[period]
		if !ok {
			years = 5
		}
		cutoff := s.now().AddDate(0, -int(years*12), 0)

		filtered := payments[:0]
		for _, payment := range payments {
			if !payment.Date.Before(cutoff) {
				filtered = append(filtered, payment)
			}
		}
		payments = filtered
	}

	if len(payments) == 0 {
		return nil, fmt.Errorf("no dividend history found for %s: this stock may not pay dividends", symbol)
	}

	history := &models.DividendHistory{
		Symbol:      symbol,
		Payments:    payments,
		Last:        payments[len(payments)-1],
		AnnualTotal: map[int]float64{},
	}
	for _, payment := range payments {
		history.Total += payment.Amount
		history.AnnualTotal[payment.Date.Year()] += payment.Amount
	}
	history.Average = history.Total / float64(len(payments))

	return history, nil
}

// Yield fetches the quote carrying yield, rate, and payout ratio.
// Errors if the stock pays no dividend at all.
func (s *Service) Yield(ctx context.Context, symbol string) (*models.Quote, error) {
	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	if quote.DividendYield == 0 && quote.DividendRate == 0 {
		return nil, fmt.Errorf("%s does not currently pay dividends", symbol)
	}
	return quote, nil
}

// PortfolioIncome projects annual dividend income across every holding
// that pays a dividend.
func (s *Service) PortfolioIncome(ctx context.Context) (*models.DividendIncome, error) {
	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(portfolio.Holdings) == 0 {
		return nil, fmt.Errorf("your portfolio is empty, add holdings to calculate dividend income")
	}

	income := &models.DividendIncome{HoldingCount: len(portfolio.Holdings)}
	for symbol, holding := range portfolio.Holdings {
		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Skipping holding in income projection")
			continue
		}
		if quote.DividendRate <= 0 {
			continue
		}

		annual := holding.Shares * quote.DividendRate
		income.AnnualIncome += annual
		income.Positions = append(income.Positions, models.DividendIncomePosition{
			Symbol:       symbol,
			Shares:       holding.Shares,
			DividendRate: quote.DividendRate,
			AnnualIncome: annual,
			Yield:        quote.DividendYield * 100,
		})
	}

	if len(income.Positions) == 0 {
		return nil, fmt.Errorf("none of your holdings currently pay dividends")
	}

	sort.Slice(income.Positions, func(i, j int) bool {
		return income.Positions[i].Symbol < income.Positions[j].Symbol
	})
	return income, nil
}

// HighYield screens the fixed dividend universe for stocks yielding at
// least minYield percent, optionally filtered by sector, best first.
func (s *Service) HighYield(ctx context.Context, minYield float64, sector string) ([]models.HighYieldStock, error) {
	if minYield == 0 {
		minYield = 3.0
	}

	var matches []models.HighYieldStock
	for _, symbol := range screenUniverse {
		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Skipping symbol in dividend screen")
			continue
		}

		yield := quote.DividendYield * 100
		if yield < minYield {
			continue
		}
		if sector != "" && !containsFold(quote.Sector, sector) {
			continue
		}

		matches = append(matches, models.HighYieldStock{
			Symbol:      symbol,
			Name:        quote.Name,
			Yield:       yield,
			Price:       quote.Price,
			Sector:      quote.Sector,
			PayoutRatio: quote.PayoutRatio * 100,
		})
	}

	if len(matches) == 0 {
		if sector != "" {
			return nil, fmt.Errorf("no stocks found with yield >= %v%% in %s sector", minYield, sector)
		}
		return nil, fmt.Errorf("no stocks found with yield >= %v%%", minYield)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Yield > matches[j].Yield
	})
	if len(matches) > ScreenLimit {
		matches = matches[:ScreenLimit]
	}
	return matches, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Ensure Service implements DividendService
var _ interfaces.DividendService = (*Service)(nil)
