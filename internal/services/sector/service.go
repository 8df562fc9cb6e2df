// Package sector provides sector-level analytics: representative-stock
// analysis, ETF comparison, leader rankings, and portfolio allocation.
package sector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// analysisStocks maps sector names to representative constituents for
// the sector analysis.
var analysisStocks = map[string][]string{
	"technology":             {"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AMD", "INTC", "CSCO", "ORCL", "ADBE"},
	"healthcare":             {"JNJ", "UNH", "PFE", "ABBV", "TMO", "ABT", "LLY", "MRK", "BMY", "AMGN"},
	"financial services":     {"JPM", "BAC", "WFC", "GS", "MS", "C", "BLK", "SCHW", "AXP", "USB"},
	"energy":                 {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO", "OXY", "HAL"},
	"consumer cyclical":      {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "TGT", "LOW", "TJX", "CMG"},
	"consumer defensive":     {"WMT", "PG", "KO", "PEP", "COST", "PM", "MO", "CL", "MDLZ", "KMB"},
	"utilities":              {"NEE", "DUK", "SO", "D", "AEP", "EXC", "SRE", "PEG", "XEL", "ED"},
	"industrials":            {"UPS", "HON", "UNP", "BA", "CAT", "GE", "MMM", "LMT", "RTX", "DE"},
	"real estate":            {"AMT", "PLD", "CCI", "EQIX", "PSA", "SPG", "O", "WELL", "DLR", "AVB"},
	"materials":              {"LIN", "APD", "SHW", "ECL", "DD", "NEM", "FCX", "NUE", "VMC", "MLM"},
	"communication services": {"GOOGL", "META", "DIS", "NFLX", "CMCSA", "T", "VZ", "TMUS", "EA", "TTWO"},
}

// leaderStocks is the wider constituent set used for leader rankings.
var leaderStocks = map[string][]string{
	"technology":         {"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AMD", "INTC", "CSCO", "ORCL", "ADBE", "CRM", "AVGO", "TXN", "QCOM", "NOW"},
	"healthcare":         {"JNJ", "UNH", "PFE", "ABBV", "TMO", "ABT", "LLY", "MRK", "BMY", "AMGN", "DHR", "CVS", "MDT", "GILD", "CI"},
	"financial services": {"JPM", "BAC", "WFC", "GS", "MS", "C", "BLK", "SCHW", "AXP", "USB", "PNC", "TFC", "COF", "BK", "SPG"},
	"energy":             {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO", "OXY", "HAL", "KMI", "WMB", "HES", "DVN", "BKR"},
	"consumer cyclical":  {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "TGT", "LOW", "TJX", "CMG", "F", "GM", "MAR", "BKNG", "YUM"},
}

// comparisonETF pairs a sector name with its SPDR ETF.
type comparisonETF struct {
	Sector string
	ETF    string
}

// comparisonETFs lists the eleven SPDR sector ETFs used for comparison.
var comparisonETFs = []comparisonETF{
	{"Technology", "XLK"},
	{"Healthcare", "XLV"},
	{"Financials", "XLF"},
	{"Energy", "XLE"},
	{"Consumer Discretionary", "XLY"},
	{"Consumer Staples", "XLP"},
	{"Utilities", "XLU"},
	{"Industrials", "XLI"},
	{"Real Estate", "XLRE"},
	{"Materials", "XLB"},
	{"Communication Services", "XLC"},
}

// Service implements SectorService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a sector service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

func availableSectors(stocks map[string][]string) string {
	names := make([]string, 0, len(stocks))
	for name := range stocks {
		names = append(names, titleCase(name))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (s *Service) fetchStock(ctx context.Context, symbol string) (*models.SectorStock, error) {
	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bars, err := s.client.GetHistory(ctx, symbol, "3mo")
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}

	return &models.SectorStock{
		Symbol:        symbol,
		Name:          quote.Name,
		Price:         quote.Price,
		MarketCap:     quote.MarketCap,
		PERatio:       quote.PERatio,
		Return3Mo:     models.PeriodReturn(bars),
		Volume:        quote.Volume,
		AvgVolume:     quote.AvgVolume,
		DividendYield: quote.DividendYield * 100,
	}, nil
}

// Analyze examines a sector through its representative stocks.
func (s *Service) Analyze(ctx context.Context, sector string) (*models.SectorAnalysis, error) {
	symbols, ok := analysisStocks[strings.ToLower(sector)]
	if !ok {
		return nil, fmt.Errorf("sector %q not recognized, available sectors: %s", sector, availableSectors(analysisStocks))
	}

	analysis := &models.SectorAnalysis{Sector: sector}
	var peSum float64
	var peCount int

	for _, symbol := range symbols {
		stock, err := s.fetchStock(ctx, symbol)
		if err != nil {
			s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Skipping stock in sector analysis")
			continue
		}

		analysis.Stocks = append(analysis.Stocks, *stock)
		analysis.TotalMarketCap += stock.MarketCap
		analysis.AvgReturn += stock.Return3Mo
		if stock.Return3Mo > 0 {
			analysis.PositiveCount++
		}
		if stock.PERatio != 0 {
			peSum += stock.PERatio
			peCount++
		}
	}

	if len(analysis.Stocks) == 0 {
		return nil, fmt.Errorf("could not retrieve data for %s sector", sector)
	}

	analysis.AvgReturn /= float64(len(analysis.Stocks))
	if peCount > 0 {
		analysis.AvgPE = peSum / float64(peCount)
	}

	// Best performers first
	sort.Slice(analysis.Stocks, func(i, j int) bool {
		return analysis.Stocks[i].Return3Mo > analysis.Stocks[j].Return3Mo
	})

	return analysis, nil
}

// Compare ranks the eleven SPDR sector ETFs by three-month return,
// with one-month and one-year returns alongside.
func (s *Service) Compare(ctx context.Context) ([]models.SectorPerformance, error) {
	var performances []models.SectorPerformance

	for _, entry := range comparisonETFs {
		bars, err := s.client.GetHistory(ctx, entry.ETF, "1y")
		if err != nil || len(bars) == 0 {
			s.logger.Debug().Str("etf", entry.ETF).Err(err).Msg("Skipping ETF in sector comparison")
			continue
		}

		current := models.LatestClose(bars)
		performances = append(performances, models.SectorPerformance{
			Sector:    entry.Sector,
			ETF:       entry.ETF,
			Return1Mo: returnFrom(bars, 22, current),
			Return3Mo: returnFrom(bars, 66, current),
			Return1Yr: models.PeriodReturn(bars),
		})
	}

	if len(performances) == 0 {
		return nil, fmt.Errorf("could not retrieve sector comparison data")
	}

	sort.Slice(performances, func(i, j int) bool {
		return performances[i].Return3Mo > performances[j].Return3Mo
	})
	return performances, nil
}

// returnFrom computes the percent return from sessionsAgo sessions
// back, falling back to the first bar for shorter histories.
func returnFrom(bars []models.Bar, sessionsAgo int, current float64) float64 {
	base := bars[0].Close
	if len(bars) >= sessionsAgo {
		base = bars[len(bars)-sessionsAgo].Close
	}
	if base == 0 {
		return 0
	}
	return ((current - base) / base) * 100
}

// Leaders ranks a sector's constituents by the chosen metric: "return",
// "market_cap", "volume", or "dividend_yield". Unknown metrics rank by
// return. Top ten returned.
func (s *Service) Leaders(ctx context.Context, sector, metric string) ([]models.SectorStock, error) {
	symbols, ok := leaderStocks[strings.ToLower(sector)]
	if !ok {
		return nil, fmt.Errorf("sector %q not recognized, available sectors: %s", sector, availableSectors(leaderStocks))
	}

	var stocks []models.SectorStock
	for _, symbol := range symbols {
		stock, err := s.fetchStock(ctx, symbol)
		if err != nil {
			s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Skipping stock in leader ranking")
			continue
		}
		stocks = append(stocks, *stock)
	}

	if len(stocks) == 0 {
		return nil, fmt.Errorf("could not retrieve data for %s sector", sector)
	}

	sort.Slice(stocks, func(i, j int) bool {
		switch metric {
		case "market_cap":
			return stocks[i].MarketCap > stocks[j].MarketCap
		case "volume":
			return stocks[i].AvgVolume > stocks[j].AvgVolume
		case "dividend_yield":
			return stocks[i].DividendYield > stocks[j].DividendYield
		default:
			return stocks[i].Return3Mo > stocks[j].Return3Mo
		}
	})

	if len(stocks) > 10 {
		stocks = stocks[:10]
	}
	return stocks, nil
}

// PortfolioAllocation breaks the portfolio down by sector, weighted by
// current market value. Holdings without a sector group under Unknown.
func (s *Service) PortfolioAllocation(ctx context.Context) (*models.SectorAllocation, error) {
	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(portfolio.Holdings) == 0 {
		return nil, fmt.Errorf("your portfolio is empty, add holdings to see sector allocation")
	}

	type bucket struct {
		value   float64
		symbols []string
	}
	buckets := map[string]*bucket{}
	var totalValue float64

	symbols := make([]string, 0, len(portfolio.Holdings))
	for symbol := range portfolio.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		holding := portfolio.Holdings[symbol]
		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Skipping holding in sector allocation")
			continue
		}

		sector := quote.Sector
		if sector == "" {
			sector = "Unknown"
		}

		value := holding.Shares * quote.Price
		totalValue += value
		if b, ok := buckets[sector]; ok {
			b.value += value
			b.symbols = append(b.symbols, symbol)
		} else {
			buckets[sector] = &bucket{value: value, symbols: []string{symbol}}
		}
	}

	if len(buckets) == 0 || totalValue == 0 {
		return nil, fmt.Errorf("could not retrieve sector data for any holding")
	}

	allocation := &models.SectorAllocation{TotalValue: totalValue}
	for sector, b := range buckets {
		allocation.Weights = append(allocation.Weights, models.SectorWeight{
			Sector:     sector,
			Value:      b.value,
			Percentage: b.value / totalValue * 100,
			Symbols:    b.symbols,
		})
	}

	sort.Slice(allocation.Weights, func(i, j int) bool {
		return allocation.Weights[i].Percentage > allocation.Weights[j].Percentage
	})
	return allocation, nil
}

// Ensure Service implements SectorService
var _ interfaces.SectorService = (*Service)(nil)
