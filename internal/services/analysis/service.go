// Package analysis provides technical analysis over price history:
// moving-average screens, RSI, MACD, trend summaries, and side-by-side
// comparison.
package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/signals"
)

// Service implements AnalysisService.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates an analysis service.
func NewService(client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// BuyOpportunity screens for a 20-day SMA crossing above the 50-day.
func (s *Service) BuyOpportunity(ctx context.Context, symbol string) (*models.BuyOpportunity, error) {
	bars, err := s.client.GetHistory(ctx, symbol, "6mo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 50 {
		return &models.BuyOpportunity{Symbol: symbol}, nil
	}

	sma20 := signals.SMA(bars, 20)
	sma50 := signals.SMA(bars, 50)
	prev20 := signals.SMA(bars[:len(bars)-1], 20)
	prev50 := signals.SMA(bars[:len(bars)-1], 50)

	return &models.BuyOpportunity{
		Symbol:     symbol,
		SMA20:      sma20,
		SMA50:      sma50,
		Crossover:  prev20 <= prev50 && sma20 > sma50,
		ShortAbove: sma20 > sma50,
		Enough:     true,
	}, nil
}

// RSI computes the current Relative Strength Index and the previous
// session's reading for trend direction.
func (s *Service) RSI(ctx context.Context, symbol string, period int, timeframe string) (*models.RSIAnalysis, error) {
	if period <= 0 {
		period = 14
	}
	if timeframe == "" {
		timeframe = "3mo"
	}

	bars, err := s.client.GetHistory(ctx, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < period+2 {
		return nil, fmt.Errorf("insufficient data for %s: need at least %d bars, got %d", symbol, period+2, len(bars))
	}

	rsi := signals.RSISeries(signals.Closes(bars), period)
	current := rsi[len(rsi)-1]
	prev := rsi[len(rsi)-2]
	if math.IsNaN(current) {
		return nil, fmt.Errorf("insufficient data to compute RSI for %s", symbol)
	}

	return &models.RSIAnalysis{
		Symbol:  symbol,
		Period:  period,
		Current: current,
		Prev:    prev,
	}, nil
}

// MACD computes the 12/26/9 MACD state, including the previous
// histogram value for crossover detection.
func (s *Service) MACD(ctx context.Context, symbol, timeframe string) (*models.MACDAnalysis, error) {
	if timeframe == "" {
		timeframe = "6mo"
	}

	bars, err := s.client.GetHistory(ctx, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 26 {
		return nil, fmt.Errorf("insufficient data for %s: need at least 26 bars, got %d", symbol, len(bars))
	}

	macd, signal := signals.MACDSeries(signals.Closes(bars), 12, 26, 9)
	last := len(macd) - 1

	return &models.MACDAnalysis{
		Symbol:        symbol,
		MACD:          macd[last],
		Signal:        signal[last],
		Histogram:     macd[last] - signal[last],
		PrevHistogram: macd[last-1] - signal[last-1],
	}, nil
}

// Trends builds the multi-indicator trend summary: moving averages,
// volume behavior, volatility, and a simple composite signal.
func (s *Service) Trends(ctx context.Context, symbol, timeframe string) (*models.TrendAnalysis, error) {
	if timeframe == "" {
		timeframe = "1y"
	}

	bars, err := s.client.GetHistory(ctx, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 50 {
		return nil, fmt.Errorf("insufficient data for %s: need at least 50 bars, got %d", symbol, len(bars))
	}

	price := models.LatestClose(bars)
	sma20 := signals.SMA(bars, 20)
	sma50 := signals.SMA(bars, 50)

	analysis := &models.TrendAnalysis{
		Symbol:       symbol,
		CurrentPrice: price,
		SMA20:        sma20,
		SMA50:        sma50,
		PriceVsSMA20: ((price - sma20) / sma20) * 100,
		PriceVsSMA50: ((price - sma50) / sma50) * 100,
	}
	if len(bars) >= 200 {
		sma200 := signals.SMA(bars, 200)
		analysis.SMA200 = sma200
		analysis.HasSMA200 = true
		analysis.PriceVsSMA200 = ((price - sma200) / sma200) * 100
	}

	// Recent volume (last 5 sessions) against the period average
	avgVolume := signals.MeanVolume(bars)
	recentVolume := signals.MeanVolume(bars[len(bars)-5:])
	switch {
	case recentVolume > avgVolume*1.2:
		analysis.VolumeTrend = "High"
	case recentVolume < avgVolume*0.8:
		analysis.VolumeTrend = "Low"
	default:
		analysis.VolumeTrend = "Normal"
	}

	analysis.Volatility = signals.StdDev(signals.Returns(signals.Closes(bars))) * 100

	// Composite: price above each SMA and the short SMA above the long
	// each vote +1 or -1
	votes := []float64{
		vote(price > sma20),
		vote(price > sma50),
		vote(sma20 > sma50),
	}
	analysis.SignalAvg = signals.Mean(votes)

	return analysis, nil
}

func vote(bullish bool) float64 {
	if bullish {
		return 1
	}
	return -1
}

// Compare fetches quotes and three-month returns for multiple symbols.
// Symbols that fail to resolve are skipped.
func (s *Service) Compare(ctx context.Context, symbols []string) ([]models.StockComparison, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("need at least 2 symbols to compare, got %d", len(symbols))
	}

	var comparisons []models.StockComparison
	for _, symbol := range symbols {
		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Skipping symbol in comparison")
			continue
		}
		bars, err := s.client.GetHistory(ctx, symbol, "3mo")
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Skipping symbol in comparison")
			continue
		}

		comparisons = append(comparisons, models.StockComparison{
			Symbol:        symbol,
			Price:         quote.Price,
			MarketCap:     quote.MarketCap,
			PERatio:       quote.PERatio,
			Return3Mo:     models.PeriodReturn(bars),
			Volume:        quote.Volume,
			DividendYield: quote.DividendYield,
		})
	}

	if len(comparisons) == 0 {
		return nil, fmt.Errorf("no data available for any of the requested symbols")
	}
	return comparisons, nil
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
