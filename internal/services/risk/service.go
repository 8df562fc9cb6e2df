// Package risk computes risk metrics: Sharpe ratio, beta, Value at
// Risk, drawdowns, and portfolio-wide risk aggregation.
package risk

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/signals"
)

const (
	tradingDaysPerYear  = 252
	defaultRiskFreeRate = 0.04
)

// zScores maps confidence levels to one-tailed normal z values for the
// parametric VaR estimate.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.99: 2.33,
}

// Service implements RiskService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a risk service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

func annualize(returns []float64) (avgReturn, volatility float64) {
	avgReturn = signals.Mean(returns) * tradingDaysPerYear
	volatility = signals.StdDev(returns) * math.Sqrt(tradingDaysPerYear)
	return avgReturn, volatility
}

// Sharpe computes the annualized Sharpe ratio from daily returns.
func (s *Service) Sharpe(ctx context.Context, symbol string, riskFreeRate float64, period string) (*models.SharpeAnalysis, error) {
	if riskFreeRate == 0 {
		riskFreeRate = defaultRiskFreeRate
	}
	if period == "" {
		period = "1y"
	}

	bars, err := s.client.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 30 {
		return nil, fmt.Errorf("not enough data to calculate Sharpe ratio for %s", symbol)
	}

	returns := signals.Returns(signals.Closes(bars))
	avgReturn, volatility := annualize(returns)
	if volatility == 0 {
		return nil, fmt.Errorf("zero volatility for %s, cannot compute Sharpe ratio", symbol)
	}

	return &models.SharpeAnalysis{
		Symbol:           symbol,
		AnnualReturn:     avgReturn,
		AnnualVolatility: volatility,
		RiskFreeRate:     riskFreeRate,
		Sharpe:           (avgReturn - riskFreeRate) / volatility,
	}, nil
}

// Beta computes beta and correlation against a benchmark from aligned
// daily returns.
func (s *Service) Beta(ctx context.Context, symbol, benchmark, period string) (*models.BetaAnalysis, error) {
	if benchmark == "" {
		benchmark = "SPY"
	}
	if period == "" {
		period = "1y"
	}

	stockBars, err := s.client.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	benchBars, err := s.client.GetHistory(ctx, benchmark, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", benchmark, err)
	}
	if len(stockBars) < 30 || len(benchBars) < 30 {
		return nil, fmt.Errorf("not enough data to calculate Beta for %s", symbol)
	}

	stockReturns := signals.Returns(signals.Closes(stockBars))
	benchReturns := signals.Returns(signals.Closes(benchBars))

	// Align tail-first: both series end at the latest session.
	n := len(stockReturns)
	if len(benchReturns) < n {
		n = len(benchReturns)
	}
	if n < 30 {
		return nil, fmt.Errorf("not enough aligned data to calculate Beta for %s", symbol)
	}
	stockReturns = stockReturns[len(stockReturns)-n:]
	benchReturns = benchReturns[len(benchReturns)-n:]

	benchStd := signals.StdDev(benchReturns)
	if benchStd == 0 {
		return nil, fmt.Errorf("benchmark %s has zero variance", benchmark)
	}

	beta := signals.Covariance(stockReturns, benchReturns) / (benchStd * benchStd)

	return &models.BetaAnalysis{
		Symbol:           symbol,
		Benchmark:        benchmark,
		Beta:             beta,
		Correlation:      signals.Correlation(stockReturns, benchReturns),
		StockVolatility:  signals.StdDev(stockReturns) * math.Sqrt(tradingDaysPerYear),
		MarketVolatility: benchStd * math.Sqrt(tradingDaysPerYear),
	}, nil
}

// PortfolioRisk aggregates volatility, beta, and concentration metrics
// across every holding, weighted by current market value.
func (s *Service) PortfolioRisk(ctx context.Context) (*models.PortfolioRisk, error) {
	portfolio, err := s.storage.PortfolioStorage().GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(portfolio.Holdings) == 0 {
		return nil, fmt.Errorf("your portfolio is empty, add holdings to analyze risk")
	}

	type positionData struct {
		risk      models.PositionRisk
		avgReturn float64
	}

	var positions []positionData
	var totalValue float64

	for symbol, holding := range portfolio.Holdings {
		quote, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Skipping position in risk analysis")
			continue
		}
		bars, err := s.client.GetHistory(ctx, symbol, "1y")
		if err != nil || len(bars) == 0 {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("No history for position")
			continue
		}

		returns := signals.Returns(signals.Closes(bars))
		avgReturn, volatility := annualize(returns)

		beta := quote.Beta
		if beta == 0 {
			beta = 1.0
		}

		value := holding.Shares * quote.Price
		totalValue += value
		positions = append(positions, positionData{
			risk: models.PositionRisk{
				Symbol:     symbol,
				Value:      value,
				Volatility: volatility,
				Beta:       beta,
			},
			avgReturn: avgReturn,
		})
	}

	if len(positions) == 0 || totalValue == 0 {
		return nil, fmt.Errorf("could not retrieve sufficient data for risk analysis")
	}

	result := &models.PortfolioRisk{TotalValue: totalValue}
	var totalReturn float64
	for i := range positions {
		weight := positions[i].risk.Value / totalValue
		positions[i].risk.Weight = weight
		result.Volatility += positions[i].risk.Volatility * weight
		result.Beta += positions[i].risk.Beta * weight
		totalReturn += positions[i].avgReturn * weight
	}

	if result.Volatility > 0 {
		result.Sharpe = (totalReturn - defaultRiskFreeRate) / result.Volatility
	}

	// Most volatile first
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].risk.Volatility > positions[j].risk.Volatility
	})
	weights := make([]float64, len(positions))
	for i, p := range positions {
		result.Positions = append(result.Positions, p.risk)
		weights[i] = p.risk.Weight
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(weights)))
	result.MaxWeight = weights[0]
	for i := 0; i < len(weights) && i < 3; i++ {
		result.Top3Weight += weights[i]
	}

	return result, nil
}

// VaR estimates one-day Value at Risk with both the historical and
// parametric methods.
func (s *Service) VaR(ctx context.Context, symbol string, confidence float64, period string, positionSize float64) (*models.VaRAnalysis, error) {
	if confidence == 0 {
		confidence = 0.95
	}
	if period == "" {
		period = "1y"
	}
	if positionSize == 0 {
		positionSize = 10000
	}

	bars, err := s.client.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 30 {
		return nil, fmt.Errorf("not enough data to calculate VaR for %s", symbol)
	}

	returns := signals.Returns(signals.Closes(bars))

	historical := positionSize * math.Abs(signals.Percentile(returns, (1-confidence)*100))

	zScore, ok := zScores[confidence]
	if !ok {
		zScore = 1.65
	}
	parametric := positionSize * (signals.Mean(returns) - zScore*signals.StdDev(returns))

	return &models.VaRAnalysis{
		Symbol:        symbol,
		Confidence:    confidence,
		PositionSize:  positionSize,
		HistoricalVaR: historical,
		ParametricVaR: math.Abs(parametric),
		VaRPct:        (historical / positionSize) * 100,
	}, nil
}

// Drawdown computes the maximum peak-to-trough decline and the current
// distance from the running high.
func (s *Service) Drawdown(ctx context.Context, symbol, period string) (*models.DrawdownAnalysis, error) {
	if period == "" {
		period = "5y"
	}

	bars, err := s.client.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < 30 {
		return nil, fmt.Errorf("not enough data to calculate drawdown for %s", symbol)
	}

	var runningMax, maxDrawdown float64
	var troughIdx int
	peakAtTrough := bars[0].Close

	for i, bar := range bars {
		if bar.Close > runningMax {
			runningMax = bar.Close
		}
		drawdown := (bar.Close - runningMax) / runningMax
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
			troughIdx = i
			peakAtTrough = runningMax
		}
	}

	currentPrice := models.LatestClose(bars)

	return &models.DrawdownAnalysis{
		Symbol:          symbol,
		PeakPrice:       peakAtTrough,
		TroughPrice:     bars[troughIdx].Close,
		MaxDrawdown:     maxDrawdown,
		TroughDate:      bars[troughIdx].Date.Format("2006-01-02"),
		CurrentPrice:    currentPrice,
		AllTimeHigh:     runningMax,
		CurrentDrawdown: (currentPrice - runningMax) / runningMax,
	}, nil
}

// Ensure Service implements RiskService
var _ interfaces.RiskService = (*Service)(nil)
