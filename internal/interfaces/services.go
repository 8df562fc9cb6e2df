package interfaces

import (
	"context"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// SentimentService computes indicator signals, the weighted composite,
// and maintains the rolling score history. Scorer methods never return
// errors; failures degrade to zero-score "N/A" signals per the scoring
// contract.
type SentimentService interface {
	// Aggregate computes all nine signals and the normalized composite
	Aggregate(ctx context.Context) (*models.SentimentResult, error)

	// RecordScore appends one day's summary to the rolling history
	RecordScore(ctx context.Context, date string, score float64, classification string) error

	// ReadHistory returns the tail of the history, at most days entries
	ReadHistory(ctx context.Context, days int) ([]models.SentimentHistoryEntry, error)

	VIXSignal(ctx context.Context) models.IndicatorSignal
	IndexTrendSignal(ctx context.Context, symbol string, window int) models.IndicatorSignal
	PutCallSignal(ctx context.Context) models.IndicatorSignal
	SectorRotationSignal(ctx context.Context) models.IndicatorSignal
	BreadthSignal(ctx context.Context) models.IndicatorSignal
	VolumeSignal(ctx context.Context) models.IndicatorSignal
	AITechSignal(ctx context.Context) models.IndicatorSignal
	LeverageSignal(ctx context.Context) models.IndicatorSignal
}

// MarketService provides quote and history lookups for the price tools
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error)
}

// AnalysisService computes single-symbol technical analyses
type AnalysisService interface {
	BuyOpportunity(ctx context.Context, symbol string) (*models.BuyOpportunity, error)
	RSI(ctx context.Context, symbol string, period int, timeframe string) (*models.RSIAnalysis, error)
	MACD(ctx context.Context, symbol, timeframe string) (*models.MACDAnalysis, error)
	Trends(ctx context.Context, symbol, timeframe string) (*models.TrendAnalysis, error)
	Compare(ctx context.Context, symbols []string) ([]models.StockComparison, error)
}

// PortfolioService manages holdings and the transaction ledger
type PortfolioService interface {
	// AddHolding merges a buy into the portfolio at cost-weighted average price
	AddHolding(ctx context.Context, symbol string, shares, price float64, date string) (*models.Holding, error)

	// RemoveHolding sells shares, returning the sell transaction and the
	// shares remaining after the sale
	RemoveHolding(ctx context.Context, symbol string, shares, price float64, date string) (*models.Transaction, float64, error)

	// View values all holdings at live prices
	View(ctx context.Context) (*models.PortfolioView, error)

	// Transactions returns the most recent transactions, newest first
	Transactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

// RiskService computes risk metrics for symbols and the portfolio
type RiskService interface {
	Sharpe(ctx context.Context, symbol string, riskFreeRate float64, period string) (*models.SharpeAnalysis, error)
	Beta(ctx context.Context, symbol, benchmark, period string) (*models.BetaAnalysis, error)
	PortfolioRisk(ctx context.Context) (*models.PortfolioRisk, error)
	VaR(ctx context.Context, symbol string, confidence float64, period string, positionSize float64) (*models.VaRAnalysis, error)
	Drawdown(ctx context.Context, symbol, period string) (*models.DrawdownAnalysis, error)
}

// AlertService manages price and RSI alerts
type AlertService interface {
	SetPriceAlert(ctx context.Context, symbol string, target float64, alertType, name string) (*models.PriceAlert, error)
	SetRSIAlert(ctx context.Context, symbol string, threshold float64, alertType, name string) (*models.RSIAlert, error)

	// Check evaluates all active alerts against live data, marking
	// triggered alerts in storage
	Check(ctx context.Context) ([]models.AlertCheckItem, error)

	List(ctx context.Context) (*models.AlertBook, error)

	// ClearTriggered removes triggered alerts, returning price and RSI counts
	ClearTriggered(ctx context.Context) (int, int, error)

	// DeleteAll removes every alert, returning the count removed
	DeleteAll(ctx context.Context) (int, error)
}

// DividendService provides dividend analytics
type DividendService interface {
	History(ctx context.Context, symbol, period string) (*models.DividendHistory, error)
	Yield(ctx context.Context, symbol string) (*models.Quote, error)
	PortfolioIncome(ctx context.Context) (*models.DividendIncome, error)
	HighYield(ctx context.Context, minYield float64, sector string) ([]models.HighYieldStock, error)
}

// SectorService provides sector-level analytics
type SectorService interface {
	Analyze(ctx context.Context, sector string) (*models.SectorAnalysis, error)
	Compare(ctx context.Context) ([]models.SectorPerformance, error)
	Leaders(ctx context.Context, sector, metric string) ([]models.SectorStock, error)
	PortfolioAllocation(ctx context.Context) (*models.SectorAllocation, error)
}
