package models

// SharpeAnalysis holds annualized Sharpe ratio metrics for a symbol.
type SharpeAnalysis struct {
	Symbol           string
	AnnualReturn     float64
	AnnualVolatility float64
	RiskFreeRate     float64
	Sharpe           float64
}

// BetaAnalysis holds beta and correlation of a symbol vs its benchmark.
type BetaAnalysis struct {
	Symbol           string
	Benchmark        string
	Beta             float64
	Correlation      float64
	StockVolatility  float64
	MarketVolatility float64
}

// VaRAnalysis holds one-day Value-at-Risk for a position.
type VaRAnalysis struct {
	Symbol        string
	Confidence    float64
	PositionSize  float64
	HistoricalVaR float64
	ParametricVaR float64
	VaRPct        float64
}

// DrawdownAnalysis holds peak-to-trough decline metrics for a symbol.
type DrawdownAnalysis struct {
	Symbol          string
	PeakPrice       float64
	TroughPrice     float64
	MaxDrawdown     float64
	TroughDate      string
	CurrentPrice    float64
	AllTimeHigh     float64
	CurrentDrawdown float64
}

// PositionRisk is one holding's contribution to portfolio risk.
type PositionRisk struct {
	Symbol     string
	Value      float64
	Weight     float64
	Volatility float64
	Beta       float64
}

// PortfolioRisk aggregates risk metrics over all holdings.
type PortfolioRisk struct {
	TotalValue float64
	Positions  []PositionRisk
	Volatility float64
	Beta       float64
	Sharpe     float64
	MaxWeight  float64
	Top3Weight float64
}
