package models

// BuyOpportunity is the outcome of the SMA crossover screen.
type BuyOpportunity struct {
	Symbol     string
	SMA20      float64
	SMA50      float64
	Crossover  bool // 20-day SMA crossed above the 50-day on the last bar
	ShortAbove bool // 20-day SMA currently above the 50-day
	Enough     bool // at least 50 bars of history
}

// RSIAnalysis holds the current RSI reading for a symbol.
type RSIAnalysis struct {
	Symbol  string
	Period  int
	Current float64
	Prev    float64
}

// MACDAnalysis holds the current MACD state for a symbol.
type MACDAnalysis struct {
	Symbol        string
	MACD          float64
	Signal        float64
	Histogram     float64
	PrevHistogram float64
}

// TrendAnalysis is the multi-indicator trend summary for a symbol.
type TrendAnalysis struct {
	Symbol        string
	CurrentPrice  float64
	SMA20         float64
	SMA50         float64
	SMA200        float64
	HasSMA200     bool
	PriceVsSMA20  float64
	PriceVsSMA50  float64
	PriceVsSMA200 float64
	VolumeTrend   string // "High", "Normal", "Low"
	Volatility    float64
	SignalAvg     float64
}

// StockComparison is one row of the side-by-side comparison.
type StockComparison struct {
	Symbol        string
	Price         float64
	MarketCap     float64
	PERatio       float64
	Return3Mo     float64
	Volume        int64
	DividendYield float64
}
