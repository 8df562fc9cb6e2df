package models

// SectorStock is one constituent's metrics within a sector analysis.
type SectorStock struct {
	Symbol        string
	Name          string
	Price         float64
	MarketCap     float64
	PERatio       float64
	Return3Mo     float64
	Volume        int64
	AvgVolume     int64
	DividendYield float64
}

// SectorAnalysis summarizes a sector via its representative stocks.
type SectorAnalysis struct {
	Sector         string
	Stocks         []SectorStock
	TotalMarketCap float64
	AvgReturn      float64
	AvgPE          float64
	PositiveCount  int
}

// SectorPerformance is one sector ETF's returns across horizons.
type SectorPerformance struct {
	Sector    string
	ETF       string
	Return1Mo float64
	Return3Mo float64
	Return1Yr float64
}

// SectorWeight is one sector's share of the portfolio.
type SectorWeight struct {
	Sector     string
	Value      float64
	Percentage float64
	Symbols    []string
}

// SectorAllocation is the portfolio's sector breakdown.
type SectorAllocation struct {
	TotalValue float64
	Weights    []SectorWeight
}
