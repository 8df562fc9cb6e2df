package models

// DividendHistory summarizes a symbol's dividend payments over a period.
type DividendHistory struct {
	Symbol      string
	Payments    []Dividend
	Total       float64
	Average     float64
	Last        Dividend
	AnnualTotal map[int]float64
}

// DividendIncomePosition is one holding's expected dividend income.
type DividendIncomePosition struct {
	Symbol       string
	Shares       float64
	DividendRate float64
	AnnualIncome float64
	Yield        float64
}

// DividendIncome aggregates expected dividend income over the portfolio.
type DividendIncome struct {
	Positions    []DividendIncomePosition
	AnnualIncome float64
	HoldingCount int
}

// HighYieldStock is one screen result from the dividend screen.
type HighYieldStock struct {
	Symbol      string
	Name        string
	Yield       float64
	Price       float64
	Sector      string
	PayoutRatio float64
}
