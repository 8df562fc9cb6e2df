package models

// Transaction types recorded in the portfolio ledger.
const (
	TransactionBuy  = "BUY"
	TransactionSell = "SELL"
)

// Holding is a single position in the portfolio. AvgPrice is the
// cost-weighted average across all buys, rounded to cents on merge.
type Holding struct {
	Shares      float64 `json:"shares"`
	AvgPrice    float64 `json:"avg_price"`
	LastUpdated string  `json:"last_updated"`
}

// CostBasis returns the total cost of the holding.
func (h Holding) CostBasis() float64 {
	return h.Shares * h.AvgPrice
}

// Transaction is one buy or sell recorded against the portfolio.
// ProfitLoss fields are only populated for sells.
type Transaction struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Symbol        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	Price         float64 `json:"price"`
	Date          string  `json:"date"`
	Total         float64 `json:"total"`
	ProfitLoss    float64 `json:"profit_loss,omitempty"`
	ProfitLossPct float64 `json:"profit_loss_pct,omitempty"`
}

// Portfolio is the persisted holdings map plus the transaction ledger.
// Holdings are keyed by upper-case symbol.
type Portfolio struct {
	Holdings     map[string]Holding `json:"holdings"`
	Transactions []Transaction      `json:"transactions"`
}

// NewPortfolio returns an empty portfolio with initialized containers.
func NewPortfolio() *Portfolio {
	return &Portfolio{
		Holdings:     make(map[string]Holding),
		Transactions: []Transaction{},
	}
}

// PortfolioPosition is one holding valued at a live price.
type PortfolioPosition struct {
	Symbol       string
	Shares       float64
	AvgPrice     float64
	CurrentPrice float64
	Invested     float64
	CurrentValue float64
	GainLoss     float64
	GainLossPct  float64
	LastUpdated  string
	PriceKnown   bool
}

// PortfolioView is the portfolio valued at live prices.
type PortfolioView struct {
	Positions   []PortfolioPosition
	TotalCost   float64
	TotalValue  float64
	GainLoss    float64
	GainLossPct float64
}
