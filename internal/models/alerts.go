package models

// Alert directions and statuses.
const (
	AlertAbove = "above"
	AlertBelow = "below"

	AlertStatusActive    = "active"
	AlertStatusTriggered = "triggered"
)

// PriceAlert fires when a symbol's price crosses the target in the
// configured direction. CurrentPrice is the reference price captured
// when the alert was created.
type PriceAlert struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"ticker"`
	TargetPrice  float64 `json:"target_price"`
	AlertType    string  `json:"alert_type"`
	CurrentPrice float64 `json:"current_price"`
	Name         string  `json:"alert_name"`
	Status       string  `json:"status"`
}

// RSIAlert fires when a symbol's 14-day RSI crosses the threshold in
// the configured direction.
type RSIAlert struct {
	ID         string  `json:"id"`
	Symbol     string  `json:"ticker"`
	Threshold  float64 `json:"rsi_threshold"`
	AlertType  string  `json:"alert_type"`
	CurrentRSI float64 `json:"current_rsi"`
	Name       string  `json:"alert_name"`
	Status     string  `json:"status"`
}

// AlertBook is the persisted set of alerts.
type AlertBook struct {
	PriceAlerts []PriceAlert `json:"price_alerts"`
	RSIAlerts   []RSIAlert   `json:"rsi_alerts"`
}

// NewAlertBook returns an empty alert book with initialized slices.
func NewAlertBook() *AlertBook {
	return &AlertBook{
		PriceAlerts: []PriceAlert{},
		RSIAlerts:   []RSIAlert{},
	}
}

// AlertCheckItem is the outcome of checking one alert against live data.
type AlertCheckItem struct {
	Name      string
	Symbol    string
	Kind      string // "price" or "rsi"
	Target    float64
	AlertType string
	Current   float64
	Triggered bool
	Checked   bool
}
