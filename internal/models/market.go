// Package models defines data structures for the stock MCP server
package models

import (
	"time"
)

// Bar represents a single day's price data, ordered chronologically
// (index 0 is the oldest bar, the last element is the most recent).
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Quote holds a current price snapshot plus basic fundamental fields.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_p"`
	Open          float64   `json:"open,omitempty"`
	DayHigh       float64   `json:"day_high,omitempty"`
	DayLow        float64   `json:"day_low,omitempty"`
	Volume        int64     `json:"volume"`
	AvgVolume     int64     `json:"avg_volume,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	PERatio       float64   `json:"pe_ratio,omitempty"`
	EPS           float64   `json:"eps,omitempty"`
	Beta          float64   `json:"beta,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"`
	DividendRate  float64   `json:"dividend_rate,omitempty"`
	PayoutRatio   float64   `json:"payout_ratio,omitempty"`
	High52Week    float64   `json:"high_52_week,omitempty"`
	Low52Week     float64   `json:"low_52_week,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Website       string    `json:"website,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Dividend represents a single dividend payment.
type Dividend struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// LatestClose returns the most recent closing price, or 0 for empty history.
func LatestClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}

// PeriodReturn returns the percentage change from the first to the last bar.
func PeriodReturn(bars []Bar) float64 {
	if len(bars) < 2 || bars[0].Close == 0 {
		return 0
	}
	first := bars[0].Close
	last := bars[len(bars)-1].Close
	return ((last - first) / first) * 100
}
