package models

import (
	"strings"
)

// StakeSessionConfig is the active brokerage session. It is constructed
// explicitly (from config, environment, or the configure tool) and
// injected into the client; there is no ambient process state.
type StakeSessionConfig struct {
	APIURL       string            `json:"api_url"`
	AccountID    string            `json:"account_id"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	GraphQLPath  string            `json:"graphql_path,omitempty"`
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
	TokenExpiry  float64           `json:"token_expiry,omitempty"`
}

// ResolvedURL returns the full URL used for GraphQL calls.
func (c StakeSessionConfig) ResolvedURL() string {
	if c.GraphQLPath == "" {
		return c.APIURL
	}
	if strings.HasPrefix(c.GraphQLPath, "http://") || strings.HasPrefix(c.GraphQLPath, "https://") {
		return c.GraphQLPath
	}
	return strings.TrimRight(c.APIURL, "/") + "/" + strings.TrimLeft(c.GraphQLPath, "/")
}

// Sanitized returns a copy safe for display, with tokens redacted.
func (c StakeSessionConfig) Sanitized() StakeSessionConfig {
	masked := c
	masked.AccessToken = "***redacted***"
	if masked.RefreshToken != "" {
		masked.RefreshToken = "***redacted***"
	}
	return masked
}

// StakeOrderRequest describes an order to submit.
type StakeOrderRequest struct {
	Symbol              string  `json:"symbol"`
	Side                string  `json:"side"`
	Quantity            float64 `json:"quantity"`
	OrderType           string  `json:"order_type"`
	TimeInForce         string  `json:"time_in_force"`
	LimitPrice          float64 `json:"limit_price,omitempty"`
	StopPrice           float64 `json:"stop_price,omitempty"`
	OutsideRegularHours bool    `json:"outside_regular_hours"`
}

// StakeOrder is an order as reported by the brokerage.
type StakeOrder struct {
	ID          string  `json:"id"`
	Symbol      string  `json:"symbol"`
	Side        string  `json:"side"`
	OrderType   string  `json:"orderType"`
	TimeInForce string  `json:"timeInForce,omitempty"`
	Status      string  `json:"status"`
	Quantity    float64 `json:"quantity"`
	LimitPrice  float64 `json:"limitPrice,omitempty"`
	StopPrice   float64 `json:"stopPrice,omitempty"`
	SubmittedAt string  `json:"submittedAt,omitempty"`
}
