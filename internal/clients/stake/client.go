// Package stake provides a client for the unofficial Stake brokerage
// GraphQL API.
//
// Stake does not publish a supported public API. This client mirrors the
// requests the web trading interface performs, using tokens the user
// captured from their own logged-in session. Credentials are held in
// memory and persisted only when the caller explicitly asks for it.
package stake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

const (
	DefaultTimeout = 20 * time.Second

	// sessionKey is the key-value storage slot for the persisted session
	sessionKey = "stake_session"
)

const placeOrderMutation = `
mutation PlaceOrder($input: PlaceOrderInput!) {
  placeOrder(input: $input) {
    order {
      id
      status
      symbol
      side
      orderType
      timeInForce
      quantity
      limitPrice
      stopPrice
      submittedAt
    }
  }
}
`

const cancelOrderMutation = `
mutation CancelOrder($input: CancelOrderInput!) {
  cancelOrder(input: $input) {
    order {
      id
      status
      symbol
    }
  }
}
`

const ordersQuery = `
query Orders($accountId: ID!, $status: OrderStatus) {
  orders(accountId: $accountId, status: $status) {
    id
    symbol
    side
    orderType
    status
    quantity
    limitPrice
    stopPrice
    submittedAt
  }
}
`

// Client implements the StakeClient interface
type Client struct {
	mu         sync.RWMutex
	session    *models.StakeSessionConfig
	kv         interfaces.KeyValueStorage
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, used by tests
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Stake client. The initial session is loaded from
// the environment first, then from persisted storage; either source may
// be absent, in which case the client starts unconfigured.
func NewClient(kv interfaces.KeyValueStorage, opts ...ClientOption) *Client {
	c := &Client{
		kv: kv,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if session := sessionFromEnv(); session != nil {
		c.session = session
		c.logger.Debug().Str("account_id", session.AccountID).Msg("Stake session loaded from environment")
	} else if kv != nil {
		var stored models.StakeSessionConfig
		if err := kv.Get(context.Background(), sessionKey, &stored); err == nil && stored.AccessToken != "" {
			c.session = &stored
			c.logger.Debug().Str("account_id", stored.AccountID).Msg("Stake session loaded from storage")
		}
	}

	return c
}

// sessionFromEnv builds a session from STAKE_* environment variables.
// All three of URL, account, and token must be present.
func sessionFromEnv() *models.StakeSessionConfig {
	apiURL := os.Getenv("STAKE_API_URL")
	accountID := os.Getenv("STAKE_ACCOUNT_ID")
	accessToken := os.Getenv("STAKE_ACCESS_TOKEN")
	if apiURL == "" || accountID == "" || accessToken == "" {
		return nil
	}

	session := &models.StakeSessionConfig{
		APIURL:       apiURL,
		AccountID:    accountID,
		AccessToken:  accessToken,
		RefreshToken: os.Getenv("STAKE_REFRESH_TOKEN"),
		GraphQLPath:  os.Getenv("STAKE_GRAPHQL_PATH"),
	}

	if raw := os.Getenv("STAKE_EXTRA_HEADERS"); raw != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(raw), &headers); err == nil {
			session.ExtraHeaders = headers
		}
	}
	if raw := os.Getenv("STAKE_TOKEN_EXPIRY"); raw != "" {
		if expiry, err := strconv.ParseFloat(raw, 64); err == nil {
			session.TokenExpiry = expiry
		}
	}

	return session
}

// Configure replaces the active session. When persist is false any
// previously persisted session is deleted so stale credentials cannot
// resurface on restart.
func (c *Client) Configure(ctx context.Context, session models.StakeSessionConfig, persist bool) error {
	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	if c.kv == nil {
		return nil
	}
	if persist {
		if err := c.kv.Set(ctx, sessionKey, session); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	} else {
		if err := c.kv.Delete(ctx, sessionKey); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
	}
	return nil
}

// Status returns the active session with tokens redacted, or nil when
// no session is configured.
func (c *Client) Status(ctx context.Context) (*models.StakeSessionConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return nil, nil
	}
	sanitized := c.session.Sanitized()
	return &sanitized, nil
}

// Clear drops the active session and any persisted copy
func (c *Client) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if c.kv == nil {
		return nil
	}
	return c.kv.Delete(ctx, sessionKey)
}

// requireSession returns the active session or an actionable error
func (c *Client) requireSession() (models.StakeSessionConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return models.StakeSessionConfig{}, fmt.Errorf(
			"Stake session is not configured: call 'configure_stake_connection' with valid credentials first")
	}
	if c.session.TokenExpiry > 0 && c.session.TokenExpiry < float64(time.Now().Unix()) {
		return models.StakeSessionConfig{}, fmt.Errorf(
			"stored Stake access token is expired: refresh the token and run 'configure_stake_connection' again")
	}
	return *c.session, nil
}

// graphQLError is one entry of a GraphQL errors array
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the standard GraphQL response envelope
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Execute runs a raw GraphQL document against the configured endpoint
// and returns the data payload. GraphQL-level errors are returned as Go
// errors with the server's messages joined.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, session, query, variables)
}

func (c *Client) execute(ctx context.Context, session models.StakeSessionConfig, query string, variables map[string]any) ([]byte, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.ResolvedURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range session.ExtraHeaders {
		req.Header.Set(key, value)
	}

	c.logger.Debug().Str("url", session.ResolvedURL()).Msg("Stake GraphQL request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Stake API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return envelope.Data, fmt.Errorf("GraphQL errors: %s", strings.Join(messages, "; "))
	}

	return envelope.Data, nil
}

// PlaceOrder submits an equity order. Symbol, side, order type, and
// time in force are upper-cased before submission; zero limit and stop
// prices are omitted from the order input.
func (c *Client) PlaceOrder(ctx context.Context, req models.StakeOrderRequest) (*models.StakeOrder, error) {
	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	orderInput := map[string]any{
		"accountId":           session.AccountID,
		"symbol":              strings.ToUpper(req.Symbol),
		"side":                strings.ToUpper(req.Side),
		"quantity":            req.Quantity,
		"orderType":           strings.ToUpper(req.OrderType),
		"timeInForce":         strings.ToUpper(req.TimeInForce),
		"outsideRegularHours": req.OutsideRegularHours,
	}
	if req.LimitPrice > 0 {
		orderInput["limitPrice"] = req.LimitPrice
	}
	if req.StopPrice > 0 {
		orderInput["stopPrice"] = req.StopPrice
	}

	data, err := c.execute(ctx, session, placeOrderMutation, map[string]any{"input": orderInput})
	if err != nil {
		return nil, err
	}

	var result struct {
		PlaceOrder struct {
			Order models.StakeOrder `json:"order"`
		} `json:"placeOrder"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	c.logger.Info().
		Str("symbol", result.PlaceOrder.Order.Symbol).
		Str("side", result.PlaceOrder.Order.Side).
		Str("status", result.PlaceOrder.Order.Status).
		Msg("Stake order placed")

	return &result.PlaceOrder.Order, nil
}

// CancelOrder cancels a pending order by ID
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	session, err := c.requireSession()
	if err != nil {
		return err
	}

	variables := map[string]any{
		"input": map[string]any{
			"accountId": session.AccountID,
			"orderId":   orderID,
		},
	}
	if _, err := c.execute(ctx, session, cancelOrderMutation, variables); err != nil {
		return err
	}

	c.logger.Info().Str("order_id", orderID).Msg("Stake order cancelled")
	return nil
}

// ListOrders returns current orders, optionally filtered by status
func (c *Client) ListOrders(ctx context.Context, statusFilter string) ([]models.StakeOrder, error) {
	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"accountId": session.AccountID}
	if statusFilter != "" {
		variables["status"] = strings.ToUpper(statusFilter)
	}

	data, err := c.execute(ctx, session, ordersQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Orders []models.StakeOrder `json:"orders"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	return result.Orders, nil
}

// Ensure Client implements StakeClient
var _ interfaces.StakeClient = (*Client)(nil)
