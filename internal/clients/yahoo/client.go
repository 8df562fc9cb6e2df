// Package yahoo provides a client for the Yahoo Finance chart and
// quote-summary APIs.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	userAgent = "Mozilla/5.0 (compatible; stock-mcp-server/1.0)"
)

// Client implements the MarketDataClient interface against Yahoo Finance
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
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

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Yahoo Finance request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetHistory retrieves daily bars for a lookback period ("5d", "1mo",
// "2mo", "3mo", "6mo", "1y", "2y", "5y"). Bars are returned in
// chronological order, oldest first. Symbols with no data for the
// period yield an empty slice, not an error.
func (c *Client) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", "1d")

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart request for %s failed: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo pads series with nulls for untraded sessions
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		if i < len(adjClose) && adjClose[i] != nil {
			bar.AdjClose = *adjClose[i]
		} else {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// GetDividends retrieves dividend payments over a lookback period,
// ordered chronologically.
func (c *Client) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", "1d")
	params.Set("events", "div")

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart request for %s failed: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	events := resp.Chart.Result[0].Events.Dividends
	dividends := make([]models.Dividend, 0, len(events))
	for _, d := range events {
		dividends = append(dividends, models.Dividend{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	// The events map is unordered; restore chronological order
	sort.Slice(dividends, func(i, j int) bool {
		return dividends[i].Date.Before(dividends[j].Date)
	})

	return dividends, nil
}

// GetQuote retrieves the current quote and basic fundamentals
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,defaultKeyStatistics,assetProfile")

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote request for %s failed: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	price := r.Price
	detail := r.SummaryDetail
	stats := r.DefaultKeyStatistics
	profile := r.AssetProfile

	name := price.LongName
	if name == "" {
		name = price.ShortName
	}

	quote := &models.Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         price.RegularMarketPrice.Raw,
		PreviousClose: price.RegularMarketPreviousClose.Raw,
		Change:        price.RegularMarketChange.Raw,
		ChangePct:     price.RegularMarketChangePercent.Raw * 100,
		Open:          price.RegularMarketOpen.Raw,
		DayHigh:       price.RegularMarketDayHigh.Raw,
		DayLow:        price.RegularMarketDayLow.Raw,
		Volume:        int64(price.RegularMarketVolume.Raw),
		AvgVolume:     int64(detail.AverageVolume.Raw),
		MarketCap:     price.MarketCap.Raw,
		PERatio:       detail.TrailingPE.Raw,
		EPS:           stats.TrailingEps.Raw,
		Beta:          detail.Beta.Raw,
		DividendYield: detail.DividendYield.Raw,
		DividendRate:  detail.DividendRate.Raw,
		PayoutRatio:   detail.PayoutRatio.Raw,
		High52Week:    detail.FiftyTwoWeekHigh.Raw,
		Low52Week:     detail.FiftyTwoWeekLow.Raw,
		Currency:      price.Currency,
		Exchange:      price.ExchangeName,
		Sector:        profile.Sector,
		Industry:      profile.Industry,
		Website:       profile.Website,
		Timestamp:     time.Now(),
	}

	return quote, nil
}

// --- Response types ---

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *apiErrorBody `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName                  string   `json:"shortName"`
				LongName                   string   `json:"longName"`
				Currency                   string   `json:"currency"`
				ExchangeName               string   `json:"exchangeName"`
				RegularMarketPrice         rawValue `json:"regularMarketPrice"`
				RegularMarketPreviousClose rawValue `json:"regularMarketPreviousClose"`
				RegularMarketChange        rawValue `json:"regularMarketChange"`
				RegularMarketChangePercent rawValue `json:"regularMarketChangePercent"`
				RegularMarketOpen          rawValue `json:"regularMarketOpen"`
				RegularMarketDayHigh       rawValue `json:"regularMarketDayHigh"`
				RegularMarketDayLow        rawValue `json:"regularMarketDayLow"`
				RegularMarketVolume        rawValue `json:"regularMarketVolume"`
				MarketCap                  rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE       rawValue `json:"trailingPE"`
				Beta             rawValue `json:"beta"`
				DividendYield    rawValue `json:"dividendYield"`
				DividendRate     rawValue `json:"dividendRate"`
				PayoutRatio      rawValue `json:"payoutRatio"`
				AverageVolume    rawValue `json:"averageVolume"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				TrailingEps rawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Website  string `json:"website"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *apiErrorBody `json:"error"`
	} `json:"quoteSummary"`
}

type apiErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// rawValue decodes Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper, which
// is omitted entirely for fields the symbol does not report.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
