package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1756166400, 1756252800, 1756339200],
      "indicators": {
        "quote": [{
          "open":   [100.0, null, 102.0],
          "high":   [101.0, null, 103.5],
          "low":    [99.0,  null, 101.5],
          "close":  [100.5, null, 103.0],
          "volume": [1000,  null, 1200]
        }],
        "adjclose": [{"adjclose": [100.5, null, 103.0]}]
      },
      "events": {
        "dividends": {
          "1756252800": {"amount": 0.25, "date": 1756252800},
          "1756166400": {"amount": 0.24, "date": 1756166400}
        }
      }
    }],
    "error": null
  }
}`

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "shortName": "Apple Inc.",
        "longName": "Apple Inc.",
        "currency": "USD",
        "exchangeName": "NasdaqGS",
        "regularMarketPrice": {"raw": 230.5},
        "regularMarketPreviousClose": {"raw": 228.0},
        "regularMarketChange": {"raw": 2.5},
        "regularMarketChangePercent": {"raw": 0.01096},
        "regularMarketVolume": {"raw": 51000000},
        "marketCap": {"raw": 3500000000000}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 35.2},
        "dividendYield": {"raw": 0.0044},
        "dividendRate": {"raw": 1.0},
        "fiftyTwoWeekHigh": {"raw": 260.1},
        "fiftyTwoWeekLow": {"raw": 164.1}
      },
      "defaultKeyStatistics": {
        "trailingEps": {"raw": 6.57}
      },
      "assetProfile": {
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "website": "https://www.apple.com"
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(100))
}

func TestGetHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartBody))
	})

	bars, err := client.GetHistory(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	require.Len(t, bars, 2, "null-padded session skipped")

	// Chronological order, oldest first
	assert.True(t, bars[0].Date.Before(bars[1].Date))
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)
	assert.Equal(t, int64(1200), bars[1].Volume)
}

func TestGetHistoryEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [], "error": null}}`))
	})

	bars, err := client.GetHistory(context.Background(), "NODATA", "1mo")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestGetHistoryAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	})

	_, err := client.GetHistory(context.Background(), "BOGUS", "1mo")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestGetDividends(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "div", r.URL.Query().Get("events"))
		w.Write([]byte(chartBody))
	})

	dividends, err := client.GetDividends(context.Background(), "AAPL", "1y")
	require.NoError(t, err)
	require.Len(t, dividends, 2)

	// Map iteration order must not leak into the result
	assert.True(t, dividends[0].Date.Before(dividends[1].Date))
	assert.Equal(t, 0.24, dividends[0].Amount)
	assert.Equal(t, 0.25, dividends[1].Amount)
}

func TestGetQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		w.Write([]byte(quoteSummaryBody))
	})

	quote, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc.", quote.Name)
	assert.Equal(t, 230.5, quote.Price)
	assert.Equal(t, 228.0, quote.PreviousClose)
	assert.InDelta(t, 1.096, quote.ChangePct, 1e-9)
	assert.Equal(t, int64(51000000), quote.Volume)
	assert.Equal(t, 3.5e12, quote.MarketCap)
	assert.Equal(t, 35.2, quote.PERatio)
	assert.Equal(t, "Technology", quote.Sector)
	assert.Equal(t, "https://www.apple.com", quote.Website)

	// Fields absent from the payload decode to zero
	assert.Equal(t, 0.0, quote.Beta)
}
