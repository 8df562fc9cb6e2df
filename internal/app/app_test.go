package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppInitializesEverything(t *testing.T) {
	t.Setenv("STOCKMCP_DATA_PATH", t.TempDir())
	t.Setenv("STOCKMCP_LOG_LEVEL", "error")

	a, err := NewApp("")
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Storage)
	assert.NotNil(t, a.YahooClient)
	assert.NotNil(t, a.StakeClient)
	assert.NotNil(t, a.MarketService)
	assert.NotNil(t, a.AnalysisService)
	assert.NotNil(t, a.PortfolioService)
	assert.NotNil(t, a.SentimentService)
	assert.NotNil(t, a.RiskService)
	assert.NotNil(t, a.AlertService)
	assert.NotNil(t, a.DividendService)
	assert.NotNil(t, a.SectorService)
	assert.NotNil(t, a.MCPServer)
}

func TestNewAppMissingConfigFileUsesDefaults(t *testing.T) {
	t.Setenv("STOCKMCP_DATA_PATH", t.TempDir())
	t.Setenv("STOCKMCP_LOG_LEVEL", "error")

	a, err := NewApp("/nonexistent/stock-mcp.toml")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 4270, a.Config.Server.Port)
	assert.Equal(t, "https://query1.finance.yahoo.com", a.Config.Clients.Yahoo.BaseURL)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Setenv("STOCKMCP_DATA_PATH", t.TempDir())
	t.Setenv("STOCKMCP_LOG_LEVEL", "error")

	a, err := NewApp("")
	require.NoError(t, err)

	a.Close()
	a.Close()
}
