// Package app wires configuration, storage, clients, and services into
// a ready-to-serve MCP server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/CalvinLiuu/stock-mcp-server/internal/clients/stake"
	"github.com/CalvinLiuu/stock-mcp-server/internal/clients/yahoo"
	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/alerts"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/analysis"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/dividends"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/market"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/portfolio"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/risk"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/sector"
	"github.com/CalvinLiuu/stock-mcp-server/internal/services/sentiment"
	"github.com/CalvinLiuu/stock-mcp-server/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	YahooClient      interfaces.MarketDataClient
	StakeClient      interfaces.StakeClient
	MarketService    interfaces.MarketService
	AnalysisService  interfaces.AnalysisService
	PortfolioService interfaces.PortfolioService
	SentimentService interfaces.SentimentService
	RiskService      interfaces.RiskService
	AlertService     interfaces.AlertService
	DividendService  interfaces.DividendService
	SectorService    interfaces.SectorService
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, services, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, STOCKMCP_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("STOCKMCP_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stock-mcp.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stock-mcp.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	yahooClient := yahoo.NewClient(
		yahoo.WithLogger(logger),
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	stakeClient := stake.NewClient(storageManager.KeyValueStorage(),
		stake.WithLogger(logger),
	)

	marketService := market.NewService(yahooClient, logger)
	analysisService := analysis.NewService(yahooClient, logger)
	portfolioService := portfolio.NewService(yahooClient, storageManager, logger)
	sentimentService := sentiment.NewService(yahooClient, storageManager, logger)
	riskService := risk.NewService(yahooClient, storageManager, logger)
	alertService := alerts.NewService(yahooClient, storageManager, logger)
	dividendService := dividends.NewService(yahooClient, storageManager, logger)
	sectorService := sector.NewService(yahooClient, storageManager, logger)

	mcpServer := server.NewMCPServer(
		"stock-mcp",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		YahooClient:      yahooClient,
		StakeClient:      stakeClient,
		MarketService:    marketService,
		AnalysisService:  analysisService,
		PortfolioService: portfolioService,
		SentimentService: sentimentService,
		RiskService:      riskService,
		AlertService:     alertService,
		DividendService:  dividendService,
		SectorService:    sectorService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	// Register all MCP tools
	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())

	// Price data
	s.AddTool(createGetLatestPriceTool(), handleGetLatestPrice(a.MarketService, logger))
	s.AddTool(createGetHistoricalDataTool(), handleGetHistoricalData(a.MarketService, logger))
	s.AddTool(createGetStockInfoTool(), handleGetStockInfo(a.MarketService, logger))

	// Technical analysis
	s.AddTool(createAnalyzeBuyOpportunityTool(), handleAnalyzeBuyOpportunity(a.AnalysisService, logger))
	s.AddTool(createCalculateRSITool(), handleCalculateRSI(a.AnalysisService, logger))
	s.AddTool(createCalculateMACDTool(), handleCalculateMACD(a.AnalysisService, logger))
	s.AddTool(createAnalyzeTrendsTool(), handleAnalyzeTrends(a.AnalysisService, logger))
	s.AddTool(createCompareStocksTool(), handleCompareStocks(a.AnalysisService, logger))

	// Portfolio
	s.AddTool(createAddHoldingTool(), handleAddHolding(a.PortfolioService, logger))
	s.AddTool(createRemoveHoldingTool(), handleRemoveHolding(a.PortfolioService, logger))
	s.AddTool(createViewPortfolioTool(), handleViewPortfolio(a.PortfolioService, logger))
	s.AddTool(createViewTransactionsTool(), handleViewTransactions(a.PortfolioService, logger))

	// Market sentiment
	s.AddTool(createGetMarketSentimentTool(), handleGetMarketSentiment(a.SentimentService, logger))
	s.AddTool(createGetDetailedSentimentSignalsTool(), handleGetDetailedSentimentSignals(a.SentimentService, logger))
	s.AddTool(createGetVIXAnalysisTool(), handleGetVIXAnalysis(a.SentimentService, logger))
	s.AddTool(createGetMarketBreadthTool(), handleGetMarketBreadth(a.SentimentService, logger))
	s.AddTool(createGetSectorRotationSignalTool(), handleGetSectorRotationSignal(a.SentimentService, logger))
	s.AddTool(createGetAISectorSignalTool(), handleGetAISectorSignal(a.SentimentService, logger))
	s.AddTool(createAnalyzeLeverageIndicatorsTool(), handleAnalyzeLeverageIndicators(a.SentimentService, logger))
	s.AddTool(createTrackSentimentHistoryTool(), handleTrackSentimentHistory(a.SentimentService, logger))
	s.AddTool(createRenderSentimentChartTool(), handleRenderSentimentChart(a.SentimentService, a.Storage, logger))

	// Risk
	s.AddTool(createCalculateSharpeRatioTool(), handleCalculateSharpeRatio(a.RiskService, logger))
	s.AddTool(createCalculateBetaTool(), handleCalculateBeta(a.RiskService, logger))
	s.AddTool(createCalculatePortfolioRiskTool(), handleCalculatePortfolioRisk(a.RiskService, logger))
	s.AddTool(createCalculateVaRTool(), handleCalculateVaR(a.RiskService, logger))
	s.AddTool(createCalculateDrawdownTool(), handleCalculateDrawdown(a.RiskService, logger))

	// Alerts
	s.AddTool(createSetPriceAlertTool(), handleSetPriceAlert(a.AlertService, logger))
	s.AddTool(createSetRSIAlertTool(), handleSetRSIAlert(a.AlertService, logger))
	s.AddTool(createCheckAlertsTool(), handleCheckAlerts(a.AlertService, logger))
	s.AddTool(createListAlertsTool(), handleListAlerts(a.AlertService, logger))
	s.AddTool(createClearTriggeredAlertsTool(), handleClearTriggeredAlerts(a.AlertService, logger))
	s.AddTool(createDeleteAllAlertsTool(), handleDeleteAllAlerts(a.AlertService, logger))

	// Dividends
	s.AddTool(createGetDividendHistoryTool(), handleGetDividendHistory(a.DividendService, logger))
	s.AddTool(createGetDividendYieldTool(), handleGetDividendYield(a.DividendService, logger))
	s.AddTool(createPortfolioDividendIncomeTool(), handlePortfolioDividendIncome(a.DividendService, logger))
	s.AddTool(createFindHighDividendStocksTool(), handleFindHighDividendStocks(a.DividendService, logger))

	// Sectors
	s.AddTool(createAnalyzeSectorTool(), handleAnalyzeSector(a.SectorService, logger))
	s.AddTool(createCompareSectorsTool(), handleCompareSectors(a.SectorService, logger))
	s.AddTool(createGetSectorLeadersTool(), handleGetSectorLeaders(a.SectorService, logger))
	s.AddTool(createPortfolioSectorAllocationTool(), handlePortfolioSectorAllocation(a.SectorService, logger))

	// Stake brokerage
	s.AddTool(createConfigureStakeConnectionTool(), handleConfigureStakeConnection(a.StakeClient, logger))
	s.AddTool(createStakeConnectionStatusTool(), handleStakeConnectionStatus(a.StakeClient, logger))
	s.AddTool(createClearStakeConnectionTool(), handleClearStakeConnection(a.StakeClient, logger))
	s.AddTool(createStakeExecuteGraphQLTool(), handleStakeExecuteGraphQL(a.StakeClient, logger))
	s.AddTool(createStakePlaceOrderTool(), handleStakePlaceOrder(a.StakeClient, logger))
	s.AddTool(createStakeCancelOrderTool(), handleStakeCancelOrder(a.StakeClient, logger))
	s.AddTool(createStakeListOrdersTool(), handleStakeListOrders(a.StakeClient, logger))
}
