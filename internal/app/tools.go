package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the stock MCP server version and status. Use this to verify connectivity."),
	)
}

// --- Price data tools ---

func createGetLatestPriceTool() mcp.Tool {
	return mcp.NewTool("get_latest_price",
		mcp.WithDescription("Get the latest closing price for a stock ticker."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT')"),
		),
	)
}

func createGetHistoricalDataTool() mcp.Tool {
	return mcp.NewTool("get_historical_data",
		mcp.WithDescription("Get historical daily price bars (open, high, low, close, volume) for a ticker over a period."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL')"),
		),
		mcp.WithString("period",
			mcp.Description("Lookback period: 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y (default: 1mo)"),
		),
	)
}

func createGetStockInfoTool() mcp.Tool {
	return mcp.NewTool("get_stock_info",
		mcp.WithDescription("Get comprehensive company information: price, market data, fundamental metrics, sector, and industry."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g., 'AAPL')"),
		),
	)
}

// --- Technical analysis tools ---

func createAnalyzeBuyOpportunityTool() mcp.Tool {
	return mcp.NewTool("analyze_buy_opportunity",
		mcp.WithDescription("Analyze a stock for a buy signal using the 20-day/50-day SMA crossover strategy."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol to analyze"),
		),
	)
}

func createCalculateRSITool() mcp.Tool {
	return mcp.NewTool("calculate_rsi",
		mcp.WithDescription("Calculate the Relative Strength Index (RSI) for a stock. RSI above 70 suggests overbought, below 30 suggests oversold."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("period",
			mcp.Description("RSI lookback period in days (default: 14)"),
		),
		mcp.WithString("timeframe",
			mcp.Description("History window to compute over (default: 3mo)"),
		),
	)
}

func createCalculateMACDTool() mcp.Tool {
	return mcp.NewTool("calculate_macd",
		mcp.WithDescription("Calculate MACD (Moving Average Convergence Divergence) and detect bullish/bearish crossovers."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("timeframe",
			mcp.Description("History window to compute over (default: 6mo)"),
		),
	)
}

func createAnalyzeTrendsTool() mcp.Tool {
	return mcp.NewTool("analyze_trends",
		mcp.WithDescription("Comprehensive trend analysis combining moving averages, volume, and volatility into an overall signal."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("timeframe",
			mcp.Description("History window to analyze (default: 1y)"),
		),
	)
}

func createCompareStocksTool() mcp.Tool {
	return mcp.NewTool("compare_stocks",
		mcp.WithDescription("Compare multiple stocks side by side on price, market cap, P/E, 3-month return, volume, and dividend yield."),
		mcp.WithArray("tickers",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("List of ticker symbols to compare (at least 2, e.g., ['AAPL', 'MSFT', 'GOOGL'])"),
		),
	)
}

// --- Portfolio tools ---

func createAddHoldingTool() mcp.Tool {
	return mcp.NewTool("add_holding",
		mcp.WithDescription("Add shares of a stock to your portfolio. Buying more of an existing holding blends the average price."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("shares",
			mcp.Required(),
			mcp.Description("Number of shares purchased"),
		),
		mcp.WithNumber("purchase_price",
			mcp.Required(),
			mcp.Description("Price paid per share"),
		),
		mcp.WithString("purchase_date",
			mcp.Description("Purchase date YYYY-MM-DD (default: today)"),
		),
	)
}

func createRemoveHoldingTool() mcp.Tool {
	return mcp.NewTool("remove_holding",
		mcp.WithDescription("Sell shares from your portfolio, recording realized profit/loss against the average cost."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("shares",
			mcp.Required(),
			mcp.Description("Number of shares to sell"),
		),
		mcp.WithNumber("sell_price",
			mcp.Required(),
			mcp.Description("Sale price per share"),
		),
		mcp.WithString("sell_date",
			mcp.Description("Sale date YYYY-MM-DD (default: today)"),
		),
	)
}

func createViewPortfolioTool() mcp.Tool {
	return mcp.NewTool("view_portfolio",
		mcp.WithDescription("View your portfolio with live prices, current value, and gain/loss per position."),
	)
}

func createViewTransactionsTool() mcp.Tool {
	return mcp.NewTool("view_transactions",
		mcp.WithDescription("View recent buy/sell transactions, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum transactions to show (default: 10)"),
		),
	)
}

// --- Market sentiment tools ---

func createGetMarketSentimentTool() mcp.Tool {
	return mcp.NewTool("get_market_sentiment",
		mcp.WithDescription("Get the overall market sentiment score (-100 to +100) aggregated from nine weighted indicators: VIX, index trends, put/call proxy, sector rotation, breadth, volume, AI/tech, and leverage."),
	)
}

func createGetDetailedSentimentSignalsTool() mcp.Tool {
	return mcp.NewTool("get_detailed_sentiment_signals",
		mcp.WithDescription("Get a detailed breakdown of all nine sentiment indicators with their values, signals, scores, and weights."),
	)
}

func createGetVIXAnalysisTool() mcp.Tool {
	return mcp.NewTool("get_vix_analysis",
		mcp.WithDescription("Analyze the current VIX level as a fear/complacency gauge."),
	)
}

func createGetMarketBreadthTool() mcp.Tool {
	return mcp.NewTool("get_market_breadth",
		mcp.WithDescription("Measure market breadth as the share of sector ETFs with positive 1-month returns."),
	)
}

func createGetSectorRotationSignalTool() mcp.Tool {
	return mcp.NewTool("get_sector_rotation_signal",
		mcp.WithDescription("Detect risk-on/risk-off rotation by comparing growth sector performance against defensive sectors."),
	)
}

func createGetAISectorSignalTool() mcp.Tool {
	return mcp.NewTool("get_ai_sector_signal",
		mcp.WithDescription("Gauge AI/tech leadership from QQQ outperformance versus SPY and a basket of AI stocks."),
	)
}

func createAnalyzeLeverageIndicatorsTool() mcp.Tool {
	return mcp.NewTool("analyze_leverage_indicators",
		mcp.WithDescription("Detect leverage stress by comparing recent volatility against the historical baseline."),
	)
}

func createTrackSentimentHistoryTool() mcp.Tool {
	return mcp.NewTool("track_sentiment_history",
		mcp.WithDescription("Show the recorded sentiment score history and its trend over recent days."),
		mcp.WithNumber("days",
			mcp.Description("Number of days of history to include (default: 30)"),
		),
	)
}

func createRenderSentimentChartTool() mcp.Tool {
	return mcp.NewTool("render_sentiment_chart",
		mcp.WithDescription("Render the sentiment score history as a PNG line chart and return the saved file path."),
		mcp.WithNumber("days",
			mcp.Description("Number of days of history to chart (default: 30)"),
		),
	)
}

// --- Risk tools ---

func createCalculateSharpeRatioTool() mcp.Tool {
	return mcp.NewTool("calculate_sharpe_ratio",
		mcp.WithDescription("Calculate the Sharpe ratio (risk-adjusted return) for a stock."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("risk_free_rate",
			mcp.Description("Annual risk-free rate as a decimal (default: 0.04)"),
		),
		mcp.WithString("period",
			mcp.Description("History window (default: 1y)"),
		),
	)
}

func createCalculateBetaTool() mcp.Tool {
	return mcp.NewTool("calculate_beta",
		mcp.WithDescription("Calculate a stock's beta and correlation versus a benchmark index."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("benchmark",
			mcp.Description("Benchmark symbol (default: SPY)"),
		),
		mcp.WithString("period",
			mcp.Description("History window (default: 1y)"),
		),
	)
}

func createCalculatePortfolioRiskTool() mcp.Tool {
	return mcp.NewTool("calculate_portfolio_risk",
		mcp.WithDescription("Analyze overall portfolio risk: volatility, beta, Sharpe ratio, per-position risk, and concentration."),
	)
}

func createCalculateVaRTool() mcp.Tool {
	return mcp.NewTool("calculate_var",
		mcp.WithDescription("Calculate one-day Value at Risk (historical and parametric) for a position in a stock."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence level: 0.90, 0.95, or 0.99 (default: 0.95)"),
		),
		mcp.WithNumber("position_size",
			mcp.Description("Position size in dollars (default: 10000)"),
		),
		mcp.WithString("period",
			mcp.Description("History window (default: 1y)"),
		),
	)
}

func createCalculateDrawdownTool() mcp.Tool {
	return mcp.NewTool("calculate_drawdown",
		mcp.WithDescription("Calculate the maximum historical drawdown and the current drawdown from the all-time high."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("period",
			mcp.Description("History window (default: 5y)"),
		),
	)
}

// --- Alert tools ---

func createSetPriceAlertTool() mcp.Tool {
	return mcp.NewTool("set_price_alert",
		mcp.WithDescription("Set an alert that fires when a stock's price crosses a target level."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("target_price",
			mcp.Required(),
			mcp.Description("Price level to watch"),
		),
		mcp.WithString("alert_type",
			mcp.Description("'above' or 'below' the target (default: above)"),
		),
		mcp.WithString("alert_name",
			mcp.Description("Optional custom name for the alert"),
		),
	)
}

func createSetRSIAlertTool() mcp.Tool {
	return mcp.NewTool("set_rsi_alert",
		mcp.WithDescription("Set an alert that fires when a stock's RSI crosses a threshold (e.g., overbought above 70, oversold below 30)."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithNumber("rsi_threshold",
			mcp.Required(),
			mcp.Description("RSI threshold between 0 and 100"),
		),
		mcp.WithString("alert_type",
			mcp.Description("'above' or 'below' the threshold (default: above)"),
		),
		mcp.WithString("alert_name",
			mcp.Description("Optional custom name for the alert"),
		),
	)
}

func createCheckAlertsTool() mcp.Tool {
	return mcp.NewTool("check_alerts",
		mcp.WithDescription("Check all active alerts against live market data and report which have triggered."),
	)
}

func createListAlertsTool() mcp.Tool {
	return mcp.NewTool("list_alerts",
		mcp.WithDescription("List all configured price and RSI alerts with their status."),
	)
}

func createClearTriggeredAlertsTool() mcp.Tool {
	return mcp.NewTool("clear_triggered_alerts",
		mcp.WithDescription("Remove all alerts that have already triggered."),
	)
}

func createDeleteAllAlertsTool() mcp.Tool {
	return mcp.NewTool("delete_all_alerts",
		mcp.WithDescription("Delete every configured alert."),
	)
}

// --- Dividend tools ---

func createGetDividendHistoryTool() mcp.Tool {
	return mcp.NewTool("get_dividend_history",
		mcp.WithDescription("Get a stock's dividend payment history with totals, averages, and annual trend."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("period",
			mcp.Description("Lookback period: 1y, 2y, 5y, 10y, max (default: 5y)"),
		),
	)
}

func createGetDividendYieldTool() mcp.Tool {
	return mcp.NewTool("get_dividend_yield",
		mcp.WithDescription("Get a stock's current dividend yield, annual rate, and payout ratio with interpretation."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
	)
}

func createPortfolioDividendIncomeTool() mcp.Tool {
	return mcp.NewTool("calculate_portfolio_dividend_income",
		mcp.WithDescription("Calculate the expected annual dividend income from your portfolio holdings."),
	)
}

func createFindHighDividendStocksTool() mcp.Tool {
	return mcp.NewTool("find_high_dividend_stocks",
		mcp.WithDescription("Screen well-known dividend payers for stocks yielding at or above a minimum."),
		mcp.WithNumber("min_yield",
			mcp.Description("Minimum dividend yield percentage (default: 3.0)"),
		),
		mcp.WithString("sector",
			mcp.Description("Optional sector filter (e.g., 'Utilities')"),
		),
	)
}

// --- Sector tools ---

func createAnalyzeSectorTool() mcp.Tool {
	return mcp.NewTool("analyze_sector",
		mcp.WithDescription("Analyze a market sector: top/bottom performers, largest stocks, and overall sector health."),
		mcp.WithString("sector",
			mcp.Required(),
			mcp.Description("Sector name (e.g., 'Technology', 'Healthcare', 'Energy')"),
		),
	)
}

func createCompareSectorsTool() mcp.Tool {
	return mcp.NewTool("compare_sectors",
		mcp.WithDescription("Compare all market sectors by 1-month, 3-month, and 1-year performance using sector ETFs."),
	)
}

func createGetSectorLeadersTool() mcp.Tool {
	return mcp.NewTool("get_sector_leaders",
		mcp.WithDescription("Rank the leading stocks in a sector by a chosen metric."),
		mcp.WithString("sector",
			mcp.Required(),
			mcp.Description("Sector name (e.g., 'Technology', 'Energy')"),
		),
		mcp.WithString("metric",
			mcp.Description("Ranking metric: return, market_cap, volume, dividend_yield (default: return)"),
		),
	)
}

func createPortfolioSectorAllocationTool() mcp.Tool {
	return mcp.NewTool("analyze_portfolio_sector_allocation",
		mcp.WithDescription("Break down your portfolio by sector and assess diversification."),
	)
}

// --- Stake brokerage tools ---

func createConfigureStakeConnectionTool() mcp.Tool {
	return mcp.NewTool("configure_stake_connection",
		mcp.WithDescription("Configure the Stake brokerage connection using credentials captured from your own logged-in session."),
		mcp.WithString("api_url",
			mcp.Required(),
			mcp.Description("Stake API base URL"),
		),
		mcp.WithString("account_id",
			mcp.Required(),
			mcp.Description("Stake account identifier"),
		),
		mcp.WithString("access_token",
			mcp.Required(),
			mcp.Description("Bearer access token from your session"),
		),
		mcp.WithString("refresh_token",
			mcp.Description("Optional refresh token"),
		),
		mcp.WithString("graphql_path",
			mcp.Description("GraphQL endpoint path (default: /graphql)"),
		),
		mcp.WithBoolean("persist",
			mcp.Description("Persist credentials to storage so they survive restarts (default: false)"),
		),
	)
}

func createStakeConnectionStatusTool() mcp.Tool {
	return mcp.NewTool("stake_connection_status",
		mcp.WithDescription("Show whether a Stake session is configured. Tokens are redacted."),
	)
}

func createClearStakeConnectionTool() mcp.Tool {
	return mcp.NewTool("clear_stake_connection",
		mcp.WithDescription("Clear the Stake session from memory and delete any persisted credentials."),
	)
}

func createStakeExecuteGraphQLTool() mcp.Tool {
	return mcp.NewTool("stake_execute_graphql",
		mcp.WithDescription("Execute a raw GraphQL query or mutation against the configured Stake session. Advanced use."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("GraphQL document to execute"),
		),
		mcp.WithString("variables",
			mcp.Description("JSON object of GraphQL variables"),
		),
	)
}

func createStakePlaceOrderTool() mcp.Tool {
	return mcp.NewTool("stake_place_order",
		mcp.WithDescription("Place an equity order through the configured Stake session."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock ticker symbol"),
		),
		mcp.WithString("side",
			mcp.Required(),
			mcp.Description("Order side: BUY or SELL"),
		),
		mcp.WithNumber("quantity",
			mcp.Required(),
			mcp.Description("Number of shares"),
		),
		mcp.WithString("order_type",
			mcp.Description("Order type: MARKET, LIMIT, STOP (default: MARKET)"),
		),
		mcp.WithString("time_in_force",
			mcp.Description("Time in force: DAY or GTC (default: DAY)"),
		),
		mcp.WithNumber("limit_price",
			mcp.Description("Limit price for LIMIT orders"),
		),
		mcp.WithNumber("stop_price",
			mcp.Description("Stop price for STOP orders"),
		),
		mcp.WithBoolean("outside_regular_hours",
			mcp.Description("Allow execution outside regular trading hours (default: false)"),
		),
	)
}

func createStakeCancelOrderTool() mcp.Tool {
	return mcp.NewTool("stake_cancel_order",
		mcp.WithDescription("Cancel a pending Stake order by its ID."),
		mcp.WithString("order_id",
			mcp.Required(),
			mcp.Description("Identifier of the order to cancel"),
		),
	)
}

func createStakeListOrdersTool() mcp.Tool {
	return mcp.NewTool("stake_list_orders",
		mcp.WithDescription("List current Stake orders, optionally filtered by status."),
		mcp.WithString("status",
			mcp.Description("Optional status filter (e.g., 'PENDING', 'FILLED')"),
		),
	)
}
