package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Stock MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// --- Price data handlers ---

func handleGetLatestPrice(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		quote, err := marketService.GetQuote(ctx, ticker)
		if err != nil || quote.Price == 0 {
			logger.Warn().Err(err).Str("ticker", ticker).Msg("Latest price lookup failed")
			return errorResult(fmt.Sprintf("Could not retrieve the price for %s. Please check the ticker symbol.", strings.ToUpper(strings.TrimSpace(ticker)))), nil
		}

		return textResult(fmt.Sprintf("The latest price for %s is %s %s.", quote.Symbol, formatNumber(quote.Price), quote.Currency)), nil
	}
}

func handleGetHistoricalData(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		period := request.GetString("period", "1mo")

		bars, err := marketService.GetHistory(ctx, ticker, period)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("History fetch failed")
			return errorResult(fmt.Sprintf("Error fetching historical data for %s: %v", ticker, err)), nil
		}
		if len(bars) == 0 {
			return errorResult(fmt.Sprintf("No historical data found for %s.", ticker)), nil
		}

		data, err := json.MarshalIndent(bars, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error encoding historical data: %v", err)), nil
		}
		return textResult(string(data)), nil
	}
}

func handleGetStockInfo(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		quote, err := marketService.GetQuote(ctx, ticker)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Stock info fetch failed")
			return errorResult(fmt.Sprintf("Error fetching stock info for %s: %v", ticker, err)), nil
		}

		return textResult(formatStockInfo(quote)), nil
	}
}

// --- Technical analysis handlers ---

func handleAnalyzeBuyOpportunity(analysisService interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		result, err := analysisService.BuyOpportunity(ctx, ticker)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Buy opportunity analysis failed")
			return errorResult(fmt.Sprintf("Error analyzing %s: %v", ticker, err)), nil
		}

		return textResult(formatBuyOpportunity(result)), nil
	}
}

func handleCalculateRSI(analysisService interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		period := request.GetInt("period", 14)
		timeframe := request.GetString("timeframe", "3mo")

		result, err := analysisService.RSI(ctx, ticker, period, timeframe)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("RSI calculation failed")
			return errorResult(fmt.Sprintf("Error calculating RSI for %s: %v", ticker, err)), nil
		}

		return textResult(formatRSI(result)), nil
	}
}

func handleCalculateMACD(analysisService interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		timeframe := request.GetString("timeframe", "6mo")

		result, err := analysisService.MACD(ctx, ticker, timeframe)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("MACD calculation failed")
			return errorResult(fmt.Sprintf("Error calculating MACD for %s: %v", ticker, err)), nil
		}

		return textResult(formatMACD(result)), nil
	}
}

func handleAnalyzeTrends(analysisService interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		timeframe := request.GetString("timeframe", "1y")

		result, err := analysisService.Trends(ctx, ticker, timeframe)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Trend analysis failed")
			return errorResult(fmt.Sprintf("Error analyzing trends for %s: %v", ticker, err)), nil
		}

		return textResult(formatTrends(result)), nil
	}
}

func handleCompareStocks(analysisService interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers := request.GetStringSlice("tickers", nil)
		if len(tickers) < 2 {
			return errorResult("Please provide at least 2 tickers to compare."), nil
		}

		comparisons, err := analysisService.Compare(ctx, tickers)
		if err != nil {
			logger.Error().Err(err).Strs("tickers", tickers).Msg("Stock comparison failed")
			return errorResult(fmt.Sprintf("Error comparing stocks: %v", err)), nil
		}

		return textResult(formatComparison(comparisons)), nil
	}
}

// --- Portfolio handlers ---

func handleAddHolding(portfolioService interfaces.PortfolioService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		shares, err := request.RequireFloat("shares")
		if err != nil {
			return errorResult("Error: shares parameter is required"), nil
		}
		price, err := request.RequireFloat("purchase_price")
		if err != nil {
			return errorResult("Error: purchase_price parameter is required"), nil
		}
		date := request.GetString("purchase_date", "")

		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		holding, err := portfolioService.AddHolding(ctx, ticker, shares, price, date)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Add holding failed")
			return errorResult(fmt.Sprintf("Error adding holding: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Added %s shares of %s at $%s/share. Total holding: %s shares at avg price $%s.",
			formatNumber(shares), ticker, formatNumber(price), formatNumber(holding.Shares), formatNumber(holding.AvgPrice))), nil
	}
}

func handleRemoveHolding(portfolioService interfaces.PortfolioService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		shares, err := request.RequireFloat("shares")
		if err != nil {
			return errorResult("Error: shares parameter is required"), nil
		}
		price, err := request.RequireFloat("sell_price")
		if err != nil {
			return errorResult("Error: sell_price parameter is required"), nil
		}
		date := request.GetString("sell_date", "")

		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		txn, remaining, err := portfolioService.RemoveHolding(ctx, ticker, shares, price, date)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Remove holding failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var tail string
		if remaining == 0 {
			tail = fmt.Sprintf("All shares of %s sold.", ticker)
		} else {
			tail = fmt.Sprintf("Remaining: %s shares.", formatNumber(remaining))
		}
		return textResult(fmt.Sprintf("Sold %s shares of %s at $%s/share. Profit/Loss: $%.2f (%.2f%%). %s",
			formatNumber(shares), ticker, formatNumber(price), txn.ProfitLoss, txn.ProfitLossPct, tail)), nil
	}
}

func handleViewPortfolio(portfolioService interfaces.PortfolioService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := portfolioService.View(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Portfolio view failed")
			return errorResult(fmt.Sprintf("Error viewing portfolio: %v", err)), nil
		}
		if len(view.Positions) == 0 {
			return textResult("Your portfolio is empty. Use add_holding() to add stocks."), nil
		}
		return textResult(formatPortfolio(view)), nil
	}
}

func handleViewTransactions(portfolioService interfaces.PortfolioService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 10)

		txns, err := portfolioService.Transactions(ctx, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Transaction view failed")
			return errorResult(fmt.Sprintf("Error viewing transactions: %v", err)), nil
		}
		if len(txns) == 0 {
			return textResult("No transactions recorded yet."), nil
		}
		return textResult(formatTransactions(txns)), nil
	}
}

// --- Market sentiment handlers ---

func handleGetMarketSentiment(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := sentimentService.Aggregate(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment aggregation failed")
			return errorResult(fmt.Sprintf("Error calculating market sentiment: %v", err)), nil
		}

		report := formatMarketSentiment(result)

		// Record today's score so the rolling history advances. The date
		// comes from the result timestamp, which the service clock set.
		today := result.Timestamp.Format("2006-01-02")
		if err := sentimentService.RecordScore(ctx, today, result.Score, result.Classification); err != nil {
			logger.Warn().Err(err).Msg("Failed to record sentiment score")
		}

		return textResult(report), nil
	}
}

func handleGetDetailedSentimentSignals(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := sentimentService.Aggregate(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment aggregation failed")
			return errorResult(fmt.Sprintf("Error getting detailed signals: %v", err)), nil
		}
		return textResult(formatDetailedSignals(result)), nil
	}
}

func handleGetVIXAnalysis(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signal := sentimentService.VIXSignal(ctx)
		return textResult(formatVIXAnalysis(signal)), nil
	}
}

func handleGetMarketBreadth(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signal := sentimentService.BreadthSignal(ctx)
		return textResult(formatMarketBreadth(signal)), nil
	}
}

func handleGetSectorRotationSignal(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signal := sentimentService.SectorRotationSignal(ctx)
		return textResult(formatSectorRotation(signal)), nil
	}
}

func handleGetAISectorSignal(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signal := sentimentService.AITechSignal(ctx)
		return textResult(formatAISector(signal)), nil
	}
}

func handleAnalyzeLeverageIndicators(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signal := sentimentService.LeverageSignal(ctx)
		return textResult(formatLeverage(signal)), nil
	}
}

func handleTrackSentimentHistory(sentimentService interfaces.SentimentService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		entries, err := sentimentService.ReadHistory(ctx, days)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment history read failed")
			return errorResult(fmt.Sprintf("Error tracking sentiment history: %v", err)), nil
		}
		if len(entries) == 0 {
			return textResult("No sentiment history available yet. Run get_market_sentiment() to start tracking."), nil
		}
		return textResult(formatSentimentHistory(entries)), nil
	}
}

// --- Risk handlers ---

func handleCalculateSharpeRatio(riskService interfaces.RiskService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		riskFreeRate := request.GetFloat("risk_free_rate", 0)
		period := request.GetString("period", "")

		result, err := riskService.Sharpe(ctx, ticker, riskFreeRate, period)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Sharpe calculation failed")
			return errorResult(fmt.Sprintf("Error calculating Sharpe ratio for %s: %v", ticker, err)), nil
		}
		return textResult(formatSharpe(result)), nil
	}
}

func handleCalculateBeta(riskService interfaces.RiskService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		benchmark := request.GetString("benchmark", "")
		period := request.GetString("period", "")

		result, err := riskService.Beta(ctx, ticker, benchmark, period)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Beta calculation failed")
			return errorResult(fmt.Sprintf("Error calculating beta for %s: %v", ticker, err)), nil
		}
		return textResult(formatBeta(result)), nil
	}
}

func handleCalculatePortfolioRisk(riskService interfaces.RiskService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := riskService.PortfolioRisk(ctx)
		if err != nil {
			if strings.Contains(err.Error(), "empty") {
				return textResult("Your portfolio is empty. Add holdings to analyze risk."), nil
			}
			logger.Error().Err(err).Msg("Portfolio risk calculation failed")
			return errorResult(fmt.Sprintf("Error calculating portfolio risk: %v", err)), nil
		}
		return textResult(formatPortfolioRisk(result)), nil
	}
}

func handleCalculateVaR(riskService interfaces.RiskService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		confidence := request.GetFloat("confidence", 0)
		positionSize := request.GetFloat("position_size", 0)
		period := request.GetString("period", "")

		result, err := riskService.VaR(ctx, ticker, confidence, period, positionSize)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("VaR calculation failed")
			return errorResult(fmt.Sprintf("Error calculating VaR for %s: %v", ticker, err)), nil
		}
		return textResult(formatVaR(result)), nil
	}
}

func handleCalculateDrawdown(riskService interfaces.RiskService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		period := request.GetString("period", "")

		result, err := riskService.Drawdown(ctx, ticker, period)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Drawdown calculation failed")
			return errorResult(fmt.Sprintf("Error calculating drawdown for %s: %v", ticker, err)), nil
		}
		return textResult(formatDrawdown(result)), nil
	}
}

// --- Alert handlers ---

func handleSetPriceAlert(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		target, err := request.RequireFloat("target_price")
		if err != nil {
			return errorResult("Error: target_price parameter is required"), nil
		}
		alertType := request.GetString("alert_type", "above")
		name := request.GetString("alert_name", "")

		alert, err := alertService.SetPriceAlert(ctx, strings.ToUpper(strings.TrimSpace(ticker)), target, alertType, name)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Set price alert failed")
			return errorResult(fmt.Sprintf("Error setting price alert: %v", err)), nil
		}

		return textResult(fmt.Sprintf("✅ Price alert set for %s: Notify when price goes %s $%.2f (Current: $%.2f)",
			alert.Symbol, alert.AlertType, alert.TargetPrice, alert.CurrentPrice)), nil
	}
}

func handleSetRSIAlert(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		threshold, err := request.RequireFloat("rsi_threshold")
		if err != nil {
			return errorResult("Error: rsi_threshold parameter is required"), nil
		}
		alertType := request.GetString("alert_type", "above")
		name := request.GetString("alert_name", "")

		alert, err := alertService.SetRSIAlert(ctx, strings.ToUpper(strings.TrimSpace(ticker)), threshold, alertType, name)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Set RSI alert failed")
			return errorResult(fmt.Sprintf("Error setting RSI alert: %v", err)), nil
		}

		return textResult(fmt.Sprintf("✅ RSI alert set for %s: Notify when RSI goes %s %.0f (Current RSI: %.2f)",
			alert.Symbol, alert.AlertType, alert.Threshold, alert.CurrentRSI)), nil
	}
}

func handleCheckAlerts(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := alertService.Check(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Alert check failed")
			return errorResult(fmt.Sprintf("Error checking alerts: %v", err)), nil
		}
		if items == nil {
			return textResult("No alerts configured. Use set_price_alert() or set_rsi_alert() to create alerts."), nil
		}
		return textResult(formatAlertCheck(items)), nil
	}
}

func handleListAlerts(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		book, err := alertService.List(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Alert list failed")
			return errorResult(fmt.Sprintf("Error listing alerts: %v", err)), nil
		}
		if len(book.PriceAlerts) == 0 && len(book.RSIAlerts) == 0 {
			return textResult("No alerts configured. Use set_price_alert() or set_rsi_alert() to create alerts."), nil
		}
		return textResult(formatAlertList(book)), nil
	}
}

func handleClearTriggeredAlerts(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		priceCount, rsiCount, err := alertService.ClearTriggered(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Clear triggered alerts failed")
			return errorResult(fmt.Sprintf("Error clearing alerts: %v", err)), nil
		}
		total := priceCount + rsiCount
		if total == 0 {
			return textResult("No triggered alerts to clear."), nil
		}
		return textResult(fmt.Sprintf("✅ Cleared %d triggered alert(s): %d price alerts, %d RSI alerts.", total, priceCount, rsiCount)), nil
	}
}

func handleDeleteAllAlerts(alertService interfaces.AlertService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := alertService.DeleteAll(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Delete all alerts failed")
			return errorResult(fmt.Sprintf("Error deleting alerts: %v", err)), nil
		}
		return textResult(fmt.Sprintf("🗑️ Deleted all %d alert(s).", count)), nil
	}
}

// --- Dividend handlers ---

func handleGetDividendHistory(dividendService interfaces.DividendService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}
		period := request.GetString("period", "5y")

		history, err := dividendService.History(ctx, strings.ToUpper(strings.TrimSpace(ticker)), period)
		if err != nil {
			logger.Warn().Err(err).Str("ticker", ticker).Msg("Dividend history lookup failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatDividendHistory(history)), nil
	}
}

func handleGetDividendYield(dividendService interfaces.DividendService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		quote, err := dividendService.Yield(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
		if err != nil {
			logger.Warn().Err(err).Str("ticker", ticker).Msg("Dividend yield lookup failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatDividendYield(quote)), nil
	}
}

func handlePortfolioDividendIncome(dividendService interfaces.DividendService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		income, err := dividendService.PortfolioIncome(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Portfolio dividend income failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatDividendIncome(income)), nil
	}
}

func handleFindHighDividendStocks(dividendService interfaces.DividendService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		minYield := request.GetFloat("min_yield", 3.0)
		sector := request.GetString("sector", "")

		stocks, err := dividendService.HighYield(ctx, minYield, sector)
		if err != nil {
			logger.Warn().Err(err).Msg("High dividend screen failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatHighDividendStocks(stocks, minYield)), nil
	}
}

// --- Sector handlers ---

func handleAnalyzeSector(sectorService interfaces.SectorService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sector, err := request.RequireString("sector")
		if err != nil || sector == "" {
			return errorResult("Error: sector parameter is required"), nil
		}

		analysis, err := sectorService.Analyze(ctx, sector)
		if err != nil {
			logger.Warn().Err(err).Str("sector", sector).Msg("Sector analysis failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatSectorAnalysis(analysis)), nil
	}
}

func handleCompareSectors(sectorService interfaces.SectorService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		performances, err := sectorService.Compare(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Sector comparison failed")
			return errorResult(fmt.Sprintf("Error comparing sectors: %v", err)), nil
		}
		return textResult(formatSectorComparison(performances)), nil
	}
}

func handleGetSectorLeaders(sectorService interfaces.SectorService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sector, err := request.RequireString("sector")
		if err != nil || sector == "" {
			return errorResult("Error: sector parameter is required"), nil
		}
		metric := request.GetString("metric", "return")

		leaders, err := sectorService.Leaders(ctx, sector, metric)
		if err != nil {
			logger.Warn().Err(err).Str("sector", sector).Msg("Sector leaders lookup failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatSectorLeaders(sector, metric, leaders)), nil
	}
}

func handlePortfolioSectorAllocation(sectorService interfaces.SectorService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		allocation, err := sectorService.PortfolioAllocation(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Sector allocation failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatSectorAllocation(allocation)), nil
	}
}

// --- Stake brokerage handlers ---

func handleConfigureStakeConnection(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		apiURL, err := request.RequireString("api_url")
		if err != nil || apiURL == "" {
			return errorResult("Error: api_url parameter is required"), nil
		}
		accountID, err := request.RequireString("account_id")
		if err != nil || accountID == "" {
			return errorResult("Error: account_id parameter is required"), nil
		}
		accessToken, err := request.RequireString("access_token")
		if err != nil || accessToken == "" {
			return errorResult("Error: access_token parameter is required"), nil
		}

		session := models.StakeSessionConfig{
			APIURL:       apiURL,
			AccountID:    accountID,
			AccessToken:  accessToken,
			RefreshToken: request.GetString("refresh_token", ""),
			GraphQLPath:  request.GetString("graphql_path", ""),
		}
		persist := request.GetBool("persist", false)

		if err := stakeClient.Configure(ctx, session, persist); err != nil {
			logger.Error().Err(err).Msg("Stake configuration failed")
			return errorResult(fmt.Sprintf("Error configuring Stake connection: %v", err)), nil
		}

		return textResult("Stake connection updated. The credentials are kept in memory and will persist across restarts only if `persist=True`."), nil
	}
}

func handleStakeConnectionStatus(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		session, err := stakeClient.Status(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Stake status check failed")
			return errorResult(fmt.Sprintf("Error checking Stake status: %v", err)), nil
		}

		status := map[string]any{"configured": session != nil}
		if session != nil {
			status["details"] = session
		}
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error encoding status: %v", err)), nil
		}
		return textResult(string(data)), nil
	}
}

func handleClearStakeConnection(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := stakeClient.Clear(ctx); err != nil {
			logger.Error().Err(err).Msg("Stake session clear failed")
			return errorResult(fmt.Sprintf("Error clearing Stake connection: %v", err)), nil
		}
		return textResult("Stake connection cleared and any persisted credentials deleted."), nil
	}
}

func handleStakeExecuteGraphQL(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return errorResult("Error: query parameter is required"), nil
		}

		var variables map[string]any
		if raw := request.GetString("variables", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &variables); err != nil {
				return errorResult(fmt.Sprintf("Error: variables must be a JSON object: %v", err)), nil
			}
		}

		result, err := stakeClient.Execute(ctx, query, variables)
		if err != nil {
			logger.Error().Err(err).Msg("Stake GraphQL execution failed")
			return errorResult(fmt.Sprintf("Error executing GraphQL: %v", err)), nil
		}
		return textResult(string(result)), nil
	}
}

func handleStakePlaceOrder(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}
		side, err := request.RequireString("side")
		if err != nil || side == "" {
			return errorResult("Error: side parameter is required"), nil
		}
		side = strings.ToUpper(strings.TrimSpace(side))
		if side != "BUY" && side != "SELL" {
			return errorResult("Order side must be either 'BUY' or 'SELL'."), nil
		}
		quantity, err := request.RequireFloat("quantity")
		if err != nil {
			return errorResult("Error: quantity parameter is required"), nil
		}

		req := models.StakeOrderRequest{
			Symbol:              strings.ToUpper(strings.TrimSpace(symbol)),
			Side:                side,
			Quantity:            quantity,
			OrderType:           request.GetString("order_type", "MARKET"),
			TimeInForce:         request.GetString("time_in_force", "DAY"),
			LimitPrice:          request.GetFloat("limit_price", 0),
			StopPrice:           request.GetFloat("stop_price", 0),
			OutsideRegularHours: request.GetBool("outside_regular_hours", false),
		}

		order, err := stakeClient.PlaceOrder(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("symbol", req.Symbol).Msg("Stake order placement failed")
			return errorResult(fmt.Sprintf("Error placing order: %v", err)), nil
		}

		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error encoding order: %v", err)), nil
		}
		return textResult(string(data)), nil
	}
}

func handleStakeCancelOrder(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil || orderID == "" {
			return errorResult("Error: order_id parameter is required"), nil
		}

		if err := stakeClient.CancelOrder(ctx, orderID); err != nil {
			logger.Error().Err(err).Str("order_id", orderID).Msg("Stake order cancellation failed")
			return errorResult(fmt.Sprintf("Error cancelling order: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Order %s cancelled.", orderID)), nil
	}
}

func handleStakeListOrders(stakeClient interfaces.StakeClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		statusFilter := request.GetString("status", "")

		orders, err := stakeClient.ListOrders(ctx, statusFilter)
		if err != nil {
			logger.Error().Err(err).Msg("Stake order listing failed")
			return errorResult(fmt.Sprintf("Error listing orders: %v", err)), nil
		}
		if len(orders) == 0 {
			return textResult("No orders found."), nil
		}

		data, err := json.MarshalIndent(orders, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error encoding orders: %v", err)), nil
		}
		return textResult(string(data)), nil
	}
}

// Helper functions

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
