package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// formatNumber renders a float without trailing zeros, the way a price
// or share count reads naturally in a sentence.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// groupThousands inserts comma separators into an integer digit string.
func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// money formats a dollar amount with comma grouping and two decimals.
func money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	return groupThousands(parts[0]) + "." + parts[1]
}

// money0 formats a dollar amount with comma grouping and no decimals.
func money0(v float64) string {
	return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
}

func commaInt(v int64) string {
	return groupThousands(strconv.FormatInt(v, 10))
}

func rule(width int) string {
	return strings.Repeat("=", width)
}

func orNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return formatNumber(v)
}

// --- Price data ---

func formatStockInfo(q *models.Quote) string {
	var sb strings.Builder

	name := q.Name
	if name == "" {
		name = q.Symbol
	}
	sb.WriteString(fmt.Sprintf("📊 %s (%s)\n", name, q.Symbol))
	sb.WriteString(rule(70) + "\n\n")

	sb.WriteString("💰 PRICE INFORMATION\n")
	sb.WriteString(fmt.Sprintf("   Current Price: $%s %s\n", formatNumber(q.Price), q.Currency))
	sb.WriteString(fmt.Sprintf("   Previous Close: $%s\n", formatNumber(q.PreviousClose)))
	sb.WriteString(fmt.Sprintf("   Day Range: $%s - $%s\n", formatNumber(q.DayLow), formatNumber(q.DayHigh)))
	sb.WriteString(fmt.Sprintf("   52 Week Range: $%s - $%s\n\n", formatNumber(q.Low52Week), formatNumber(q.High52Week)))

	sb.WriteString("📈 MARKET DATA\n")
	sb.WriteString(fmt.Sprintf("   Market Cap: $%s\n", money0(q.MarketCap)))
	sb.WriteString(fmt.Sprintf("   Volume: %s\n", commaInt(q.Volume)))
	sb.WriteString(fmt.Sprintf("   Avg Volume: %s\n\n", commaInt(q.AvgVolume)))

	sb.WriteString("🔍 FUNDAMENTAL METRICS\n")
	sb.WriteString(fmt.Sprintf("   P/E Ratio: %s\n", orNA(q.PERatio)))
	sb.WriteString(fmt.Sprintf("   EPS: $%s\n", orNA(q.EPS)))
	sb.WriteString(fmt.Sprintf("   Dividend Yield: %.2f%%\n", q.DividendYield*100))
	sb.WriteString(fmt.Sprintf("   Beta: %s\n\n", orNA(q.Beta)))

	sb.WriteString("🏢 COMPANY INFO\n")
	sb.WriteString(fmt.Sprintf("   Sector: %s\n", q.Sector))
	sb.WriteString(fmt.Sprintf("   Industry: %s\n", q.Industry))
	sb.WriteString(fmt.Sprintf("   Website: %s\n", q.Website))

	return sb.String()
}

// --- Technical analysis ---

func formatBuyOpportunity(a *models.BuyOpportunity) string {
	if !a.Enough {
		return fmt.Sprintf("Not enough historical data for %s to perform analysis.", a.Symbol)
	}
	if a.Crossover {
		return fmt.Sprintf("Analysis for %s: Potential Buy Signal. The 20-day SMA just crossed above the 50-day SMA.", a.Symbol)
	}
	if a.ShortAbove {
		return fmt.Sprintf("Analysis for %s: Hold or Potential Buy. The short-term trend (20-day SMA) is currently above the long-term trend (50-day SMA).", a.Symbol)
	}
	return fmt.Sprintf("Analysis for %s: Hold or Sell Signal. The short-term trend is below the long-term trend.", a.Symbol)
}

func formatRSI(a *models.RSIAnalysis) string {
	var signal string
	switch {
	case a.Current > 70:
		signal = "⚠️ OVERBOUGHT - Consider selling or waiting"
	case a.Current < 30:
		signal = "🎯 OVERSOLD - Potential buy opportunity"
	default:
		signal = "✅ NEUTRAL - Normal trading range"
	}

	trend := "📉 Falling"
	if a.Current > a.Prev {
		trend = "📈 Rising"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 RSI Analysis for %s\n", a.Symbol))
	sb.WriteString(rule(50) + "\n")
	sb.WriteString(fmt.Sprintf("Current RSI (%d-day): %.2f\n", a.Period, a.Current))
	sb.WriteString(fmt.Sprintf("Trend: %s\n", trend))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal))
	return sb.String()
}

func formatMACD(a *models.MACDAnalysis) string {
	var signal string
	switch {
	case a.MACD > a.Signal && a.PrevHistogram < 0:
		signal = "🟢 BULLISH CROSSOVER - Potential buy signal"
	case a.MACD < a.Signal && a.PrevHistogram > 0:
		signal = "🔴 BEARISH CROSSOVER - Potential sell signal"
	case a.MACD > a.Signal:
		signal = "📈 BULLISH - Upward momentum"
	default:
		signal = "📉 BEARISH - Downward momentum"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 MACD Analysis for %s\n", a.Symbol))
	sb.WriteString(rule(50) + "\n")
	sb.WriteString(fmt.Sprintf("MACD Line: %.2f\n", a.MACD))
	sb.WriteString(fmt.Sprintf("Signal Line: %.2f\n", a.Signal))
	sb.WriteString(fmt.Sprintf("Histogram: %.2f\n", a.Histogram))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal))
	return sb.String()
}

func formatTrends(a *models.TrendAnalysis) string {
	var overall string
	switch {
	case a.SignalAvg > 0.3:
		overall = "🟢 BULLISH - Strong upward trend"
	case a.SignalAvg < -0.3:
		overall = "🔴 BEARISH - Strong downward trend"
	default:
		overall = "🟡 NEUTRAL - Mixed signals"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 COMPREHENSIVE TREND ANALYSIS for %s\n", a.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString(fmt.Sprintf("💰 Current Price: $%.2f\n\n", a.CurrentPrice))

	sb.WriteString("📈 MOVING AVERAGES\n")
	sb.WriteString(fmt.Sprintf("   20-day SMA: $%.2f (%+.2f%%)\n", a.SMA20, a.PriceVsSMA20))
	sb.WriteString(fmt.Sprintf("   50-day SMA: $%.2f (%+.2f%%)\n", a.SMA50, a.PriceVsSMA50))
	if a.HasSMA200 {
		sb.WriteString(fmt.Sprintf("   200-day SMA: $%.2f (%+.2f%%)\n", a.SMA200, a.PriceVsSMA200))
	}
	sb.WriteString("\n📊 MARKET ACTIVITY\n")
	sb.WriteString(fmt.Sprintf("   Volume Trend: %s\n", a.VolumeTrend))
	sb.WriteString(fmt.Sprintf("   Volatility: %.2f%%\n", a.Volatility))
	sb.WriteString(fmt.Sprintf("\n🎯 OVERALL SIGNAL: %s\n", overall))
	return sb.String()
}

func formatComparison(stocks []models.StockComparison) string {
	var sb strings.Builder
	sb.WriteString("📊 STOCK COMPARISON\n")
	sb.WriteString(rule(100) + "\n\n")

	best := stocks[0]
	for _, s := range stocks {
		sb.WriteString(fmt.Sprintf("🏢 %s\n", s.Symbol))
		sb.WriteString(fmt.Sprintf("   Price: $%.2f\n", s.Price))
		sb.WriteString(fmt.Sprintf("   Market Cap: $%s\n", money0(s.MarketCap)))
		sb.WriteString(fmt.Sprintf("   P/E Ratio: %s\n", orNA(s.PERatio)))
		sb.WriteString(fmt.Sprintf("   3-Month Return: %+.2f%%\n", s.Return3Mo))
		sb.WriteString(fmt.Sprintf("   Volume: %s\n", commaInt(s.Volume)))
		sb.WriteString(fmt.Sprintf("   Dividend Yield: %.2f%%\n\n", s.DividendYield))
		if s.Return3Mo > best.Return3Mo {
			best = s
		}
	}

	sb.WriteString(fmt.Sprintf("🏆 Best 3-Month Return: %s (%+.2f%%)\n", best.Symbol, best.Return3Mo))
	return sb.String()
}

// --- Portfolio ---

func formatPortfolio(view *models.PortfolioView) string {
	var sb strings.Builder
	sb.WriteString("📊 PORTFOLIO SUMMARY\n")
	sb.WriteString(rule(70) + "\n\n")

	for _, p := range view.Positions {
		if p.PriceKnown {
			sb.WriteString(fmt.Sprintf("🏢 %s\n", p.Symbol))
			sb.WriteString(fmt.Sprintf("   Shares: %s\n", formatNumber(p.Shares)))
			sb.WriteString(fmt.Sprintf("   Avg Cost: $%.2f/share | Current: $%.2f/share\n", p.AvgPrice, p.CurrentPrice))
			sb.WriteString(fmt.Sprintf("   Invested: $%.2f | Current Value: $%.2f\n", p.Invested, p.CurrentValue))
			sb.WriteString(fmt.Sprintf("   Gain/Loss: $%.2f (%+.2f%%)\n", p.GainLoss, p.GainLossPct))
			sb.WriteString(fmt.Sprintf("   Last Updated: %s\n\n", p.LastUpdated))
		} else {
			sb.WriteString(fmt.Sprintf("🏢 %s\n", p.Symbol))
			sb.WriteString(fmt.Sprintf("   Shares: %s @ $%.2f/share\n", formatNumber(p.Shares), p.AvgPrice))
			sb.WriteString("   ⚠️ Could not fetch current price\n\n")
		}
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("💰 Total Invested: $%.2f\n", view.TotalCost))
	sb.WriteString(fmt.Sprintf("💵 Current Value: $%.2f\n", view.TotalValue))
	sb.WriteString(fmt.Sprintf("📈 Total Gain/Loss: $%.2f (%+.2f%%)\n", view.GainLoss, view.GainLossPct))
	return sb.String()
}

func formatTransactions(txns []models.Transaction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 RECENT TRANSACTIONS (Last %d)\n", len(txns)))
	sb.WriteString(rule(70) + "\n\n")

	for _, txn := range txns {
		emoji := "🟢"
		if txn.Type == models.TransactionSell {
			emoji = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", emoji, txn.Type, txn.Symbol))
		sb.WriteString(fmt.Sprintf("   Date: %s\n", txn.Date))
		sb.WriteString(fmt.Sprintf("   Shares: %s @ $%.2f/share\n", formatNumber(txn.Shares), txn.Price))
		sb.WriteString(fmt.Sprintf("   Total: $%.2f\n", txn.Total))
		if txn.Type == models.TransactionSell {
			plEmoji := "📈"
			if txn.ProfitLoss < 0 {
				plEmoji = "📉"
			}
			sb.WriteString(fmt.Sprintf("   %s P/L: $%.2f (%+.2f%%)\n", plEmoji, txn.ProfitLoss, txn.ProfitLossPct))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// --- Market sentiment ---

// signalNames maps indicator keys to their display names, in report order.
var signalNames = map[string]string{
	models.IndicatorVIX:            "📈 VIX Level",
	models.IndicatorSPYTrend:       "📊 SPY Trend",
	models.IndicatorQQQTrend:       "📊 QQQ Trend",
	models.IndicatorPutCall:        "⚖️  Put/Call Proxy",
	models.IndicatorSectorRotation: "🔄 Sector Rotation",
	models.IndicatorBreadth:        "📏 Market Breadth",
	models.IndicatorVolume:         "📊 Volume Pattern",
	models.IndicatorAITech:         "🤖 AI/Tech Signal",
	models.IndicatorLeverage:       "⚡ Leverage Indicator",
}

func formatMarketSentiment(result *models.SentimentResult) string {
	var sb strings.Builder
	sb.WriteString("📊 MARKET SENTIMENT ANALYSIS\n")
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString(fmt.Sprintf("Overall Sentiment: %s\n", result.Classification))
	sb.WriteString(fmt.Sprintf("Score: %.1f/100\n", result.Score))
	sb.WriteString(fmt.Sprintf("Updated: %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString("💡 RECOMMENDATION:\n")
	sb.WriteString(result.Recommendation + "\n\n")
	sb.WriteString("Use get_detailed_sentiment_signals() for breakdown of all indicators.\n")
	return sb.String()
}

func formatDetailedSignals(result *models.SentimentResult) string {
	var sb strings.Builder
	sb.WriteString("📊 DETAILED SENTIMENT SIGNAL BREAKDOWN\n")
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString(fmt.Sprintf("Overall Score: %.1f/100 - %s\n\n", result.Score, result.Classification))
	sb.WriteString("Individual Signals:\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n\n")

	for _, key := range models.IndicatorOrder {
		signal, ok := result.Signals[key]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", signalNames[key]))
		sb.WriteString(fmt.Sprintf("   Value: %s\n", signal.Value))
		sb.WriteString(fmt.Sprintf("   Signal: %s\n", signal.Label))
		sb.WriteString(fmt.Sprintf("   Score: %.1f/10 (Weight: %.1fx) = %.1f\n\n", signal.Score, signal.Weight, signal.Contribution()))
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("💡 %s\n", result.Recommendation))
	return sb.String()
}

func formatVIXAnalysis(signal models.IndicatorSignal) string {
	var sb strings.Builder
	sb.WriteString("📈 VIX VOLATILITY ANALYSIS\n")
	sb.WriteString(rule(50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Current VIX: %.2f\n", signal.Raw))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal.Label))
	sb.WriteString(fmt.Sprintf("Sentiment Score: %s/10\n\n", formatNumber(signal.Score)))
	sb.WriteString("Interpretation:\n")
	sb.WriteString("  • VIX < 12: Very low fear (complacency risk)\n")
	sb.WriteString("  • VIX 12-20: Normal market conditions\n")
	sb.WriteString("  • VIX 20-30: Elevated uncertainty\n")
	sb.WriteString("  • VIX > 30: High fear/panic (potential opportunity)\n")
	return sb.String()
}

func formatMarketBreadth(signal models.IndicatorSignal) string {
	var sb strings.Builder
	sb.WriteString("📏 MARKET BREADTH ANALYSIS\n")
	sb.WriteString(rule(50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Sectors Positive (1-month): %.0f%%\n", signal.Raw))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal.Label))
	sb.WriteString(fmt.Sprintf("Sentiment Score: %s/10\n\n", formatNumber(signal.Score)))
	sb.WriteString("Interpretation:\n")
	sb.WriteString("  • >80%: Excellent participation (healthy rally)\n")
	sb.WriteString("  • 60-80%: Good breadth\n")
	sb.WriteString("  • 40-60%: Mixed market\n")
	sb.WriteString("  • <40%: Narrow market (few leaders, risky)\n")
	return sb.String()
}

func formatSectorRotation(signal models.IndicatorSignal) string {
	var sb strings.Builder
	sb.WriteString("🔄 SECTOR ROTATION ANALYSIS\n")
	sb.WriteString(rule(50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Pattern: %s\n", signal.Value))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal.Label))
	sb.WriteString(fmt.Sprintf("Sentiment Score: %s/10\n\n", formatNumber(signal.Score)))
	sb.WriteString("Interpretation:\n")
	sb.WriteString("  • Growth leading: Risk-on, bullish sentiment\n")
	sb.WriteString("  • Defensive leading: Risk-off, bearish sentiment\n")
	sb.WriteString("  • Mixed: Transition period or uncertainty\n")
	return sb.String()
}

func formatAISector(signal models.IndicatorSignal) string {
	var sb strings.Builder
	sb.WriteString("🤖 AI/TECH SECTOR SIGNAL\n")
	sb.WriteString(rule(50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Analysis: %s\n", signal.Value))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal.Label))
	sb.WriteString(fmt.Sprintf("Sentiment Score: %s/10\n\n", formatNumber(signal.Score)))
	sb.WriteString("Interpretation:\n")
	sb.WriteString("  • QQQ outperforming + AI stocks up: Strong tech/AI trend\n")
	sb.WriteString("  • QQQ underperforming: Tech rotation/weakness\n")
	sb.WriteString("  • Relevant for AI bubble concerns and tech leadership\n")
	return sb.String()
}

func formatLeverage(signal models.IndicatorSignal) string {
	var sb strings.Builder
	sb.WriteString("⚡ LEVERAGE INDICATOR ANALYSIS\n")
	sb.WriteString(rule(50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n", signal.Value))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", signal.Label))
	sb.WriteString(fmt.Sprintf("Sentiment Score: %s/10\n\n", formatNumber(signal.Score)))
	sb.WriteString("Interpretation:\n")
	sb.WriteString("  • High stress: Potential forced selling/deleveraging\n")
	sb.WriteString("  • Elevated: Unwinding beginning, caution\n")
	sb.WriteString("  • Normal: Stable leverage levels\n")
	sb.WriteString("  • Low: Calm markets, low forced liquidation risk\n\n")
	sb.WriteString("Note: Based on recent volatility vs historical patterns.\n")
	sb.WriteString("Sudden spikes suggest leverage unwinding (bearish short-term).\n")
	return sb.String()
}

func formatSentimentHistory(entries []models.SentimentHistoryEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 SENTIMENT HISTORY (Last %d days)\n", len(entries)))
	sb.WriteString(rule(70) + "\n\n")

	if len(entries) >= 2 {
		change := entries[len(entries)-1].Score - entries[0].Score
		var trend string
		switch {
		case change > 10:
			trend = "📈 IMPROVING (Becoming more bullish)"
		case change > 3:
			trend = "📈 Slightly improving"
		case change > -3:
			trend = "➡️  STABLE"
		case change > -10:
			trend = "📉 Slightly deteriorating"
		default:
			trend = "📉 DETERIORATING (Becoming more bearish)"
		}
		sb.WriteString(fmt.Sprintf("Trend: %s\n", trend))
		sb.WriteString(fmt.Sprintf("Change: %+.1f points over %d days\n\n", change, len(entries)))
	}

	sb.WriteString("Recent History:\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n")

	recent := entries
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, entry := range recent {
		sb.WriteString(fmt.Sprintf("%s: %6.1f - %s\n", entry.Date, entry.Score, entry.Classification))
	}
	return sb.String()
}

// --- Risk ---

func formatSharpe(a *models.SharpeAnalysis) string {
	var interp string
	switch {
	case a.Sharpe > 2:
		interp = "🟢 EXCELLENT - Very good risk-adjusted returns"
	case a.Sharpe > 1:
		interp = "🟢 GOOD - Favorable risk-adjusted returns"
	case a.Sharpe > 0:
		interp = "🟡 FAIR - Positive but modest risk-adjusted returns"
	default:
		interp = "🔴 POOR - Negative risk-adjusted returns"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 SHARPE RATIO ANALYSIS for %s\n", a.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📈 METRICS\n")
	sb.WriteString(fmt.Sprintf("   Annualized Return: %.2f%%\n", a.AnnualReturn*100))
	sb.WriteString(fmt.Sprintf("   Annualized Volatility: %.2f%%\n", a.AnnualVolatility*100))
	sb.WriteString(fmt.Sprintf("   Risk-Free Rate: %.2f%%\n", a.RiskFreeRate*100))
	sb.WriteString(fmt.Sprintf("   Sharpe Ratio: %.2f\n\n", a.Sharpe))
	sb.WriteString("💡 INTERPRETATION\n")
	sb.WriteString(fmt.Sprintf("   %s\n\n", interp))
	sb.WriteString("   Sharpe Ratio Guide:\n")
	sb.WriteString("   > 2.0: Excellent\n")
	sb.WriteString("   1.0-2.0: Good\n")
	sb.WriteString("   0-1.0: Fair\n")
	sb.WriteString("   < 0: Poor (return < risk-free rate)\n")
	return sb.String()
}

func formatBeta(a *models.BetaAnalysis) string {
	var interp string
	switch {
	case a.Beta > 1.5:
		interp = "🔴 HIGH RISK - Much more volatile than market"
	case a.Beta > 1.2:
		interp = "🟡 MODERATE-HIGH RISK - More volatile than market"
	case a.Beta > 0.8:
		interp = "🟢 MODERATE RISK - Moves with market"
	case a.Beta > 0:
		interp = "🟢 LOW RISK - Less volatile than market"
	default:
		interp = "🔵 DEFENSIVE - Moves opposite to market"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 BETA ANALYSIS for %s\n", a.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📈 METRICS\n")
	sb.WriteString(fmt.Sprintf("   Beta vs %s: %.2f\n", a.Benchmark, a.Beta))
	sb.WriteString(fmt.Sprintf("   Correlation: %.2f\n", a.Correlation))
	sb.WriteString(fmt.Sprintf("   Stock Volatility: %.2f%%\n", a.StockVolatility*100))
	sb.WriteString(fmt.Sprintf("   Market Volatility: %.2f%%\n\n", a.MarketVolatility*100))
	sb.WriteString("💡 INTERPRETATION\n")
	sb.WriteString(fmt.Sprintf("   %s\n\n", interp))
	sb.WriteString("   Beta Guide:\n")
	sb.WriteString("   β > 1: More volatile than market\n")
	sb.WriteString("   β = 1: Moves with market\n")
	sb.WriteString("   0 < β < 1: Less volatile than market\n")
	sb.WriteString("   β < 0: Moves opposite to market\n")
	return sb.String()
}

func formatPortfolioRisk(r *models.PortfolioRisk) string {
	var rating string
	switch {
	case r.Volatility > 0.30:
		rating = "🔴 HIGH RISK - Very volatile portfolio"
	case r.Volatility > 0.20:
		rating = "🟡 MODERATE-HIGH RISK - Above average volatility"
	case r.Volatility > 0.15:
		rating = "🟢 MODERATE RISK - Average market volatility"
	default:
		rating = "🟢 LOW RISK - Conservative portfolio"
	}

	var sb strings.Builder
	sb.WriteString("⚠️ PORTFOLIO RISK ANALYSIS\n")
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 OVERALL PORTFOLIO RISK\n")
	sb.WriteString(fmt.Sprintf("   Portfolio Value: $%s\n", money(r.TotalValue)))
	sb.WriteString(fmt.Sprintf("   Number of Holdings: %d\n", len(r.Positions)))
	sb.WriteString(fmt.Sprintf("   Portfolio Beta: %.2f\n", r.Beta))
	sb.WriteString(fmt.Sprintf("   Portfolio Volatility: %.2f%%\n", r.Volatility*100))
	sb.WriteString(fmt.Sprintf("   Portfolio Sharpe Ratio: %.2f\n\n", r.Sharpe))
	sb.WriteString("⚠️ RISK RATING\n")
	sb.WriteString(fmt.Sprintf("   %s\n\n", rating))

	sb.WriteString("📋 POSITION RISK BREAKDOWN\n")
	for _, p := range r.Positions {
		sb.WriteString(fmt.Sprintf("\n   %s\n", p.Symbol))
		sb.WriteString(fmt.Sprintf("      Weight: %.1f%% | Value: $%s\n", p.Weight*100, money(p.Value)))
		sb.WriteString(fmt.Sprintf("      Volatility: %.2f%% | Beta: %.2f\n", p.Volatility*100, p.Beta))
	}

	var concentration string
	switch {
	case r.MaxWeight > 0.30:
		concentration = "🔴 HIGH - Portfolio heavily concentrated"
	case r.MaxWeight > 0.20:
		concentration = "🟡 MODERATE - Some concentration present"
	default:
		concentration = "🟢 LOW - Well diversified"
	}
	sb.WriteString("\n\n🎯 CONCENTRATION RISK\n")
	sb.WriteString(fmt.Sprintf("   Largest Position: %.1f%%\n", r.MaxWeight*100))
	sb.WriteString(fmt.Sprintf("   Top 3 Concentration: %.1f%%\n", r.Top3Weight*100))
	sb.WriteString(fmt.Sprintf("   Concentration Risk: %s\n", concentration))

	sb.WriteString("\n\n💡 RECOMMENDATIONS\n")
	recommended := false
	if r.Volatility > 0.25 {
		sb.WriteString("   • Consider adding more defensive stocks to reduce volatility\n")
		recommended = true
	}
	if r.MaxWeight > 0.25 {
		sb.WriteString("   • Reduce concentration in largest position\n")
		recommended = true
	}
	if r.Beta > 1.3 {
		sb.WriteString("   • Portfolio is more volatile than market - consider adding low-beta stocks\n")
		recommended = true
	}
	if len(r.Positions) < 5 {
		sb.WriteString("   • Increase diversification with more holdings (aim for 10-20)\n")
		recommended = true
	}
	if r.Sharpe < 0.5 {
		sb.WriteString("   • Risk-adjusted returns are low - review underperforming positions\n")
		recommended = true
	}
	if !recommended && r.Volatility <= 0.20 && r.MaxWeight <= 0.20 && len(r.Positions) >= 10 {
		sb.WriteString("   ✅ Portfolio shows good diversification and risk management\n")
	}
	return sb.String()
}

func formatVaR(a *models.VaRAnalysis) string {
	var risk string
	switch {
	case a.VaRPct > 5:
		risk = "🔴 HIGH RISK - Significant daily loss potential"
	case a.VaRPct > 3:
		risk = "🟡 MODERATE RISK - Notable daily volatility"
	default:
		risk = "🟢 LOW RISK - Limited daily loss potential"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ VALUE AT RISK (VaR) for %s\n", a.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 VAR METRICS\n")
	sb.WriteString(fmt.Sprintf("   Position Size: $%s\n", money(a.PositionSize)))
	sb.WriteString(fmt.Sprintf("   Confidence Level: %.0f%%\n", a.Confidence*100))
	sb.WriteString("   Time Horizon: 1 day\n\n")
	sb.WriteString("📉 CALCULATIONS\n")
	sb.WriteString(fmt.Sprintf("   Historical VaR: $%s\n", money(a.HistoricalVaR)))
	sb.WriteString(fmt.Sprintf("   Parametric VaR: $%s\n\n", money(a.ParametricVaR)))
	sb.WriteString("💡 INTERPRETATION\n")
	sb.WriteString(fmt.Sprintf("   With %.0f%% confidence, you should not lose more than\n", a.Confidence*100))
	sb.WriteString(fmt.Sprintf("   $%s in a single day on this $%s position.\n\n", money(a.HistoricalVaR), money(a.PositionSize)))
	sb.WriteString(fmt.Sprintf("   This means there's a %.0f%% chance of losing more than $%s\n", (1-a.Confidence)*100, money(a.HistoricalVaR)))
	sb.WriteString("   in a single day.\n\n")
	sb.WriteString(fmt.Sprintf("   Daily VaR: %.2f%% of position\n", a.VaRPct))
	sb.WriteString(fmt.Sprintf("   %s\n", risk))
	return sb.String()
}

func formatDrawdown(a *models.DrawdownAnalysis) string {
	var status string
	switch {
	case a.CurrentDrawdown < -0.05:
		status = fmt.Sprintf("🔴 Currently %.1f%% below all-time high", -a.CurrentDrawdown*100)
	case a.CurrentDrawdown < -0.01:
		status = "🟡 Slightly below all-time high"
	default:
		status = "🟢 Near or at all-time high"
	}

	absMax := -a.MaxDrawdown
	var risk string
	switch {
	case absMax > 0.50:
		risk = "🔴 VERY HIGH RISK - Severe historical drawdowns"
	case absMax > 0.30:
		risk = "🟡 HIGH RISK - Significant historical losses"
	case absMax > 0.20:
		risk = "🟢 MODERATE RISK - Typical market volatility"
	default:
		risk = "🟢 LOW RISK - Limited historical downside"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📉 DRAWDOWN ANALYSIS for %s\n", a.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 MAXIMUM DRAWDOWN\n")
	sb.WriteString(fmt.Sprintf("   Peak Price: $%.2f\n", a.PeakPrice))
	sb.WriteString(fmt.Sprintf("   Trough Price: $%.2f\n", a.TroughPrice))
	sb.WriteString(fmt.Sprintf("   Maximum Drawdown: %.2f%%\n", a.MaxDrawdown*100))
	sb.WriteString(fmt.Sprintf("   Date of Trough: %s\n\n", a.TroughDate))
	sb.WriteString("📊 CURRENT STATUS\n")
	sb.WriteString(fmt.Sprintf("   Current Price: $%.2f\n", a.CurrentPrice))
	sb.WriteString(fmt.Sprintf("   All-Time High: $%.2f\n", a.AllTimeHigh))
	sb.WriteString(fmt.Sprintf("   Current Drawdown: %.2f%%\n\n", a.CurrentDrawdown*100))
	sb.WriteString(fmt.Sprintf("   Status: %s\n\n", status))
	sb.WriteString("💡 INTERPRETATION\n")
	sb.WriteString(fmt.Sprintf("   %s\n\n", risk))
	sb.WriteString(fmt.Sprintf("   This stock has historically declined as much as %.1f%%\n", absMax*100))
	sb.WriteString("   from its peak. Be prepared for similar volatility.\n")
	return sb.String()
}

// --- Alerts ---

func formatAlertCheck(items []models.AlertCheckItem) string {
	var sb strings.Builder
	sb.WriteString("🔔 ALERT STATUS CHECK\n")
	sb.WriteString(rule(70) + "\n\n")

	var triggered []string
	writeGroup := func(title, kind, targetFmt string) {
		sb.WriteString(title + "\n")
		for _, item := range items {
			if item.Kind != kind {
				continue
			}
			if !item.Checked {
				sb.WriteString(fmt.Sprintf("   ⚠️ Could not check - %s\n", item.Name))
				continue
			}
			status := "🟢 Active"
			if item.Triggered {
				status = "🔴 TRIGGERED!"
				triggered = append(triggered, item.Name)
			}
			sb.WriteString(fmt.Sprintf("   %s - %s\n", status, item.Name))
			sb.WriteString(fmt.Sprintf(targetFmt, item.Target, item.AlertType, item.Current))
		}
		sb.WriteString("\n")
	}

	writeGroup("💰 PRICE ALERTS", "price", "      Target: $%.2f (%s) | Current: $%.2f\n")
	writeGroup("📊 RSI ALERTS", "rsi", "      Threshold: %.0f (%s) | Current RSI: %.2f\n")

	sb.WriteString(rule(70) + "\n")
	if len(triggered) > 0 {
		sb.WriteString(fmt.Sprintf("🚨 %d ALERT(S) TRIGGERED!\n", len(triggered)))
		for _, name := range triggered {
			sb.WriteString(fmt.Sprintf("   • %s\n", name))
		}
	} else {
		sb.WriteString("✅ No alerts triggered at this time.\n")
	}
	return sb.String()
}

func formatAlertList(book *models.AlertBook) string {
	var sb strings.Builder
	sb.WriteString("📋 ALL CONFIGURED ALERTS\n")
	sb.WriteString(rule(70) + "\n\n")

	statusEmoji := func(status string) string {
		if status == models.AlertStatusTriggered {
			return "🔴"
		}
		return "🟢"
	}

	sb.WriteString("💰 PRICE ALERTS\n")
	for _, alert := range book.PriceAlerts {
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", statusEmoji(alert.Status), alert.Name, strings.ToUpper(alert.Status)))
		sb.WriteString(fmt.Sprintf("   %s: Price %s $%.2f\n\n", alert.Symbol, alert.AlertType, alert.TargetPrice))
	}

	sb.WriteString("📊 RSI ALERTS\n")
	for _, alert := range book.RSIAlerts {
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", statusEmoji(alert.Status), alert.Name, strings.ToUpper(alert.Status)))
		sb.WriteString(fmt.Sprintf("   %s: RSI %s %.0f\n\n", alert.Symbol, alert.AlertType, alert.Threshold))
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("Total alerts: %d\n", len(book.PriceAlerts)+len(book.RSIAlerts)))
	return sb.String()
}

// --- Dividends ---

func formatDividendHistory(h *models.DividendHistory) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💰 DIVIDEND HISTORY for %s\n", h.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 SUMMARY\n")
	sb.WriteString(fmt.Sprintf("   Total Dividends Paid: $%.2f\n", h.Total))
	sb.WriteString(fmt.Sprintf("   Average Dividend: $%.2f\n", h.Average))
	sb.WriteString(fmt.Sprintf("   Last Dividend: $%.2f on %s\n", h.Last.Amount, h.Last.Date.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("   Number of Payments: %d\n\n", len(h.Payments)))

	sb.WriteString("📋 RECENT DIVIDEND PAYMENTS (Last 10)\n")
	recent := h.Payments
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		sb.WriteString(fmt.Sprintf("   %s: $%.2f\n", recent[i].Date.Format("2006-01-02"), recent[i].Amount))
	}

	sb.WriteString("\n📈 ANNUAL DIVIDEND TREND\n")
	years := make([]int, 0, len(h.AnnualTotal))
	for year := range h.AnnualTotal {
		years = append(years, year)
	}
	sort.Ints(years)
	if len(years) > 5 {
		years = years[len(years)-5:]
	}
	for _, year := range years {
		sb.WriteString(fmt.Sprintf("   %d: $%.2f\n", year, h.AnnualTotal[year]))
	}
	return sb.String()
}

func formatDividendYield(q *models.Quote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💎 DIVIDEND ANALYSIS for %s\n", q.Symbol))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 CURRENT METRICS\n")
	sb.WriteString(fmt.Sprintf("   Current Price: $%.2f\n", q.Price))
	sb.WriteString(fmt.Sprintf("   Dividend Yield: %.2f%%\n", q.DividendYield*100))
	sb.WriteString(fmt.Sprintf("   Annual Dividend Rate: $%.2f\n", q.DividendRate))
	sb.WriteString(fmt.Sprintf("   Payout Ratio: %.2f%%\n", q.PayoutRatio*100))
	sb.WriteString("\n💡 INTERPRETATION\n")

	yieldPct := q.DividendYield * 100
	switch {
	case yieldPct > 5:
		sb.WriteString("   Yield: 🟢 High yield - attractive for income investors\n")
	case yieldPct > 2:
		sb.WriteString("   Yield: 🟡 Moderate yield - decent income potential\n")
	default:
		sb.WriteString("   Yield: 🔴 Low yield - primarily a growth stock\n")
	}

	if q.PayoutRatio > 0 {
		switch {
		case q.PayoutRatio > 0.8:
			sb.WriteString("   Payout: 🔴 High payout ratio - dividend may be at risk\n")
		case q.PayoutRatio > 0.5:
			sb.WriteString("   Payout: 🟡 Moderate payout ratio - sustainable dividend\n")
		default:
			sb.WriteString("   Payout: 🟢 Low payout ratio - room for dividend growth\n")
		}
	}
	return sb.String()
}

func formatDividendIncome(income *models.DividendIncome) string {
	var sb strings.Builder
	sb.WriteString("💰 PORTFOLIO DIVIDEND INCOME\n")
	sb.WriteString(rule(70) + "\n\n")

	for _, p := range income.Positions {
		sb.WriteString(fmt.Sprintf("🏢 %s\n", p.Symbol))
		sb.WriteString(fmt.Sprintf("   Shares: %s\n", formatNumber(p.Shares)))
		sb.WriteString(fmt.Sprintf("   Dividend/Share: $%.2f\n", p.DividendRate))
		sb.WriteString(fmt.Sprintf("   Yield: %.2f%%\n", p.Yield))
		sb.WriteString(fmt.Sprintf("   Annual Income: $%.2f\n\n", p.AnnualIncome))
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("💵 Total Annual Dividend Income: $%.2f\n", income.AnnualIncome))
	sb.WriteString(fmt.Sprintf("💵 Monthly Income (estimated): $%.2f\n", income.AnnualIncome/12))
	sb.WriteString(fmt.Sprintf("💵 Quarterly Income (estimated): $%.2f\n\n", income.AnnualIncome/4))
	sb.WriteString(fmt.Sprintf("📊 Dividend-Paying Stocks: %d of %d\n", len(income.Positions), income.HoldingCount))
	return sb.String()
}

func formatHighDividendStocks(stocks []models.HighYieldStock, minYield float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💎 HIGH DIVIDEND STOCKS (Yield ≥ %s%%)\n", formatNumber(minYield)))
	sb.WriteString(rule(70) + "\n\n")

	for _, s := range stocks {
		sb.WriteString(fmt.Sprintf("🏢 %s - %s\n", s.Symbol, s.Name))
		sb.WriteString(fmt.Sprintf("   Yield: %.2f%% | Price: $%.2f\n", s.Yield, s.Price))
		sb.WriteString(fmt.Sprintf("   Sector: %s\n", s.Sector))
		sb.WriteString(fmt.Sprintf("   Payout Ratio: %.1f%%\n\n", s.PayoutRatio*100))
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("Found %d stocks matching criteria.\n", len(stocks)))
	sb.WriteString("⚠️ High yields may indicate higher risk. Always research before investing.\n")
	return sb.String()
}

// --- Sectors ---

func formatSectorAnalysis(a *models.SectorAnalysis) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 SECTOR ANALYSIS: %s\n", strings.ToUpper(a.Sector)))
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📈 SECTOR OVERVIEW\n")
	sb.WriteString(fmt.Sprintf("   Total Market Cap: $%s\n", money0(a.TotalMarketCap)))
	sb.WriteString(fmt.Sprintf("   Average 3-Month Return: %+.2f%%\n", a.AvgReturn))
	sb.WriteString(fmt.Sprintf("   Average P/E Ratio: %.2f\n", a.AvgPE))
	sb.WriteString(fmt.Sprintf("   Stocks Analyzed: %d\n\n", len(a.Stocks)))

	sb.WriteString("🏆 TOP PERFORMERS (3-Month Return)\n")
	top := a.Stocks
	if len(top) > 5 {
		top = top[:5]
	}
	for _, s := range top {
		sb.WriteString(fmt.Sprintf("   %s: %+.2f%% | $%.2f\n", s.Symbol, s.Return3Mo, s.Price))
	}

	sb.WriteString("\n📉 BOTTOM PERFORMERS (3-Month Return)\n")
	bottom := a.Stocks
	if len(bottom) > 3 {
		bottom = bottom[len(bottom)-3:]
	}
	for _, s := range bottom {
		sb.WriteString(fmt.Sprintf("   %s: %+.2f%% | $%.2f\n", s.Symbol, s.Return3Mo, s.Price))
	}

	sb.WriteString("\n💰 LARGEST BY MARKET CAP\n")
	byCap := make([]models.SectorStock, len(a.Stocks))
	copy(byCap, a.Stocks)
	sort.Slice(byCap, func(i, j int) bool { return byCap[i].MarketCap > byCap[j].MarketCap })
	if len(byCap) > 5 {
		byCap = byCap[:5]
	}
	for _, s := range byCap {
		sb.WriteString(fmt.Sprintf("   %s: $%s\n", s.Symbol, money0(s.MarketCap)))
	}

	pct := float64(a.PositiveCount) / float64(len(a.Stocks)) * 100
	var health string
	switch {
	case pct >= 70:
		health = "🟢 STRONG - Most stocks performing well"
	case pct >= 40:
		health = "🟡 MIXED - Sector showing varied performance"
	default:
		health = "🔴 WEAK - Majority of stocks underperforming"
	}
	sb.WriteString("\n🎯 SECTOR HEALTH\n")
	sb.WriteString(fmt.Sprintf("   %s\n", health))
	sb.WriteString(fmt.Sprintf("   %d/%d stocks with positive returns\n", a.PositiveCount, len(a.Stocks)))
	return sb.String()
}

var rankEmojis = []string{"🥇", "🥈", "🥉"}

func formatSectorComparison(performances []models.SectorPerformance) string {
	var sb strings.Builder
	sb.WriteString("📊 SECTOR COMPARISON (via Sector ETFs)\n")
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📈 PERFORMANCE RANKINGS (3-Month)\n\n")

	for i, p := range performances {
		emoji := "  "
		if i < len(rankEmojis) {
			emoji = rankEmojis[i]
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s (%s)\n", emoji, i+1, p.Sector, p.ETF))
		sb.WriteString(fmt.Sprintf("      1M: %+.2f%% | 3M: %+.2f%% | 1Y: %+.2f%%\n\n", p.Return1Mo, p.Return3Mo, p.Return1Yr))
	}

	best := performances[0]
	worst := performances[len(performances)-1]
	sb.WriteString(rule(70) + "\n")
	sb.WriteString(fmt.Sprintf("🏆 Best 3M: %s (%+.2f%%)\n", best.Sector, best.Return3Mo))
	sb.WriteString(fmt.Sprintf("📉 Worst 3M: %s (%+.2f%%)\n", worst.Sector, worst.Return3Mo))
	return sb.String()
}

func formatSectorLeaders(sector, metric string, leaders []models.SectorStock) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 %s SECTOR LEADERS (by %s)\n", strings.ToUpper(sector), metric))
	sb.WriteString(rule(70) + "\n\n")

	for i, s := range leaders {
		emoji := fmt.Sprintf("%2d.", i+1)
		if i < len(rankEmojis) {
			emoji = rankEmojis[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", emoji, s.Symbol, s.Name))
		sb.WriteString(fmt.Sprintf("    Price: $%.2f | P/E: %.2f\n", s.Price, s.PERatio))
		switch metric {
		case "market_cap":
			sb.WriteString(fmt.Sprintf("    Market Cap: $%s\n", money0(s.MarketCap)))
		case "volume":
			sb.WriteString(fmt.Sprintf("    Avg Volume: %s\n", commaInt(s.AvgVolume)))
		case "dividend_yield":
			sb.WriteString(fmt.Sprintf("    Dividend Yield: %.2f%%\n", s.DividendYield))
		default:
			sb.WriteString(fmt.Sprintf("    3-Month Return: %+.2f%%\n", s.Return3Mo))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatSectorAllocation(allocation *models.SectorAllocation) string {
	var sb strings.Builder
	sb.WriteString("🎯 PORTFOLIO SECTOR ALLOCATION\n")
	sb.WriteString(rule(70) + "\n\n")
	sb.WriteString("📊 ALLOCATION BY SECTOR\n\n")

	for _, w := range allocation.Weights {
		bar := strings.Repeat("█", int(w.Percentage/2))
		sb.WriteString(fmt.Sprintf("%s\n", w.Sector))
		sb.WriteString(fmt.Sprintf("   %s %.1f%%\n", bar, w.Percentage))
		sb.WriteString(fmt.Sprintf("   Value: $%s | Stocks: %s\n\n", money(w.Value), strings.Join(w.Symbols, ", ")))
	}

	sb.WriteString(rule(70) + "\n")
	sb.WriteString("📈 DIVERSIFICATION ANALYSIS\n\n")
	sb.WriteString(fmt.Sprintf("   Sectors Represented: %d\n", len(allocation.Weights)))

	top := allocation.Weights[0]
	var diversification string
	switch {
	case top.Percentage > 50:
		diversification = "🔴 LOW - Highly concentrated in one sector"
	case top.Percentage > 35:
		diversification = "🟡 MODERATE - Good diversification, slight concentration"
	default:
		diversification = "🟢 HIGH - Well diversified across sectors"
	}
	sb.WriteString(fmt.Sprintf("   Diversification: %s\n", diversification))
	sb.WriteString(fmt.Sprintf("   Largest Allocation: %s (%.1f%%)\n", top.Sector, top.Percentage))
	return sb.String()
}
