// Package sentiment aggregates market indicators into a weighted
// bearish/bullish composite score and tracks it over time.
package sentiment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/signals"
)

// Weights is the fixed indicator weight table. The composite divides by
// the sum of these weights, so adding an indicator does not change the
// -100..+100 output range.
var Weights = map[string]float64{
	models.IndicatorVIX:            2.0,
	models.IndicatorSPYTrend:       1.5,
	models.IndicatorQQQTrend:       1.5,
	models.IndicatorPutCall:        1.5,
	models.IndicatorSectorRotation: 1.5,
	models.IndicatorBreadth:        1.0,
	models.IndicatorVolume:         1.0,
	models.IndicatorAITech:         1.5,
	models.IndicatorLeverage:       1.0,
}

// HistoryLimit caps the persisted rolling history.
const HistoryLimit = 90

var (
	defensiveTickers = []string{"XLP", "XLU", "XLV"}
	growthTickers    = []string{"XLK", "XLY", "QQQ"}
	breadthSectors   = []string{"XLK", "XLF", "XLV", "XLE", "XLY", "XLP", "XLI", "XLU", "XLB"}
	aiBellwethers    = []string{"NVDA", "MSFT", "GOOGL", "META"}
)

// Service implements SentimentService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
	mu      sync.Mutex // serializes history read-modify-write
	now     func() time.Time
}

// NewService creates a sentiment service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// errorSignal folds a scorer failure into a zero-score signal so one
// broken indicator cannot abort the whole aggregation.
func errorSignal(err error) models.IndicatorSignal {
	return models.IndicatorSignal{
		Score: 0,
		Label: fmt.Sprintf("Error: %v", err),
		Value: err.Error(),
	}
}

// VIXSignal scores the latest VIX close on the fear/complacency scale.
func (s *Service) VIXSignal(ctx context.Context) models.IndicatorSignal {
	bars, err := s.client.GetHistory(ctx, "^VIX", "5d")
	if err != nil {
		return errorSignal(err)
	}
	if len(bars) == 0 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "0.00"}
	}

	vix := models.LatestClose(bars)

	var score float64
	var label string
	switch {
	case vix < 12:
		score, label = 10, "🟢 VERY BULLISH (Complacency)"
	case vix < 15:
		score, label = 5, "🟢 BULLISH (Low Fear)"
	case vix < 20:
		score, label = 0, "🟡 NEUTRAL (Normal)"
	case vix < 25:
		score, label = -5, "🟠 BEARISH (Elevated)"
	case vix < 30:
		score, label = -8, "🔴 BEARISH (High Fear)"
	default:
		score, label = -10, "🔴 VERY BEARISH (Panic)"
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: fmt.Sprintf("%.2f", vix),
		Raw:   vix,
	}
}

// IndexTrendSignal scores an index's distance from its simple moving
// average. SPY is checked against the 200-day, QQQ against the 50-day.
func (s *Service) IndexTrendSignal(ctx context.Context, symbol string, window int) models.IndicatorSignal {
	bars, err := s.client.GetHistory(ctx, symbol, "1y")
	if err != nil {
		return errorSignal(err)
	}
	if len(bars) < window {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: fmt.Sprintf("+0.0%% vs SMA%d", window)}
	}

	sma := signals.SMA(bars, window)
	diff := ((models.LatestClose(bars) - sma) / sma) * 100

	var score float64
	var label string
	switch {
	case diff > 8:
		score, label = 10, "🟢 STRONG UPTREND"
	case diff > 3:
		score, label = 5, "🟢 UPTREND"
	case diff > -3:
		score, label = 0, "🟡 NEUTRAL"
	case diff > -8:
		score, label = -5, "🔴 DOWNTREND"
	default:
		score, label = -10, "🔴 STRONG DOWNTREND"
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: fmt.Sprintf("%+.1f%% vs SMA%d", diff, window),
		Raw:   diff,
	}
}

// PutCallSignal estimates hedging demand from the current VIX relative
// to its one-month average. Direct put/call data is not available from
// the provider, so elevated VIX stands in for elevated put buying.
func (s *Service) PutCallSignal(ctx context.Context) models.IndicatorSignal {
	vixBars, err := s.client.GetHistory(ctx, "^VIX", "1mo")
	if err != nil {
		return errorSignal(err)
	}
	spyBars, err := s.client.GetHistory(ctx, "SPY", "1mo")
	if err != nil {
		return errorSignal(err)
	}
	if len(vixBars) == 0 || len(spyBars) == 0 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "0.00"}
	}

	currentVIX := models.LatestClose(vixBars)
	avgVIX := signals.Mean(signals.Closes(vixBars))
	ratio := currentVIX / avgVIX

	var score float64
	var label string
	switch {
	case ratio < 0.8:
		score, label = 8, "🟢 BULLISH (Low hedging)"
	case ratio < 1.0:
		score, label = 3, "🟢 SLIGHTLY BULLISH"
	case ratio < 1.2:
		score, label = 0, "🟡 NEUTRAL"
	case ratio < 1.4:
		score, label = -5, "🔴 BEARISH (High hedging)"
	default:
		score, label = -8, "🔴 VERY BEARISH (Heavy hedging)"
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: fmt.Sprintf("%.2f", ratio),
		Raw:   ratio,
	}
}

// groupPerformance averages each member's 20-session return, skipping
// members with too little history or a failed fetch.
func (s *Service) groupPerformance(ctx context.Context, tickers []string) []float64 {
	var perfs []float64
	for _, ticker := range tickers {
		bars, err := s.client.GetHistory(ctx, ticker, "2mo")
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Skipping group member")
			continue
		}
		if len(bars) < 20 {
			continue
		}
		start := bars[len(bars)-20].Close
		perfs = append(perfs, ((models.LatestClose(bars)-start)/start)*100)
	}
	return perfs
}

// SectorRotationSignal compares growth sector performance to defensive
// sector performance over the last 20 sessions.
func (s *Service) SectorRotationSignal(ctx context.Context) models.IndicatorSignal {
	defensive := s.groupPerformance(ctx, defensiveTickers)
	growth := s.groupPerformance(ctx, growthTickers)

	if len(defensive) == 0 || len(growth) == 0 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "Insufficient data"}
	}

	avgDefensive := signals.Mean(defensive)
	avgGrowth := signals.Mean(growth)
	rotation := avgGrowth - avgDefensive

	var score float64
	var label, detail string
	switch {
	case rotation > 3:
		score, label = 8, "🟢 BULLISH (Growth leading)"
		detail = fmt.Sprintf("Growth +%.1f%% vs Defensive +%.1f%%", avgGrowth, avgDefensive)
	case rotation > 1:
		score, label = 3, "🟢 SLIGHTLY BULLISH"
		detail = fmt.Sprintf("Growth +%.1f%% vs Defensive +%.1f%%", avgGrowth, avgDefensive)
	case rotation > -1:
		score, label = 0, "🟡 NEUTRAL (Mixed)"
		detail = fmt.Sprintf("Growth %+.1f%% vs Defensive %+.1f%%", avgGrowth, avgDefensive)
	case rotation > -3:
		score, label = -5, "🔴 BEARISH (Defensive leading)"
		detail = fmt.Sprintf("Defensive %+.1f%% vs Growth %+.1f%%", avgDefensive, avgGrowth)
	default:
		score, label = -8, "🔴 VERY BEARISH (Flight to safety)"
		detail = fmt.Sprintf("Defensive %+.1f%% vs Growth %+.1f%%", avgDefensive, avgGrowth)
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: detail,
		Raw:   rotation,
	}
}

// BreadthSignal measures the share of major sector ETFs that are
// positive over the last 20 sessions.
func (s *Service) BreadthSignal(ctx context.Context) models.IndicatorSignal {
	positive := 0
	total := 0
	for _, ticker := range breadthSectors {
		bars, err := s.client.GetHistory(ctx, ticker, "2mo")
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Skipping breadth sector")
			continue
		}
		if len(bars) <= 20 {
			continue
		}
		total++
		if models.LatestClose(bars) > bars[len(bars)-20].Close {
			positive++
		}
	}

	if total == 0 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "0% sectors positive"}
	}

	pct := (float64(positive) / float64(total)) * 100

	var score float64
	var label string
	switch {
	case pct >= 80:
		score, label = 10, "🟢 EXCELLENT (Strong participation)"
	case pct >= 60:
		score, label = 5, "🟢 GOOD (Healthy participation)"
	case pct >= 40:
		score, label = 0, "🟡 NEUTRAL (Mixed)"
	case pct >= 25:
		score, label = -5, "🔴 POOR (Weak participation)"
	default:
		score, label = -10, "🔴 VERY POOR (Narrow market)"
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: fmt.Sprintf("%.0f%% sectors positive", pct),
		Raw:   pct,
	}
}

// VolumeSignal compares average volume on up days to down days for SPY.
func (s *Service) VolumeSignal(ctx context.Context) models.IndicatorSignal {
	bars, err := s.client.GetHistory(ctx, "SPY", "1mo")
	if err != nil {
		return errorSignal(err)
	}
	if len(bars) < 10 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "Insufficient data"}
	}

	var upVolumes, downVolumes []float64
	for _, bar := range bars {
		switch {
		case bar.Close > bar.Open:
			upVolumes = append(upVolumes, float64(bar.Volume))
		case bar.Close < bar.Open:
			downVolumes = append(downVolumes, float64(bar.Volume))
		}
	}
	if len(upVolumes) == 0 || len(downVolumes) == 0 {
		return models.IndicatorSignal{Score: 0, Label: "🟡 NEUTRAL", Value: "Mixed signals"}
	}

	ratio := signals.Mean(upVolumes) / signals.Mean(downVolumes)

	var score float64
	var label, detail string
	switch {
	case ratio > 1.3:
		score, label = 8, "🟢 BULLISH (Buying pressure)"
		detail = fmt.Sprintf("Up-day volume %.1fx down-day", ratio)
	case ratio > 1.1:
		score, label = 3, "🟢 SLIGHTLY BULLISH"
		detail = fmt.Sprintf("Up-day volume %.1fx down-day", ratio)
	case ratio > 0.9:
		score, label = 0, "🟡 NEUTRAL"
		detail = fmt.Sprintf("Volume ratio: %.1f", ratio)
	case ratio > 0.7:
		score, label = -5, "🔴 BEARISH (Selling pressure)"
		detail = fmt.Sprintf("Down-day volume %.1fx up-day", 1/ratio)
	default:
		score, label = -8, "🔴 VERY BEARISH (Heavy selling)"
		detail = fmt.Sprintf("Down-day volume %.1fx up-day", 1/ratio)
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: detail,
		Raw:   ratio,
	}
}

// AITechSignal measures tech leadership: QQQ's three-month performance
// against SPY, cross-checked with a basket of AI bellwether stocks.
func (s *Service) AITechSignal(ctx context.Context) models.IndicatorSignal {
	qqqBars, err := s.client.GetHistory(ctx, "QQQ", "3mo")
	if err != nil {
		return errorSignal(err)
	}
	spyBars, err := s.client.GetHistory(ctx, "SPY", "3mo")
	if err != nil {
		return errorSignal(err)
	}
	if len(qqqBars) == 0 || len(spyBars) == 0 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "Insufficient data"}
	}

	outperformance := models.PeriodReturn(qqqBars) - models.PeriodReturn(spyBars)

	var aiPerfs []float64
	for _, ticker := range aiBellwethers {
		bars, err := s.client.GetHistory(ctx, ticker, "1mo")
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Skipping AI bellwether")
			continue
		}
		if len(bars) > 5 {
			aiPerfs = append(aiPerfs, models.PeriodReturn(bars))
		}
	}
	avgAI := 0.0
	if len(aiPerfs) > 0 {
		avgAI = signals.Mean(aiPerfs)
	}

	var score float64
	var label, detail string
	switch {
	case outperformance > 5 && avgAI > 5:
		score, label = 10, "🟢 VERY BULLISH (AI/Tech leading)"
		detail = fmt.Sprintf("QQQ outperforming by %.1f%%, AI stocks +%.1f%%", outperformance, avgAI)
	case outperformance > 2:
		score, label = 5, "🟢 BULLISH (Tech strength)"
		detail = fmt.Sprintf("QQQ +%.1f%% vs SPY", outperformance)
	case outperformance > -2:
		score, label = 0, "🟡 NEUTRAL"
		detail = fmt.Sprintf("QQQ %+.1f%% vs SPY", outperformance)
	case outperformance > -5:
		score, label = -5, "🔴 BEARISH (Tech weakness)"
		detail = fmt.Sprintf("QQQ underperforming by %.1f%%", -outperformance)
	default:
		score, label = -10, "🔴 VERY BEARISH (Tech selling)"
		detail = fmt.Sprintf("QQQ underperforming by %.1f%%, AI stocks %+.1f%%", -outperformance, avgAI)
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: detail,
		Raw:   outperformance,
	}
}

// LeverageSignal estimates market stress from SPY's recent volatility
// relative to its three-month baseline. A spike suggests deleveraging.
func (s *Service) LeverageSignal(ctx context.Context) models.IndicatorSignal {
	bars, err := s.client.GetHistory(ctx, "SPY", "3mo")
	if err != nil {
		return errorSignal(err)
	}
	if len(bars) < 30 {
		return models.IndicatorSignal{Score: 0, Label: "N/A", Value: "Insufficient data"}
	}

	returns := signals.Returns(signals.Closes(bars))
	recent := returns[len(returns)-20:]
	recentVol := signals.StdDev(recent) * 100
	historicalVol := signals.StdDev(returns) * 100
	ratio := recentVol / historicalVol

	var score float64
	var label, detail string
	switch {
	case ratio > 1.5:
		score, label = -10, "🔴 HIGH STRESS (Deleveraging)"
		detail = fmt.Sprintf("Volatility %.1fx normal", ratio)
	case ratio > 1.2:
		score, label = -5, "🔴 ELEVATED (Unwinding)"
		detail = fmt.Sprintf("Volatility %.1fx normal", ratio)
	case ratio > 0.8:
		score, label = 0, "🟡 NORMAL"
		detail = fmt.Sprintf("Volatility at %.1fx normal", ratio)
	case ratio > 0.6:
		score, label = 5, "🟢 LOW (Stable)"
		detail = fmt.Sprintf("Volatility %.1fx normal", ratio)
	default:
		score, label = 8, "🟢 VERY LOW (Complacent)"
		detail = fmt.Sprintf("Volatility %.1fx normal", ratio)
	}

	return models.IndicatorSignal{
		Score: score,
		Label: label,
		Value: detail,
		Raw:   ratio,
	}
}

// Aggregate computes all nine signals concurrently and folds them into
// the normalized composite. Individual indicator failures degrade to
// zero-score signals rather than failing the aggregation.
func (s *Service) Aggregate(ctx context.Context) (*models.SentimentResult, error) {
	scorers := map[string]func(context.Context) models.IndicatorSignal{
		models.IndicatorVIX: s.VIXSignal,
		models.IndicatorSPYTrend: func(ctx context.Context) models.IndicatorSignal {
			return s.IndexTrendSignal(ctx, "SPY", 200)
		},
		models.IndicatorQQQTrend: func(ctx context.Context) models.IndicatorSignal {
			return s.IndexTrendSignal(ctx, "QQQ", 50)
		},
		models.IndicatorPutCall:        s.PutCallSignal,
		models.IndicatorSectorRotation: s.SectorRotationSignal,
		models.IndicatorBreadth:        s.BreadthSignal,
		models.IndicatorVolume:         s.VolumeSignal,
		models.IndicatorAITech:         s.AITechSignal,
		models.IndicatorLeverage:       s.LeverageSignal,
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]models.IndicatorSignal, len(scorers))
	)
	for key, scorer := range scorers {
		wg.Add(1)
		go func(key string, scorer func(context.Context) models.IndicatorSignal) {
			defer wg.Done()
			signal := scorer(ctx)
			signal.Weight = Weights[key]
			mu.Lock()
			results[key] = signal
			mu.Unlock()
		}(key, scorer)
	}
	wg.Wait()

	var totalWeighted, totalWeight float64
	for _, signal := range results {
		totalWeighted += signal.Contribution()
		totalWeight += signal.Weight
	}
	score := (totalWeighted / totalWeight) * 10

	classification, recommendation := Classify(score)

	s.logger.Info().
		Float64("score", score).
		Str("classification", classification).
		Msg("Sentiment aggregated")

	return &models.SentimentResult{
		Score:          score,
		Classification: classification,
		Recommendation: recommendation,
		Signals:        results,
		Timestamp:      s.now(),
	}, nil
}

// Classify maps a composite score onto its band and recommendation.
// Band edges belong to the band above them.
func Classify(score float64) (classification, recommendation string) {
	switch {
	case score < -60:
		return "🔴 EXTREMELY BEARISH",
			"High risk environment. Consider: 40-50% cash, defensive sectors, hedges, reduce growth exposure."
	case score < -20:
		return "🔴 BEARISH",
			"Caution warranted. Consider: 20-30% cash, increase defensive allocation, selective hedges."
	case score < 20:
		return "🟡 NEUTRAL",
			"Mixed signals. Balanced approach: maintain diversification, selective opportunities."
	case score < 60:
		return "🟢 BULLISH",
			"Positive environment. Consider: full equity exposure, favor growth sectors, maintain stops."
	default:
		return "🟢 EXTREMELY BULLISH",
			"Strong momentum. Full participation warranted, but watch for overheating signals."
	}
}

// RecordScore appends a day's summary to the rolling history and trims
// it to the most recent entries. Duplicate dates are kept; re-running
// the aggregation on the same day appends a second entry.
func (s *Service) RecordScore(ctx context.Context, date string, score float64, classification string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := s.storage.SentimentStorage()
	history, err := store.GetHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sentiment history: %w", err)
	}

	history.DailyScores = append(history.DailyScores, models.SentimentHistoryEntry{
		Date:           date,
		Score:          score,
		Classification: classification,
	})
	if len(history.DailyScores) > HistoryLimit {
		history.DailyScores = history.DailyScores[len(history.DailyScores)-HistoryLimit:]
	}

	return store.SaveHistory(ctx, history)
}

// ReadHistory returns the most recent entries, at most days of them,
// oldest first.
func (s *Service) ReadHistory(ctx context.Context, days int) ([]models.SentimentHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.storage.SentimentStorage().GetHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment history: %w", err)
	}

	entries := history.DailyScores
	if days > 0 && len(entries) > days {
		entries = entries[len(entries)-days:]
	}
	return entries, nil
}

// Ensure Service implements SentimentService
var _ interfaces.SentimentService = (*Service)(nil)
