package sentiment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/storage"
)

// --- Mocks ---

type mockClient struct {
	histories map[string][]models.Bar
	errs      map[string]error
}

func newMockClient() *mockClient {
	return &mockClient{
		histories: map[string][]models.Bar{},
		errs:      map[string]error{},
	}
}

func (m *mockClient) key(symbol, period string) string {
	return symbol + "|" + period
}

func (m *mockClient) setHistory(symbol, period string, bars []models.Bar) {
	m.histories[m.key(symbol, period)] = bars
}

func (m *mockClient) GetHistory(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	if err, ok := m.errs[m.key(symbol, period)]; ok {
		return nil, err
	}
	return m.histories[m.key(symbol, period)], nil
}

func (m *mockClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, errors.New("not implemented")
}

func (m *mockClient) GetDividends(ctx context.Context, symbol, period string) ([]models.Dividend, error) {
	return nil, nil
}

func barsWithCloses(closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Close: c}
	}
	return bars
}

func flatBars(n int, close float64) []models.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = close
	}
	return barsWithCloses(closes...)
}

func newTestService(t *testing.T, client *mockClient) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := storage.NewManager(logger, &common.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return NewService(client, store, logger)
}

// --- Scorer tests ---

func TestVIXSignal(t *testing.T) {
	tests := []struct {
		vix   float64
		score float64
		label string
	}{
		{11.99, 10, "🟢 VERY BULLISH (Complacency)"},
		{12.0, 5, "🟢 BULLISH (Low Fear)"},
		{14.99, 5, "🟢 BULLISH (Low Fear)"},
		{15.0, 0, "🟡 NEUTRAL (Normal)"},
		{19.99, 0, "🟡 NEUTRAL (Normal)"},
		{20.0, -5, "🟠 BEARISH (Elevated)"},
		{25.0, -8, "🔴 BEARISH (High Fear)"},
		{30.0, -10, "🔴 VERY BEARISH (Panic)"},
		{45.0, -10, "🔴 VERY BEARISH (Panic)"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("vix_%.2f", tt.vix), func(t *testing.T) {
			client := newMockClient()
			client.setHistory("^VIX", "5d", barsWithCloses(18, tt.vix))
			svc := newTestService(t, client)

			signal := svc.VIXSignal(context.Background())
			assert.Equal(t, tt.score, signal.Score)
			assert.Equal(t, tt.label, signal.Label)
			assert.Equal(t, tt.vix, signal.Raw)
		})
	}

	t.Run("empty history", func(t *testing.T) {
		svc := newTestService(t, newMockClient())
		signal := svc.VIXSignal(context.Background())
		assert.Equal(t, 0.0, signal.Score)
		assert.Equal(t, "N/A", signal.Label)
	})

	t.Run("fetch error degrades to zero score", func(t *testing.T) {
		client := newMockClient()
		client.errs[client.key("^VIX", "5d")] = errors.New("upstream down")
		svc := newTestService(t, client)

		signal := svc.VIXSignal(context.Background())
		assert.Equal(t, 0.0, signal.Score)
		assert.Contains(t, signal.Label, "Error: upstream down")
	})
}

func TestIndexTrendSignal(t *testing.T) {
	// 49 flat bars plus one final bar whose close sets the SMA distance
	makeBars := func(last float64) []models.Bar {
		bars := flatBars(49, 100)
		return append(bars, models.Bar{Close: last})
	}

	tests := []struct {
		name  string
		last  float64
		score float64
		label string
	}{
		{"strong uptrend", 110, 10, "🟢 STRONG UPTREND"},     // +9.8% vs SMA
		{"uptrend", 105, 5, "🟢 UPTREND"},                    // +4.9%
		{"neutral", 100, 0, "🟡 NEUTRAL"},                    // 0%
		{"downtrend", 95, -5, "🔴 DOWNTREND"},                // -4.9%
		{"strong downtrend", 90, -10, "🔴 STRONG DOWNTREND"}, // -9.8%
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			client.setHistory("QQQ", "1y", makeBars(tt.last))
			svc := newTestService(t, client)

			signal := svc.IndexTrendSignal(context.Background(), "QQQ", 50)
			assert.Equal(t, tt.score, signal.Score)
			assert.Equal(t, tt.label, signal.Label)
			assert.Contains(t, signal.Value, "vs SMA50")
		})
	}

	t.Run("insufficient history", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("SPY", "1y", flatBars(199, 100))
		svc := newTestService(t, client)

		signal := svc.IndexTrendSignal(context.Background(), "SPY", 200)
		assert.Equal(t, 0.0, signal.Score)
		assert.Equal(t, "N/A", signal.Label)
		assert.Equal(t, "+0.0% vs SMA200", signal.Value)
	})
}

func TestPutCallSignal(t *testing.T) {
	tests := []struct {
		name  string
		vix   []float64
		score float64
	}{
		{"low hedging", []float64{20, 20, 20, 14}, 8},      // ratio 0.757
		{"slightly bullish", []float64{20, 20, 20, 19}, 3}, // ratio 0.962
		{"neutral", []float64{20, 20, 20, 21}, 0},          // ratio 1.037
		{"high hedging", []float64{20, 20, 20, 26}, -5},    // ratio 1.209
		{"heavy hedging", []float64{20, 20, 20, 35}, -8},   // ratio 1.474
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			client.setHistory("^VIX", "1mo", barsWithCloses(tt.vix...))
			client.setHistory("SPY", "1mo", flatBars(20, 500))
			svc := newTestService(t, client)

			signal := svc.PutCallSignal(context.Background())
			assert.Equal(t, tt.score, signal.Score)
		})
	}

	t.Run("missing SPY data", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("^VIX", "1mo", barsWithCloses(20, 21))
		svc := newTestService(t, client)

		signal := svc.PutCallSignal(context.Background())
		assert.Equal(t, "N/A", signal.Label)
	})
}

// trendingBars builds n bars moving linearly from start to end.
func trendingBars(n int, start, end float64) []models.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + (end-start)*float64(i)/float64(n-1)
	}
	return barsWithCloses(closes...)
}

func TestSectorRotationSignal(t *testing.T) {
	t.Run("growth leading", func(t *testing.T) {
		client := newMockClient()
		for _, ticker := range []string{"XLP", "XLU", "XLV"} {
			client.setHistory(ticker, "2mo", trendingBars(25, 100, 101))
		}
		for _, ticker := range []string{"XLK", "XLY", "QQQ"} {
			client.setHistory(ticker, "2mo", trendingBars(25, 100, 106))
		}
		svc := newTestService(t, client)

		signal := svc.SectorRotationSignal(context.Background())
		assert.Equal(t, 8.0, signal.Score)
		assert.Equal(t, "🟢 BULLISH (Growth leading)", signal.Label)
		assert.Contains(t, signal.Value, "Growth +")
		assert.Contains(t, signal.Value, "vs Defensive +")
	})

	t.Run("flight to safety", func(t *testing.T) {
		client := newMockClient()
		for _, ticker := range []string{"XLP", "XLU", "XLV"} {
			client.setHistory(ticker, "2mo", trendingBars(25, 100, 104))
		}
		for _, ticker := range []string{"XLK", "XLY", "QQQ"} {
			client.setHistory(ticker, "2mo", trendingBars(25, 100, 96))
		}
		svc := newTestService(t, client)

		signal := svc.SectorRotationSignal(context.Background())
		assert.Equal(t, -8.0, signal.Score)
		assert.Equal(t, "🔴 VERY BEARISH (Flight to safety)", signal.Label)
	})

	t.Run("insufficient data", func(t *testing.T) {
		svc := newTestService(t, newMockClient())
		signal := svc.SectorRotationSignal(context.Background())
		assert.Equal(t, 0.0, signal.Score)
		assert.Equal(t, "N/A", signal.Label)
		assert.Equal(t, "Insufficient data", signal.Value)
	})
}

func TestBreadthSignal(t *testing.T) {
	sectors := []string{"XLK", "XLF", "XLV", "XLE", "XLY", "XLP", "XLI", "XLU", "XLB"}

	t.Run("strong participation", func(t *testing.T) {
		client := newMockClient()
		for i, ticker := range sectors {
			if i < 8 {
				client.setHistory(ticker, "2mo", trendingBars(25, 100, 105))
			} else {
				client.setHistory(ticker, "2mo", trendingBars(25, 100, 95))
			}
		}
		svc := newTestService(t, client)

		signal := svc.BreadthSignal(context.Background())
		assert.Equal(t, 10.0, signal.Score) // 8/9 = 88.9%
		assert.Equal(t, "89% sectors positive", signal.Value)
	})

	t.Run("narrow market", func(t *testing.T) {
		client := newMockClient()
		for i, ticker := range sectors {
			if i < 1 {
				client.setHistory(ticker, "2mo", trendingBars(25, 100, 105))
			} else {
				client.setHistory(ticker, "2mo", trendingBars(25, 100, 95))
			}
		}
		svc := newTestService(t, client)

		signal := svc.BreadthSignal(context.Background())
		assert.Equal(t, -10.0, signal.Score) // 1/9 = 11.1%
	})

	t.Run("no sectors counted", func(t *testing.T) {
		svc := newTestService(t, newMockClient())
		signal := svc.BreadthSignal(context.Background())
		assert.Equal(t, "N/A", signal.Label)
	})
}

func TestVolumeSignal(t *testing.T) {
	makeBars := func(upVolume, downVolume int64) []models.Bar {
		var bars []models.Bar
		for i := 0; i < 6; i++ {
			bars = append(bars, models.Bar{Open: 100, Close: 101, Volume: upVolume})
			bars = append(bars, models.Bar{Open: 100, Close: 99, Volume: downVolume})
		}
		return bars
	}

	t.Run("buying pressure", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("SPY", "1mo", makeBars(1400, 1000))
		svc := newTestService(t, client)

		signal := svc.VolumeSignal(context.Background())
		assert.Equal(t, 8.0, signal.Score)
		assert.Contains(t, signal.Value, "Up-day volume 1.4x down-day")
	})

	t.Run("heavy selling", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("SPY", "1mo", makeBars(1000, 2000))
		svc := newTestService(t, client)

		signal := svc.VolumeSignal(context.Background())
		assert.Equal(t, -8.0, signal.Score)
		assert.Contains(t, signal.Value, "Down-day volume 2.0x up-day")
	})

	t.Run("too little history", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("SPY", "1mo", flatBars(5, 100))
		svc := newTestService(t, client)

		signal := svc.VolumeSignal(context.Background())
		assert.Equal(t, "N/A", signal.Label)
		assert.Equal(t, "Insufficient data", signal.Value)
	})

	t.Run("no decisive days", func(t *testing.T) {
		client := newMockClient()
		bars := make([]models.Bar, 12)
		for i := range bars {
			bars[i] = models.Bar{Open: 100, Close: 100, Volume: 1000}
		}
		client.setHistory("SPY", "1mo", bars)
		svc := newTestService(t, client)

		signal := svc.VolumeSignal(context.Background())
		assert.Equal(t, 0.0, signal.Score)
		assert.Equal(t, "🟡 NEUTRAL", signal.Label)
		assert.Equal(t, "Mixed signals", signal.Value)
	})
}

func TestAITechSignal(t *testing.T) {
	t.Run("ai tech leading", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("QQQ", "3mo", trendingBars(60, 100, 110))
		client.setHistory("SPY", "3mo", trendingBars(60, 100, 102))
		for _, ticker := range []string{"NVDA", "MSFT", "GOOGL", "META"} {
			client.setHistory(ticker, "1mo", trendingBars(20, 100, 108))
		}
		svc := newTestService(t, client)

		signal := svc.AITechSignal(context.Background())
		assert.Equal(t, 10.0, signal.Score)
		assert.Contains(t, signal.Value, "QQQ outperforming by 8.0%")
		assert.Contains(t, signal.Value, "AI stocks +8.0%")
	})

	t.Run("tech selling", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("QQQ", "3mo", trendingBars(60, 100, 92))
		client.setHistory("SPY", "3mo", trendingBars(60, 100, 100))
		svc := newTestService(t, client)

		signal := svc.AITechSignal(context.Background())
		assert.Equal(t, -10.0, signal.Score)
		assert.Contains(t, signal.Value, "QQQ underperforming by 8.0%")
	})

	t.Run("empty basket defaults to zero", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("QQQ", "3mo", trendingBars(60, 100, 110))
		client.setHistory("SPY", "3mo", trendingBars(60, 100, 102))
		svc := newTestService(t, client)

		// Outperformance is 8% but with no AI data the top band needs
		// avg_ai > 5, so this lands on plain tech strength
		signal := svc.AITechSignal(context.Background())
		assert.Equal(t, 5.0, signal.Score)
		assert.Equal(t, "🟢 BULLISH (Tech strength)", signal.Label)
	})
}

func TestLeverageSignal(t *testing.T) {
	t.Run("high stress", func(t *testing.T) {
		// Calm first 40 sessions, violent last 20
		closes := make([]float64, 60)
		for i := range closes {
			switch {
			case i < 40:
				closes[i] = 100
			case i%2 == 0:
				closes[i] = 105
			default:
				closes[i] = 95
			}
		}
		client := newMockClient()
		client.setHistory("SPY", "3mo", barsWithCloses(closes...))
		svc := newTestService(t, client)

		signal := svc.LeverageSignal(context.Background())
		assert.Equal(t, -10.0, signal.Score)
		assert.Equal(t, "🔴 HIGH STRESS (Deleveraging)", signal.Label)
	})

	t.Run("insufficient history", func(t *testing.T) {
		client := newMockClient()
		client.setHistory("SPY", "3mo", flatBars(29, 100))
		svc := newTestService(t, client)

		signal := svc.LeverageSignal(context.Background())
		assert.Equal(t, "N/A", signal.Label)
	})
}

// --- Aggregation tests ---

func TestClassify(t *testing.T) {
	tests := []struct {
		score          float64
		classification string
	}{
		{-75.0, "🔴 EXTREMELY BEARISH"},
		{-60.0, "🔴 BEARISH"}, // band edges belong to the band above
		{-20.0, "🟡 NEUTRAL"},
		{0.0, "🟡 NEUTRAL"},
		{20.0, "🟢 BULLISH"},
		{26.9, "🟢 BULLISH"},
		{60.0, "🟢 EXTREMELY BULLISH"},
		{88.0, "🟢 EXTREMELY BULLISH"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%.1f", tt.score), func(t *testing.T) {
			classification, recommendation := Classify(tt.score)
			assert.Equal(t, tt.classification, classification)
			assert.NotEmpty(t, recommendation)
		})
	}
}

func TestAggregateAllIndicatorsFailing(t *testing.T) {
	// No data at all: every scorer degrades to zero, composite is zero
	svc := newTestService(t, newMockClient())

	result, err := svc.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, "🟡 NEUTRAL", result.Classification)
	require.Len(t, result.Signals, 9)

	var totalWeight float64
	for key, signal := range result.Signals {
		assert.Equal(t, Weights[key], signal.Weight)
		totalWeight += signal.Weight
	}
	assert.InDelta(t, 13.0, totalWeight, 1e-9)
}

func TestAggregateWeightedComposite(t *testing.T) {
	// Complacent VIX with everything else missing: only the VIX scorer
	// contributes, so the composite is 10*2.0/13*10 = 15.38
	client := newMockClient()
	client.setHistory("^VIX", "5d", barsWithCloses(11, 11))
	svc := newTestService(t, client)

	result, err := svc.Aggregate(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 15.38, result.Score, 0.01)
	assert.Equal(t, "🟡 NEUTRAL", result.Classification)
	assert.Equal(t, 10.0, result.Signals[models.IndicatorVIX].Score)
}

// --- History tests ---

func TestRecordScoreCapsHistory(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	for i := 0; i < 95; i++ {
		date := fmt.Sprintf("2026-%02d-%02d", 1+i/28, 1+i%28)
		require.NoError(t, svc.RecordScore(ctx, date, float64(i), "🟡 NEUTRAL"))
	}

	entries, err := svc.ReadHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, HistoryLimit)

	// Oldest five entries were dropped; order is preserved
	assert.Equal(t, 5.0, entries[0].Score)
	assert.Equal(t, 94.0, entries[len(entries)-1].Score)
}

func TestRecordScoreKeepsDuplicateDates(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	require.NoError(t, svc.RecordScore(ctx, "2026-08-28", 10.0, "🟡 NEUTRAL"))
	require.NoError(t, svc.RecordScore(ctx, "2026-08-28", 25.0, "🟢 BULLISH"))

	entries, err := svc.ReadHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].Date, entries[1].Date)
}

func TestReadHistoryWindow(t *testing.T) {
	svc := newTestService(t, newMockClient())
	ctx := context.Background()

	require.NoError(t, svc.RecordScore(ctx, "2026-08-25", 10.0, "🟡 NEUTRAL"))
	require.NoError(t, svc.RecordScore(ctx, "2026-08-26", 5.0, "🟡 NEUTRAL"))
	require.NoError(t, svc.RecordScore(ctx, "2026-08-27", -40.0, "🔴 BEARISH"))

	entries, err := svc.ReadHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 5.0, entries[0].Score)
	assert.Equal(t, -40.0, entries[1].Score)
}
