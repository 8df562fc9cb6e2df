package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

func barsFromCloses(closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Close: c}
	}
	return bars
}

func TestSMA(t *testing.T) {
	bars := barsFromCloses(1, 2, 3, 4, 5)

	assert.InDelta(t, 4.0, SMA(bars, 3), 1e-9) // (3+4+5)/3
	assert.InDelta(t, 3.0, SMA(bars, 5), 1e-9)
	assert.Equal(t, 0.0, SMA(bars, 6), "insufficient bars")
	assert.Equal(t, 0.0, SMA(nil, 3))
}

func TestEMASeries(t *testing.T) {
	values := []float64{10, 11, 12}
	ema := EMASeries(values, 3)
	require.Len(t, ema, 3)

	// alpha = 0.5: 10, 10.5, 11.25
	assert.InDelta(t, 10.0, ema[0], 1e-9)
	assert.InDelta(t, 10.5, ema[1], 1e-9)
	assert.InDelta(t, 11.25, ema[2], 1e-9)

	assert.Nil(t, EMASeries(nil, 3))
}

func TestMACDSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	macd, signal := MACDSeries(closes, 12, 26, 9)
	require.Len(t, macd, 60)
	require.Len(t, signal, 60)

	// A steady uptrend keeps the fast EMA above the slow EMA, and the
	// signal line approaches the MACD line from below
	assert.Greater(t, macd[59], 0.0)
	assert.Greater(t, macd[59], signal[59])
}

func TestRSISeries(t *testing.T) {
	t.Run("all gains reads 100", func(t *testing.T) {
		closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
		rsi := RSISeries(closes, 14)
		require.Len(t, rsi, 16)
		assert.True(t, math.IsNaN(rsi[13]), "window not yet filled")
		assert.InDelta(t, 100.0, rsi[14], 1e-9)
		assert.InDelta(t, 100.0, rsi[15], 1e-9)
	})

	t.Run("alternating series is balanced", func(t *testing.T) {
		closes := make([]float64, 20)
		for i := range closes {
			if i%2 == 0 {
				closes[i] = 100
			} else {
				closes[i] = 101
			}
		}
		rsi := RSISeries(closes, 14)
		// Equal average gains and losses puts RSI at 50
		assert.InDelta(t, 50.0, rsi[len(rsi)-1], 1.0)
	})

	t.Run("insufficient data", func(t *testing.T) {
		rsi := RSISeries([]float64{1, 2, 3}, 14)
		for _, v := range rsi {
			assert.True(t, math.IsNaN(v))
		}
	})
}

func TestReturns(t *testing.T) {
	returns := Returns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)

	assert.Nil(t, Returns([]float64{100}))
}

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(values), 1e-9)
	// Sample standard deviation with n-1 denominator
	assert.InDelta(t, 2.13809, StdDev(values), 1e-4)

	assert.Equal(t, 0.0, StdDev([]float64{1}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestCovarianceAndCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}

	// b = 2a, so correlation is exactly 1 and cov = 2*var(a)
	assert.InDelta(t, 5.0, Covariance(a, b), 1e-9)
	assert.InDelta(t, 1.0, Correlation(a, b), 1e-9)

	c := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, Correlation(a, c), 1e-9)

	assert.Equal(t, 0.0, Covariance(a, []float64{1, 2}))
}

func TestPercentile(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}

	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 3.0, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 5.0, Percentile(values, 100), 1e-9)
	assert.InDelta(t, 1.2, Percentile(values, 5), 1e-9)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestMeanVolume(t *testing.T) {
	bars := []models.Bar{
		{Volume: 100},
		{Volume: 200},
		{Volume: 300},
	}
	assert.InDelta(t, 200.0, MeanVolume(bars), 1e-9)
	assert.Equal(t, 0.0, MeanVolume(nil))
}
