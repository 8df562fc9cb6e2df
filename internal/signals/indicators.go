// Package signals provides technical indicator calculations over
// chronologically ordered daily bars (oldest first).
package signals

import (
	"math"
	"sort"

	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// Closes extracts the close series from bars.
func Closes(bars []models.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}
	return closes
}

// SMA calculates the Simple Moving Average over the last period bars.
func SMA(bars []models.Bar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// EMASeries calculates the Exponential Moving Average series with the
// recursive form seeded from the first value. Each element smooths the
// previous one with alpha = 2/(period+1).
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return nil
	}

	alpha := 2.0 / float64(period+1)
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

// MACDSeries calculates the MACD line and its signal line.
// The MACD line is EMA(fast) - EMA(slow) of the closes; the signal line
// is an EMA of the MACD line.
func MACDSeries(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (macd, signal []float64) {
	if len(closes) == 0 {
		return nil, nil
	}

	fastEMA := EMASeries(closes, fastPeriod)
	slowEMA := EMASeries(closes, slowPeriod)

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signal = EMASeries(macd, signalPeriod)
	return macd, signal
}

// RSISeries calculates the Relative Strength Index using rolling simple
// averages of gains and losses. Entries before the window fills are NaN.
// A window with no losses reads 100.
func RSISeries(closes []float64, period int) []float64 {
	rsi := make([]float64, len(closes))
	for i := range rsi {
		rsi[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return rsi
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		if avgLoss == 0 {
			rsi[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		rsi[i] = 100 - (100 / (1 + rs))
	}
	return rsi
}

// Returns calculates day-over-day percentage changes as fractions.
// The result has one fewer element than the input.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// Mean calculates the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev calculates the sample standard deviation (n-1 denominator).
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// Covariance calculates the sample covariance of two equal-length series.
func Covariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}

	meanA := Mean(a)
	meanB := Mean(b)
	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / float64(len(a)-1)
}

// Correlation calculates the Pearson correlation of two equal-length series.
func Correlation(a, b []float64) float64 {
	stdA := StdDev(a)
	stdB := StdDev(b)
	if stdA == 0 || stdB == 0 {
		return 0
	}
	return Covariance(a, b) / (stdA * stdB)
}

// Percentile calculates the pct-th percentile (0-100) using linear
// interpolation over a sorted copy of the values.
func Percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// MeanVolume calculates the average volume over the given bars.
func MeanVolume(bars []models.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}

	var sum float64
	for _, bar := range bars {
		sum += float64(bar.Volume)
	}
	return sum / float64(len(bars))
}
