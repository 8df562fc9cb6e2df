package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// renderSentimentChart renders the sentiment score history as a PNG
// line chart. One series, scored -100 to +100, with a gray zero line.
// Returns raw PNG bytes.
func renderSentimentChart(entries []models.SentimentHistoryEntry) ([]byte, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("need at least 2 recorded days, got %d", len(entries))
	}

	xValues := make([]time.Time, len(entries))
	yValues := make([]float64, len(entries))
	zeroY := make([]float64, len(entries))

	for i, entry := range entries {
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid history date %q: %w", entry.Date, err)
		}
		xValues[i] = date
		yValues[i] = entry.Score
	}

	scoreSeries := chart.TimeSeries{
		Name: "Sentiment Score",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	zeroSeries := chart.TimeSeries{
		Name: "Neutral",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: zeroY,
	}

	graph := chart.Chart{
		Title:  "Market Sentiment History",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -100, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			scoreSeries,
			zeroSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// handleRenderSentimentChart implements the render_sentiment_chart tool
func handleRenderSentimentChart(sentimentService interfaces.SentimentService, storageManager interfaces.StorageManager, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		entries, err := sentimentService.ReadHistory(ctx, days)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment history read failed")
			return errorResult(fmt.Sprintf("Error reading sentiment history: %v", err)), nil
		}
		if len(entries) < 2 {
			return textResult("Not enough sentiment history to chart yet. Run get_market_sentiment() on at least 2 days."), nil
		}

		data, err := renderSentimentChart(entries)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment chart render failed")
			return errorResult(fmt.Sprintf("Error rendering chart: %v", err)), nil
		}

		name := fmt.Sprintf("sentiment_%s.png", time.Now().Format("20060102_150405"))
		path, err := storageManager.ChartStorage().SaveChart(ctx, name, data)
		if err != nil {
			logger.Error().Err(err).Msg("Sentiment chart save failed")
			return errorResult(fmt.Sprintf("Error saving chart: %v", err)), nil
		}

		logger.Info().Str("path", path).Int("days", len(entries)).Msg("Sentiment chart rendered")
		return textResult(fmt.Sprintf("Sentiment chart saved to %s (%d days plotted).", path, len(entries))), nil
	}
}
