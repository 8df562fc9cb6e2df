package app

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

type stubSentimentService struct {
	result       *models.SentimentResult
	recordedDate string
	recordErr    error
}

func (s *stubSentimentService) Aggregate(ctx context.Context) (*models.SentimentResult, error) {
	return s.result, nil
}

func (s *stubSentimentService) RecordScore(ctx context.Context, date string, score float64, classification string) error {
	s.recordedDate = date
	return s.recordErr
}

func (s *stubSentimentService) ReadHistory(ctx context.Context, days int) ([]models.SentimentHistoryEntry, error) {
	return nil, nil
}

func (s *stubSentimentService) VIXSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) IndexTrendSignal(ctx context.Context, symbol string, window int) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) PutCallSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) SectorRotationSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) BreadthSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) VolumeSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) AITechSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func (s *stubSentimentService) LeverageSignal(ctx context.Context) models.IndicatorSignal {
	return models.IndicatorSignal{}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGetMarketSentimentRecordsServiceClockDate(t *testing.T) {
	svc := &stubSentimentService{
		result: &models.SentimentResult{
			Score:          42.3,
			Classification: "🟢 BULLISH",
			Recommendation: "Positive environment. Consider: full equity exposure, favor growth sectors, maintain stops.",
			Timestamp:      time.Date(2026, 3, 5, 23, 30, 0, 0, time.UTC),
		},
	}

	handler := handleGetMarketSentiment(svc, common.NewSilentLogger())
	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), "Score: 42.3/100")
	assert.Equal(t, "2026-03-05", svc.recordedDate)
}

func TestGetMarketSentimentSurvivesRecordFailure(t *testing.T) {
	svc := &stubSentimentService{
		result: &models.SentimentResult{
			Score:          -5.0,
			Classification: "🟡 NEUTRAL",
			Recommendation: "Mixed signals. Balanced approach: maintain diversification, selective opportunities.",
			Timestamp:      time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC),
		},
		recordErr: assert.AnError,
	}

	handler := handleGetMarketSentiment(svc, common.NewSilentLogger())
	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Score: -5.0/100")
}
