// Package alerts manages price and RSI alerts and evaluates them
// against live market data.
package alerts

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
	"github.com/CalvinLiuu/stock-mcp-server/internal/signals"
)

const rsiPeriod = 14

// Service implements AlertService.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates an alert service.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

func validAlertType(alertType string) bool {
	return alertType == models.AlertAbove || alertType == models.AlertBelow
}

// SetPriceAlert registers a price alert, capturing the current price
// for reference.
func (s *Service) SetPriceAlert(ctx context.Context, symbol string, target float64, alertType, name string) (*models.PriceAlert, error) {
	if !validAlertType(alertType) {
		return nil, fmt.Errorf("invalid alert_type %q: must be 'above' or 'below'", alertType)
	}

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("could not fetch current price for %s: %w", symbol, err)
	}
	if quote.Price == 0 {
		return nil, fmt.Errorf("could not fetch current price for %s: verify the ticker symbol", symbol)
	}

	if name == "" {
		name = fmt.Sprintf("%s price %s $%v", symbol, alertType, target)
	}

	alert := models.PriceAlert{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		TargetPrice:  target,
		AlertType:    alertType,
		CurrentPrice: quote.Price,
		Name:         name,
		Status:       models.AlertStatusActive,
	}

	store := s.storage.AlertStorage()
	book, err := store.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	book.PriceAlerts = append(book.PriceAlerts, alert)
	if err := store.SaveAlerts(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Float64("target", target).Str("type", alertType).Msg("Price alert set")
	return &alert, nil
}

// SetRSIAlert registers an RSI alert, capturing the current 14-day RSI
// for reference.
func (s *Service) SetRSIAlert(ctx context.Context, symbol string, threshold float64, alertType, name string) (*models.RSIAlert, error) {
	if !validAlertType(alertType) {
		return nil, fmt.Errorf("invalid alert_type %q: must be 'above' or 'below'", alertType)
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("RSI threshold must be between 0 and 100, got %v", threshold)
	}

	currentRSI, err := s.currentRSI(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("%s RSI %s %v", symbol, alertType, threshold)
	}

	alert := models.RSIAlert{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Threshold:  threshold,
		AlertType:  alertType,
		CurrentRSI: math.Round(currentRSI*100) / 100,
		Name:       name,
		Status:     models.AlertStatusActive,
	}

	store := s.storage.AlertStorage()
	book, err := store.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	book.RSIAlerts = append(book.RSIAlerts, alert)
	if err := store.SaveAlerts(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Float64("threshold", threshold).Str("type", alertType).Msg("RSI alert set")
	return &alert, nil
}

func (s *Service) currentRSI(ctx context.Context, symbol string) (float64, error) {
	bars, err := s.client.GetHistory(ctx, symbol, "3mo")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < rsiPeriod+1 {
		return 0, fmt.Errorf("not enough data to calculate RSI for %s", symbol)
	}

	rsi := signals.RSISeries(signals.Closes(bars), rsiPeriod)
	current := rsi[len(rsi)-1]
	if math.IsNaN(current) {
		return 0, fmt.Errorf("not enough data to calculate RSI for %s", symbol)
	}
	return current, nil
}

func crossed(alertType string, current, target float64) bool {
	if alertType == models.AlertAbove {
		return current >= target
	}
	return current <= target
}

// Check evaluates every active alert against live data. Alerts whose
// condition is met are marked triggered and persisted.
func (s *Service) Check(ctx context.Context) ([]models.AlertCheckItem, error) {
	store := s.storage.AlertStorage()
	book, err := store.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	if len(book.PriceAlerts) == 0 && len(book.RSIAlerts) == 0 {
		return nil, nil
	}

	var items []models.AlertCheckItem
	changed := false

	for i := range book.PriceAlerts {
		alert := &book.PriceAlerts[i]
		if alert.Status != models.AlertStatusActive {
			continue
		}

		item := models.AlertCheckItem{
			Name:      alert.Name,
			Symbol:    alert.Symbol,
			Kind:      "price",
			Target:    alert.TargetPrice,
			AlertType: alert.AlertType,
		}

		quote, err := s.client.GetQuote(ctx, alert.Symbol)
		if err != nil || quote.Price == 0 {
			s.logger.Warn().Str("symbol", alert.Symbol).Err(err).Msg("Could not check price alert")
		} else {
			item.Checked = true
			item.Current = quote.Price
			if crossed(alert.AlertType, quote.Price, alert.TargetPrice) {
				item.Triggered = true
				alert.Status = models.AlertStatusTriggered
				changed = true
			}
		}

		items = append(items, item)
	}

	for i := range book.RSIAlerts {
		alert := &book.RSIAlerts[i]
		if alert.Status != models.AlertStatusActive {
			continue
		}

		item := models.AlertCheckItem{
			Name:      alert.Name,
			Symbol:    alert.Symbol,
			Kind:      "rsi",
			Target:    alert.Threshold,
			AlertType: alert.AlertType,
		}

		currentRSI, err := s.currentRSI(ctx, alert.Symbol)
		if err != nil {
			s.logger.Warn().Str("symbol", alert.Symbol).Err(err).Msg("Could not check RSI alert")
		} else {
			item.Checked = true
			item.Current = currentRSI
			if crossed(alert.AlertType, currentRSI, alert.Threshold) {
				item.Triggered = true
				alert.Status = models.AlertStatusTriggered
				changed = true
			}
		}

		items = append(items, item)
	}

	if changed {
		if err := store.SaveAlerts(ctx, book); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// List returns every configured alert, active and triggered.
func (s *Service) List(ctx context.Context) (*models.AlertBook, error) {
	return s.storage.AlertStorage().GetAlerts(ctx)
}

// ClearTriggered removes triggered alerts, keeping active ones.
func (s *Service) ClearTriggered(ctx context.Context) (int, int, error) {
	store := s.storage.AlertStorage()
	book, err := store.GetAlerts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load alerts: %w", err)
	}

	keptPrice := book.PriceAlerts[:0]
	for _, alert := range book.PriceAlerts {
		if alert.Status == models.AlertStatusActive {
			keptPrice = append(keptPrice, alert)
		}
	}
	clearedPrice := len(book.PriceAlerts) - len(keptPrice)
	book.PriceAlerts = keptPrice

	keptRSI := book.RSIAlerts[:0]
	for _, alert := range book.RSIAlerts {
		if alert.Status == models.AlertStatusActive {
			keptRSI = append(keptRSI, alert)
		}
	}
	clearedRSI := len(book.RSIAlerts) - len(keptRSI)
	book.RSIAlerts = keptRSI

	if clearedPrice+clearedRSI > 0 {
		if err := store.SaveAlerts(ctx, book); err != nil {
			return 0, 0, err
		}
	}
	return clearedPrice, clearedRSI, nil
}

// DeleteAll removes every alert.
func (s *Service) DeleteAll(ctx context.Context) (int, error) {
	store := s.storage.AlertStorage()
	book, err := store.GetAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load alerts: %w", err)
	}

	total := len(book.PriceAlerts) + len(book.RSIAlerts)
	if err := store.SaveAlerts(ctx, models.NewAlertBook()); err != nil {
		return 0, err
	}
	return total, nil
}

// Ensure Service implements AlertService
var _ interfaces.AlertService = (*Service)(nil)
