package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CalvinLiuu/stock-mcp-server/internal/common"
	"github.com/CalvinLiuu/stock-mcp-server/internal/interfaces"
	"github.com/CalvinLiuu/stock-mcp-server/internal/models"
)

// Manager implements interfaces.StorageManager over a FileStore.
type Manager struct {
	fs        *FileStore
	logger    *common.Logger
	sentiment *sentimentStorage
	portfolio *portfolioStorage
	alerts    *alertStorage
	kv        *kvStorage
	charts    *chartStorage
}

// NewManager opens file-based storage at the configured path.
func NewManager(logger *common.Logger, config *common.StorageConfig) (*Manager, error) {
	fs, err := NewFileStore(logger, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &Manager{
		fs:        fs,
		logger:    logger,
		sentiment: &sentimentStorage{fs: fs, logger: logger},
		portfolio: &portfolioStorage{fs: fs, logger: logger},
		alerts:    &alertStorage{fs: fs, logger: logger},
		kv:        &kvStorage{fs: fs},
		charts:    &chartStorage{fs: fs, logger: logger},
	}, nil
}

func (m *Manager) SentimentStorage() interfaces.SentimentStorage { return m.sentiment }
func (m *Manager) PortfolioStorage() interfaces.PortfolioStorage { return m.portfolio }
func (m *Manager) AlertStorage() interfaces.AlertStorage         { return m.alerts }
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage   { return m.kv }
func (m *Manager) ChartStorage() interfaces.ChartStorage         { return m.charts }

// Close is a no-op for file-based storage but satisfies the interface.
func (m *Manager) Close() error { return nil }

// --- Sentiment Storage ---

type sentimentStorage struct {
	fs     *FileStore
	logger *common.Logger
}

const sentimentHistoryKey = "sentiment_history"

// GetHistory returns the stored history, or an empty history when none
// has been written yet.
func (s *sentimentStorage) GetHistory(ctx context.Context) (*models.SentimentHistory, error) {
	var history models.SentimentHistory
	if err := s.fs.readJSON("sentiment", sentimentHistoryKey, &history); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &models.SentimentHistory{DailyScores: []models.SentimentHistoryEntry{}}, nil
		}
		return nil, err
	}
	if history.DailyScores == nil {
		history.DailyScores = []models.SentimentHistoryEntry{}
	}
	return &history, nil
}

func (s *sentimentStorage) SaveHistory(ctx context.Context, history *models.SentimentHistory) error {
	if err := s.fs.writeJSON("sentiment", sentimentHistoryKey, history); err != nil {
		return fmt.Errorf("failed to save sentiment history: %w", err)
	}
	s.logger.Debug().Int("entries", len(history.DailyScores)).Msg("Sentiment history saved")
	return nil
}

// --- Portfolio Storage ---

type portfolioStorage struct {
	fs     *FileStore
	logger *common.Logger
}

const portfolioKey = "portfolio"

// GetPortfolio returns the stored portfolio, or an empty one when none
// has been written yet.
func (s *portfolioStorage) GetPortfolio(ctx context.Context) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.fs.readJSON("portfolios", portfolioKey, &portfolio); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewPortfolio(), nil
		}
		return nil, err
	}
	if portfolio.Holdings == nil {
		portfolio.Holdings = map[string]models.Holding{}
	}
	if portfolio.Transactions == nil {
		portfolio.Transactions = []models.Transaction{}
	}
	return &portfolio, nil
}

func (s *portfolioStorage) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	if err := s.fs.writeJSON("portfolios", portfolioKey, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Int("holdings", len(portfolio.Holdings)).Msg("Portfolio saved")
	return nil
}

// --- Alert Storage ---

type alertStorage struct {
	fs     *FileStore
	logger *common.Logger
}

const alertsKey = "alerts"

// GetAlerts returns the stored alert book, or an empty one when none
// has been written yet.
func (s *alertStorage) GetAlerts(ctx context.Context) (*models.AlertBook, error) {
	var book models.AlertBook
	if err := s.fs.readJSON("alerts", alertsKey, &book); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewAlertBook(), nil
		}
		return nil, err
	}
	if book.PriceAlerts == nil {
		book.PriceAlerts = []models.PriceAlert{}
	}
	if book.RSIAlerts == nil {
		book.RSIAlerts = []models.RSIAlert{}
	}
	return &book, nil
}

func (s *alertStorage) SaveAlerts(ctx context.Context, book *models.AlertBook) error {
	if err := s.fs.writeJSON("alerts", alertsKey, book); err != nil {
		return fmt.Errorf("failed to save alerts: %w", err)
	}
	s.logger.Debug().
		Int("price_alerts", len(book.PriceAlerts)).
		Int("rsi_alerts", len(book.RSIAlerts)).
		Msg("Alerts saved")
	return nil
}

// --- Key-Value Storage ---

type kvStorage struct {
	fs *FileStore
}

func (s *kvStorage) Get(ctx context.Context, key string, value any) error {
	if err := s.fs.readJSON("kv", key, value); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("key '%s' not found", key)
		}
		return err
	}
	return nil
}

func (s *kvStorage) Set(ctx context.Context, key string, value any) error {
	if err := s.fs.writeJSON("kv", key, value); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *kvStorage) Delete(ctx context.Context, key string) error {
	return s.fs.deleteJSON("kv", key)
}

// --- Chart Storage ---

type chartStorage struct {
	fs     *FileStore
	logger *common.Logger
}

func (s *chartStorage) SaveChart(ctx context.Context, name string, data []byte) (string, error) {
	target := filepath.Join(s.fs.basePath, "charts", s.fs.sanitizeKey(name))
	if err := s.fs.writeRaw(target, data); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	s.logger.Debug().Str("path", abs).Msg("Chart saved")
	return abs, nil
}
