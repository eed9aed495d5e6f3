package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"market_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Storage persists asset records, price entries and the trade journal.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance. An empty path selects
// the per-OS default location.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		var err error
		dbPath, err = getDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.AssetRow{}, &domain.PriceRow{}, &domain.TradeRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "MarketGo", "data", "market.db"), nil
}

// ======================================================================================
// Asset Operations
// ======================================================================================

// SaveAsset upserts an asset record together with its price entries in one
// transaction, so a crash never leaves a record without its prices.
func (s *Storage) SaveAsset(row *domain.AssetRow, prices []domain.PriceRow) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		for i := range prices {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&prices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAsset retrieves one asset record by id.
func (s *Storage) GetAsset(id uint64) (*domain.AssetRow, error) {
	var row domain.AssetRow
	err := s.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &row, err
}

// LoadAssets retrieves all persisted assets and price entries for hydration.
func (s *Storage) LoadAssets() ([]domain.AssetRow, []domain.PriceRow, error) {
	var rows []domain.AssetRow
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var prices []domain.PriceRow
	if err := s.db.Find(&prices).Error; err != nil {
		return nil, nil, err
	}
	return rows, prices, nil
}

// ======================================================================================
// Trade Journal
// ======================================================================================

// RecordTrade appends a settled sale to the journal.
func (s *Storage) RecordTrade(trade *domain.TradeRow) error {
	return s.db.Create(trade).Error
}

// TradesForAsset returns the journal entries for one asset, oldest first.
func (s *Storage) TradesForAsset(assetID uint64) ([]domain.TradeRow, error) {
	var trades []domain.TradeRow
	err := s.db.Where("asset_id = ?", assetID).Order("settled_at asc").Find(&trades).Error
	return trades, err
}

// AllTrades returns the whole journal, oldest first.
func (s *Storage) AllTrades() ([]domain.TradeRow, error) {
	var trades []domain.TradeRow
	err := s.db.Order("settled_at asc").Find(&trades).Error
	return trades, err
}
