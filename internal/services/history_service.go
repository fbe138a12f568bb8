// internal/services/history_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/grocery-browser/internal/catalog"
	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/models"
	"github.com/javajoker/grocery-browser/internal/utils"
)

const importBatchSize = 500

type ImportResult struct {
	Inserted  int       `json:"inserted"`
	Skipped   int       `json:"skipped"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// HistoryService appends scraped price observations and reads them back.
type HistoryService struct {
	db         *gorm.DB
	normalizer *catalog.Normalizer
	metrics    *metrics.Registry
	now        func() time.Time
}

func NewHistoryService(db *gorm.DB, reg *metrics.Registry) *HistoryService {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &HistoryService{
		db:         db,
		normalizer: catalog.NewNormalizer(catalog.NormalizerOptions{}),
		metrics:    reg,
		now:        time.Now,
	}
}

// Import appends one row per JSON object line of r inside a single
// transaction. Blank lines are ignored and malformed lines are skipped.
// progress, when set, receives the running count of processed lines.
func (s *HistoryService) Import(ctx context.Context, r io.Reader, progress func(lines int)) (*ImportResult, error) {
	result := &ImportResult{ScrapedAt: s.now().UTC()}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		batch := make([]models.PriceRecord, 0, importBatchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.Create(&batch).Error; err != nil {
				return fmt.Errorf("failed to insert price records: %w", err)
			}
			result.Inserted += len(batch)
			batch = batch[:0]
			return nil
		}

		scanErr := catalog.ScanJSONL(r, func(line int, raw models.RawRecord) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch = append(batch, s.record(raw, line, result.ScrapedAt))
			if progress != nil {
				progress(line)
			}
			if len(batch) >= importBatchSize {
				return flush()
			}
			return nil
		}, func(line int, err error) {
			result.Skipped++
			logrus.WithFields(logrus.Fields{"line": line, "error": err}).Warn("Skipping JSONL line")
		})
		if scanErr != nil {
			return scanErr
		}
		return flush()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import price history: %w", err)
	}

	s.metrics.HistoryImported.Add(float64(result.Inserted))
	logrus.WithFields(logrus.Fields{
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	}).Info("Price history imported")
	return result, nil
}

func (s *HistoryService) record(raw models.RawRecord, line int, scrapedAt time.Time) models.PriceRecord {
	p := s.normalizer.Normalize(raw, line)
	name := p.Name
	if name == catalog.FallbackName {
		name = ""
	}
	return models.PriceRecord{
		ScrapedAt:     scrapedAt,
		ItemID:        p.ID,
		ProductName:   name,
		Brand:         p.Brand,
		Price:         p.Price,
		ReviewCount:   p.ReviewCount,
		AvgRating:     p.Rating,
		Availability:  p.Availability,
		ImageURL:      p.Image,
		SearchQueries: pq.StringArray(p.SearchQueries),
		Raw:           models.JSONB(raw),
	}
}

// Recent returns the newest rows, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]models.PriceRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []models.PriceRecord
	err := s.db.WithContext(ctx).
		Order("scraped_at DESC").Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent price records: %w", err)
	}
	return records, nil
}

// ItemHistory pages through the observations of one item, newest first.
func (s *HistoryService) ItemHistory(ctx context.Context, itemID string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var records []models.PriceRecord
	var total int64

	query := s.db.WithContext(ctx).Model(&models.PriceRecord{}).Where("item_id = ?", itemID)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count price records: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"scraped_at", "price"})
	query = utils.ApplyPagination(query.Order("id DESC"), params)
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price records: %w", err)
	}

	result := utils.CreatePaginationResult(records, total, params)
	return &result, nil
}

func (s *HistoryService) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.PriceRecord{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count price records: %w", err)
	}
	return total, nil
}
