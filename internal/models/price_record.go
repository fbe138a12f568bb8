// internal/models/price_record.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// PriceRecord is one scraped observation of a product, appended on every import.
type PriceRecord struct {
	ID            uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	ScrapedAt     time.Time      `json:"scraped_at" gorm:"not null;index"`
	ItemID        string         `json:"item_id" gorm:"size:128;index"`
	ProductName   string         `json:"product_name" gorm:"size:512"`
	Brand         string         `json:"brand" gorm:"size:255"`
	Price         *float64       `json:"price"`
	ReviewCount   *int           `json:"review_count"`
	AvgRating     *float64       `json:"avg_rating"`
	Availability  string         `json:"availability" gorm:"size:64"`
	ImageURL      string         `json:"image_url" gorm:"type:text"`
	SearchQueries pq.StringArray `json:"search_queries" gorm:"type:text"`
	Raw           JSONB          `json:"-" gorm:"type:text"`
}

func (PriceRecord) TableName() string {
	return "product_prices"
}
