// internal/services/history_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/grocery-browser/internal/config"
	"github.com/javajoker/grocery-browser/internal/database"
	"github.com/javajoker/grocery-browser/internal/models"
	"github.com/javajoker/grocery-browser/internal/utils"
)

type HistoryServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *HistoryService
	clock   time.Time
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(db))

	suite.db = db
	suite.clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.service = NewHistoryService(db, nil)
	suite.service.now = func() time.Time { return suite.clock }
}

func (suite *HistoryServiceTestSuite) TearDownTest() {
	database.Close(suite.db)
}

func (suite *HistoryServiceTestSuite) importLines(lines ...string) *ImportResult {
	result, err := suite.service.Import(context.Background(), strings.NewReader(strings.Join(lines, "\n")), nil)
	suite.Require().NoError(err)
	return result
}

func (suite *HistoryServiceTestSuite) TestImportSkipsBadLines() {
	var progress []int
	input := strings.Join([]string{
		`{"item_id":"111","product_name":"Whole Milk 1L","brand":"Dairyland","price":"$4.49","review_count":12,"avg_rating":4.5,"availability":"IN_STOCK","image_url":"https://img/1.jpg","search_queries":["milk"]}`,
		``,
		`{broken`,
		`["array"]`,
		`{"item_id":"222","product_name":"Bread","price":2.99}`,
	}, "\n")

	result, err := suite.service.Import(context.Background(), strings.NewReader(input), func(line int) {
		progress = append(progress, line)
	})
	suite.Require().NoError(err)
	suite.Equal(2, result.Inserted)
	suite.Equal(2, result.Skipped)
	suite.Equal([]int{1, 5}, progress)

	count, err := suite.service.Count(context.Background())
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	var milk models.PriceRecord
	suite.Require().NoError(suite.db.Where("item_id = ?", "111").First(&milk).Error)
	suite.Equal("Whole Milk 1L", milk.ProductName)
	suite.Equal("Dairyland", milk.Brand)
	suite.Require().NotNil(milk.Price)
	suite.InDelta(4.49, *milk.Price, 1e-9)
	suite.Require().NotNil(milk.ReviewCount)
	suite.Equal(12, *milk.ReviewCount)
	suite.Require().NotNil(milk.AvgRating)
	suite.InDelta(4.5, *milk.AvgRating, 1e-9)
	suite.Equal("IN_STOCK", milk.Availability)
	suite.Equal("https://img/1.jpg", milk.ImageURL)
	suite.Equal([]string{"milk"}, []string(milk.SearchQueries))
	suite.Equal("111", milk.Raw["item_id"])
}

func (suite *HistoryServiceTestSuite) TestImportAppendsRuns() {
	suite.importLines(`{"item_id":"111","product_name":"Whole Milk 1L","price":4.49}`)
	suite.clock = suite.clock.Add(24 * time.Hour)
	suite.importLines(`{"item_id":"111","product_name":"Whole Milk 1L","price":4.29}`)

	count, err := suite.service.Count(context.Background())
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	recent, err := suite.service.Recent(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(recent, 2)
	suite.InDelta(4.29, *recent[0].Price, 1e-9)
	suite.True(recent[0].ScrapedAt.After(recent[1].ScrapedAt))
}

func (suite *HistoryServiceTestSuite) TestItemHistoryPaginates() {
	for i := 0; i < 5; i++ {
		suite.importLines(`{"item_id":"111","product_name":"Whole Milk 1L","price":4.49}`, `{"item_id":"999","product_name":"Other"}`)
		suite.clock = suite.clock.Add(time.Hour)
	}

	params := utils.PaginationParams{Page: 2, Limit: 2, Sort: "scraped_at", Order: "desc"}
	result, err := suite.service.ItemHistory(context.Background(), "111", params)
	suite.Require().NoError(err)

	suite.Equal(int64(5), result.Total)
	suite.Equal(3, result.TotalPages)
	records := result.Data.([]models.PriceRecord)
	suite.Require().Len(records, 2)
	for _, r := range records {
		suite.Equal("111", r.ItemID)
	}
	suite.True(records[0].ScrapedAt.After(records[1].ScrapedAt))
}

func (suite *HistoryServiceTestSuite) TestImportFallbackIDWithoutItemID() {
	suite.importLines(`{"product_name":"Bread","brand":"Dempster's"}`)

	recent, err := suite.service.Recent(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Require().Len(recent, 1)
	suite.Regexp(`^p_[0-9a-f]{16}$`, recent[0].ItemID)
	suite.Nil(recent[0].Price)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
