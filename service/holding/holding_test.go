package holding

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/sysdevguru/stockfolio/db"
	"github.com/sysdevguru/stockfolio/dbtest"
	"github.com/sysdevguru/stockfolio/models"
)

type HoldingTestSuite struct {
	dbtest.Suite
	user  *models.User
	stock *models.Stock
}

func TestHoldingTestSuite(t *testing.T) {
	suite.Run(t, new(HoldingTestSuite))
}

func (s *HoldingTestSuite) SetupSuite() {
	s.SetupDB()

	tx := db.Begin()

	s.user = &models.User{
		Name:  "Demo User",
		Email: "holding@example.com",
	}
	if err := tx.Create(s.user).Error; err != nil {
		assert.FailNow(s.T(), err.Error())
	}

	sector := &models.Sector{Name: "Energy", Description: "Oil, Gas and Energy companies"}
	if err := tx.Create(sector).Error; err != nil {
		assert.FailNow(s.T(), err.Error())
	}

	s.stock = &models.Stock{
		Symbol:   "RELIANCE.NS",
		Name:     "Reliance Industries",
		Exchange: "NSE",
		SectorID: &sector.ID,
	}
	if err := tx.Create(s.stock).Error; err != nil {
		assert.FailNow(s.T(), err.Error())
	}

	tx.Commit()
}

func (s *HoldingTestSuite) TearDownSuite() {
	s.TeardownDB()
}

func (s *HoldingTestSuite) TestCreateAndListByUser() {
	tx := db.Begin()
	srv := Service().WithTx(tx)

	first := &models.Holding{
		UserID:        s.user.ID,
		StockID:       s.stock.ID,
		PurchasePrice: decimal.RequireFromString("2400.50"),
		Quantity:      10,
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	require.Nil(s.T(), srv.Create(first))

	second := &models.Holding{
		UserID:        s.user.ID,
		StockID:       s.stock.ID,
		PurchasePrice: decimal.RequireFromString("2450.00"),
		Quantity:      5,
		PurchaseDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	require.Nil(s.T(), srv.Create(second))

	holdings, err := srv.ListByUser(s.user.IDAsUUID())
	require.Nil(s.T(), err)
	require.Len(s.T(), holdings, 2)

	// stock and sector come preloaded for the aggregation
	assert.Equal(s.T(), "RELIANCE.NS", holdings[0].Stock.Symbol)
	require.NotNil(s.T(), holdings[0].Stock.Sector)
	assert.Equal(s.T(), "Energy", holdings[0].Stock.Sector.Name)

	tx.Rollback()
}

func (s *HoldingTestSuite) TestCreateRejectsInvalidHolding() {
	tx := db.Begin()
	srv := Service().WithTx(tx)

	err := srv.Create(&models.Holding{
		UserID:        s.user.ID,
		StockID:       s.stock.ID,
		PurchasePrice: decimal.RequireFromString("2400.50"),
		Quantity:      0,
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.NotNil(s.T(), err)

	tx.Rollback()
}

func (s *HoldingTestSuite) TestListByUserEmpty() {
	tx := db.Begin()
	srv := Service().WithTx(tx)

	holdings, err := srv.ListByUser(uuid.Must(uuid.NewV4()))
	require.Nil(s.T(), err)
	assert.Len(s.T(), holdings, 0)

	tx.Rollback()
}
