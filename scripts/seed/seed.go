package main

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/db"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/utils/initializer"
)

type stockSeed struct {
	symbol string
	name   string
	sector string
}

type holdingSeed struct {
	symbol        string
	purchasePrice string
	quantity      int
	purchaseDate  string
}

var sectors = []models.Sector{
	{Name: "Technology", Description: "IT and Software companies"},
	{Name: "Financials", Description: "Banks and Financial Services"},
	{Name: "Energy", Description: "Oil, Gas and Energy companies"},
	{Name: "Healthcare", Description: "Pharmaceutical and Healthcare"},
	{Name: "Consumer", Description: "Consumer goods and services"},
}

var stocks = []stockSeed{
	{"RELIANCE.NS", "Reliance Industries", "Energy"},
	{"TCS.NS", "Tata Consultancy Services", "Technology"},
	{"HDFCBANK.NS", "HDFC Bank", "Financials"},
	{"INFY.NS", "Infosys", "Technology"},
	{"ICICIBANK.NS", "ICICI Bank", "Financials"},
	{"HINDUNILVR.NS", "Hindustan Unilever", "Consumer"},
	{"ITC.NS", "ITC Limited", "Consumer"},
	{"SBIN.NS", "State Bank of India", "Financials"},
	{"BHARTIARTL.NS", "Bharti Airtel", "Technology"},
	{"SUNPHARMA.NS", "Sun Pharmaceutical", "Healthcare"},
}

var holdings = []holdingSeed{
	{"RELIANCE.NS", "2400.50", 10, "2024-01-15"},
	{"TCS.NS", "3500.00", 15, "2024-02-10"},
	{"HDFCBANK.NS", "1650.75", 20, "2024-01-20"},
	{"INFY.NS", "1450.00", 25, "2024-03-05"},
	{"ICICIBANK.NS", "950.25", 30, "2024-02-15"},
	{"HINDUNILVR.NS", "2300.00", 12, "2024-01-25"},
	{"ITC.NS", "420.50", 50, "2024-03-01"},
	{"SBIN.NS", "580.00", 40, "2024-02-20"},
}

func main() {
	initializer.Initialize()

	tx := db.Begin()

	if err := seed(tx); err != nil {
		tx.Rollback()
		log.Fatal("seeding failed", "error", err)
	}

	if err := tx.Commit().Error; err != nil {
		log.Fatal("seeding failed", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seed(tx *gorm.DB) error {
	user := models.User{
		ID:    initializer.DefaultPortfolioUserID,
		Name:  "Demo User",
		Email: "demo@portfolio.com",
	}
	if err := tx.Create(&user).Error; err != nil {
		return err
	}
	log.Info("created user", "id", user.ID, "email", user.Email)

	sectorIDs := map[string]string{}
	for i := range sectors {
		if err := tx.Create(&sectors[i]).Error; err != nil {
			return err
		}
		sectorIDs[sectors[i].Name] = sectors[i].ID
	}
	log.Info("created sectors", "count", len(sectors))

	stockIDs := map[string]string{}
	for _, s := range stocks {
		sectorID := sectorIDs[s.sector]
		stock := models.Stock{
			Symbol:   s.symbol,
			Name:     s.name,
			Exchange: "NSE",
			SectorID: &sectorID,
		}
		if err := tx.Create(&stock).Error; err != nil {
			return err
		}
		stockIDs[s.symbol] = stock.ID
	}
	log.Info("created stocks", "count", len(stocks))

	for _, h := range holdings {
		purchaseDate, err := time.Parse("2006-01-02", h.purchaseDate)
		if err != nil {
			return err
		}
		holding := models.Holding{
			UserID:        user.ID,
			StockID:       stockIDs[h.symbol],
			PurchasePrice: decimal.RequireFromString(h.purchasePrice),
			Quantity:      h.quantity,
			PurchaseDate:  purchaseDate,
		}
		if err := tx.Create(&holding).Error; err != nil {
			return err
		}
	}
	log.Info("created holdings", "count", len(holdings))

	return nil
}
