package portfolio

import (
	"sync"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/service/holding"
	"github.com/sysdevguru/stockfolio/service/marketdata"
)

type fakeHoldings struct {
	holdings []*models.Holding
}

func (f *fakeHoldings) ListByUser(userID uuid.UUID) ([]*models.Holding, error) {
	return f.holdings, nil
}

func (f *fakeHoldings) Create(h *models.Holding) error {
	return nil
}

func (f *fakeHoldings) WithTx(tx *gorm.DB) holding.HoldingService {
	return f
}

type fakeMarketData struct {
	mu           sync.Mutex
	prices       map[string]decimal.Decimal
	fundamentals map[string]models.Fundamentals
	priceCalls   map[string]int
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{
		prices:       map[string]decimal.Decimal{},
		fundamentals: map[string]models.Fundamentals{},
		priceCalls:   map[string]int{},
	}
}

func (f *fakeMarketData) GetPrice(symbol string) *decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls[symbol]++
	if p, ok := f.prices[symbol]; ok {
		v := p
		return &v
	}
	return nil
}

func (f *fakeMarketData) GetFundamentals(symbol string) models.Fundamentals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fundamentals[symbol]
}

func (f *fakeMarketData) Refresh(symbol string) (*marketdata.Quote, error) {
	return nil, nil
}

func newHolding(symbol, sector, price string, qty int) *models.Holding {
	stock := models.Stock{
		ID:       uuid.Must(uuid.NewV4()).String(),
		Symbol:   symbol,
		Name:     symbol,
		Exchange: "NSE",
	}
	if sector != "" {
		stock.Sector = &models.Sector{Name: sector}
	}
	return &models.Holding{
		ID:            uuid.Must(uuid.NewV4()).String(),
		PurchasePrice: decimal.RequireFromString(price),
		Quantity:      qty,
		Stock:         stock,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetEmptyPortfolio(t *testing.T) {
	srv := Service(&fakeHoldings{}, newFakeMarketData())

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)

	assert.NotNil(t, summary.Sectors)
	assert.Len(t, summary.Sectors, 0)
	assert.True(t, summary.TotalInvestment.Equal(decimal.Zero))
	assert.True(t, summary.TotalPresentValue.Equal(decimal.Zero))
	assert.True(t, summary.TotalGainLoss.Equal(decimal.Zero))
	assert.Nil(t, summary.TotalGainLossPercentage)
}

func TestGetComputesHoldingMetrics(t *testing.T) {
	md := newFakeMarketData()
	md.prices["RELIANCE.NS"] = d("2500")
	pe := 24.5
	md.fundamentals["RELIANCE.NS"] = models.Fundamentals{PERatio: &pe}

	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("RELIANCE.NS", "Energy", "2400.50", 10),
	}}, md)

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)
	require.Len(t, summary.Sectors, 1)
	require.Len(t, summary.Sectors[0].Holdings, 1)

	h := summary.Sectors[0].Holdings[0]
	assert.True(t, h.Investment.Equal(d("24005")), h.Investment.String())
	assert.True(t, h.CMP.Equal(d("2500")), h.CMP.String())
	assert.True(t, h.PresentValue.Equal(d("25000")), h.PresentValue.String())
	assert.True(t, h.GainLoss.Equal(d("995")), h.GainLoss.String())
	assert.True(t, h.GainLossPercentage.Round(4).Equal(d("4.1450")), h.GainLossPercentage.String())
	assert.True(t, h.PortfolioPercentage.Equal(d("100")), h.PortfolioPercentage.String())
	require.NotNil(t, h.PERatio)
	assert.Equal(t, 24.5, *h.PERatio)
	assert.Nil(t, h.LatestEarnings)

	assert.True(t, summary.TotalInvestment.Equal(d("24005")))
	assert.True(t, summary.TotalPresentValue.Equal(d("25000")))
	assert.True(t, summary.TotalGainLoss.Equal(d("995")))
	require.NotNil(t, summary.TotalGainLossPercentage)
	assert.True(t, summary.TotalGainLossPercentage.Round(4).Equal(d("4.1450")))
}

func TestGetFallsBackToPurchasePrice(t *testing.T) {
	// no price registered in the fake: provider and cache both failed
	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("TCS.NS", "Technology", "3500.00", 15),
	}}, newFakeMarketData())

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)

	h := summary.Sectors[0].Holdings[0]
	assert.True(t, h.CMP.Equal(d("3500.00")))
	assert.True(t, h.PresentValue.Equal(h.Investment))
	assert.True(t, h.GainLoss.Equal(decimal.Zero))
	assert.True(t, h.GainLossPercentage.Equal(decimal.Zero))
	assert.Nil(t, h.PERatio)
	assert.Nil(t, h.LatestEarnings)
}

func TestGetGroupsBySector(t *testing.T) {
	md := newFakeMarketData()
	md.prices["RELIANCE.NS"] = d("110")
	md.prices["TCS.NS"] = d("190")
	md.prices["ONGC.NS"] = d("50")

	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("RELIANCE.NS", "Energy", "100", 10),
		newHolding("TCS.NS", "Technology", "200", 5),
		newHolding("ONGC.NS", "Energy", "50", 20),
	}}, md)

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)
	require.Len(t, summary.Sectors, 2)

	// sectors keep first-encounter order
	energy := summary.Sectors[0]
	tech := summary.Sectors[1]
	assert.Equal(t, "Energy", energy.SectorName)
	assert.Equal(t, "Technology", tech.SectorName)

	assert.Len(t, energy.Holdings, 2)
	assert.True(t, energy.TotalInvestment.Equal(d("2000")))
	assert.True(t, energy.TotalPresentValue.Equal(d("2100")))
	assert.True(t, energy.GainLoss.Equal(d("100")))
	assert.True(t, energy.GainLossPercentage.Equal(d("5")))

	assert.True(t, tech.TotalInvestment.Equal(d("1000")))
	assert.True(t, tech.TotalPresentValue.Equal(d("950")))
	assert.True(t, tech.GainLoss.Equal(d("-50")))
	assert.True(t, tech.GainLossPercentage.Equal(d("-5")))

	// sector sums reconcile with the portfolio totals
	sumInvestment := decimal.Zero
	sumPresentValue := decimal.Zero
	for _, sector := range summary.Sectors {
		sumInvestment = sumInvestment.Add(sector.TotalInvestment)
		sumPresentValue = sumPresentValue.Add(sector.TotalPresentValue)
	}
	assert.True(t, summary.TotalInvestment.Equal(sumInvestment))
	assert.True(t, summary.TotalPresentValue.Equal(sumPresentValue))
	assert.True(t, summary.TotalGainLoss.Equal(summary.TotalPresentValue.Sub(summary.TotalInvestment)))
}

func TestGetBucketsMissingSectorAsUnknown(t *testing.T) {
	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("SUZLON.NS", "", "40", 100),
	}}, newFakeMarketData())

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)
	require.Len(t, summary.Sectors, 1)
	assert.Equal(t, models.UnknownSector, summary.Sectors[0].SectorName)
}

func TestGetPortfolioPercentages(t *testing.T) {
	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("RELIANCE.NS", "Energy", "333.33", 1),
		newHolding("TCS.NS", "Technology", "333.33", 1),
		newHolding("INFY.NS", "Technology", "333.34", 1),
	}}, newFakeMarketData())

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)

	total := decimal.Zero
	for _, sector := range summary.Sectors {
		for _, h := range sector.Holdings {
			// rounded to 2dp for presentation
			assert.True(t, h.PortfolioPercentage.Equal(h.PortfolioPercentage.Round(2)))
			total = total.Add(h.PortfolioPercentage)
		}
	}

	// rounding drift stays within a cent
	assert.True(t, total.Sub(d("100")).Abs().LessThanOrEqual(d("0.02")), total.String())
}

func TestGetFetchesEachSymbolOnce(t *testing.T) {
	md := newFakeMarketData()
	md.prices["ITC.NS"] = d("420")

	srv := Service(&fakeHoldings{holdings: []*models.Holding{
		newHolding("ITC.NS", "Consumer", "400", 10),
		newHolding("ITC.NS", "Consumer", "410", 5),
	}}, md)

	_, err := srv.Get(uuid.Must(uuid.NewV4()))
	require.Nil(t, err)

	assert.Equal(t, 1, md.priceCalls["ITC.NS"])
}

func TestGetRejectsNonPositiveInvestment(t *testing.T) {
	bad := newHolding("SBIN.NS", "Financials", "580", 40)
	bad.Quantity = 0

	srv := Service(&fakeHoldings{holdings: []*models.Holding{bad}}, newFakeMarketData())

	summary, err := srv.Get(uuid.Must(uuid.NewV4()))
	assert.Nil(t, summary)
	assert.NotNil(t, err)
}
