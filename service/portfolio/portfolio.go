package portfolio

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/pferrors"
	"github.com/sysdevguru/stockfolio/service/holding"
	"github.com/sysdevguru/stockfolio/service/marketdata"
)

var hundred = decimal.New(100, 0)

// PortfolioHolding is a holding enriched with live market data and the
// metrics derived from it.
type PortfolioHolding struct {
	ID                  string          `json:"id"`
	StockSymbol         string          `json:"stockSymbol"`
	StockName           string          `json:"stockName"`
	Exchange            string          `json:"exchange"`
	SectorName          string          `json:"sectorName"`
	PurchasePrice       decimal.Decimal `json:"purchasePrice"`
	Quantity            int             `json:"quantity"`
	Investment          decimal.Decimal `json:"investment"`
	PortfolioPercentage decimal.Decimal `json:"portfolioPercentage"`
	CMP                 decimal.Decimal `json:"cmp"`
	PresentValue        decimal.Decimal `json:"presentValue"`
	GainLoss            decimal.Decimal `json:"gainLoss"`
	GainLossPercentage  decimal.Decimal `json:"gainLossPercentage"`
	PERatio             *float64        `json:"peRatio"`
	LatestEarnings      *float64        `json:"latestEarnings"`
}

// SectorSummary aggregates the holdings sharing a sector name. Its
// gain/loss figures are derived from the sector sums, never by adding
// per-holding percentages.
type SectorSummary struct {
	SectorName         string              `json:"sectorName"`
	TotalInvestment    decimal.Decimal     `json:"totalInvestment"`
	TotalPresentValue  decimal.Decimal     `json:"totalPresentValue"`
	GainLoss           decimal.Decimal     `json:"gainLoss"`
	GainLossPercentage decimal.Decimal     `json:"gainLossPercentage"`
	Holdings           []*PortfolioHolding `json:"holdings"`
}

// Summary is the aggregated portfolio view. TotalGainLossPercentage is
// omitted for an empty portfolio, where the ratio is undefined.
type Summary struct {
	Sectors                 []*SectorSummary `json:"sectors"`
	TotalInvestment         decimal.Decimal  `json:"totalInvestment"`
	TotalPresentValue       decimal.Decimal  `json:"totalPresentValue"`
	TotalGainLoss           decimal.Decimal  `json:"totalGainLoss"`
	TotalGainLossPercentage *decimal.Decimal `json:"totalGainLossPercentage,omitempty"`
}

type PortfolioService interface {
	Get(userID uuid.UUID) (*Summary, error)
	WithTx(tx *gorm.DB) PortfolioService
}

type portfolioService struct {
	tx         *gorm.DB
	holdings   holding.HoldingService
	marketdata marketdata.MarketDataService
}

func Service(holdings holding.HoldingService, md marketdata.MarketDataService) PortfolioService {
	return &portfolioService{
		holdings:   holdings,
		marketdata: md,
	}
}

func (s *portfolioService) WithTx(tx *gorm.DB) PortfolioService {
	s.tx = tx
	return s
}

func (s *portfolioService) Get(userID uuid.UUID) (*Summary, error) {
	userHoldings, err := s.holdings.WithTx(s.tx).ListByUser(userID)
	if err != nil {
		return nil, err
	}

	if len(userHoldings) == 0 {
		return &Summary{
			Sectors:           []*SectorSummary{},
			TotalInvestment:   decimal.Zero,
			TotalPresentValue: decimal.Zero,
			TotalGainLoss:     decimal.Zero,
		}, nil
	}

	quotes := s.fetchQuotes(distinctSymbols(userHoldings))

	totalInvestment := decimal.Zero
	enriched := make([]*PortfolioHolding, len(userHoldings))

	for i, h := range userHoldings {
		investment := h.Investment()
		if !investment.IsPositive() {
			// positive quantity and price are enforced on write, so a
			// zero investment is a data-integrity fault, not a branch
			// to paper over
			return nil, pferrors.InternalServerError.WithError(
				fmt.Errorf("holding %v has non-positive investment %v", h.ID, investment))
		}
		totalInvestment = totalInvestment.Add(investment)

		q := quotes[h.Stock.Symbol]

		cmp := h.PurchasePrice
		if q.price != nil {
			cmp = *q.price
		}

		qty := decimal.New(int64(h.Quantity), 0)
		presentValue := cmp.Mul(qty)
		gainLoss := presentValue.Sub(investment)

		enriched[i] = &PortfolioHolding{
			ID:                 h.ID,
			StockSymbol:        h.Stock.Symbol,
			StockName:          h.Stock.Name,
			Exchange:           h.Stock.Exchange,
			SectorName:         h.Stock.SectorName(),
			PurchasePrice:      h.PurchasePrice,
			Quantity:           h.Quantity,
			Investment:         investment,
			CMP:                cmp,
			PresentValue:       presentValue,
			GainLoss:           gainLoss,
			GainLossPercentage: gainLoss.Div(investment).Mul(hundred),
			PERatio:            q.fundamentals.PERatio,
			LatestEarnings:     q.fundamentals.LatestEarnings,
		}
	}

	for _, h := range enriched {
		h.PortfolioPercentage = h.Investment.Div(totalInvestment).Mul(hundred).Round(2)
	}

	sectors := groupBySector(enriched)

	totalPresentValue := decimal.Zero
	for _, h := range enriched {
		totalPresentValue = totalPresentValue.Add(h.PresentValue)
	}

	totalGainLoss := totalPresentValue.Sub(totalInvestment)
	totalGainLossPercentage := totalGainLoss.Div(totalInvestment).Mul(hundred)

	return &Summary{
		Sectors:                 sectors,
		TotalInvestment:         totalInvestment,
		TotalPresentValue:       totalPresentValue,
		TotalGainLoss:           totalGainLoss,
		TotalGainLossPercentage: &totalGainLossPercentage,
	}, nil
}

type symbolQuote struct {
	price        *decimal.Decimal
	fundamentals models.Fundamentals
}

// fetchQuotes resolves price and fundamentals for every symbol
// concurrently. Each fetch is an independent network round trip; the
// fold over the results only starts once all of them are in.
func (s *portfolioService) fetchQuotes(symbols []string) map[string]symbolQuote {
	quotes := make(map[string]symbolQuote, len(symbols))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			var (
				q     symbolQuote
				inner sync.WaitGroup
			)

			inner.Add(2)
			go func() {
				defer inner.Done()
				q.price = s.marketdata.GetPrice(symbol)
			}()
			go func() {
				defer inner.Done()
				q.fundamentals = s.marketdata.GetFundamentals(symbol)
			}()
			inner.Wait()

			mu.Lock()
			quotes[symbol] = q
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()

	return quotes
}

func distinctSymbols(holdings []*models.Holding) []string {
	seen := map[string]bool{}
	symbols := []string{}
	for _, h := range holdings {
		if !seen[h.Stock.Symbol] {
			seen[h.Stock.Symbol] = true
			symbols = append(symbols, h.Stock.Symbol)
		}
	}
	return symbols
}

// groupBySector buckets holdings by sector name, preserving the order
// sectors are first encountered in.
func groupBySector(holdings []*PortfolioHolding) []*SectorSummary {
	index := map[string]*SectorSummary{}
	sectors := []*SectorSummary{}

	for _, h := range holdings {
		summary, ok := index[h.SectorName]
		if !ok {
			summary = &SectorSummary{
				SectorName:        h.SectorName,
				TotalInvestment:   decimal.Zero,
				TotalPresentValue: decimal.Zero,
				Holdings:          []*PortfolioHolding{},
			}
			index[h.SectorName] = summary
			sectors = append(sectors, summary)
		}

		summary.Holdings = append(summary.Holdings, h)
		summary.TotalInvestment = summary.TotalInvestment.Add(h.Investment)
		summary.TotalPresentValue = summary.TotalPresentValue.Add(h.PresentValue)
	}

	for _, summary := range sectors {
		summary.GainLoss = summary.TotalPresentValue.Sub(summary.TotalInvestment)
		summary.GainLossPercentage = summary.GainLoss.Div(summary.TotalInvestment).Mul(hundred)
	}

	return sectors
}
