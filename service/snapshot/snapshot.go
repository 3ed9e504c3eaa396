package snapshot

import (
	"github.com/jinzhu/gorm"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/pferrors"
	"github.com/sysdevguru/stockfolio/service/marketdata"
)

// SnapshotService records historical price/fundamentals rows in
// stock_prices. Nothing on the aggregation path reads them back; they
// exist for offline analysis and charting.
type SnapshotService interface {
	Record(quote *marketdata.Quote) (*models.StockPrice, error)
	Sweep() (int, error)
	WithTx(tx *gorm.DB) SnapshotService
}

type snapshotService struct {
	SnapshotService
	tx         *gorm.DB
	marketdata marketdata.MarketDataService
}

func Service(md marketdata.MarketDataService) SnapshotService {
	return &snapshotService{marketdata: md}
}

func (s *snapshotService) WithTx(tx *gorm.DB) SnapshotService {
	s.tx = tx
	return s
}

// Record stores a snapshot row for the quoted symbol. Symbols that are
// not tracked in the stocks table are skipped, not failed: refresh is
// allowed for arbitrary symbols.
func (s *snapshotService) Record(quote *marketdata.Quote) (*models.StockPrice, error) {
	stock := &models.Stock{}

	q := s.tx.Where("symbol = ?", quote.Symbol).Find(stock)

	if q.RecordNotFound() {
		log.Debug("snapshot skipped for untracked symbol", "symbol", quote.Symbol)
		return nil, nil
	}

	if q.Error != nil {
		return nil, pferrors.InternalServerError.WithError(q.Error)
	}

	snap := &models.StockPrice{
		StockID:        stock.ID,
		Price:          quote.Price,
		PERatio:        quote.PERatio,
		LatestEarnings: quote.LatestEarnings,
	}

	if err := s.tx.Create(snap).Error; err != nil {
		return nil, pferrors.InternalServerError.WithError(err)
	}

	return snap, nil
}

// Sweep records a snapshot for every stock currently held by anyone,
// using the tolerant cache-then-provider path. Stocks whose price is
// unavailable are skipped. Returns the number of rows recorded.
func (s *snapshotService) Sweep() (int, error) {
	stocks := []*models.Stock{}

	err := s.tx.
		Joins("JOIN holdings ON holdings.stock_id = stocks.id").
		Group("stocks.id").
		Find(&stocks).Error

	if err != nil {
		return 0, pferrors.InternalServerError.WithError(err)
	}

	recorded := 0

	for _, stock := range stocks {
		price := s.marketdata.GetPrice(stock.Symbol)
		if price == nil {
			log.Warn("snapshot sweep: price unavailable", "symbol", stock.Symbol)
			continue
		}

		f := s.marketdata.GetFundamentals(stock.Symbol)

		snap := &models.StockPrice{
			StockID:        stock.ID,
			Price:          *price,
			PERatio:        f.PERatio,
			LatestEarnings: f.LatestEarnings,
		}

		if err := s.tx.Create(snap).Error; err != nil {
			return recorded, pferrors.InternalServerError.WithError(err)
		}
		recorded++
	}

	return recorded, nil
}
