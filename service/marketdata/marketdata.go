package marketdata

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/quotecache"
)

// PriceProvider returns the latest traded price for a symbol.
type PriceProvider interface {
	GetPrice(symbol string) (decimal.Decimal, error)
}

// FundamentalsProvider returns valuation metrics for a bare symbol.
type FundamentalsProvider interface {
	GetOverview(symbol string) (models.Fundamentals, error)
}

// Quote is the result of an explicit refresh.
type Quote struct {
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	PERatio        *float64        `json:"peRatio"`
	LatestEarnings *float64        `json:"latestEarnings"`
}

// MarketDataService resolves prices and fundamentals through the quote
// cache. GetPrice and GetFundamentals never fail: provider trouble
// degrades to a nil price or all-null fundamentals so a single bad
// symbol cannot take down a whole portfolio computation. Refresh is the
// deliberate exception and surfaces provider errors to its caller.
type MarketDataService interface {
	GetPrice(symbol string) *decimal.Decimal
	GetFundamentals(symbol string) models.Fundamentals
	Refresh(symbol string) (*Quote, error)
}

type marketDataService struct {
	cache        quotecache.Cache
	prices       PriceProvider
	fundamentals FundamentalsProvider
}

func Service(cache quotecache.Cache, prices PriceProvider, fundamentals FundamentalsProvider) MarketDataService {
	return &marketDataService{
		cache:        cache,
		prices:       prices,
		fundamentals: fundamentals,
	}
}

func (s *marketDataService) GetPrice(symbol string) *decimal.Decimal {
	if cached, err := s.cache.GetPrice(symbol); err == nil {
		return &cached
	}

	price, err := s.prices.GetPrice(symbol)
	if err != nil {
		log.Warn("price fetch failed", "symbol", symbol, "error", err)
		return nil
	}

	if err := s.cache.SetPrice(symbol, price); err != nil {
		log.Warn("price cache store failed", "symbol", symbol, "error", err)
	}

	return &price
}

func (s *marketDataService) GetFundamentals(symbol string) models.Fundamentals {
	if cached, err := s.cache.GetFundamentals(symbol); err == nil {
		return cached
	}

	f, err := s.fundamentals.GetOverview(models.CleanSymbol(symbol))
	if err != nil {
		log.Warn("fundamentals fetch failed", "symbol", symbol, "error", err)
		return models.Fundamentals{}
	}

	// an all-null result is still a result; cache it to spare the
	// provider quota
	if err := s.cache.SetFundamentals(symbol, f); err != nil {
		log.Warn("fundamentals cache store failed", "symbol", symbol, "error", err)
	}

	return f
}

func (s *marketDataService) Refresh(symbol string) (*Quote, error) {
	if err := s.cache.Invalidate(symbol); err != nil {
		return nil, errors.Wrap(err, "failed to invalidate quote cache")
	}

	price, err := s.prices.GetPrice(symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to refresh price for %v", symbol)
	}

	f, err := s.fundamentals.GetOverview(models.CleanSymbol(symbol))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to refresh fundamentals for %v", symbol)
	}

	if err := s.cache.SetPrice(symbol, price); err != nil {
		log.Warn("price cache store failed", "symbol", symbol, "error", err)
	}
	if err := s.cache.SetFundamentals(symbol, f); err != nil {
		log.Warn("fundamentals cache store failed", "symbol", symbol, "error", err)
	}

	return &Quote{
		Symbol:         symbol,
		Price:          price,
		PERatio:        f.PERatio,
		LatestEarnings: f.LatestEarnings,
	}, nil
}
