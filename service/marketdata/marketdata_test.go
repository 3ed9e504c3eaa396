package marketdata

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/quotecache"
)

type stubPrices struct {
	price decimal.Decimal
	err   error
	calls int
	last  string
}

func (s *stubPrices) GetPrice(symbol string) (decimal.Decimal, error) {
	s.calls++
	s.last = symbol
	return s.price, s.err
}

type stubFundamentals struct {
	f     models.Fundamentals
	err   error
	calls int
	last  string
}

func (s *stubFundamentals) GetOverview(symbol string) (models.Fundamentals, error) {
	s.calls++
	s.last = symbol
	return s.f, s.err
}

func TestGetPriceCachesProviderResult(t *testing.T) {
	prices := &stubPrices{price: decimal.RequireFromString("2500.50")}
	srv := Service(quotecache.NewMemory(), prices, &stubFundamentals{})

	first := srv.GetPrice("RELIANCE.NS")
	require.NotNil(t, first)
	assert.True(t, first.Equal(decimal.RequireFromString("2500.50")))

	second := srv.GetPrice("RELIANCE.NS")
	require.NotNil(t, second)
	assert.True(t, second.Equal(*first))

	// second read is served from cache
	assert.Equal(t, 1, prices.calls)
}

func TestGetPriceProviderFailure(t *testing.T) {
	cache := quotecache.NewMemory()
	prices := &stubPrices{err: errors.New("connection refused")}
	srv := Service(cache, prices, &stubFundamentals{})

	assert.Nil(t, srv.GetPrice("TCS.NS"))

	// failures are not cached
	_, err := cache.GetPrice("TCS.NS")
	assert.Equal(t, quotecache.ErrCacheMiss, err)
}

func TestGetFundamentalsStripsMarketSuffix(t *testing.T) {
	cache := quotecache.NewMemory()
	pe := 24.5
	fundamentals := &stubFundamentals{f: models.Fundamentals{PERatio: &pe}}
	srv := Service(cache, &stubPrices{}, fundamentals)

	f := srv.GetFundamentals("RELIANCE.NS")
	require.NotNil(t, f.PERatio)
	assert.Equal(t, 24.5, *f.PERatio)

	// the provider sees the bare symbol
	assert.Equal(t, "RELIANCE", fundamentals.last)

	// but the cache entry is keyed by the full symbol
	cached, err := cache.GetFundamentals("RELIANCE.NS")
	require.Nil(t, err)
	assert.Equal(t, 24.5, *cached.PERatio)
}

func TestGetFundamentalsCachesEmptyResult(t *testing.T) {
	fundamentals := &stubFundamentals{}
	srv := Service(quotecache.NewMemory(), &stubPrices{}, fundamentals)

	assert.True(t, srv.GetFundamentals("INFY.NS").Empty())
	assert.True(t, srv.GetFundamentals("INFY.NS").Empty())

	// an all-null overview still spares the provider quota
	assert.Equal(t, 1, fundamentals.calls)
}

func TestGetFundamentalsProviderFailure(t *testing.T) {
	fundamentals := &stubFundamentals{err: errors.New("rate limited")}
	srv := Service(quotecache.NewMemory(), &stubPrices{}, fundamentals)

	assert.True(t, srv.GetFundamentals("INFY.NS").Empty())
	assert.True(t, srv.GetFundamentals("INFY.NS").Empty())

	// failures are not cached, each call retries the provider
	assert.Equal(t, 2, fundamentals.calls)
}

func TestRefreshBustsCache(t *testing.T) {
	cache := quotecache.NewMemory()
	require.Nil(t, cache.SetPrice("SBIN.NS", decimal.RequireFromString("500")))

	pe := 11.2
	srv := Service(
		cache,
		&stubPrices{price: decimal.RequireFromString("580")},
		&stubFundamentals{f: models.Fundamentals{PERatio: &pe}},
	)

	quote, err := srv.Refresh("SBIN.NS")
	require.Nil(t, err)
	assert.Equal(t, "SBIN.NS", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("580")))
	require.NotNil(t, quote.PERatio)
	assert.Equal(t, 11.2, *quote.PERatio)

	cached, err := cache.GetPrice("SBIN.NS")
	require.Nil(t, err)
	assert.True(t, cached.Equal(decimal.RequireFromString("580")))
}

func TestRefreshSurfacesPriceError(t *testing.T) {
	srv := Service(
		quotecache.NewMemory(),
		&stubPrices{err: errors.New("no result")},
		&stubFundamentals{},
	)

	quote, err := srv.Refresh("GARBAGE")
	assert.Nil(t, quote)
	assert.NotNil(t, err)
}

func TestRefreshSurfacesFundamentalsError(t *testing.T) {
	srv := Service(
		quotecache.NewMemory(),
		&stubPrices{price: decimal.New(100, 0)},
		&stubFundamentals{err: errors.New("rate limited")},
	)

	quote, err := srv.Refresh("ITC.NS")
	assert.Nil(t, quote)
	assert.NotNil(t, err)
}
