// Package quotecache fronts the market data providers with a shared
// redis cache. Price entries expire after a minute, fundamentals after
// an hour; invalidation removes both.
package quotecache

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/vmihailenco/msgpack"
)

const (
	PriceTTL        = time.Minute
	FundamentalsTTL = time.Hour
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = cache.ErrCacheMiss

func PriceKey(symbol string) string {
	return fmt.Sprintf("price:%s", symbol)
}

func FundamentalsKey(symbol string) string {
	return fmt.Sprintf("fundamentals:%s", symbol)
}

// Cache is the quote cache consumed by the market data service.
type Cache interface {
	GetPrice(symbol string) (decimal.Decimal, error)
	SetPrice(symbol string, price decimal.Decimal) error
	GetFundamentals(symbol string) (models.Fundamentals, error)
	SetFundamentals(symbol string, f models.Fundamentals) error
	Invalidate(symbol string) error
}

var (
	once sync.Once
	rc   *redis.Client
)

// Client returns the process-wide redis client.
func Client() *redis.Client {
	once.Do(func() {
		var scheme string
		if env.GetVar("REDIS_USE_SSL") != "" {
			scheme = "rediss"
		} else {
			scheme = "redis"
		}

		db, _ := strconv.ParseInt(env.GetVar("REDIS_DB"), 10, 8)

		password := env.GetVar("REDIS_PASSWORD")
		var options *redis.Options
		if password != "" {
			options, _ = redis.ParseURL(fmt.Sprintf("%v://:%v@%v:%v/%v", scheme, password, env.GetVar("REDIS_HOST"), env.GetVar("REDIS_PORT"), db))
		} else {
			options, _ = redis.ParseURL(fmt.Sprintf("%v://%v:%v/%v", scheme, env.GetVar("REDIS_HOST"), env.GetVar("REDIS_PORT"), db))
		}

		rc = redis.NewClient(options)
		if err := rc.Ping().Err(); err != nil {
			log.Fatal("redis initialization failure", "error", err)
		}
	})
	return rc
}

type redisCache struct {
	codec *cache.Codec
}

// New returns a Cache backed by the shared redis client.
func New() Cache {
	return &redisCache{
		codec: &cache.Codec{
			Redis: Client(),
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

func (c *redisCache) GetPrice(symbol string) (decimal.Decimal, error) {
	var raw string
	if err := c.codec.Get(PriceKey(symbol), &raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func (c *redisCache) SetPrice(symbol string, price decimal.Decimal) error {
	return c.codec.Set(&cache.Item{
		Key:        PriceKey(symbol),
		Object:     price.String(),
		Expiration: PriceTTL,
	})
}

func (c *redisCache) GetFundamentals(symbol string) (models.Fundamentals, error) {
	f := models.Fundamentals{}
	err := c.codec.Get(FundamentalsKey(symbol), &f)
	return f, err
}

func (c *redisCache) SetFundamentals(symbol string, f models.Fundamentals) error {
	return c.codec.Set(&cache.Item{
		Key:        FundamentalsKey(symbol),
		Object:     f,
		Expiration: FundamentalsTTL,
	})
}

func (c *redisCache) Invalidate(symbol string) error {
	if err := c.codec.Delete(PriceKey(symbol)); err != nil && err != redis.Nil {
		return err
	}
	if err := c.codec.Delete(FundamentalsKey(symbol)); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
