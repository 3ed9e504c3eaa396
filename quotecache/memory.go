package quotecache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/models"
)

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

// Memory is an in-process Cache with the same expiry semantics as the
// redis implementation. The service test suites run against it.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}}
}

func (m *Memory) get(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (m *Memory) GetPrice(symbol string) (decimal.Decimal, error) {
	v, ok := m.get(PriceKey(symbol))
	if !ok {
		return decimal.Zero, ErrCacheMiss
	}
	return v.(decimal.Decimal), nil
}

func (m *Memory) SetPrice(symbol string, price decimal.Decimal) error {
	m.set(PriceKey(symbol), price, PriceTTL)
	return nil
}

func (m *Memory) GetFundamentals(symbol string) (models.Fundamentals, error) {
	v, ok := m.get(FundamentalsKey(symbol))
	if !ok {
		return models.Fundamentals{}, ErrCacheMiss
	}
	return v.(models.Fundamentals), nil
}

func (m *Memory) SetFundamentals(symbol string, f models.Fundamentals) error {
	m.set(FundamentalsKey(symbol), f, FundamentalsTTL)
	return nil
}

func (m *Memory) Invalidate(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, PriceKey(symbol))
	delete(m.entries, FundamentalsKey(symbol))
	return nil
}
