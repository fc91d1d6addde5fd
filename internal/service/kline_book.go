package service

import (
	"sort"
	"sync"

	"kline_feed/internal/domain"

	"github.com/shopspring/decimal"
)

// BarSummary is the decimal view of the latest bar for one symbol
type BarSummary struct {
	Symbol     string           `json:"symbol"`
	Interval   string           `json:"interval"`
	High       decimal.Decimal  `json:"high"`
	Low        decimal.Decimal  `json:"low"`
	Range      decimal.Decimal  `json:"range"`
	ChangePct  *decimal.Decimal `json:"change_pct,omitempty"`
	Direction  string           `json:"direction"`
	IsFinalBar bool             `json:"is_final_bar"`
	ClosedBars int              `json:"closed_bars"`
}

// KlineBook keeps the most recent bar per symbol.
// Update is called from the stream handler; readers may run on other goroutines.
type KlineBook struct {
	mu         sync.RWMutex
	latest     map[string]domain.Kline
	closedBars map[string]int
}

// NewKlineBook creates an empty KlineBook
func NewKlineBook() *KlineBook {
	return &KlineBook{
		latest:     make(map[string]domain.Kline),
		closedBars: make(map[string]int),
	}
}

// Update records ev. Bars older than the stored one are ignored.
func (b *KlineBook) Update(ev *domain.KlineEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := ev.Kline
	symbol := k.Symbol
	if symbol == "" {
		symbol = ev.Symbol
	}

	if prev, ok := b.latest[symbol]; ok && k.OpenTime < prev.OpenTime {
		return
	}
	b.latest[symbol] = k
	if k.IsFinalBar {
		b.closedBars[symbol]++
	}
}

// Get returns the latest bar for symbol
func (b *KlineBook) Get(symbol string) (domain.Kline, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	k, ok := b.latest[symbol]
	return k, ok
}

// GetAll returns the latest bars sorted by symbol
func (b *KlineBook) GetAll() []domain.Kline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.Kline, 0, len(b.latest))
	for _, k := range b.latest {
		result = append(result, k)
	}

	// Sort by symbol for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result
}

// Summary computes decimal statistics for the latest bar of symbol
func (b *KlineBook) Summary(symbol string) (BarSummary, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	k, ok := b.latest[symbol]
	if !ok {
		return BarSummary{}, false
	}

	return BarSummary{
		Symbol:     symbol,
		Interval:   k.Interval,
		High:       k.HighDecimal(),
		Low:        k.LowDecimal(),
		Range:      k.Range(),
		ChangePct:  k.ChangePct(),
		Direction:  k.Direction(),
		IsFinalBar: k.IsFinalBar,
		ClosedBars: b.closedBars[symbol],
	}, true
}
