package domain

// KlineRepository defines how closed bars are archived
type KlineRepository interface {
	SaveKline(k Kline) error
	FindKlines(symbol, interval string, limit int) ([]Kline, error)
	LatestKline(symbol, interval string) (*Kline, error)
}
