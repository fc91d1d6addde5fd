package domain

import (
	"time"
)

// KlineRecord is the persisted form of a closed bar.
// (Symbol, Interval, OpenTime) identifies a bar.
type KlineRecord struct {
	Symbol                   string    `gorm:"primaryKey" json:"symbol"`
	Interval                 string    `gorm:"primaryKey" json:"interval"`
	OpenTime                 int64     `gorm:"primaryKey;autoIncrement:false" json:"open_time"`
	CloseTime                int64     `json:"close_time"`
	FirstTradeID             int64     `json:"first_trade_id"`
	LastTradeID              int64     `json:"last_trade_id"`
	Open                     string    `json:"open"`
	Close                    string    `json:"close"`
	High                     string    `json:"high"`
	Low                      string    `json:"low"`
	Volume                   string    `json:"volume"`
	NumberOfTrades           int64     `json:"number_of_trades"`
	QuoteAssetVolume         string    `json:"quote_asset_volume"`
	TakerBuyBaseAssetVolume  string    `json:"taker_buy_base_asset_volume"`
	TakerBuyQuoteAssetVolume string    `json:"taker_buy_quote_asset_volume"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// NewKlineRecord converts a bar to its persisted form
func NewKlineRecord(k Kline) *KlineRecord {
	return &KlineRecord{
		Symbol:                   k.Symbol,
		Interval:                 k.Interval,
		OpenTime:                 k.OpenTime,
		CloseTime:                k.CloseTime,
		FirstTradeID:             k.FirstTradeID,
		LastTradeID:              k.LastTradeID,
		Open:                     k.Open,
		Close:                    k.Close,
		High:                     k.High,
		Low:                      k.Low,
		Volume:                   k.Volume,
		NumberOfTrades:           k.NumberOfTrades,
		QuoteAssetVolume:         k.QuoteAssetVolume,
		TakerBuyBaseAssetVolume:  k.TakerBuyBaseAssetVolume,
		TakerBuyQuoteAssetVolume: k.TakerBuyQuoteAssetVolume,
	}
}

// Kline converts the record back to a bar. Stored bars are always final.
func (r *KlineRecord) Kline() Kline {
	return Kline{
		OpenTime:                 r.OpenTime,
		CloseTime:                r.CloseTime,
		Symbol:                   r.Symbol,
		Interval:                 r.Interval,
		FirstTradeID:             r.FirstTradeID,
		LastTradeID:              r.LastTradeID,
		Open:                     r.Open,
		Close:                    r.Close,
		High:                     r.High,
		Low:                      r.Low,
		Volume:                   r.Volume,
		NumberOfTrades:           r.NumberOfTrades,
		IsFinalBar:               true,
		QuoteAssetVolume:         r.QuoteAssetVolume,
		TakerBuyBaseAssetVolume:  r.TakerBuyBaseAssetVolume,
		TakerBuyQuoteAssetVolume: r.TakerBuyQuoteAssetVolume,
	}
}
