package dto

import "github.com/shopspring/decimal"

// TickResponse は約定ティックのレスポンスDTOです。
// 価格と売買代金は精度を保つため文字列としてシリアライズされます。
type TickResponse struct {
	ID       int64           `json:"id"`       // 上流のティックID
	Date     string          `json:"date"`     // 取引日
	Time     string          `json:"time"`     // 約定時刻
	Price    decimal.Decimal `json:"price"`    // 約定価格
	Turnover decimal.Decimal `json:"turnover"` // 売買代金
}

// QuoteResponse は気配値スナップショットのレスポンスDTOです。
type QuoteResponse struct {
	ISIN       string          `json:"isin"`
	Bid        decimal.Decimal `json:"bid"`
	Ask        decimal.Decimal `json:"ask"`
	BidSize    decimal.Decimal `json:"bid_size"`
	AskSize    decimal.Decimal `json:"ask_size"`
	Last       decimal.Decimal `json:"last"`
	Delta      decimal.Decimal `json:"delta"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Avg        decimal.Decimal `json:"avg"`
	Pieces     decimal.Decimal `json:"pieces"`
	Turnover   decimal.Decimal `json:"turnover"`
	Executions int64           `json:"executions"`
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
