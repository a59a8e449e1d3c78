package entity

import "github.com/shopspring/decimal"

// Quote is the current snapshot of a security on the quote source.
type Quote struct {
	ISIN       string
	Bid        decimal.Decimal
	Ask        decimal.Decimal
	BidSize    decimal.Decimal
	AskSize    decimal.Decimal
	Delta      decimal.Decimal // Change against previous close, in percent
	Last       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal // Previous close
	Avg        decimal.Decimal
	Pieces     decimal.Decimal // Number of shares traded
	Turnover   decimal.Decimal
	Executions int64
}
