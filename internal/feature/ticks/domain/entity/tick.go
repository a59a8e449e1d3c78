// Package entity defines the domain models for the ticks feature.
package entity

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the persisted trade date format.
	DateLayout = "2006-01-02"
	// TimeLayout is the persisted trade time format (millisecond precision).
	TimeLayout = "15:04:05.000"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}$`)
)

// Tick represents one trade execution for a security as reported by the quote source.
// The natural key is (ISIN, TradeDate, ID).
type Tick struct {
	ISIN      string          // Security identifier (e.g., "DE0007100000")
	ID        int64           // Upstream tick id, monotonically assigned per security
	TradeDate string          // Trade date, "YYYY-MM-DD"
	TradeTime string          // Trade time, "HH:MM:SS.mmm"
	Price     decimal.Decimal // Execution price
	Turnover  decimal.Decimal // Traded volume / turnover
}

// Key identifies a tick independent of its mutable fields.
type Key struct {
	ISIN      string
	TradeDate string
	ID        int64
}

// Key returns the natural key of the tick.
func (t Tick) Key() Key {
	return Key{ISIN: t.ISIN, TradeDate: t.TradeDate, ID: t.ID}
}

// Validate checks the record shape the store requires.
func (t Tick) Validate() error {
	switch {
	case len(t.ISIN) < 8:
		return fmt.Errorf("tick %d: isin %q too short", t.ID, t.ISIN)
	case t.ID < 1:
		return fmt.Errorf("tick id %d must be positive", t.ID)
	case !datePattern.MatchString(t.TradeDate):
		return fmt.Errorf("tick %d: trade date %q is not YYYY-MM-DD", t.ID, t.TradeDate)
	case !timePattern.MatchString(t.TradeTime):
		return fmt.Errorf("tick %d: trade time %q is not HH:MM:SS.mmm", t.ID, t.TradeTime)
	case t.Price.IsNegative():
		return fmt.Errorf("tick %d: negative price %s", t.ID, t.Price)
	case t.Turnover.IsNegative():
		return fmt.Errorf("tick %d: negative turnover %s", t.ID, t.Turnover)
	}
	return nil
}
