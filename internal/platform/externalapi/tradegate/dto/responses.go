// Package dto defines data transfer objects for the Tradegate endpoint responses.
package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Number holds a numeric field that the upstream sends either as a JSON
// number or as a localized string ("1.234,56"). Raw keeps the text unchanged.
type Number struct {
	Raw string
}

// UnmarshalJSON accepts numbers, strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.Raw = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Raw = s
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	n.Raw = num.String()
	return nil
}

// Int64 parses Raw as a base-10 integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(n.Raw, 10, 64)
}

// Trade is one entry of the umsaetze.php response.
type Trade struct {
	ID       Number `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Price    Number `json:"price"`
	Turnover Number `json:"umsatz"`
}

// Quote is the refresh.php response.
type Quote struct {
	Bid        Number `json:"bid"`
	Ask        Number `json:"ask"`
	BidSize    Number `json:"bidsize"`
	AskSize    Number `json:"asksize"`
	Delta      Number `json:"delta"`
	Pieces     Number `json:"stueck"`
	Turnover   Number `json:"umsatz"`
	Avg        Number `json:"avg"`
	Executions Number `json:"executions"`
	Last       Number `json:"last"`
	High       Number `json:"high"`
	Low        Number `json:"low"`
	Close      Number `json:"close"`
}
