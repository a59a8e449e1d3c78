package tradegate

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"tick_backend/internal/feature/ticks/domain/entity"
)

var (
	errEmptyNumber = errors.New("empty number")
	errInvalidID   = errors.New("tick id must be a positive integer")
)

// NormalizeNumber parses a localized numeric string. Whitespace (including
// non-breaking and thin spaces used as thousands separators) is removed.
// When a comma is present it is the decimal separator and dots are
// thousands separators: "1.234,56" -> 1234.56, "12,5" -> 12.5.
func NormalizeNumber(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	if s == "" {
		return decimal.Zero, errEmptyNumber
	}
	return decimal.NewFromString(s)
}

// normalizeDate accepts ISO and German dates and returns "YYYY-MM-DD".
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{entity.DateLayout, "02.01.2006"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(entity.DateLayout), nil
		}
	}
	_, err := time.Parse(entity.DateLayout, raw)
	return "", err
}

// normalizeTime returns "HH:MM:SS.mmm"; a missing fraction becomes ".000"
// and sub-millisecond digits are truncated.
func normalizeTime(raw string) (string, error) {
	t, err := time.Parse("15:04:05", strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return t.Format(entity.TimeLayout), nil
}
