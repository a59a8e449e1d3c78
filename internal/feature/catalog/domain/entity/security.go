// Package entity defines the domain models for the catalog feature.
package entity

import (
	"errors"
	"strings"
)

// ErrInvalidISIN is returned when an identifier is not a well-formed ISIN.
var ErrInvalidISIN = errors.New("invalid isin")

// Security represents a tradable instrument listed in one of the static catalogs.
type Security struct {
	ISIN string `json:"isin"`           // e.g. "DE0007100000"
	Name string `json:"name,omitempty"` // Display name, optional
}

// NormalizeISIN upper-cases and trims an identifier and verifies its shape and check digit.
func NormalizeISIN(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 12 {
		return "", ErrInvalidISIN
	}
	for i, r := range s {
		switch {
		case i < 2 && (r < 'A' || r > 'Z'):
			return "", ErrInvalidISIN
		case i == 11 && (r < '0' || r > '9'):
			return "", ErrInvalidISIN
		case (r < 'A' || r > 'Z') && (r < '0' || r > '9'):
			return "", ErrInvalidISIN
		}
	}
	if !luhn(s) {
		return "", ErrInvalidISIN
	}
	return s, nil
}

// luhn expands letters to two digits (A=10 .. Z=35) and runs the Luhn check.
func luhn(s string) bool {
	digits := make([]int, 0, 24)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			v := int(r-'A') + 10
			digits = append(digits, v/10, v%10)
			continue
		}
		digits = append(digits, int(r-'0'))
	}

	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}
