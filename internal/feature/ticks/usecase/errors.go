// Package usecase implements the ingestion pipeline and read queries for the ticks feature.
package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyCatalog is returned when a run is started without any valid security.
	ErrEmptyCatalog = errors.New("no securities to ingest")

	// ErrInvalidDate is returned when a query date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid trade date")
)

// RetryExhaustedError is the terminal failure of a security whose page
// fetch kept failing past the configured retry ceiling.
type RetryExhaustedError struct {
	ISIN     string
	Attempts int
	Elapsed  time.Duration
	Err      error // last fetch error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts in %s: %v", e.ISIN, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }
