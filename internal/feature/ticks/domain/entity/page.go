package entity

// Page is one normalized response of the trade-ticks endpoint.
type Page struct {
	// Ticks holds the usable records sorted by ascending ID, one per ID.
	Ticks []Tick
	// MaxID is the highest tick id seen in the raw response, including
	// records that were discarded (no trade date) or skipped as malformed.
	MaxID int64
	// Raw is the number of entries the upstream returned before filtering.
	Raw int
}

// Empty reports whether the upstream returned nothing, which ends pagination.
func (p Page) Empty() bool {
	return p.Raw == 0
}
