package usecase

// cursor tracks the highest tick id fetched for one security during a run.
// The zero value is unset, which requests ticks from the start of the day.
type cursor struct {
	last int64
}

// After returns the id to pass as the "after" filter; 0 when unset.
func (c *cursor) After() int64 {
	return c.last
}

// Advance moves the cursor to id. It refuses to move backwards or stay in
// place, which would make the loop request the same page again.
func (c *cursor) Advance(id int64) bool {
	if id <= c.last {
		return false
	}
	c.last = id
	return true
}
