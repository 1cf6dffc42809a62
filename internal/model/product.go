package model

import (
	"time"

	"github.com/araddon/dateparse"
)

// Product is one tracked item in the catalogue.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	ExpiryDate string    `json:"expiryDate,omitempty"` // YYYY-MM-DD, empty when unknown
	ScannedAt  time.Time `json:"scannedAt"`
}

// ProductFields carries the mutable fields of a product, as submitted by
// the entry form or recovered from a scan. ID and ScannedAt are assigned
// by the catalogue and never taken from here.
type ProductFields struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ExpiryDate string `json:"expiryDate"`
}

// ExpiryTime returns the product's expiry as a day-truncated time.
// ok is false when the product has no expiry date or the stored value
// does not parse; callers treat both the same way.
func (p Product) ExpiryTime() (time.Time, bool) {
	return ParseDay(p.ExpiryDate)
}

// ParseDay parses a calendar date leniently and truncates it to day
// granularity in UTC. Empty or unparseable input reports ok=false.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return Day(t), true
}

// Day truncates t to midnight UTC so date comparisons are calendar-day
// granular regardless of time of day or zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
