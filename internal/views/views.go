// Package views computes the presentational projections of the
// catalogue: dashboard statistics, expiry-sorted list order with status
// banding, and the calendar month grid. Everything here is a pure
// function of (collections, now).
package views

import (
	"fmt"
	"sort"
	"time"

	"prodtrack/internal/model"
)

const (
	// soonWindowDays is the inclusive "expiring soon" horizon: a
	// product expiring today up to 3 days from today counts.
	soonWindowDays = 3

	// recentCount caps the dashboard's recent-products strip.
	recentCount = 5
)

// Stats summarises the catalogue for the dashboard.
type Stats struct {
	ExpiringSoon int             `json:"expiringSoon"`
	Expired      int             `json:"expired"`
	Total        int             `json:"total"`
	Recent       []model.Product `json:"recent"`
}

// Dashboard computes the dashboard statistics at day granularity.
// Time of day never affects the counts: both "now" and each expiry are
// truncated to their calendar day before differencing.
func Dashboard(products []model.Product, now time.Time) Stats {
	today := model.Day(now)

	s := Stats{Total: len(products)}
	for _, p := range products {
		d, ok := p.ExpiryTime()
		if !ok {
			continue
		}
		switch days := int(d.Sub(today) / (24 * time.Hour)); {
		case days < 0:
			s.Expired++
		case days <= soonWindowDays:
			s.ExpiringSoon++
		}
	}

	n := min(recentCount, len(products))
	s.Recent = append([]model.Product(nil), products[:n]...)
	return s
}

// Order is a list sort direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// farFuture stands in for a missing expiry date so that undated
// products collate after every dated one ascending, and before them
// descending. The magnitude is irrelevant as long as it outlives any
// real date.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// SortByExpiry returns a copy of products ordered by expiry date. The
// sort is stable, so equally dated products keep their insertion order.
func SortByExpiry(products []model.Product, order Order) []model.Product {
	out := append([]model.Product(nil), products...)

	key := func(p model.Product) time.Time {
		if d, ok := p.ExpiryTime(); ok {
			return d
		}
		return farFuture
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if order == Descending {
			return b.Before(a)
		}
		return a.Before(b)
	})
	return out
}

// Status is the expiry band a product falls into.
type Status string

const (
	StatusExpired Status = "expired" // strictly before today
	StatusSoon    Status = "soon"    // today through soonWindowDays
	StatusOK      Status = "ok"      // further out
	StatusNone    Status = "none"    // no usable expiry date
)

// StatusOf bands a product by its expiry relative to now, at day
// granularity.
func StatusOf(p model.Product, now time.Time) Status {
	d, ok := p.ExpiryTime()
	if !ok {
		return StatusNone
	}
	today := model.Day(now)
	switch days := int(d.Sub(today) / (24 * time.Hour)); {
	case days < 0:
		return StatusExpired
	case days <= soonWindowDays:
		return StatusSoon
	default:
		return StatusOK
	}
}

// DayCell is one cell of the month grid. Day 0 marks a leading blank
// cell padding the first week.
type DayCell struct {
	Day    int                   `json:"day"`
	Events []model.CalendarEvent `json:"events,omitempty"`
}

// Month is a 7-column, Monday-first calendar month.
type Month struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Cells []DayCell `json:"cells"`
}

// MonthGrid lays out the given month with events placed on their exact
// expiry dates. Leading blanks pad the first row up to the weekday of
// day 1, with Monday as column zero.
func MonthGrid(events []model.CalendarEvent, year int, month time.Month) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Reindex Go's Sunday-first weekday so Monday is 0.
	lead := (int(first.Weekday()) + 6) % 7

	byDate := make(map[string][]model.CalendarEvent, len(events))
	for _, ev := range events {
		byDate[ev.ExpiryDate] = append(byDate[ev.ExpiryDate], ev)
	}

	cells := make([]DayCell, 0, lead+daysInMonth)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		cells = append(cells, DayCell{Day: day, Events: byDate[date]})
	}

	return Month{Year: year, Month: int(month), Cells: cells}
}
