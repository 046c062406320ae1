package valueobject

import (
	"errors"
	"fmt"
	"time"
)

// BillingPeriod identifies a calendar month used for invoice aggregation
type BillingPeriod struct {
	month int
	year  int
}

// NewBillingPeriod creates a BillingPeriod after validating month and year
func NewBillingPeriod(month, year int) (BillingPeriod, error) {
	if month < 1 || month > 12 {
		return BillingPeriod{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 2100 {
		return BillingPeriod{}, fmt.Errorf("year must be between 2000 and 2100, got %d", year)
	}
	return BillingPeriod{month: month, year: year}, nil
}

// BillingPeriodOf returns the period containing the given time
func BillingPeriodOf(t time.Time) BillingPeriod {
	return BillingPeriod{month: int(t.Month()), year: t.Year()}
}

// Month returns the calendar month (1-12)
func (p BillingPeriod) Month() int {
	return p.month
}

// Year returns the calendar year
func (p BillingPeriod) Year() int {
	return p.year
}

// Start returns the first instant of the period in UTC
func (p BillingPeriod) Start() time.Time {
	return time.Date(p.year, time.Month(p.month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following period in UTC
func (p BillingPeriod) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the period
func (p BillingPeriod) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// Key returns the compact YYYYMM representation used in invoice numbers
func (p BillingPeriod) Key() string {
	return fmt.Sprintf("%04d%02d", p.year, p.month)
}

// String returns a human-readable representation
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, p.month)
}

// Equals returns true if both periods cover the same month
func (p BillingPeriod) Equals(other BillingPeriod) bool {
	return p.month == other.month && p.year == other.year
}

// IsZero reports whether the period is the zero value
func (p BillingPeriod) IsZero() bool {
	return p.month == 0 && p.year == 0
}

// Validate checks the period is usable
func (p BillingPeriod) Validate() error {
	if p.IsZero() {
		return errors.New("billing period is not set")
	}
	_, err := NewBillingPeriod(p.month, p.year)
	return err
}
