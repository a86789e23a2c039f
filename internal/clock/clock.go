// Package clock abstracts the current time so services can be tested with a fixed instant.
package clock

import (
	"fmt"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock pinned to a time zone.
type System struct {
	loc *time.Location
}

// NewSystem returns a System clock for the IANA zone name; "" means UTC.
func NewSystem(zone string) (System, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return System{}, err
	}
	return System{loc: loc}, nil
}

// UTC returns a System clock in UTC.
func UTC() System { return System{loc: time.UTC} }

// Now returns the current time in the clock's zone.
func (s System) Now() time.Time { return time.Now().In(s.location()) }

// Today returns midnight of the current day in the clock's zone.
func (s System) Today() time.Time { return midnight(s.Now()) }

// Location returns the zone the clock is pinned to.
func (s System) Location() *time.Location { return s.location() }

func (s System) location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

// Fixed always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }

// NowIn returns the current time in the named zone.
func NowIn(zone string) (time.Time, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// TodayIn returns midnight of the current day in the named zone.
func TodayIn(zone string) (time.Time, error) {
	now, err := NowIn(zone)
	if err != nil {
		return time.Time{}, err
	}
	return midnight(now), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func loadZone(zone string) (*time.Location, error) {
	if zone == "" || zone == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("clock: load zone %q: %w", zone, err)
	}
	return loc, nil
}
