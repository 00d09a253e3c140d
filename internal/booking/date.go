package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

const isoDate = "2006-01-02"

// DefaultTimeZone is the clinic zone timestamps are read in unless a profile
// names another one.
const DefaultTimeZone = "Africa/Nairobi"

// DefaultLocation loads DefaultTimeZone, falling back to a fixed UTC+3 zone
// when the host has no zoneinfo.
var DefaultLocation = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
})

// Date is a calendar day without a time zone. The zero value means the field
// was not picked. A Date parsed from a timestamp remembers the instant so the
// day can be re-read in another zone with In.
type Date struct {
	t       time.Time
	instant time.Time
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp. A timestamp is an
// instant, so its day is the one on the clinic's calendar (DefaultLocation),
// not the one in the offset it was written in.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(isoDate, raw); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return dateAt(t, DefaultLocation()), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// MustParseDate is ParseDate for literals; it panics on bad input.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func dateAt(instant time.Time, loc *time.Location) Date {
	d := DateOf(instant.In(loc))
	d.instant = instant
	return d
}

// In re-reads a timestamp-derived Date on loc's calendar. Plain dates and a
// nil loc leave d unchanged.
func (d Date) In(loc *time.Location) Date {
	if loc == nil || d.instant.IsZero() {
		return d
	}
	return dateAt(d.instant, loc)
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Format renders the day with a Go time layout.
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

func (d Date) String() string { return d.Format(isoDate) }

// MarshalJSON encodes the day as "2006-01-02", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, "" , a plain date or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
