package booking

import "time"

var earliestBirthDate = NewDate(1900, time.January, 1)

// CheckDateOfBirth enforces the birth date picker range: not after today and
// not before 1900-01-01.
func CheckDateOfBirth(d Date, now time.Time) error {
	if d.IsZero() {
		return nil
	}
	if d.After(DateOf(now)) {
		return ErrDateOfBirthInFuture
	}
	if d.Before(earliestBirthDate) {
		return ErrDateOfBirthTooEarly
	}
	return nil
}

// CheckPreferredDate rejects appointment days before today.
func CheckPreferredDate(d Date, now time.Time) error {
	if d.IsZero() {
		return nil
	}
	if d.Before(DateOf(now)) {
		return ErrPreferredDateInPast
	}
	return nil
}
