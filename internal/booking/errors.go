package booking

import "errors"

var (
	// ErrMissingRequiredFields is returned when a mandatory top-level field is
	// empty or the terms were not accepted.
	ErrMissingRequiredFields = errors.New("missing required fields")

	// ErrIncompletePatientInfo is returned when booking for someone else
	// without the patient's name, age and relationship.
	ErrIncompletePatientInfo = errors.New("incomplete patient information")

	// ErrDateOfBirthInFuture is returned by the date of birth picker rule.
	ErrDateOfBirthInFuture = errors.New("date of birth cannot be in the future")

	// ErrDateOfBirthTooEarly is returned for birth dates before 1900-01-01.
	ErrDateOfBirthTooEarly = errors.New("date of birth cannot be before 1900")

	// ErrPreferredDateInPast is returned by the appointment date picker rule.
	ErrPreferredDateInPast = errors.New("preferred date cannot be in the past")

	// ErrUnsupportedReferralType is returned for referral files outside the
	// accepted extension list.
	ErrUnsupportedReferralType = errors.New("unsupported referral document type")

	// ErrInvalidDate is returned when a date value cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)
