package submission

import "errors"

var (
	// ErrDeliveryFailure matches every *DeliveryError.
	ErrDeliveryFailure = errors.New("delivery failure")

	// ErrSubmissionInFlight is returned when the same request is already
	// being sent.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// DeliveryError wraps the transport or provider error from the one send
// attempt. Its message is the provider's, unchanged.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return ErrDeliveryFailure.Error()
	}
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDeliveryFailure }

// UserNotice is the guidance shown when a send fails.
const UserNotice = "We couldn't send your appointment request. Please try again, or contact the clinic directly by phone or email."
