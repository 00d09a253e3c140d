package submission

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/DavidJ001/patient-request-form/internal/booking"
)

// Session drives one form through submission on the client side. Only one
// submit may be in flight; the form is reset only after a confirmed send so a
// failed attempt can be retried without re-entering anything.
type Session struct {
	form      *booking.Form
	submitter Submitter
	inFlight  atomic.Bool
}

func NewSession(form *booking.Form, submitter Submitter) *Session {
	if form == nil {
		form = booking.NewForm()
	}
	return &Session{form: form, submitter: submitter}
}

// Form returns the form being edited.
func (s *Session) Form() *booking.Form { return s.form }

// Submitting reports whether a submit is in flight, so callers can disable
// their submit control.
func (s *Session) Submitting() bool { return s.inFlight.Load() }

// Submit validates the current snapshot and hands it to the submitter.
func (s *Session) Submit(ctx context.Context) (Receipt, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Receipt{}, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	snapshot := s.form.Snapshot()
	if err := booking.Validate(snapshot).Err(); err != nil {
		return Receipt{}, err
	}
	if s.submitter == nil {
		return Receipt{}, &DeliveryError{Err: errors.New("no submitter configured")}
	}

	receipt, err := s.submitter.Submit(ctx, snapshot)
	if err != nil {
		return Receipt{}, err
	}
	s.form.Reset()
	return receipt, nil
}
