package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/internal/observability/metrics"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

var submissionTracer = otel.Tracer("patient-request-form/submission")

// Outcome labels used for metrics and span attributes.
const (
	OutcomeSent            = "sent"
	OutcomeDeliveryFailure = "delivery_failure"
	OutcomeInFlight        = "in_flight"
)

// Receipt confirms a notification was handed to the delivery provider.
type Receipt struct {
	EmailID string `json:"emailId,omitempty"`
	Subject string `json:"subject"`
}

// Submitter sends one booking request.
type Submitter interface {
	Submit(ctx context.Context, r booking.Request) (Receipt, error)
}

// Config wires a Service.
type Config struct {
	// Recipient is the clinic inbox every request goes to.
	Recipient string
	Formatter notify.Formatter
	// Guard defaults to a MemoryGuard.
	Guard   Guard
	Metrics *metrics.BookingMetrics
	Now     func() time.Time
}

// Service validates, formats and delivers booking requests.
type Service struct {
	sender    notify.EmailSender
	recipient string
	formatter notify.Formatter
	guard     Guard
	metrics   *metrics.BookingMetrics
	now       func() time.Time
	logger    *logging.Logger
}

// NewService creates the submission pipeline around sender.
func NewService(sender notify.EmailSender, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Guard == nil {
		cfg.Guard = NewMemoryGuard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		sender:    sender,
		recipient: cfg.Recipient,
		formatter: cfg.Formatter,
		guard:     cfg.Guard,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
		logger:    logger,
	}
}

// Preview returns the message Submit would send for r.
func (s *Service) Preview(r booking.Request) notify.Message {
	return s.formatter.Format(r)
}

// Submit runs one attempt: validate, format, send. Nothing is retried.
func (s *Service) Submit(ctx context.Context, r booking.Request) (Receipt, error) {
	ctx, span := submissionTracer.Start(ctx, "submission.submit")
	defer span.End()

	outcome, receipt, err := s.submit(ctx, r)
	s.metrics.ObserveSubmission(outcome)
	span.SetAttributes(attribute.String("booking.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	return receipt, err
}

func (s *Service) submit(ctx context.Context, r booking.Request) (string, Receipt, error) {
	r = r.InLocation(s.formatter.Location)
	result := booking.Validate(r)
	if !result.OK() {
		s.logger.Info("submission: rejected", "reason", result.Kind.String())
		return result.Kind.String(), Receipt{}, result.Err()
	}
	if s.sender == nil {
		return OutcomeDeliveryFailure, Receipt{}, &DeliveryError{Err: errors.New("no email sender configured")}
	}

	msg := s.formatter.Format(r)

	release, err := s.guard.Acquire(ctx, Fingerprint(r))
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			s.logger.Warn("submission: duplicate request while in flight", "subject", msg.Subject)
			return OutcomeInFlight, Receipt{}, err
		}
		return OutcomeDeliveryFailure, Receipt{}, &DeliveryError{Err: err}
	}
	defer release()

	start := s.now()
	id, err := s.sender.Send(ctx, msg.Email(s.recipient))
	elapsed := s.now().Sub(start).Seconds()
	s.metrics.ObserveDelivery(err == nil, elapsed)
	if err != nil {
		s.logger.Error("submission: delivery failed", "error", err, "to", s.recipient)
		return OutcomeDeliveryFailure, Receipt{}, &DeliveryError{Err: err}
	}

	s.logger.Info("submission: appointment request sent", "to", s.recipient, "message_id", id, "service", string(r.Service))
	return OutcomeSent, Receipt{EmailID: id, Subject: msg.Subject}, nil
}

// Describe turns a submission error into the title and text of a user notice.
func Describe(err error) (title, message string) {
	var verr *booking.ValidationError
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &verr):
		return booking.Result{Kind: verr.Kind}.Title(), verr.Message
	case errors.Is(err, ErrSubmissionInFlight):
		return "Submission In Progress", "Your request is already being sent. Please wait."
	case errors.Is(err, ErrDeliveryFailure):
		return "Request Not Sent", fmt.Sprintf("%s (%v)", UserNotice, err)
	default:
		return "Request Not Sent", UserNotice
	}
}

var _ Submitter = (*Service)(nil)
