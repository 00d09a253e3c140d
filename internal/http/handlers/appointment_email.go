package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/submission"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// MaxRequestBody caps submission bodies.
const MaxRequestBody = 1 << 20

// AppointmentEmailRequest is the body posted by the booking form.
type AppointmentEmailRequest struct {
	FormData *booking.Request `json:"formData"`
}

// AppointmentEmailResponse is returned when the notification was sent.
type AppointmentEmailResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId,omitempty"`
}

// AppointmentEmailHandler turns form submissions into clinic notifications.
type AppointmentEmailHandler struct {
	submitter submission.Submitter
	logger    *logging.Logger
}

func NewAppointmentEmailHandler(submitter submission.Submitter, logger *logging.Logger) *AppointmentEmailHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentEmailHandler{submitter: submitter, logger: logger}
}

// SendAppointmentEmail handles POST /functions/v1/send-appointment-email and
// POST /appointments.
func (h *AppointmentEmailHandler) SendAppointmentEmail(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	status, payload := h.Process(r.Context(), body)
	writeJSON(w, status, payload)
}

// Process decodes body, submits it and returns the HTTP status and JSON
// payload. It is shared by the HTTP server and the Lambda entrypoint.
func (h *AppointmentEmailHandler) Process(ctx context.Context, body []byte) (int, any) {
	var req AppointmentEmailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warn("appointment email: invalid json", "error", err)
		return http.StatusBadRequest, ErrorResponse{Error: "invalid request body"}
	}
	if req.FormData == nil {
		return http.StatusBadRequest, ErrorResponse{Error: "formData is required"}
	}

	receipt, err := h.submitter.Submit(ctx, *req.FormData)
	if err != nil {
		return statusFor(err), ErrorResponse{Error: err.Error()}
	}
	return http.StatusOK, AppointmentEmailResponse{Success: true, EmailID: receipt.EmailID}
}

func statusFor(err error) int {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, submission.ErrSubmissionInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
