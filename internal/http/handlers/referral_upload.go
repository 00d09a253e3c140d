package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/uploads"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// multipartOverhead is the allowance for boundaries and part headers on top
// of the document itself.
const multipartOverhead = 64 << 10

// ReferralUploadHandler accepts referral documents ahead of a submission.
type ReferralUploadHandler struct {
	uploads *uploads.Service
	logger  *logging.Logger
}

func NewReferralUploadHandler(svc *uploads.Service, logger *logging.Logger) *ReferralUploadHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferralUploadHandler{uploads: svc, logger: logger}
}

// Enabled reports whether a storage bucket is configured.
func (h *ReferralUploadHandler) Enabled() bool {
	return h != nil && h.uploads.Enabled()
}

// Upload handles POST /appointments/referrals with a multipart "file" part.
// The response is the Document to place in the form's referralDocument.
func (h *ReferralUploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		jsonError(w, "referral uploads are not enabled", http.StatusNotFound)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSize()+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		jsonError(w, "expected multipart/form-data body", http.StatusBadRequest)
		return
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			jsonError(w, "file part is required", http.StatusBadRequest)
			return
		}
		if err != nil {
			h.respondErr(w, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		doc, err := h.uploads.Store(r.Context(), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			h.respondErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
		return
	}
}

func (h *ReferralUploadHandler) respondErr(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, uploads.ErrTooLarge), errors.As(err, &tooLarge):
		jsonError(w, "File size must be less than 5MB", http.StatusRequestEntityTooLarge)
	case errors.Is(err, booking.ErrUnsupportedReferralType):
		jsonError(w, "Only PDF, DOC, DOCX, JPG, JPEG and PNG files are accepted", http.StatusUnsupportedMediaType)
	default:
		h.logger.Error("referral upload failed", "error", err)
		jsonError(w, "failed to store referral document", http.StatusInternalServerError)
	}
}
