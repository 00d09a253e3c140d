package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// Handler serves the public clinic profile and booking catalog.
type Handler struct {
	profile Profile
	logger  *logging.Logger
}

// NewHandler creates a new clinic profile HTTP handler.
func NewHandler(profile Profile, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		profile: profile,
		logger:  logger,
	}
}

// ProfileResponse is the body of GET /clinic.
type ProfileResponse struct {
	Profile
	Catalog Catalog `json:"catalog"`
}

// GetProfile returns the clinic profile plus the booking catalog.
// GET /clinic
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ProfileResponse{Profile: h.profile, Catalog: BookingCatalog()}); err != nil {
		h.logger.Error("failed to encode clinic profile", "error", err)
	}
}
