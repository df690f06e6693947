package handler

import (
	"net/http"
	"strconv"

	"github.com/parentbridge/parent-assistant/internal/model"
	"github.com/parentbridge/parent-assistant/internal/service"
	"github.com/parentbridge/parent-assistant/pkg/logger"
)

// SchoolHandler handles school directory endpoints.
type SchoolHandler struct {
	service *service.SchoolService
	logger  *logger.Logger
}

// NewSchoolHandler creates a new school handler.
func NewSchoolHandler(svc *service.SchoolService, log *logger.Logger) *SchoolHandler {
	return &SchoolHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/schools
func (h *SchoolHandler) List(w http.ResponseWriter, r *http.Request) {
	schools, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.ListSchoolsResponse{
		Schools: schools,
		Total:   len(schools),
	})
}

// Nearby handles GET /api/schools/nearby?lng=&lat=&max_distance=
func (h *SchoolHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lng is required and must be a number")
		return
	}

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat is required and must be a number")
		return
	}

	maxDistance := 0
	if raw := q.Get("max_distance"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "max_distance must be a positive integer")
			return
		}
		maxDistance = parsed
	}

	schools, err := h.service.Nearby(r.Context(), lng, lat, maxDistance)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.ListSchoolsResponse{
		Schools: schools,
		Total:   len(schools),
	})
}
