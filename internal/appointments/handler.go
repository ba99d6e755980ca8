package appointments

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/health-hub/records-service/internal/auth"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Schedule handles POST /api/schedule_appointment.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appointment, err := h.service.Schedule(r.Context(), principal, req)
	if err != nil {
		log.Printf("Failed to schedule appointment: %v", err)

		switch {
		case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingDoctor),
			errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTime),
			errors.Is(err, ErrInvalidTimeRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to schedule appointment", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appointment)
}

// Cancel handles PUT /api/cancel_appointment/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	appointment, err := h.service.Cancel(r.Context(), principal, id)
	if err != nil {
		log.Printf("Failed to cancel appointment %d: %v", id, err)
		h.writeTransitionError(w, err, "failed to cancel appointment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// UpdateStatus handles PUT /api/update_appointment_status/{id}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), principal, id, req.Status)
	if err != nil {
		log.Printf("Failed to update appointment %d status: %v", id, err)
		h.writeTransitionError(w, err, "failed to update appointment status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// List handles GET /api/get_appointments, scoped to the caller's identity.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.service.ListForPrincipal(r.Context(), principal)
	if err != nil {
		log.Printf("Failed to list appointments: %v", err)

		if errors.Is(err, ErrForbidden) {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		}
		return
	}
	if views == nil {
		views = []View{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": views,
		"count":        len(views),
	})
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
