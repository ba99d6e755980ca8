package prescriptions

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

// Create handles the prescription variant of POST /api/add_data. The
// prescribing doctor comes from the bearer token; doctor_id references the
// doctor table, so only doctor principals can prescribe.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if principal.Role != auth.RoleDoctor {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	prescription, err := h.service.Create(r.Context(), principal.ID, req)
	if err != nil {
		log.Printf("Failed to create prescription: %v", err)

		switch {
		case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingMedication),
			errors.Is(err, ErrNegativeRefills):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to create prescription", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(prescription)
}

// Issue handles PUT /api/issue_prescription/{id}.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid prescription id", http.StatusBadRequest)
		return
	}

	prescription, err := h.service.Issue(r.Context(), id, principal.ID)
	if err != nil {
		log.Printf("Failed to issue prescription %d: %v", id, err)

		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrMedicationNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrInsufficientStock):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to issue prescription", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prescription)
}

// Cancel handles PUT /api/cancel_prescription/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid prescription id", http.StatusBadRequest)
		return
	}

	prescription, err := h.service.CancelPending(r.Context(), id)
	if err != nil {
		log.Printf("Failed to cancel prescription %d: %v", id, err)

		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to cancel prescription", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prescription)
}

// List handles GET /api/get_prescriptions. The window is scoped to the
// bearer token's subject and role.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	prescriptions, err := h.service.ListForPrincipal(r.Context(), principal)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		log.Printf("Failed to list prescriptions: %v", err)
		http.Error(w, "failed to list prescriptions", http.StatusInternalServerError)
		return
	}
	if prescriptions == nil {
		prescriptions = []Prescription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	})
}

// ListForPharmacist handles GET /api/pharmacist/get_prescriptions.
func (h *Handler) ListForPharmacist(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	prescriptions, err := h.service.ListForPharmacist(r.Context(), principal.ID)
	if err != nil {
		log.Printf("Failed to list pharmacist prescriptions: %v", err)
		http.Error(w, "failed to list prescriptions", http.StatusInternalServerError)
		return
	}
	if prescriptions == nil {
		prescriptions = []Prescription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	})
}

// AddMedication handles the medication variant of POST /api/add_data.
func (h *Handler) AddMedication(w http.ResponseWriter, r *http.Request) {
	var req AddMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	medication, err := h.service.AddMedication(r.Context(), req)
	if err != nil {
		log.Printf("Failed to add medication: %v", err)

		switch {
		case errors.Is(err, ErrMissingMedication), errors.Is(err, ErrNegativeStock):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrDuplicateMedication):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to add medication", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(medication)
}

// ListMedications handles GET /api/get_medications.
func (h *Handler) ListMedications(w http.ResponseWriter, r *http.Request) {
	medications, err := h.service.ListMedications(r.Context())
	if err != nil {
		log.Printf("Failed to list medications: %v", err)
		http.Error(w, "failed to list medications", http.StatusInternalServerError)
		return
	}
	if medications == nil {
		medications = []Medication{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"medications": medications,
		"count":       len(medications),
	})
}
