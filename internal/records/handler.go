package records

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

// Create handles POST /api/create_record. The acting doctor comes from the
// bearer token, never from the body; recorded_by references the doctor
// table, so only doctor principals can create records.
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

	record, treatment, err := h.service.Create(r.Context(), principal.ID, req)
	if err != nil {
		log.Printf("Failed to create record: %v", err)

		switch {
		case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingDescription),
			errors.Is(err, ErrMissingTreatment), errors.Is(err, ErrInvalidRecordType),
			errors.Is(err, ErrInvalidDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to create record", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"record":    record,
		"treatment": treatment,
	})
}

// ListByPatient handles GET /api/get_patient_records/{id}. Patients can
// only read their own history.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	if principal.Role == auth.RolePatient && principal.ID != patientID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	views, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		log.Printf("Failed to list records for patient %d: %v", patientID, err)
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	if views == nil {
		views = []View{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": views,
		"count":   len(views),
	})
}

// AddAllergy handles the allergy variant of POST /api/add_data.
func (h *Handler) AddAllergy(w http.ResponseWriter, r *http.Request) {
	var req AddAllergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	allergy, err := h.service.AddAllergy(r.Context(), req)
	if err != nil {
		log.Printf("Failed to add allergy: %v", err)

		switch {
		case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingAllergy),
			errors.Is(err, ErrInvalidSeverity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrDuplicateAllergy):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to add allergy", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(allergy)
}

// ListAllergies handles GET /api/get_allergies/{id}.
func (h *Handler) ListAllergies(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	if principal.Role == auth.RolePatient && principal.ID != patientID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	allergies, err := h.service.ListAllergies(r.Context(), patientID)
	if err != nil {
		log.Printf("Failed to list allergies for patient %d: %v", patientID, err)
		http.Error(w, "failed to list allergies", http.StatusInternalServerError)
		return
	}
	if allergies == nil {
		allergies = []Allergy{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"allergies": allergies,
		"count":     len(allergies),
	})
}
