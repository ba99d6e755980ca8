package accounts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/health-hub/records-service/internal/identity"
	"github.com/health-hub/records-service/internal/pagination"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Login handles POST /api/login. Authentication failures always return the
// same 401 body regardless of cause.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		log.Printf("Login failed: %v", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AddUser handles POST /api/add_user. An unknown role discriminator is a
// 404, matching the route-per-role shape this collapses.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.service.Add(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to add %s account: %v", req.Role, err)

		switch {
		case errors.Is(err, ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrDuplicateAccount):
			http.Error(w, err.Error(), http.StatusConflict)
		case isValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to create account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":   id,
		"role": req.Role,
	})
}

// GetUserAccounts handles GET /api/get_user_accounts.
func (h *Handler) GetUserAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		log.Printf("Failed to list accounts: %v", err)
		http.Error(w, "failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []AccountSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetUserAccount handles GET /api/get_user_account/{id}?role=.
func (h *Handler) GetUserAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	role := r.URL.Query().Get("role")

	account, err := h.service.GetAccount(r.Context(), role, id)
	if err != nil {
		log.Printf("Failed to get %s account %d: %v", role, id, err)

		switch {
		case errors.Is(err, ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "failed to get account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// GetPatients handles GET /api/get_patients with pagination.
func (h *Handler) GetPatients(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	resp, err := h.service.ListPatients(r.Context(), params)
	if err != nil {
		log.Printf("Failed to list patients: %v", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetDoctors handles GET /api/get_doctors with pagination.
func (h *Handler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	resp, err := h.service.ListDoctors(r.Context(), params)
	if err != nil {
		log.Printf("Failed to list doctors: %v", err)
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateUser handles PUT /api/update_user/{id}. The role travels in the
// body next to the allow-listed fields.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), req.Role, id, &req); err != nil {
		log.Printf("Failed to update %s account %d: %v", req.Role, id, err)

		switch {
		case errors.Is(err, ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrDuplicateAccount):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to update account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "account updated"})
}

// DeleteUser handles DELETE /api/delete_user/{id}. The role travels in the
// body; a ?role= query parameter is accepted as a fallback.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	var req DeleteUserRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	role := req.Role
	if role == "" {
		role = r.URL.Query().Get("role")
	}

	if err := h.service.Delete(r.Context(), role, id); err != nil {
		log.Printf("Failed to delete %s account %d: %v", role, id, err)

		switch {
		case errors.Is(err, ErrInvalidRole):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "failed to delete account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func isValidationError(err error) bool {
	for _, e := range []error{
		ErrMissingUsername, ErrMissingPassword, ErrMissingName,
		ErrMissingEmail, ErrMissingLicenseNumber,
		identity.ErrInvalidNationalID, identity.ErrEmptyUsername,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
