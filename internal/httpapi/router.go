package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/health-hub/records-service/internal/accounts"
	"github.com/health-hub/records-service/internal/appointments"
	"github.com/health-hub/records-service/internal/audit"
	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/credentials"
	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/prescriptions"
	"github.com/health-hub/records-service/internal/records"
	"github.com/health-hub/records-service/internal/telemetry"
)

// SetupRouter initializes all routes for the application
func SetupRouter(db *sql.DB, issuer *auth.Issuer, perms auth.Permissions,
	publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *mux.Router {

	creds := credentials.NewStore()
	auditor := audit.NewRecorder(db)

	// Initialize account components
	accountRepo := accounts.NewRepository(db)
	accountService := accounts.NewService(accountRepo, creds, issuer, auditor, publisher, metrics)
	accountHandler := accounts.NewHandler(accountService)

	// Initialize appointment components
	appointmentRepo := appointments.NewRepository(db)
	appointmentService := appointments.NewService(appointmentRepo, appointments.LoadConfig(), publisher, metrics)
	appointmentHandler := appointments.NewHandler(appointmentService)

	// Initialize record components
	recordRepo := records.NewRepository(db)
	recordService := records.NewService(recordRepo, publisher, metrics)
	recordHandler := records.NewHandler(recordService)

	// Initialize prescription components
	prescriptionRepo := prescriptions.NewRepository(db)
	prescriptionService := prescriptions.NewService(prescriptionRepo, publisher, metrics)
	prescriptionHandler := prescriptions.NewHandler(prescriptionService)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("records-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"records-service"}`))
	}).Methods("GET")

	// Public login endpoint
	r.HandleFunc("/api/login", accountHandler.Login).Methods("POST")

	authed := auth.MiddlewareWithMetrics(issuer, metrics)
	require := func(permission string, h http.HandlerFunc) http.Handler {
		return authed(auth.RequirePermissionWithMetrics(permission, perms, metrics)(h))
	}

	// Account routes (admin only)
	r.Handle("/api/add_user", require("account:create", accountHandler.AddUser)).Methods("POST")
	r.Handle("/api/get_user_accounts", require("account:view", accountHandler.GetUserAccounts)).Methods("GET")
	r.Handle("/api/get_user_account/{id}", require("account:view", accountHandler.GetUserAccount)).Methods("GET")
	r.Handle("/api/update_user/{id}", require("account:update", accountHandler.UpdateUser)).Methods("PUT")
	r.Handle("/api/delete_user/{id}", require("account:delete", accountHandler.DeleteUser)).Methods("DELETE")

	// Directory reads
	r.Handle("/api/get_patients", require("patient:view", accountHandler.GetPatients)).Methods("GET")
	r.Handle("/api/get_doctors", require("doctor:view", accountHandler.GetDoctors)).Methods("GET")
	r.Handle("/api/get_medications", require("medication:view", prescriptionHandler.ListMedications)).Methods("GET")

	// Appointments
	r.Handle("/api/schedule_appointment", require("appointment:create", appointmentHandler.Schedule)).Methods("POST")
	r.Handle("/api/cancel_appointment/{id}", require("appointment:cancel", appointmentHandler.Cancel)).Methods("PUT")
	r.Handle("/api/update_appointment_status/{id}", require("appointment:update", appointmentHandler.UpdateStatus)).Methods("PUT")
	r.Handle("/api/get_appointments", require("appointment:view", appointmentHandler.List)).Methods("GET")

	// Clinical records
	r.Handle("/api/create_record", require("record:create", recordHandler.Create)).Methods("POST")
	r.Handle("/api/get_patient_records/{id}", require("record:view", recordHandler.ListByPatient)).Methods("GET")
	r.Handle("/api/get_allergies/{id}", require("record:view", recordHandler.ListAllergies)).Methods("GET")

	// Prescriptions
	r.Handle("/api/issue_prescription/{id}", require("prescription:fill", prescriptionHandler.Issue)).Methods("PUT")
	r.Handle("/api/cancel_prescription/{id}", require("prescription:cancel", prescriptionHandler.Cancel)).Methods("PUT")
	r.Handle("/api/get_prescriptions", require("prescription:view", prescriptionHandler.List)).Methods("GET")
	r.Handle("/api/pharmacist/get_prescriptions", require("prescription:view", prescriptionHandler.ListForPharmacist)).Methods("GET")

	// Table-discriminated creation endpoint. Permission depends on the
	// table, so the check happens inside the dispatcher.
	addData := NewAddDataHandler(perms, recordHandler, prescriptionHandler)
	r.Handle("/api/add_data", authed(http.HandlerFunc(addData.ServeAddData))).Methods("POST")

	return r
}

// AddDataHandler dispatches POST /api/add_data on its `table` discriminator.
type AddDataHandler struct {
	perms         auth.Permissions
	records       *records.Handler
	prescriptions *prescriptions.Handler
}

func NewAddDataHandler(perms auth.Permissions, recordHandler *records.Handler, prescriptionHandler *prescriptions.Handler) *AddDataHandler {
	return &AddDataHandler{
		perms:         perms,
		records:       recordHandler,
		prescriptions: prescriptionHandler,
	}
}

// addDataPermissions maps each table discriminator to the permission its
// creation requires.
var addDataPermissions = map[string]string{
	"medication":   "medication:create",
	"allergy":      "record:create",
	"prescription": "prescription:create",
}

func (h *AddDataHandler) ServeAddData(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var discriminator struct {
		Table string `json:"table"`
	}
	if err := json.Unmarshal(body, &discriminator); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	permission, known := addDataPermissions[discriminator.Table]
	if !known {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}
	if !auth.HasPermission(principal, permission, h.perms) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	// Rewind the body for the delegated handler.
	r.Body = io.NopCloser(bytes.NewReader(body))

	switch discriminator.Table {
	case "medication":
		h.prescriptions.AddMedication(w, r)
	case "allergy":
		h.records.AddAllergy(w, r)
	case "prescription":
		h.prescriptions.Create(w, r)
	}
}
