package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/health-hub/records-service/internal/pagination"
)

func TestLoginHandler_Success(t *testing.T) {
	mockSvc := &mockService{
		loginFunc: func(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
			return &LoginResponse{
				AccessToken: "token-abc",
				Name:        "Jane",
				Surname:     "Doe",
				Role:        "patient",
			}, nil
		},
	}
	handler := NewHandler(mockSvc)

	body := `{"username":"jane@example.com","password":"secret123","role":"patient"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.AccessToken != "token-abc" {
		t.Errorf("Expected access token in response, got '%s'", resp.AccessToken)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	mockSvc := &mockService{
		loginFunc: func(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
			return nil, ErrInvalidCredentials
		},
	}
	handler := NewHandler(mockSvc)

	body := `{"username":"nobody","password":"wrong","role":"doctor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["message"] != "invalid credentials" {
		t.Errorf("Expected generic message, got '%s'", resp["message"])
	}
}

func TestLoginHandler_BadBody(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}

func TestAddUserHandler_Created(t *testing.T) {
	mockSvc := &mockService{
		addFunc: func(ctx context.Context, req *AddUserRequest) (int64, error) {
			return 42, nil
		},
	}
	handler := NewHandler(mockSvc)

	body, _ := json.Marshal(AddUserRequest{
		Role:       "patient",
		FirstName:  "Jane",
		LastName:   "Doe",
		NationalID: "0203057001234",
		Email:      "jane@example.com",
		Password:   "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/add_user", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.AddUser(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rr.Code)
	}
}

func TestAddUserHandler_UnknownRoleIs404(t *testing.T) {
	mockSvc := &mockService{
		addFunc: func(ctx context.Context, req *AddUserRequest) (int64, error) {
			return 0, ErrInvalidRole
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/add_user", strings.NewReader(`{"role":"nurse"}`))
	rr := httptest.NewRecorder()

	handler.AddUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown role, got %d", rr.Code)
	}
}

func TestAddUserHandler_DuplicateIs409(t *testing.T) {
	mockSvc := &mockService{
		addFunc: func(ctx context.Context, req *AddUserRequest) (int64, error) {
			return 0, ErrDuplicateAccount
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/add_user", strings.NewReader(`{"role":"patient"}`))
	rr := httptest.NewRecorder()

	handler.AddUser(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate account, got %d", rr.Code)
	}
}

func TestAddUserHandler_ValidationIs400(t *testing.T) {
	mockSvc := &mockService{
		addFunc: func(ctx context.Context, req *AddUserRequest) (int64, error) {
			return 0, ErrMissingEmail
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/add_user", strings.NewReader(`{"role":"patient"}`))
	rr := httptest.NewRecorder()

	handler.AddUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for validation failure, got %d", rr.Code)
	}
}

func TestGetUserAccountHandler_NotFound(t *testing.T) {
	mockSvc := &mockService{
		getAccountFunc: func(ctx context.Context, role string, id int64) (interface{}, error) {
			return nil, ErrNotFound
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/get_user_account/99?role=patient", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rr := httptest.NewRecorder()

	handler.GetUserAccount(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}
}

func TestGetPatientsHandler_PassesPagination(t *testing.T) {
	mockSvc := &mockService{
		listPatientsFunc: func(ctx context.Context, params pagination.Params) (*PaginatedPatientsResponse, error) {
			if params.Page != 3 || params.Limit != 5 {
				t.Errorf("Expected page 3 limit 5, got %d/%d", params.Page, params.Limit)
			}
			return &PaginatedPatientsResponse{Patients: []Patient{}, Pagination: params.CalculateMeta(0)}, nil
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/get_patients?page=3&limit=5", nil)
	rr := httptest.NewRecorder()

	handler.GetPatients(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
}

func TestUpdateUserHandler_InvalidID(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPut, "/api/update_user/abc", strings.NewReader(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rr := httptest.NewRecorder()

	handler.UpdateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-numeric id, got %d", rr.Code)
	}
}

func TestDeleteUserHandler_RoleInBody(t *testing.T) {
	var gotRole string
	var gotID int64

	mockSvc := &mockService{
		deleteFunc: func(ctx context.Context, role string, id int64) error {
			gotRole, gotID = role, id
			return nil
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/delete_user/7", strings.NewReader(`{"role":"doctor"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	handler.DeleteUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if gotRole != "doctor" || gotID != 7 {
		t.Errorf("Expected delete doctor/7, got %s/%d", gotRole, gotID)
	}
}

func TestDeleteUserHandler_RoleQueryFallback(t *testing.T) {
	var gotRole string

	mockSvc := &mockService{
		deleteFunc: func(ctx context.Context, role string, id int64) error {
			gotRole = role
			return nil
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/delete_user/7?role=pharmacist", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	handler.DeleteUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if gotRole != "pharmacist" {
		t.Errorf("Expected role from query fallback, got %q", gotRole)
	}
}

func TestUpdateUserHandler_UnknownRoleIs400(t *testing.T) {
	mockSvc := &mockService{
		updateFunc: func(ctx context.Context, role string, id int64, req *UpdateUserRequest) error {
			return ErrInvalidRole
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPut, "/api/update_user/7", strings.NewReader(`{"role":"nurse"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	handler.UpdateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown role, got %d", rr.Code)
	}
}

// Mock implementations

type mockService struct {
	loginFunc        func(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	addFunc          func(ctx context.Context, req *AddUserRequest) (int64, error)
	getAccountFunc   func(ctx context.Context, role string, id int64) (interface{}, error)
	listAccountsFunc func(ctx context.Context) ([]AccountSummary, error)
	listPatientsFunc func(ctx context.Context, params pagination.Params) (*PaginatedPatientsResponse, error)
	listDoctorsFunc  func(ctx context.Context, params pagination.Params) (*PaginatedDoctorsResponse, error)
	updateFunc       func(ctx context.Context, role string, id int64, req *UpdateUserRequest) error
	deleteFunc       func(ctx context.Context, role string, id int64) error
}

func (m *mockService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Add(ctx context.Context, req *AddUserRequest) (int64, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, req)
	}
	return 0, errors.New("not implemented")
}

func (m *mockService) GetAccount(ctx context.Context, role string, id int64) (interface{}, error) {
	if m.getAccountFunc != nil {
		return m.getAccountFunc(ctx, role, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	if m.listAccountsFunc != nil {
		return m.listAccountsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientsResponse, error) {
	if m.listPatientsFunc != nil {
		return m.listPatientsFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) ListDoctors(ctx context.Context, params pagination.Params) (*PaginatedDoctorsResponse, error) {
	if m.listDoctorsFunc != nil {
		return m.listDoctorsFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Update(ctx context.Context, role string, id int64, req *UpdateUserRequest) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, role, id, req)
	}
	return errors.New("not implemented")
}

func (m *mockService) Delete(ctx context.Context, role string, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, role, id)
	}
	return errors.New("not implemented")
}

var _ ServiceInterface = (*mockService)(nil)
