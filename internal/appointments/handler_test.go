package appointments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/health-hub/records-service/internal/auth"
)

func withPrincipal(r *http.Request, pr *auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), pr))
}

func TestScheduleHandler_Created(t *testing.T) {
	mockSvc := &mockService{
		scheduleFunc: func(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error) {
			return &Appointment{AppointmentID: 1, Status: StatusScheduled}, nil
		},
	}
	handler := NewHandler(mockSvc)

	body := `{"doctor_id":3,"date":"2025-01-01","time":"10:00 AM"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule_appointment", strings.NewReader(body))
	req = withPrincipal(req, &auth.Principal{ID: 7, Role: auth.RolePatient})
	rr := httptest.NewRecorder()

	handler.Schedule(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rr.Code)
	}
}

func TestScheduleHandler_NoToken(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/schedule_appointment", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.Schedule(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without principal, got %d", rr.Code)
	}
}

func TestScheduleHandler_ValidationIs400(t *testing.T) {
	mockSvc := &mockService{
		scheduleFunc: func(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error) {
			return nil, ErrInvalidDate
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule_appointment", strings.NewReader(`{"date":"bad"}`))
	req = withPrincipal(req, &auth.Principal{ID: 7, Role: auth.RolePatient})
	rr := httptest.NewRecorder()

	handler.Schedule(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}

func TestCancelHandler_InvalidTransitionIs409(t *testing.T) {
	mockSvc := &mockService{
		cancelFunc: func(ctx context.Context, pr *auth.Principal, id int64) (*Appointment, error) {
			return nil, ErrInvalidTransition
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPut, "/api/cancel_appointment/5", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	req = withPrincipal(req, &auth.Principal{ID: 7, Role: auth.RolePatient})
	rr := httptest.NewRecorder()

	handler.Cancel(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for illegal transition, got %d", rr.Code)
	}
}

func TestListHandler_EmptyIsOK(t *testing.T) {
	mockSvc := &mockService{
		listForPrincipalFunc: func(ctx context.Context, pr *auth.Principal) ([]View, error) {
			return nil, nil
		},
	}
	handler := NewHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/get_appointments", nil)
	req = withPrincipal(req, &auth.Principal{ID: 7, Role: auth.RolePatient})
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"appointments":[]`) {
		t.Errorf("Expected empty array, got %s", rr.Body.String())
	}
}

// Mock implementations

type mockService struct {
	scheduleFunc         func(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error)
	cancelFunc           func(ctx context.Context, pr *auth.Principal, id int64) (*Appointment, error)
	updateStatusFunc     func(ctx context.Context, pr *auth.Principal, id int64, status string) (*Appointment, error)
	listForPrincipalFunc func(ctx context.Context, pr *auth.Principal) ([]View, error)
}

func (m *mockService) Schedule(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error) {
	if m.scheduleFunc != nil {
		return m.scheduleFunc(ctx, pr, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Cancel(ctx context.Context, pr *auth.Principal, id int64) (*Appointment, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, pr, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) UpdateStatus(ctx context.Context, pr *auth.Principal, id int64, status string) (*Appointment, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, pr, id, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) ListForPrincipal(ctx context.Context, pr *auth.Principal) ([]View, error) {
	if m.listForPrincipalFunc != nil {
		return m.listForPrincipalFunc(ctx, pr)
	}
	return nil, errors.New("not implemented")
}

var _ ServiceInterface = (*mockService)(nil)
