package hrapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"peopleops/internal/api"
	"peopleops/internal/directory"
	"peopleops/internal/dropdown"
	"peopleops/internal/workflow"
)

func writeEnvelope(w http.ResponseWriter, status int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	var sawAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			writeEnvelope(w, http.StatusOK, api.Envelope{
				Success: true,
				Data:    map[string]string{"token": "token-123"},
			})
		case "/api/v1/employees/managers":
			sawAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, api.Envelope{Success: true, Data: []any{}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := New(ts.URL)
	if err := client.Login(context.Background(), "hr@co.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := client.ListManagers(context.Background()); err != nil {
		t.Fatalf("list managers: %v", err)
	}
	if sawAuth != "Bearer token-123" {
		t.Fatalf("expected bearer token on follow-up request, got %q", sawAuth)
	}
}

func TestListEmployeesAggregatesPages(t *testing.T) {
	pageOne := []directory.EmployeeSummary{{ID: "1"}, {ID: "2"}}
	pageTwo := []directory.EmployeeSummary{{ID: "3"}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		employees := pageOne
		if page == 2 {
			employees = pageTwo
		}
		writeEnvelope(w, http.StatusOK, api.Envelope{
			Success: true,
			Data: map[string]any{
				"employees": employees,
				"total":     3,
				"page":      page,
				"pageSize":  2,
			},
		})
	}))
	defer ts.Close()

	client := New(ts.URL)
	all, err := client.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[2].ID != "3" {
		t.Fatalf("expected 3 aggregated employees, got %+v", all)
	}
}

func TestCheckExistenceDecodesResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req workflow.ExistenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Email != "jane@co.com" || req.ExcludeID != "emp-1" {
			t.Errorf("unexpected request %+v", req)
		}
		writeEnvelope(w, http.StatusOK, api.Envelope{
			Success: true,
			Data: map[string]any{
				"email": map[string]bool{"exists": true},
				"phone": map[string]bool{"exists": false},
			},
		})
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	result, err := client.CheckExistence(context.Background(), workflow.ExistenceRequest{
		Email:     "jane@co.com",
		ExcludeID: "emp-1",
	})
	if err != nil {
		t.Fatalf("check existence: %v", err)
	}
	if !result.EmailExists || result.PhoneExists {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestListManagersDecodesManagerFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/employees/managers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, api.Envelope{
			Success: true,
			Data: []map[string]string{
				{"id": "mgr-1", "firstName": "Asha", "lastName": "Rao", "email": "asha@co.com", "designation": "Engineering Manager"},
			},
		})
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	managers, err := client.ListManagers(context.Background())
	if err != nil {
		t.Fatalf("list managers: %v", err)
	}
	if len(managers) != 1 {
		t.Fatalf("expected one manager, got %d", len(managers))
	}
	mgr := managers[0]
	if mgr.ID != "mgr-1" || mgr.Email != "asha@co.com" || mgr.Designation != "Engineering Manager" {
		t.Fatalf("manager fields lost in decode: %+v", mgr)
	}
}

func TestReportingManagerAndSubordinates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/employees/emp-1/reporting-manager":
			writeEnvelope(w, http.StatusOK, api.Envelope{
				Success: true,
				Data:    map[string]string{"id": "mgr-1", "firstName": "Asha"},
			})
		case "/api/v1/employees/mgr-1/subordinates":
			writeEnvelope(w, http.StatusOK, api.Envelope{
				Success: true,
				Data:    []map[string]string{{"id": "emp-1"}, {"id": "emp-2"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	mgr, err := client.ReportingManager(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("reporting manager: %v", err)
	}
	if mgr.ID != "mgr-1" || mgr.FirstName != "Asha" {
		t.Fatalf("unexpected manager %+v", mgr)
	}
	subs, err := client.Subordinates(context.Background(), "mgr-1")
	if err != nil {
		t.Fatalf("subordinates: %v", err)
	}
	if len(subs) != 2 || subs[1].ID != "emp-2" {
		t.Fatalf("unexpected subordinates %+v", subs)
	}
}

func TestDropdownValuesDecodesTypeEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dropdowns/types/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, api.Envelope{
			Success: true,
			Data: dropdown.TypeValues{
				TypeID:   dropdown.TypeDepartment,
				TypeName: "department",
				Values: []dropdown.Value{
					{ID: "v1", TypeID: dropdown.TypeDepartment, ValueName: "Engineering"},
				},
			},
		})
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	got, err := client.DropdownValues(context.Background(), dropdown.TypeDepartment)
	if err != nil {
		t.Fatalf("dropdown values: %v", err)
	}
	if got.TypeName != "department" || len(got.Values) != 1 || got.Values[0].ValueName != "Engineering" {
		t.Fatalf("unexpected dropdown payload %+v", got)
	}
}

func TestProfileSubResourceRoundTrip(t *testing.T) {
	dob := "1990-04-12"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/employees/emp-1/personal-info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, api.Envelope{
				Success: true,
				Data:    map[string]any{"dob": dob, "gender": "female", "address": nil},
			})
		case http.MethodPut:
			var body map[string]*string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode update: %v", err)
			}
			if body["dob"] == nil || *body["dob"] != dob {
				t.Errorf("unexpected update body %v", body)
			}
			writeEnvelope(w, http.StatusOK, api.Envelope{Success: true})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	info, err := client.PersonalInfo(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("personal info: %v", err)
	}
	if info.DOB == nil || *info.DOB != dob || info.Address != nil {
		t.Fatalf("unexpected personal info %+v", info)
	}
	if err := client.UpdatePersonalInfo(context.Background(), "emp-1", info); err != nil {
		t.Fatalf("update personal info: %v", err)
	}
}

func TestDownloadReturnsRawBytesAndEnvelopeErrors(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/employees/emp-1/profile.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(pdf)
		case "/api/v1/reports/employees.xlsx":
			writeEnvelope(w, http.StatusUnauthorized, api.Envelope{
				Success: false,
				Error:   &api.Error{Code: "unauthorized", Message: "authentication required"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := New(ts.URL, WithToken("t"))
	got, err := client.ProfilePDF(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("profile pdf: %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("pdf bytes mangled: %q", got)
	}

	_, err = client.DirectoryXLSX(context.Background(), "rao")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Code != "unauthorized" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, api.Envelope{
			Success: false,
			Error:   &api.Error{Code: "duplicate", Message: "employee already exists"},
		})
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.CreateEmployee(context.Background(), workflow.CreatePayload{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "duplicate" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}
