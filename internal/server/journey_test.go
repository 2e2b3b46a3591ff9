package server_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"peopleops/internal/config"
	"peopleops/internal/directory"
	"peopleops/internal/dropdown"
	"peopleops/internal/hrapi"
	"peopleops/internal/profile"
	"peopleops/internal/server"
	"peopleops/internal/workflow"
)

func startApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		Environment:       "test",
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		RunMigrations:     true,
		RunSeed:           true,
		MaxBodyBytes:      1048576,
		MaxDocumentBytes:  5242880,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func login(t *testing.T, ts *httptest.Server) *hrapi.Client {
	t.Helper()
	client := hrapi.New(ts.URL)
	if err := client.Login(context.Background(), "admin@test.local", "ChangeMe123!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return client
}

func TestEmployeeLifecycleJourney(t *testing.T) {
	_, ts := startApp(t)
	client := login(t, ts)
	ctx := context.Background()

	orch := directory.New(directory.Config{Client: client})

	// Fill and submit a create form against the live backend.
	form := workflow.NewForm(workflow.FormConfig{
		Mode:           workflow.ModeCreate,
		Prober:         client,
		DebounceWindow: 10 * time.Millisecond,
		Save: func(ctx context.Context, payload workflow.Payload) error {
			return orch.SaveDraft(ctx, payload)
		},
	})
	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	phone := fmt.Sprintf("98%08d", time.Now().UnixNano()%100000000)
	for name, value := range map[string]string{
		"firstName": "Journey",
		"lastName":  "Tester",
		"email":     email,
		"country":   "IN",
		"phone":     phone,
		"role":      "user",
		"status":    "active",
	} {
		if err := form.SetField(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !form.IsMandatoryValid() {
		time.Sleep(20 * time.Millisecond)
	}
	result := form.Submit(ctx)
	if !result.Saved {
		t.Fatalf("expected submit to save, got %+v", result)
	}

	var created directory.EmployeeSummary
	for _, emp := range orch.Visible() {
		if emp.Email == email {
			created = emp
		}
	}
	if created.ID == "" {
		// The new record may sit on a later page.
		orch.SearchNow(email)
		visible := orch.Visible()
		if len(visible) != 1 {
			t.Fatalf("expected created employee in directory, got %+v", visible)
		}
		created = visible[0]
	}

	// A duplicate probe for the new email must report a collision.
	exists, err := client.CheckExistence(ctx, workflow.ExistenceRequest{Email: email})
	if err != nil {
		t.Fatalf("check existence: %v", err)
	}
	if !exists.EmailExists {
		t.Fatal("expected existence probe to flag the new email")
	}

	// Schedule a future deactivation, then delete.
	future := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	if err := orch.ChangeStatus(ctx, created.ID, "resignation", "served notice", future); err != nil {
		t.Fatalf("change status: %v", err)
	}

	if err := orch.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	orch.SearchNow(email)
	if visible := orch.Visible(); len(visible) != 0 {
		t.Fatalf("expected employee gone after delete, got %+v", visible)
	}
}

func TestProfileSubResourceJourney(t *testing.T) {
	_, ts := startApp(t)
	client := login(t, ts)
	ctx := context.Background()

	email := fmt.Sprintf("profile-%d@example.com", time.Now().UnixNano())
	phone := fmt.Sprintf("96%08d", time.Now().UnixNano()%100000000)
	created, err := client.CreateEmployee(ctx, workflow.CreatePayload{
		FirstName: "Priya",
		LastName:  "Nair",
		Email:     email,
		Phone:     "+91" + phone,
		Country:   "IN",
		Role:      "user",
		Status:    "active",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = client.DeleteEmployee(ctx, created.ID) }()

	dob := "1991-06-15"
	gender := "female"
	if err := client.UpdatePersonalInfo(ctx, created.ID, profile.PersonalInfo{DOB: &dob, Gender: &gender}); err != nil {
		t.Fatalf("update personal info: %v", err)
	}
	info, err := client.PersonalInfo(ctx, created.ID)
	if err != nil {
		t.Fatalf("get personal info: %v", err)
	}
	if info.DOB == nil || *info.DOB != dob || info.Gender == nil || *info.Gender != gender {
		t.Fatalf("personal info did not round-trip: %+v", info)
	}

	if err := client.UpdateCompensation(ctx, created.ID, profile.Compensation{CTC: "1200000.50", Currency: "INR"}); err != nil {
		t.Fatalf("update compensation: %v", err)
	}
	comp, err := client.Compensation(ctx, created.ID)
	if err != nil {
		t.Fatalf("get compensation: %v", err)
	}
	if comp.Currency != "INR" || comp.CTC == "" {
		t.Fatalf("compensation did not round-trip: %+v", comp)
	}

	pdf, err := client.ProfilePDF(ctx, created.ID)
	if err != nil {
		t.Fatalf("profile pdf: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("expected a PDF document, got %d bytes", len(pdf))
	}

	values, err := client.DropdownValues(ctx, dropdown.TypeDepartment)
	if err != nil {
		t.Fatalf("dropdown values: %v", err)
	}
	if values.TypeName != "department" {
		t.Fatalf("unexpected dropdown type payload: %+v", values)
	}
}

func TestDuplicateEmailRejectedOnCreate(t *testing.T) {
	_, ts := startApp(t)
	client := login(t, ts)
	ctx := context.Background()

	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())
	phone := fmt.Sprintf("97%08d", time.Now().UnixNano()%100000000)
	payload := workflow.CreatePayload{
		FirstName: "First",
		LastName:  "Copy",
		Email:     email,
		Phone:     "+91" + phone,
		Country:   "IN",
		Role:      "user",
		Status:    "active",
	}
	created, err := client.CreateEmployee(ctx, payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = client.DeleteEmployee(ctx, created.ID) }()

	payload.Phone = "+919000000001"
	if _, err := client.CreateEmployee(ctx, payload); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
}
