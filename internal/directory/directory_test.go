package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"peopleops/internal/workflow"
)

type fakeClient struct {
	mu            sync.Mutex
	employees     []EmployeeSummary
	listCalls     int
	listErr       error
	statusCalls   []StatusChange
	statusTargets []string
	deleted       []string
}

func (c *fakeClient) ListEmployees(ctx context.Context) ([]EmployeeSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]EmployeeSummary, len(c.employees))
	copy(out, c.employees)
	return out, nil
}

func (c *fakeClient) CreateEmployee(ctx context.Context, payload workflow.CreatePayload) (EmployeeSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	emp := EmployeeSummary{
		ID:        fmt.Sprintf("emp-%d", len(c.employees)+1),
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Status:    payload.Status,
	}
	c.employees = append(c.employees, emp)
	return emp, nil
}

func (c *fakeClient) UpdateEmployee(ctx context.Context, id string, payload workflow.UpdatePayload) error {
	return nil
}

func (c *fakeClient) DeleteEmployee(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	kept := c.employees[:0]
	for _, emp := range c.employees {
		if emp.ID != id {
			kept = append(kept, emp)
		}
	}
	c.employees = kept
	return nil
}

func (c *fakeClient) UpdateEmployeeStatus(ctx context.Context, id string, change StatusChange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusTargets = append(c.statusTargets, id)
	c.statusCalls = append(c.statusCalls, change)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *fakeNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func seedEmployees(n int) []EmployeeSummary {
	out := make([]EmployeeSummary, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, EmployeeSummary{
			ID:          fmt.Sprintf("emp-%d", i),
			FirstName:   fmt.Sprintf("First%02d", i),
			LastName:    "Example",
			Email:       fmt.Sprintf("user%02d@co.com", i),
			Department:  "Engineering",
			Designation: "Engineer",
			Status:      "active",
		})
	}
	return out
}

func TestRefreshReplacesListWholesale(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(3)}
	orch := New(Config{Client: client})

	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(orch.Visible()); got != 3 {
		t.Fatalf("expected 3 visible employees, got %d", got)
	}

	client.mu.Lock()
	client.employees = seedEmployees(1)
	client.mu.Unlock()

	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(orch.Visible()); got != 1 {
		t.Fatalf("expected wholesale replacement to 1 employee, got %d", got)
	}
}

func TestRefreshFailureKeepsPreviousListAndNotifies(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(2)}
	notifier := &fakeNotifier{}
	orch := New(Config{Client: client, Notifier: notifier})

	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	client.mu.Lock()
	client.listErr = errors.New("boom")
	client.mu.Unlock()

	if err := orch.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := len(orch.Visible()); got != 2 {
		t.Fatalf("expected previous list to survive, got %d", got)
	}
	if notifier.errorCount() != 1 {
		t.Fatal("expected a user-facing notification")
	}
}

func TestPaginationIsFixedAtTen(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(23)}
	orch := New(Config{Client: client})
	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := len(orch.Visible()); got != 10 {
		t.Fatalf("expected 10 on first page, got %d", got)
	}
	if got := orch.TotalPages(); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	orch.SetPage(3)
	if got := len(orch.Visible()); got != 3 {
		t.Fatalf("expected 3 on last page, got %d", got)
	}
	orch.NextPage()
	if got := orch.Page(); got != 3 {
		t.Fatalf("expected page clamped to 3, got %d", got)
	}
}

func TestSearchDebounceAppliesLatestTermAndResetsPage(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(23)}
	orch := New(Config{Client: client, SearchWindow: 30 * time.Millisecond})
	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	orch.SetPage(3)

	orch.Search("user0")
	orch.Search("user02")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && orch.SearchTerm() == "" {
		time.Sleep(5 * time.Millisecond)
	}
	if got := orch.SearchTerm(); got != "user02" {
		t.Fatalf("expected latest term to win, got %q", got)
	}
	if got := orch.Page(); got != 1 {
		t.Fatalf("expected search to reset to page 1, got %d", got)
	}
	visible := orch.Visible()
	if len(visible) != 1 || visible[0].Email != "user02@co.com" {
		t.Fatalf("unexpected search result: %+v", visible)
	}
}

func TestSearchMatchesAcrossFieldsCaseInsensitively(t *testing.T) {
	client := &fakeClient{employees: []EmployeeSummary{
		{ID: "1", FirstName: "Jane", LastName: "Doe", Email: "jane@co.com", Department: "Finance", Designation: "Accountant"},
		{ID: "2", FirstName: "Bob", LastName: "Smith", Email: "bob@co.com", Department: "Engineering", Designation: "Engineer"},
	}}
	orch := New(Config{Client: client})
	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	for term, wantID := range map[string]string{
		"JANE":    "1",
		"finance": "1",
		"engine":  "2",
		"bob@":    "2",
	} {
		orch.SearchNow(term)
		visible := orch.Visible()
		if len(visible) != 1 || visible[0].ID != wantID {
			t.Fatalf("term %q: unexpected result %+v", term, visible)
		}
	}
}

func TestChangeStatusRejectsPastDateLocally(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(1)}
	orch := New(Config{Client: client})

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	err := orch.ChangeStatus(context.Background(), "emp-1", "resigned", "", yesterday)
	if !errors.Is(err, ErrEffectiveDateInPast) {
		t.Fatalf("expected ErrEffectiveDateInPast, got %v", err)
	}
	if len(client.statusCalls) != 0 {
		t.Fatal("expected no backend call for a past date")
	}
}

func TestChangeStatusTodayRequestsImmediateInactive(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(1)}
	orch := New(Config{Client: client})

	today := time.Now().Format("2006-01-02")
	if err := orch.ChangeStatus(context.Background(), "emp-1", "resigned", "last day", today); err != nil {
		t.Fatalf("change status: %v", err)
	}
	if len(client.statusCalls) != 1 {
		t.Fatal("expected one status call")
	}
	change := client.statusCalls[0]
	if change.Status != StatusInactive || change.EffectiveDate != "" {
		t.Fatalf("expected immediate INACTIVE, got %+v", change)
	}
	if client.listCalls == 0 {
		t.Fatal("expected a refresh after the mutation")
	}
}

func TestChangeStatusFutureRequestsPendingInactive(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(1)}
	orch := New(Config{Client: client})

	future := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	if err := orch.ChangeStatus(context.Background(), "emp-1", "relocation", "moving abroad", future); err != nil {
		t.Fatalf("change status: %v", err)
	}
	change := client.statusCalls[0]
	if change.Status != StatusPendingInactive {
		t.Fatalf("expected PENDING_INACTIVE, got %+v", change)
	}
	if change.Reason != "relocation" || change.Remarks != "moving abroad" || change.EffectiveDate != future {
		t.Fatalf("expected reason/remarks/date carried, got %+v", change)
	}
}

func TestDeleteRefreshesAfterward(t *testing.T) {
	client := &fakeClient{employees: seedEmployees(2)}
	orch := New(Config{Client: client})
	if err := orch.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := client.listCalls

	if err := orch.Delete(context.Background(), "emp-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if client.listCalls != before+1 {
		t.Fatal("expected refresh after delete")
	}
	if got := len(orch.Visible()); got != 1 {
		t.Fatalf("expected 1 employee after delete, got %d", got)
	}
}

func TestSaveDraftRoutesCreateAndRefreshes(t *testing.T) {
	client := &fakeClient{}
	orch := New(Config{Client: client})

	payload := workflow.Payload{Create: &workflow.CreatePayload{
		FirstName: "Jane", LastName: "Doe", Email: "jane@co.com", Phone: "+919876543210", Status: "active",
	}}
	if err := orch.SaveDraft(context.Background(), payload); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if got := len(orch.Visible()); got != 1 {
		t.Fatalf("expected created employee visible after refresh, got %d", got)
	}
}
