// Package directory is the employee list orchestrator: it owns the canonical
// directory snapshot, search and pagination state, and funnels every
// mutation through a full refresh — the server is the source of truth and
// the local list is only a cache invalidated after each round trip.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"peopleops/internal/validate"
	"peopleops/internal/workflow"
)

const (
	PageSize            = 10
	DefaultSearchWindow = 300 * time.Millisecond

	StatusInactive        = "INACTIVE"
	StatusPendingInactive = "PENDING_INACTIVE"
)

var ErrEffectiveDateInPast = errors.New("effective date cannot be before today")

// EmployeeSummary is the immutable list-view projection of an employee.
type EmployeeSummary struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Status      string `json:"status"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	JoiningDate string `json:"joiningDate,omitempty"`
}

// StatusChange is the body of a status transition request.
type StatusChange struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	Remarks       string `json:"remarks,omitempty"`
	EffectiveDate string `json:"effectiveDate,omitempty"`
}

// Client is the REST collaborator the orchestrator talks to.
type Client interface {
	ListEmployees(ctx context.Context) ([]EmployeeSummary, error)
	CreateEmployee(ctx context.Context, payload workflow.CreatePayload) (EmployeeSummary, error)
	UpdateEmployee(ctx context.Context, id string, payload workflow.UpdatePayload) error
	DeleteEmployee(ctx context.Context, id string) error
	UpdateEmployeeStatus(ctx context.Context, id string, change StatusChange) error
}

// Notifier surfaces one-shot user-facing notifications (toasts).
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string) {}

type Orchestrator struct {
	client       Client
	notifier     Notifier
	logger       *slog.Logger
	searchWindow time.Duration

	mu          sync.Mutex
	employees   []EmployeeSummary
	searchTerm  string
	page        int
	loading     bool
	searchTimer *time.Timer
	searchGen   uint64
	closed      bool
}

type Config struct {
	Client       Client
	Notifier     Notifier
	Logger       *slog.Logger
	SearchWindow time.Duration
}

func New(cfg Config) *Orchestrator {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := cfg.SearchWindow
	if window <= 0 {
		window = DefaultSearchWindow
	}
	return &Orchestrator{
		client:       cfg.Client,
		notifier:     notifier,
		logger:       logger,
		searchWindow: window,
		page:         1,
	}
}

// Refresh refetches the full directory and replaces the canonical list
// wholesale. On failure the previous list stays untouched.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	o.loading = true
	o.mu.Unlock()

	employees, err := o.client.ListEmployees(ctx)

	o.mu.Lock()
	o.loading = false
	if err == nil {
		o.employees = employees
	}
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("employee list refresh failed", "err", err)
		o.notifier.Error("Failed to load employees")
		return err
	}
	return nil
}

func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// Search applies the term after the debounce window and resets to page 1.
// A newer call supersedes any pending one.
func (o *Orchestrator) Search(term string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.searchGen++
	generation := o.searchGen
	if o.searchTimer != nil {
		o.searchTimer.Stop()
	}
	o.searchTimer = time.AfterFunc(o.searchWindow, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.closed || o.searchGen != generation {
			return
		}
		o.searchTerm = term
		o.page = 1
	})
}

// SearchNow applies the term immediately (used by tests and the enter key).
func (o *Orchestrator) SearchNow(term string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.searchGen++
	if o.searchTimer != nil {
		o.searchTimer.Stop()
		o.searchTimer = nil
	}
	o.searchTerm = term
	o.page = 1
}

func (o *Orchestrator) SearchTerm() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.searchTerm
}

func matches(emp EmployeeSummary, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, haystack := range []string{
		emp.FirstName + " " + emp.MiddleName + " " + emp.LastName,
		emp.Email,
		emp.Department,
		emp.Designation,
	} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) filteredLocked() []EmployeeSummary {
	out := make([]EmployeeSummary, 0, len(o.employees))
	for _, emp := range o.employees {
		if matches(emp, o.searchTerm) {
			out = append(out, emp)
		}
	}
	return out
}

// Visible returns the current page of the filtered directory.
func (o *Orchestrator) Visible() []EmployeeSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	filtered := o.filteredLocked()
	start := (o.page - 1) * PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

func (o *Orchestrator) TotalPages() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	count := len(o.filteredLocked())
	if count == 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

func (o *Orchestrator) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

func (o *Orchestrator) SetPage(page int) {
	total := o.TotalPages()
	o.mu.Lock()
	defer o.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	o.page = page
}

func (o *Orchestrator) NextPage() { o.SetPage(o.Page() + 1) }
func (o *Orchestrator) PrevPage() { o.SetPage(o.Page() - 1) }

// SaveDraft is the save callback handed to employee forms: it routes the
// composed payload to create or update and refreshes the directory.
func (o *Orchestrator) SaveDraft(ctx context.Context, payload workflow.Payload) error {
	switch {
	case payload.Create != nil:
		if _, err := o.client.CreateEmployee(ctx, *payload.Create); err != nil {
			o.notifier.Error("Failed to create employee")
			return err
		}
		o.notifier.Success("Employee created")
	case payload.Update != nil:
		if err := o.client.UpdateEmployee(ctx, payload.Update.ID, *payload.Update); err != nil {
			o.notifier.Error("Failed to update employee")
			return err
		}
		o.notifier.Success("Employee updated")
	default:
		return errors.New("empty payload")
	}
	return o.Refresh(ctx)
}

// ChangeStatus inactivates an employee. An effective date of today requests
// an immediate INACTIVE; a future date requests PENDING_INACTIVE carrying
// reason/remarks/date; a past date is rejected locally with no call.
func (o *Orchestrator) ChangeStatus(ctx context.Context, employeeID, reason, remarks, effectiveDate string) error {
	effective, err := validate.ParseDate(effectiveDate)
	if err != nil || effective.IsZero() {
		return errors.New("effective date must be a valid date in YYYY-MM-DD format")
	}
	today := time.Now().Format("2006-01-02")
	effectiveDay := effective.Format("2006-01-02")

	if effectiveDay < today {
		return ErrEffectiveDateInPast
	}

	change := StatusChange{Status: StatusInactive}
	if effectiveDay > today {
		change = StatusChange{
			Status:        StatusPendingInactive,
			Reason:        reason,
			Remarks:       remarks,
			EffectiveDate: effectiveDay,
		}
	}

	if err := o.client.UpdateEmployeeStatus(ctx, employeeID, change); err != nil {
		o.logger.Error("status change failed", "employeeId", employeeID, "err", err)
		o.notifier.Error("Failed to update employee status")
		return err
	}
	o.notifier.Success("Employee status updated")
	return o.Refresh(ctx)
}

// Delete removes the employee and refreshes.
func (o *Orchestrator) Delete(ctx context.Context, employeeID string) error {
	if err := o.client.DeleteEmployee(ctx, employeeID); err != nil {
		o.logger.Error("employee delete failed", "employeeId", employeeID, "err", err)
		o.notifier.Error("Failed to delete employee")
		return err
	}
	o.notifier.Success("Employee deleted")
	return o.Refresh(ctx)
}

// Close cancels any pending search debounce timer.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.searchTimer != nil {
		o.searchTimer.Stop()
		o.searchTimer = nil
	}
}
