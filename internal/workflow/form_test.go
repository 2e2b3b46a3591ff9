package workflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fillMandatory(t *testing.T, form *Form) {
	t.Helper()
	for name, value := range map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@co.com",
		"country":   "IN",
		"phone":     "9876543210",
		"role":      "user",
		"status":    "active",
	} {
		if err := form.SetField(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
}

func TestEmptyFirstNameBlocksAdvanceAndBlurClearsOnlyThatEntry(t *testing.T) {
	form := NewForm(FormConfig{Mode: ModeCreate})
	fillMandatory(t, form)
	if err := form.SetField("firstName", ""); err != nil {
		t.Fatalf("set firstName: %v", err)
	}

	if form.AdvanceTab() {
		t.Fatal("expected advancement to be blocked")
	}
	errMap := form.Errors(TabMandatory)
	if got := errMap.Message("firstName"); got != "First name is required" {
		t.Fatalf("expected required message, got %q", got)
	}

	// Introduce a second error so the clear can be observed in isolation.
	if err := form.SetField("lastName", ""); err != nil {
		t.Fatalf("set lastName: %v", err)
	}
	form.ValidateTab(TabMandatory)

	if err := form.SetField("firstName", "Jane"); err != nil {
		t.Fatalf("set firstName: %v", err)
	}
	form.BlurField("firstName")

	errMap = form.Errors(TabMandatory)
	if errMap.Has("firstName") {
		t.Fatal("expected firstName error to clear after fix and blur")
	}
	if !errMap.Has("lastName") {
		t.Fatal("expected unrelated lastName error to remain")
	}
}

func TestCreateSubmitComposesQualifiedPhone(t *testing.T) {
	var saved Payload
	form := NewForm(FormConfig{
		Mode: ModeCreate,
		Save: func(ctx context.Context, payload Payload) error {
			saved = payload
			return nil
		},
	})
	fillMandatory(t, form)

	if !form.IsMandatoryValid() {
		t.Fatal("expected mandatory tab to be valid")
	}
	result := form.Submit(context.Background())
	if !result.Saved {
		t.Fatalf("expected save, got %+v", result)
	}
	if saved.Create == nil {
		t.Fatal("expected a create payload")
	}
	if saved.Create.Phone != "+919876543210" {
		t.Fatalf("expected qualified phone, got %q", saved.Create.Phone)
	}
	if saved.Create.Role != "user" || saved.Create.Status != "active" {
		t.Fatalf("unexpected role/status: %q %q", saved.Create.Role, saved.Create.Status)
	}
}

func TestSubmitValidationFailureReportsFirstFieldAndSkipsSave(t *testing.T) {
	saveCalls := 0
	form := NewForm(FormConfig{
		Mode: ModeCreate,
		Save: func(context.Context, Payload) error {
			saveCalls++
			return nil
		},
	})
	fillMandatory(t, form)
	if err := form.SetField("firstName", ""); err != nil {
		t.Fatal(err)
	}

	result := form.Submit(context.Background())
	if result.Saved {
		t.Fatal("expected submit to fail validation")
	}
	if result.FirstInvalidTab != TabMandatory || result.FirstInvalidField != "firstName" {
		t.Fatalf("expected firstName on mandatory tab first, got %+v", result)
	}
	if saveCalls != 0 {
		t.Fatal("expected no save call on validation failure")
	}
}

func TestSubmitSaveErrorIsCaughtAndReenablesSubmit(t *testing.T) {
	form := NewForm(FormConfig{
		Mode: ModeCreate,
		Save: func(context.Context, Payload) error {
			return errors.New("backend unavailable")
		},
	})
	fillMandatory(t, form)

	result := form.Submit(context.Background())
	if result.Saved || !result.SaveFailed {
		t.Fatalf("expected caught save failure, got %+v", result)
	}
	if form.Submitting() {
		t.Fatal("expected submit control to be re-enabled")
	}
}

func TestEditingStoredEmailSkipsExistenceProbe(t *testing.T) {
	prober := &fakeProber{}
	stored := &Draft{
		ID:        "emp-1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@co.com",
		Country:   "IN",
		Phone:     "9876543210",
		Role:      "user",
		Status:    StatusActive,
	}
	form := NewForm(FormConfig{
		Mode:           ModeProfile,
		Draft:          stored,
		Prober:         prober,
		DebounceWindow: 10 * time.Millisecond,
	})

	if err := form.SetField("email", "jane@co.com"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if prober.callCount() != 0 {
		t.Fatal("expected no probe when value equals the stored email")
	}
	if form.Errors(TabPersonal).Has("email") {
		t.Fatal("expected no error for the record's own email")
	}
}

func TestExistenceErrorSurvivesBlur(t *testing.T) {
	prober := &fakeProber{respond: func(ExistenceRequest) (ExistenceResult, error) {
		return ExistenceResult{EmailExists: true}, nil
	}}
	form := NewForm(FormConfig{
		Mode:           ModeCreate,
		Prober:         prober,
		DebounceWindow: 10 * time.Millisecond,
	})
	fillMandatory(t, form)

	waitFor(t, func() bool {
		return form.Errors(TabMandatory).Message("email") == "This email is already registered"
	})

	form.BlurField("email")
	if got := form.Errors(TabMandatory).Message("email"); got != "This email is already registered" {
		t.Fatalf("blur must not clobber the existence error, got %q", got)
	}

	if form.IsMandatoryValid() {
		t.Fatal("expected outstanding existence error to block advancement")
	}
}

func TestInFlightCheckBlocksAdvancement(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan ExistenceRequest, 4)
	prober := &fakeProber{
		started: started,
		respond: func(ExistenceRequest) (ExistenceResult, error) {
			<-gate
			return ExistenceResult{}, nil
		},
	}
	form := NewForm(FormConfig{
		Mode:           ModeCreate,
		Prober:         prober,
		DebounceWindow: 10 * time.Millisecond,
	})
	fillMandatory(t, form)
	// Both email and phone probes go in flight.
	<-started
	<-started

	if form.AdvanceTab() {
		t.Fatal("expected in-flight check to block advancement")
	}
	close(gate)
	waitFor(t, func() bool { return form.AdvanceTab() })
	if form.CurrentTab() != TabOptional {
		t.Fatalf("expected optional tab, got %s", form.CurrentTab())
	}
}

func TestWorkLocationFlipsBankValidatorSet(t *testing.T) {
	form := NewForm(FormConfig{Mode: ModeProfile, Draft: &Draft{
		ID: "emp-1", FirstName: "Jane", LastName: "Doe", Email: "jane@co.com",
		Country: "IN", Phone: "9876543210", Role: "user", Status: StatusActive,
	}})

	if err := form.SetField("workLocation", "Remote"); err != nil {
		t.Fatal(err)
	}
	if err := form.SetField("ifscCode", "bad"); err != nil {
		t.Fatal(err)
	}
	if err := form.SetField("swiftCode", "also-bad"); err != nil {
		t.Fatal(err)
	}

	if form.ValidateTab(TabBank) {
		t.Fatal("expected invalid IFSC to fail off-site bank validation")
	}
	errMap := form.Errors(TabBank)
	if !errMap.Has("ifscCode") {
		t.Fatal("expected ifscCode error off-site")
	}
	if errMap.Has("swiftCode") {
		t.Fatal("SWIFT must not be validated off-site")
	}

	if err := form.SetField("workLocation", WorkLocationOnSite); err != nil {
		t.Fatal(err)
	}
	form.ValidateTab(TabBank)
	errMap = form.Errors(TabBank)
	if errMap.Has("ifscCode") {
		t.Fatal("IFSC must not be validated on-site")
	}
	if !errMap.Has("swiftCode") {
		t.Fatal("expected swiftCode error on-site")
	}
}

func TestProbationRequiresConfirmationDate(t *testing.T) {
	form := NewForm(FormConfig{Mode: ModeCreate})
	fillMandatory(t, form)
	if !form.AdvanceTab() {
		t.Fatal("expected advancement to optional tab")
	}

	if err := form.SetField("isProbation", "true"); err != nil {
		t.Fatal(err)
	}
	if form.ValidateTab(TabOptional) {
		t.Fatal("expected missing confirmation date to fail while on probation")
	}
	if got := form.Errors(TabOptional).Message("confirmationDate"); got != "Confirmation date is required" {
		t.Fatalf("unexpected message %q", got)
	}

	future := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	if err := form.SetField("confirmationDate", future); err != nil {
		t.Fatal(err)
	}
	if !form.ValidateTab(TabOptional) {
		t.Fatalf("expected optional tab to pass, errors: %v", form.Errors(TabOptional))
	}
}

func TestCloseCancelsPendingProbes(t *testing.T) {
	prober := &fakeProber{}
	form := NewForm(FormConfig{
		Mode:           ModeCreate,
		Prober:         prober,
		DebounceWindow: 20 * time.Millisecond,
	})
	if err := form.SetField("email", "jane@co.com"); err != nil {
		t.Fatal(err)
	}
	form.Close()

	time.Sleep(80 * time.Millisecond)
	if prober.callCount() != 0 {
		t.Fatal("expected no probe after close")
	}
	if draft := form.Draft(); draft.Email != "" {
		t.Fatal("expected draft to be discarded on close")
	}
}

func TestSetFieldRejectsUnknownName(t *testing.T) {
	form := NewForm(FormConfig{Mode: ModeCreate})
	if err := form.SetField("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
