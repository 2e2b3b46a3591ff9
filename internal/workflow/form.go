package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrUnknownField = errors.New("unknown field")

const (
	emailExistsMessage = "This email is already registered"
	phoneExistsMessage = "This phone number is already registered"
)

// SaveFunc receives the composed payload on successful submit. Errors are
// caught and logged by the form; they never propagate past Submit.
type SaveFunc func(ctx context.Context, payload Payload) error

type FormConfig struct {
	Mode           Mode
	Draft          *Draft // nil starts an empty creation draft
	Prober         ExistenceProber
	DebounceWindow time.Duration
	Save           SaveFunc
	Logger         *slog.Logger
}

// Form is the tabbed form state machine: it owns the draft, one error map
// per tab, the current tab cursor and the uniqueness checker. All methods
// are safe for concurrent use; checker completions land on timer goroutines.
type Form struct {
	mode    Mode
	tabs    []Tab
	save    SaveFunc
	logger  *slog.Logger
	checker *UniquenessChecker

	mu          sync.Mutex
	draft       *Draft
	storedEmail string
	storedPhone string
	current     int
	errors      map[Tab]ErrorMap
	existence   map[string]bool
	submitting  bool
	closed      bool
}

func NewForm(cfg FormConfig) *Form {
	draft := cfg.Draft.Clone()
	if draft == nil {
		draft = &Draft{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Form{
		mode:      cfg.Mode,
		tabs:      cfg.Mode.Tabs(),
		save:      cfg.Save,
		logger:    logger,
		draft:     draft,
		errors:    make(map[Tab]ErrorMap),
		existence: make(map[string]bool),
	}
	for _, tab := range f.tabs {
		f.errors[tab] = make(ErrorMap)
	}
	if draft.ID != "" {
		f.storedEmail = draft.Email
		f.storedPhone = draft.Phone
	}
	if cfg.Prober != nil {
		f.checker = NewUniquenessChecker(cfg.Prober, cfg.DebounceWindow, f.applyExistence)
	}
	return f
}

// SetField mutates the draft, clears any stored error for the field and, for
// email/phone, schedules a fresh uniqueness probe.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	fs, found := fieldIndex[name]
	if !found {
		f.mu.Unlock()
		return ErrUnknownField
	}
	fs.set(f.draft, value)
	f.errors[fs.tab(f.mode)].Clear(name)
	delete(f.existence, name)

	unique := fs.unique
	stored := ""
	switch name {
	case string(UniqueEmail):
		stored = f.storedEmail
	case string(UniquePhone):
		stored = f.storedPhone
	}
	excludeID := f.draft.ID
	f.mu.Unlock()

	if unique && f.checker != nil {
		f.checker.Schedule(UniqueField(name), value, stored, excludeID)
	}
	return nil
}

// BlurField runs the field's synchronous validator. An existence error on
// the field is preserved: a sync re-run never clears or overwrites it.
func (f *Form) BlurField(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	fs, found := fieldIndex[name]
	if !found || fs.validate == nil {
		return
	}
	if f.existence[name] {
		return
	}
	res := fs.validate(f.draft)
	if res.Valid {
		f.errors[fs.tab(f.mode)].Clear(name)
	} else {
		f.errors[fs.tab(f.mode)].Set(name, res.Message)
	}
}

// ValidateTab runs every validator bound to the tab, updating its error map,
// and reports whether the tab is clean. Existence errors count against the
// tab but are never recomputed here.
func (f *Form) ValidateTab(tab Tab) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateTabLocked(tab)
}

func (f *Form) validateTabLocked(tab Tab) bool {
	errMap, found := f.errors[tab]
	if !found {
		return true
	}
	for _, fs := range fieldsForTab(f.mode, tab) {
		if f.existence[fs.name] {
			continue
		}
		if fs.validate == nil {
			continue
		}
		res := fs.validate(f.draft)
		if res.Valid {
			errMap.Clear(fs.name)
		} else {
			errMap.Set(fs.name, res.Message)
		}
	}
	return errMap.Empty()
}

func (f *Form) applyExistence(field UniqueField, exists bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	name := string(field)
	fs, found := fieldIndex[name]
	if !found {
		return
	}
	tab := fs.tab(f.mode)
	if exists {
		message := emailExistsMessage
		if field == UniquePhone {
			message = phoneExistsMessage
		}
		f.errors[tab].Set(name, message)
		f.existence[name] = true
		return
	}
	if f.existence[name] {
		f.errors[tab].Clear(name)
		delete(f.existence, name)
	}
}

// CurrentTab returns the tab the cursor is on.
func (f *Form) CurrentTab() Tab {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tabs[f.current]
}

// tabReady reports whether the tab validates cleanly with no uniqueness
// probe pending for any of its fields.
func (f *Form) tabReady(tab Tab) bool {
	if !f.ValidateTab(tab) {
		return false
	}
	if f.checker == nil {
		return true
	}
	for _, fs := range fieldsForTab(f.mode, tab) {
		if fs.unique && f.checker.InFlight(UniqueField(fs.name)) {
			return false
		}
	}
	return true
}

// IsMandatoryValid reports whether the creation form's mandatory tab can be
// left: every mandatory validator passes, no existence error is outstanding
// and no uniqueness check is in flight.
func (f *Form) IsMandatoryValid() bool {
	return f.tabReady(TabMandatory)
}

// AdvanceTab moves to the next tab when the current one is ready.
func (f *Form) AdvanceTab() bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	tab := f.tabs[f.current]
	f.mu.Unlock()

	if !f.tabReady(tab) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current >= len(f.tabs)-1 {
		return false
	}
	f.current++
	return true
}

// SelectTab jumps directly to a tab (profile dialog navigation).
func (f *Form) SelectTab(tab Tab) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, candidate := range f.tabs {
		if candidate == tab {
			f.current = i
			return true
		}
	}
	return false
}

type SubmitResult struct {
	Saved               bool
	SaveFailed          bool
	FirstInvalidTab     Tab
	FirstInvalidField   string
	FirstInvalidMessage string
}

// Submit validates every tab; on success it composes the payload and invokes
// the save callback. Validation failure reports the first errored field and
// performs no call. A save error is logged and swallowed; the submit control
// is re-enabled either way.
func (f *Form) Submit(ctx context.Context) SubmitResult {
	f.mu.Lock()
	if f.closed || f.submitting {
		f.mu.Unlock()
		return SubmitResult{}
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	for _, tab := range f.tabs {
		if f.tabReady(tab) {
			continue
		}
		f.mu.Lock()
		field, message := f.errors[tab].First(fieldOrder(f.mode, tab))
		f.mu.Unlock()
		return SubmitResult{FirstInvalidTab: tab, FirstInvalidField: field, FirstInvalidMessage: message}
	}

	f.mu.Lock()
	draft := f.draft.Clone()
	f.mu.Unlock()

	payload, err := Compose(draft)
	if err != nil {
		f.logger.Error("compose failed", "err", err)
		return SubmitResult{SaveFailed: true}
	}

	if f.save != nil {
		if err := f.save(ctx, payload); err != nil {
			f.logger.Error("employee save failed", "err", err)
			return SubmitResult{SaveFailed: true}
		}
	}
	return SubmitResult{Saved: true}
}

// Submitting reports whether a submit is in progress (the UI disables the
// submit control while true).
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Draft returns a snapshot of the in-progress record.
func (f *Form) Draft() *Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// Errors returns a copy of the tab's error map.
func (f *Form) Errors(tab Tab) ErrorMap {
	f.mu.Lock()
	defer f.mu.Unlock()
	if errMap, found := f.errors[tab]; found {
		return errMap.clone()
	}
	return ErrorMap{}
}

// FieldValue reads the current draft value for a field.
func (f *Form) FieldValue(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fs, found := fieldIndex[name]
	if !found {
		return "", false
	}
	return fs.get(f.draft), true
}

// Close cancels pending uniqueness timers and discards the draft. A closed
// form ignores further mutations; the next dialog open builds a fresh form.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.draft = &Draft{}
	for _, tab := range f.tabs {
		f.errors[tab] = make(ErrorMap)
	}
	f.existence = make(map[string]bool)
	f.mu.Unlock()
	if f.checker != nil {
		f.checker.Cancel()
	}
}
