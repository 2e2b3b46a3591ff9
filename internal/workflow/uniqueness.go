package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceWindow is how long input must stay idle before an existence
// probe fires.
const DefaultDebounceWindow = 500 * time.Millisecond

const probeTimeout = 10 * time.Second

type UniqueField string

const (
	UniqueEmail UniqueField = "email"
	UniquePhone UniqueField = "phone"
)

type ExistenceRequest struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ExcludeID string `json:"excludeId,omitempty"`
}

type ExistenceResult struct {
	EmailExists bool
	PhoneExists bool
}

// ExistenceProber asks the backend whether an email or phone is already
// registered to another employee.
type ExistenceProber interface {
	CheckExistence(ctx context.Context, req ExistenceRequest) (ExistenceResult, error)
}

// UniquenessChecker debounces existence probes per field. Only the most
// recently scheduled probe for a field may complete: each Schedule bumps a
// generation counter, and both the pending timer and any in-flight probe
// carrying an older generation are discarded when they fire or return.
type UniquenessChecker struct {
	mu       sync.Mutex
	prober   ExistenceProber
	window   time.Duration
	onResult func(field UniqueField, exists bool)
	logger   *slog.Logger

	timers   map[UniqueField]*time.Timer
	gen      map[UniqueField]uint64
	inflight map[UniqueField]int
	closed   bool
}

func NewUniquenessChecker(prober ExistenceProber, window time.Duration, onResult func(field UniqueField, exists bool)) *UniquenessChecker {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &UniquenessChecker{
		prober:   prober,
		window:   window,
		onResult: onResult,
		logger:   slog.Default(),
		timers:   make(map[UniqueField]*time.Timer),
		gen:      make(map[UniqueField]uint64),
		inflight: make(map[UniqueField]int),
	}
}

// Schedule queues an existence probe for field after the debounce window.
// Any earlier pending probe for the same field is invalidated first. When
// the candidate equals the employee's already-stored value (edit mode), or
// is blank, no probe is scheduled and the field is reported as free.
func (c *UniquenessChecker) Schedule(field UniqueField, value, storedValue, excludeID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen[field]++
	generation := c.gen[field]
	if timer, found := c.timers[field]; found {
		timer.Stop()
		delete(c.timers, field)
	}

	if value == "" || (storedValue != "" && value == storedValue) {
		c.mu.Unlock()
		if c.onResult != nil {
			c.onResult(field, false)
		}
		return
	}

	c.timers[field] = time.AfterFunc(c.window, func() {
		c.fire(field, value, excludeID, generation)
	})
	c.mu.Unlock()
}

func (c *UniquenessChecker) fire(field UniqueField, value, excludeID string, generation uint64) {
	c.mu.Lock()
	if c.closed || c.gen[field] != generation {
		c.mu.Unlock()
		return
	}
	delete(c.timers, field)
	c.inflight[field]++
	c.mu.Unlock()

	req := ExistenceRequest{ExcludeID: excludeID}
	switch field {
	case UniqueEmail:
		req.Email = value
	case UniquePhone:
		req.Phone = value
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	result, err := c.prober.CheckExistence(ctx, req)
	cancel()

	c.mu.Lock()
	c.inflight[field]--
	stale := c.closed || c.gen[field] != generation
	c.mu.Unlock()

	if stale {
		return
	}
	if err != nil {
		// Existence unknown: log and do not block the user.
		c.logger.Warn("existence check failed", "field", string(field), "err", err)
		return
	}

	exists := result.EmailExists
	if field == UniquePhone {
		exists = result.PhoneExists
	}
	if c.onResult != nil {
		c.onResult(field, exists)
	}
}

// InFlight reports whether field has a pending debounce timer or an
// unfinished probe.
func (c *UniquenessChecker) InFlight(field UniqueField) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pending := c.timers[field]
	return pending || c.inflight[field] > 0
}

// Busy reports whether any field is pending or in flight.
func (c *UniquenessChecker) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) > 0 {
		return true
	}
	for _, count := range c.inflight {
		if count > 0 {
			return true
		}
	}
	return false
}

// Cancel stops every pending timer and invalidates in-flight probes. The
// checker accepts no further schedules afterwards.
func (c *UniquenessChecker) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for field, timer := range c.timers {
		timer.Stop()
		delete(c.timers, field)
	}
}
