package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/domain"
	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/events"
	"depot_dispatch_backend/platform/apperr"
	"depot_dispatch_backend/platform/logger"
)

const persistTimeout = 10 * time.Second

// CountAutosaver coalesces per-slot reported-count edits and persists only
// the latest value once the dispatcher pauses. Each slot has at most one
// armed timer; a new edit cancels and replaces it. Persists for the same
// slot never overlap: a timer firing mid-persist queues one follow-up run.
type CountAutosaver struct {
	repo     repository.Repository
	bus      events.Bus
	log      *logger.Logger
	debounce time.Duration

	mu       sync.Mutex
	closed   bool
	pending  map[uuid.UUID]string
	timers   map[uuid.UUID]*time.Timer
	inflight map[uuid.UUID]bool
	queued   map[uuid.UUID]bool
}

// NewCountAutosaver creates an autosaver with the given debounce window.
func NewCountAutosaver(repo repository.Repository, bus events.Bus, log *logger.Logger, debounce time.Duration) *CountAutosaver {
	return &CountAutosaver{
		repo:     repo,
		bus:      bus,
		log:      log,
		debounce: debounce,
		pending:  make(map[uuid.UUID]string),
		timers:   make(map[uuid.UUID]*time.Timer),
		inflight: make(map[uuid.UUID]bool),
		queued:   make(map[uuid.UUID]bool),
	}
}

// Edit records the latest text for a slot and re-arms its debounce timer.
// The raw text is kept verbatim until the persist; validation happens then,
// so a half-typed value never destroys the stored one.
func (a *CountAutosaver) Edit(slotID uuid.UUID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return apperr.Conflict("autosave is shut down")
	}

	a.pending[slotID] = text
	if timer, ok := a.timers[slotID]; ok {
		timer.Stop()
	}
	a.timers[slotID] = time.AfterFunc(a.debounce, func() { a.fire(slotID) })
	return nil
}

// PendingText returns the not-yet-persisted edit for a slot, if one exists.
func (a *CountAutosaver) PendingText(slotID uuid.UUID) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	text, ok := a.pending[slotID]
	return text, ok
}

// Close cancels all armed timers and refuses further edits. Running persists
// finish; pending edits that never fired are dropped.
func (a *CountAutosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	for slotID, timer := range a.timers {
		timer.Stop()
		delete(a.timers, slotID)
	}
	a.pending = make(map[uuid.UUID]string)
	a.queued = make(map[uuid.UUID]bool)
}

func (a *CountAutosaver) fire(slotID uuid.UUID) {
	a.mu.Lock()
	delete(a.timers, slotID)
	if a.closed {
		a.mu.Unlock()
		return
	}
	if a.inflight[slotID] {
		// A persist for this slot is already running; rerun with the newest
		// text once it finishes.
		a.queued[slotID] = true
		a.mu.Unlock()
		return
	}
	text, ok := a.pending[slotID]
	if !ok {
		a.mu.Unlock()
		return
	}
	a.inflight[slotID] = true
	a.mu.Unlock()

	saved := a.persist(slotID, text)

	a.mu.Lock()
	delete(a.inflight, slotID)
	// The marker stays visible until a persist lands: a failed save must not
	// make the typed text vanish from display. A newer edit keeps its own
	// marker until its own persist.
	if current, ok := a.pending[slotID]; saved && ok && current == text {
		delete(a.pending, slotID)
	}
	rerun := a.queued[slotID] && !a.closed
	delete(a.queued, slotID)
	a.mu.Unlock()

	if rerun {
		a.fire(slotID)
	}
}

// persist validates and writes one coalesced edit, reporting whether the
// value landed. Failures leave the stored value untouched and are reported
// on the bus.
func (a *CountAutosaver) persist(slotID uuid.UUID, text string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	value, err := domain.ParseCount(text)
	if err != nil {
		a.reportFailure(ctx, slotID, "value is not numeric")
		return false
	}

	row, err := a.repo.GetRowBySlot(ctx, slotID)
	if err != nil {
		a.log.DatabaseError("load row for count autosave", err)
		a.reportFailure(ctx, slotID, "row lookup failed")
		return false
	}
	if row.StatementID == nil {
		a.reportFailure(ctx, slotID, msgNoLinkedStatement)
		return false
	}

	err = a.repo.UpdateReportedCount(ctx, repository.UpdateReportedCountParams{
		StatementID:         *row.StatementID,
		ReportedCount:       value,
		DriverReportedCount: value,
	})
	if err != nil {
		a.log.DatabaseError("persist reported count", err)
		a.reportFailure(ctx, slotID, "persist failed")
		return false
	}

	a.bus.Publish(ctx, events.ReportedCountSaved{
		BaseEvent:   events.NewBaseEvent(),
		SlotID:      slotID,
		StatementID: *row.StatementID,
		Value:       value,
	})
	return true
}

func (a *CountAutosaver) reportFailure(ctx context.Context, slotID uuid.UUID, reason string) {
	a.bus.Publish(ctx, events.ReportedCountSaveFailed{
		BaseEvent: events.NewBaseEvent(),
		SlotID:    slotID,
		Reason:    reason,
	})
}
