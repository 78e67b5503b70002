// Package service provides business logic for the dispatch statement
// workflow: bucket building, workflow transitions, the merged journal, and
// debounced reported-count persistence.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/domain"
	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/dispatch/transport"
	"depot_dispatch_backend/internal/events"
	"depot_dispatch_backend/platform/apperr"
	"depot_dispatch_backend/platform/logger"
)

const (
	msgNoLinkedStatement = "no linked statement"
	msgCountRequired     = "reported count required"
	msgCountNotNumeric   = "reported count must be a number"
)

// ReviewScheduler schedules the background day-close review for a statement
// day. Optional; a nil scheduler disables the review.
type ReviewScheduler interface {
	ScheduleDayCloseReview(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID, runAt time.Time) error
}

// Service provides business logic for dispatch statements.
type Service struct {
	repo     repository.Repository
	log      *logger.Logger
	bus      events.Bus
	reasons  *ReasonCatalog
	autosave *CountAutosaver
	reviews  ReviewScheduler
	dayClose string
	now      func() time.Time

	mu               sync.Mutex
	scheduledReviews map[string]bool
}

// New creates a new dispatch service.
func New(repo repository.Repository, log *logger.Logger, bus events.Bus, reasons *ReasonCatalog, debounce time.Duration, reviews ReviewScheduler, dayCloseAt string) *Service {
	return &Service{
		repo:             repo,
		log:              log,
		bus:              bus,
		reasons:          reasons,
		autosave:         NewCountAutosaver(repo, bus, log, debounce),
		reviews:          reviews,
		dayClose:         dayCloseAt,
		now:              time.Now,
		scheduledReviews: make(map[string]bool),
	}
}

// Close cancels pending autosave timers. Called on shutdown so stale edits
// are not persisted after teardown.
func (s *Service) Close() {
	s.autosave.Close()
}

// BuildStatement fetches the day's plan and returns the ordered route
// buckets. Rows are rebuilt from storage on every call; the caller re-fetches
// after mutations rather than patching a cached copy.
func (s *Service) BuildStatement(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID, statusFilter string) (transport.StatementResponse, error) {
	rows, err := s.repo.ListSlotRows(ctx, repository.ListSlotRowsParams{
		ServiceDate: serviceDate,
		ConvoyID:    convoyID,
		Status:      statusFilter,
	})
	if err != nil {
		return transport.StatementResponse{}, err
	}

	buckets := s.buildBuckets(rows)
	s.maybeScheduleReview(ctx, serviceDate, convoyID)

	response := transport.StatementResponse{
		Date:     serviceDate.Format("2006-01-02"),
		ConvoyID: convoyID,
		Buckets:  make([]transport.BucketResponse, 0, len(buckets)),
	}
	for _, bucket := range buckets {
		response.Buckets = append(response.Buckets, s.toBucketResponse(bucket))
	}
	return response, nil
}

// ExecuteAction validates and executes one workflow action against a row.
// All guards run before any mutation; a refused action leaves no trace.
func (s *Service) ExecuteAction(ctx context.Context, slotID uuid.UUID, req transport.ActionRequest) (transport.ActionResponse, error) {
	action := domain.Action(req.Action)
	rule, ok := domain.Rule(action)
	if !ok || action == domain.ActionViewLog {
		return transport.ActionResponse{}, apperr.Validation(fmt.Sprintf("unknown action %q", req.Action))
	}

	row, err := s.repo.GetRowBySlot(ctx, slotID)
	if err != nil {
		return transport.ActionResponse{}, err
	}

	status := domain.Normalize(&row.Status)

	if action == domain.ActionReturnToLine {
		// The canonical and raw statuses may diverge transiently; the guard
		// checks both sides.
		if !domain.ReturnToLineAllowed(status, row.RawStatus) {
			return transport.ActionResponse{}, apperr.Validation("row is not off the line")
		}
	} else if !domain.ActionAllowed(status, action) {
		return transport.ActionResponse{}, apperr.Conflict(fmt.Sprintf("action %q is not allowed for status %q", action, status))
	}

	if rule.NeedsStatement && row.StatementID == nil {
		return transport.ActionResponse{}, apperr.Validation(msgNoLinkedStatement)
	}

	if !s.reasons.Valid(action, req.ReasonCode) {
		return transport.ActionResponse{}, apperr.Validation(fmt.Sprintf("unknown reason code %q for action %q", req.ReasonCode, action))
	}

	var count *float64
	if req.ReportedCount != nil {
		count, err = domain.ParseCount(*req.ReportedCount)
		if err != nil {
			return transport.ActionResponse{}, apperr.Validation(msgCountNotNumeric)
		}
	}
	if rule.NeedsCount && count == nil {
		return transport.ActionResponse{}, apperr.Validation(msgCountRequired)
	}
	if count == nil {
		// Transitions that carry no fresh count log the last known one.
		count = row.ReportedRevolutions
	}

	target := rule.Target
	if target == "" {
		target = status
	}

	logID, err := s.repo.TransitionRow(ctx, repository.TransitionParams{
		SlotID:        slotID,
		StatementID:   row.StatementID,
		TargetStatus:  string(target),
		TimeOfDay:     s.now().Format("15:04:05"),
		ReasonCode:    req.ReasonCode,
		Comment:       req.Comment,
		ReportedCount: count,
		VehicleLabel:  row.VehicleLabel,
		DriverName:    row.DriverName,
	})
	if err != nil {
		return transport.ActionResponse{}, err
	}

	s.log.WorkflowTransition(slotID.String(), string(action), string(status), string(target))
	s.bus.Publish(ctx, events.StatementRowTransitioned{
		BaseEvent:   events.NewBaseEvent(),
		SlotID:      slotID,
		StatementID: row.StatementID,
		Action:      string(action),
		FromStatus:  string(status),
		ToStatus:    string(target),
		LogEntryID:  logID,
	})

	return transport.ActionResponse{
		SlotID:         slotID,
		Status:         string(target),
		LogEntryID:     logID,
		AllowedActions: actionNames(domain.AllowedActions(target)),
	}, nil
}

// EditCount records an in-progress reported-count edit and schedules its
// debounced persist. Returns immediately; the outcome is published on the
// event bus.
func (s *Service) EditCount(slotID uuid.UUID, rawText string) error {
	return s.autosave.Edit(slotID, rawText)
}

// PendingCountText returns the not-yet-persisted edit for a slot, if any.
func (s *Service) PendingCountText(slotID uuid.UUID) (string, bool) {
	return s.autosave.PendingText(slotID)
}

// Reasons returns the reason-code catalog grouped by action.
func (s *Service) Reasons() transport.ReasonsResponse {
	response := transport.ReasonsResponse{Actions: make(map[string][]transport.ReasonResponse, len(s.reasons.Actions))}
	for action, reasons := range s.reasons.Actions {
		list := make([]transport.ReasonResponse, 0, len(reasons))
		for _, reason := range reasons {
			list = append(list, transport.ReasonResponse{Code: reason.Code, Label: reason.Label})
		}
		response.Actions[action] = list
	}
	return response
}

// maybeScheduleReview schedules the day-close review once per statement day.
func (s *Service) maybeScheduleReview(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID) {
	if s.reviews == nil || s.dayClose == "" {
		return
	}

	key := serviceDate.Format("2006-01-02") + "/" + convoyID.String()
	s.mu.Lock()
	if s.scheduledReviews[key] {
		s.mu.Unlock()
		return
	}
	s.scheduledReviews[key] = true
	s.mu.Unlock()

	closeAt, err := time.Parse("15:04", s.dayClose)
	if err != nil {
		return
	}
	runAt := time.Date(serviceDate.Year(), serviceDate.Month(), serviceDate.Day(),
		closeAt.Hour(), closeAt.Minute(), 0, 0, time.Local)
	if !runAt.After(s.now()) {
		return
	}

	if err := s.reviews.ScheduleDayCloseReview(ctx, serviceDate, convoyID, runAt); err != nil {
		s.log.Error("failed to schedule day-close review", "error", err, "date", key)
	}
}

func actionNames(actions []domain.Action) []string {
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}
	return names
}
