package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/dispatch/transport"
	"depot_dispatch_backend/internal/events"
	"depot_dispatch_backend/platform/apperr"
	"depot_dispatch_backend/platform/logger"
)

type fakeRepo struct {
	mu           sync.Mutex
	rows         map[uuid.UUID]repository.SlotRow
	listed       []repository.SlotRow
	transitions  []repository.TransitionParams
	countUpdates []repository.UpdateReportedCountParams
	logs         map[uuid.UUID][]repository.ActionLogEntry
	replacements map[uuid.UUID][]repository.ReplacementEntry
	updateErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:         make(map[uuid.UUID]repository.SlotRow),
		logs:         make(map[uuid.UUID][]repository.ActionLogEntry),
		replacements: make(map[uuid.UUID][]repository.ReplacementEntry),
	}
}

func (f *fakeRepo) addRow(row repository.SlotRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[row.SlotID] = row
	f.listed = append(f.listed, row)
}

func (f *fakeRepo) ListSlotRows(ctx context.Context, params repository.ListSlotRowsParams) ([]repository.SlotRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]repository.SlotRow, len(f.listed))
	copy(result, f.listed)
	return result, nil
}

func (f *fakeRepo) GetRowBySlot(ctx context.Context, slotID uuid.UUID) (repository.SlotRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[slotID]
	if !ok {
		return repository.SlotRow{}, apperr.NotFound("statement row not found")
	}
	return row, nil
}

func (f *fakeRepo) TransitionRow(ctx context.Context, params repository.TransitionParams) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[params.SlotID]
	if !ok {
		return uuid.Nil, apperr.NotFound("statement row not found")
	}
	row.Status = params.TargetStatus
	raw := params.TargetStatus
	row.RawStatus = &raw
	if params.ReportedCount != nil {
		row.ReportedRevolutions = params.ReportedCount
	}
	f.rows[params.SlotID] = row
	f.transitions = append(f.transitions, params)

	id := uuid.New()
	f.logs[params.SlotID] = append(f.logs[params.SlotID], repository.ActionLogEntry{
		ID:            id,
		SlotID:        params.SlotID,
		StatementID:   params.StatementID,
		LoggedAt:      time.Now(),
		TimeOfDay:     params.TimeOfDay,
		TargetStatus:  params.TargetStatus,
		ReasonCode:    params.ReasonCode,
		Comment:       params.Comment,
		ReportedCount: params.ReportedCount,
		VehicleLabel:  params.VehicleLabel,
		DriverName:    params.DriverName,
	})
	return id, nil
}

func (f *fakeRepo) ListActionLog(ctx context.Context, slotID uuid.UUID) ([]repository.ActionLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]repository.ActionLogEntry, len(f.logs[slotID]))
	copy(entries, f.logs[slotID])
	return entries, nil
}

func (f *fakeRepo) ListReplacementHistory(ctx context.Context, slotID uuid.UUID) ([]repository.ReplacementEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]repository.ReplacementEntry, len(f.replacements[slotID]))
	copy(entries, f.replacements[slotID])
	return entries, nil
}

func (f *fakeRepo) UpdateReportedCount(ctx context.Context, params repository.UpdateReportedCountParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.countUpdates = append(f.countUpdates, params)
	return nil
}

func (f *fakeRepo) ListUnreportedActive(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID) ([]repository.SlotRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []repository.SlotRow
	for _, row := range f.listed {
		if row.Status == "OnWork" && row.ReportedRevolutions == nil {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeRepo) transitionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transitions)
}

func (f *fakeRepo) savedCounts() []repository.UpdateReportedCountParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]repository.UpdateReportedCountParams, len(f.countUpdates))
	copy(result, f.countUpdates)
	return result
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]events.Event, len(b.published))
	copy(result, b.published)
	return result
}

func newTestService(repo repository.Repository, debounce time.Duration) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(repo, logger.New("development"), bus, DefaultReasonCatalog(), debounce, nil, "")
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return svc, bus
}

func strPtr(s string) *string { return &s }

func activeRow(slotID uuid.UUID) repository.SlotRow {
	statementID := uuid.New()
	return repository.SlotRow{
		SlotID:             slotID,
		ServiceDate:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ConvoyID:           uuid.New(),
		RouteID:            uuid.New(),
		RouteLabel:         "12",
		StatementID:        &statementID,
		SlotLabel:          "1",
		PlannedRevolutions: 8,
		Status:             "OnWork",
		RawStatus:          strPtr("OnWork"),
		VehicleLabel:       strPtr("1042"),
		DriverName:         strPtr("Petrov"),
	}
}

func TestExecuteActionReportOff(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	resp, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "report-off",
		ReasonCode: "Breakdown",
		Comment:    strPtr("engine overheated"),
	})
	if err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if resp.Status != "GotOff" {
		t.Fatalf("status = %q, want GotOff", resp.Status)
	}
	if resp.LogEntryID == uuid.Nil {
		t.Fatal("expected a log entry id")
	}
	if repo.transitionCount() != 1 {
		t.Fatalf("transitions = %d, want 1", repo.transitionCount())
	}

	params := repo.transitions[0]
	if params.TargetStatus != "GotOff" || params.ReasonCode != "Breakdown" {
		t.Fatalf("unexpected transition params: %+v", params)
	}
	if params.TimeOfDay != "09:30:00" {
		t.Fatalf("time of day = %q, want 09:30:00", params.TimeOfDay)
	}

	published := bus.events()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	transitioned, ok := published[0].(events.StatementRowTransitioned)
	if !ok {
		t.Fatalf("published event has type %T", published[0])
	}
	if transitioned.FromStatus != "OnWork" || transitioned.ToStatus != "GotOff" {
		t.Fatalf("event statuses = %q -> %q", transitioned.FromStatus, transitioned.ToStatus)
	}

	wantAllowed := map[string]bool{"return-to-line": true, "remove": true, "view-log": true}
	if len(resp.AllowedActions) != len(wantAllowed) {
		t.Fatalf("allowed actions = %v", resp.AllowedActions)
	}
	for _, action := range resp.AllowedActions {
		if !wantAllowed[action] {
			t.Fatalf("unexpected allowed action %q", action)
		}
	}
}

func TestExecuteActionGuardRefusalLeavesNoTrace(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	row := activeRow(slotID)
	row.Status = "GotOff"
	row.RawStatus = strPtr("GotOff")
	repo.addRow(row)

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "complete",
		ReasonCode: "DayComplete",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if repo.transitionCount() != 0 {
		t.Fatal("refused action must not record a transition")
	}
	if len(bus.events()) != 0 {
		t.Fatal("refused action must not publish events")
	}
}

func TestExecuteActionCompleteParsesCommaCount(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	resp, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:        "complete",
		ReasonCode:    "DayComplete",
		ReportedCount: strPtr("12,5"),
	})
	if err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if resp.Status != "Completed" {
		t.Fatalf("status = %q, want Completed", resp.Status)
	}
	got := repo.transitions[0].ReportedCount
	if got == nil || *got != 12.5 {
		t.Fatalf("reported count = %v, want 12.5", got)
	}
}

func TestExecuteActionCompleteRequiresCount(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "complete",
		ReasonCode: "DayComplete",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if repo.transitionCount() != 0 {
		t.Fatal("missing count must refuse before any mutation")
	}
}

func TestExecuteActionRequiresLinkedStatement(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	row := activeRow(slotID)
	row.StatementID = nil
	repo.addRow(row)

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "report-off",
		ReasonCode: "Breakdown",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if repo.transitionCount() != 0 {
		t.Fatal("row without statement must not transition")
	}
}

func TestExecuteActionUnknownReasonCode(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "report-off",
		ReasonCode: "NotACode",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestExecuteActionViewLogIsNotExecutable(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "view-log",
		ReasonCode: "Other",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSendToOrderThenReturnToLine(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	resp, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "send-to-order",
		ReasonCode: "Order",
	})
	if err != nil {
		t.Fatalf("send-to-order: %v", err)
	}
	if resp.Status != "OnOrder" {
		t.Fatalf("status = %q, want OnOrder", resp.Status)
	}

	resp, err = svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "return-to-line",
		ReasonCode: "Return",
	})
	if err != nil {
		t.Fatalf("return-to-line: %v", err)
	}
	if resp.Status != "OnWork" {
		t.Fatalf("status = %q, want OnWork", resp.Status)
	}
	if repo.transitionCount() != 2 {
		t.Fatalf("transitions = %d, want 2", repo.transitionCount())
	}
}

func TestReturnToLineChecksRawStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	// Canonical status says active, but the raw upstream value is the legacy
	// removed code. Return-to-line must still work.
	slotID := uuid.New()
	row := activeRow(slotID)
	row.Status = "OnWork"
	row.RawStatus = strPtr("4")
	repo.addRow(row)

	resp, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "return-to-line",
		ReasonCode: "Return",
	})
	if err != nil {
		t.Fatalf("return-to-line: %v", err)
	}
	if resp.Status != "OnWork" {
		t.Fatalf("status = %q, want OnWork", resp.Status)
	}
}

func TestReturnToLineRefusedForActiveRow(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.addRow(activeRow(slotID))

	_, err := svc.ExecuteAction(context.Background(), slotID, transport.ActionRequest{
		Action:     "return-to-line",
		ReasonCode: "Return",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if repo.transitionCount() != 0 {
		t.Fatal("active row must not return to line")
	}
}

func TestExecuteActionUnknownSlot(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	_, err := svc.ExecuteAction(context.Background(), uuid.New(), transport.ActionRequest{
		Action:     "report-off",
		ReasonCode: "Breakdown",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
