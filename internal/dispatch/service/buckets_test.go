package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/repository"
)

func planRow(routeID uuid.UUID, routeLabel, slotLabel, status string) repository.SlotRow {
	statementID := uuid.New()
	return repository.SlotRow{
		SlotID:      uuid.New(),
		ServiceDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ConvoyID:    uuid.New(),
		RouteID:     routeID,
		RouteLabel:  routeLabel,
		StatementID: &statementID,
		SlotLabel:   slotLabel,
		Status:      status,
	}
}

func TestBuildStatementGroupsAndOrders(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	routeA := uuid.New()
	routeB := uuid.New()

	// Interleaved routes, numeric labels out of order, one trailing status.
	repo.addRow(planRow(routeA, "12", "10", "OnWork"))
	repo.addRow(planRow(routeB, "3", "1", "OnWork"))
	repo.addRow(planRow(routeA, "12", "2", "OnOrder"))
	repo.addRow(planRow(routeA, "12", "1", "OnWork"))

	resp, err := svc.BuildStatement(context.Background(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), uuid.New(), "")
	if err != nil {
		t.Fatalf("BuildStatement: %v", err)
	}

	if len(resp.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(resp.Buckets))
	}
	if resp.Buckets[0].RouteID != routeA || resp.Buckets[1].RouteID != routeB {
		t.Fatal("buckets must keep first-appearance route order")
	}

	var labels []string
	for _, row := range resp.Buckets[0].Rows {
		labels = append(labels, row.SlotLabel)
	}
	// Active rows numerically ordered, the OnOrder row trailing.
	want := []string{"1", "10", "2"}
	for i, label := range want {
		if labels[i] != label {
			t.Fatalf("route A labels = %v, want %v", labels, want)
		}
	}
	if resp.Buckets[0].Rows[2].Status != "OnOrder" {
		t.Fatalf("trailing row status = %q, want OnOrder", resp.Buckets[0].Rows[2].Status)
	}
}

func TestBuildStatementNormalizesLegacyStatuses(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	routeID := uuid.New()
	repo.addRow(planRow(routeID, "7", "1", "released"))
	repo.addRow(planRow(routeID, "7", "2", "4"))
	repo.addRow(planRow(routeID, "7", "3", ""))

	resp, err := svc.BuildStatement(context.Background(), time.Now(), uuid.New(), "")
	if err != nil {
		t.Fatalf("BuildStatement: %v", err)
	}
	rows := resp.Buckets[0].Rows
	if rows[0].Status != "OnWork" || rows[1].Status != "OnWork" {
		t.Fatalf("active statuses = %q, %q, want OnWork", rows[0].Status, rows[1].Status)
	}
	if rows[2].Status != "Rejected" {
		t.Fatalf("legacy removed code status = %q, want Rejected", rows[2].Status)
	}
	if rows[2].SlotLabel != "2" {
		t.Fatalf("rejected row must sort last, got label %q", rows[2].SlotLabel)
	}
}

func TestBuildStatementNoRowsNoBuckets(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	resp, err := svc.BuildStatement(context.Background(), time.Now(), uuid.New(), "")
	if err != nil {
		t.Fatalf("BuildStatement: %v", err)
	}
	if len(resp.Buckets) != 0 {
		t.Fatalf("buckets = %d, want 0", len(resp.Buckets))
	}
}

func TestBuildStatementExposesPendingEdit(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Hour)
	defer svc.Close()

	row := planRow(uuid.New(), "5", "1", "OnWork")
	repo.addRow(row)

	if err := svc.EditCount(row.SlotID, "7,"); err != nil {
		t.Fatalf("EditCount: %v", err)
	}

	resp, err := svc.BuildStatement(context.Background(), time.Now(), uuid.New(), "")
	if err != nil {
		t.Fatalf("BuildStatement: %v", err)
	}
	got := resp.Buckets[0].Rows[0].PendingReportedText
	if got == nil || *got != "7," {
		t.Fatalf("pending text = %v, want 7,", got)
	}
}
