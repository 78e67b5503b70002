package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/repository"
)

func TestJournalMergesBothFeedsByTime(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.logs[slotID] = []repository.ActionLogEntry{
		{ID: uuid.New(), SlotID: slotID, TimeOfDay: "08:15:00", TargetStatus: "GotOff", ReasonCode: "Breakdown"},
		{ID: uuid.New(), SlotID: slotID, TimeOfDay: "14:40:00", TargetStatus: "OnWork", ReasonCode: "Return"},
	}
	repo.replacements[slotID] = []repository.ReplacementEntry{
		{ID: uuid.New(), SlotID: slotID, Kind: "vehicle-swap", OccurredAtText: "10:05", ToVehicle: strPtr("1107")},
	}

	resp, err := svc.Journal(context.Background(), slotID)
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(resp.Entries))
	}

	wantSources := []string{journalSourceAction, journalSourceReplacement, journalSourceAction}
	wantTimes := []string{"08:15:00", "10:05:00", "14:40:00"}
	for i := range resp.Entries {
		if resp.Entries[i].Source != wantSources[i] || resp.Entries[i].Time != wantTimes[i] {
			t.Fatalf("entry %d = %s %s, want %s %s",
				i, resp.Entries[i].Source, resp.Entries[i].Time, wantSources[i], wantTimes[i])
		}
	}
	if got := resp.Entries[1].ToVehicle; got == nil || *got != "1107" {
		t.Fatalf("swap entry vehicle = %v, want 1107", got)
	}
}

func TestJournalKeepsUnparsableTimes(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	slotID := uuid.New()
	repo.replacements[slotID] = []repository.ReplacementEntry{
		{ID: uuid.New(), SlotID: slotID, Kind: "repair-return", OccurredAtText: "sometime after lunch"},
	}
	repo.logs[slotID] = []repository.ActionLogEntry{
		{ID: uuid.New(), SlotID: slotID, TimeOfDay: "09:00:00", TargetStatus: "OnOrder", ReasonCode: "Order"},
	}

	resp, err := svc.Journal(context.Background(), slotID)
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("entries = %d, want 2; unparsable times must not drop entries", len(resp.Entries))
	}
	if resp.Entries[0].Time != unknownTime {
		t.Fatalf("first entry time = %q, want %q", resp.Entries[0].Time, unknownTime)
	}
}

func TestJournalEmptySlot(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, time.Second)
	defer svc.Close()

	resp, err := svc.Journal(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(resp.Entries))
	}
}

func TestNormalizeReplacementTimeLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10:05", "10:05:00"},
		{"10:05:30", "10:05:30"},
		{"2026-03-14 10:05:30", "10:05:30"},
		{"14.03.2026 10:05", "10:05:00"},
		{"gibberish", unknownTime},
		{"", unknownTime},
	}
	for _, tc := range cases {
		if got := normalizeReplacementTime(tc.in); got != tc.want {
			t.Errorf("normalizeReplacementTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
