package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/dispatch/transport"
)

// Journal entry provenance tags.
const (
	journalSourceAction      = "action"
	journalSourceReplacement = "replacement"
)

// unknownTime marks entries whose occurrence time could not be parsed. It
// sorts before any real time of day so such entries surface at the top.
const unknownTime = "--:--:--"

// replacementTimeLayouts are the shapes the upstream swap feed has been seen
// to use. The feed is free text, so anything unrecognized keeps the entry
// with an unknown time rather than dropping it.
var replacementTimeLayouts = []string{
	"15:04:05",
	"15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// Journal returns the merged per-slot journal: workflow audit entries and
// externally fed replacement events, interleaved by time of day. Both feeds
// load concurrently.
func (s *Service) Journal(ctx context.Context, slotID uuid.UUID) (transport.JournalResponse, error) {
	var (
		actions      []repository.ActionLogEntry
		replacements []repository.ReplacementEntry
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		actions, err = s.repo.ListActionLog(groupCtx, slotID)
		return err
	})
	group.Go(func() error {
		var err error
		replacements, err = s.repo.ListReplacementHistory(groupCtx, slotID)
		return err
	})
	if err := group.Wait(); err != nil {
		return transport.JournalResponse{}, err
	}

	entries := make([]transport.JournalEntry, 0, len(actions)+len(replacements))
	for _, entry := range actions {
		entries = append(entries, actionJournalEntry(entry))
	}
	for _, entry := range replacements {
		entries = append(entries, replacementJournalEntry(entry))
	}

	// Stable: entries with equal times keep their per-source append order,
	// and action entries come before replacements at the same instant.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		return entries[i].Source < entries[j].Source
	})

	return transport.JournalResponse{SlotID: slotID, Entries: entries}, nil
}

func actionJournalEntry(entry repository.ActionLogEntry) transport.JournalEntry {
	target := entry.TargetStatus
	reason := entry.ReasonCode
	return transport.JournalEntry{
		Source:        journalSourceAction,
		Time:          normalizeTimeOfDay(entry.TimeOfDay),
		TargetStatus:  &target,
		ReasonCode:    &reason,
		Comment:       entry.Comment,
		ReportedCount: entry.ReportedCount,
		VehicleLabel:  entry.VehicleLabel,
		DriverName:    entry.DriverName,
	}
}

func replacementJournalEntry(entry repository.ReplacementEntry) transport.JournalEntry {
	kind := entry.Kind
	return transport.JournalEntry{
		Source:      journalSourceReplacement,
		Time:        normalizeReplacementTime(entry.OccurredAtText),
		Kind:        &kind,
		FromVehicle: entry.FromVehicle,
		ToVehicle:   entry.ToVehicle,
		FromDriver:  entry.FromDriver,
		ToDriver:    entry.ToDriver,
		Note:        entry.Note,
	}
}

// normalizeTimeOfDay canonicalizes an audit time to HH:MM:SS.
func normalizeTimeOfDay(text string) string {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.Format("15:04:05")
		}
	}
	return unknownTime
}

// normalizeReplacementTime extracts a time of day from the free-text
// occurrence stamp of the swap feed.
func normalizeReplacementTime(text string) string {
	for _, layout := range replacementTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.Format("15:04:05")
		}
	}
	return unknownTime
}
