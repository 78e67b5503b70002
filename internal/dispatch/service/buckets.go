package service

import (
	"depot_dispatch_backend/internal/dispatch/domain"
	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/dispatch/transport"
)

// buildBuckets converts stored rows to domain rows, groups them by route in
// first-appearance order, and sorts each bucket. Routes with no rows never
// produce a bucket.
func (s *Service) buildBuckets(stored []repository.SlotRow) []domain.RouteBucket {
	var buckets []domain.RouteBucket
	index := make(map[string]int)

	for _, raw := range stored {
		row := toDomainRow(raw)
		key := row.RouteID.String()
		at, ok := index[key]
		if !ok {
			at = len(buckets)
			index[key] = at
			buckets = append(buckets, domain.RouteBucket{
				RouteID:    row.RouteID,
				RouteLabel: row.RouteLabel,
			})
		}
		buckets[at].Rows = append(buckets[at].Rows, row)
	}

	for i := range buckets {
		domain.SortRows(buckets[i].Rows)
	}
	return buckets
}

func toDomainRow(raw repository.SlotRow) domain.StatementRow {
	return domain.StatementRow{
		RouteID:             raw.RouteID,
		RouteLabel:          raw.RouteLabel,
		SlotID:              raw.SlotID,
		StatementID:         raw.StatementID,
		SlotLabel:           raw.SlotLabel,
		PlannedRevolutions:  raw.PlannedRevolutions,
		FactRevolutions:     raw.FactRevolutions,
		ReportedRevolutions: raw.ReportedRevolutions,
		Status:              domain.Normalize(&raw.Status),
		RawStatus:           raw.RawStatus,
		VehicleLabel:        raw.VehicleLabel,
		DriverName:          raw.DriverName,
		Note:                raw.Note,
		Payload:             raw.Payload,
	}
}

func (s *Service) toBucketResponse(bucket domain.RouteBucket) transport.BucketResponse {
	response := transport.BucketResponse{
		RouteID:    bucket.RouteID,
		RouteLabel: bucket.RouteLabel,
		Rows:       make([]transport.RowResponse, 0, len(bucket.Rows)),
	}
	for _, row := range bucket.Rows {
		response.Rows = append(response.Rows, s.toRowResponse(row))
	}
	return response
}

func (s *Service) toRowResponse(row domain.StatementRow) transport.RowResponse {
	response := transport.RowResponse{
		SlotID:              row.SlotID,
		StatementID:         row.StatementID,
		SlotLabel:           row.SlotLabel,
		PlannedRevolutions:  row.PlannedRevolutions,
		FactRevolutions:     row.FactRevolutions,
		ReportedRevolutions: row.ReportedRevolutions,
		Status:              string(row.Status),
		AllowedActions:      actionNames(domain.AllowedActions(row.Status)),
		VehicleLabel:        row.VehicleLabel,
		DriverName:          row.DriverName,
		Note:                row.Note,
		Payload:             row.Payload,
	}
	if pending, ok := s.autosave.PendingText(row.SlotID); ok {
		response.PendingReportedText = &pending
	}
	return response
}
