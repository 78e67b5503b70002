// Package domain provides core business rules for the dispatch bounded context:
// the canonical workflow status set, the action transition table, and the
// ordering rules for statement rows.
package domain

import "strconv"

// Status is the canonical workflow status of a statement row.
type Status string

const (
	// StatusOnWork is the initial status: the slot is on the road.
	StatusOnWork Status = "OnWork"
	// StatusGotOff marks a slot temporarily pulled off the line.
	StatusGotOff Status = "GotOff"
	// StatusOnOrder marks a slot diverted to a side order.
	StatusOnOrder Status = "OnOrder"
	// StatusCompleted marks a slot that finished its day.
	StatusCompleted Status = "Completed"
	// StatusRejected marks a slot removed from active work. Rows are never
	// deleted; rejection is the removal.
	StatusRejected Status = "Rejected"
	// StatusUnknown is the degenerate status for unrecognized upstream data.
	// It is maximally permissive so an operator is never blocked.
	StatusUnknown Status = "Unknown"
)

// legacyRemovedCode is the numeric code the legacy planner used for rows
// removed from the statement.
const legacyRemovedCode = 4

// legacyActiveTokens are legacy planner statuses that all mean "still on the
// road" from the dispatcher's point of view.
var legacyActiveTokens = map[string]bool{
	"released":   true,
	"replaced":   true,
	"permuted":   true,
	"rearranged": true,
	"launched":   true,
	"undefined":  true,
}

var canonicalStatuses = map[Status]bool{
	StatusOnWork:    true,
	StatusGotOff:    true,
	StatusOnOrder:   true,
	StatusCompleted: true,
	StatusRejected:  true,
	StatusUnknown:   true,
}

// Normalize maps a raw status value to a canonical Status. It is pure and
// total: unrecognized input degrades to StatusUnknown, never an error.
//
// Rules:
//   - nil or empty: StatusOnWork (a slot with no status yet is presumed active)
//   - canonical token: returned unchanged
//   - legacy active token: StatusOnWork
//   - numeric legacy code: StatusRejected for the removed code, else StatusOnWork
//   - anything else: StatusUnknown
func Normalize(raw *string) Status {
	if raw == nil || *raw == "" {
		return StatusOnWork
	}

	if canonicalStatuses[Status(*raw)] {
		return Status(*raw)
	}

	if legacyActiveTokens[*raw] {
		return StatusOnWork
	}

	if code, err := strconv.Atoi(*raw); err == nil {
		if code == legacyRemovedCode {
			return StatusRejected
		}
		return StatusOnWork
	}

	return StatusUnknown
}

// IsTrailing reports whether rows with this status sort after all others
// within a route bucket.
func IsTrailing(s Status) bool {
	return s == StatusOnOrder || s == StatusRejected
}
