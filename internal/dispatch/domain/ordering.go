package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortRows orders statement rows in place for display:
//
//  1. non-trailing statuses before trailing ones (OnOrder, Rejected last);
//  2. within each partition, by the numeric position extracted from the slot
//     label (unparsable labels sort last);
//  3. ties broken by numeric-aware collation of the raw label.
//
// The ordering is a pure function of the row list: stable and deterministic
// for identical input.
func SortRows(rows []StatementRow) {
	collator := collate.New(language.Und, collate.Numeric)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]

		aTrailing, bTrailing := IsTrailing(a.Status), IsTrailing(b.Status)
		if aTrailing != bTrailing {
			return !aTrailing
		}

		aPos, bPos := slotPosition(a.SlotLabel), slotPosition(b.SlotLabel)
		if aPos != bPos {
			return aPos < bPos
		}

		return collator.CompareString(a.SlotLabel, b.SlotLabel) < 0
	})
}

// slotPosition extracts a sortable numeric position from a slot label.
// Whitespace is stripped and a comma is treated as the decimal separator.
// Labels that do not parse as a number in full ("1a", "") sort to +Inf,
// i.e. last.
func slotPosition(label string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(label), ",", ".")
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return math.Inf(1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.Inf(1)
	}
	return value
}
