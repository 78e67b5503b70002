package domain

import (
	"testing"
)

func rowWithLabel(label string, status Status) StatementRow {
	return StatementRow{SlotLabel: label, Status: status}
}

func labels(rows []StatementRow) []string {
	result := make([]string, len(rows))
	for i, row := range rows {
		result[i] = row.SlotLabel
	}
	return result
}

func TestSortRowsNumericBeforeUnparsable(t *testing.T) {
	rows := []StatementRow{
		rowWithLabel("1a", StatusOnWork),
		rowWithLabel("10", StatusOnWork),
		rowWithLabel("", StatusOnWork),
		rowWithLabel("2", StatusOnWork),
	}

	SortRows(rows)

	got := labels(rows)
	if got[0] != "2" || got[1] != "10" {
		t.Fatalf("expected numeric labels 2, 10 first, got %v", got)
	}
	// Unparsable labels sort last, ordered among themselves by raw-label
	// comparison.
	if got[2] != "" || got[3] != "1a" {
		t.Fatalf("expected unparsable labels last in raw order, got %v", got)
	}
}

func TestSortRowsCommaDecimalSeparator(t *testing.T) {
	rows := []StatementRow{
		rowWithLabel("2,5", StatusOnWork),
		rowWithLabel("2.1", StatusOnWork),
		rowWithLabel("2", StatusOnWork),
	}

	SortRows(rows)

	got := labels(rows)
	if got[0] != "2" || got[1] != "2.1" || got[2] != "2,5" {
		t.Fatalf("expected 2, 2.1, 2,5 order, got %v", got)
	}
}

func TestSortRowsTrailingStatusesLast(t *testing.T) {
	rows := []StatementRow{
		rowWithLabel("1", StatusOnOrder),
		rowWithLabel("2", StatusOnWork),
		rowWithLabel("3", StatusRejected),
		rowWithLabel("4", StatusGotOff),
		rowWithLabel("5", StatusCompleted),
	}

	SortRows(rows)

	for i, row := range rows {
		trailing := IsTrailing(row.Status)
		if i < 3 && trailing {
			t.Fatalf("trailing row %s appeared before non-trailing rows: %v", row.SlotLabel, labels(rows))
		}
		if i >= 3 && !trailing {
			t.Fatalf("non-trailing row %s appeared after trailing rows: %v", row.SlotLabel, labels(rows))
		}
	}

	// Within the trailing partition, positional order still applies.
	if rows[3].SlotLabel != "1" || rows[4].SlotLabel != "3" {
		t.Fatalf("expected trailing rows ordered by position, got %v", labels(rows))
	}
}

func TestSortRowsDeterministic(t *testing.T) {
	build := func() []StatementRow {
		return []StatementRow{
			rowWithLabel("7", StatusOnWork),
			rowWithLabel("07", StatusOnWork),
			rowWithLabel("b", StatusOnWork),
			rowWithLabel("a", StatusOnWork),
		}
	}

	first := build()
	second := build()
	SortRows(first)
	SortRows(second)

	for i := range first {
		if first[i].SlotLabel != second[i].SlotLabel {
			t.Fatalf("ordering not deterministic: %v vs %v", labels(first), labels(second))
		}
	}
}
