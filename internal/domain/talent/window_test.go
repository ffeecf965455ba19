package talent

import (
	"testing"
	"time"
)

func TestWindowContainsBoundaries(t *testing.T) {
	w := Window{
		After:  time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Before: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if !w.Contains(w.After) {
		t.Fatalf("after boundary should be inside")
	}
	if !w.Contains(w.Before) {
		t.Fatalf("before boundary should be inside")
	}
	if w.Contains(w.After.AddDate(0, 0, -1)) {
		t.Fatalf("day before window should be outside")
	}
	if w.Contains(w.Before.AddDate(0, 0, 1)) {
		t.Fatalf("day after window should be outside")
	}
}

func TestWindowInvertedContainsNothing(t *testing.T) {
	w := Window{
		After:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Before: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if w.Contains(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("inverted window should contain nothing")
	}
}

func TestReportWindow(t *testing.T) {
	w := ReportWindow(2023)
	if got := w.After; !got.Equal(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("after = %v", got)
	}
	if got := w.Before; !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("before = %v", got)
	}
}
