package timeutil

import (
	"testing"
	"time"
)

func TestParseWallClock(t *testing.T) {
	w, err := ParseWallClock("07:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.Hour != 7 || w.Minute != 30 {
		t.Fatalf("bad value %+v", w)
	}
	if w.String() != "07:30" {
		t.Fatalf("string %q", w.String())
	}
	if _, err := ParseWallClock("7:05"); err != nil {
		t.Fatalf("single digit hour should parse: %v", err)
	}
}

func TestParseWallClockInvalid(t *testing.T) {
	for _, s := range []string{"", "7", "24:00", "12:60", "aa:bb", "-1:00"} {
		if _, err := ParseWallClock(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestNextAfterSameDay(t *testing.T) {
	ref := time.Date(2019, 10, 4, 18, 42, 12, 0, time.UTC)
	got := WallClock{Hour: 19, Minute: 0}.NextAfter(ref)
	want := time.Date(2019, 10, 4, 19, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNextAfterNextDay(t *testing.T) {
	ref := time.Date(2019, 10, 4, 18, 42, 12, 0, time.UTC)
	got := WallClock{Hour: 7, Minute: 0}.NextAfter(ref)
	want := time.Date(2019, 10, 5, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNextAfterNeverReturnsRef(t *testing.T) {
	ref := time.Date(2019, 10, 4, 7, 0, 0, 0, time.UTC)
	got := WallClock{Hour: 7, Minute: 0}.NextAfter(ref)
	want := time.Date(2019, 10, 5, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("exact match must roll to next day, got %v", got)
	}
}
