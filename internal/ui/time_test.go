package ui

import (
	"testing"
	"time"
)

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		name string
		then time.Time
		want string
	}{
		{name: "zero time", then: time.Time{}, want: "-"},
		{name: "just now", then: now, want: "0s"},
		{name: "future", then: now.Add(time.Minute), want: "0s"},
		{name: "seconds", then: now.Add(-59 * time.Second), want: "59s"},
		{name: "minute boundary", then: now.Add(-time.Minute), want: "1m"},
		{name: "minutes round down", then: now.Add(-(2*time.Minute + 50*time.Second)), want: "2m"},
		{name: "hours", then: now.Add(-(3*time.Hour + 5*time.Minute)), want: "3h"},
		{name: "days", then: now.Add(-49 * time.Hour), want: "2d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatAge(tc.then, now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
