package ui

import (
	"strconv"
	"time"
)

var ageUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// FormatAge returns how long before now then was, in the largest whole
// unit: "45s", "2m", "3h", "2d". Future times read as "0s" and the zero
// time as "-".
func FormatAge(then, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	age := max(now.Sub(then), 0)
	for _, unit := range ageUnits {
		if age >= unit.size {
			return strconv.FormatInt(int64(age/unit.size), 10) + unit.suffix
		}
	}
	return strconv.FormatInt(int64(age/time.Second), 10) + "s"
}
