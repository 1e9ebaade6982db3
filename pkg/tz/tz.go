// Package tz formats dates for display in the audit team's timezone.
package tz

import (
	"time"
	_ "time/tzdata"
)

// Layout is the day-first layout used in console output.
const Layout = "02/01/2006 15:04"

// Paris is the Europe/Paris location (CET/CEST with automatic DST).
var Paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("tz: load " + name + ": " + err.Error())
	}
	return loc
}

// Format renders t in Paris time. The zero time renders as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Paris).Format(Layout)
}
