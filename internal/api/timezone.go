package api

import (
	"time"
	_ "time/tzdata"
)

// FormatInZone renders t in the named IANA zone. An unknown zone keeps the
// offset t already carries.
func FormatInZone(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t.Format(time.RFC3339)
	}
	return t.In(loc).Format(time.RFC3339)
}
