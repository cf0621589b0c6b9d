package utils

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// TimeAgo renders t relative to now the way every forum page displays dates.
// Anything older than 30 days falls back to a dd/mm/yyyy date.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return "À l'instant"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "heure")
	}

	days := int(d / (24 * time.Hour))
	switch {
	case days == 1:
		return "Hier"
	case days < 7:
		return fmt.Sprintf("Il y a %d jours", days)
	case days < 30:
		return plural(days/7, "semaine")
	}
	return t.In(now.Location()).Format("02/01/2006")
}

// MemberSince formats a registration date as "janvier 2024".
func MemberSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", frenchMonths[t.Month()-1], t.Year())
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("Il y a %d %ss", n, unit)
	}
	return fmt.Sprintf("Il y a %d %s", n, unit)
}
