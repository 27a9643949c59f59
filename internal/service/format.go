package service

import (
	"fmt"
	"time"
)

// Brazil has had no daylight saving time since 2019.
var brasilia = time.FixedZone("BRT", -3*60*60)

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatOrderDate renders t as "18 outubro 2025" in Brasília time.
func FormatOrderDate(t time.Time) string {
	if t.IsZero() {
		return "Data indisponível"
	}
	t = t.In(brasilia)
	return fmt.Sprintf("%02d %s %d", t.Day(), monthsPT[t.Month()-1], t.Year())
}

// RelativeTime renders how long ago t happened, the way notification lists
// show it.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Agora"
	case diff < time.Hour:
		return fmt.Sprintf("%d min atrás", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh atrás", int(diff/time.Hour))
	default:
		return t.In(brasilia).Format("02/01 às 15:04")
	}
}
