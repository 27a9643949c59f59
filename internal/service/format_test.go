package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderDate(t *testing.T) {
	// 01:30 UTC is still the previous day in Brasília.
	assert.Equal(t, "18 outubro 2025", FormatOrderDate(time.Date(2025, 10, 19, 1, 30, 0, 0, time.UTC)))
	assert.Equal(t, "05 março 2024", FormatOrderDate(time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Data indisponível", FormatOrderDate(time.Time{}))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 11, 9, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Agora", RelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 min atrás", RelativeTime(now.Add(-time.Minute), now))
	assert.Equal(t, "59 min atrás", RelativeTime(now.Add(-59*time.Minute-59*time.Second), now))
	assert.Equal(t, "1h atrás", RelativeTime(now.Add(-time.Hour), now))
	assert.Equal(t, "23h atrás", RelativeTime(now.Add(-23*time.Hour), now))
	assert.Equal(t, "07/11 às 09:15", RelativeTime(time.Date(2025, 11, 7, 12, 15, 0, 0, time.UTC), now))
}
