package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_UsesReferenceLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2025-03-10 20:30 UTC is already 2025-03-11 in Jakarta (UTC+7)
	instant := time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), DayOf(instant, loc))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), DayOf(instant, time.UTC))
}

func TestFixed_AdvanceAcrossMidnight(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	c := NewFixed(time.Date(2025, 3, 10, 23, 59, 59, 0, loc))
	day := Today(c)

	c.Advance(2 * time.Second)

	assert.NotEqual(t, day, Today(c))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Today(c))
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2024, time.February)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), last)
}
