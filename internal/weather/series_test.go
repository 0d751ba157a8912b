package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

func mkDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSeriesLookup(t *testing.T) {
	records := []models.WeatherRecord{
		{Date: mkDate("2024-04-01"), TMean: 25},
		{Date: mkDate("2024-04-02"), TMean: 26},
	}
	s := weather.NewSeries(records)

	rec, ok := s.Lookup(mkDate("2024-04-01"))
	require.True(t, ok)
	assert.Equal(t, 25.0, rec.TMean)

	_, ok = s.Lookup(mkDate("2024-04-03"))
	assert.False(t, ok)
}

func TestSeriesCoversAndGap(t *testing.T) {
	records := []models.WeatherRecord{
		{Date: mkDate("2024-04-01"), TMean: 25},
		{Date: mkDate("2024-04-03"), TMean: 25},
	}
	s := weather.NewSeries(records)

	assert.False(t, s.Covers(mkDate("2024-04-01"), mkDate("2024-04-03")))

	gap, found := s.FirstGap(mkDate("2024-04-01"), mkDate("2024-04-03"))
	require.True(t, found)
	assert.True(t, gap.Equal(mkDate("2024-04-02")))
}

func TestDuplicates(t *testing.T) {
	records := []models.WeatherRecord{
		{Date: mkDate("2024-04-01")},
		{Date: mkDate("2024-04-01")},
		{Date: mkDate("2024-04-02")},
	}
	assert.Equal(t, 1, weather.Duplicates(records))
}

func TestBounds(t *testing.T) {
	records := []models.WeatherRecord{
		{Date: mkDate("2024-04-03")},
		{Date: mkDate("2024-04-01")},
	}
	s := weather.NewSeries(records)
	start, end := s.Bounds()
	assert.True(t, start.Equal(mkDate("2024-04-01")))
	assert.True(t, end.Equal(mkDate("2024-04-03")))
}
