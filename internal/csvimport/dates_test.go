package csvimport_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/csvimport"
	"github.com/stretchr/testify/assert"
)

func TestParseBrokerTime_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024.01.01 10:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024.01.01 10:00:30", time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)},
		{"2024.1.5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 08:05:09", time.Date(2024, 3, 15, 8, 5, 9, 0, time.UTC)},
		{"2024-03-15T08:05", time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC)},
		{"15.03.2024 08:05", time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC)},
		{"15/03/2024 08:05:09", time.Date(2024, 3, 15, 8, 5, 9, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"  2024.01.01 10:00  ", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := csvimport.ParseBrokerTime(tt.in, time.UTC)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestParseBrokerTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "2024.02.31 10:00", "2024.13.01", "2024.01.01 25:00", "32/01/2024"} {
		t.Run(in, func(t *testing.T) {
			assert.True(t, csvimport.ParseBrokerTime(in, time.UTC).IsZero())
		})
	}
}

func TestParseBrokerTime_Location(t *testing.T) {
	server := time.FixedZone("EET", 2*60*60)

	got := csvimport.ParseBrokerTime("2024.01.01 10:00", server)

	assert.Equal(t, server, got.Location())
	assert.True(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC).Equal(got))
}

func TestParseBrokerTime_NilLocationIsUTC(t *testing.T) {
	got := csvimport.ParseBrokerTime("2024.01.01 10:00", nil)
	assert.True(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Equal(got))
}

func TestParseBrokerTime_Idempotent(t *testing.T) {
	layouts := []struct {
		sample string
		layout string
	}{
		{"2024.06.30 23:59:59", "2006.01.02 15:04:05"},
		{"2024-06-30 23:59:59", "2006-01-02 15:04:05"},
		{"30.06.2024 23:59:59", "02.01.2006 15:04:05"},
		{"30/06/2024 23:59:59", "02/01/2006 15:04:05"},
	}
	for _, l := range layouts {
		t.Run(l.layout, func(t *testing.T) {
			first := csvimport.ParseBrokerTime(l.sample, time.UTC)
			assert.False(t, first.IsZero())

			again := csvimport.ParseBrokerTime(first.Format(l.layout), time.UTC)
			assert.True(t, first.Equal(again))
		})
	}
}
