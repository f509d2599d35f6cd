package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/margav-energy/Pama-Lodge/internal/domains/room/availability"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func dayPtr(value string) *time.Time {
	parsed := day(value)

	return &parsed
}

func TestIsAvailable_HalfOpenIntervals(t *testing.T) {
	// Existing stay occupies [10th, 15th); the 15th itself is free.
	existing := []availability.Stay{
		{CheckIn: day("2026-09-10"), CheckOut: dayPtr("2026-09-15")},
	}

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     bool
	}{
		{
			name:     "back to back after checkout day",
			checkIn:  "2026-09-15",
			checkOut: "2026-09-20",
			want:     true,
		},
		{
			name:     "back to back before check-in day",
			checkIn:  "2026-09-05",
			checkOut: "2026-09-10",
			want:     true,
		},
		{
			name:     "identical interval",
			checkIn:  "2026-09-10",
			checkOut: "2026-09-15",
			want:     false,
		},
		{
			name:     "overlap from the left",
			checkIn:  "2026-09-08",
			checkOut: "2026-09-11",
			want:     false,
		},
		{
			name:     "overlap from the right",
			checkIn:  "2026-09-14",
			checkOut: "2026-09-18",
			want:     false,
		},
		{
			name:     "fully contained",
			checkIn:  "2026-09-11",
			checkOut: "2026-09-13",
			want:     false,
		},
		{
			name:     "fully containing",
			checkIn:  "2026-09-08",
			checkOut: "2026-09-18",
			want:     false,
		},
		{
			name:     "disjoint later",
			checkIn:  "2026-09-20",
			checkOut: "2026-09-25",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.IsAvailable(true, existing, day(tt.checkIn), dayPtr(tt.checkOut))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailable_AdjacentIntervalsAreMutuallyAvailable(t *testing.T) {
	first := availability.Stay{CheckIn: day("2026-09-01"), CheckOut: dayPtr("2026-09-05")}
	second := availability.Stay{CheckIn: day("2026-09-05"), CheckOut: dayPtr("2026-09-09")}

	// [a,b) then [b,c): each interval is free of the other.
	assert.True(t, availability.IsAvailable(true, []availability.Stay{first}, second.CheckIn, second.CheckOut))
	assert.True(t, availability.IsAvailable(true, []availability.Stay{second}, first.CheckIn, first.CheckOut))
}

func TestIsAvailable_OpenEndedStay(t *testing.T) {
	// Ongoing stay from the 10th with no checkout.
	existing := []availability.Stay{
		{CheckIn: day("2026-09-10"), CheckOut: nil},
	}

	tests := []struct {
		name    string
		checkIn string
		want    bool
	}{
		{
			name:    "check-in before ongoing stay",
			checkIn: "2026-09-05",
			want:    true,
		},
		{
			name:    "check-in on the ongoing stay start",
			checkIn: "2026-09-10",
			want:    false,
		},
		{
			name:    "check-in after the ongoing stay start",
			checkIn: "2026-09-12",
			want:    false,
		},
		{
			name:    "check-in far in the future",
			checkIn: "2027-01-01",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.IsAvailable(true, existing, day(tt.checkIn), nil)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailable_InstantaneousQuery(t *testing.T) {
	existing := []availability.Stay{
		{CheckIn: day("2026-09-10"), CheckOut: dayPtr("2026-09-15")},
	}

	// Conflict when existing check-in <= requested < existing checkout.
	assert.False(t, availability.IsAvailable(true, existing, day("2026-09-10"), nil))
	assert.False(t, availability.IsAvailable(true, existing, day("2026-09-14"), nil))
	assert.True(t, availability.IsAvailable(true, existing, day("2026-09-15"), nil))
	assert.True(t, availability.IsAvailable(true, existing, day("2026-09-09"), nil))
}

func TestIsAvailable_OperatorFlagWins(t *testing.T) {
	// No stays at all, but the operator has pulled the room.
	assert.False(t, availability.IsAvailable(false, nil, day("2026-09-10"), nil))
	assert.True(t, availability.IsAvailable(true, nil, day("2026-09-10"), nil))
}
