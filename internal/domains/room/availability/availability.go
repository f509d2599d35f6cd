// Package availability implements date-interval overlap checks for room
// stays. Intervals are half-open [checkIn, checkOut): the checkout day
// itself is free for a new check-in.
package availability

import "time"

// Stay is one existing booking interval on a room. A nil CheckOut marks an
// ongoing stay with no planned end.
type Stay struct {
	CheckIn  time.Time
	CheckOut *time.Time
}

// Conflicts reports whether the stay blocks the requested interval. A nil
// requested checkOut asks for instantaneous availability on checkIn only.
func (s Stay) Conflicts(checkIn time.Time, checkOut *time.Time) bool {
	if s.CheckOut == nil {
		// Ongoing stay blocks every check-in on or after its own.
		return !checkIn.Before(s.CheckIn)
	}

	if checkOut != nil {
		// Overlap unless requested checkout <= existing check-in
		// or requested check-in >= existing checkout.
		if checkOut.After(s.CheckIn) && checkIn.Before(*s.CheckOut) {
			return true
		}

		return false
	}

	// Instantaneous query: conflict when existing check-in <= requested < existing checkout.
	return !checkIn.Before(s.CheckIn) && checkIn.Before(*s.CheckOut)
}

// IsAvailable reports whether a room can take the requested interval: the
// operator flag must be set and no existing stay may conflict. Excluding the
// booking under edit is the caller's concern; stays passed here are already
// the relevant set.
func IsAvailable(operatorAvailable bool, stays []Stay, checkIn time.Time, checkOut *time.Time) bool {
	if !operatorAvailable {
		return false
	}

	for _, stay := range stays {
		if stay.Conflicts(checkIn, checkOut) {
			return false
		}
	}

	return true
}
