package board

import "github.com/fkcurrie/transit-led-golang/internal/types"

// IsSameTrip reports whether a and b are the same physical run. Only the trip
// identifier is compared, so a changed estimate is still the same trip. Two
// distinct events without an identifier are never the same trip.
func IsSameTrip(a, b *types.DepartureEvent) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.TripID == "" || b.TripID == "" {
		return false
	}
	return a.TripID == b.TripID
}

// HasDeparture reports whether an event is present
func HasDeparture(e *types.DepartureEvent) bool {
	return e != nil
}
