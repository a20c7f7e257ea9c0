package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

func TestIsSameTrip(t *testing.T) {
	a := &types.DepartureEvent{TripID: "1", EstimatedDeparture: "2024-05-01T08:05:00Z"}
	delayed := &types.DepartureEvent{TripID: "1", EstimatedDeparture: "2024-05-01T08:09:00Z"}
	b := &types.DepartureEvent{TripID: "2"}

	assert.True(t, IsSameTrip(a, a))
	assert.True(t, IsSameTrip(b, b))
	assert.True(t, IsSameTrip(a, delayed))
	assert.True(t, IsSameTrip(delayed, a))
	assert.False(t, IsSameTrip(a, b))
	assert.False(t, IsSameTrip(a, nil))
	assert.False(t, IsSameTrip(nil, b))
	assert.True(t, IsSameTrip(nil, nil))
}

func TestIsSameTripWithoutID(t *testing.T) {
	a := &types.DepartureEvent{LineCode: "T1"}
	b := &types.DepartureEvent{LineCode: "T8"}

	assert.True(t, IsSameTrip(a, a))
	assert.False(t, IsSameTrip(a, b))
	assert.False(t, IsSameTrip(a, &types.DepartureEvent{LineCode: "T1"}))
	assert.False(t, IsSameTrip(a, &types.DepartureEvent{TripID: "1"}))
}

func TestHasDeparture(t *testing.T) {
	assert.True(t, HasDeparture(&types.DepartureEvent{}))
	assert.False(t, HasDeparture(nil))
}
