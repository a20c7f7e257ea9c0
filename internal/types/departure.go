package types

// DepartureEvent is one upcoming departure from the configured platform.
// Events are replaced wholesale on every fetch and never mutated.
type DepartureEvent struct {
	LineCode           string
	DestinationName    string
	DestinationID      string
	Platform           string
	PlannedDeparture   string
	EstimatedDeparture string
	TripID             string
}

// DepartureTime returns the timestamp the countdown should run against:
// the estimate when the operator published one, otherwise the timetable.
func (e DepartureEvent) DepartureTime() string {
	if e.EstimatedDeparture != "" {
		return e.EstimatedDeparture
	}
	return e.PlannedDeparture
}

// StopList is the ordered list of stops between the station and the terminus
// of one trip. The station itself is never included.
type StopList []string
