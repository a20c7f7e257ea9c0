package transit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// NextDeparture returns the first upcoming departure, in API order, from the
// given platform of stopID. ErrNoMatch is returned when none of the events
// belong to that platform.
func (c *Client) NextDeparture(ctx context.Context, stopID, platform string) (*types.DepartureEvent, error) {
	params := baseParams()
	params.Set("mode", "direct")
	params.Set("type_dm", "platform")
	params.Set("name_dm", stopID)
	params.Set("departureMonitorMacro", "true")
	params.Set("TfNSWDM", "true")
	excludeNonRail(params)

	var resp departureResponse
	if err := c.get(ctx, endpointDepartures, params, &resp); err != nil {
		return nil, err
	}

	event, ok := selectDeparture(resp, platform)
	if !ok {
		return nil, fmt.Errorf("%w %q at stop %s", ErrNoMatch, platform, stopID)
	}

	ev := newDeparture(event, platform)
	if event.Properties.RealtimeTripID == "" {
		c.logger.Warn("departure has no realtime trip id, using fallback key",
			slog.String("trip_id", ev.TripID))
	}

	c.logger.Debug("departure found",
		slog.String("line", ev.LineCode),
		slog.String("destination", ev.DestinationName),
		slog.String("trip_id", ev.TripID))
	return ev, nil
}

// selectDeparture picks the first event on platform
func selectDeparture(resp departureResponse, platform string) (stopEvent, bool) {
	if len(resp.Locations) == 0 {
		return stopEvent{}, false
	}

	for _, event := range resp.StopEvents {
		label := ""
		if event.Location.Parent != nil {
			label = event.Location.Parent.DisassembledName
		}
		if p, ok := ParsePlatform(label); ok && p == platform {
			return event, true
		}
	}
	return stopEvent{}, false
}

func newDeparture(event stopEvent, platform string) *types.DepartureEvent {
	return &types.DepartureEvent{
		LineCode:           event.Transportation.DisassembledName,
		DestinationName:    NormalizeDestination(event.Transportation.Destination.Name),
		DestinationID:      event.Transportation.Destination.ID,
		Platform:           platform,
		PlannedDeparture:   event.DepartureTimePlanned,
		EstimatedDeparture: event.DepartureTimeEstimated,
		TripID:             tripKey(event),
	}
}

// tripKey returns the realtime trip id, or line, planned time and destination
// joined when the API left the id out
func tripKey(event stopEvent) string {
	if id := event.Properties.RealtimeTripID; id != "" {
		return id
	}
	return strings.Join([]string{
		event.Transportation.DisassembledName,
		event.DepartureTimePlanned,
		event.Transportation.Destination.ID,
	}, "|")
}

// ParsePlatform extracts "16" from a location label such as
// "Central Station, Platform 16"
func ParsePlatform(label string) (string, bool) {
	parts := strings.Split(label, ", ")
	if len(parts) < 2 {
		return "", false
	}
	for _, part := range parts[1:] {
		if strings.HasPrefix(part, "Platform ") {
			return strings.TrimPrefix(part, "Platform "), true
		}
	}
	return strings.TrimPrefix(parts[1], "Platform "), true
}

// NormalizeDestination shortens a destination for the panel: anything from
// "via" on is dropped along with the word "Station"
func NormalizeDestination(name string) string {
	name, _, _ = strings.Cut(name, "via")
	name = strings.ReplaceAll(name, "Station", "")
	return strings.Join(strings.Fields(name), " ")
}
