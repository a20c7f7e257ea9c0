package transit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// StopSequence returns the stops a direct service on lineCode calls at between
// originID and destinationID, without the origin itself. ErrNoJourney is
// returned when no zero-interchange journey on that line exists.
func (c *Client) StopSequence(ctx context.Context, originID, destinationID, lineCode string) (types.StopList, error) {
	params := baseParams()
	params.Set("depArrMacro", "dep")
	params.Set("mode", "direct")
	params.Set("type_origin", "any")
	params.Set("name_origin", originID)
	params.Set("type_destination", "any")
	params.Set("name_destination", destinationID)
	excludeNonRail(params)

	var resp tripResponse
	if err := c.get(ctx, endpointTrip, params, &resp); err != nil {
		return nil, err
	}

	j, ok := selectJourney(resp.Journeys, lineCode)
	if !ok {
		return nil, fmt.Errorf("%w %s from %s to %s", ErrNoJourney, lineCode, originID, destinationID)
	}

	stops := journeyStops(j)
	c.logger.Debug("stop sequence", slog.String("line", lineCode), slog.Int("stops", len(stops)))
	return stops, nil
}

// selectJourney returns the first journey with no interchanges whose first
// leg runs on lineCode. A journey without an interchange count is skipped.
func selectJourney(journeys []journey, lineCode string) (journey, bool) {
	for _, j := range journeys {
		if !j.direct() || len(j.Legs) == 0 {
			continue
		}
		if j.Legs[0].Transportation.DisassembledName == lineCode {
			return j, true
		}
	}
	return journey{}, false
}

// journeyStops flattens the stop sequence of every leg and drops the origin
func journeyStops(j journey) types.StopList {
	var stops types.StopList
	for _, l := range j.Legs {
		for _, stop := range l.StopSequence {
			stops = append(stops, NormalizeStop(stop.Name))
		}
	}
	if len(stops) == 0 {
		return stops
	}
	return stops[1:]
}

// NormalizeStop shortens "Redfern Station, Platform 3, Redfern" to "Redfern"
func NormalizeStop(name string) string {
	name, _, _ = strings.Cut(name, ",")
	name = strings.ReplaceAll(name, "Station", "")
	return strings.TrimSpace(name)
}
