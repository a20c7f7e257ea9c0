package transit

// Wire types for the rapidJSON output format. Only the fields the board
// reads are declared.

type stopFinderResponse struct {
	Locations []location `json:"locations"`
}

type location struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	DisassembledName string    `json:"disassembledName"`
	Parent           *location `json:"parent,omitempty"`
}

type departureResponse struct {
	Locations  []location  `json:"locations"`
	StopEvents []stopEvent `json:"stopEvents"`
}

type stopEvent struct {
	Location               location       `json:"location"`
	DepartureTimePlanned   string         `json:"departureTimePlanned"`
	DepartureTimeEstimated string         `json:"departureTimeEstimated"`
	Transportation         transportation `json:"transportation"`
	Properties             eventProps     `json:"properties"`
}

type eventProps struct {
	RealtimeTripID string `json:"RealtimeTripId"`
}

type transportation struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	DisassembledName string      `json:"disassembledName"`
	Destination      destination `json:"destination"`
}

type destination struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tripResponse struct {
	Journeys []journey `json:"journeys"`
}

type journey struct {
	Interchanges *int  `json:"interchanges"`
	Legs         []leg `json:"legs"`
}

// direct reports whether the journey is known to have no interchanges
func (j journey) direct() bool {
	return j.Interchanges != nil && *j.Interchanges == 0
}

type leg struct {
	Transportation transportation `json:"transportation"`
	StopSequence   []location     `json:"stopSequence"`
}
