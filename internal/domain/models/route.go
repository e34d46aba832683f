package models

import "strings"

// Direction marks which way along the stop list a route travels.
// It replaces guessing direction from the route name.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionOutbound:
		return DirectionOutbound, true
	case DirectionInbound:
		return DirectionInbound, true
	}
	return "", false
}

// Route is a scheduled service between two terminals with ordered stops.
// Stops are listed in outbound order regardless of Direction.
type Route struct {
	ID               int64     `json:"id"`
	RouteNumber      string    `json:"routeNumber"`
	StartLocation    string    `json:"startLocation"`
	EndLocation      string    `json:"endLocation"`
	DistanceKm       float64   `json:"distanceKm"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	Fare             int64     `json:"fare"`
	Direction        Direction `json:"direction"`
	Stops            []string  `json:"stops,omitempty"`
}

// StopIndex finds a stop by name (case-insensitive). Returns -1 when absent.
func (r Route) StopIndex(stop string) int {
	want := strings.ToLower(strings.TrimSpace(stop))
	for i, s := range r.Stops {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return i
		}
	}
	return -1
}

// DropoffOptions returns the stops a passenger boarding at the given stop may
// ride to: strictly after the boarding stop for outbound routes, strictly
// before it for inbound ones.
func (r Route) DropoffOptions(boarding string) []string {
	bi := r.StopIndex(boarding)
	if bi < 0 {
		return nil
	}
	out := []string{}
	for i, s := range r.Stops {
		if r.Direction == DirectionInbound {
			if i < bi {
				out = append(out, s)
			}
		} else if i > bi {
			out = append(out, s)
		}
	}
	return out
}

// ValidBoardingDropoff checks the directional ordering invariant for a
// boarding/dropoff pair against the route's stop list. Routes without a stop
// list accept any pair.
func (r Route) ValidBoardingDropoff(boarding, dropoff string) bool {
	if len(r.Stops) == 0 {
		return true
	}
	bi := r.StopIndex(boarding)
	di := r.StopIndex(dropoff)
	if bi < 0 || di < 0 {
		return false
	}
	if r.Direction == DirectionInbound {
		return di < bi
	}
	return di > bi
}
