package models

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusPaid      BookingStatus = "paid"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// DefaultFarePerSeat applies when a route has no fare configured.
const DefaultFarePerSeat int64 = 895

// Booking is a seat reservation on a route for one journey date.
// JourneyDate is immutable once the booking exists.
type Booking struct {
	ID             int64         `json:"id"`
	RouteID        int64         `json:"routeId"`
	JourneyDate    string        `json:"journeyDate"`
	PassengerName  string        `json:"passengerName"`
	PassengerPhone string        `json:"passengerPhone"`
	PassengerEmail string        `json:"passengerEmail"`
	Gender         string        `json:"gender,omitempty"`
	BoardingStop   string        `json:"boardingStop"`
	DropoffStop    string        `json:"dropoffStop"`
	Seats          []int         `json:"seats"`
	FarePerSeat    int64         `json:"farePerSeat"`
	TotalFare      int64         `json:"totalFare"`
	Status         BookingStatus `json:"status"`
	CreatedAt      string        `json:"createdAt,omitempty"`
}

// BookingUpdate supports PATCH-style updates via field presence.
type BookingUpdate struct {
	PassengerName  *string
	PassengerPhone *string
	PassengerEmail *string
	Gender         *string
	BoardingStop   *string
	DropoffStop    *string
	Seats          []int
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusRejected
}

// Live reports whether a booking in this status still occupies its seats.
func (s BookingStatus) Live() bool {
	return !s.Terminal()
}

// Editable reports whether passenger details and seats may still change.
func (s BookingStatus) Editable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition encodes the allowed lifecycle moves. Paid is reached only
// through a verified payment; cancelled and rejected are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s.Terminal() || s == to {
		return false
	}
	switch to {
	case StatusConfirmed:
		return s == StatusPending
	case StatusPaid:
		return s == StatusPending || s == StatusConfirmed
	case StatusCancelled, StatusRejected:
		return s == StatusPending || s == StatusConfirmed
	}
	return false
}

// TotalFare derives the booking total from the seat count.
func TotalFare(seatCount int, farePerSeat int64) int64 {
	if seatCount <= 0 {
		return 0
	}
	if farePerSeat <= 0 {
		farePerSeat = DefaultFarePerSeat
	}
	return int64(seatCount) * farePerSeat
}
