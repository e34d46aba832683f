package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/metrics"
	"mahindaexpress/internal/mq"
	"mahindaexpress/internal/repositories"
	"mahindaexpress/internal/utils"
)

type BookingService struct {
	BookingRepo repositories.BookingRepo
	SeatRepo    repositories.BookingSeatRepo
	RouteRepo   repositories.RouteRepo
	Holds       HoldService
	Events      *mq.Publisher
	DB          *sql.DB
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) seats() repositories.BookingSeatRepo {
	if s.SeatRepo.DB != nil {
		return s.SeatRepo
	}
	return repositories.BookingSeatRepo{DB: s.db()}
}

func (s BookingService) routes() repositories.RouteRepo {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepo{DB: s.db()}
}

// CheckoutRequest is the booking submission from the seat selection page.
type CheckoutRequest struct {
	RouteID        int64  `json:"routeId"`
	JourneyDate    string `json:"journeyDate"`
	PassengerName  string `json:"passengerName"`
	PassengerPhone string `json:"passengerPhone"`
	PassengerEmail string `json:"passengerEmail"`
	Gender         string `json:"gender"`
	BoardingStop   string `json:"boardingStop"`
	DropoffStop    string `json:"dropoffStop"`
	Seats          []int  `json:"seats"`
	HoldToken      string `json:"holdToken"`
}

// SeatAvailability is the seat map payload for a route and journey date.
type SeatAvailability struct {
	Layout      [][]int `json:"layout"`
	BookedSeats []int   `json:"bookedSeats"`
	HeldSeats   []int   `json:"heldSeats"`
	FarePerSeat int64   `json:"farePerSeat"`
}

// Availability returns booked and held seats plus the fixed layout.
func (s BookingService) Availability(ctx context.Context, routeID int64, journeyDate string) (SeatAvailability, error) {
	out := SeatAvailability{Layout: models.SeatLayout, BookedSeats: []int{}, HeldSeats: []int{}}

	if _, err := utils.ParseDate(journeyDate); err != nil {
		return out, domain.ValidationError{Field: "journeyDate", Msg: "must be YYYY-MM-DD"}
	}

	route, err := s.routes().GetByID(routeID)
	if err != nil {
		return out, err
	}
	out.FarePerSeat = route.Fare
	if out.FarePerSeat <= 0 {
		out.FarePerSeat = models.DefaultFarePerSeat
	}

	booked, err := s.seats().BookedSeats(routeID, journeyDate)
	if err != nil {
		return out, err
	}
	out.BookedSeats = booked

	// Holds are advisory; if redis is down the seat map still works off the
	// booked rows alone.
	held, err := s.Holds.HeldSeats(ctx, routeID, journeyDate)
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "holds_unavailable", err.Error())
		held = nil
	}
	bookedSet := map[int]bool{}
	for _, n := range booked {
		bookedSet[n] = true
	}
	for n := range held {
		if !bookedSet[n] {
			out.HeldSeats = append(out.HeldSeats, n)
		}
	}
	return out, nil
}

// Checkout validates the request and creates a pending booking. Seats held
// by another token are rejected before the DB attempt; the unique key on
// booking_seats makes the final call either way.
func (s BookingService) Checkout(ctx context.Context, req CheckoutRequest) (models.Booking, error) {
	var b models.Booking

	req.PassengerName = utils.NormalizeSpace(req.PassengerName)
	req.PassengerPhone = strings.TrimSpace(req.PassengerPhone)
	req.PassengerEmail = strings.TrimSpace(req.PassengerEmail)
	req.BoardingStop = strings.TrimSpace(req.BoardingStop)
	req.DropoffStop = strings.TrimSpace(req.DropoffStop)

	if req.PassengerName == "" {
		return b, domain.ValidationError{Field: "passengerName", Msg: "required"}
	}
	if req.PassengerPhone == "" && req.PassengerEmail == "" {
		return b, domain.ValidationError{Field: "passengerPhone", Msg: "phone or email required"}
	}
	if _, err := utils.ParseDate(req.JourneyDate); err != nil {
		return b, domain.ValidationError{Field: "journeyDate", Msg: "must be YYYY-MM-DD"}
	}
	if len(req.Seats) == 0 {
		return b, domain.ValidationError{Field: "seats", Msg: "at least one seat required"}
	}
	if bad, dup := models.ValidateSeats(req.Seats); bad != 0 {
		return b, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d does not exist", bad)}
	} else if dup != 0 {
		return b, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d selected twice", dup)}
	}

	route, err := s.routes().GetByID(req.RouteID)
	if err != nil {
		return b, err
	}
	if req.BoardingStop != "" || req.DropoffStop != "" {
		if !route.ValidBoardingDropoff(req.BoardingStop, req.DropoffStop) {
			return b, domain.ValidationError{Field: "dropoffStop", Msg: "dropoff must lie beyond the boarding stop in the direction of travel"}
		}
	}

	// Early reject against already-booked seats for a friendlier error than
	// the raw unique-key conflict.
	booked, err := s.seats().BookedSeats(req.RouteID, req.JourneyDate)
	if err != nil {
		return b, err
	}
	bookedSet := map[int]bool{}
	for _, n := range booked {
		bookedSet[n] = true
	}
	for _, n := range req.Seats {
		if bookedSet[n] {
			return b, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d already booked", n)}
		}
	}

	if s.Holds.Enabled() {
		held, err := s.Holds.HeldSeats(ctx, req.RouteID, req.JourneyDate)
		if err != nil {
			// The unique key on booking_seats still arbitrates; losing the
			// hold check must not block checkout.
			utils.LogEvent(s.RequestID, "booking", "holds_unavailable", err.Error())
			held = nil
		}
		for _, n := range req.Seats {
			if owner, ok := held[n]; ok && owner != req.HoldToken {
				return b, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d is held by another passenger", n)}
			}
		}
	}

	farePerSeat := route.Fare
	if farePerSeat <= 0 {
		farePerSeat = models.DefaultFarePerSeat
	}

	b = models.Booking{
		RouteID:        req.RouteID,
		JourneyDate:    req.JourneyDate,
		PassengerName:  req.PassengerName,
		PassengerPhone: req.PassengerPhone,
		PassengerEmail: req.PassengerEmail,
		Gender:         strings.TrimSpace(req.Gender),
		BoardingStop:   req.BoardingStop,
		DropoffStop:    req.DropoffStop,
		Seats:          req.Seats,
		FarePerSeat:    farePerSeat,
		TotalFare:      models.TotalFare(len(req.Seats), farePerSeat),
		Status:         models.StatusPending,
	}

	id, err := s.bookings().Create(b)
	if err != nil {
		return b, err
	}
	b.ID = id

	s.Holds.Release(ctx, req.RouteID, req.JourneyDate, req.Seats, req.HoldToken)
	metrics.IncBookingCreated(string(b.Status))
	utils.LogEvent(s.RequestID, "booking", "checkout", fmt.Sprintf("booking_id=%d seats=%s total=%d", id, utils.JoinSeats(b.Seats), b.TotalFare))
	if err := s.Events.Publish(mq.KeyBookingCreated, b); err != nil {
		utils.LogEvent(s.RequestID, "booking", "event_publish_failed", err.Error())
	}
	return b, nil
}

// Update edits passenger details or seats while the booking is still unpaid.
// JourneyDate is immutable and not accepted here.
func (s BookingService) Update(id int64, upd models.BookingUpdate) (models.Booking, error) {
	booking, err := s.bookings().GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if !booking.Status.Editable() {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "booking can no longer be changed"}
	}

	if len(upd.Seats) > 0 {
		if bad, dup := models.ValidateSeats(upd.Seats); bad != 0 || dup != 0 {
			return models.Booking{}, domain.ValidationError{Field: "seats", Msg: "invalid seat selection"}
		}
	}
	if upd.BoardingStop != nil || upd.DropoffStop != nil {
		route, err := s.routes().GetByID(booking.RouteID)
		if err != nil {
			return models.Booking{}, err
		}
		boarding := booking.BoardingStop
		dropoff := booking.DropoffStop
		if upd.BoardingStop != nil {
			boarding = strings.TrimSpace(*upd.BoardingStop)
		}
		if upd.DropoffStop != nil {
			dropoff = strings.TrimSpace(*upd.DropoffStop)
		}
		if !route.ValidBoardingDropoff(boarding, dropoff) {
			return models.Booking{}, domain.ValidationError{Field: "dropoffStop", Msg: "dropoff must lie beyond the boarding stop in the direction of travel"}
		}
	}

	if err := s.bookings().Update(id, upd); err != nil {
		return models.Booking{}, err
	}
	return s.bookings().GetByID(id)
}

// Transition moves a booking through its lifecycle after validating the move.
func (s BookingService) Transition(id int64, to models.BookingStatus) (models.Booking, error) {
	if !models.ValidStatus(to) {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	booking, err := s.bookings().GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if !booking.Status.CanTransition(to) {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot move from %s to %s", booking.Status, to),
		}
	}
	if err := s.bookings().UpdateStatus(id, to); err != nil {
		return models.Booking{}, err
	}
	booking.Status = to
	if to.Terminal() {
		booking.Seats = []int{}
	}

	metrics.IncBookingStatusChanged(string(to))
	utils.LogEvent(s.RequestID, "booking", "transition", fmt.Sprintf("booking_id=%d to=%s", id, to))
	switch to {
	case models.StatusPaid:
		if err := s.Events.Publish(mq.KeyBookingPaid, booking); err != nil {
			utils.LogEvent(s.RequestID, "booking", "event_publish_failed", err.Error())
		}
	case models.StatusCancelled, models.StatusRejected:
		if err := s.Events.Publish(mq.KeyBookingCancelled, booking); err != nil {
			utils.LogEvent(s.RequestID, "booking", "event_publish_failed", err.Error())
		}
	}
	return booking, nil
}
