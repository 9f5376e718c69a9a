// Package booking implements the reservation admission rule: a
// reservation carries a waitlist number or a time slot, never both and
// never neither.
package booking

import (
	"context"
	"errors"

	"github.com/courtbook/courtbook/internal/models"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

// Mode-conflict rejections. The message depends on which rule the input
// violated.
var (
	ErrMustBeWaitlist = errors.New("this reservation must have a waitlist number and not a time slot")
	ErrMustBeTimeSlot = errors.New("this reservation must have a time slot and not a waitlist number")
)

// Mode is the booking mode as a tagged union, constructed only after
// validation passes so conflicting states are unrepresentable.
type Mode interface {
	apply(r *models.Reservation)
}

type Waitlist struct {
	Number int64
}

func (m Waitlist) apply(r *models.Reservation) {
	n := m.Number
	r.WaitlistNumber = &n
}

type TimeSlot struct {
	Start string
	End   string
}

func (m TimeSlot) apply(r *models.Reservation) {
	start, end := m.Start, m.End
	r.StartTime = &start
	r.EndTime = &end
}

// Request is a booking request as received from the transport. Times are
// free-form strings; no overlap detection is performed.
type Request struct {
	CourtID        int64   `json:"court_id" validate:"required"`
	UserID         int64   `json:"user_id" validate:"required"`
	WaitlistNumber *int64  `json:"waitlist_number"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
}

// Mode resolves the request into exactly one booking mode.
//
// A present waitlist number demands an absent time range; an absent one
// demands a complete time range. Everything else is a mode conflict.
func (r Request) Mode() (Mode, error) {
	if r.WaitlistNumber != nil {
		if r.StartTime != nil || r.EndTime != nil {
			return nil, ErrMustBeWaitlist
		}
		return Waitlist{Number: *r.WaitlistNumber}, nil
	}
	if r.StartTime == nil || r.EndTime == nil {
		return nil, ErrMustBeTimeSlot
	}
	return TimeSlot{Start: *r.StartTime, End: *r.EndTime}, nil
}

type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Create validates the request shape, resolves the booking mode and
// persists the reservation.
func (s *Service) Create(ctx context.Context, req Request) (*models.Reservation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	mode, err := req.Mode()
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		CourtID: req.CourtID,
		UserID:  req.UserID,
	}
	mode.apply(reservation)

	if err := s.store.CreateReservation(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// Exists reports whether any reservation matches both court and user, and
// returns the matching records. Create does not consult it; it serves
// callers that pre-check.
func (s *Service) Exists(ctx context.Context, courtID, userID int64) (bool, []models.Reservation, error) {
	reservations, err := s.store.ReservationsByCourtAndUser(ctx, courtID, userID)
	if err != nil {
		return false, nil, err
	}
	return len(reservations) > 0, reservations, nil
}
