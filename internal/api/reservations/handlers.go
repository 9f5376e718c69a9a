// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

const queryTimeout = 5 * time.Second

var (
	st  *store.Store
	svc *booking.Service
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *store.Store, b *booking.Service) {
	st = s
	svc = b
}

// GET /api/v1/reservations
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	caller, ok := apiutil.RequireCaller(w, r)
	if !ok {
		return
	}
	if caller.Role != authz.RoleAdmin {
		apiutil.WriteMsg(w, http.StatusForbidden, "You need to be an administrator to do this operation")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	bookings, err := st.ListReservations(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list reservations")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"bookings": bookings})
}

// GET /api/v1/users/{id}/reservations
func HandleListByUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	userID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	bookings, err := st.ReservationsByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to list reservations")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"bookings": bookings})
}

// GET /api/v1/courts/{id}/reservations
func HandleListByCourt(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	courtID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	bookings, err := st.ReservationsByCourt(ctx, courtID)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to list reservations")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"bookings": bookings})
}

// GET /api/v1/reservations/exists?court_id=...&user_id=...
//
// A negative result is 404, not an error body; callers use this as a
// pre-check before booking.
func HandleExists(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	courtID, err := apiutil.PositiveInt64FromQuery(r, "court_id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := apiutil.PositiveInt64FromQuery(r, "user_id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	exists, bookings, err := svc.Exists(ctx, courtID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Int64("user_id", userID).Msg("Failed to check reservation")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to check reservation")
		return
	}

	if !exists {
		apiutil.WriteJSON(w, http.StatusNotFound, map[string]any{"exists": false})
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"booking": bookings,
		"exists":  true,
	})
}

// POST /api/v1/reservations
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	var req booking.Request
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	reservation, err := svc.Create(ctx, req)
	if err != nil {
		var fields validate.FieldErrors
		switch {
		case errors.As(err, &fields):
			apiutil.WriteValidation(w, fields)
		case errors.Is(err, booking.ErrMustBeWaitlist), errors.Is(err, booking.ErrMustBeTimeSlot):
			apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error().Err(err).Msg("Failed to create reservation")
			apiutil.WriteMsg(w, http.StatusNotAcceptable, "The reservation could not be created")
		}
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"msg":     "Reservation added successfully",
		"reserve": reservation,
	})
}

// DELETE /api/v1/reservations/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	id, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := st.DeleteReservation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This reservation does not exist")
			return
		}
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to delete reservation")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The reservation could not be deleted")
		return
	}

	apiutil.WriteMsg(w, http.StatusAccepted, "The reservation has been deleted successfully")
}
