// internal/api/courts/handlers.go
package courts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/models"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

const queryTimeout = 5 * time.Second

const msgCourtNotFound = "This court does not exist"

var st *store.Store

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *store.Store) {
	st = s
}

// GET /api/v1/courts
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	courts, err := st.ListCourts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list courts")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list courts")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"courts": courts})
}

// GET /api/v1/courts/{id}
func HandleDetail(w http.ResponseWriter, r *http.Request) {
	court, ok := loadCourt(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"court": court})
}

// GET /api/v1/courts/{id}/likes
//
// Aggregates like and dislike totals from the court's comments.
func HandleLikes(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	court, ok := loadCourt(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	likes, dislikes, err := st.LikeCounts(ctx, court.ID)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", court.ID).Msg("Failed to count likes")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to count likes")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"likes":    likes,
		"dislikes": dislikes,
	})
}

type courtRequest struct {
	Name    string `json:"name" validate:"required,max=50"`
	FloorID int64  `json:"floor_id" validate:"required"`
	SportID int64  `json:"sport_id" validate:"required"`
}

// POST /api/v1/courts
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var fields validate.FieldErrors
		if errors.As(err, &fields) {
			apiutil.WriteValidation(w, fields)
			return
		}
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if _, err := st.FloorByID(ctx, req.FloorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This floor type does not exist")
			return
		}
		logger.Error().Err(err).Msg("Failed to load floor")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to create court")
		return
	}
	if _, err := st.SportByID(ctx, req.SportID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This sport does not exist")
			return
		}
		logger.Error().Err(err).Msg("Failed to load sport")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to create court")
		return
	}

	court := &models.Court{Name: req.Name, FloorID: req.FloorID, SportID: req.SportID}
	if err := st.CreateCourt(ctx, court); err != nil {
		logger.Error().Err(err).Msg("Failed to create court")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The court could not be created")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"msg":   "Court added successfully",
		"court": court,
	})
}

// PUT /api/v1/courts/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}

	court, ok := loadCourt(w, r)
	if !ok {
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var fields validate.FieldErrors
		if errors.As(err, &fields) {
			apiutil.WriteValidation(w, fields)
			return
		}
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	court.Name = req.Name
	court.FloorID = req.FloorID
	court.SportID = req.SportID
	if err := st.SaveCourt(ctx, court); err != nil {
		logger.Error().Err(err).Int64("court_id", court.ID).Msg("Failed to update court")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The court could not be updated")
		return
	}

	apiutil.WriteMsg(w, http.StatusAccepted, "The court has been updated successfully")
}

// DELETE /api/v1/courts/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}

	court, ok := loadCourt(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := st.DeleteCourt(ctx, court.ID); err != nil {
		logger.Error().Err(err).Int64("court_id", court.ID).Msg("Failed to delete court")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The court could not be deleted")
		return
	}

	apiutil.WriteMsg(w, http.StatusAccepted, "The court has been deleted successfully")
}

func loadCourt(w http.ResponseWriter, r *http.Request) (*models.Court, bool) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	court, err := st.CourtByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgCourtNotFound)
			return nil, false
		}
		logger.Error().Err(err).Int64("court_id", id).Msg("Failed to load court")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load court")
		return nil, false
	}
	return court, true
}
