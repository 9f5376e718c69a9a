// internal/api/comments/handlers.go
package comments

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

var st *store.Store

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *store.Store) {
	st = s
}

// GET /api/v1/courts/{id}/comments
func HandleListByCourt(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	courtID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	comments, err := st.CommentsByCourt(ctx, courtID)
	if err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to list comments")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"comments": comments})
}

type commentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
	Like *bool  `json:"like" validate:"required"`
}

// POST /api/v1/courts/{id}/comments
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	caller, ok := apiutil.RequireCaller(w, r)
	if !ok {
		return
	}

	courtID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	var req commentRequest
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

	if _, err := st.CourtByID(ctx, courtID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This court does not exist")
			return
		}
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to load court")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	comment := &models.Comment{
		Text:    req.Text,
		Like:    *req.Like,
		UserID:  caller.ID,
		CourtID: courtID,
	}
	if err := st.CreateComment(ctx, comment); err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to create comment")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The comment could not be added")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"msg":     "Comment added successfully",
		"comment": comment,
	})
}

// DELETE /api/v1/comments/{id}
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

	if err := st.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This comment does not exist")
			return
		}
		logger.Error().Err(err).Int64("comment_id", id).Msg("Failed to delete comment")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The comment could not be deleted")
		return
	}

	apiutil.WriteMsg(w, http.StatusAccepted, "The comment has been deleted successfully")
}
