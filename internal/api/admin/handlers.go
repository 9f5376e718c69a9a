// internal/api/admin/handlers.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/moderation"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

const queryTimeout = 5 * time.Second

const msgUserNotFound = "This user does not exist"

var (
	st  *store.Store
	mod *moderation.Service
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *store.Store, m *moderation.Service) {
	st = s
	mod = m
}

type warningRequest struct {
	Warning string `json:"warning"`
}

// POST /api/v1/users/{id}/warnings
//
// Check order is role, then text, then target existence; a caller without
// the moderator capability learns nothing else.
func HandleIssueWarning(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	caller, ok := apiutil.RequireModerator(w, r)
	if !ok {
		return
	}

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	var req warningRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	transition, err := mod.IssueWarning(ctx, caller.Role, targetID, req.Warning)
	if err != nil {
		var fields validate.FieldErrors
		switch {
		case errors.Is(err, authz.ErrForbidden):
			apiutil.WriteMsg(w, http.StatusForbidden, "This operation can only be done by an administrator or a moderator")
		case errors.As(err, &fields):
			apiutil.WriteValidation(w, fields)
		case errors.Is(err, store.ErrNotFound):
			apiutil.WriteMsg(w, http.StatusBadRequest, "The user could not be found")
		default:
			logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to issue warning")
			apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to issue warning")
		}
		return
	}

	switch transition {
	case moderation.TransitionFirstWarning:
		apiutil.WriteMsg(w, http.StatusAccepted, "First warning added successfully")
	case moderation.TransitionSuspended:
		apiutil.WriteMsg(w, http.StatusAccepted, "Second warning added successfully. The account has been suspended")
	default:
		apiutil.WriteMsg(w, http.StatusAccepted, "The account is already suspended")
	}
}

// GET /api/v1/users/{id}/warnings
func HandleUserWarnings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	warning1, warning2, err := mod.Warnings(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgUserNotFound)
			return
		}
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to load warnings")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load warnings")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"warning1": warning1,
		"warning2": warning2,
	})
}

// GET /api/v1/users/{id}/role
func HandleUserRole(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireCaller(w, r); !ok {
		return
	}

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user, err := st.UserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgUserNotFound)
			return
		}
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"role_id": user.RoleID})
}

// GET /api/v1/users
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireModerator(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	users, err := st.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"msg":   "Users retrieved successfully",
		"users": users,
	})
}

// GET /api/v1/admin/users/{id}
func HandleUserDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireModerator(w, r); !ok {
		return
	}

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user, err := st.UserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgUserNotFound)
			return
		}
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"user": user})
}

// DELETE /api/v1/users/{id}
func HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if _, err := st.UserByID(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgUserNotFound)
			return
		}
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	if err := st.DeleteUser(ctx, targetID); err != nil {
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to delete account")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The account could not be deleted")
		return
	}

	apiutil.WriteMsg(w, http.StatusAccepted, "The account has been deleted successfully")
}
