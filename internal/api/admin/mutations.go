// internal/api/admin/mutations.go
//
// Admin-only account field mutations. All of them follow the same
// precedence: role, existence, field validation, persistence outcome.
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/models"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type activeRequest struct {
	Active *int `json:"active" validate:"required"`
}

type roleRequest struct {
	RoleID *int64 `json:"role_id" validate:"required"`
}

// loadTarget applies the existence step shared by every mutation.
func loadTarget(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	logger := log.Ctx(r.Context())

	targetID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user, err := st.UserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, msgUserNotFound)
			return nil, false
		}
		logger.Error().Err(err).Int64("target_id", targetID).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return nil, false
	}
	return user, true
}

func saveTarget(w http.ResponseWriter, r *http.Request, user *models.User, failureMsg, successMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := st.SaveUser(ctx, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("target_id", user.ID).Msg(failureMsg)
		apiutil.WriteMsg(w, http.StatusNotAcceptable, failureMsg)
		return
	}
	apiutil.WriteMsg(w, http.StatusAccepted, successMsg)
}

// PUT /api/v1/users/{id}/name
func HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}
	user, ok := loadTarget(w, r)
	if !ok {
		return
	}

	var req nameRequest
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

	user.Name = req.Name
	saveTarget(w, r, user,
		"The user name could not be updated",
		"The user name has been updated successfully")
}

// PUT /api/v1/users/{id}/email
func HandleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}
	user, ok := loadTarget(w, r)
	if !ok {
		return
	}

	var req emailRequest
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

	user.Email = req.Email
	saveTarget(w, r, user,
		"The user email could not be updated",
		"The user email has been updated successfully")
}

// PUT /api/v1/users/{id}/active
func HandleUpdateActive(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}
	user, ok := loadTarget(w, r)
	if !ok {
		return
	}

	var req activeRequest
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

	if *req.Active != 0 && *req.Active != 1 {
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "Value not allowed")
		return
	}

	user.Active = *req.Active == 1
	saveTarget(w, r, user,
		"The user could not be updated",
		"The user has been updated successfully")
}

// PUT /api/v1/users/{id}/role
func HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := apiutil.RequireAdmin(w, r); !ok {
		return
	}
	user, ok := loadTarget(w, r)
	if !ok {
		return
	}

	var req roleRequest
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

	if *req.RoleID < 1 || *req.RoleID > 3 {
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "Value not allowed")
		return
	}

	user.RoleID = *req.RoleID
	saveTarget(w, r, user,
		"The user could not be updated",
		"The user has been updated successfully")
}
