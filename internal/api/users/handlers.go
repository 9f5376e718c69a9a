// internal/api/users/handlers.go
package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/auth"
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

// Profile is the public view of an account.
type Profile struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	ImagePath *string `json:"image_path"`
}

func profileOf(u *models.User) Profile {
	return Profile{ID: u.ID, Name: u.Name, Surname: u.Surname, ImagePath: u.ImagePath}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=30"`
	Surname  string `json:"surname" validate:"required,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// POST /api/v1/register
//
// Creates the account only; no token is issued here.
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req registerRequest
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

	if _, err := st.UserByEmail(ctx, req.Email); err == nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, "The email is already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Error().Err(err).Msg("Failed to check email")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &models.User{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: hash,
		Active:   true,
		RoleID:   int64(authz.RoleUser),
	}
	if err := st.CreateUser(ctx, user); err != nil {
		logger.Error().Err(err).Msg("Failed to create user")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The user could not be registered")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"msg":  "User registered successfully",
		"user": profileOf(user),
	})
}

// GET /api/v1/users/{id}
func HandleProfile(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user, err := st.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This user does not exist")
			return
		}
		logger.Error().Err(err).Int64("user_id", id).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"user": profileOf(user)})
}

// loadCaller re-reads the caller's own row; the token may be stale.
func loadCaller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	caller, ok := apiutil.RequireCaller(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user, err := st.UserByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This user does not exist")
			return nil, false
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", caller.ID).Msg("Failed to load user")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load user")
		return nil, false
	}
	return user, true
}

// GET /api/v1/me
func HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"user": user})
}

// GET /api/v1/me/warnings
func HandleMyWarnings(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{
		"warning1": user.Warning1,
		"warning2": user.Warning2,
	})
}

// GET /api/v1/me/role
func HandleMyRole(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"role_id": user.RoleID})
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PUT /api/v1/me/name
func HandleUpdateMyName(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
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

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user.Name = req.Name
	if err := st.SaveUser(ctx, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", user.ID).Msg("Failed to update name")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The user name could not be updated")
		return
	}
	apiutil.WriteMsg(w, http.StatusAccepted, "The user name has been updated successfully")
}

// PUT /api/v1/me/email
func HandleUpdateMyEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
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

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	user.Email = req.Email
	if err := st.SaveUser(ctx, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", user.ID).Msg("Failed to update email")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The user email could not be updated")
		return
	}
	apiutil.WriteMsg(w, http.StatusAccepted, "The user email has been updated successfully")
}

// DELETE /api/v1/me
func HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := loadCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := st.DeleteUser(ctx, user.ID); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("user_id", user.ID).Msg("Failed to delete account")
		apiutil.WriteMsg(w, http.StatusNotAcceptable, "The account could not be deleted")
		return
	}
	apiutil.WriteMsg(w, http.StatusAccepted, "The account has been deleted successfully")
}
