package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/validate"
)

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteMsg writes the {"msg": ...} body every non-validation response uses.
func WriteMsg(w http.ResponseWriter, status int, msg string) {
	if err := WriteJSON(w, status, map[string]string{"msg": msg}); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

// WriteValidation writes the per-field validation error body at 400.
func WriteValidation(w http.ResponseWriter, fields validate.FieldErrors) {
	if err := WriteJSON(w, http.StatusBadRequest, map[string]any{"error": fields}); err != nil {
		log.Error().Err(err).Msg("Failed to write validation response")
	}
}

// RequireCaller resolves the authenticated caller or answers 401. The
// boolean reports whether the handler may continue.
func RequireCaller(w http.ResponseWriter, r *http.Request) (*authz.Caller, bool) {
	caller, err := authz.RequireAuthenticated(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Msg("Request rejected: unauthenticated")
		WriteMsg(w, http.StatusUnauthorized, "unauthenticated")
		return nil, false
	}
	return caller, true
}

// RequireAdmin answers 403 with the admin-only message unless the caller
// is an admin.
func RequireAdmin(w http.ResponseWriter, r *http.Request) (*authz.Caller, bool) {
	caller, err := authz.RequireAdmin(r.Context())
	if err != nil {
		writeRoleError(w, r, err, "This operation can only be done by an administrator")
		return nil, false
	}
	return caller, true
}

// RequireModerator answers 403 unless the caller is an admin or moderator.
func RequireModerator(w http.ResponseWriter, r *http.Request) (*authz.Caller, bool) {
	caller, err := authz.RequireModerator(r.Context())
	if err != nil {
		writeRoleError(w, r, err, "This operation can only be done by an administrator or a moderator")
		return nil, false
	}
	return caller, true
}

func writeRoleError(w http.ResponseWriter, r *http.Request, err error, forbiddenMsg string) {
	logger := log.Ctx(r.Context())
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		logger.Warn().Msg("Request rejected: unauthenticated")
		WriteMsg(w, http.StatusUnauthorized, "unauthenticated")
	default:
		logger.Warn().Msg("Request rejected: forbidden")
		WriteMsg(w, http.StatusForbidden, forbiddenMsg)
	}
}
