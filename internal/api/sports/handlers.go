// internal/api/sports/handlers.go
package sports

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/store"
)

const queryTimeout = 5 * time.Second

var st *store.Store

func InitHandlers(s *store.Store) {
	st = s
}

// GET /api/v1/sports
func HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sports, err := st.ListSports(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list sports")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list sports")
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"sports": sports})
}

// GET /api/v1/sports/{id}
func HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sport, err := st.SportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This sport does not exist")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("sport_id", id).Msg("Failed to load sport")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load sport")
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"sport": sport})
}
