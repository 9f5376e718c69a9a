// internal/api/floors/handlers.go
package floors

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

// GET /api/v1/floors
func HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	floors, err := st.ListFloors(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list floors")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to list floors")
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"floors": floors})
}

// GET /api/v1/floors/{id}
func HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	floor, err := st.FloorByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiutil.WriteMsg(w, http.StatusBadRequest, "This floor type does not exist")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("floor_id", id).Msg("Failed to load floor")
		apiutil.WriteMsg(w, http.StatusInternalServerError, "Failed to load floor")
		return
	}
	apiutil.WriteJSON(w, http.StatusAccepted, map[string]any{"floor": floor})
}
