package neighbourhood

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/forces", h.GetForces)
	r.Get("/forces/{force}/neighbourhoods", h.GetNeighbourhoods)
	r.Get("/forces/{force}/neighbourhoods/{neighbourhood}", h.GetNeighbourhood)

	return r
}
