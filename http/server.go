package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the chi router for the checkout API:
//
//	GET  /sessions/{id}          current snapshot
//	POST /sessions/{id}/intents  apply a named intent
//	GET  /sessions/{id}/stream   WebSocket snapshot stream
func NewRouter(registry SessionRegistry) http.Handler {
	r := chi.NewRouter()

	r.Get("/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		m, ok := registry.Lookup(chi.URLParam(req, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown session"})
			return
		}
		HandleSnapshot(w, m)
	})

	r.Post("/sessions/{id}/intents", func(w http.ResponseWriter, req *http.Request) {
		m, ok := registry.Lookup(chi.URLParam(req, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown session"})
			return
		}
		HandleIntent(w, req, m)
	})

	r.Get("/sessions/{id}/stream", func(w http.ResponseWriter, req *http.Request) {
		m, ok := registry.Lookup(chi.URLParam(req, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown session"})
			return
		}
		HandleStream(w, req, m)
	})

	return r
}
