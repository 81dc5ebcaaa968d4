package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jerryli27/coffee-project/internal/store"
)

// Server previews the rendered site and serves the latest run over a small
// JSON API.
type Server struct {
	Store *store.Store
	Addr  string
	// SiteDir is the rendered output directory served at /.
	SiteDir string
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/shops", s.handleShops)
		r.Get("/shops/{placeID}", s.handleShop)
		r.Get("/cities", s.handleCities)
		r.Get("/status", s.handleStatus)
	})

	if s.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.SiteDir)))
	}
	return r
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	fmt.Printf("Serving at http://%s\n", s.Addr)
	return http.ListenAndServe(s.Addr, s.Handler())
}
