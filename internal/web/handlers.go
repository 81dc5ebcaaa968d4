package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleShops(w http.ResponseWriter, r *http.Request) {
	shops, err := s.Store.ReadShops(r.URL.Query().Get("city"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, shops)
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "placeID")
	shops, err := s.Store.ReadShops("")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, sh := range shops {
		if sh.PlaceID == id {
			writeJSON(w, sh)
			return
		}
	}
	http.Error(w, "shop not found", http.StatusNotFound)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.Store.ReadCities()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, cities)
}

type statusResponse struct {
	Runs    int    `json:"runs"`
	Shops   int    `json:"shops"`
	Cities  int    `json:"cities"`
	Reviews int    `json:"reviews"`
	LastRun any    `json:"last_run"`
	SiteDir string `json:"site_dir,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	run, err := s.Store.LastRun()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := statusResponse{
		Runs:    s.Store.RunCount(),
		Shops:   s.Store.ShopCount(),
		Cities:  s.Store.CityCount(),
		Reviews: s.Store.ReviewCount(),
		SiteDir: s.SiteDir,
	}
	if run != nil {
		resp.LastRun = run
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Wildcard CORS: this is a local preview tool, not a public API.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
