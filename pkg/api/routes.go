package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/categories", s.HandleListCategories)
	mux.HandleFunc("GET /api/categories/{name}", s.HandleCategoryItems)
	mux.HandleFunc("GET /api/categories/{name}/items/{id}", s.HandleGetItem)
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
