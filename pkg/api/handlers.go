package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	"github.com/KhaledTDev/islamhouse/pkg/version"
)

// parsePage mirrors the lenient integer coercion of the query string:
// anything unparseable becomes page 1 and range clamping happens in the
// pagination layer.
func parsePage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

func (s *Server) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	infos, err := s.aggregator.Categories(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrAllSourcesUnavailable) {
			s.writeError(w, http.StatusServiceUnavailable, "Sources unavailable", "No category source is reachable")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Failed to list categories", err.Error())
		return
	}

	response := ListCategoriesResponse{
		Categories: infos,
		Count:      len(infos),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleCategoryItems(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	term := r.URL.Query().Get("q")

	page, err := s.aggregator.ListCategory(r.Context(), name, term, parsePage(r))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidCategory):
			s.writeError(w, http.StatusBadRequest, "Invalid category", fmt.Sprintf("Category '%s' does not exist", name))
		case errors.Is(err, catalog.ErrSourceUnavailable):
			s.writeError(w, http.StatusServiceUnavailable, "Source unavailable", fmt.Sprintf("Category '%s' is currently unreachable", name))
		default:
			s.writeError(w, http.StatusInternalServerError, "Failed to list items", err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	id := r.PathValue("id")

	item, err := s.aggregator.GetItem(r.Context(), name, id)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidCategory):
			s.writeError(w, http.StatusBadRequest, "Invalid category", fmt.Sprintf("Category '%s' does not exist", name))
		case errors.Is(err, catalog.ErrItemNotFound):
			s.writeError(w, http.StatusNotFound, "Item not found", fmt.Sprintf("No item '%s' in category '%s'", id, name))
		case errors.Is(err, catalog.ErrSourceUnavailable):
			s.writeError(w, http.StatusServiceUnavailable, "Source unavailable", fmt.Sprintf("Category '%s' is currently unreachable", name))
		default:
			s.writeError(w, http.StatusInternalServerError, "Failed to get item", err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	pageNum := parsePage(r)

	page, err := s.aggregator.ListAll(r.Context(), term, pageNum)
	if err != nil {
		if errors.Is(err, catalog.ErrAllSourcesUnavailable) && s.replica != nil {
			fallback, rerr := s.replica.Search(term, "", pageNum)
			if rerr == nil {
				s.logger.Warnf("serving degraded results from replica: %v", err)
				s.writeJSON(w, http.StatusOK, fallback)
				return
			}
		}
		if errors.Is(err, catalog.ErrAllSourcesUnavailable) {
			s.writeError(w, http.StatusServiceUnavailable, "Sources unavailable", "No category source is reachable")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.aggregator.GetStats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
