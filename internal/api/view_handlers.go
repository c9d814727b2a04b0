package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/view"
)

// View action types, shared by the HTTP endpoints and the stream
const (
	actionSelect   = "select"
	actionQuery    = "query"
	actionSort     = "sort"
	actionReset    = "reset"
	actionCarousel = "carousel"
)

type createViewRequest struct {
	Catalog string `json:"catalog"`
}

// viewAction is one user event against a view
type viewAction struct {
	Type      string `json:"type,omitempty"`
	Dimension string `json:"dimension,omitempty"`
	Value     string `json:"value,omitempty"`
	Query     string `json:"query,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Action    string `json:"action,omitempty"`
	Index     int    `json:"index,omitempty"`
}

type viewResponse struct {
	View  view.Info  `json:"view"`
	State view.State `json:"state"`
}

// apply runs a single action to completion and returns the resulting state
func apply(v *view.View, a viewAction) (view.State, error) {
	switch a.Type {
	case actionSelect:
		d, err := catalog.ParseDimension(a.Dimension)
		if err != nil {
			return view.State{}, err
		}
		return v.Select(d, a.Value)
	case actionQuery:
		return v.SetQuery(a.Query)
	case actionSort:
		key, err := catalog.ParseSortKey(a.Sort)
		if err != nil {
			return view.State{}, err
		}
		return v.SetSort(key)
	case actionReset:
		return v.Reset()
	case actionCarousel:
		return v.Carousel(strings.ToLower(a.Action), a.Index)
	default:
		return view.State{}, fmt.Errorf("%w: %q", view.ErrUnknownAction, a.Type)
	}
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Catalog == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "catalog is required")
		return
	}

	c, err := s.catalogs.Get(req.Catalog)
	if err != nil {
		respondDomainError(w, r, err, "create view")
		return
	}

	v, info := s.views.Create(c)
	respondJSON(w, http.StatusCreated, viewResponse{View: info, State: v.State()})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	v := ViewFromContext(r.Context())
	info, err := s.views.Info(v.ID())
	if err != nil {
		respondDomainError(w, r, err, "get view")
		return
	}
	respondJSON(w, http.StatusOK, viewResponse{View: info, State: v.State()})
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.views.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err, "delete view")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "view closed",
	})
}

// handleViewAction decodes a body into an action of the given type
func (s *Server) handleViewAction(actionType string, needsBody bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a viewAction
		if needsBody && !decodeJSON(w, r, &a) {
			return
		}
		a.Type = actionType

		state, err := apply(ViewFromContext(r.Context()), a)
		if err != nil {
			respondDomainError(w, r, err, actionType)
			return
		}
		respondJSON(w, http.StatusOK, state)
	}
}

func (s *Server) handleViewSelect(w http.ResponseWriter, r *http.Request) {
	s.handleViewAction(actionSelect, true)(w, r)
}

func (s *Server) handleViewQuery(w http.ResponseWriter, r *http.Request) {
	s.handleViewAction(actionQuery, true)(w, r)
}

func (s *Server) handleViewSort(w http.ResponseWriter, r *http.Request) {
	s.handleViewAction(actionSort, true)(w, r)
}

func (s *Server) handleViewReset(w http.ResponseWriter, r *http.Request) {
	s.handleViewAction(actionReset, false)(w, r)
}

func (s *Server) handleViewCarousel(w http.ResponseWriter, r *http.Request) {
	s.handleViewAction(actionCarousel, true)(w, r)
}
