package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kinship-backend/internal/scene"
	"kinship-backend/internal/service/graph"
	"kinship-backend/pkg/api"
)

// GraphHandler handles all graph-related HTTP requests.
type GraphHandler struct {
	service graph.Service
	logger  *zap.Logger
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(service graph.Service, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the authenticated API surface on the router.
func (h *GraphHandler) RegisterRoutes(r chi.Router) {
	r.Route("/people", func(r chi.Router) {
		r.Post("/", h.CreatePerson)
		r.Post("/bulk", h.BulkCreatePeople)
		r.Put("/{personId}", h.UpdatePerson)
		r.Post("/{personId}/contacted", h.MarkContacted)
		r.Delete("/{personId}", h.DeletePerson)
	})

	r.Route("/links", func(r chi.Router) {
		r.Post("/", h.CreateLink)
		r.Put("/", h.UpdateLink)
		r.Delete("/", h.DeleteLink)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{key}", h.UpdateCategory)
		r.Delete("/{key}", h.DeleteCategory)
		r.Put("/defaults/{key}/color", h.SetDefaultCategoryColor)
		r.Delete("/defaults/{key}", h.DeleteDefaultCategory)
		r.Post("/defaults/{key}/restore", h.RestoreDefaultCategory)
	})

	r.Route("/graph", func(r chi.Router) {
		r.Get("/", h.GetScene)
		r.Get("/svg", h.GetSceneSVG)
		r.Get("/snapshot", h.GetSnapshot)
		r.Post("/center", h.SetCenter)
	})

	r.Get("/analytics", h.GetAnalytics)
}

// auth pulls the user id or writes a 401.
func (h *GraphHandler) auth(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
	}
	return userID, ok
}

// decode parses and tag-validates a JSON body.
func decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := api.Validate(req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// CreatePerson handles POST /api/people
func (h *GraphHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.CreatePersonRequest
	if !decode(w, r, &req) {
		return
	}

	person, err := h.service.AddPerson(r.Context(), userID, graph.PersonInput{
		Name:    req.Name,
		Group:   req.Group,
		Details: req.Details,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, person)
}

// BulkCreatePeople handles POST /api/people/bulk
func (h *GraphHandler) BulkCreatePeople(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.BulkCreatePeopleRequest
	if !decode(w, r, &req) {
		return
	}

	inputs := make([]graph.PersonInput, 0, len(req.People))
	for _, p := range req.People {
		inputs = append(inputs, graph.PersonInput{Name: p.Name, Group: p.Group, Details: p.Details})
	}

	people, err := h.service.BulkAddPeople(r.Context(), userID, inputs)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, map[string]interface{}{"people": people})
}

// UpdatePerson handles PUT /api/people/{personId}
func (h *GraphHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.UpdatePersonRequest
	if !decode(w, r, &req) {
		return
	}

	person, err := h.service.UpdatePerson(r.Context(), userID, chi.URLParam(r, "personId"), graph.PersonInput{
		Name:    req.Name,
		Group:   req.Group,
		Details: req.Details,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, person)
}

// MarkContacted handles POST /api/people/{personId}/contacted
func (h *GraphHandler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	if err := h.service.MarkContacted(r.Context(), userID, chi.URLParam(r, "personId")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// DeletePerson handles DELETE /api/people/{personId}
func (h *GraphHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePerson(r.Context(), userID, chi.URLParam(r, "personId")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// CreateLink handles POST /api/links
func (h *GraphHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.CreateLinkRequest
	if !decode(w, r, &req) {
		return
	}

	link, err := h.service.AddLink(r.Context(), userID, req.A, req.B, req.Strength)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, link)
}

// UpdateLink handles PUT /api/links
func (h *GraphHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.UpdateLinkRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.UpdateLink(r.Context(), userID, req.A, req.B, req.Strength); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// DeleteLink handles DELETE /api/links
func (h *GraphHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.DeleteLinkRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.DeleteLink(r.Context(), userID, req.A, req.B); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// ListCategories handles GET /api/categories
func (h *GraphHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Snapshot(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]interface{}{"categories": snap.Categories()})
}

// CreateCategory handles POST /api/categories
func (h *GraphHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := h.service.AddCategory(r.Context(), userID, req.Label, req.Color)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/{key}
func (h *GraphHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.UpdateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.UpdateCategory(r.Context(), userID, chi.URLParam(r, "key"), req.Label, req.Color); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// DeleteCategory handles DELETE /api/categories/{key}
func (h *GraphHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), userID, chi.URLParam(r, "key")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// SetDefaultCategoryColor handles PUT /api/categories/defaults/{key}/color
func (h *GraphHandler) SetDefaultCategoryColor(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.SetCategoryColorRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.SetDefaultCategoryColor(r.Context(), userID, chi.URLParam(r, "key"), req.Color); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// DeleteDefaultCategory handles DELETE /api/categories/defaults/{key}
func (h *GraphHandler) DeleteDefaultCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteDefaultCategory(r.Context(), userID, chi.URLParam(r, "key")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// RestoreDefaultCategory handles POST /api/categories/defaults/{key}/restore
func (h *GraphHandler) RestoreDefaultCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	if err := h.service.RestoreDefaultCategory(r.Context(), userID, chi.URLParam(r, "key")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// GetScene handles GET /api/graph
func (h *GraphHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	sc, err := h.service.Scene(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, sc)
}

// GetSceneSVG handles GET /api/graph/svg
func (h *GraphHandler) GetSceneSVG(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	sc, err := h.service.Scene(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := scene.WriteSVG(w, sc); err != nil {
		h.logger.Error("failed to write svg", zap.Error(err))
	}
}

// GetSnapshot handles GET /api/graph/snapshot
func (h *GraphHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Snapshot(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, snap)
}

// SetCenter handles POST /api/graph/center
func (h *GraphHandler) SetCenter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	var req api.SetCenterRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.SetCenter(r.Context(), userID, req.PersonID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// GetAnalytics handles GET /api/analytics
func (h *GraphHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.auth(w, r)
	if !ok {
		return
	}
	report, err := h.service.Analytics(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, report)
}
