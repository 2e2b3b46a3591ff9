package dropdown

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/api"
	"peopleops/internal/auth"
	"peopleops/internal/middleware"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dropdowns", func(r chi.Router) {
		r.Get("/types/{typeID}", h.handleListByType)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/types/{typeID}", h.handleCreate)
	})
}

func (h *Handler) handleListByType(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	typeID, err := strconv.Atoi(chi.URLParam(r, "typeID"))
	if err != nil || !KnownType(typeID) {
		api.Fail(w, http.StatusBadRequest, "invalid_type", "unknown dropdown type", requestID)
		return
	}

	values, err := h.Store.ListByType(r.Context(), typeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dropdown_list_failed", "failed to list dropdown values", requestID)
		return
	}
	api.Success(w, TypeValues{
		TypeID:   typeID,
		TypeName: TypeName(typeID),
		Values:   values,
	}, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	typeID, err := strconv.Atoi(chi.URLParam(r, "typeID"))
	if err != nil || !KnownType(typeID) {
		api.Fail(w, http.StatusBadRequest, "invalid_type", "unknown dropdown type", requestID)
		return
	}

	var body struct {
		ValueName string `json:"valueName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}
	body.ValueName = strings.TrimSpace(body.ValueName)
	if body.ValueName == "" {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "valueName is required", requestID)
		return
	}

	value, err := h.Store.Create(r.Context(), typeID, body.ValueName)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dropdown_create_failed", "failed to create dropdown value", requestID)
		return
	}
	api.Created(w, value, requestID)
}
