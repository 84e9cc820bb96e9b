package assets

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/curator-io/curator/pkg/handlers"
	"github.com/curator-io/curator/pkg/pagination"
	"github.com/curator-io/curator/pkg/resource"
	"github.com/curator-io/curator/pkg/routes"
)

// Handler provides HTTP endpoints for asset operations. Repository
// operations respond with the result envelope: the envelope code is the
// HTTP status, the envelope itself is the body.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// BatchRequest identifies a set of assets to read along with the fields to
// project.
type BatchRequest struct {
	IDs       []string `json:"ids,omitempty"`
	EncodeIDs []string `json:"encodeIds,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

// ExistsRequest carries uniqueness-check criteria.
type ExistsRequest struct {
	Criteria    []resource.Criterion `json:"criteria"`
	ExcludingID string               `json:"excludingId,omitempty"`
}

// SeedRequest configures dummy data generation.
type SeedRequest struct {
	IgnoredFields []string       `json:"ignoredFields,omitempty"`
	CustomValues  map[string]any `json:"customValues,omitempty"`
	Limit         int            `json:"limit"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "assets"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for asset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/assets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/enriched", Handler: h.Enriched},
			{Method: "POST", Pattern: "/batch/ids", Handler: h.BatchByIDs},
			{Method: "POST", Pattern: "/batch/encode-ids", Handler: h.BatchByEncodeIDs},
			{Method: "POST", Pattern: "/exists", Handler: h.Exists},
			{Method: "POST", Pattern: "/seed", Handler: h.Seed},
			{Method: "POST", Pattern: "/encode/{encodeId}/report", Handler: h.Report},
			{Method: "GET", Pattern: "/stats/count", Handler: h.Count},
			{Method: "GET", Pattern: "/stats/size", Handler: h.TotalSize},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.Deactivate},
			{Method: "PATCH", Pattern: "/{id}/fields", Handler: h.SetFields},
			{Method: "GET", Pattern: "/{id}/fields", Handler: h.FieldValues},
			{Method: "GET", Pattern: "/{id}/field/{key}", Handler: h.FieldValue},
		},
	}
}

// List returns a paginated list of assets with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching assets.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Enriched returns a paginated list of assets with video analytics merged in.
func (h *Handler) Enriched(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Enriched(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single asset by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	handlers.RespondResult(w, h.sys.Resources().GetByID(r.Context(), r.PathValue("id")))
}

// Create registers a new asset from a JSON payload.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	handlers.RespondResult(w, h.sys.Create(r.Context(), payload))
}

// Update applies a JSON payload to the asset with the given id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	handlers.RespondResult(w, h.sys.Update(r.Context(), payload, r.PathValue("id")))
}

// Delete removes an asset. Soft by default; pass hard=true to remove the
// stored document entirely.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	hard, _ := strconv.ParseBool(r.URL.Query().Get("hard"))
	handlers.RespondResult(w, h.sys.Resources().Delete(r.Context(), r.PathValue("id"), hard))
}

// Activate transitions an asset to active status.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	handlers.RespondResult(w, h.sys.Resources().Activate(r.Context(), r.PathValue("id")))
}

// Deactivate transitions an asset to inactive status.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	handlers.RespondResult(w, h.sys.Resources().Deactivate(r.Context(), r.PathValue("id")))
}

// Report flags the asset with the given encode id as reported.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	handlers.RespondResult(w, h.sys.Resources().Report(r.Context(), r.PathValue("encodeId")))
}

// SetFields applies the declared-field subset of a JSON payload to an asset.
func (h *Handler) SetFields(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	handlers.RespondResult(w, h.sys.Resources().SetField(r.Context(), payload, r.PathValue("id")))
}

// FieldValue returns the value of a single asset field.
func (h *Handler) FieldValue(w http.ResponseWriter, r *http.Request) {
	handlers.RespondResult(w, h.sys.Resources().GetField(r.Context(), r.PathValue("id"), r.PathValue("key")))
}

// FieldValues returns the values of the comma-separated keys query parameter.
func (h *Handler) FieldValues(w http.ResponseWriter, r *http.Request) {
	keys := splitKeys(r.URL.Query().Get("keys"))
	if len(keys) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingKeys)
		return
	}
	handlers.RespondResult(w, h.sys.Resources().GetFields(r.Context(), keys, r.PathValue("id")))
}

// BatchByIDs returns assets matching a set of primary ids with projected fields.
func (h *Handler) BatchByIDs(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	handlers.RespondResult(w, h.sys.Resources().GetByIDs(r.Context(), req.IDs, req.Fields))
}

// BatchByEncodeIDs returns assets matching a set of encode ids with projected fields.
func (h *Handler) BatchByEncodeIDs(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	handlers.RespondResult(w, h.sys.Resources().GetByEncodeIDs(r.Context(), req.EncodeIDs, req.Fields))
}

// Exists checks whether an asset matching the criteria already exists.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	var req ExistsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	handlers.RespondResult(w, h.sys.Resources().Exists(r.Context(), req.Criteria, req.ExcludingID))
}

// Count returns the number of assets matching the query parameter filters.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query())
	handlers.RespondResult(w, h.sys.Resources().GetCount(r.Context(), filters.Filter()))
}

// TotalSize returns the summed size of assets matching the query parameter filters.
func (h *Handler) TotalSize(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query())
	handlers.RespondResult(w, h.sys.Resources().GetSumOfField(r.Context(), filters.Filter(), "size"))
}

// Seed bulk-inserts synthetic assets for local development and testing.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	handlers.RespondResult(w, h.sys.Resources().GenerateDummyData(r.Context(), req.IgnoredFields, req.CustomValues, req.Limit))
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return nil, false
	}
	return payload, true
}

func splitKeys(raw string) []string {
	keys := make([]string, 0)
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
