// Package handlers provides the HTTP handlers of the medicines search service.
// Search state travels in the URL (q, letter, page) and is rebuilt on every
// request, so a page can be bookmarked or reloaded.
package handlers

import (
	"bytes"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/search"
)

// Message shown when a request arrives before the first dataset load
const messageNotLoaded = "The medicines dataset is not loaded yet. Please try again shortly."

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	engine        interfaces.SearchEngine
	renderer      interfaces.Renderer
	healthChecker interfaces.HealthChecker
}

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	validator interfaces.DataValidator,
	engine interfaces.SearchEngine,
	renderer interfaces.Renderer,
	healthChecker interfaces.HealthChecker,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		engine:        engine,
		renderer:      renderer,
		healthChecker: healthChecker,
	}
}

// HealthResponse keeps a stable JSON field order for /health
type HealthResponse struct {
	Status     string         `json:"status"`
	Uptime     string         `json:"uptime"`
	NextUpdate string         `json:"next_update,omitempty"`
	Data       map[string]any `json:"data"`
	System     map[string]any `json:"system"`
}

// searchRequest holds the validated search parameters of a request
type searchRequest struct {
	query  string
	letter string
	page   int
}

// parseSearchRequest reads q, letter and page from the URL. A blank query is
// valid and leads to the prompt.
func (h *HTTPHandlerImpl) parseSearchRequest(r *http.Request) (searchRequest, error) {
	params := r.URL.Query()
	req := searchRequest{
		query:  strings.TrimSpace(params.Get("q")),
		letter: strings.TrimSpace(params.Get("letter")),
	}

	if req.query != "" {
		if err := h.validator.ValidateQuery(req.query); err != nil {
			return req, err
		}
	}

	if err := h.validator.ValidateLetter(req.letter); err != nil {
		return req, err
	}

	page, err := h.validator.ParsePage(params.Get("page"))
	if err != nil {
		return req, err
	}
	req.page = page

	return req, nil
}

func (h *HTTPHandlerImpl) restore(req searchRequest) search.View {
	return h.engine.Restore(req.query, req.letter, req.page).View()
}

// SearchPage serves the HTML search page
func (h *HTTPHandlerImpl) SearchPage(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSearchRequest(r)
	if err != nil {
		logging.Warn("Invalid search request", "query", req.query, "error", err)
		view := search.NewState().View()
		view.Query = req.query
		view.Message = "Invalid search: " + err.Error()
		h.renderPage(w, http.StatusBadRequest, view)
		return
	}

	if h.dataStore.GetDataset() == nil {
		view := search.NewState().View()
		view.Query = req.query
		view.Message = messageNotLoaded
		h.renderPage(w, http.StatusServiceUnavailable, view)
		return
	}

	h.renderPage(w, http.StatusOK, h.restore(req))
}

// renderPage renders view into a buffer, then writes it with code
func (h *HTTPHandlerImpl) renderPage(w http.ResponseWriter, code int, view search.View) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		logging.Error("Failed to render search page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Warn("Failed to write search page", "error", err)
	}
}

// SearchAPI returns the search view as JSON
func (h *HTTPHandlerImpl) SearchAPI(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSearchRequest(r)
	if err != nil {
		logging.Warn("Invalid search request", "query", req.query, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.dataStore.GetDataset() == nil {
		RespondWithError(w, http.StatusServiceUnavailable, messageNotLoaded)
		return
	}

	RespondWithJSON(w, http.StatusOK, h.restore(req))
}

// LettersAPI returns the starting letters offered for a query
func (h *HTTPHandlerImpl) LettersAPI(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing search query")
		return
	}

	if err := h.validator.ValidateQuery(query); err != nil {
		logging.Warn("Invalid letters request", "query", query, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.dataStore.GetDataset() == nil {
		RespondWithError(w, http.StatusServiceUnavailable, messageNotLoaded)
		return
	}

	view := h.engine.Restore(query, "", 1).View()
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"query":         query,
		"total_matches": view.TotalMatches,
		"letters":       view.Letters,
	})
}

// HealthCheck returns the service health with data and runtime details
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.healthChecker.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status: status,
		Uptime: formatUptimeHuman(time.Since(h.dataStore.GetServerStartTime())),
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}

	if next := h.healthChecker.CalculateNextUpdate(); !next.IsZero() {
		response.NextUpdate = next.Format(time.RFC3339)
	}

	RespondWithJSON(w, httpStatus, response)
}
