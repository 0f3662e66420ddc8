package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medicines-search/data"
	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/search"
)

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) search.View {
	t.Helper()
	var view search.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode view: %v (body %s)", err, rr.Body.String())
	}
	return view
}

func displayNames(view search.View) []string {
	out := make([]string, len(view.Records))
	for i, r := range view.Records {
		out[i] = r.DisplayName
	}
	return out
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		payload      any
		expectedJSON string
	}{
		{"object", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}`},
		{"nil payload", http.StatusOK, nil, `null`},
		{"array", http.StatusCreated, []string{"A", "B"}, `["A","B"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			RespondWithJSON(rr, tt.code, tt.payload)

			if rr.Code != tt.code {
				t.Errorf("Expected status %d, got %d", tt.code, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Unexpected Content-Type %s", ct)
			}
			if rr.Body.String() != tt.expectedJSON {
				t.Errorf("Expected body %s, got %s", tt.expectedJSON, rr.Body.String())
			}
		})
	}
}

func TestRespondWithJSONMarshalError(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondWithJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondWithError(rr, http.StatusBadRequest, "page must be a number")

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if body["error"] != "Bad Request" || body["message"] != "page must be a number" || body["code"] != float64(400) {
		t.Errorf("Unexpected error body %v", body)
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{5 * time.Second, "5s"},
		{2*time.Minute + 3*time.Second, "2m 3s"},
		{time.Hour, "1h 0m 0s"},
		{50*time.Hour + 30*time.Minute, "2d 2h 30m 0s"},
	}

	for _, tt := range tests {
		if got := formatUptimeHuman(tt.duration); got != tt.expected {
			t.Errorf("formatUptimeHuman(%v) = %q, want %q", tt.duration, got, tt.expected)
		}
	}
}

// ============================================================================
// SEARCH API
// ============================================================================

func TestSearchAPI(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	rr := doRequest(handler.SearchAPI, "/v1/search?q=paracetamol")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	view := decodeView(t, rr)

	if view.Phase != "results" || view.Query != "paracetamol" {
		t.Errorf("Unexpected phase %q query %q", view.Phase, view.Query)
	}
	if view.TotalMatches != 3 || view.TotalResults != 3 || view.TotalPages != 1 {
		t.Errorf("Unexpected totals %d/%d/%d", view.TotalMatches, view.TotalResults, view.TotalPages)
	}
	if !reflect.DeepEqual(displayNames(view), []string{"Paracetamol", "Paracetamol IP"}) {
		t.Errorf("Unexpected records %v", displayNames(view))
	}
	if view.Records[1].MatchedSubstitute != "Paracetamol IP" || view.Records[1].Name != "Crocin" {
		t.Errorf("Expected Crocin shown under its substitute, got %+v", view.Records[1])
	}
	if !reflect.DeepEqual(view.Letters, []string{"C", "P"}) {
		t.Errorf("Unexpected letters %v", view.Letters)
	}
}

func TestSearchAPILetterFilter(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	view := decodeView(t, doRequest(handler.SearchAPI, "/v1/search?q=paracetamol&letter=p"))

	if view.Letter != "P" {
		t.Errorf("Expected letter P, got %q", view.Letter)
	}
	if view.TotalResults != 2 {
		t.Errorf("Expected 2 results for P, got %d", view.TotalResults)
	}
	if !reflect.DeepEqual(displayNames(view), []string{"Paracetamol"}) {
		t.Errorf("Unexpected records %v", displayNames(view))
	}

	view = decodeView(t, doRequest(handler.SearchAPI, "/v1/search?q=paracetamol&letter=Z"))
	if view.Message != search.MessageNoLetterResults {
		t.Errorf("Expected %q, got %q", search.MessageNoLetterResults, view.Message)
	}
}

func TestSearchAPIPunctuationLetters(t *testing.T) {
	handler := newTestHandler(t, createDataContainer([]dataset.Record{
		{Name: "(R)-Tablet"},
		{Name: "Paracetamol Tablet"},
		{Name: "-Mox Tablet"},
	}))

	view := decodeView(t, doRequest(handler.SearchAPI, "/v1/search?q=tablet"))
	if !reflect.DeepEqual(view.Letters, []string{"(", "-", "P"}) {
		t.Fatalf("Unexpected letters %v", view.Letters)
	}

	// Every offered letter must be accepted back as a filter
	for _, letter := range view.Letters {
		t.Run(letter, func(t *testing.T) {
			rr := doRequest(handler.SearchAPI, "/v1/search?q=tablet&letter="+url.QueryEscape(letter))
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			filtered := decodeView(t, rr)
			if filtered.TotalResults != 1 || !strings.HasPrefix(filtered.Records[0].Name, letter) {
				t.Errorf("Expected the record starting with %q, got %v", letter, displayNames(filtered))
			}
		})
	}
}

func TestSearchAPIQueriesWithSymbols(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	for _, q := range []string{"<b>dolo</b>", strings.Repeat("a", 101), "a b c d e f g h i j k"} {
		rr := doRequest(handler.SearchAPI, "/v1/search?q="+url.QueryEscape(q))
		if rr.Code != http.StatusOK {
			t.Fatalf("%q: expected status 200, got %d", q, rr.Code)
		}
		if view := decodeView(t, rr); view.Message != search.MessageNoResults {
			t.Errorf("%q: expected %q, got %q", q, search.MessageNoResults, view.Message)
		}
	}
}

func TestSearchAPIMessages(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	tests := []struct {
		name    string
		target  string
		phase   string
		message string
	}{
		{"missing query", "/v1/search", "idle", search.MessagePrompt},
		{"blank query", "/v1/search?q=%20%20", "idle", search.MessagePrompt},
		{"no matches", "/v1/search?q=insulin", "results", search.MessageNoResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(handler.SearchAPI, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rr.Code)
			}

			view := decodeView(t, rr)
			if view.Phase != tt.phase || view.Message != tt.message {
				t.Errorf("Expected %s/%q, got %s/%q", tt.phase, tt.message, view.Phase, view.Message)
			}
			if len(view.Records) != 0 {
				t.Errorf("Expected no records, got %d", len(view.Records))
			}
		})
	}
}

func TestSearchAPIPagination(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createNumberedRecords(20)))

	tests := []struct {
		target        string
		expectedPage  int
		expectedCount int
		expectedFirst string
	}{
		{"/v1/search?q=medicine", 1, 15, "Medicine 01"},
		{"/v1/search?q=medicine&page=2", 2, 5, "Medicine 16"},
		{"/v1/search?q=medicine&page=9", 2, 5, "Medicine 16"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			view := decodeView(t, doRequest(handler.SearchAPI, tt.target))

			if view.TotalPages != 2 || view.PageSize != search.PageSize {
				t.Errorf("Expected 2 pages of %d, got %d of %d", search.PageSize, view.TotalPages, view.PageSize)
			}
			if view.Page != tt.expectedPage {
				t.Errorf("Expected page %d, got %d", tt.expectedPage, view.Page)
			}
			if len(view.Records) != tt.expectedCount || view.Records[0].Name != tt.expectedFirst {
				t.Errorf("Expected %d records starting at %s, got %v", tt.expectedCount, tt.expectedFirst, displayNames(view))
			}
		})
	}
}

func TestSearchAPIInvalidInput(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	targets := []string{
		"/v1/search?q=para%00cetamol",
		"/v1/search?q=dolo&letter=PA",
		"/v1/search?q=dolo&letter=%00",
		"/v1/search?q=dolo&page=abc",
		"/v1/search?q=dolo&page=0",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rr := doRequest(handler.SearchAPI, target)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body["code"] != float64(http.StatusBadRequest) || body["message"] == "" {
				t.Errorf("Unexpected error body %v", body)
			}
		})
	}
}

func TestSearchAPIWithoutDataset(t *testing.T) {
	handler := newTestHandler(t, data.NewDataContainer())

	rr := doRequest(handler.SearchAPI, "/v1/search?q=dolo")

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}
}

// ============================================================================
// SEARCH PAGE
// ============================================================================

func TestSearchPage(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	rr := doRequest(handler.SearchPage, "/?q=paracetamol")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Unexpected Content-Type %s", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"<h1>Paracetamol IP</h1>",
		"Note: 'Paracetamol IP' was matched as a substitute.",
		"Filter by Starting Letter",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
}

func TestSearchPageIdle(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	rr := doRequest(handler.SearchPage, "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), search.MessagePrompt) {
		t.Error("Expected the prompt on the idle page")
	}
}

func TestSearchPageErrors(t *testing.T) {
	tests := []struct {
		name           string
		handler        *HTTPHandlerImpl
		target         string
		expectedStatus int
		expectedText   string
	}{
		{
			name:           "invalid page",
			handler:        newTestHandler(t, createDataContainer(createRecords())),
			target:         "/?q=dolo&page=-1",
			expectedStatus: http.StatusBadRequest,
			expectedText:   "Invalid search",
		},
		{
			name:           "no dataset",
			handler:        newTestHandler(t, data.NewDataContainer()),
			target:         "/?q=dolo",
			expectedStatus: http.StatusServiceUnavailable,
			expectedText:   messageNotLoaded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(tt.handler.SearchPage, tt.target)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.expectedText) {
				t.Errorf("Expected page to contain %q", tt.expectedText)
			}
		})
	}
}

func TestSearchPageRenderError(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))
	handler.renderer = &MockRenderer{err: errors.New("template broken")}

	rr := doRequest(handler.SearchPage, "/?q=dolo")

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
}

// ============================================================================
// LETTERS API
// ============================================================================

func TestLettersAPI(t *testing.T) {
	handler := newTestHandler(t, createDataContainer(createRecords()))

	tests := []struct {
		target          string
		expectedStatus  int
		expectedLetters []any
	}{
		{"/v1/letters?q=paracetamol", http.StatusOK, []any{"C", "P"}},
		{"/v1/letters?q=azee", http.StatusOK, []any{}},
		{"/v1/letters?q=insulin", http.StatusOK, []any{}},
		{"/v1/letters", http.StatusBadRequest, nil},
		{"/v1/letters?q=%3Cb%3E", http.StatusOK, []any{}},
		{"/v1/letters?q=%00", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := doRequest(handler.LettersAPI, tt.target)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if !reflect.DeepEqual(body["letters"], tt.expectedLetters) {
				t.Errorf("Expected letters %v, got %v", tt.expectedLetters, body["letters"])
			}
		})
	}
}

func TestLettersAPIWithoutDataset(t *testing.T) {
	handler := newTestHandler(t, data.NewDataContainer())

	if rr := doRequest(handler.LettersAPI, "/v1/letters?q=dolo"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}
}

// ============================================================================
// HEALTH
// ============================================================================

func TestHealthCheck(t *testing.T) {
	store := createDataContainer(createRecords())
	handler := newTestHandler(t, store)

	next := time.Date(2030, 1, 2, 6, 0, 0, 0, time.UTC)
	handler.healthChecker = &MockHealthChecker{
		status:     "healthy",
		details:    map[string]any{"records": 4},
		httpStatus: http.StatusOK,
		nextUpdate: next,
	}

	rr := doRequest(handler.HealthCheck, "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", response.Status)
	}
	if response.NextUpdate != next.Format(time.RFC3339) {
		t.Errorf("Unexpected next update %s", response.NextUpdate)
	}
	if response.Data["records"] != float64(4) {
		t.Errorf("Unexpected data %v", response.Data)
	}
	if !strings.HasPrefix(response.Uptime, "1h 30m") {
		t.Errorf("Expected uptime around 1h 30m, got %s", response.Uptime)
	}
	if _, ok := response.System["goroutines"]; !ok {
		t.Error("Expected goroutines in system details")
	}
}

func TestHealthCheckUnhealthy(t *testing.T) {
	handler := newTestHandler(t, data.NewDataContainer())
	handler.healthChecker = &MockHealthChecker{
		status:     "unhealthy",
		details:    map[string]any{},
		httpStatus: http.StatusServiceUnavailable,
	}

	rr := doRequest(handler.HealthCheck, "/health")

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "next_update") {
		t.Error("Expected no next_update when reloads are disabled")
	}
}
