package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/medicines-search/data"
	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/render"
	"github.com/giygas/medicines-search/search"
	"github.com/giygas/medicines-search/validation"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

func subs(values ...string) [dataset.SubstituteSlots]string {
	var out [dataset.SubstituteSlots]string
	copy(out[:], values)
	return out
}

// createRecords returns a small dataset covering substitute swapping,
// duplicates and several starting letters
func createRecords() []dataset.Record {
	return []dataset.Record{
		{Name: "Paracetamol", Substitutes: subs("Dolo650"), TherapeuticClass: "PAIN ANALGESICS", UseCases: "Fever"},
		{Name: "Panadol", Substitutes: subs("Paracetamol"), TherapeuticClass: "PAIN ANALGESICS"},
		{Name: "Crocin", Substitutes: subs("Calpol", "Paracetamol IP"), UseCases: "Fever"},
		{Name: "Azithral 500", Substitutes: subs("Azee 500"), TherapeuticClass: "ANTI INFECTIVES"},
	}
}

// createNumberedRecords returns count records all matching "medicine"
func createNumberedRecords(count int) []dataset.Record {
	records := make([]dataset.Record, count)
	for i := range records {
		records[i] = dataset.Record{Name: fmt.Sprintf("Medicine %02d", i+1)}
	}
	return records
}

// createDataContainer returns a container loaded with records
func createDataContainer(records []dataset.Record) *data.DataContainer {
	dc := data.NewDataContainer()
	dc.SetServerStartTime(time.Now().Add(-90 * time.Minute))
	dc.UpdateData(dataset.New(records, dataset.FullSchema(), "test"), &interfaces.DataQualityReport{TotalRecords: len(records)})
	return dc
}

// ============================================================================
// MOCKS
// ============================================================================

// MockHealthChecker implements interfaces.HealthChecker for testing
type MockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
	nextUpdate time.Time
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

func (m *MockHealthChecker) CalculateNextUpdate() time.Time {
	return m.nextUpdate
}

// MockRenderer implements interfaces.Renderer and always fails
type MockRenderer struct {
	err error
}

func (m *MockRenderer) Render(w io.Writer, view search.View) error {
	return m.err
}

func (m *MockRenderer) ContentType() string {
	return "text/plain"
}

// ============================================================================
// HELPERS
// ============================================================================

func newTestHandler(t *testing.T, store interfaces.DataStore) *HTTPHandlerImpl {
	t.Helper()
	logging.InitDiscardLogger()

	return NewHTTPHandler(
		store,
		validation.NewDataValidator(),
		search.NewEngine(store, time.Minute),
		render.NewHTMLRenderer(),
		&MockHealthChecker{status: "healthy", details: map[string]any{"records": store.GetRecordCount()}, httpStatus: http.StatusOK},
	)
}

func doRequest(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}
