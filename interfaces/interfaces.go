// Package interfaces defines the core abstractions of the medicines search
// service so components can be wired and tested independently.
package interfaces

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/search"
)

// DataQualityReport summarizes quality issues found in a loaded dataset.
// Issues are reported, never fixed: the dataset is searched as loaded.
type DataQualityReport struct {
	TotalRecords            int
	RecordsWithoutName      int
	DuplicateNames          []string // Names carried by more than one record
	RecordsWithSubstitutes  int
	MissingColumns          []string // Known columns absent from the file
	NonTextualSearchColumns []string // Present search columns holding no text
}

// DataStore defines thread-safe access to the active dataset with atomic
// replacement for reloads.
type DataStore interface {
	GetDataset() *dataset.Dataset
	GetRecordCount() int
	GetGeneration() uint64
	GetDataQualityReport() *DataQualityReport
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateData(ds *dataset.Dataset, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Loader reads the medicines table from its source
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Scheduler manages the initial dataset load and periodic reloads
type Scheduler interface {
	Start() error
	Stop()
}

// SearchEngine rebuilds a search session against the active dataset from the
// values carried in a request
type SearchEngine interface {
	Restore(query, letter string, page int) search.State
}

// HTTPHandler defines the HTTP endpoints of the service
type HTTPHandler interface {
	SearchPage(w http.ResponseWriter, r *http.Request)
	SearchAPI(w http.ResponseWriter, r *http.Request)
	LettersAPI(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports the health of the service
type HealthChecker interface {
	// HealthCheck returns the status name, details and the HTTP status to send
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload, zero when reloads are disabled
	CalculateNextUpdate() time.Time
}

// DataValidator validates user input and reports on dataset quality
type DataValidator interface {
	// ValidateQuery checks a non-empty search query
	ValidateQuery(query string) error

	// ValidateLetter checks a letter filter value, empty means no filter
	ValidateLetter(letter string) error

	// ParsePage parses a 1-based page number, empty means the first page
	ParsePage(input string) (int, error)

	// ReportDataQuality inspects a dataset and lists its issues
	ReportDataQuality(ds *dataset.Dataset) *DataQualityReport
}

// Renderer draws a search view. Implementations are swappable: the server
// uses HTML, the CLI uses plain text.
type Renderer interface {
	Render(w io.Writer, view search.View) error
	ContentType() string
}
