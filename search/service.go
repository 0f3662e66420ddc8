package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// DatasetSource provides the current dataset snapshot and a generation number
// that changes whenever the snapshot is replaced
type DatasetSource interface {
	GetDataset() *dataset.Dataset
	GetGeneration() uint64
}

// Engine runs searches against the current dataset and caches match lists
// per dataset generation and query
type Engine struct {
	source DatasetSource
	cache  *gocache.Cache
}

// NewEngine creates an engine. A zero cacheTTL disables the result cache.
func NewEngine(source DatasetSource, cacheTTL time.Duration) *Engine {
	e := &Engine{source: source}
	if cacheTTL > 0 {
		e.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return e
}

// Search returns the matches of query in the current dataset
func (e *Engine) Search(query string) []dataset.Record {
	matches, _ := e.search(query)
	return matches
}

// search returns the matches and the schema of the dataset they came from
func (e *Engine) search(query string) ([]dataset.Record, dataset.Schema) {
	ds := e.source.GetDataset()
	if ds == nil {
		return nil, dataset.Schema{}
	}

	key := strconv.FormatUint(e.source.GetGeneration(), 10) + "|" + strings.ToLower(query)
	if e.cache != nil {
		if cached, found := e.cache.Get(key); found {
			metrics.SearchCacheRequests.WithLabelValues("hit").Inc()
			return cached.([]dataset.Record), ds.Schema()
		}
		metrics.SearchCacheRequests.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	matches := Search(ds, query)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(matches)))

	logging.Debug("Search executed",
		"query", query,
		"matches", len(matches),
		"duration", time.Since(start).String(),
	)

	if e.cache != nil {
		e.cache.SetDefault(key, matches)
	}
	return matches, ds.Schema()
}

// Submit handles a submitted query. A blank query returns to the idle state,
// anything else starts a fresh results state, dropping the previous letter
// and page.
func (e *Engine) Submit(_ State, query string) State {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.SearchesTotal.WithLabelValues("prompt").Inc()
		return NewState()
	}

	matches, schema := e.search(query)
	if len(matches) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchesTotal.WithLabelValues("results").Inc()
	}
	return WithResults(query, matches).withSchema(schema)
}

// Restore rebuilds a session state from its query, letter and page, going
// through the same transitions a user would
func (e *Engine) Restore(query, letter string, page int) State {
	return e.Submit(NewState(), query).SelectLetter(letter).SelectPage(page)
}

// Flush drops every cached match list
func (e *Engine) Flush() {
	if e.cache != nil {
		e.cache.Flush()
	}
}

// StaticSource serves a single dataset that never changes
type StaticSource struct {
	Dataset *dataset.Dataset
}

func (s StaticSource) GetDataset() *dataset.Dataset { return s.Dataset }

func (s StaticSource) GetGeneration() uint64 { return 1 }
