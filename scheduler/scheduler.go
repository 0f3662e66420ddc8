// Package scheduler loads the medicines dataset at startup and reloads it on a
// daily schedule. Reloads swap the snapshot in the data store; a failed reload
// keeps the previous snapshot active.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/metrics"
	"github.com/go-co-op/gocron"
)

// loadTimeout bounds a single dataset load, download included
const loadTimeout = 10 * time.Minute

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset loads and staleness monitoring
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	validator interfaces.DataValidator
	reloadAt  string
	scheduler *gocron.Scheduler
	stop      chan struct{}
	onUpdate  []func()
}

// NewScheduler creates a scheduler. reloadAt is a gocron At() spec such as
// "06:00;18:00"; an empty value loads once and never reloads.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator, reloadAt string) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		reloadAt:  reloadAt,
		scheduler: gocron.NewScheduler(time.Local),
		stop:      make(chan struct{}),
	}
}

// OnUpdate registers fn to run after each successful swap, e.g. to drop
// results cached for the previous dataset. Register before Start.
func (s *Scheduler) OnUpdate(fn func()) {
	s.onUpdate = append(s.onUpdate, fn)
}

// Start performs the initial load and schedules the reloads
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	if s.reloadAt == "" {
		logging.Info("Dataset reloads disabled")
		return nil
	}

	_, err := s.scheduler.Every(1).Days().At(s.reloadAt).Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to reload data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Dataset reloads scheduled", "at", s.reloadAt)

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduled reloads and the monitoring goroutine
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// updateData loads the dataset, reports its quality and swaps it in
func (s *Scheduler) updateData() error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting dataset load")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	report := s.validator.ReportDataQuality(ds)
	logReport(report)

	s.dataStore.UpdateData(ds, report)
	for _, fn := range s.onUpdate {
		fn()
	}

	metrics.DatasetLoadsTotal.WithLabelValues("success").Inc()
	metrics.DatasetRecords.Set(float64(ds.Len()))

	logging.Info("Dataset load completed",
		"duration", time.Since(start).String(),
		"record_count", ds.Len(),
		"source", ds.Source(),
	)

	return nil
}

// logReport logs the quality issues of a freshly loaded dataset
func logReport(report *interfaces.DataQualityReport) {
	if report.RecordsWithoutName > 0 {
		logging.Warn("Records without a name", "count", report.RecordsWithoutName)
	}

	if len(report.DuplicateNames) > 0 {
		logging.Warn("Duplicate medicine names detected",
			"total", len(report.DuplicateNames),
			"names", report.DuplicateNames,
		)
	}

	if len(report.MissingColumns) > 0 {
		logging.Warn("Known columns missing from the dataset", "columns", report.MissingColumns)
	}

	if len(report.NonTextualSearchColumns) > 0 {
		logging.Warn("Search columns without text are skipped", "columns", report.NonTextualSearchColumns)
	}
}

// startHealthMonitoring warns when the dataset has not been reloaded for
// more than a day
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Data hasn't been updated in over 25 hours")
				}
			}
		}
	}()
}

// NextUpdate returns the first reload time of spec strictly after now, or
// the zero time when spec is empty or invalid
func NextUpdate(spec string, now time.Time) time.Time {
	if spec == "" {
		return time.Time{}
	}

	var candidates []time.Time
	for _, entry := range strings.Split(spec, ";") {
		at, err := time.Parse("15:04", strings.TrimSpace(entry))
		if err != nil {
			return time.Time{}
		}

		next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		candidates = append(candidates, next)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return candidates[0]
}
