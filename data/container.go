// Package data provides thread-safe storage of the active medicines dataset.
// Snapshots are swapped atomically so readers never see a partial update.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current dataset snapshot
type DataContainer struct {
	dataset         atomic.Pointer[dataset.Dataset]
	report          atomic.Pointer[interfaces.DataQualityReport]
	generation      atomic.Uint64
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates an empty DataContainer
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetDataset returns the active dataset, nil before the first load
func (dc *DataContainer) GetDataset() *dataset.Dataset {
	ds := dc.dataset.Load()
	if ds == nil {
		logging.Debug("Dataset requested before the first load")
	}
	return ds
}

// GetRecordCount returns the number of records in the active dataset
func (dc *DataContainer) GetRecordCount() int {
	return dc.dataset.Load().Len()
}

// GetGeneration returns a counter incremented on every dataset swap
func (dc *DataContainer) GetGeneration() uint64 {
	return dc.generation.Load()
}

// GetDataQualityReport returns the report computed for the active dataset
func (dc *DataContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	return dc.report.Load()
}

// GetLastUpdated returns the timestamp of the last dataset swap
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a dataset load is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// UpdateData atomically replaces the active dataset
func (dc *DataContainer) UpdateData(ds *dataset.Dataset, report *interfaces.DataQualityReport) {
	dc.dataset.Store(ds)
	dc.report.Store(report)
	dc.lastUpdated.Store(time.Now())
	dc.generation.Add(1)
}

// BeginUpdate marks the start of a dataset load.
// Returns false if another load is already running.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a dataset load
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
