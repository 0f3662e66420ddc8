package dataset

import "time"

// Schema describes which known columns exist in a loaded file and which of
// them hold text. It is computed once, when the file is parsed.
type Schema struct {
	present [fieldCount]bool
	textual [fieldCount]bool
}

// NewSchema builds a schema where the given fields are present and textual
func NewSchema(fields ...Field) Schema {
	var s Schema
	for _, f := range fields {
		if f >= 0 && f < fieldCount {
			s.present[f] = true
			s.textual[f] = true
		}
	}
	return s
}

// FullSchema returns a schema with every known column present and textual
func FullSchema() Schema {
	fields := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		fields = append(fields, f)
	}
	return NewSchema(fields...)
}

// Present reports whether the column exists in the source file
func (s Schema) Present(f Field) bool {
	return f >= 0 && f < fieldCount && s.present[f]
}

// Textual reports whether the column exists and holds text
func (s Schema) Textual(f Field) bool {
	return f >= 0 && f < fieldCount && s.textual[f]
}

// Searchable returns the search fields that can be matched, in match order
func (s Schema) Searchable() []Field {
	fields := make([]Field, 0, len(SearchFields))
	for _, f := range SearchFields {
		if s.Textual(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Missing returns the known columns absent from the source file
func (s Schema) Missing() []string {
	var missing []string
	for f := Field(0); f < fieldCount; f++ {
		if !s.present[f] {
			missing = append(missing, f.Column())
		}
	}
	return missing
}

// Dataset is an immutable, ordered table of records. It is never modified
// after creation and can be shared between goroutines.
type Dataset struct {
	records  []Record
	schema   Schema
	source   string
	loadedAt time.Time
}

// New creates a dataset from already parsed records
func New(records []Record, schema Schema, source string) *Dataset {
	return &Dataset{
		records:  records,
		schema:   schema,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the record at index i
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns the underlying records. Callers must not modify the slice.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.records
}

func (d *Dataset) Schema() Schema {
	if d == nil {
		return Schema{}
	}
	return d.schema
}

func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}
