package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medicines-search/logging"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrEmptyFile is returned when the source has no header row
	ErrEmptyFile = errors.New("dataset file is empty")
	// ErrMissingNameColumn is returned when the header has no name column
	ErrMissingNameColumn = errors.New("dataset has no name column")
)

// nullTokens are the cell values read as missing, same set a pandas export produces
var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
	"#NA":  {},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileLoader reads the dataset from a local file, downloading it first when a
// URL is configured
type FileLoader struct {
	Path string
	URL  string
}

// NewFileLoader creates a loader for the given path and optional download URL
func NewFileLoader(path, url string) *FileLoader {
	return &FileLoader{Path: path, URL: url}
}

// Load reads and parses the configured file
func (l *FileLoader) Load(ctx context.Context) (*Dataset, error) {
	if l.URL != "" {
		if err := downloadFile(ctx, l.Path, l.URL); err != nil {
			return nil, fmt.Errorf("failed to download dataset: %w", err)
		}
	}

	content, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", l.Path, err)
	}

	ds, err := Parse(bytes.NewReader(content), l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", l.Path, err)
	}

	return ds, nil
}

// Parse reads a comma or tab separated table. Input that is not valid UTF-8
// is decoded as ISO-8859-1.
func Parse(r io.Reader, source string) (*Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	var reader io.Reader
	if utf8.Valid(content) {
		reader = bytes.NewReader(content)
	} else {
		logging.Debug("Dataset is not UTF-8, decoding as ISO-8859-1", "source", source)
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(content))
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = sniffDelimiter(content)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := mapColumns(header)
	if columns[FieldName] < 0 {
		return nil, ErrMissingNameColumn
	}

	var schema Schema
	for f := Field(0); f < fieldCount; f++ {
		schema.present[f] = columns[f] >= 0
	}

	var records []Record
	skippedEmptyLines := 0
	shortRows := 0
	line := 1

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if isBlankRow(row) {
			skippedEmptyLines++
			continue
		}
		if len(row) < len(header) {
			shortRows++
		}

		var record Record
		for f := Field(0); f < fieldCount; f++ {
			idx := columns[f]
			if idx < 0 || idx >= len(row) {
				continue
			}
			value, ok := cellValue(row[idx])
			if !ok {
				continue
			}
			record.set(f, value)
			if !schema.textual[f] && !isNumeric(value) {
				schema.textual[f] = true
			}
		}
		records = append(records, record)
	}

	if skippedEmptyLines > 0 || shortRows > 0 {
		logging.Info("Dataset parsed with irregular rows",
			"source", source,
			"skipped_empty_lines", skippedEmptyLines,
			"short_rows", shortRows,
		)
	}

	if missing := schema.Missing(); len(missing) > 0 {
		logging.Warn("Dataset is missing known columns", "source", source, "columns", missing)
	}

	logging.Info("Dataset parsed", "source", source, "records", len(records))

	return New(records, schema, source), nil
}

// mapColumns returns the header index of every known field, -1 when absent
func mapColumns(header []string) [fieldCount]int {
	var columns [fieldCount]int
	for f := range columns {
		columns[f] = -1
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		for f := Field(0); f < fieldCount; f++ {
			if columns[f] < 0 && name == columnNames[f] {
				columns[f] = i
			}
		}
	}
	return columns
}

// sniffDelimiter picks tab when the header line contains one, comma otherwise
func sniffDelimiter(content []byte) rune {
	firstLine := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return '\t'
	}
	return ','
}

func cellValue(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if _, isNull := nullTokens[value]; isNull {
		return "", false
	}
	return value, true
}

func isNumeric(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
